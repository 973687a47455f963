// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(next http.Handler) http.Handler { return next }

type sweeperFunc func(ctx context.Context) (int, error)

func (f sweeperFunc) Run(ctx context.Context) (int, error) { return f(ctx) }

func newRouter(cfg HandlerConfig) http.Handler {
	r := chi.NewRouter()
	NewHandler(cfg).RegisterRoutes(r, passthrough, passthrough)
	return r
}

func TestSweepDrafts(t *testing.T) {
	t.Run("reports deleted count", func(t *testing.T) {
		router := newRouter(HandlerConfig{
			Sweeper: sweeperFunc(func(context.Context) (int, error) { return 4, nil }),
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/drafts/cleanup", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data SweepResponse `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 4, body.Data.DeletedCount)
	})

	t.Run("failure is a 500", func(t *testing.T) {
		router := newRouter(HandlerConfig{
			Sweeper: sweeperFunc(func(context.Context) (int, error) { return 0, errors.New("boom") }),
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/drafts/cleanup", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

type fakeDB struct{ err error }

func (f fakeDB) Ping(context.Context) error { return f.err }
func (f fakeDB) Stats() sql.DBStats { return sql.DBStats{MaxOpenConnections: 25, InUse: 3} }

type fakeCache struct{ err error }

func (f fakeCache) Ping(context.Context) error { return f.err }
func (f fakeCache) PoolStats() *redis.PoolStats { return &redis.PoolStats{TotalConns: 4} }

func TestSystemStatsReportsUnhealthyDependencies(t *testing.T) {
	router := newRouter(HandlerConfig{
		Database: fakeDB{},
		Cache:    fakeCache{err: errors.New("connection refused")},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	require.NotNil(t, body.Data.Database)
	assert.True(t, body.Data.Database.Healthy)
	assert.Equal(t, 3, body.Data.Database.Pool.InUse)

	require.NotNil(t, body.Data.Redis)
	assert.False(t, body.Data.Redis.Healthy)
	assert.Equal(t, "connection refused", body.Data.Redis.Error)
	assert.EqualValues(t, 4, body.Data.Redis.Pool.TotalConns)

	assert.NotEmpty(t, body.Data.Runtime.GoVersion)
}

func TestSystemStatsOmitsUnconfiguredDependencies(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(HandlerConfig{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"database"`)
	assert.NotContains(t, rec.Body.String(), `"redis"`)
}

func TestPlatformStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{
			"users", "presentations", "public_presentations", "slides",
			"slide_versions", "drafts", "public_views",
		}).AddRow(12, 30, 4, 210, 95, 7, 1300))
	mock.ExpectQuery(`FROM users u\s+LEFT JOIN plans p`).
		WillReturnRows(sqlmock.NewRows([]string{"slug", "users"}).
			AddRow("free", 9).
			AddRow("premium", 3))
	mock.ExpectQuery(`FROM payments\s+GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("CONFIRMED", 5))

	stats, err := NewUsageRepository(sqlx.NewDb(db, "sqlmock")).Platform(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, stats.Users)
	assert.Equal(t, 4, stats.PublicPresentations)
	assert.Equal(t, int64(1300), stats.PublicViews)
	require.Len(t, stats.UsersByPlan, 2)
	assert.Equal(t, "free", stats.UsersByPlan[0].Slug)
	assert.Equal(t, []StatusCount{{Status: "CONFIRMED", Count: 5}}, stats.PaymentsByStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}
