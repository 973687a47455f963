// AngelaMos | 2026
// cache_test.go

package plan

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slideview/internal/core"
)

type countingRepo struct {
	plans []Plan
	calls map[string]int
}

func newCountingRepo(plans ...Plan) *countingRepo {
	return &countingRepo{plans: plans, calls: map[string]int{}}
}

func (r *countingRepo) ListActive(context.Context) ([]Plan, error) {
	r.calls["ListActive"]++
	var out []Plan
	for _, p := range r.plans {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *countingRepo) GetByID(_ context.Context, id int64) (*Plan, error) {
	r.calls["GetByID"]++
	for i := range r.plans {
		if r.plans[i].ID == id {
			p := r.plans[i]
			return &p, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r *countingRepo) GetBySlug(_ context.Context, slug string) (*Plan, error) {
	r.calls["GetBySlug"]++
	for i := range r.plans {
		if r.plans[i].Slug == slug {
			p := r.plans[i]
			return &p, nil
		}
	}
	return nil, core.ErrNotFound
}

func intp(n int) *int { return &n }

func premium() Plan {
	return Plan{
		ID:               2,
		Name:             "Premium",
		Slug:             "premium",
		Price:            "29.90",
		BillingCycle:     CycleMonthly,
		Features:         core.JSONMap{"premium_templates": true},
		MaxPresentations: nil,
		MaxSlides:        intp(100),
		IsActive:         true,
	}
}

func newCache(t *testing.T, next Repository) (*CachedRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCachedRepository(next, client, time.Minute, logger), mr
}

func TestCachedRepositoryServesRepeatReadsFromRedis(t *testing.T) {
	repo := newCountingRepo(premium())
	cache, mr := newCache(t, repo)
	ctx := context.Background()

	first, err := cache.GetBySlug(ctx, "premium")
	require.NoError(t, err)
	second, err := cache.GetBySlug(ctx, "premium")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls["GetBySlug"])
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 100, *second.MaxSlides)
	assert.Nil(t, second.MaxPresentations, "unlimited survives the round trip")
	assert.True(t, mr.Exists("plan:slug:premium"))
	assert.Equal(t, time.Minute, mr.TTL("plan:slug:premium"))
}

func TestCachedRepositoryExpiresEntries(t *testing.T) {
	repo := newCountingRepo(premium())
	cache, mr := newCache(t, repo)
	ctx := context.Background()

	_, err := cache.GetByID(ctx, 2)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls["GetByID"])
}

func TestCachedRepositoryDoesNotCacheMisses(t *testing.T) {
	repo := newCountingRepo()
	cache, mr := newCache(t, repo)

	_, err := cache.GetBySlug(context.Background(), "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.False(t, mr.Exists("plan:slug:ghost"))
}

func TestCachedRepositoryFallsThroughWhenRedisIsDown(t *testing.T) {
	repo := newCountingRepo(premium(), Plan{ID: 3, Slug: "legacy", Price: "9.90"})
	cache, mr := newCache(t, repo)
	mr.Close()

	plans, err := cache.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "premium", plans[0].Slug)
}
