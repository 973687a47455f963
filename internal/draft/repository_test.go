// AngelaMos | 2026
// repository_test.go

package draft

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slideview/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var draftRowColumns = []string{
	"id", "user_id", "presentation_id", "type", "title", "content",
	"metadata", "last_saved_at", "created_at", "updated_at",
}

func TestUpsertIsSingleConflictAwareStatement(t *testing.T) {
	repo, mock := newMockRepo(t)
	saved := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(
		regexp.QuoteMeta(`ON CONFLICT (user_id, (COALESCE(presentation_id, 0)), type)`) +
			`.*` +
			regexp.QuoteMeta(`metadata = COALESCE(EXCLUDED.metadata, drafts.metadata)`),
	).
		WithArgs("alice", int64(7), "slide", nil, "body", nil).
		WillReturnRows(sqlmock.NewRows(draftRowColumns).AddRow(
			int64(3), "alice", int64(7), "slide", nil, "body",
			[]byte(`{"cursor":2}`), saved, saved, saved,
		))

	presentationID := int64(7)
	d, err := repo.Upsert(context.Background(), Key{
		UserID: "alice",
		Kind:   Kind{Type: TypeSlide, PresentationID: &presentationID},
	}, nil, "body", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), d.ID)
	assert.Equal(t, TypeSlide, d.Type)
	assert.Equal(t, int64(7), *d.PresentationID)
	assert.Equal(t, float64(2), d.Metadata["cursor"])
	assert.Equal(t, saved, d.LastSavedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOwnedMapsMissingRowToNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(9), "mallory").
		WillReturnRows(sqlmock.NewRows(draftRowColumns))

	_, err := repo.GetOwned(context.Background(), 9, "mallory")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStaleReturnsDeletedCount(t *testing.T) {
	repo, mock := newMockRepo(t)
	cutoff := time.Date(2026, 5, 3, 8, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM drafts WHERE user_id = $1 AND last_saved_at < $2`)).
		WithArgs("alice", cutoff).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteStale(context.Background(), "alice", cutoff)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingDraftIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM drafts WHERE id = $1 AND user_id = $2`)).
		WithArgs(int64(4), "mallory").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 4, "mallory")
	assert.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
