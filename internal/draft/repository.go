// AngelaMos | 2026
// repository.go

package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Repository interface {
	// Upsert writes the draft for key in one statement. Concurrent saves of
	// the same key leave exactly one row holding the last write.
	Upsert(ctx context.Context, key Key, title *string, content string, metadata core.JSONMap) (*Draft, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]Draft, error)
	GetOwned(ctx context.Context, id int64, userID string) (*Draft, error)
	Delete(ctx context.Context, id int64, userID string) error
	DeleteStale(ctx context.Context, userID string, cutoff time.Time) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const draftColumns = `
	id, user_id, presentation_id, type, title, content, metadata,
	last_saved_at, created_at, updated_at`

func (r *repository) Upsert(
	ctx context.Context,
	key Key,
	title *string,
	content string,
	metadata core.JSONMap,
) (*Draft, error) {
	query := `
		INSERT INTO drafts (
			user_id, presentation_id, type, title, content, metadata,
			last_saved_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, (COALESCE(presentation_id, 0)), type)
		DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			metadata = COALESCE(EXCLUDED.metadata, drafts.metadata),
			last_saved_at = NOW(),
			updated_at = NOW()
		RETURNING ` + draftColumns

	var d Draft
	err := r.db.GetContext(ctx, &d, query,
		key.UserID,
		key.Kind.PresentationID,
		string(key.Kind.Type),
		title,
		content,
		metadata,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert draft: %w", err)
	}

	return &d, nil
}

func (r *repository) ListRecent(
	ctx context.Context,
	userID string,
	limit int,
) ([]Draft, error) {
	query := `SELECT ` + draftColumns + `
		FROM drafts
		WHERE user_id = $1
		ORDER BY last_saved_at DESC, id DESC
		LIMIT $2`

	var drafts []Draft
	if err := r.db.SelectContext(ctx, &drafts, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	return drafts, nil
}

func (r *repository) GetOwned(
	ctx context.Context,
	id int64,
	userID string,
) (*Draft, error) {
	query := `SELECT ` + draftColumns + `
		FROM drafts
		WHERE id = $1 AND user_id = $2`

	var d Draft
	err := r.db.GetContext(ctx, &d, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get draft: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	return &d, nil
}

func (r *repository) Delete(ctx context.Context, id int64, userID string) error {
	query := `DELETE FROM drafts WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete draft: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteStale(
	ctx context.Context,
	userID string,
	cutoff time.Time,
) (int, error) {
	query := `DELETE FROM drafts WHERE user_id = $1 AND last_saved_at < $2`

	result, err := r.db.ExecContext(ctx, query, userID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale drafts: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete stale drafts: %w", err)
	}

	return int(rows), nil
}
