// AngelaMos | 2026
// repository.go

package version

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Repository interface {
	// LockSlide reads the slide's current fields and holds its row lock until
	// the surrounding transaction ends.
	LockSlide(ctx context.Context, slideID int64) (*Snapshot, error)
	NextNumber(ctx context.Context, slideID int64) (int, error)
	Insert(ctx context.Context, v *SlideVersion) error
	GetForSlide(ctx context.Context, slideID, versionID int64) (*SlideVersion, error)
	ListForSlide(ctx context.Context, slideID int64, limit int) ([]SlideVersion, error)
	ApplySnapshot(ctx context.Context, slideID int64, s Snapshot) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) LockSlide(
	ctx context.Context,
	slideID int64,
) (*Snapshot, error) {
	query := `
		SELECT title, content, notes, metadata
		FROM slides
		WHERE id = $1
		FOR UPDATE`

	var s Snapshot
	err := r.db.GetContext(ctx, &s, query, slideID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock slide: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock slide: %w", err)
	}

	return &s, nil
}

func (r *repository) NextNumber(ctx context.Context, slideID int64) (int, error) {
	query := `
		SELECT COALESCE(MAX(version_number), 0) + 1
		FROM slide_versions
		WHERE slide_id = $1`

	var n int
	if err := r.db.GetContext(ctx, &n, query, slideID); err != nil {
		return 0, fmt.Errorf("next version number: %w", err)
	}

	return n, nil
}

func (r *repository) Insert(ctx context.Context, v *SlideVersion) error {
	query := `
		INSERT INTO slide_versions (
			slide_id, user_id, version_number, title, content, notes,
			metadata, change_description
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		v.SlideID,
		v.UserID,
		v.VersionNumber,
		v.Title,
		v.Content,
		v.Notes,
		v.Metadata,
		v.ChangeDescription,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert version: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("insert version: %w", err)
	}

	return nil
}

const selectVersion = `
	SELECT v.id, v.slide_id, v.user_id, COALESCE(u.name, '') AS user_name,
	       v.version_number, v.title, v.content, v.notes, v.metadata,
	       v.change_description, v.created_at
	FROM slide_versions v
	LEFT JOIN users u ON u.id = v.user_id`

func (r *repository) GetForSlide(
	ctx context.Context,
	slideID, versionID int64,
) (*SlideVersion, error) {
	query := selectVersion + `
		WHERE v.id = $1 AND v.slide_id = $2`

	var v SlideVersion
	err := r.db.GetContext(ctx, &v, query, versionID, slideID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get version: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &v, nil
}

func (r *repository) ListForSlide(
	ctx context.Context,
	slideID int64,
	limit int,
) ([]SlideVersion, error) {
	query := selectVersion + `
		WHERE v.slide_id = $1
		ORDER BY v.version_number DESC
		LIMIT $2`

	var versions []SlideVersion
	if err := r.db.SelectContext(ctx, &versions, query, slideID, limit); err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}

	return versions, nil
}

func (r *repository) ApplySnapshot(
	ctx context.Context,
	slideID int64,
	s Snapshot,
) error {
	query := `
		UPDATE slides
		SET title = $2, content = $3, notes = $4, metadata = $5,
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		slideID,
		s.Title,
		s.Content,
		s.Notes,
		s.Metadata,
	)
	if err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply snapshot: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("apply snapshot: %w", core.ErrNotFound)
	}

	return nil
}
