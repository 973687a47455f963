// AngelaMos | 2026
// repository.go

package presentation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Presentation, error)
	// GetOwned returns ErrNotFound both when the presentation does not
	// exist and when it belongs to someone else.
	GetOwned(ctx context.Context, id int64, userID string) (*Presentation, error)
	Create(ctx context.Context, p *Presentation) error
	Update(ctx context.Context, p *Presentation) error
	Delete(ctx context.Context, id int64, userID string) error
	// SyncSlides recounts the live slides into slide_count and touches
	// last_edited_at.
	SyncSlides(ctx context.Context, id int64) (int, error)
	Touch(ctx context.Context, id int64) error

	ListSlides(ctx context.Context, presentationID int64) ([]Slide, error)
	SlideIDs(ctx context.Context, presentationID int64) ([]int64, error)
	CountSlides(ctx context.Context, presentationID int64) (int, error)
	GetSlide(ctx context.Context, presentationID, slideID int64) (*Slide, error)
	CreateSlide(ctx context.Context, s *Slide) error
	UpdateSlide(ctx context.Context, s *Slide) error
	DeleteSlide(ctx context.Context, presentationID, slideID int64) error
	DeleteSlides(ctx context.Context, presentationID int64, ids []int64) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const presentationColumns = `
	id, user_id, title, description, thumbnail, status, settings,
	slide_count, last_edited_at, is_public, share_token, allow_embed,
	shared_at, view_count, created_at, updated_at`

const slideColumns = `
	id, presentation_id, "order", title, content, notes, metadata,
	created_at, updated_at`

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
) ([]Presentation, error) {
	query := `SELECT ` + presentationColumns + `
		FROM presentations
		WHERE user_id = $1
		ORDER BY last_edited_at DESC NULLS LAST, id DESC`

	var items []Presentation
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}

	return items, nil
}

func (r *repository) GetOwned(
	ctx context.Context,
	id int64,
	userID string,
) (*Presentation, error) {
	query := `SELECT ` + presentationColumns + `
		FROM presentations
		WHERE id = $1 AND user_id = $2`

	var p Presentation
	err := r.db.GetContext(ctx, &p, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get presentation: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get presentation: %w", err)
	}

	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Presentation) error {
	query := `
		INSERT INTO presentations (
			user_id, title, description, thumbnail, status, settings,
			last_edited_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, slide_count, last_edited_at, view_count,
		          created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.UserID,
		p.Title,
		p.Description,
		p.Thumbnail,
		p.Status,
		p.Settings,
	).Scan(
		&p.ID,
		&p.SlideCount,
		&p.LastEditedAt,
		&p.ViewCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create presentation: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, p *Presentation) error {
	query := `
		UPDATE presentations
		SET title = $3, description = $4, thumbnail = $5, status = $6,
		    settings = $7, last_edited_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING last_edited_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Description,
		p.Thumbnail,
		p.Status,
		p.Settings,
	).Scan(&p.LastEditedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update presentation: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update presentation: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64, userID string) error {
	query := `DELETE FROM presentations WHERE id = $1 AND user_id = $2`

	return execOne(ctx, r.db, "delete presentation", query, id, userID)
}

func (r *repository) SyncSlides(ctx context.Context, id int64) (int, error) {
	query := `
		UPDATE presentations
		SET slide_count = (
		        SELECT COUNT(*) FROM slides WHERE presentation_id = $1
		    ),
		    last_edited_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING slide_count`

	var count int
	err := r.db.GetContext(ctx, &count, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sync slide count: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("sync slide count: %w", err)
	}

	return count, nil
}

func (r *repository) Touch(ctx context.Context, id int64) error {
	query := `
		UPDATE presentations
		SET last_edited_at = NOW(), updated_at = NOW()
		WHERE id = $1`

	return execOne(ctx, r.db, "touch presentation", query, id)
}

func (r *repository) ListSlides(
	ctx context.Context,
	presentationID int64,
) ([]Slide, error) {
	query := `SELECT ` + slideColumns + `
		FROM slides
		WHERE presentation_id = $1
		ORDER BY "order" ASC, id ASC`

	var slides []Slide
	if err := r.db.SelectContext(ctx, &slides, query, presentationID); err != nil {
		return nil, fmt.Errorf("list slides: %w", err)
	}

	return slides, nil
}

func (r *repository) SlideIDs(
	ctx context.Context,
	presentationID int64,
) ([]int64, error) {
	query := `SELECT id FROM slides WHERE presentation_id = $1`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, presentationID); err != nil {
		return nil, fmt.Errorf("list slide ids: %w", err)
	}

	return ids, nil
}

func (r *repository) CountSlides(
	ctx context.Context,
	presentationID int64,
) (int, error) {
	query := `SELECT COUNT(*) FROM slides WHERE presentation_id = $1`

	var n int
	if err := r.db.GetContext(ctx, &n, query, presentationID); err != nil {
		return 0, fmt.Errorf("count slides: %w", err)
	}

	return n, nil
}

func (r *repository) GetSlide(
	ctx context.Context,
	presentationID, slideID int64,
) (*Slide, error) {
	query := `SELECT ` + slideColumns + `
		FROM slides
		WHERE id = $1 AND presentation_id = $2`

	var s Slide
	err := r.db.GetContext(ctx, &s, query, slideID, presentationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get slide: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get slide: %w", err)
	}

	return &s, nil
}

func (r *repository) CreateSlide(ctx context.Context, s *Slide) error {
	query := `
		INSERT INTO slides (
			presentation_id, "order", title, content, notes, metadata
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.PresentationID,
		s.Order,
		s.Title,
		s.Content,
		s.Notes,
		s.Metadata,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create slide: %w", err)
	}

	return nil
}

func (r *repository) UpdateSlide(ctx context.Context, s *Slide) error {
	query := `
		UPDATE slides
		SET "order" = $3, title = $4, content = $5, notes = $6,
		    metadata = $7, updated_at = NOW()
		WHERE id = $1 AND presentation_id = $2
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID,
		s.PresentationID,
		s.Order,
		s.Title,
		s.Content,
		s.Notes,
		s.Metadata,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update slide: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update slide: %w", err)
	}

	return nil
}

func (r *repository) DeleteSlide(
	ctx context.Context,
	presentationID, slideID int64,
) error {
	query := `DELETE FROM slides WHERE id = $1 AND presentation_id = $2`

	return execOne(ctx, r.db, "delete slide", query, slideID, presentationID)
}

func (r *repository) DeleteSlides(
	ctx context.Context,
	presentationID int64,
	ids []int64,
) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `
		DELETE FROM slides
		WHERE presentation_id = $1 AND id = ANY($2)`

	result, err := r.db.ExecContext(ctx, query, presentationID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete slides: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete slides: %w", err)
	}

	return int(rows), nil
}

func execOne(
	ctx context.Context,
	db core.DBTX,
	op, query string,
	args ...any,
) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
