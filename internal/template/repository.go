// AngelaMos | 2026
// repository.go

package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Repository interface {
	// ListActive filters by category unless it is empty.
	ListActive(ctx context.Context, category string) ([]Template, error)
	GetActive(ctx context.Context, id int64) (*Template, error)
	IncrementUsage(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const templateColumns = `
	id, name, slug, description, category, thumbnail, icon, slides,
	settings, is_premium, is_active, usage_count, created_at, updated_at`

func (r *repository) ListActive(
	ctx context.Context,
	category string,
) ([]Template, error) {
	query := `SELECT ` + templateColumns + `
		FROM templates
		WHERE is_active AND ($1 = '' OR category = $1)
		ORDER BY usage_count DESC, name ASC`

	var items []Template
	if err := r.db.SelectContext(ctx, &items, query, category); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	return items, nil
}

func (r *repository) GetActive(ctx context.Context, id int64) (*Template, error) {
	query := `SELECT ` + templateColumns + `
		FROM templates
		WHERE id = $1 AND is_active`

	var t Template
	err := r.db.GetContext(ctx, &t, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get template: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	return &t, nil
}

func (r *repository) IncrementUsage(ctx context.Context, id int64) error {
	query := `
		UPDATE templates
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment template usage: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment template usage: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("increment template usage: %w", core.ErrNotFound)
	}

	return nil
}
