// AngelaMos | 2026
// repository.go

package plan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Repository interface {
	ListActive(ctx context.Context) ([]Plan, error)
	GetByID(ctx context.Context, id int64) (*Plan, error)
	GetBySlug(ctx context.Context, slug string) (*Plan, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectPlan = `
	SELECT id, name, slug, description, price::text AS price, billing_cycle,
	       features, max_slides, max_presentations, is_active,
	       created_at, updated_at
	FROM plans`

func (r *repository) ListActive(ctx context.Context) ([]Plan, error) {
	query := selectPlan + `
		WHERE is_active
		ORDER BY price ASC, id ASC`

	var plans []Plan
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	return plans, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Plan, error) {
	return r.getOne(ctx, "get plan", selectPlan+` WHERE id = $1`, id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Plan, error) {
	return r.getOne(ctx, "get plan by slug", selectPlan+` WHERE slug = $1`, slug)
}

func (r *repository) getOne(
	ctx context.Context,
	op, query string,
	arg any,
) (*Plan, error) {
	var p Plan
	err := r.db.GetContext(ctx, &p, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}
