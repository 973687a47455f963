// AngelaMos | 2026
// usage.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/slideview/internal/core"
)

type PlanCount struct {
	Slug  string `db:"slug"  json:"slug"`
	Users int    `db:"users" json:"users"`
}

type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count"  json:"count"`
}

type PlatformStats struct {
	Users               int           `db:"users"                json:"users"`
	Presentations       int           `db:"presentations"        json:"presentations"`
	PublicPresentations int           `db:"public_presentations" json:"public_presentations"`
	Slides              int           `db:"slides"               json:"slides"`
	SlideVersions       int           `db:"slide_versions"       json:"slide_versions"`
	Drafts              int           `db:"drafts"               json:"drafts"`
	PublicViews         int64         `db:"public_views"         json:"public_views"`
	UsersByPlan         []PlanCount   `db:"-"                    json:"users_by_plan"`
	PaymentsByStatus    []StatusCount `db:"-"                    json:"payments_by_status"`
}

type UsageReader interface {
	Platform(ctx context.Context) (*PlatformStats, error)
}

type usageRepository struct {
	db core.DBTX
}

func NewUsageRepository(db core.DBTX) UsageReader {
	return &usageRepository{db: db}
}

func (r *usageRepository) Platform(ctx context.Context) (*PlatformStats, error) {
	totals := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE deleted_at IS NULL) AS users,
			(SELECT COUNT(*) FROM presentations) AS presentations,
			(SELECT COUNT(*) FROM presentations WHERE is_public) AS public_presentations,
			(SELECT COUNT(*) FROM slides) AS slides,
			(SELECT COUNT(*) FROM slide_versions) AS slide_versions,
			(SELECT COUNT(*) FROM drafts) AS drafts,
			(SELECT COALESCE(SUM(view_count), 0) FROM presentations) AS public_views`

	var stats PlatformStats
	if err := r.db.GetContext(ctx, &stats, totals); err != nil {
		return nil, fmt.Errorf("platform totals: %w", err)
	}

	byPlan := `
		SELECT COALESCE(p.slug, 'none') AS slug, COUNT(*) AS users
		FROM users u
		LEFT JOIN plans p ON p.id = u.plan_id
		WHERE u.deleted_at IS NULL
		GROUP BY 1
		ORDER BY 2 DESC, 1`
	if err := r.db.SelectContext(ctx, &stats.UsersByPlan, byPlan); err != nil {
		return nil, fmt.Errorf("users by plan: %w", err)
	}

	byStatus := `
		SELECT status, COUNT(*) AS count
		FROM payments
		GROUP BY status
		ORDER BY 2 DESC, 1`
	if err := r.db.SelectContext(ctx, &stats.PaymentsByStatus, byStatus); err != nil {
		return nil, fmt.Errorf("payments by status: %w", err)
	}

	return &stats, nil
}
