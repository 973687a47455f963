// AngelaMos | 2026
// dto.go

package plan

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

type ChangePlanRequest struct {
	PlanSlug string `json:"plan_slug" validate:"required,max=100"`
}

type Summary struct {
	Name     string       `json:"name"`
	Slug     string       `json:"slug"`
	Features core.JSONMap `json:"features"`
}

type ChangePlanResponse struct {
	Plan      Summary    `json:"plan"`
	IsUpgrade bool       `json:"is_upgrade"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type PlanResponse struct {
	Plan
	IsFree bool `json:"is_free"`
}

type PresentationUsage struct {
	Used      int  `json:"used"`
	Max       *int `json:"max"`
	Unlimited bool `json:"unlimited"`
}

type SlideUsage struct {
	Max       *int `json:"max"`
	Unlimited bool `json:"unlimited"`
}

type Usage struct {
	Presentations         PresentationUsage `json:"presentations"`
	SlidesPerPresentation SlideUsage        `json:"slides_per_presentation"`
	TotalSlides           int               `json:"total_slides"`
}

// UsageSnapshot is the read-only plan usage view. Counts are live.
type UsageSnapshot struct {
	Plan      Summary    `json:"plan"`
	Usage     Usage      `json:"usage"`
	IsActive  bool       `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func ToSummary(p *Plan) Summary {
	return Summary{Name: p.Name, Slug: p.Slug, Features: p.Features}
}

func ToPlanResponseList(plans []Plan) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, PlanResponse{
			Plan:   plans[i],
			IsFree: plans[i].IsFree(),
		})
	}
	return out
}
