// AngelaMos | 2026
// dto.go

package template

import (
	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/presentation"
)

type UseTemplateRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
}

type SummaryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Thumbnail   *string `json:"thumbnail"`
	Icon        *string `json:"icon"`
	IsPremium   bool    `json:"is_premium"`
	SlideCount  int     `json:"slide_count"`
	UsageCount  int     `json:"usage_count"`
	Locked      bool    `json:"locked"`
}

type ListResponse struct {
	Templates  []SummaryResponse            `json:"templates"`
	Categories map[string][]SummaryResponse `json:"categories"`
	Total      int                          `json:"total"`
}

type TemplateResponse struct {
	ID          int64                    `json:"id"`
	Name        string                   `json:"name"`
	Slug        string                   `json:"slug"`
	Description string                   `json:"description"`
	Category    string                   `json:"category"`
	Thumbnail   *string                  `json:"thumbnail"`
	Icon        *string                  `json:"icon"`
	Slides      []presentation.SlideSpec `json:"slides"`
	Settings    core.JSONMap             `json:"settings"`
	IsPremium   bool                     `json:"is_premium"`
	UsageCount  int                      `json:"usage_count"`
}

func ToSummaryResponse(t *Template, hasPremium bool) SummaryResponse {
	return SummaryResponse{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		Category:    t.Category,
		Thumbnail:   t.Thumbnail,
		Icon:        t.Icon,
		IsPremium:   t.IsPremium,
		SlideCount:  len(t.Slides),
		UsageCount:  t.UsageCount,
		Locked:      t.IsPremium && !hasPremium,
	}
}

// ToListResponse also groups the templates by category.
func ToListResponse(templates []Template, hasPremium bool) ListResponse {
	resp := ListResponse{
		Templates:  make([]SummaryResponse, len(templates)),
		Categories: make(map[string][]SummaryResponse),
		Total:      len(templates),
	}

	for i := range templates {
		s := ToSummaryResponse(&templates[i], hasPremium)
		resp.Templates[i] = s
		resp.Categories[s.Category] = append(resp.Categories[s.Category], s)
	}

	return resp
}

func ToTemplateResponse(t *Template) TemplateResponse {
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		Category:    t.Category,
		Thumbnail:   t.Thumbnail,
		Icon:        t.Icon,
		Slides:      t.Slides,
		Settings:    t.Settings,
		IsPremium:   t.IsPremium,
		UsageCount:  t.UsageCount,
	}
}
