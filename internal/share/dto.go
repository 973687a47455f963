// AngelaMos | 2026
// dto.go

package share

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/presentation"
)

type EnableRequest struct {
	AllowEmbed bool `json:"allow_embed"`
}

type UpdateSettingsRequest struct {
	AllowEmbed *bool `json:"allow_embed,omitempty"`
}

type SettingsResponse struct {
	IsPublic   bool       `json:"is_public"`
	AllowEmbed bool       `json:"allow_embed"`
	ShareToken *string    `json:"share_token,omitempty"`
	SharedAt   *time.Time `json:"shared_at,omitempty"`
	ViewCount  int        `json:"view_count"`
	ShareURL   *string    `json:"share_url,omitempty"`
	EmbedCode  *string    `json:"embed_code,omitempty"`
}

type PublicResponse struct {
	ID          int64                        `json:"id"`
	Title       string                       `json:"title"`
	Description *string                      `json:"description"`
	Author      string                       `json:"author"`
	SlideCount  int                          `json:"slide_count"`
	Slides      []presentation.SlideResponse `json:"slides"`
	Settings    core.JSONMap                 `json:"settings"`
	ViewCount   int                          `json:"view_count"`
}

type EmbedResponse struct {
	Title      string                       `json:"title"`
	Slides     []presentation.SlideResponse `json:"slides"`
	Settings   core.JSONMap                 `json:"settings"`
	SlideCount int                          `json:"slide_count"`
}

func ToPublicResponse(p *Published) PublicResponse {
	return PublicResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Author:      p.Author,
		SlideCount:  p.SlideCount,
		Slides:      presentation.ToSlideResponseList(p.Slides),
		Settings:    p.Settings,
		ViewCount:   p.ViewCount,
	}
}

func ToEmbedResponse(p *Published) EmbedResponse {
	return EmbedResponse{
		Title:      p.Title,
		Slides:     presentation.ToSlideResponseList(p.Slides),
		Settings:   p.Settings,
		SlideCount: p.SlideCount,
	}
}
