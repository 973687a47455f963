// AngelaMos | 2026
// dto.go

package presentation

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/version"
)

const maxTitleLength = 255

// SlideSpec is one slide as sent by the editor. ID is set when the spec
// refers to a slide that already exists.
type SlideSpec struct {
	ID       *int64       `json:"id,omitempty"`
	Title    *string      `json:"title,omitempty"    validate:"omitempty,max=255"`
	Content  string       `json:"content"            validate:"required"`
	Notes    *string      `json:"notes,omitempty"`
	Metadata core.JSONMap `json:"metadata,omitempty"`
	Order    *int         `json:"order,omitempty"`
}

func (s SlideSpec) snapshot() version.Snapshot {
	return version.Snapshot{
		Title:    s.Title,
		Content:  s.Content,
		Notes:    s.Notes,
		Metadata: s.Metadata,
	}
}

type CreatePresentationRequest struct {
	Title       string       `json:"title"                 validate:"required,max=255"`
	Description *string      `json:"description,omitempty"`
	Settings    core.JSONMap `json:"settings,omitempty"`
	Slides      []SlideSpec  `json:"slides,omitempty"      validate:"omitempty,dive"`
}

type UpdatePresentationRequest struct {
	Title       *string      `json:"title,omitempty"       validate:"omitempty,min=1,max=255"`
	Description *string      `json:"description,omitempty"`
	Thumbnail   *string      `json:"thumbnail,omitempty"`
	Status      *string      `json:"status,omitempty"      validate:"omitempty,oneof=draft published archived"`
	Settings    core.JSONMap `json:"settings,omitempty"`
}

type ReplaceSlidesRequest struct {
	Slides []SlideSpec `json:"slides" validate:"required,dive"`
}

// UpdateSlideRequest is a partial update; nil fields are left alone.
type UpdateSlideRequest struct {
	Title    *string      `json:"title,omitempty"    validate:"omitempty,max=255"`
	Content  *string      `json:"content,omitempty"`
	Notes    *string      `json:"notes,omitempty"`
	Metadata core.JSONMap `json:"metadata,omitempty"`
	Order    *int         `json:"order,omitempty"`
}

type RestoreVersionResponse struct {
	Slide  SlideResponse           `json:"slide"`
	Backup version.VersionResponse `json:"backup"`
}

type SlideResponse struct {
	ID             int64        `json:"id"`
	PresentationID int64        `json:"presentation_id"`
	Order          int          `json:"order"`
	Title          *string      `json:"title"`
	Content        string       `json:"content"`
	Notes          *string      `json:"notes"`
	Metadata       core.JSONMap `json:"metadata"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type PresentationResponse struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Description  *string         `json:"description"`
	Thumbnail    *string         `json:"thumbnail"`
	Status       string          `json:"status"`
	Settings     core.JSONMap    `json:"settings"`
	SlideCount   int             `json:"slide_count"`
	LastEditedAt *time.Time      `json:"last_edited_at"`
	IsPublic     bool            `json:"is_public"`
	ViewCount    int             `json:"view_count"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Slides       []SlideResponse `json:"slides,omitempty"`
}

func ToSlideResponse(s *Slide) SlideResponse {
	return SlideResponse{
		ID:             s.ID,
		PresentationID: s.PresentationID,
		Order:          s.Order,
		Title:          s.Title,
		Content:        s.Content,
		Notes:          s.Notes,
		Metadata:       s.Metadata,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func ToSlideResponseList(slides []Slide) []SlideResponse {
	out := make([]SlideResponse, 0, len(slides))
	for i := range slides {
		out = append(out, ToSlideResponse(&slides[i]))
	}
	return out
}

func ToPresentationResponse(p *Presentation, slides []Slide) PresentationResponse {
	resp := PresentationResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Thumbnail:    p.Thumbnail,
		Status:       p.Status,
		Settings:     p.Settings,
		SlideCount:   p.SlideCount,
		LastEditedAt: p.LastEditedAt,
		IsPublic:     p.IsPublic,
		ViewCount:    p.ViewCount,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if slides != nil {
		resp.Slides = ToSlideResponseList(slides)
	}
	return resp
}

func ToPresentationResponseList(items []Presentation) []PresentationResponse {
	out := make([]PresentationResponse, 0, len(items))
	for i := range items {
		out = append(out, ToPresentationResponse(&items[i], nil))
	}
	return out
}
