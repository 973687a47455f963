// AngelaMos | 2026
// dto.go

package draft

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

// SaveDraftRequest leaves the stored metadata untouched when Metadata is
// omitted or null.
type SaveDraftRequest struct {
	PresentationID *int64       `json:"presentation_id,omitempty" validate:"omitempty,gt=0"`
	Type           Type         `json:"type"                      validate:"required,oneof=presentation slide"`
	Title          *string      `json:"title,omitempty"           validate:"omitempty,max=255"`
	Content        string       `json:"content"                   validate:"required"`
	Metadata       core.JSONMap `json:"metadata,omitempty"`
}

func (r SaveDraftRequest) Kind() Kind {
	return Kind{Type: r.Type, PresentationID: r.PresentationID}
}

type DraftResponse struct {
	ID             int64        `json:"id"`
	UserID         string       `json:"user_id"`
	PresentationID *int64       `json:"presentation_id"`
	Type           Type         `json:"type"`
	Title          *string      `json:"title"`
	Content        string       `json:"content"`
	Metadata       core.JSONMap `json:"metadata"`
	LastSavedAt    time.Time    `json:"last_saved_at"`
}

type SaveDraftResponse struct {
	Draft   DraftResponse `json:"draft"`
	SavedAt time.Time     `json:"saved_at"`
}

type CleanupResponse struct {
	DeletedCount int `json:"deleted_count"`
}

func ToDraftResponse(d *Draft) DraftResponse {
	return DraftResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		PresentationID: d.PresentationID,
		Type:           d.Type,
		Title:          d.Title,
		Content:        d.Content,
		Metadata:       d.Metadata,
		LastSavedAt:    d.LastSavedAt,
	}
}

func ToDraftResponseList(drafts []Draft) []DraftResponse {
	out := make([]DraftResponse, 0, len(drafts))
	for i := range drafts {
		out = append(out, ToDraftResponse(&drafts[i]))
	}
	return out
}
