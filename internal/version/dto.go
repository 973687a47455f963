// AngelaMos | 2026
// dto.go

package version

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

type SaveVersionRequest struct {
	ChangeDescription *string `json:"change_description,omitempty" validate:"omitempty,max=255"`
}

type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type VersionResponse struct {
	ID                int64        `json:"id"`
	VersionNumber     int          `json:"version_number"`
	Title             *string      `json:"title"`
	Content           string       `json:"content"`
	Notes             *string      `json:"notes"`
	Metadata          core.JSONMap `json:"metadata"`
	ChangeDescription *string      `json:"change_description,omitempty"`
	User              Author       `json:"user"`
	CreatedAt         time.Time    `json:"created_at"`
}

func ToVersionResponse(v *SlideVersion) VersionResponse {
	return VersionResponse{
		ID:                v.ID,
		VersionNumber:     v.VersionNumber,
		Title:             v.Title,
		Content:           v.Content,
		Notes:             v.Notes,
		Metadata:          v.Metadata,
		ChangeDescription: v.ChangeDescription,
		User:              Author{ID: v.UserID, Name: v.UserName},
		CreatedAt:         v.CreatedAt,
	}
}

func ToVersionResponseList(versions []SlideVersion) []VersionResponse {
	out := make([]VersionResponse, 0, len(versions))
	for i := range versions {
		out = append(out, ToVersionResponse(&versions[i]))
	}
	return out
}
