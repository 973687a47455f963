// AngelaMos | 2026
// entity.go

package presentation

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/version"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"

	copySuffix = " (Cópia)"
)

type Presentation struct {
	ID           int64        `db:"id"`
	UserID       string       `db:"user_id"`
	Title        string       `db:"title"`
	Description  *string      `db:"description"`
	Thumbnail    *string      `db:"thumbnail"`
	Status       string       `db:"status"`
	Settings     core.JSONMap `db:"settings"`
	SlideCount   int          `db:"slide_count"`
	LastEditedAt *time.Time   `db:"last_edited_at"`
	IsPublic     bool         `db:"is_public"`
	ShareToken   *string      `db:"share_token"`
	AllowEmbed   bool         `db:"allow_embed"`
	SharedAt     *time.Time   `db:"shared_at"`
	ViewCount    int          `db:"view_count"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// Slide order values are positions chosen by the client. Gaps and
// duplicates are legal; readers break ties by id.
type Slide struct {
	ID             int64        `db:"id"`
	PresentationID int64        `db:"presentation_id"`
	Order          int          `db:"order"`
	Title          *string      `db:"title"`
	Content        string       `db:"content"`
	Notes          *string      `db:"notes"`
	Metadata       core.JSONMap `db:"metadata"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

func (s *Slide) Snapshot() version.Snapshot {
	return version.Snapshot{
		Title:    s.Title,
		Content:  s.Content,
		Notes:    s.Notes,
		Metadata: s.Metadata,
	}
}

func (s *Slide) apply(snap version.Snapshot) {
	s.Title = snap.Title
	s.Content = snap.Content
	s.Notes = snap.Notes
	s.Metadata = snap.Metadata
}

// copyOf is the duplicate of p owned by the same user: a fresh draft with
// sharing reset.
func copyOf(p *Presentation) *Presentation {
	return &Presentation{
		UserID:      p.UserID,
		Title:       clip(p.Title+copySuffix, maxTitleLength),
		Description: p.Description,
		Thumbnail:   p.Thumbnail,
		Status:      StatusDraft,
		Settings:    p.Settings.Clone(),
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
