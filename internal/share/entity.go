// AngelaMos | 2026
// entity.go

package share

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/presentation"
)

// Settings is the sharing state of one presentation.
type Settings struct {
	PresentationID int64      `db:"id"`
	Title          string     `db:"title"`
	IsPublic       bool       `db:"is_public"`
	AllowEmbed     bool       `db:"allow_embed"`
	ShareToken     *string    `db:"share_token"`
	SharedAt       *time.Time `db:"shared_at"`
	ViewCount      int        `db:"view_count"`
}

// Published is a presentation as seen through its share token. Author is
// left empty for embeds.
type Published struct {
	ID          int64                `db:"id"`
	Title       string               `db:"title"`
	Description *string              `db:"description"`
	Settings    core.JSONMap         `db:"settings"`
	SlideCount  int                  `db:"slide_count"`
	ViewCount   int                  `db:"view_count"`
	Author      string               `db:"author"`
	Slides      []presentation.Slide `db:"-"`
}

const tokenLength = 32

// plausibleToken rejects strings that cannot be a share token before any
// query runs.
func plausibleToken(token string) bool {
	if len(token) != tokenLength {
		return false
	}
	for _, c := range token {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
