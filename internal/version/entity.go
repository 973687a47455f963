// AngelaMos | 2026
// entity.go

package version

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

// Snapshot holds the four versioned fields of a slide.
type Snapshot struct {
	Title    *string      `db:"title"`
	Content  string       `db:"content"`
	Notes    *string      `db:"notes"`
	Metadata core.JSONMap `db:"metadata"`
}

type SlideVersion struct {
	ID                int64        `db:"id"`
	SlideID           int64        `db:"slide_id"`
	UserID            string       `db:"user_id"`
	UserName          string       `db:"user_name"`
	VersionNumber     int          `db:"version_number"`
	Title             *string      `db:"title"`
	Content           string       `db:"content"`
	Notes             *string      `db:"notes"`
	Metadata          core.JSONMap `db:"metadata"`
	ChangeDescription *string      `db:"change_description"`
	CreatedAt         time.Time    `db:"created_at"`
}

func (v *SlideVersion) Snapshot() Snapshot {
	return Snapshot{
		Title:    v.Title,
		Content:  v.Content,
		Notes:    v.Notes,
		Metadata: v.Metadata.Clone(),
	}
}

const (
	DescriptionAutoSave = "Auto-save"
	DescriptionInitial  = "Versão inicial"

	restorePrefix = "Antes de restaurar para versão"

	// ListLimit caps version history pages.
	ListLimit = 20
)
