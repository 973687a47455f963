// AngelaMos | 2026
// entity.go

package draft

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

type Type string

const (
	TypePresentation Type = "presentation"
	TypeSlide        Type = "slide"
)

func (t Type) Valid() bool {
	return t == TypePresentation || t == TypeSlide
}

// Kind says what a draft is a scratch copy of. PresentationID is nil for
// drafts not yet attached to a saved presentation.
type Kind struct {
	Type           Type
	PresentationID *int64
}

// Key identifies the one live draft a user may hold per kind.
type Key struct {
	UserID string
	Kind   Kind
}

type Draft struct {
	ID             int64        `db:"id"`
	UserID         string       `db:"user_id"`
	PresentationID *int64       `db:"presentation_id"`
	Type           Type         `db:"type"`
	Title          *string      `db:"title"`
	Content        string       `db:"content"`
	Metadata       core.JSONMap `db:"metadata"`
	LastSavedAt    time.Time    `db:"last_saved_at"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

func (d *Draft) Key() Key {
	return Key{
		UserID: d.UserID,
		Kind:   Kind{Type: d.Type, PresentationID: d.PresentationID},
	}
}

const (
	// DefaultRetention is how long a draft survives without being saved.
	DefaultRetention = 7 * 24 * time.Hour

	listLimit = 10
)
