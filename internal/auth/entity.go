// AngelaMos | 2026
// entity.go

package auth

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

// Account is the identity view of a user. Plan holds the slug of the plan
// currently in force, already falling back to free when lapsed.
type Account struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	Role          string
	Plan          string
	PlanExpiresAt *time.Time
	TokenVersion  int
	CreatedAt     time.Time
}

// Session is one refresh token. Rotation marks the old row used and links it
// to its replacement; every row issued from the same login shares FamilyID.
type Session struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	TokenHash    string     `db:"token_hash"`
	FamilyID     string     `db:"family_id"`
	ExpiresAt    time.Time  `db:"expires_at"`
	CreatedAt    time.Time  `db:"created_at"`
	IsUsed       bool       `db:"is_used"`
	UsedAt       *time.Time `db:"used_at"`
	RevokedAt    *time.Time `db:"revoked_at"`
	ReplacedByID *string    `db:"replaced_by_id"`
	UserAgent    string     `db:"user_agent"`
	IPAddress    string     `db:"ip_address"`
}

func (s *Session) usable(now time.Time) error {
	if s.RevokedAt != nil {
		return core.ErrTokenRevoked
	}
	if !now.Before(s.ExpiresAt) {
		return core.ErrTokenExpired
	}
	return nil
}

type Client struct {
	UserAgent string
	IP        string
}
