// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID                 string     `db:"id"`
	Email              string     `db:"email"`
	PasswordHash       string     `db:"password_hash"`
	Name               string     `db:"name"`
	Role               string     `db:"role"`
	PlanID             *int64     `db:"plan_id"`
	PlanSlug           string     `db:"plan_slug"`
	PlanExpiresAt      *time.Time `db:"plan_expires_at"`
	SubscriptionID     *string    `db:"subscription_id"`
	SubscriptionStatus *string    `db:"subscription_status"`
	TokenVersion       int        `db:"token_version"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	DeletedAt          *time.Time `db:"deleted_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasActivePlan is true when a plan is assigned and has not expired. Plans
// without an expiry never lapse.
func (u *User) HasActivePlan(now time.Time) bool {
	if u.PlanID == nil {
		return false
	}
	if u.PlanExpiresAt == nil {
		return true
	}
	return u.PlanExpiresAt.After(now)
}

// EffectivePlanSlug is the tier the user is paying for now. A lapsed plan
// reads as the default tier.
func (u *User) EffectivePlanSlug(now time.Time) string {
	if u.PlanSlug == "" || !u.HasActivePlan(now) {
		return DefaultPlanSlug
	}
	return u.PlanSlug
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const DefaultPlanSlug = "free"

const (
	SubscriptionActive   = "active"
	SubscriptionOverdue  = "overdue"
	SubscriptionCanceled = "canceled"
)
