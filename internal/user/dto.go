// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// AssignPlanRequest grants a plan by slug. Without expires_at the grant
// never lapses.
type AssignPlanRequest struct {
	PlanSlug  string     `json:"plan_slug"            validate:"required,max=100"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Filter narrows the admin user listing. Plan matches the effective slug,
// so users without a plan match the default one.
type Filter struct {
	Query string
	Role  string
	Plan  string
	Page  core.Page
}

type UserResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	Role               string     `json:"role"`
	Plan               string     `json:"plan"`
	PlanActive         bool       `json:"plan_active"`
	PlanExpiresAt      *time.Time `json:"plan_expires_at"`
	SubscriptionStatus *string    `json:"subscription_status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func ToUserResponse(u *User, now time.Time) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		Plan:               u.EffectivePlanSlug(now),
		PlanActive:         u.HasActivePlan(now),
		PlanExpiresAt:      u.PlanExpiresAt,
		SubscriptionStatus: u.SubscriptionStatus,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func ToUserResponseList(users []User, now time.Time) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i], now)
	}
	return out
}
