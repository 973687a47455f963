// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/slideview/internal/auth"
	"github.com/carterperez-dev/slideview/internal/core"
)

// PlanResolver maps a plan slug to its row id.
type PlanResolver interface {
	PlanIDBySlug(ctx context.Context, slug string) (int64, error)
}

type Service struct {
	repo  Repository
	plans PlanResolver
	now   func() time.Time
}

func NewService(repo Repository, plans PlanResolver) *Service {
	return &Service{repo: repo, plans: plans, now: time.Now}
}

var _ auth.Accounts = (*Service)(nil)

func (s *Service) GetByID(ctx context.Context, id string) (*auth.Account, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.account(u), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	return s.account(u), nil
}

// Create registers a user on the default plan. A missing default plan row
// leaves the user without a plan, which the entitlement defaults cover.
func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.Account, error) {
	u := &User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         RoleUser,
	}

	planID, err := s.plans.PlanIDBySlug(ctx, DefaultPlanSlug)
	switch {
	case err == nil:
		u.PlanID = &planID
		u.PlanSlug = DefaultPlanSlug
	case !errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("resolve default plan: %w", err)
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.account(u), nil
}

func (s *Service) IncrementTokenVersion(ctx context.Context, userID string) (int, error) {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, core.UnauthorizedError("")
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	if userID == "" {
		return nil, core.UnauthorizedError("")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, core.ValidationError("name must not be blank")
		}
		if err := s.repo.Rename(ctx, userID, name); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, userID)
}

// CloseAccount deactivates the caller. Their presentations stay in place
// until purged.
func (s *Service) CloseAccount(ctx context.Context, userID string) error {
	if userID == "" {
		return core.UnauthorizedError("")
	}
	return s.repo.Deactivate(ctx, userID)
}

func (s *Service) Find(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, f Filter) ([]User, int, error) {
	return s.repo.Search(ctx, f)
}

// SetRole changes a user's role. Admins cannot demote themselves.
func (s *Service) SetRole(ctx context.Context, actorID, id, role string) (*User, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, core.ValidationError(fmt.Sprintf("unknown role %q", role))
	}
	if actorID == id && role != RoleAdmin {
		return nil, core.ForbiddenError("admins cannot demote themselves")
	}

	if err := s.repo.SetRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// AssignPlan grants a plan outside billing. Paid periods from billing go
// through the webhook path instead.
func (s *Service) AssignPlan(ctx context.Context, id string, req AssignPlanRequest) (*User, error) {
	if req.ExpiresAt != nil && !req.ExpiresAt.After(s.now()) {
		return nil, core.ValidationError("expires_at must be in the future")
	}

	planID, err := s.plans.PlanIDBySlug(ctx, req.PlanSlug)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.ValidationError("plan_slug does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("assign plan %q: %w", req.PlanSlug, err)
	}

	if err := s.repo.SetPlan(ctx, id, planID, req.ExpiresAt); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Remove deactivates a user on an admin's behalf. Admin accounts must be
// demoted first.
func (s *Service) Remove(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return core.ValidationError("use account closure to remove yourself")
	}

	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return core.ForbiddenError("admin accounts cannot be removed")
	}

	return s.repo.Deactivate(ctx, id)
}

func (s *Service) account(u *User) *auth.Account {
	return &auth.Account{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		Plan:          u.EffectivePlanSlug(s.now()),
		PlanExpiresAt: u.PlanExpiresAt,
		TokenVersion:  u.TokenVersion,
		CreatedAt:     u.CreatedAt,
	}
}
