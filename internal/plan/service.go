// AngelaMos | 2026
// service.go

package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/user"
)

// UserStore is the slice of the user repository plan changes need.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	SetPlan(
		ctx context.Context,
		id string,
		planID int64,
		expiresAt *time.Time,
	) error
}

type Service struct {
	repo  Repository
	users UserStore
	now   func() time.Time
}

func NewService(repo Repository, users UserStore) *Service {
	return &Service{repo: repo, users: users, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Plan, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Plan, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) PlanIDBySlug(ctx context.Context, slug string) (int64, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

// PeriodEnd is when a plan bought at now lapses. Free plans never do.
func PeriodEnd(p *Plan, now time.Time) *time.Time {
	if p.IsFree() {
		return nil
	}

	var end time.Time
	switch p.BillingCycle {
	case CycleYearly:
		end = now.AddDate(1, 0, 0)
	case CycleLifetime:
		return nil
	default:
		end = now.AddDate(0, 1, 0)
	}
	return &end
}

// ChangePlan switches the caller's plan directly. Payment for paid plans is
// reconciled separately by billing webhooks.
func (s *Service) ChangePlan(
	ctx context.Context,
	userID, slug string,
) (*ChangePlanResponse, error) {
	next, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ValidationError("plan_slug does not exist")
		}
		return nil, err
	}

	if !next.IsActive {
		return nil, core.ValidationError("this plan is not available")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	isUpgrade := true
	if u.PlanID != nil {
		current, curErr := s.repo.GetByID(ctx, *u.PlanID)
		if curErr != nil && !errors.Is(curErr, core.ErrNotFound) {
			return nil, curErr
		}
		if current != nil {
			isUpgrade = next.PriceValue() > current.PriceValue()
		}
	}

	expiresAt := PeriodEnd(next, s.now())
	if err := s.users.SetPlan(ctx, userID, next.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("change plan: %w", err)
	}

	return &ChangePlanResponse{
		Plan:      ToSummary(next),
		IsUpgrade: isUpgrade,
		ExpiresAt: expiresAt,
	}, nil
}
