// AngelaMos | 2026
// evaluator.go

package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/plan"
	"github.com/carterperez-dev/slideview/internal/user"
)

type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type PlanReader interface {
	GetByID(ctx context.Context, id int64) (*plan.Plan, error)
}

type DenialRecorder interface {
	EntitlementDenied(resource string)
}

type Evaluator struct {
	users   UserReader
	plans   PlanReader
	counts  Counter
	denials DenialRecorder
	logger  *slog.Logger
	now     func() time.Time
}

func NewEvaluator(
	users UserReader,
	plans PlanReader,
	counts Counter,
	denials DenialRecorder,
	logger *slog.Logger,
) *Evaluator {
	return &Evaluator{
		users:   users,
		plans:   plans,
		counts:  counts,
		denials: denials,
		logger:  logger,
		now:     time.Now,
	}
}

// planFor returns the user's assigned plan, or nil when none is assigned.
// Expiry does not matter here: a lapsed plan keeps its ceilings and only
// stops counting as active.
func (e *Evaluator) planFor(
	ctx context.Context,
	userID string,
) (*user.User, *plan.Plan, error) {
	u, err := e.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if u.PlanID == nil {
		return u, nil, nil
	}

	p, err := e.plans.GetByID(ctx, *u.PlanID)
	if errors.Is(err, core.ErrNotFound) {
		return u, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load plan: %w", err)
	}

	return u, p, nil
}

func (e *Evaluator) Limits(ctx context.Context, userID string) (Limits, error) {
	_, p, err := e.planFor(ctx, userID)
	if err != nil {
		return Limits{}, err
	}
	return LimitsFor(p), nil
}

// HasPremium reports whether the user is on an active paid plan.
func (e *Evaluator) HasPremium(ctx context.Context, userID string) (bool, error) {
	u, p, err := e.planFor(ctx, userID)
	if err != nil {
		return false, err
	}
	return p != nil && !p.IsFree() && u.HasActivePlan(e.now()), nil
}

func (e *Evaluator) CanCreatePresentation(
	ctx context.Context,
	userID string,
) (Decision, error) {
	limits, err := e.Limits(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	count, err := e.counts.CountPresentations(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	return e.record(Decision{
		Allowed:  CanCreatePresentation(limits, count),
		Current:  count,
		Limit:    limits.MaxPresentations,
		Resource: ResourcePresentations,
	}, userID), nil
}

// CanAddSlide assumes the caller already verified presentation ownership.
func (e *Evaluator) CanAddSlide(
	ctx context.Context,
	userID string,
	presentationID int64,
) (Decision, error) {
	limits, err := e.Limits(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	count, err := e.counts.CountSlides(ctx, presentationID)
	if err != nil {
		return Decision{}, err
	}

	return e.record(Decision{
		Allowed:  CanAddSlide(limits, count),
		Current:  count,
		Limit:    limits.MaxSlides,
		Resource: ResourceSlides,
	}, userID), nil
}

func (e *Evaluator) CanHoldSlides(
	ctx context.Context,
	userID string,
	n int,
) (Decision, error) {
	limits, err := e.Limits(ctx, userID)
	if err != nil {
		return Decision{}, err
	}

	return e.record(Decision{
		Allowed:  CanHoldSlides(limits, n),
		Current:  n,
		Limit:    limits.MaxSlides,
		Resource: ResourceSlides,
	}, userID), nil
}

func (e *Evaluator) record(d Decision, userID string) Decision {
	if d.Allowed {
		return d
	}

	if e.denials != nil {
		e.denials.EntitlementDenied(d.Resource)
	}
	e.logger.Info("entitlement denied",
		"user_id", userID,
		"resource", d.Resource,
		"current", d.Current,
	)

	return d
}

func defaultSummary() plan.Summary {
	return plan.Summary{
		Name: "Free",
		Slug: plan.FreeSlug,
		Features: core.JSONMap{
			"max_presentations":           defaultMaxPresentations,
			"max_slides_per_presentation": defaultMaxSlides,
			"basic_templates":             true,
		},
	}
}

// Usage builds the plan usage view from live counts.
func (e *Evaluator) Usage(
	ctx context.Context,
	userID string,
) (*plan.UsageSnapshot, error) {
	u, p, err := e.planFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	presentations, err := e.counts.CountPresentations(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalSlides, err := e.counts.CountUserSlides(ctx, userID)
	if err != nil {
		return nil, err
	}

	limits := LimitsFor(p)
	summary := defaultSummary()
	if p != nil {
		summary = plan.ToSummary(p)
	}

	return &plan.UsageSnapshot{
		Plan: summary,
		Usage: plan.Usage{
			Presentations: plan.PresentationUsage{
				Used:      presentations,
				Max:       limits.MaxPresentations,
				Unlimited: limits.MaxPresentations == nil,
			},
			SlidesPerPresentation: plan.SlideUsage{
				Max:       limits.MaxSlides,
				Unlimited: limits.MaxSlides == nil,
			},
			TotalSlides: totalSlides,
		},
		IsActive:  u.HasActivePlan(e.now()),
		ExpiresAt: u.PlanExpiresAt,
	}, nil
}
