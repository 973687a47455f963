// AngelaMos | 2026
// service.go

package template

import (
	"context"
	"net/http"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/presentation"
)

// Creator builds a presentation and its slides atomically.
type Creator interface {
	CreateWithSlides(
		ctx context.Context,
		p *presentation.Presentation,
		specs []presentation.SlideSpec,
		after func(ctx context.Context, tx core.DBTX, p *presentation.Presentation) error,
	) (*presentation.Presentation, []presentation.Slide, error)
}

type PremiumChecker interface {
	HasPremium(ctx context.Context, userID string) (bool, error)
}

type Service struct {
	db      core.DBTX
	repos   func(core.DBTX) Repository
	creator Creator
	premium PremiumChecker
}

func NewService(db core.DBTX, creator Creator, premium PremiumChecker) *Service {
	return &Service{
		db:      db,
		repos:   NewRepository,
		creator: creator,
		premium: premium,
	}
}

func upgradeRequired() *core.AppError {
	return core.NewAppError(
		core.ErrForbidden,
		"this template requires a premium plan",
		http.StatusForbidden,
		"UPGRADE_REQUIRED",
	).WithDetails(map[string]any{"upgrade_required": true})
}

// List returns the active catalog and whether userID may use premium
// templates. An anonymous caller never can.
func (s *Service) List(
	ctx context.Context,
	userID string,
	category string,
) ([]Template, bool, error) {
	hasPremium := false
	if userID != "" {
		ok, err := s.premium.HasPremium(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		hasPremium = ok
	}

	items, err := s.repos(s.db).ListActive(ctx, category)
	if err != nil {
		return nil, false, err
	}

	return items, hasPremium, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Template, error) {
	return s.repos(s.db).GetActive(ctx, id)
}

func (s *Service) Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Use creates a draft presentation from the template. The usage counter is
// bumped in the same transaction that writes the slides.
func (s *Service) Use(
	ctx context.Context,
	userID string,
	templateID int64,
	req UseTemplateRequest,
) (*presentation.Presentation, []presentation.Slide, error) {
	t, err := s.repos(s.db).GetActive(ctx, templateID)
	if err != nil {
		return nil, nil, err
	}

	if t.IsPremium {
		ok, err := s.premium.HasPremium(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, upgradeRequired()
		}
	}

	title := t.Name
	if req.Title != nil {
		title = *req.Title
	}
	description := t.Description

	p := &presentation.Presentation{
		UserID:      userID,
		Title:       title,
		Description: &description,
		Status:      presentation.StatusDraft,
		Settings:    t.Settings.Clone(),
	}

	specs := make([]presentation.SlideSpec, len(t.Slides))
	for i, spec := range t.Slides {
		spec.ID = nil
		spec.Order = nil
		spec.Metadata = spec.Metadata.Clone()
		specs[i] = spec
	}

	return s.creator.CreateWithSlides(ctx, p, specs,
		func(ctx context.Context, tx core.DBTX, _ *presentation.Presentation) error {
			return s.repos(tx).IncrementUsage(ctx, t.ID)
		},
	)
}
