// AngelaMos | 2026
// service_test.go

package template

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/presentation"
)

func strPtr(s string) *string { return &s }

type memRepo struct {
	templates map[int64]*Template
	usage     map[int64]int
}

func (m *memRepo) ListActive(_ context.Context, category string) ([]Template, error) {
	var out []Template
	for _, id := range []int64{1, 2, 3} {
		t, ok := m.templates[id]
		if !ok || !t.IsActive || (category != "" && t.Category != category) {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (m *memRepo) GetActive(_ context.Context, id int64) (*Template, error) {
	t, ok := m.templates[id]
	if !ok || !t.IsActive {
		return nil, core.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memRepo) IncrementUsage(_ context.Context, id int64) error {
	m.usage[id]++
	return nil
}

type fakeCreator struct {
	err   error
	p     *presentation.Presentation
	specs []presentation.SlideSpec
}

func (f *fakeCreator) CreateWithSlides(
	ctx context.Context,
	p *presentation.Presentation,
	specs []presentation.SlideSpec,
	after func(ctx context.Context, tx core.DBTX, p *presentation.Presentation) error,
) (*presentation.Presentation, []presentation.Slide, error) {
	if f.err != nil {
		return nil, nil, f.err
	}

	f.p = p
	f.specs = specs
	p.ID = 42

	slides := make([]presentation.Slide, len(specs))
	for i, s := range specs {
		slides[i] = presentation.Slide{ID: int64(i + 1), PresentationID: p.ID, Order: i, Content: s.Content}
	}
	p.SlideCount = len(slides)

	if after != nil {
		if err := after(ctx, nil, p); err != nil {
			return nil, nil, err
		}
	}

	return p, slides, nil
}

type premiumSet map[string]bool

func (p premiumSet) HasPremium(_ context.Context, userID string) (bool, error) {
	return p[userID], nil
}

func newTemplateService(creator *fakeCreator) (*Service, *memRepo) {
	order := 5
	id := int64(99)
	repo := &memRepo{
		usage: map[int64]int{},
		templates: map[int64]*Template{
			1: {
				ID: 1, Name: "Startup Pitch Deck", Description: "Pitch", Category: "pitch",
				IsActive: true, Settings: core.JSONMap{"theme": "dark"},
				Slides: Slides{
					{Title: strPtr("Cover"), Content: "# Startup", ID: &id, Order: &order},
					{Title: strPtr("Problem"), Content: "# Problem"},
				},
			},
			2: {
				ID: 2, Name: "Executive Report", Description: "Report", Category: "report",
				IsActive: true, IsPremium: true,
				Slides: Slides{{Content: "# Summary"}},
			},
			3: {ID: 3, Name: "Retired", Category: "pitch", IsActive: false},
		},
	}

	svc := NewService(nil, creator, premiumSet{"paid": true})
	svc.repos = func(core.DBTX) Repository { return repo }
	return svc, repo
}

func TestListLocksPremiumTemplates(t *testing.T) {
	svc, _ := newTemplateService(&fakeCreator{})

	tests := []struct {
		name       string
		userID     string
		wantLocked bool
	}{
		{"anonymous", "", true},
		{"free user", "free", true},
		{"premium user", "paid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, hasPremium, err := svc.List(context.Background(), tt.userID, "")
			require.NoError(t, err)
			require.Len(t, items, 2)

			resp := ToListResponse(items, hasPremium)
			assert.Equal(t, 2, resp.Total)
			assert.False(t, resp.Templates[0].Locked)
			assert.Equal(t, tt.wantLocked, resp.Templates[1].Locked)
			assert.Len(t, resp.Categories["pitch"], 1)
		})
	}
}

func TestListFiltersByCategory(t *testing.T) {
	svc, _ := newTemplateService(&fakeCreator{})

	items, _, err := svc.List(context.Background(), "", "report")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Executive Report", items[0].Name)
}

func TestGetInactiveIsNotFound(t *testing.T) {
	svc, _ := newTemplateService(&fakeCreator{})

	_, err := svc.Get(context.Background(), 3)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUseCopiesSlidesAndCountsUsage(t *testing.T) {
	creator := &fakeCreator{}
	svc, repo := newTemplateService(creator)

	p, slides, err := svc.Use(context.Background(), "free", 1, UseTemplateRequest{})
	require.NoError(t, err)

	assert.Equal(t, "Startup Pitch Deck", p.Title)
	assert.Equal(t, "free", p.UserID)
	assert.Equal(t, presentation.StatusDraft, p.Status)
	assert.Equal(t, "dark", p.Settings["theme"])
	require.Len(t, slides, 2)
	assert.Equal(t, 1, repo.usage[1])

	for _, spec := range creator.specs {
		assert.Nil(t, spec.ID, "template seeds never point at existing slides")
		assert.Nil(t, spec.Order)
	}
}

func TestUseWithCustomTitle(t *testing.T) {
	creator := &fakeCreator{}
	svc, _ := newTemplateService(creator)

	p, _, err := svc.Use(context.Background(), "free", 1, UseTemplateRequest{Title: strPtr("Seed round")})
	require.NoError(t, err)
	assert.Equal(t, "Seed round", p.Title)
}

func TestUsePremiumTemplate(t *testing.T) {
	t.Run("requires upgrade", func(t *testing.T) {
		creator := &fakeCreator{}
		svc, repo := newTemplateService(creator)

		_, _, err := svc.Use(context.Background(), "free", 2, UseTemplateRequest{})
		require.Error(t, err)

		appErr, ok := core.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, appErr.StatusCode)
		assert.Equal(t, "UPGRADE_REQUIRED", appErr.Code)
		assert.Equal(t, "this template requires a premium plan", appErr.Message)
		assert.Equal(t, true, appErr.Details["upgrade_required"])
		assert.Nil(t, creator.p)
		assert.Zero(t, repo.usage[2])
	})

	t.Run("allowed on a paid plan", func(t *testing.T) {
		svc, repo := newTemplateService(&fakeCreator{})

		_, _, err := svc.Use(context.Background(), "paid", 2, UseTemplateRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, repo.usage[2])
	})
}

func TestUseDeniedByEntitlementLeavesUsageAlone(t *testing.T) {
	denied := core.EntitlementError("presentations", 3, 3)
	svc, repo := newTemplateService(&fakeCreator{err: denied})

	_, _, err := svc.Use(context.Background(), "free", 1, UseTemplateRequest{})
	assert.ErrorIs(t, err, core.ErrEntitlementExceeded)
	assert.Zero(t, repo.usage[1])
}
