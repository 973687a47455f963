// AngelaMos | 2026
// service_test.go

package plan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/user"
)

type fakeUsers struct {
	users map[string]*user.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) SetPlan(
	_ context.Context,
	id string,
	planID int64,
	expiresAt *time.Time,
) error {
	u, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PlanID = &planID
	u.PlanExpiresAt = expiresAt
	return nil
}

func catalog() *countingRepo {
	return newCountingRepo(
		Plan{ID: 1, Name: "Free", Slug: FreeSlug, Price: "0.00", BillingCycle: CycleMonthly, IsActive: true},
		premium(),
		Plan{ID: 3, Name: "Yearly", Slug: "yearly", Price: "299.00", BillingCycle: CycleYearly, IsActive: true},
		Plan{ID: 4, Name: "Retired", Slug: "retired", Price: "5.00", BillingCycle: CycleMonthly},
	)
}

func newPlanService(users *fakeUsers, now time.Time) *Service {
	svc := NewService(catalog(), users)
	svc.now = func() time.Time { return now }
	return svc
}

func TestPeriodEnd(t *testing.T) {
	now := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		plan Plan
		want *time.Time
	}{
		{"free never lapses", Plan{Price: "0"}, nil},
		{"lifetime never lapses", Plan{Price: "499", BillingCycle: CycleLifetime}, nil},
		{"monthly", Plan{Price: "29.90", BillingCycle: CycleMonthly}, ptr(now.AddDate(0, 1, 0))},
		{"yearly", Plan{Price: "299", BillingCycle: CycleYearly}, ptr(now.AddDate(1, 0, 0))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PeriodEnd(&tt.plan, now))
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestChangePlan(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("paid plan expires after one period", func(t *testing.T) {
		users := &fakeUsers{users: map[string]*user.User{"u1": {ID: "u1"}}}
		svc := newPlanService(users, now)

		resp, err := svc.ChangePlan(context.Background(), "u1", "premium")
		require.NoError(t, err)

		assert.True(t, resp.IsUpgrade)
		assert.Equal(t, "premium", resp.Plan.Slug)
		require.NotNil(t, resp.ExpiresAt)
		assert.Equal(t, now.AddDate(0, 1, 0), *resp.ExpiresAt)
		assert.Equal(t, int64(2), *users.users["u1"].PlanID)
	})

	t.Run("free plan has no expiry and is a downgrade", func(t *testing.T) {
		premiumID := int64(2)
		users := &fakeUsers{users: map[string]*user.User{
			"u1": {ID: "u1", PlanID: &premiumID},
		}}
		svc := newPlanService(users, now)

		resp, err := svc.ChangePlan(context.Background(), "u1", FreeSlug)
		require.NoError(t, err)

		assert.False(t, resp.IsUpgrade)
		assert.Nil(t, resp.ExpiresAt)
		assert.Nil(t, users.users["u1"].PlanExpiresAt)
	})

	t.Run("unknown and inactive plans are rejected", func(t *testing.T) {
		users := &fakeUsers{users: map[string]*user.User{"u1": {ID: "u1"}}}
		svc := newPlanService(users, now)

		for slug, msg := range map[string]string{
			"ghost":   "plan_slug does not exist",
			"retired": "this plan is not available",
		} {
			_, err := svc.ChangePlan(context.Background(), "u1", slug)
			require.ErrorIs(t, err, core.ErrInvalidInput)

			appErr, ok := core.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, msg, appErr.Message)
		}
		assert.Nil(t, users.users["u1"].PlanID)
	})
}

func TestListReturnsOnlyActivePlans(t *testing.T) {
	svc := newPlanService(&fakeUsers{}, time.Now())

	plans, err := svc.List(context.Background())
	require.NoError(t, err)

	slugs := make([]string, 0, len(plans))
	for _, p := range plans {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{FreeSlug, "premium", "yearly"}, slugs)
}
