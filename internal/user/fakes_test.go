// AngelaMos | 2026
// fakes_test.go

package user

import (
	"context"
	"fmt"
	"time"

	"github.com/carterperez-dev/slideview/internal/core"
)

type memRepo struct {
	users map[string]*User
	slugs map[int64]string
}

func newMemRepo() *memRepo {
	return &memRepo{
		users: map[string]*User{},
		slugs: map[int64]string{1: "free", 2: "premium"},
	}
}

func (m *memRepo) put(u User) {
	m.users[u.ID] = &u
}

func (m *memRepo) live(id string) (*User, error) {
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	return u, nil
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return core.ErrDuplicateKey
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.put(*u)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, err := m.live(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email && u.DeletedAt == nil {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) Search(context.Context, Filter) ([]User, int, error) {
	var out []User
	for _, u := range m.users {
		if u.DeletedAt == nil {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) Rename(_ context.Context, id, name string) error {
	u, err := m.live(id)
	if err != nil {
		return err
	}
	u.Name = name
	return nil
}

func (m *memRepo) SetRole(_ context.Context, id, role string) error {
	u, err := m.live(id)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

func (m *memRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, err := m.live(id)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (m *memRepo) IncrementTokenVersion(_ context.Context, id string) (int, error) {
	u, err := m.live(id)
	if err != nil {
		return 0, err
	}
	u.TokenVersion++
	return u.TokenVersion, nil
}

func (m *memRepo) SetPlan(_ context.Context, id string, planID int64, expiresAt *time.Time) error {
	u, err := m.live(id)
	if err != nil {
		return err
	}
	u.PlanID = &planID
	u.PlanSlug = m.slugs[planID]
	u.PlanExpiresAt = expiresAt
	return nil
}

func (m *memRepo) SetSubscriptionStatus(_ context.Context, id, status string, _ *time.Time) error {
	u, err := m.live(id)
	if err != nil {
		return err
	}
	u.SubscriptionStatus = &status
	return nil
}

func (m *memRepo) Deactivate(_ context.Context, id string) error {
	u, err := m.live(id)
	if err != nil {
		return err
	}
	now := time.Now()
	u.DeletedAt = &now
	u.TokenVersion++
	return nil
}

type slugPlans map[string]int64

func (p slugPlans) PlanIDBySlug(_ context.Context, slug string) (int64, error) {
	id, ok := p[slug]
	if !ok {
		return 0, core.ErrNotFound
	}
	return id, nil
}

var catalog = slugPlans{"free": 1, "premium": 2}
