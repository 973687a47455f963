// AngelaMos | 2026
// fakes_test.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slideview/internal/config"
	"github.com/carterperez-dev/slideview/internal/core"
)

var testJWT = config.JWTConfig{
	AccessTokenExpire:  15 * time.Minute,
	RefreshTokenExpire: 24 * time.Hour,
	Issuer:             "slideview",
	Audience:           "slideview-api",
}

func newTestSigner(t *testing.T, cfg config.JWTConfig) *Signer {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	s, err := NewSigner(priv, cfg)
	require.NoError(t, err)
	return s
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type memSessions struct {
	mu   sync.Mutex
	rows map[string]*Session
}

func newMemSessions() *memSessions {
	return &memSessions{rows: make(map[string]*Session)}
}

func (m *memSessions) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.CreatedAt = time.Now()
	cp := *s
	m.rows[s.ID] = &cp
	return nil
}

func (m *memSessions) FindByHash(_ context.Context, hash string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.TokenHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
}

func (m *memSessions) MarkUsed(_ context.Context, id, replacedBy string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok || s.IsUsed || s.RevokedAt != nil {
		return fmt.Errorf("mark session used: %w", core.ErrNotFound)
	}
	now := time.Now()
	s.IsUsed = true
	s.UsedAt = &now
	s.ReplacedByID = &replacedBy
	return nil
}

func (m *memSessions) revokeWhere(match func(*Session) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, s := range m.rows {
		if s.RevokedAt == nil && match(s) {
			s.RevokedAt = &now
		}
	}
}

func (m *memSessions) Revoke(_ context.Context, id string) error {
	m.revokeWhere(func(s *Session) bool { return s.ID == id })
	return nil
}

func (m *memSessions) RevokeFamily(_ context.Context, family string) error {
	m.revokeWhere(func(s *Session) bool { return s.FamilyID == family })
	return nil
}

func (m *memSessions) RevokeAllForUser(_ context.Context, userID string) error {
	m.revokeWhere(func(s *Session) bool { return s.UserID == userID })
	return nil
}

func (m *memSessions) activeFor(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.rows {
		if s.UserID == userID && s.RevokedAt == nil && !s.IsUsed {
			n++
		}
	}
	return n
}

type memAccounts struct {
	mu   sync.Mutex
	byID map[string]*Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: make(map[string]*Account)}
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memAccounts) GetByID(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) Create(_ context.Context, email, hash, name string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	a := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         "user",
		Plan:         "free",
		CreatedAt:    time.Now(),
	}
	m.byID[a.ID] = a
	cp := *a
	return &cp, nil
}

func (m *memAccounts) IncrementTokenVersion(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return 0, core.ErrNotFound
	}
	a.TokenVersion++
	return a.TokenVersion, nil
}

func (m *memAccounts) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

type premiumUsers map[string]bool

func (p premiumUsers) HasPremium(_ context.Context, userID string) (bool, error) {
	return p[userID], nil
}
