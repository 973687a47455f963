// AngelaMos | 2026
// signer_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/slideview/internal/core"
)

var alice = &Account{
	ID:           "8a7f6a47-8d1c-4b57-9c63-2f1e0d3c9b10",
	Role:         "user",
	Plan:         "premium",
	TokenVersion: 3,
}

func TestIssueAndParse(t *testing.T) {
	s := newTestSigner(t, testJWT)

	issued, err := s.Issue(alice)
	require.NoError(t, err)

	claims, err := s.Parse(issued.Token)
	require.NoError(t, err)

	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, alice.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "premium", claims.Plan)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestParseRejects(t *testing.T) {
	s := newTestSigner(t, testJWT)

	t.Run("expired", func(t *testing.T) {
		old := newTestSigner(t, testJWT)
		old.private, old.public = s.private, s.public
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }

		issued, err := old.Issue(alice)
		require.NoError(t, err)

		_, err = s.Parse(issued.Token)
		assert.ErrorIs(t, err, core.ErrTokenExpired)
	})

	t.Run("foreign key", func(t *testing.T) {
		issued, err := newTestSigner(t, testJWT).Issue(alice)
		require.NoError(t, err)

		_, err = s.Parse(issued.Token)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("wrong audience", func(t *testing.T) {
		cfg := testJWT
		cfg.Audience = "someone-else"
		other := newTestSigner(t, cfg)
		other.private, other.public = s.private, s.public

		issued, err := other.Issue(alice)
		require.NoError(t, err)

		_, err = s.Parse(issued.Token)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := s.Parse("not.a.jwt")
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	})
}

func TestJWKSHandler(t *testing.T) {
	s := newTestSigner(t, testJWT)

	rec := httptest.NewRecorder()
	s.JWKSHandler()(rec, httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var set struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&set))
	require.Len(t, set.Keys, 1)

	key := set.Keys[0]
	assert.Equal(t, "EC", key["kty"])
	assert.Equal(t, s.KeyID(), key["kid"])
	assert.NotContains(t, key, "d")
}
