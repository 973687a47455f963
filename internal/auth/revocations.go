// AngelaMos | 2026
// revocations.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/middleware"
)

const (
	deniedPrefix  = "auth:denied:"
	versionPrefix = "auth:token_version:"
)

// Revocations keeps short lived access token revocations in redis. Entries
// never outlive the longest access token they could match.
type Revocations struct {
	rdb       redis.Cmdable
	accessTTL time.Duration
	now       func() time.Time
}

func NewRevocations(rdb redis.Cmdable, accessTTL time.Duration) *Revocations {
	return &Revocations{rdb: rdb, accessTTL: accessTTL, now: time.Now}
}

// Deny blocks one access token until it would have expired anyway.
func (r *Revocations) Deny(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, deniedPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("deny access token: %w", err)
	}
	return nil
}

// RaiseVersion rejects every access token of the user issued below version.
func (r *Revocations) RaiseVersion(ctx context.Context, userID string, version int) error {
	if err := r.rdb.Set(ctx, versionPrefix+userID, version, r.accessTTL).Err(); err != nil {
		return fmt.Errorf("raise token version: %w", err)
	}
	return nil
}

func (r *Revocations) Check(ctx context.Context, c *middleware.AccessTokenClaims) error {
	pipe := r.rdb.Pipeline()
	denied := pipe.Exists(ctx, deniedPrefix+c.ID)
	floor := pipe.Get(ctx, versionPrefix+c.UserID)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("check revocations: %w", err)
	}

	if denied.Val() > 0 {
		return core.ErrTokenRevoked
	}

	v, err := floor.Int()
	switch {
	case errors.Is(err, redis.Nil):
		return nil
	case err != nil:
		return fmt.Errorf("read token version: %w", err)
	case c.TokenVersion < v:
		return core.ErrTokenRevoked
	}
	return nil
}
