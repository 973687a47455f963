// AngelaMos | 2026
// cache.go

package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "plan:"

// CachedRepository reads plans through redis. Plans are reference data, so a
// stale entry lives at most ttl. Redis failures fall through to the database.
type CachedRepository struct {
	next   Repository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedRepository(
	next Repository,
	client *redis.Client,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedRepository {
	return &CachedRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedRepository) ListActive(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if c.get(ctx, cachePrefix+"active", &plans) {
		return plans, nil
	}

	plans, err := c.next.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	c.set(ctx, cachePrefix+"active", plans)
	return plans, nil
}

func (c *CachedRepository) GetByID(ctx context.Context, id int64) (*Plan, error) {
	key := fmt.Sprintf("%sid:%d", cachePrefix, id)

	var p Plan
	if c.get(ctx, key, &p) {
		return &p, nil
	}

	found, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, found)
	return found, nil
}

func (c *CachedRepository) GetBySlug(
	ctx context.Context,
	slug string,
) (*Plan, error) {
	key := cachePrefix + "slug:" + slug

	var p Plan
	if c.get(ctx, key, &p) {
		return &p, nil
	}

	found, err := c.next.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	c.set(ctx, key, found)
	return found, nil
}

func (c *CachedRepository) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("plan cache read failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("plan cache entry corrupt", "key", key, "error", err)
		return false
	}

	return true
}

func (c *CachedRepository) set(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("plan cache write failed", "key", key, "error", err)
	}
}

var _ Repository = (*CachedRepository)(nil)
