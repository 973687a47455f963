// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/slideview/internal/core"
)

const (
	rateLimitPrefix = "ratelimit:"
	localBucketTTL  = 10 * time.Minute
)

// Policy picks the bucket key and limit for a request.
type Policy func(r *http.Request) (key string, limit redis_rate.Limit)

// RateLimiter enforces a GCRA limit in redis. While redis is unreachable it
// falls back to per-process token buckets with the same limit.
type RateLimiter struct {
	remote *redis_rate.Limiter
	local  *localBuckets
	policy Policy
}

func NewRateLimiter(rdb *redis.Client, policy Policy) *RateLimiter {
	return &RateLimiter{
		remote: redis_rate.NewLimiter(rdb),
		local:  newLocalBuckets(localBucketTTL),
		policy: policy,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, limit := rl.policy(r)
		if limit.Rate <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		res := rl.allow(r.Context(), key, limit)
		writeLimitHeaders(w.Header(), res)

		if res.Allowed == 0 {
			rejectLimited(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
	limit redis_rate.Limit,
) *redis_rate.Result {
	res, err := rl.remote.Allow(ctx, key, limit)
	if err == nil {
		return res
	}

	slog.WarnContext(ctx, "rate limiter using local buckets", "error", err)
	return rl.local.allow(key, limit, time.Now())
}

// ByIP applies one limit per client address.
func ByIP(limit redis_rate.Limit) Policy {
	return func(r *http.Request) (string, redis_rate.Limit) {
		return rateLimitPrefix + "ip:" + ClientIP(r), limit
	}
}

type PlanLimit struct {
	RequestsPerMinute int
	BurstSize         int
}

const fallbackTier = "free"

// DefaultPlanLimits is keyed by plan slug.
var DefaultPlanLimits = map[string]PlanLimit{
	"free":       {RequestsPerMinute: 60, BurstSize: 10},
	"premium":    {RequestsPerMinute: 600, BurstSize: 100},
	"enterprise": {RequestsPerMinute: 6000, BurstSize: 1000},
}

// ByPlan limits each authenticated user at the rate of the plan carried in
// their access token. Unknown plans get the free tier, anonymous callers are
// keyed by address.
func ByPlan(limits map[string]PlanLimit) Policy {
	return func(r *http.Request) (string, redis_rate.Limit) {
		tier, ok := limits[GetUserPlan(r.Context())]
		if !ok {
			tier = limits[fallbackTier]
		}
		limit := PerWindow(tier.RequestsPerMinute, tier.BurstSize, time.Minute)

		if id := GetUserID(r.Context()); id != "" {
			return rateLimitPrefix + "user:" + id, limit
		}
		return rateLimitPrefix + "ip:" + ClientIP(r), limit
	}
}

// PerWindow allows n requests per window with the given burst.
func PerWindow(n, burst int, window time.Duration) redis_rate.Limit {
	return redis_rate.Limit{Rate: n, Burst: burst, Period: window}
}

// ClientIP prefers the proxy supplied address. The last X-Forwarded-For hop
// is the one our own proxy appended.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		if ip := strings.TrimSpace(hops[len(hops)-1]); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeLimitHeaders(h http.Header, res *redis_rate.Result) {
	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset",
		strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy",
		fmt.Sprintf("%d;w=%d", res.Limit.Rate, int(res.Limit.Period.Seconds())))
}

func rejectLimited(w http.ResponseWriter, res *redis_rate.Result) {
	retry := int(res.RetryAfter.Round(time.Second) / time.Second)
	if retry < 1 {
		retry = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retry))
	core.JSONError(w, core.NewAppError(
		nil,
		fmt.Sprintf("too many requests, retry after %d seconds", retry),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	).WithDetails(map[string]any{"retry_after": retry}))
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localBuckets drops idle buckets on access instead of running a sweeper
// goroutine.
type localBuckets struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	swept   time.Time
}

func newLocalBuckets(ttl time.Duration) *localBuckets {
	return &localBuckets{buckets: make(map[string]*bucket), ttl: ttl}
}

func (l *localBuckets) allow(
	key string,
	limit redis_rate.Limit,
	now time.Time,
) *redis_rate.Result {
	interval := limit.Period / time.Duration(limit.Rate)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.swept) > l.ttl {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.swept = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(interval), limit.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	res := &redis_rate.Result{
		Limit:      limit,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	res.Remaining = max(int(b.limiter.TokensAt(now)), 0)

	return res
}
