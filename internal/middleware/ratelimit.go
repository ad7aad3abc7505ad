// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/templates/projects-api/internal/core"
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	FailOpen   bool
	BypassFunc func(*http.Request) bool
}

// RateLimiter counts requests per key in Redis when a client is given and
// in process otherwise. A Redis error drops that request to the in-process
// buckets.
type RateLimiter struct {
	shared *redis_rate.Limiter
	local  *bucketSet
	cfg    RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByClientIP(nil)
	}

	rl := &RateLimiter{
		local: newBucketSet(),
		cfg:   cfg,
	}
	if rdb != nil {
		rl.shared = redis_rate.NewLimiter(rdb)
	}
	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.BypassFunc != nil && rl.cfg.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.cfg.KeyFunc(r)
		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if !rl.cfg.FailOpen {
				core.JSONError(w, core.NewAppError(
					http.StatusServiceUnavailable,
					"RATE_LIMITER_UNAVAILABLE",
					"rate limiter unavailable",
				))
				return
			}
			slog.Warn("rate limiter error, failing open", "error", err, "key", key)
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset",
			strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))

		if res.Allowed > 0 {
			next.ServeHTTP(w, r)
			return
		}

		retryAfter := max(int(res.RetryAfter.Seconds()), 1)
		h.Set("Retry-After", strconv.Itoa(retryAfter))
		core.JSONError(w, core.NewAppError(
			http.StatusTooManyRequests,
			"RATE_LIMITED",
			fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
		))
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	if rl.shared != nil {
		res, err := rl.shared.Allow(ctx, key, rl.cfg.Limit)
		if err == nil {
			return res, nil
		}
		slog.Debug("redis rate limit failed, using local buckets", "error", err)
	}
	return rl.local.allow(key, rl.cfg.Limit), nil
}

// KeyByClientIP keys requests on the client address. Forwarding headers are
// read only when the socket peer is inside one of the trusted prefixes; the
// client is then the right-most X-Forwarded-For hop that is not itself a
// trusted proxy.
func KeyByClientIP(trusted []netip.Prefix) func(*http.Request) string {
	isTrusted := func(addr netip.Addr) bool {
		for _, p := range trusted {
			if p.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(r *http.Request) string {
		return "ratelimit:ip:" + clientIP(r, isTrusted)
	}
}

func clientIP(r *http.Request, isTrusted func(netip.Addr) bool) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	peer, err := netip.ParseAddr(host)
	if err != nil || !isTrusted(peer.Unmap()) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			if !isTrusted(hop.Unmap()) {
				return hop.Unmap().String()
			}
		}
	}

	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}

	return host
}

// SkipPaths bypasses the limiter for exact path matches, such as probes.
func SkipPaths(paths ...string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.URL.Path]
		return ok
	}
}

// PerWindow allows rate requests every window, with bursts up to burst.
// A non-positive window falls back to one minute.
func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: window,
	}
}

const (
	bucketSweepInterval = 5 * time.Minute
	bucketIdleTTL       = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// bucketSet holds one token bucket per key. Buckets idle for longer than
// bucketIdleTTL are swept.
type bucketSet struct {
	buckets sync.Map
}

func newBucketSet() *bucketSet {
	s := &bucketSet{}
	go s.sweep()
	return s
}

func (s *bucketSet) sweep() {
	ticker := time.NewTicker(bucketSweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-bucketIdleTTL).Unix()
		s.buckets.Range(func(key, value any) bool {
			if b, ok := value.(*bucket); ok && b.lastSeen.Load() < cutoff {
				s.buckets.Delete(key)
			}
			return true
		})
	}
}

func (s *bucketSet) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	refill := time.Duration(float64(time.Second) / perSecond)

	value, ok := s.buckets.Load(key)
	if !ok {
		value, _ = s.buckets.LoadOrStore(key, &bucket{
			limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst),
		})
	}
	b := value.(*bucket) //nolint:forcetypeassert // only *bucket is stored
	b.lastSeen.Store(time.Now().Unix())

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  max(int(b.limiter.Tokens()), 0),
		RetryAfter: -1,
		ResetAfter: refill,
	}
	if b.limiter.Allow() {
		res.Allowed = 1
		res.Remaining = max(int(b.limiter.Tokens()), 0)
	} else {
		res.RetryAfter = refill
	}
	return res
}
