package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rentmatch/rentmatch-api/internal/http/response"
	"github.com/rentmatch/rentmatch-api/pkg/logger"
)

// limiterStore is the counter backend. Incr returns the count after the
// increment; Expire arms the window TTL on a fresh key.
type limiterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, window time.Duration) error
	Del(ctx context.Context, key string) error
}

type redisLimiterStore struct {
	rdb *redis.Client
}

func (s redisLimiterStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.rdb.Incr(ctx, key).Result()
}

func (s redisLimiterStore) Expire(ctx context.Context, key string, window time.Duration) error {
	return s.rdb.Expire(ctx, key, window).Err()
}

func (s redisLimiterStore) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// RateLimiter is a fixed-window per-IP limiter backed by redis. Public form
// endpoints sit behind it as spam protection. Redis trouble fails open.
type RateLimiter struct {
	store    limiterStore
	requests int
	window   time.Duration
}

func NewRateLimiter(rdb *redis.Client, requests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{requests: requests, window: window}
	if rdb != nil {
		rl.store = redisLimiterStore{rdb: rdb}
	}
	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.store == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		// Hash the key for privacy.
		key := fmt.Sprintf("ratelimit:%x", sha256.Sum256([]byte(ip+":"+r.URL.Path)))

		ctx := r.Context()
		count, err := rl.store.Incr(ctx, key)
		if err != nil {
			logger.WarnContext(ctx, "rate limit check failed, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			// A counter whose TTL never armed would limit this IP forever;
			// drop it and fail open.
			if err := rl.store.Expire(ctx, key, rl.window); err != nil {
				logger.WarnContext(ctx, "rate limit window setup failed, allowing request", "error", err)
				if delErr := rl.store.Del(ctx, key); delErr != nil {
					logger.WarnContext(ctx, "rate limit key cleanup failed", "error", delErr)
				}
				next.ServeHTTP(w, r)
				return
			}
		}
		if count > int64(rl.requests) {
			response.Fail(w, http.StatusTooManyRequests, "Too many requests. Try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}
