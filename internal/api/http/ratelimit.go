package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"campus-reserve-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RateLimiter throttles submissions per holder across all workers. Requests
// serialize on a shared Redis counter, so the limit holds regardless of how
// many processes handle traffic.
type RateLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
}

func NewRateLimiter(client redis.UniversalClient, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Limit wraps a handler. A nil limiter or client disables throttling; on a
// Redis failure the request proceeds, since losing the limiter must not take
// registrations down with it.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl == nil || rl.client == nil || rl.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		holderID := holderIDFromContext(r.Context())
		key := fmt.Sprintf("reserve:rate_limit:submit:%d", holderID)

		raw, err := rateLimitScript.Run(r.Context(), rl.client, []string{key}, rl.window.Milliseconds()).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		values, ok := raw.([]interface{})
		if !ok || len(values) != 2 {
			next.ServeHTTP(w, r)
			return
		}
		count, _ := values[0].(int64)
		ttlMs, _ := values[1].(int64)

		if count > int64(rl.limit) {
			retryAfter := int((time.Duration(ttlMs) * time.Millisecond).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many submissions, slow down"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
