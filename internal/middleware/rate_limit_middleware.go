package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
)

// RateLimiter decides whether a given caller may proceed. Implemented by the
// redis package; the interface lives here so middleware stays transport-only.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitMiddleware applies a per-user rate limit. It must run after
// AuthMiddleware, since the bucket key is the authenticated user id.
// Limiter errors fail open: throttling is protection, not a correctness
// requirement, and a Redis outage must not take writes down with it.
func RateLimitMiddleware(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserIDFromContext(r.Context())
			if !ok {
				writeJSONError(w, "missing user identity", http.StatusUnauthorized)
				return
			}

			allowed, err := limiter.Allow(r.Context(), strconv.FormatUint(uint64(userID), 10))
			if err != nil {
				log.Printf("Rate limiter unavailable for user %d: %v", userID, err)
				allowed = true
			}
			if !allowed {
				writeJSONError(w, "too many requests, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
