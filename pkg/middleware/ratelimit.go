package middleware

import (
	"fmt"
	"net/http"
	"time"

	"lumo-api/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit is a fixed-window per-user limiter. With a nil client it is a
// pass-through. Requests outside an authenticated context are not limited;
// the auth middleware in front of this one guarantees an identity.
func RateLimit(client *redis.Client, perMinute int, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			window := time.Now().Unix() / 60
			key := fmt.Sprintf("ratelimit:%s:%d", userID.String(), window)

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				// Redis trouble should not take the endpoint down
				logger.Warn("Rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				client.Expire(r.Context(), key, time.Minute)
			}

			if count > int64(perMinute) {
				w.Header().Set("Retry-After", "60")
				utils.ResponseJSON(w, http.StatusTooManyRequests, false,
					"Too many requests, slow down", nil, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
