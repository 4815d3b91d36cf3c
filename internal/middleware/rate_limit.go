package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "contentplanner/internal/handler"
)

const rateLimitWindow = time.Minute

// RateLimitMiddleware allows limit requests per minute for each path and
// caller, counted in redis. The caller is the authenticated user when known,
// else the client IP. Redis failures let the request through.
func RateLimitMiddleware(client *redis.Client, limit int, log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("rate_limit:%s:%s", r.URL.Path, caller(r))

			ctx := r.Context()
			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				log.WithError(err).WithField("key", key).Warn("rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				if err := client.Expire(ctx, key, rateLimitWindow).Err(); err != nil {
					log.WithError(err).WithField("key", key).Warn("rate limit expire failed")
				}
			}

			if count > int64(limit) {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(rateLimitWindow.Seconds())))
				handlers.WriteError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func caller(r *http.Request) string {
	if user, ok := handlers.UserFromContext(r.Context()); ok {
		return user.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
