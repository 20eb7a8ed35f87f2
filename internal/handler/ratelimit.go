package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// rateLimitSubmissions caps public submissions with fixed redis windows,
// one counter per client IP and one shared by everyone. The per-IP breach
// is the caller's fault (429); the global breach means the site itself is
// being flooded (503). If redis is down the request is allowed through.
func (h *Handler) rateLimitSubmissions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		window := time.Duration(h.config.RateLimit.Window) * time.Second

		globalKey := "ratelimit:submissions:global"
		ipKey := "ratelimit:submissions:ip:" + clientIP(r)

		global, err := h.incrWindow(r, globalKey, window)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if global > int64(h.config.RateLimit.GlobalMax) {
			h.errorJSON(w, r, http.StatusServiceUnavailable, "submissions are temporarily paused, try again later")
			return
		}

		count, err := h.incrWindow(r, ipKey, window)
		if err != nil {
			slog.Warn("rate limiter unavailable, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if count > int64(h.config.RateLimit.PerIPMax) {
			retryAfter := window
			if ttl, err := h.redisClient.TTL(r.Context(), ipKey).Result(); err == nil && ttl > 0 {
				retryAfter = ttl
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			h.errorJSON(w, r, http.StatusTooManyRequests, "too many submissions, try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// incrWindow bumps a fixed-window counter. The expiry is only set when the
// INCR created the key, so the window does not slide on later hits.
func (h *Handler) incrWindow(r *http.Request, key string, window time.Duration) (int64, error) {
	count, err := h.redisClient.Incr(r.Context(), key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := h.redisClient.Expire(r.Context(), key, window).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}
