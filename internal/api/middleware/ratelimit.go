package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"tradein-valuation/internal/api/models"
)

// RateLimit applies a token bucket per client IP. Idle buckets expire after
// ten minutes. rps <= 0 disables limiting.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = int(math.Ceil(rps))
	}
	buckets := gocache.New(10*time.Minute, 10*time.Minute)
	retryAfter := strconv.Itoa(int(math.Ceil(1 / rps)))

	return func(c *gin.Context) {
		ip := c.ClientIP()
		var limiter *rate.Limiter
		if v, ok := buckets.Get(ip); ok {
			limiter = v.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			// Add loses the race to a concurrent first request; use its bucket.
			if err := buckets.Add(ip, limiter, gocache.DefaultExpiration); err != nil {
				if v, ok := buckets.Get(ip); ok {
					limiter = v.(*rate.Limiter)
				}
			}
		}
		// Touch the entry so active clients keep their bucket.
		buckets.SetDefault(ip, limiter)

		if !limiter.Allow() {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "RATE_LIMITED",
					Message: "Too many requests, please slow down.",
				},
			})
			return
		}
		c.Next()
	}
}
