package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// perIPRateLimit caps how many requests a single IP may make per hour. The
// hourly budget is also the burst, matching a fixed per-hour window.
func perIPRateLimit(perHour int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		lim := limiters[ip]
		if lim == nil {
			lim = rate.NewLimiter(rate.Every(time.Hour/time.Duration(perHour)), perHour)
			limiters[ip] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "You have exceeded the maximum number of requests in an hour",
			})
			return
		}
		c.Next()
	}
}
