package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	pkgResponse "dealership-chat-router/pkg/response"
)

// RateLimit enforces a per-client request budget. Clients are keyed by the
// X-Dealership-ID header when present, falling back to remote IP, so one
// noisy dealership cannot starve the rest.
func (m Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.config.RateLimitEnabled {
			c.Next()
			return
		}

		key := c.GetHeader("X-Dealership-ID")
		if key == "" {
			key = c.ClientIP()
		}

		limiter := m.limiterFor(key)
		if !limiter.Allow() {
			m.l.Warnf(c.Request.Context(), "middleware: rate limit exceeded for %s", key)
			pkgResponse.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m Middleware) limiterFor(key string) *rate.Limiter {
	if limiter, ok := m.limiters.Get(key); ok {
		return limiter
	}

	perMin := m.config.RateLimitPerMin
	if perMin <= 0 {
		perMin = 120
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin)
	m.limiters.Add(key, limiter)
	return limiter
}
