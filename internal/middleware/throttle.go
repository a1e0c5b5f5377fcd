package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"anoa.com/productcatalog/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Throttle limits requests per client IP. When the limiter itself fails the
// request goes through.
func Throttle(limiter ratelimiter.Limiter, log logrus.FieldLogger) gin.HandlerFunc {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err == nil {
			c.Next()
			return
		}

		var rateLimitErr *ratelimiter.RateLimitError
		if errors.As(err, &rateLimitErr) {
			c.Header("Retry-After", fmt.Sprintf("%.0f", rateLimitErr.RetryAfter.Seconds()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": rateLimitErr.Message})
			return
		}

		log.WithError(err).WithField("client_ip", c.ClientIP()).Warn("rate limiter unavailable")
		c.Next()
	}
}
