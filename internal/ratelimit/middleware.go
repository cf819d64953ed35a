package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Middleware enforces a per-client request limit keyed by client IP.
//
// A failing limiter backend logs and lets the request through; the
// catalog stays readable when Redis is down.
func Middleware(limiter Limiter, perSecond int, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || perSecond <= 0 {
			c.Next()
			return
		}
		clock := now
		if clock == nil {
			clock = time.Now
		}

		result, errAllow := limiter.Allow(c.Request.Context(), c.ClientIP(), perSecond, clock())
		if errAllow != nil {
			log.WithError(errAllow).Warn("rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(perSecond))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			c.Header("X-RateLimit-Reset", strconv.FormatInt(result.Reset.Unix(), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
