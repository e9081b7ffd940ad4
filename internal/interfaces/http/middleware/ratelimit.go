package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/visitorpass/internal/infrastructure/ratelimit"
	"github.com/orris-inc/visitorpass/internal/shared/constants"
	"github.com/orris-inc/visitorpass/internal/shared/logger"
	"github.com/orris-inc/visitorpass/internal/shared/utils"
)

// RateLimiter limits how often one user may hit a route. Keys fall back to the
// client IP when no user is authenticated.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	scope   string
	config  ratelimit.RateLimitConfig
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, scope string, perMinute int, log logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		scope:   scope,
		config:  ratelimit.RateLimitConfig{RequestsPerMinute: perMinute},
		logger:  log,
	}
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		subject := c.GetString(constants.ContextKeyUserID)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}

		allowed, err := rl.limiter.Allow(c.Request.Context(), rl.scope+":"+subject, rl.config)
		if err != nil {
			// a limiter outage must not block submissions
			rl.logger.Warnw("rate limiter unavailable, allowing request", "error", err, "scope", rl.scope)
			c.Next()
			return
		}

		if !allowed {
			c.Header(constants.HeaderRetryAfter, strconv.Itoa(int(time.Minute.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
