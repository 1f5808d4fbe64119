package middleware

import (
	"net/http"
	"strconv"

	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/apperr"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/internal/model"
	"github.com/A-Santhosh-Hub/YT-Video-Downloader/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiter decides whether a client may make another request
type Limiter interface {
	IsAllowed(ip string) bool
	GetRemaining(ip string) int
}

// RateLimitMiddleware rejects clients over their request rate with 429
func RateLimitMiddleware(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !limiter.IsAllowed(ip) {
			logger.Logger.Warn("Request rejected by rate limiter",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Kind:  apperr.RateLimited.String(),
				Code:  http.StatusTooManyRequests,
			})
			return
		}

		if remaining := limiter.GetRemaining(ip); remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}

		c.Next()
	}
}
