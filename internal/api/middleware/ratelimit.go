package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
	"github.com/palemoky/liturgical-calendar-bot/internal/ratelimit"
)

// RateLimit returns a Gin middleware limiting each client IP with l
func RateLimit(l *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !l.Allow(key) {
			logger.Debug("Rate limit exceeded", zap.String("client_ip", key), zap.String("path", c.FullPath()))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
