package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
)

// Pinger checks the store connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatsSource counts stored rows
type StatsSource interface {
	CountEntries(ctx context.Context, v database.Variant) (int64, error)
	CountErrors(ctx context.Context) (int64, error)
}

// HealthHandler handles health check requests
func HealthHandler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	}
}

// StatsHandler returns entry counts per calendar and the error log size
func StatsHandler(store StatsSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		calendars := make(map[string]int64, len(database.Variants))
		for _, v := range database.Variants {
			n, err := store.CountEntries(ctx, v)
			if err != nil {
				logger.Error("Failed to count entries", zap.String("table", v.Table()), zap.Error(err))
				respondError(c, http.StatusInternalServerError, "failed to get statistics")
				return
			}
			calendars[string(v)] = n
		}

		errorCount, err := store.CountErrors(ctx)
		if err != nil {
			logger.Error("Failed to count error logs", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "failed to get statistics")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"calendars":  calendars,
			"error_logs": errorCount,
		})
	}
}
