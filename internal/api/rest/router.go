package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/palemoky/liturgical-calendar-bot/internal/api/middleware"
	"github.com/palemoky/liturgical-calendar-bot/internal/api/rest/handler"
	"github.com/palemoky/liturgical-calendar-bot/internal/config"
	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	"github.com/palemoky/liturgical-calendar-bot/internal/ratelimit"
)

// SetupRouter sets up the Gin router with all routes
func SetupRouter(cfg *config.Config, repo *database.Repository) *gin.Engine {
	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Rate limiting middleware
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", handler.HealthHandler(repo))

		// Statistics
		v1.GET("/stats", handler.StatsHandler(repo))

		// Calendar lookups
		calendarHandler := handler.NewCalendarHandler(repo)
		v1.GET("/calendar/:variant", calendarHandler.GetCalendar)
	}

	return router
}
