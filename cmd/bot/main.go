package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/palemoky/liturgical-calendar-bot/internal/api/rest"
	"github.com/palemoky/liturgical-calendar-bot/internal/bot"
	"github.com/palemoky/liturgical-calendar-bot/internal/broadcast"
	"github.com/palemoky/liturgical-calendar-bot/internal/commands"
	"github.com/palemoky/liturgical-calendar-bot/internal/config"
	"github.com/palemoky/liturgical-calendar-bot/internal/database"
	"github.com/palemoky/liturgical-calendar-bot/internal/liturgy"
	"github.com/palemoky/liturgical-calendar-bot/internal/logger"
	"github.com/palemoky/liturgical-calendar-bot/internal/ratelimit"
)

var configPath string

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()
	defer logger.Sync()

	rootCmd := &cobra.Command{
		Use:   "liturgical-bot",
		Short: "Liturgical calendar Discord bot",
		Long:  "Serves the General Roman Calendar, the Tridentine calendar and the Roman Martyrology through slash commands and a daily post",
		RunE:  serve,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file (ignored if missing)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and run the daily scheduler (default)",
		RunE:  serve,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "deploy",
		Short: "Register slash commands for the configured guild, or globally",
		RunE:  deploy,
	})

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Command execution failed", zap.Error(err))
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	// LOG_DEBUG is already folded into cfg.Log by config.Load
	logger.Init(cfg.Log.Debug)

	if err := cfg.RequireDiscord(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func deploy(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	b, err := bot.New(cfg.Discord, nil)
	if err != nil {
		return err
	}

	_, err = bot.Deploy(cmd.Context(), b.Session(), cfg.Discord.ApplicationID, cfg.Discord.GuildID)
	return err
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info("Starting liturgical calendar bot",
		zap.String("database", cfg.Database.Path),
		zap.Bool("daily_post", cfg.Schedule.Enabled),
		zap.String("daily_post_time", cfg.Schedule.DailyPostTime),
		zap.String("channel", cfg.Schedule.Channel),
	)

	db, err := database.Open(cfg.Database.Path, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := database.NewRepository(db)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}
	handler := commands.NewHandler(repo, limiter)

	b, err := bot.New(cfg.Discord, handler)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Open(ctx); err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	if cfg.Schedule.Enabled {
		dispatcher := broadcast.NewDispatcher(liturgy.NewService(repo), b.Sender(cfg.Schedule.Channel), repo)
		scheduler, err := broadcast.NewScheduler(cfg.Schedule.DailyPostTime, dispatcher.Task())
		if err != nil {
			return err
		}
		if err := scheduler.Start(ctx); err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	var srv *http.Server
	if cfg.Server.Enabled {
		srv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           rest.SetupRouter(cfg, repo),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("Server started",
				zap.Int("port", cfg.Server.Port),
				zap.String("rest_api", fmt.Sprintf("http://localhost:%d/api/v1", cfg.Server.Port)),
			)

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("HTTP server failed", zap.Error(err))
				stop()
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Server forced to shutdown", zap.Error(err))
		}
	}

	logger.Info("Bot exited")
	return nil
}
