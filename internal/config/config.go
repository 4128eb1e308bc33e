package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the bot and the importer
type Config struct {
	Discord   DiscordConfig   `mapstructure:"discord"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// DiscordConfig holds bot credentials and command registration targets
type DiscordConfig struct {
	Token         string `mapstructure:"token"`
	ApplicationID string `mapstructure:"application_id"`
	GuildID       string `mapstructure:"guild_id"` // empty registers commands globally
	AdminRoleID   string `mapstructure:"admin_role_id"`
}

// ScheduleConfig holds the daily broadcast settings
type ScheduleConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	DailyPostTime string `mapstructure:"daily_post_time"` // HH:MM, 24-hour, local time
	Channel       string `mapstructure:"channel"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// ServerConfig holds the health/lookup HTTP server configuration
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord.guild_id", "")
	v.SetDefault("discord.admin_role_id", "")
	v.SetDefault("schedule.enabled", true)
	v.SetDefault("schedule.daily_post_time", "08:00")
	v.SetDefault("schedule.channel", "liturgical-calendar")
	v.SetDefault("database.path", "data/liturgical.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 1.0)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("log.debug", false)
}

func bindEnvVars(v *viper.Viper) {
	// Discord
	stringEnv(v, "DISCORD_TOKEN", "discord.token")
	stringEnv(v, "DISCORD_APPLICATION_ID", "discord.application_id")
	stringEnv(v, "DISCORD_GUILD_ID", "discord.guild_id")
	stringEnv(v, "DISCORD_ADMIN_ROLE_ID", "discord.admin_role_id")

	// Schedule
	boolEnv(v, "DAILY_POST_ENABLED", "schedule.enabled")
	stringEnv(v, "DAILY_POST_TIME", "schedule.daily_post_time")
	stringEnv(v, "DAILY_POST_CHANNEL", "schedule.channel")

	// Database
	stringEnv(v, "DATABASE_PATH", "database.path")

	// Server
	boolEnv(v, "SERVER_ENABLED", "server.enabled")
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("server.port", p)
		}
	}
	stringEnv(v, "GIN_MODE", "server.mode")

	// Rate Limit
	boolEnv(v, "RATE_LIMIT_ENABLED", "rate_limit.enabled")
	if rps := os.Getenv("RATE_LIMIT_RPS"); rps != "" {
		if r, err := strconv.ParseFloat(rps, 64); err == nil {
			v.Set("rate_limit.requests_per_second", r)
		}
	}
	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if b, err := strconv.Atoi(burst); err == nil {
			v.Set("rate_limit.burst", b)
		}
	}

	boolEnv(v, "LOG_DEBUG", "log.debug")
}

func stringEnv(v *viper.Viper, env, key string) {
	if val := os.Getenv(env); val != "" {
		v.Set(key, val)
	}
}

func boolEnv(v *viper.Viper, env, key string) {
	if val := os.Getenv(env); val != "" {
		v.Set(key, val == "true")
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, _, err := ParseClock(c.Schedule.DailyPostTime); err != nil {
		return err
	}

	if strings.TrimSpace(c.Schedule.Channel) == "" {
		return fmt.Errorf("schedule channel cannot be empty")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database max_open_conns must be positive")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.Mode != "debug" && c.Server.Mode != "release" && c.Server.Mode != "test" {
		return fmt.Errorf("invalid server mode: %s (must be 'debug', 'release', or 'test')", c.Server.Mode)
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit requests_per_second must be positive")
	}

	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	return nil
}

// RequireDiscord checks the settings only the bot binary needs.
func (c *Config) RequireDiscord() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("discord token is required (set DISCORD_TOKEN)")
	}
	if c.Discord.ApplicationID == "" {
		return fmt.Errorf("discord application id is required (set DISCORD_APPLICATION_ID)")
	}
	return nil
}

// ParseClock parses a 24-hour HH:MM string.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid daily post time %q (want HH:MM, 24-hour)", s)
	}
	return t.Hour(), t.Minute(), nil
}
