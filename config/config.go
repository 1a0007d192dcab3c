// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"meetnow/schedule"
)

// Prefix is prepended to every variable name, e.g. MEETNOW_PORT.
const Prefix = "MEETNOW"

// Config holds the configuration for the meetnow server.
type Config struct {
	// HTTP
	Port               int    `envconfig:"PORT" default:"8080"`
	GinMode            string `envconfig:"GIN_MODE" default:"debug"`
	CORSOrigins        string `envconfig:"CORS_ORIGINS" default:"*"`
	RateLimitPerMinute int    `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	// Engine
	GridMeters          float64       `envconfig:"GRID_METERS" default:"300"`
	ResetHour           int           `envconfig:"RESET_HOUR" default:"5"`
	ResetUTCOffsetHours int           `envconfig:"RESET_UTC_OFFSET_HOURS" default:"9"`
	HeartbeatInterval   time.Duration `envconfig:"HEARTBEAT_INTERVAL" default:"25s"`
	SeedDemoUsers       bool          `envconfig:"SEED_DEMO_USERS" default:"true"`

	// Report audit sink, disabled when the URI is empty
	MongoURI      string `envconfig:"MONGODB_URI" default:""`
	MongoDatabase string `envconfig:"MONGODB_DATABASE" default:"meetnow"`
}

// New loads an optional .env file, then parses MEETNOW_ prefixed variables.
func New(log zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment")
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Int("port", cfg.Port).
		Str("gin_mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Float64("grid_meters", cfg.GridMeters).
		Int("reset_hour", cfg.ResetHour).
		Int("reset_utc_offset_hours", cfg.ResetUTCOffsetHours).
		Dur("heartbeat", cfg.HeartbeatInterval).
		Bool("seed_demo_users", cfg.SeedDemoUsers).
		Bool("audit_enabled", cfg.MongoURI != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unsupported GIN_MODE: %s", c.GinMode)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT: %s", c.LogFormat)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %s", c.LogLevel)
	}
	if c.GridMeters <= 0 {
		return fmt.Errorf("GRID_METERS must be positive, got %v", c.GridMeters)
	}
	if c.ResetHour < 0 || c.ResetHour > 23 {
		return fmt.Errorf("RESET_HOUR must be within 0-23, got %d", c.ResetHour)
	}
	if c.ResetUTCOffsetHours < -12 || c.ResetUTCOffsetHours > 14 {
		return fmt.Errorf("RESET_UTC_OFFSET_HOURS must be within -12..14, got %d", c.ResetUTCOffsetHours)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("HEARTBEAT_INTERVAL must be positive, got %s", c.HeartbeatInterval)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// NewForTesting returns the defaults without reading the environment.
func NewForTesting() *Config {
	return &Config{
		Port:                8080,
		GinMode:             "test",
		CORSOrigins:         "*",
		RateLimitPerMinute:  0,
		LogLevel:            "debug",
		LogFormat:           "json",
		GridMeters:          300,
		ResetHour:           5,
		ResetUTCOffsetHours: 9,
		HeartbeatInterval:   25 * time.Second,
		SeedDemoUsers:       false,
		MongoDatabase:       "meetnow",
	}
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AllowedOrigins splits CORS_ORIGINS on commas. A lone "*" allows everything.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ResetBoundary is the daily reset time in its fixed UTC offset zone.
func (c *Config) ResetBoundary() schedule.Daily {
	if c.ResetUTCOffsetHours == 9 {
		return schedule.Daily{Hour: c.ResetHour, Location: schedule.Tokyo}
	}
	zone := time.FixedZone(fmt.Sprintf("UTC%+d", c.ResetUTCOffsetHours), c.ResetUTCOffsetHours*60*60)
	return schedule.Daily{Hour: c.ResetHour, Location: zone}
}
