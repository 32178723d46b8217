package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	JWTSecret    string `env:"JWT_SECRET,required"  validate:"required,min=32"`
	ResendAPIKey string `env:"RESEND_API_KEY"       validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"          validate:"required_if=Env production,required_if=Env staging"`

	// Base URL embedded in emitted reset links, e.g. https://app.example.com
	ResetLinkBase string `env:"RESET_LINK_BASE_URL" envDefault:"http://localhost:8080"`

	AttemptRetentionHours int    `env:"ATTEMPT_RETENTION_HOURS" envDefault:"168" validate:"min=1"`
	JanitorSchedule       string `env:"JANITOR_SCHEDULE" envDefault:"@hourly" validate:"required"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
