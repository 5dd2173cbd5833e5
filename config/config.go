package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env      string `env:"ENV"       envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT"      envDefault:"8080"  validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"  validate:"oneof=debug info warn error"`

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS"          envDefault:"10" validate:"min=1"`
	DBMinConns  int32  `env:"DB_MIN_CONNS"          envDefault:"2"  validate:"min=0,ltefield=DBMaxConns"`
	MetricsPort string `env:"METRICS_PORT"          envDefault:"9090"`

	JWTSecret       string        `env:"JWT_SECRET,required" validate:"required,min=32"`
	JWTIssuer       string        `env:"JWT_ISSUER"          envDefault:"lms" validate:"required"`
	SessionTokenTTL time.Duration `env:"SESSION_TOKEN_TTL"   envDefault:"5h"  validate:"min=1m"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL"     envDefault:"15m" validate:"min=1m"`

	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"bcrypt" validate:"oneof=bcrypt argon2id"`
	BcryptCost     int    `env:"BCRYPT_COST"     envDefault:"10"     validate:"min=4,max=31"`

	EmailProvider string `env:"EMAIL_PROVIDER" envDefault:"log" validate:"oneof=log resend smtp"`
	ResendAPIKey  string `env:"RESEND_API_KEY"  validate:"required_if=EmailProvider resend"`
	ResendFrom    string `env:"RESEND_FROM"     validate:"required_if=EmailProvider resend"`
	SMTPHost      string `env:"SMTP_HOST"       validate:"required_if=EmailProvider smtp"`
	SMTPPort      int    `env:"SMTP_PORT"       envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"   validate:"required_if=EmailProvider smtp"`
	SMTPPassword  string `env:"SMTP_PASSWORD"   validate:"required_if=EmailProvider smtp"`
	SMTPFrom      string `env:"SMTP_FROM"       validate:"required_if=EmailProvider smtp"`
	ResetLinkBase string `env:"RESET_LINK_BASE_URL" envDefault:"http://localhost:8080" validate:"url"`

	CandidateImportPath string `env:"CANDIDATE_IMPORT_PATH"`
	CandidateImportCron string `env:"CANDIDATE_IMPORT_CRON" envDefault:"0 * * * *" validate:"required"`
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
	switch c.LogLevel {
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
