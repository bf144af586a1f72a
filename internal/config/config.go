package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	TransportWebhook = "webhook"
	TransportAMQP    = "amqp"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Version     string `env:"APP_VERSION" envDefault:"dev"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"SUPABASE_JWT_SECRET,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	PublicBaseURL     string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	N8NWebhookURL     string        `env:"N8N_WEBHOOK_URL"`
	N8NTimeout        time.Duration `env:"N8N_TIMEOUT" envDefault:"15s"`
	DispatchTransport string        `env:"DISPATCH_TRANSPORT" envDefault:"webhook"`
	AMQPURL           string        `env:"AMQP_URL"`

	RedisURL          string `env:"REDIS_URL"`
	RateLimit         string `env:"RATE_LIMIT" envDefault:"60-M"`
	CallbackRateLimit string `env:"CALLBACK_RATE_LIMIT" envDefault:"600-M"`
	MaxUploadBytes    int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	SMTP       SMTP
	AlertEmail string `env:"ALERT_EMAIL"`
	AlertFrom  string `env:"ALERT_FROM" envDefault:"alerts@lead-outreach.local"`

	StaleRunAfter time.Duration `env:"STALE_RUN_AFTER" envDefault:"30m"`
	StaleRunTick  time.Duration `env:"STALE_RUN_TICK" envDefault:"1m"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DispatchTransport {
	case TransportWebhook:
		if c.N8NWebhookURL == "" {
			logrus.Warn("N8N_WEBHOOK_URL is empty, every run will fail to dispatch")
		}
	case TransportAMQP:
		if c.AMQPURL == "" {
			return errors.New("DISPATCH_TRANSPORT=amqp requires AMQP_URL")
		}
	default:
		return fmt.Errorf("unknown DISPATCH_TRANSPORT %q", c.DispatchTransport)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.StaleRunAfter <= 0 || c.StaleRunTick <= 0 {
		return errors.New("STALE_RUN_AFTER and STALE_RUN_TICK must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// Level is the parsed LOG_LEVEL; validate has already checked it.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
