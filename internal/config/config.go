package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr               string   `envconfig:"HTTP_ADDR" default:":8080"`
	Env                    string   `envconfig:"APP_ENV" default:"production"`
	LogLevel               string   `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeoutSeconds int      `envconfig:"SHUTDOWN_TIMEOUT_SECONDS" default:"10"`
	UploadDir              string   `envconfig:"UPLOAD_DIR" default:"uploads"`
	DBConnString           string   `envconfig:"ORDERS_DB_DSN"`
	RequireCustomerEmail   bool     `envconfig:"REQUIRE_CUSTOMER_EMAIL" default:"true"`
	CORSAllowedOrigins     []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	Mail                   Mail     `ignored:"true"`
}

// Mail configures the relay used for operator notifications.
type Mail struct {
	Host          string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port          int    `envconfig:"SMTP_PORT" default:"587"`
	User          string `envconfig:"SMTP_USER"`
	Password      string `envconfig:"SMTP_PASSWORD"`
	Recipient     string `envconfig:"ORDER_EMAIL_RECIPIENT"`
	SubjectPrefix string `envconfig:"ORDER_EMAIL_SUBJECT_PREFIX" default:"[Sticker Shop]"`
}

// Configured reports whether credentials and a recipient are present.
func (m Mail) Configured() bool {
	return m.User != "" && m.Password != "" && m.Recipient != ""
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env entries.
func Load(files ...string) (Config, error) {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load(files...)
	return FromEnv()
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	if err := envconfig.Process("", &cfg.Mail); err != nil {
		return Config{}, fmt.Errorf("process mail env: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	return cfg, nil
}

// ShutdownTimeout is the grace period for in-flight requests on stop.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Development reports whether diagnostic details may be exposed to clients.
func (c Config) Development() bool {
	return c.Env == "development" || c.Env == "dev"
}

// RepositoryConfigured reports whether a hosted database DSN was supplied.
func (c Config) RepositoryConfigured() bool {
	return strings.TrimSpace(c.DBConnString) != ""
}
