package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config aggregates application configuration values.
type Config struct {
	ProjectName string `envconfig:"PROJECT_NAME" default:"HealthDesk API"`
	Version     string `envconfig:"VERSION" default:"0.1.0"`
	Port        string `envconfig:"API_PORT" default:"8000"`

	Database     DatabaseConfig
	Admin        AdminConfig
	Security     SecurityConfig
	Logging      LoggingConfig
	Notification NotificationConfig

	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"*"`

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty means the peer address is always the client.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

type DatabaseConfig struct {
	Driver         string        `envconfig:"STORE_DRIVER" default:"mongo"`
	URL            string        `envconfig:"MONGODB_URL" default:"mongodb://localhost:27017"`
	Name           string        `envconfig:"MONGODB_DB_NAME" default:"healthdesk"`
	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"10s"`
}

// AdminConfig is the identity seeded at startup.
type AdminConfig struct {
	Email    string `envconfig:"DEFAULT_ADMIN_EMAIL" default:"admin@healthdesk.com"`
	Password string `envconfig:"DEFAULT_ADMIN_PASSWORD" default:"admin123"`
	FullName string `envconfig:"DEFAULT_ADMIN_NAME" default:"Admin User"`
}

type SecurityConfig struct {
	BcryptCost     int     `envconfig:"BCRYPT_COST" default:"12"`
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"10"`
}

type LoggingConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"console"`
}

type NotificationConfig struct {
	TextbeltKey string `envconfig:"TEXTBELT_API_KEY"`
	TextbeltURL string `envconfig:"TEXTBELT_URL" default:"https://textbelt.com/text"`
}

// Load reads an optional .env file and then the process environment.
// It reports whether a .env file was found so the caller can log it.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, dotenv, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, dotenv, err
	}
	return &cfg, dotenv, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Database.Driver)
	}
	if c.Admin.Email == "" || c.Admin.Password == "" {
		return fmt.Errorf("DEFAULT_ADMIN_EMAIL and DEFAULT_ADMIN_PASSWORD must be set")
	}
	return nil
}

// Origins parses AllowedOrigins. It accepts "*", a JSON list or a
// comma-separated list. An explicit empty list allows no origin.
func (c *Config) Origins() []string {
	return ParseOrigins(c.AllowedOrigins)
}

func ParseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return []string{"*"}
	}

	list := []string{}
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		if list == nil {
			return []string{}
		}
		return list
	}

	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
