package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"SpendWise"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
		LogFile   string `envconfig:"LOG_FILE"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"spendwise"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout       time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownGrace time.Duration `envconfig:"SERVER_SHUTDOWN_GRACE" default:"10s"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Display struct {
		Locale   string `envconfig:"DISPLAY_LOCALE" default:"en-IN"`
		Currency string `envconfig:"DISPLAY_CURRENCY" default:"₹"`
	}

	Dashboard struct {
		Months int `envconfig:"DASHBOARD_MONTHS" default:"6"`
	}
}

func (c *Config) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     c.DB.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.DB.SSLMode),
	}

	return u.String()
}

func (c *Config) Validate() error {
	if c.App.Port < 1 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.App.Port)
	}

	if c.Dashboard.Months < 1 {
		return fmt.Errorf("invalid dashboard months %d: must be positive", c.Dashboard.Months)
	}

	if c.DB.MaxOpenConns < 1 {
		return fmt.Errorf("invalid max open connections %d: must be positive", c.DB.MaxOpenConns)
	}

	if c.DB.MaxIdleConns < 0 || c.DB.MaxIdleConns > c.DB.MaxOpenConns {
		return fmt.Errorf("invalid max idle connections %d: must be between 0 and %d", c.DB.MaxIdleConns, c.DB.MaxOpenConns)
	}

	switch c.App.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.App.LogFormat)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
