// Package config handles agent configuration loading and validation.
//
// # Configuration Sources
//
// Configuration is loaded from (in order of precedence):
// 1. Command-line flags
// 2. Environment variables (RIGWATCH_*)
// 3. Config file (YAML)
// 4. Defaults
//
// # Example Config File
//
//	api:
//	  url: http://localhost:8080
//	  token: op://mining/rigwatch/api_token
//	  request_timeout: 10s
//
//	monitor:
//	  interval: 60s
//
//	notify:
//	  smtp:
//	    host: smtp.example.com
//	    port: 587
//	    from: rigwatch@example.com
//	    to: [noc@example.com]
//	    use_tls: true
//	  redis:
//	    url: redis://localhost:6379/0
//
//	log:
//	  level: info
//	  file: /var/log/rigwatch/rigwatch.log
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/minerops/rigwatch/internal/notify"
	"github.com/minerops/rigwatch/pkg/types"
)

// Config is the complete agent configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Monitor    MonitorConfig    `yaml:"monitor"`
	Thresholds types.Thresholds `yaml:"thresholds"`
	Notify     NotifyConfig     `yaml:"notify"`
	Log        LogConfig        `yaml:"log"`
	Sentry     SentryConfig     `yaml:"sentry"`
}

// APIConfig defines how to reach the mining-control API.
type APIConfig struct {
	URL   string `yaml:"url"`             // e.g. http://localhost:8080
	Token string `yaml:"token,omitempty"` // Optional bearer token, may be an op:// reference

	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
	RateLimit      int           `yaml:"rate_limit,omitempty"` // Requests per minute, 0 = unlimited
}

// MonitorConfig defines loop scheduling.
type MonitorConfig struct {
	Interval time.Duration `yaml:"interval"`

	// Retention overrides the performance history window. Zero keeps the
	// 24h default.
	Retention time.Duration `yaml:"retention,omitempty"`
}

// NotifyConfig defines the optional delivery channels.
type NotifyConfig struct {
	SMTP  notify.SMTPConfig  `yaml:"smtp,omitempty"`
	Redis notify.RedisConfig `yaml:"redis,omitempty"`
}

// LogConfig defines log output. When File is set, logs go to stderr and a
// size-rotated file.
type LogConfig struct {
	Level      string `yaml:"level,omitempty"` // "debug", "info", "warn", "error"
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb,omitempty"`
	MaxBackups int    `yaml:"max_backups,omitempty"`
	MaxAgeDays int    `yaml:"max_age_days,omitempty"`
}

// SentryConfig enables error capture when DSN is non-empty.
type SentryConfig struct {
	DSN         string `yaml:"dsn,omitempty"`
	Environment string `yaml:"environment,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL:            "http://localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Monitor: MonitorConfig{
			Interval: 60 * time.Second,
		},
		Thresholds: types.DefaultThresholds(),
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive")
	}
	if c.Thresholds.HealthyDeviceFraction <= 0 || c.Thresholds.HealthyDeviceFraction > 1 {
		return fmt.Errorf("thresholds.healthy_device_fraction must be in (0, 1]")
	}
	smtp := c.Notify.SMTP
	if smtp.Host != "" && !smtp.Configured() {
		return fmt.Errorf("notify.smtp requires host, from and at least one to address")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides:
// - RIGWATCH_API_URL
// - RIGWATCH_API_TOKEN
// - RIGWATCH_SMTP_PASSWORD
// - RIGWATCH_REDIS_URL
// - RIGWATCH_SENTRY_DSN
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RIGWATCH_API_URL"); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv("RIGWATCH_API_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv("RIGWATCH_SMTP_PASSWORD"); v != "" {
		c.Notify.SMTP.Password = v
	}
	if v := os.Getenv("RIGWATCH_REDIS_URL"); v != "" {
		c.Notify.Redis.URL = v
	}
	if v := os.Getenv("RIGWATCH_SENTRY_DSN"); v != "" {
		c.Sentry.DSN = v
	}
}
