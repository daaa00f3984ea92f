// Package config loads the bfhl YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvAPIURL overrides api.base_url when set.
const EnvAPIURL = "BFHL_API_URL"

// Config is the root configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Page    PageConfig    `yaml:"page"`
	Theme   ThemeConfig   `yaml:"theme"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig points at the backend that classifies submissions.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Path      string `yaml:"path"`
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	// Templates is a directory whose files override the embedded page
	// templates by name.
	Templates string `yaml:"templates"`
	Watch     bool   `yaml:"watch"`
}

type PageConfig struct {
	Title          string `yaml:"title"`
	Intro          string `yaml:"intro"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

type ThemeConfig struct {
	Name      string            `yaml:"name"`
	Variant   string            `yaml:"variant"`
	AssetBase string            `yaml:"asset_base"`
	CSSVars   map[string]string `yaml:"css_vars"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:3000",
			Path:      "/api/bfhl",
			Timeout:   "30s",
			UserAgent: "go-bfhl",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "10s",
		},
		Page: PageConfig{
			Title:          "Submit Your Roll Number",
			MaxUploadBytes: 32 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if url := strings.TrimSpace(os.Getenv(EnvAPIURL)); url != "" {
		c.API.BaseURL = url
	}
}

// normalize fills values a partial file left blank.
func (c *Config) normalize() {
	def := Default()
	if strings.TrimSpace(c.API.Path) == "" {
		c.API.Path = def.API.Path
	}
	if strings.TrimSpace(c.API.Timeout) == "" {
		c.API.Timeout = def.API.Timeout
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = def.Server.Addr
	}
	if strings.TrimSpace(c.Server.ShutdownTimeout) == "" {
		c.Server.ShutdownTimeout = def.Server.ShutdownTimeout
	}
	if strings.TrimSpace(c.Page.Title) == "" {
		c.Page.Title = def.Page.Title
	}
	if c.Page.MaxUploadBytes <= 0 {
		c.Page.MaxUploadBytes = def.Page.MaxUploadBytes
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = def.Logging.Level
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = def.Logging.Format
	}
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("config: api.base_url is required (or set %s)", EnvAPIURL)
	}
	if _, err := parsePositive("api.timeout", c.API.Timeout); err != nil {
		return err
	}
	if _, err := parsePositive("server.shutdown_timeout", c.Server.ShutdownTimeout); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("config: logging.format %q must be json or console", c.Logging.Format)
	}
	return nil
}

// APITimeout returns api.timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	d, _ := parsePositive("api.timeout", c.API.Timeout)
	return d
}

// ShutdownTimeout returns server.shutdown_timeout as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := parsePositive("server.shutdown_timeout", c.Server.ShutdownTimeout)
	return d
}

func parsePositive(field, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive", field)
	}
	return d, nil
}
