// Package config loads configuration from an optional TOML file and
// environment variables. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the client configuration.
type Config struct {
	// Server
	ServerURL      string
	RequestTimeout time.Duration // 0 = no timeout
	ReadAttempts   int
	StrictStatus   bool

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Browser
	PreviewDelay time.Duration
	DownloadDir  string

	MetricsAddr string // empty = no metrics listener
}

// fileConfig is the TOML layout. Durations are written as "1s", "250ms".
type fileConfig struct {
	Server struct {
		URL          string `toml:"url"`
		Timeout      string `toml:"timeout"`
		ReadAttempts int    `toml:"read_attempts"`
		StrictStatus *bool  `toml:"strict_status"`
	} `toml:"server"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		File   string `toml:"file"`
	} `toml:"log"`
	Browser struct {
		PreviewDelay string `toml:"preview_delay"`
		DownloadDir  string `toml:"download_dir"`
	} `toml:"browser"`
	Metrics struct {
		Addr string `toml:"addr"`
	} `toml:"metrics"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerURL:    "http://localhost:5000",
		ReadAttempts: 1,
		LogLevel:     "info",
		LogFormat:    "console",
		PreviewDelay: time.Second,
		DownloadDir:  ".",
	}
}

// Load builds the configuration from defaults, the TOML file named by
// FILEBROWSER_CONFIG (if any) and the environment.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("FILEBROWSER_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ServerURL = envOr("SERVER_URL", cfg.ServerURL)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = envOr("LOG_FILE", cfg.LogFile)
	cfg.DownloadDir = envOr("DOWNLOAD_DIR", cfg.DownloadDir)
	cfg.MetricsAddr = envOr("METRICS_ADDR", cfg.MetricsAddr)
	cfg.ReadAttempts = envInt("READ_ATTEMPTS", cfg.ReadAttempts)
	cfg.StrictStatus = envBool("STRICT_STATUS", cfg.StrictStatus)
	cfg.PreviewDelay = envDuration("PREVIEW_DELAY", cfg.PreviewDelay)
	cfg.RequestTimeout = envDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Server.URL != "" {
		c.ServerURL = fc.Server.URL
	}
	if fc.Server.ReadAttempts > 0 {
		c.ReadAttempts = fc.Server.ReadAttempts
	}
	if fc.Server.StrictStatus != nil {
		c.StrictStatus = *fc.Server.StrictStatus
	}
	if fc.Server.Timeout != "" {
		d, err := time.ParseDuration(fc.Server.Timeout)
		if err != nil {
			return fmt.Errorf("server.timeout: %w", err)
		}
		c.RequestTimeout = d
	}
	if fc.Log.Level != "" {
		c.LogLevel = fc.Log.Level
	}
	if fc.Log.Format != "" {
		c.LogFormat = fc.Log.Format
	}
	if fc.Log.File != "" {
		c.LogFile = fc.Log.File
	}
	if fc.Browser.PreviewDelay != "" {
		d, err := time.ParseDuration(fc.Browser.PreviewDelay)
		if err != nil {
			return fmt.Errorf("browser.preview_delay: %w", err)
		}
		c.PreviewDelay = d
	}
	if fc.Browser.DownloadDir != "" {
		c.DownloadDir = fc.Browser.DownloadDir
	}
	if fc.Metrics.Addr != "" {
		c.MetricsAddr = fc.Metrics.Addr
	}
	return nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("SERVER_URL is required")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("SERVER_URL must be an http or https URL: %q", c.ServerURL)
	}
	if c.ReadAttempts < 1 {
		return fmt.Errorf("READ_ATTEMPTS must be at least 1")
	}
	if c.PreviewDelay <= 0 {
		return fmt.Errorf("PREVIEW_DELAY must be positive")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
