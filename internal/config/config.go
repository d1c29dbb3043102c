// Package config loads rackview configuration from an optional TOML or YAML
// file, a .env file and the environment, in that order of precedence
// (environment wins).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/powerhive/rackview/internal/state"
	"github.com/powerhive/rackview/pkg/miner"
	"github.com/powerhive/rackview/pkg/pools"
)

// ErrUnsupportedFormat is returned for config files that are neither TOML
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Config holds all configuration for rackview.
type Config struct {
	// Sitemap CSV files
	LayoutPath  string `toml:"layout" yaml:"layout"`
	SitemapPath string `toml:"sitemap" yaml:"sitemap"`

	// HashrateUnit is the unit collectors report hashrate in.
	HashrateUnit string `toml:"hashrate_unit" yaml:"hashrate_unit"`

	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Polling settings handed to the telemetry collector
	Settings state.Settings `toml:"settings" yaml:"settings"`

	// Pool templates, highest priority first
	Pools []pools.Template `toml:"pools" yaml:"pools"`

	// Error catalog rules, tried in order
	Errors []miner.ErrorRule `toml:"errors" yaml:"errors"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LayoutPath:   "layout.csv",
		SitemapPath:  "sitemap.csv",
		HashrateUnit: "TH/s",
		LogLevel:     "info",
		Settings:     state.DefaultSettings(),
	}
}

// LoadConfig loads the .env file if present, then the config file named by
// RACKVIEW_CONFIG (default rackview.toml), then environment overrides.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	path := os.Getenv("RACKVIEW_CONFIG")
	if path == "" {
		path = "rackview.toml"
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a TOML or YAML file over the defaults. A missing file yields
// the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseTOML decodes TOML config data over the defaults.
func ParseTOML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: parse TOML: %w", err)
	}
	return cfg, nil
}

// ParseYAML decodes YAML config data over the defaults.
func ParseYAML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse YAML: %w", err)
	}
	return cfg, nil
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// ErrorCatalog compiles the configured error rules.
func (c *Config) ErrorCatalog() (*miner.ErrorCatalog, error) {
	return miner.NewErrorCatalog(c.Errors)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RACKVIEW_LAYOUT"); v != "" {
		cfg.LayoutPath = v
	}
	if v := os.Getenv("RACKVIEW_SITEMAP"); v != "" {
		cfg.SitemapPath = v
	}
	if v := os.Getenv("RACKVIEW_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HASHRATE_UNIT"); v != "" {
		cfg.HashrateUnit = v
	}
	cfg.Settings.RefreshRate = getenvInt("REFRESH_RATE", cfg.Settings.RefreshRate)
	cfg.Settings.MaxConnections = getenvInt("MAX_CONNECTIONS", cfg.Settings.MaxConnections)
	cfg.Settings.ConnectionTimeout = getenvInt("CONNECTION_TIMEOUT", cfg.Settings.ConnectionTimeout)
	cfg.Settings.ReadTimeout = getenvInt("READ_TIMEOUT", cfg.Settings.ReadTimeout)
}

func getenvInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return d
	}
	return n
}
