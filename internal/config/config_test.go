package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/powerhive/rackview/internal/state"
)

const tomlConfig = `
layout = "site/layout.csv"
sitemap = "site/sitemap.csv"
log_level = "debug"

[settings]
refresh_rate = 30
max_connections = 200
connection_timeout = 5
read_timeout = 20

[[pools]]
url = "stratum+tcp://primary:3333"
user = "acct.{can}"
ip_suffix = 2

[[pools]]
url = "stratum+tcp://backup:3333"
user = "acct.{ip}"

[[errors]]
make = "antminer"
regex = "(?i)fan"
message = "Fan failure"
`

const yamlConfig = `
layout: y/layout.csv
settings:
  refresh_rate: 45
  max_connections: 10
  connection_timeout: 3
  read_timeout: 4
pools:
  - url: stratum+tcp://primary:3333
    user: acct
errors:
  - regex: "^chain"
    message: Hashboard missing
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFileTOML(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, "rackview.toml", tomlConfig))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.LayoutPath != "site/layout.csv" || cfg.SitemapPath != "site/sitemap.csv" {
		t.Fatalf("paths = %q %q", cfg.LayoutPath, cfg.SitemapPath)
	}
	want := state.Settings{RefreshRate: 30, MaxConnections: 200, ConnectionTimeout: 5, ReadTimeout: 20}
	if cfg.Settings != want {
		t.Fatalf("settings = %+v", cfg.Settings)
	}
	if len(cfg.Pools) != 2 || cfg.Pools[0].IPSuffix != 2 || cfg.Pools[1].User != "acct.{ip}" {
		t.Fatalf("pools = %+v", cfg.Pools)
	}
	if len(cfg.Errors) != 1 || cfg.Errors[0].Message != "Fan failure" {
		t.Fatalf("errors = %+v", cfg.Errors)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("Level() = %v", cfg.Level())
	}
	if cfg.HashrateUnit != "TH/s" {
		t.Fatalf("unset keys should keep defaults, got %q", cfg.HashrateUnit)
	}
	catalog, err := cfg.ErrorCatalog()
	if err != nil {
		t.Fatalf("ErrorCatalog: %v", err)
	}
	if got := catalog.Explain("Antminer", "fan 2 lost"); got != "Fan failure" {
		t.Fatalf("Explain = %q", got)
	}
}

func TestLoadFileYAML(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, "rackview.yaml", yamlConfig))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.LayoutPath != "y/layout.csv" || cfg.SitemapPath != "sitemap.csv" {
		t.Fatalf("paths = %q %q", cfg.LayoutPath, cfg.SitemapPath)
	}
	if cfg.Settings.RefreshRate != 45 || cfg.Settings.ReadTimeout != 4 {
		t.Fatalf("settings = %+v", cfg.Settings)
	}
	if len(cfg.Pools) != 1 || len(cfg.Errors) != 1 {
		t.Fatalf("pools/errors = %+v %+v", cfg.Pools, cfg.Errors)
	}
}

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Settings != state.DefaultSettings() || cfg.LayoutPath != "layout.csv" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(writeFile(t, "bad.toml", "settings = [")); err == nil {
		t.Fatal("expected TOML parse error")
	}
	if _, err := LoadFile(writeFile(t, "rackview.json", "{}")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RACKVIEW_CONFIG", writeFile(t, "rackview.toml", tomlConfig))
	t.Setenv("REFRESH_RATE", "60")
	t.Setenv("MAX_CONNECTIONS", "not-a-number")
	t.Setenv("RACKVIEW_SITEMAP", "env/sitemap.csv")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Settings.RefreshRate != 60 {
		t.Fatalf("RefreshRate = %d", cfg.Settings.RefreshRate)
	}
	if cfg.Settings.MaxConnections != 200 {
		t.Fatalf("bad env value should be ignored, got %d", cfg.Settings.MaxConnections)
	}
	if cfg.SitemapPath != "env/sitemap.csv" {
		t.Fatalf("SitemapPath = %q", cfg.SitemapPath)
	}
}

func TestLoadConfigRejectsInvalidSettings(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RACKVIEW_CONFIG", writeFile(t, "rackview.toml", "[settings]\nrefresh_rate = -1\n"))
	if _, err := LoadConfig(); !errors.Is(err, state.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}
