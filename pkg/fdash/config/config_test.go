package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fdash.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Poll.Interval != time.Hour {
		t.Errorf("Poll.Interval = %v, want 1h", cfg.Poll.Interval)
	}
	if cfg.Poll.RequestTimeout != 30*time.Second {
		t.Errorf("Poll.RequestTimeout = %v, want 30s", cfg.Poll.RequestTimeout)
	}
	if cfg.Market.Provider != "yahoo" {
		t.Errorf("Market.Provider = %q, want yahoo", cfg.Market.Provider)
	}
	if cfg.Render.Format != "table" || cfg.Render.MaxColWidth != 40 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if got := cfg.Market.SymbolAliases()[types.SymbolUS10Y]; got != "^TNX" {
		t.Errorf("alias for ^US10Y = %q, want ^TNX", got)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeTempFile(t, `
poll:
  interval: 15m
market:
  provider: HTTP
  base_url: http://localhost:8080
  retries: 2
render:
  format: json
log:
  level: debug
  format: json
`)
	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Poll.Interval != 15*time.Minute {
		t.Errorf("Poll.Interval = %v, want 15m", cfg.Poll.Interval)
	}
	if cfg.Market.Provider != "http" || cfg.Market.Retries != 2 {
		t.Errorf("Market = %+v", cfg.Market)
	}
	if cfg.Render.Format != "json" {
		t.Errorf("Render.Format = %q, want json", cfg.Render.Format)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("FDASH_POLL_INTERVAL", "5m")
	t.Setenv("FDASH_RENDER_COLOR", "false")

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Poll.Interval != 5*time.Minute {
		t.Errorf("Poll.Interval = %v, want 5m", cfg.Poll.Interval)
	}
	if cfg.Render.Color {
		t.Error("Render.Color = true, want false from env")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Poll:   PollConfig{Interval: time.Hour, RequestTimeout: time.Second},
			Market: MarketConfig{Provider: "yahoo"},
			Render: RenderConfig{Format: "table"},
			Log:    LogConfig{Level: "info", Format: "text"},
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		key    string
	}{
		{"zero interval", func(c *Config) { c.Poll.Interval = 0 }, "poll.interval"},
		{"zero timeout", func(c *Config) { c.Poll.RequestTimeout = 0 }, "poll.request_timeout"},
		{"bad provider", func(c *Config) { c.Market.Provider = "bloomberg" }, "market.provider"},
		{"http without url", func(c *Config) { c.Market.Provider = "http" }, "market.base_url"},
		{"relative path", func(c *Config) { c.Market.Path = "v2/indicators" }, "market.path"},
		{"negative retries", func(c *Config) { c.Market.Retries = -1 }, "market.retries"},
		{"bad format", func(c *Config) { c.Render.Format = "xml" }, "render.format"},
		{"negative decimals", func(c *Config) { c.Render.Decimals = -1 }, "render.decimals"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if verr.Key != tt.key {
				t.Errorf("Key = %q, want %q", verr.Key, tt.key)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("output = %q, want json warn record", out)
	}
}
