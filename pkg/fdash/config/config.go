// Package config loads fdash settings from defaults, an optional YAML file
// and FDASH_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/komsit37/fdash/pkg/fdash/types"
)

// EnvPrefix is prepended to every environment override, e.g. FDASH_POLL_INTERVAL.
const EnvPrefix = "FDASH"

// Default values for optional configuration fields.
const (
	DefaultPollInterval   = time.Hour
	DefaultRequestTimeout = 30 * time.Second
	DefaultProvider       = "yahoo"
	DefaultCacheTTL       = 5 * time.Minute
	DefaultCacheSize      = 64
	DefaultFormat         = "table"
	DefaultMaxColWidth    = 40
	DefaultDecimals       = 2
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
)

type Config struct {
	Poll   PollConfig   `mapstructure:"poll"`
	Market MarketConfig `mapstructure:"market"`
	Render RenderConfig `mapstructure:"render"`
	Log    LogConfig    `mapstructure:"log"`
}

type PollConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type MarketConfig struct {
	Provider  string            `mapstructure:"provider"` // yahoo or http
	BaseURL   string            `mapstructure:"base_url"`
	Path      string            `mapstructure:"path"` // http only, empty for the default route
	Token     string            `mapstructure:"token"`
	Retries   int               `mapstructure:"retries"`
	CacheTTL  time.Duration     `mapstructure:"cache_ttl"`
	CacheSize int               `mapstructure:"cache_size"`
	Aliases   map[string]string `mapstructure:"aliases"`
}

type RenderConfig struct {
	Format      string `mapstructure:"format"`
	Color       bool   `mapstructure:"color"`
	PrettyJSON  bool   `mapstructure:"pretty_json"`
	MaxColWidth int    `mapstructure:"max_col_width"`
	Decimals    int    `mapstructure:"decimals"`
	Compact     bool   `mapstructure:"compact"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Key    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s %s", e.Key, e.Reason)
}

// SetDefaults registers every key with its default so that environment
// overrides are visible to Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("poll.interval", DefaultPollInterval)
	v.SetDefault("poll.request_timeout", DefaultRequestTimeout)

	v.SetDefault("market.provider", DefaultProvider)
	v.SetDefault("market.base_url", "")
	v.SetDefault("market.path", "")
	v.SetDefault("market.token", "")
	v.SetDefault("market.retries", 0)
	v.SetDefault("market.cache_ttl", DefaultCacheTTL)
	v.SetDefault("market.cache_size", DefaultCacheSize)
	v.SetDefault("market.aliases", map[string]string{string(types.SymbolUS10Y): "^TNX"})

	v.SetDefault("render.format", DefaultFormat)
	v.SetDefault("render.color", true)
	v.SetDefault("render.pretty_json", false)
	v.SetDefault("render.max_col_width", DefaultMaxColWidth)
	v.SetDefault("render.decimals", DefaultDecimals)
	v.SetDefault("render.compact", false)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
}

// Load reads configuration into a validated Config. path may be empty.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Market.Provider = strings.ToLower(strings.TrimSpace(cfg.Market.Provider))
	cfg.Render.Format = strings.ToLower(strings.TrimSpace(cfg.Render.Format))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that all values are usable.
func (c *Config) Validate() error {
	if c.Poll.Interval <= 0 {
		return &ValidationError{Key: "poll.interval", Reason: "must be > 0"}
	}
	if c.Poll.RequestTimeout <= 0 {
		return &ValidationError{Key: "poll.request_timeout", Reason: "must be > 0"}
	}

	switch c.Market.Provider {
	case "yahoo":
	case "http":
		if c.Market.BaseURL == "" {
			return &ValidationError{Key: "market.base_url", Reason: "is required for the http provider"}
		}
	default:
		return &ValidationError{Key: "market.provider", Reason: fmt.Sprintf("must be yahoo or http, got %q", c.Market.Provider)}
	}
	if c.Market.Path != "" && !strings.HasPrefix(c.Market.Path, "/") {
		return &ValidationError{Key: "market.path", Reason: "must start with /"}
	}
	if c.Market.Retries < 0 {
		return &ValidationError{Key: "market.retries", Reason: "must be >= 0"}
	}
	if c.Market.CacheTTL < 0 {
		return &ValidationError{Key: "market.cache_ttl", Reason: "must be >= 0"}
	}

	switch c.Render.Format {
	case "table", "json", "syms":
	default:
		return &ValidationError{Key: "render.format", Reason: fmt.Sprintf("must be table, json or syms, got %q", c.Render.Format)}
	}
	if c.Render.Decimals < 0 {
		return &ValidationError{Key: "render.decimals", Reason: "must be >= 0"}
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return &ValidationError{Key: "log.level", Reason: err.Error()}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &ValidationError{Key: "log.format", Reason: fmt.Sprintf("must be text or json, got %q", c.Log.Format)}
	}
	return nil
}

// SymbolAliases returns the provider ticker overrides keyed by symbol.
// Keys are upper-cased since viper lowercases map keys.
func (m MarketConfig) SymbolAliases() map[types.Symbol]string {
	out := make(map[types.Symbol]string, len(m.Aliases))
	for k, v := range m.Aliases {
		out[types.Symbol(strings.ToUpper(k))] = v
	}
	return out
}

// NewLogger builds a slog logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.New("must be debug, info, warn or error")
	}
	return level, nil
}
