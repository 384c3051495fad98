package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tuimarket/internal/market"
)

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Market    MarketConfig    `yaml:"market"`
	Transport TransportConfig `yaml:"transport"`
	Updater   UpdaterConfig   `yaml:"updater"`
	UI        UIConfig        `yaml:"ui"`
	Store     StoreConfig     `yaml:"store"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type MarketConfig struct {
	URLTemplate string        `yaml:"url_template"`
	Fields      market.Fields `yaml:"fields"`
}

type TransportConfig struct {
	Backend   string `yaml:"backend"`
	TimeoutMs int    `yaml:"timeout_ms"`
	UserAgent string `yaml:"user_agent"`
}

type UpdaterConfig struct {
	RefreshIntervalSec int       `yaml:"refresh_interval_sec"`
	PacingBudgetMs     int       `yaml:"pacing_budget_ms"`
	MaxPacingMs        int       `yaml:"max_pacing_ms"`
	InitialDelayMs     int       `yaml:"initial_delay_ms"`
	RateLimit          RateLimit `yaml:"rate_limit"`
}

type RateLimit struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

type UIConfig struct {
	RefreshMs  int    `yaml:"refresh_ms"`
	GainColor  string `yaml:"gain_color"`
	LossColor  string `yaml:"loss_color"`
	StatusLine bool   `yaml:"status_line"`
}

type StoreConfig struct {
	Sqlite SqliteConfig `yaml:"sqlite"`
}

type SqliteConfig struct {
	Path string `yaml:"path"`
}

func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Market: MarketConfig{
			URLTemplate: market.DefaultURLTemplate,
			Fields:      market.DefaultFields(),
		},
		Transport: TransportConfig{
			Backend:   "hertz",
			TimeoutMs: 10000,
			UserAgent: "tuimarket/1.0",
		},
		Updater: UpdaterConfig{
			RefreshIntervalSec: 30,
			PacingBudgetMs:     5000,
			MaxPacingMs:        1000,
			InitialDelayMs:     100,
			RateLimit:          RateLimit{PerMinute: 120, Burst: 10},
		},
		UI: UIConfig{
			RefreshMs: 500,
			GainColor: "green",
			LossColor: "red",
		},
	}
}

// Load reads the yaml file at path over the defaults. A missing file is not
// an error when optional is set.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns $TUIMARKET_CONFIG, else the first existing default location,
// else "tuimarket.yaml". The bool reports whether the file may be absent.
func Path() (string, bool) {
	if v := os.Getenv("TUIMARKET_CONFIG"); v != "" {
		return v, false
	}
	candidates := []string{"tuimarket.yaml"}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", "tuimarket", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, true
		}
	}
	return candidates[0], true
}

func (c *Config) Validate() error {
	if c.Updater.RefreshIntervalSec <= 0 {
		return fmt.Errorf("invalid updater.refresh_interval_sec: %d", c.Updater.RefreshIntervalSec)
	}
	if c.Updater.PacingBudgetMs < 0 || c.Updater.MaxPacingMs < 0 || c.Updater.InitialDelayMs < 0 {
		return fmt.Errorf("updater pacing values must not be negative")
	}
	if c.Transport.TimeoutMs <= 0 {
		return fmt.Errorf("invalid transport.timeout_ms: %d", c.Transport.TimeoutMs)
	}
	switch strings.ToLower(c.Transport.Backend) {
	case "hertz", "net", "auto":
	default:
		return fmt.Errorf("invalid transport.backend: %q", c.Transport.Backend)
	}
	if c.UI.RefreshMs <= 0 {
		return fmt.Errorf("invalid ui.refresh_ms: %d", c.UI.RefreshMs)
	}
	if c.Market.Fields.Price.Marker == "" || c.Market.Fields.PreviousClose.Marker == "" || c.Market.Fields.Name.Marker == "" {
		return fmt.Errorf("market field markers must not be empty")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TUIMARKET_REFRESH_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid TUIMARKET_REFRESH_SEC: %q", v)
		}
		cfg.Updater.RefreshIntervalSec = n
	}
	if v := os.Getenv("TUIMARKET_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TUIMARKET_LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}
	if v := os.Getenv("TUIMARKET_JOURNAL"); v != "" {
		cfg.Store.Sqlite.Path = v
	}
	if v := os.Getenv("TUIMARKET_TRANSPORT"); v != "" {
		cfg.Transport.Backend = v
	}
	return nil
}
