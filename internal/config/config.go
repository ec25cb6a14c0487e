package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// Feed is the feed resource: an http(s) URL or a local file path
	Feed string `json:"feed"`

	// RefreshMinutes is the polling interval
	RefreshMinutes int `json:"refresh_minutes"`

	// FetchTimeoutSeconds bounds each HTTP read (0 = no timeout)
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds"`

	// ClearOnError empties the list when a refresh fails instead of
	// keeping the last good items on screen
	ClearOnError bool `json:"clear_on_error"`

	// Watch reloads a local feed file as soon as it changes
	Watch bool `json:"watch"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"log_level"`

	// Curator settings for `aidaily curate`
	Curator CuratorConfig `json:"curator"`
}

// CuratorConfig holds settings for building the feed from RSS sources
type CuratorConfig struct {
	Feeds             []string `json:"feeds"`
	Out               string   `json:"out"`
	PerFeed           int      `json:"per_feed"`            // entries taken from each source
	MaxArticles       int      `json:"max_articles"`        // articles kept after ranking
	Archive           string   `json:"archive,omitempty"`   // SQLite archive path, empty disables
	Rules             string   `json:"rules,omitempty"`     // YAML rules override
	RequestIntervalMs int      `json:"request_interval_ms"` // spacing between feed requests
	Concurrency       int      `json:"concurrency"`
}

// DefaultFeeds are the AI news sources the curator reads by default.
var DefaultFeeds = []string{
	"https://techcrunch.com/tag/artificial-intelligence/feed/",
	"https://www.technologyreview.com/topic/artificial-intelligence/feed",
	"https://venturebeat.com/category/ai/feed/",
	"https://www.artificialintelligence-news.com/feed/",
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	feeds := make([]string, len(DefaultFeeds))
	copy(feeds, DefaultFeeds)

	return &Config{
		Feed:                "news_data.json",
		RefreshMinutes:      5,
		FetchTimeoutSeconds: 30,
		ClearOnError:        false,
		Watch:               false,
		LogLevel:            "info",
		Curator: CuratorConfig{
			Feeds:             feeds,
			Out:               "news_data.json",
			PerFeed:           10,
			MaxArticles:       30,
			RequestIntervalMs: 1000,
			Concurrency:       4,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	if p := os.Getenv("AIDAILY_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns ~/.aidaily, falling back to the working directory when
// the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aidaily"
	}
	return filepath.Join(home, ".aidaily")
}

// Load reads config from disk, or returns defaults.
// A config file that cannot be parsed yields defaults together with the
// parse error so the caller can report it and carry on.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path, or returns defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		cfg = DefaultConfig()
		cfg.ApplyEnv()
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyEnv()
	cfg.Validate()
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to path
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from environment variables
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv("AIDAILY_FEED")); v != "" {
		c.Feed = v
	}
	if v := strings.TrimSpace(os.Getenv("AIDAILY_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
}

// Validate replaces out-of-range values with defaults
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Feed == "" {
		c.Feed = def.Feed
	}
	if c.RefreshMinutes <= 0 {
		c.RefreshMinutes = def.RefreshMinutes
	}
	if c.FetchTimeoutSeconds < 0 {
		c.FetchTimeoutSeconds = def.FetchTimeoutSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if len(c.Curator.Feeds) == 0 {
		c.Curator.Feeds = def.Curator.Feeds
	}
	if c.Curator.Out == "" {
		c.Curator.Out = def.Curator.Out
	}
	if c.Curator.PerFeed <= 0 {
		c.Curator.PerFeed = def.Curator.PerFeed
	}
	if c.Curator.MaxArticles <= 0 {
		c.Curator.MaxArticles = def.Curator.MaxArticles
	}
	if c.Curator.RequestIntervalMs < 0 {
		c.Curator.RequestIntervalMs = def.Curator.RequestIntervalMs
	}
	if c.Curator.Concurrency <= 0 {
		c.Curator.Concurrency = def.Curator.Concurrency
	}
}

// RefreshInterval returns the polling interval
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshMinutes) * time.Minute
}

// FetchTimeout returns the per-read timeout
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// RequestInterval returns the curator's spacing between feed requests
func (c *CuratorConfig) RequestInterval() time.Duration {
	return time.Duration(c.RequestIntervalMs) * time.Millisecond
}
