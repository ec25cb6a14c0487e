package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("AIDAILY_FEED", "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.RefreshInterval() != 5*time.Minute {
		t.Errorf("expected 5m refresh, got %v", cfg.RefreshInterval())
	}
	if cfg.Feed != "news_data.json" {
		t.Errorf("unexpected default feed %q", cfg.Feed)
	}
	if cfg.Curator.MaxArticles != 30 || cfg.Curator.PerFeed != 10 {
		t.Errorf("unexpected curator defaults: %+v", cfg.Curator)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("AIDAILY_FEED", "")
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Feed = "https://example.com/news_data.json"
	cfg.ClearOnError = true
	cfg.Curator.Archive = "/tmp/archive.db"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Feed != cfg.Feed || !loaded.ClearOnError || loaded.Curator.Archive != "/tmp/archive.db" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("AIDAILY_FEED", "")
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"refresh_minutes": 0, "watch": true}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if !cfg.Watch {
		t.Error("watch should be read from file")
	}
	if cfg.RefreshMinutes != 5 {
		t.Errorf("invalid refresh should fall back to 5, got %d", cfg.RefreshMinutes)
	}
	if len(cfg.Curator.Feeds) != len(DefaultFeeds) {
		t.Errorf("curator feeds should default, got %v", cfg.Curator.Feeds)
	}
}

func TestLoadBadJSONReturnsDefaultsAndError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err == nil {
		t.Error("expected a parse error")
	}
	if cfg == nil || cfg.RefreshMinutes != 5 {
		t.Errorf("expected defaults alongside the error, got %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AIDAILY_FEED", "https://cdn.example.com/feed.json")
	t.Setenv("AIDAILY_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Feed != "https://cdn.example.com/feed.json" {
		t.Errorf("AIDAILY_FEED not applied, got %q", cfg.Feed)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("AIDAILY_LOG_LEVEL not applied, got %q", cfg.LogLevel)
	}
}

func TestConfigPathEnv(t *testing.T) {
	t.Setenv("AIDAILY_CONFIG", "/etc/aidaily.json")
	if got := ConfigPath(); got != "/etc/aidaily.json" {
		t.Errorf("ConfigPath() = %q", got)
	}
}
