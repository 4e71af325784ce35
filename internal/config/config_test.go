package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("SHELF_AUTH_SECRET", "test-secret")
	t.Setenv("SHELF_CATALOG_URL", "http://catalog.local")
	t.Setenv("SHELF_CATALOG_TOKEN", "cat-token")
	t.Setenv("SHELF_REDIS_ADDR", "localhost:6379")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.HydrateConcurrency != 4 {
		t.Errorf("HydrateConcurrency = %d, want 4", cfg.HydrateConcurrency)
	}
	if cfg.RefreshInterval != time.Hour {
		t.Errorf("RefreshInterval = %v, want 1h", cfg.RefreshInterval)
	}
	if cfg.RedisDT != 5*time.Second {
		t.Errorf("RedisDT = %v, want 5s", cfg.RedisDT)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SHELF_LISTEN_PORT", ":9090")
	t.Setenv("SHELF_HYDRATE_CONCURRENCY", "8")
	t.Setenv("SHELF_REFRESH_INTERVAL", "15m")

	cfg := Load()

	if cfg.ListenPort != ":9090" {
		t.Errorf("ListenPort = %q, want :9090", cfg.ListenPort)
	}
	if cfg.HydrateConcurrency != 8 {
		t.Errorf("HydrateConcurrency = %d, want 8", cfg.HydrateConcurrency)
	}
	if cfg.RefreshInterval != 15*time.Minute {
		t.Errorf("RefreshInterval = %v, want 15m", cfg.RefreshInterval)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shelf.yaml")
	content := "listenPort: \":7070\"\nauthSecret: file-secret\ncatalogURL: http://file.catalog\ncatalogToken: file-token\nredisAddr: redis.file:6379\nredisDB: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHELF_CONFIG_FILE", path)
	// Env wins over the file for this one key.
	t.Setenv("SHELF_CATALOG_TOKEN", "env-token")

	cfg := Load()

	if cfg.ListenPort != ":7070" {
		t.Errorf("ListenPort = %q, want :7070 (from file)", cfg.ListenPort)
	}
	if cfg.AuthSecret != "file-secret" {
		t.Errorf("AuthSecret = %q, want file-secret", cfg.AuthSecret)
	}
	if cfg.CatalogToken != "env-token" {
		t.Errorf("CatalogToken = %q, env should override file", cfg.CatalogToken)
	}
	if cfg.RedisDB != 2 {
		t.Errorf("RedisDB = %d, want 2 (from file)", cfg.RedisDB)
	}
}

func TestHydrateConcurrencyFloor(t *testing.T) {
	setRequired(t)
	t.Setenv("SHELF_HYDRATE_CONCURRENCY", "0")

	cfg := Load()

	if cfg.HydrateConcurrency != 1 {
		t.Errorf("HydrateConcurrency = %d, want floor of 1", cfg.HydrateConcurrency)
	}
}

func TestRequireEnvPanics(t *testing.T) {
	t.Setenv("SHELF_AUTH_SECRET", "")
	t.Setenv("SHELF_CONFIG_FILE", "")
	t.Setenv("SHELF_CATALOG_URL", "http://catalog.local")
	t.Setenv("SHELF_CATALOG_TOKEN", "cat-token")
	t.Setenv("SHELF_REDIS_ADDR", "localhost:6379")

	defer func() {
		if recover() == nil {
			t.Error("Load() should panic without SHELF_AUTH_SECRET")
		}
	}()
	Load()
}
