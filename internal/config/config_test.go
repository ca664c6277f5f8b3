package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

store:
  data_file: "/var/lib/glossary/dictionary.json"
  lock_ttl: "20m"
  active_window: "10m"
  conflict_window: "45m"
  log_capacity: 500
  change_capacity: 50
  translate_cache_size: 256

version:
  archive_dir: "/var/lib/glossary/versions"
  archive_author: "glossary-bot"

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  jwt_issuer: "glossary-test"

redis:
  url: "redis://localhost:6379/0"
  channel: "terms"

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Store
	if cfg.Store.DataFile != "/var/lib/glossary/dictionary.json" {
		t.Errorf("store.data_file = %q", cfg.Store.DataFile)
	}
	if cfg.Store.LockTTL != 20*time.Minute {
		t.Errorf("store.lock_ttl = %v, want 20m", cfg.Store.LockTTL)
	}
	if cfg.Store.ConflictWindow != 45*time.Minute {
		t.Errorf("store.conflict_window = %v, want 45m", cfg.Store.ConflictWindow)
	}
	if cfg.Store.LogCapacity != 500 || cfg.Store.ChangeCapacity != 50 {
		t.Errorf("store capacities = %d/%d, want 500/50", cfg.Store.LogCapacity, cfg.Store.ChangeCapacity)
	}

	// Version
	if cfg.Version.ArchiveDir != "/var/lib/glossary/versions" {
		t.Errorf("version.archive_dir = %q", cfg.Version.ArchiveDir)
	}

	// Auth
	if cfg.Auth.JWTIssuer != "glossary-test" {
		t.Errorf("auth.jwt_issuer = %q", cfg.Auth.JWTIssuer)
	}
	if cfg.Auth.AccessTokenTTL != 12*time.Hour {
		t.Errorf("auth.access_token_ttl = %v, want 12h (default)", cfg.Auth.AccessTokenTTL)
	}

	// Redis
	if !cfg.Redis.Enabled() || cfg.Redis.Channel != "terms" {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.Redis.Backlog != 200 {
		t.Errorf("redis.backlog = %d, want 200 (default)", cfg.Redis.Backlog)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("STORE_LOCK_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Store.LockTTL != 5*time.Minute {
		t.Errorf("store.lock_ttl = %v, want 5m (ENV override)", cfg.Store.LockTTL)
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)

	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Store.LockTTL != 30*time.Minute {
		t.Errorf("store.lock_ttl = %v, want 30m (default)", cfg.Store.LockTTL)
	}
	if cfg.Store.ActiveWindow != 15*time.Minute {
		t.Errorf("store.active_window = %v, want 15m (default)", cfg.Store.ActiveWindow)
	}
	if cfg.Store.LogCapacity != 1000 || cfg.Store.ChangeCapacity != 100 {
		t.Errorf("store capacities = %d/%d, want 1000/100", cfg.Store.LogCapacity, cfg.Store.ChangeCapacity)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled by default")
	}
	if cfg.Version.ArchiveDir != "" {
		t.Errorf("version.archive_dir = %q, want empty", cfg.Version.ArchiveDir)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "short jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }, wantErr: true},
		{name: "empty jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "zero token ttl", mutate: func(c *Config) { c.Auth.AccessTokenTTL = 0 }, wantErr: true},
		{name: "negative rate limit", mutate: func(c *Config) { c.Server.RateLimit = -1 }, wantErr: true},
		{name: "zero rate limit disables limiting", mutate: func(c *Config) { c.Server.RateLimit = 0 }},
		{name: "empty data file", mutate: func(c *Config) { c.Store.DataFile = " " }, wantErr: true},
		{name: "zero lock ttl", mutate: func(c *Config) { c.Store.LockTTL = 0 }, wantErr: true},
		{name: "negative conflict window", mutate: func(c *Config) { c.Store.ConflictWindow = -time.Minute }, wantErr: true},
		{name: "zero log capacity", mutate: func(c *Config) { c.Store.LogCapacity = 0 }, wantErr: true},
		{name: "zero change capacity", mutate: func(c *Config) { c.Store.ChangeCapacity = 0 }, wantErr: true},
		{name: "negative cache size", mutate: func(c *Config) { c.Store.TranslateCacheSize = -1 }, wantErr: true},
		{name: "zero cache size uses default", mutate: func(c *Config) { c.Store.TranslateCacheSize = 0 }},
		{name: "redis without channel", mutate: func(c *Config) { c.Redis.URL = "redis://x"; c.Redis.Channel = "" }, wantErr: true},
		{name: "channel ignored without redis", mutate: func(c *Config) { c.Redis.Channel = "" }},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// validConfig returns a Config that passes all validation checks.
func validConfig() Config {
	return Config{
		Auth: AuthConfig{
			JWTSecret:      "this-is-a-very-long-jwt-secret-for-testing-32+",
			JWTIssuer:      "glossary",
			AccessTokenTTL: time.Hour,
		},
		Store: StoreConfig{
			DataFile:           "dictionary.json",
			LockTTL:            30 * time.Minute,
			ActiveWindow:       15 * time.Minute,
			ConflictWindow:     30 * time.Minute,
			LogCapacity:        1000,
			ChangeCapacity:     100,
			TranslateCacheSize: 1024,
		},
		Redis: RedisConfig{Channel: "glossary:changes"},
		Log:   LogConfig{Level: "info", Format: "json"},
	}
}
