package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/melodex/melodex/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != config.DefaultPort {
		t.Errorf("port = %d, want %d", cfg.Port, config.DefaultPort)
	}
	if cfg.APIPrefix != "/api/v1" {
		t.Errorf("api prefix = %q", cfg.APIPrefix)
	}
	if cfg.APIKeyHeader != "X-API-Key" {
		t.Errorf("api key header = %q", cfg.APIKeyHeader)
	}
	if !cfg.EnableAuditLogging {
		t.Error("audit logging should default on")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MELODEX_PORT", "9090")
	t.Setenv("MELODEX_DB_PATH", "/tmp/other.duckdb")
	t.Setenv("MELODEX_API_KEYS", "key-a,key-b")
	t.Setenv("ENABLE_AUTH", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Port)
	}
	if cfg.DatabasePath != "/tmp/other.duckdb" {
		t.Errorf("db path = %q", cfg.DatabasePath)
	}
	if len(cfg.APIKeys) != 2 || cfg.APIKeys[0] != "key-a" {
		t.Errorf("api keys = %v", cfg.APIKeys)
	}
	if !cfg.EnableAuth {
		t.Error("auth should be enabled")
	}
}

func TestLoadInvalidPortIgnored(t *testing.T) {
	t.Setenv("MELODEX_PORT", "not-a-number")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != config.DefaultPort {
		t.Errorf("invalid port should keep default, got %d", cfg.Port)
	}
}

func TestLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"port": 7070, "log_level": "debug"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MELODEX_CONFIG", path)

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 7070 {
		t.Errorf("port = %d, want 7070 from file", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
}

func TestEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"port": 7070}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MELODEX_CONFIG", path)
	t.Setenv("MELODEX_PORT", "9091")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9091 {
		t.Errorf("env override should win over file, got %d", cfg.Port)
	}
}
