package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/waabox/catalogdeck/internal/config"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
endpoint = "https://catalog.example.com/graphql"
language = "fr"
timeout_seconds = 5
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EndpointOrDefault() != "https://catalog.example.com/graphql" {
		t.Errorf("expected endpoint from file, got '%s'", cfg.EndpointOrDefault())
	}
	if cfg.LanguageOrDefault() != "fr" {
		t.Errorf("expected language 'fr', got '%s'", cfg.LanguageOrDefault())
	}
	if cfg.Timeout() != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Timeout())
	}
}

func TestLoad_EnvVarsTakePrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := `
endpoint = "https://fromfile.example.com/graphql"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CATALOGDECK_ENDPOINT", "https://fromenv.example.com/graphql")
	t.Setenv("CATALOGDECK_LANG", "fr")
	t.Setenv("CATALOGDECK_LOG_LEVEL", "debug")

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "https://fromenv.example.com/graphql" {
		t.Errorf("expected env endpoint, got '%s'", cfg.Endpoint)
	}
	if cfg.Language != "fr" {
		t.Errorf("expected env language 'fr', got '%s'", cfg.Language)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected env log level 'debug', got '%s'", cfg.LogLevel)
	}
}

func TestLoad_MissingFileIsNotError(t *testing.T) {
	cfg, err := config.LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("missing file should not be an error, got: %v", err)
	}
	if cfg.EndpointOrDefault() != "http://127.0.0.1:8000/graphql" {
		t.Errorf("expected default endpoint, got '%s'", cfg.EndpointOrDefault())
	}
	if cfg.Timeout() != 15*time.Second {
		t.Errorf("expected default timeout, got %s", cfg.Timeout())
	}
}

func TestSave_RoundTripsAndRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := config.Config{Endpoint: "http://localhost:9000/graphql", Language: "fr"}

	if err := config.Save(path, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %o", info.Mode().Perm())
	}
	got, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if got.Endpoint != want.Endpoint || got.Language != want.Language {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestDefaults_FollowXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	cfg := config.Config{}
	if cfg.SessionFileOrDefault() != "/tmp/xdg/catalogdeck/session.toml" {
		t.Errorf("unexpected session file: %s", cfg.SessionFileOrDefault())
	}
	if config.DefaultConfigPath() != "/tmp/xdg/catalogdeck/config.toml" {
		t.Errorf("unexpected config path: %s", config.DefaultConfigPath())
	}
}

func TestReadFile_IgnoresEnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte(`endpoint = "https://fromfile.example.com/graphql"`), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CATALOGDECK_ENDPOINT", "https://fromenv.example.com/graphql")

	cfg, err := config.ReadFile(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Endpoint != "https://fromfile.example.com/graphql" {
		t.Errorf("expected file endpoint, got '%s'", cfg.Endpoint)
	}
}

func TestSet(t *testing.T) {
	var cfg config.Config
	if err := cfg.Set("timeout_seconds", "30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got %s", cfg.Timeout())
	}
	if err := cfg.Set("timeout_seconds", "-1"); err == nil {
		t.Error("expected error for a negative timeout")
	}
	if err := cfg.Set("colour", "blue"); err == nil {
		t.Error("expected error for an unknown key")
	}
}
