package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultEndpoint = "http://127.0.0.1:8000/graphql"
	defaultLanguage = "en"
	defaultLogLevel = "info"
	defaultTimeout  = 15
)

// Config holds all catalogdeck configuration.
type Config struct {
	Endpoint       string `toml:"endpoint"`
	Language       string `toml:"language"`
	SessionFile    string `toml:"session_file"`
	LogLevel       string `toml:"log_level"`
	LogFile        string `toml:"log_file"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// EndpointOrDefault returns Endpoint if set, otherwise the local development API.
func (c Config) EndpointOrDefault() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return defaultEndpoint
}

// LanguageOrDefault returns Language if set, otherwise "en".
func (c Config) LanguageOrDefault() string {
	if c.Language != "" {
		return c.Language
	}
	return defaultLanguage
}

// LogLevelOrDefault returns LogLevel if set, otherwise "info".
func (c Config) LogLevelOrDefault() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return defaultLogLevel
}

// Timeout returns the HTTP client timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	return defaultTimeout * time.Second
}

// SessionFileOrDefault returns SessionFile if set, otherwise session.toml next to the config file.
func (c Config) SessionFileOrDefault() string {
	if c.SessionFile != "" {
		return c.SessionFile
	}
	return filepath.Join(DefaultDir(), "session.toml")
}

// LogFileOrDefault returns LogFile if set, otherwise catalogdeck.log next to the config file.
func (c Config) LogFileOrDefault() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(DefaultDir(), "catalogdeck.log")
}

// LoadFrom reads configuration from the given TOML file path.
// If the file does not exist, it returns an empty config without error.
// Environment variables always take precedence over file values:
//   - CATALOGDECK_ENDPOINT  overrides endpoint
//   - CATALOGDECK_LANG      overrides language
//   - CATALOGDECK_LOG_LEVEL overrides log_level
//   - CATALOGDECK_TIMEOUT   overrides timeout_seconds
func LoadFrom(path string) (Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// ReadFile reads only the file at path, without environment overrides.
// A missing file yields an empty config.
func ReadFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Set assigns the value of the TOML key name.
func (c *Config) Set(name, value string) error {
	switch name {
	case "endpoint":
		c.Endpoint = value
	case "language":
		c.Language = value
	case "session_file":
		c.SessionFile = value
	case "log_level":
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer, got %q", value)
		}
		c.TimeoutSeconds = n
	default:
		return fmt.Errorf("unknown config key %q", name)
	}
	return nil
}

// DefaultDir returns the directory holding catalogdeck files.
// XDG_CONFIG_HOME is honored when set.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "catalogdeck")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "catalogdeck")
}

// DefaultConfigPath returns the default path for the catalogdeck config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CATALOGDECK_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("CATALOGDECK_LANG"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("CATALOGDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CATALOGDECK_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
}

// Save writes cfg to the given TOML file path, creating parent directories as needed.
// Existing file contents are overwritten. Permissions on the written file are 0600.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	if encErr := toml.NewEncoder(f).Encode(cfg); encErr != nil {
		f.Close()
		return encErr
	}
	return f.Close()
}
