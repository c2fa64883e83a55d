// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; session tokens go to the keyring.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"authsession/cli/internal/backend"
	"authsession/cli/internal/xdg"
)

// Environment overrides applied by Load.
const (
	EnvBaseURL         = "AUTHSESSION_BASE_URL"
	EnvLogLevel        = "AUTHSESSION_LOG_LEVEL"
	EnvKeyringPassword = "AUTHSESSION_KEYRING_PASSWORD"
)

// DefaultBaseURL is used when neither the config file nor the environment names one.
const DefaultBaseURL = "http://localhost:8080/api/auth"

// Config holds non-sensitive CLI settings.
type Config struct {
	BaseURL        string            `json:"base_url"`
	LogLevel       string            `json:"log_level"`
	TimeoutSeconds int               `json:"timeout_seconds"`
	// RefreshOnStart tries the refresh token when a command starts with an
	// expired access token instead of signing out.
	RefreshOnStart bool              `json:"refresh_on_start"`
	Keyring        KeyringConfig     `json:"keyring"`
	Endpoints      backend.Endpoints `json:"endpoints"`
}

// KeyringConfig selects where session tokens are stored.
type KeyringConfig struct {
	// Service is the keyring service name. Empty means "authsession".
	Service string `json:"service,omitempty"`
	// Backends restricts the keyring backends tried, e.g. ["keychain"] or ["file"].
	Backends []string `json:"backends,omitempty"`
	// FileDir is the directory of the encrypted file backend. Empty means the XDG state dir.
	FileDir string `json:"file_dir,omitempty"`
	// FilePassword unlocks the file backend. Never persisted; read from the environment.
	FilePassword string `json:"-"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		LogLevel:       "info",
		TimeoutSeconds: 10,
		Endpoints:      backend.DefaultEndpoints(),
	}
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration and applies environment overrides; a missing file yields defaults.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(p)
}

// LoadFile is Load for an explicit path.
func LoadFile(p string) (Config, error) {
	c, err := ReadFile(p)
	if err != nil {
		return c, err
	}
	applyEnv(&c)
	return c, nil
}

// ReadFile reads the file at p over the defaults without environment
// overrides, so the result can be edited and saved back.
func ReadFile(p string) (Config, error) {
	c := Defaults()
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, err
		}
	}
	c.Endpoints = c.Endpoints.WithDefaults()
	return c, nil
}

// SaveFile writes configuration to p with 0600 permissions.
func SaveFile(p string, c Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Keys lists the settings Set accepts.
var Keys = []string{"base_url", "log_level", "timeout_seconds", "refresh_on_start", "keyring.service", "keyring.backends", "keyring.file_dir"}

// Set changes one setting from its string form, validating the value.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "base_url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("base_url must be an http(s) URL, got %q", value)
		}
		c.BaseURL = value
	case "log_level":
		switch strings.ToLower(value) {
		case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("unknown log level %q", value)
		}
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("timeout_seconds must be a positive integer, got %q", value)
		}
		c.TimeoutSeconds = n
	case "refresh_on_start":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("refresh_on_start must be true or false, got %q", value)
		}
		c.RefreshOnStart = b
	case "keyring.service":
		c.Keyring.Service = value
	case "keyring.backends":
		c.Keyring.Backends = nil
		for _, b := range strings.Split(value, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.Keyring.Backends = append(c.Keyring.Backends, b)
			}
		}
	case "keyring.file_dir":
		c.Keyring.FileDir = value
	default:
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

func applyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvKeyringPassword); v != "" {
		c.Keyring.FilePassword = v
	}
}
