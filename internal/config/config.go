// Package config handles persistent user configuration for digger.
//
// Configuration is stored as JSON at ~/.config/digger/config.json (or the
// platform-equivalent path returned by os.UserConfigDir).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"diggercli/digger/internal/dns/domain"
)

const (
	appDir   = "digger"
	fileName = "config.json"

	defaultHistoryLimit = 100
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	DefaultType     string `json:"default_type,omitempty"`
	DefaultServer   string `json:"default_server,omitempty"`
	TimeoutSeconds  int    `json:"timeout_seconds,omitempty"`
	DoHEndpoint     string `json:"doh_endpoint,omitempty"`
	HistoryLimit    *int   `json:"history_limit,omitempty"`
	HistoryDisabled bool   `json:"history_disabled,omitempty"`
}

// QueryType returns the configured default record type, falling back to A
// when unset or unrecognized.
func (c *Config) QueryType() domain.RecordType {
	if c.DefaultType == "" {
		return domain.RecordTypeA
	}
	return domain.RecordTypeFromString(c.DefaultType)
}

// Timeout returns the configured query timeout, or zero when unset.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HistoryMax returns the entry cap for stored history. Zero means keep
// everything; when no limit was configured the default of 100 applies.
func (c *Config) HistoryMax() int {
	if c.HistoryLimit == nil {
		return defaultHistoryLimit
	}
	if *c.HistoryLimit < 0 {
		return 0
	}
	return *c.HistoryLimit
}

// HistoryEnabled reports whether completed queries should be recorded.
func (c *Config) HistoryEnabled() bool { return !c.HistoryDisabled }

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
// Otherwise it uses os.UserConfigDir which resolves to
// ~/Library/Application Support on macOS, ~/.config on Linux, and
// %AppData% on Windows.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load reads the config file from disk and returns the parsed Config.
// If the file does not exist, a zero-value Config is returned (not an error).
func Load() (*Config, error) {
	return loadFrom("")
}

// loadFrom reads the config from the given path. If path is empty, the
// default Path() is used. Exported only for testing via LoadFrom.
func loadFrom(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the parent directory if needed.
func (c *Config) Save() error {
	return c.saveTo("")
}

// saveTo writes the config to the given path. If path is empty, the
// default Path() is used.
func (c *Config) saveTo(path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}

// LoadFrom reads the config from the given path. Intended for testing.
func LoadFrom(path string) (*Config, error) {
	return loadFrom(path)
}

// SaveTo writes the config to the given path. Intended for testing.
func (c *Config) SaveTo(path string) error {
	return c.saveTo(path)
}
