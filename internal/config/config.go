// Package config loads and persists krumb configuration from
// .krumb/config.json. This is the single source of truth for settings;
// accessors apply defaults so a missing or partial file always yields a
// usable configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// UserConfig holds ALL krumb configuration from .krumb/config.json.
type UserConfig struct {
	// Theme for the TUI ("light" or "dark")
	Theme string `json:"theme,omitempty"`

	// AdminPassword is the storefront admin secret, compared as plain
	// text. A deliberate carry-over from the source design; override
	// with KRUMB_ADMIN_PASSWORD rather than committing a real secret.
	AdminPassword string `json:"admin_password,omitempty"`

	// StorePath overrides the SQLite mirror location
	// (default .krumb/store.db under the workspace root).
	StorePath string `json:"store_path,omitempty"`

	// CheckoutDelayMS is the simulated payment processing time.
	CheckoutDelayMS int `json:"checkout_delay_ms,omitempty"`

	// LoginDelayMS is the simulated verification time on customer login.
	LoginDelayMS int `json:"login_delay_ms,omitempty"`

	// Logging configuration (read by internal/logging via its own
	// mirror struct to avoid a circular import).
	Logging *LoggingConfig `json:"logging,omitempty"`
}

// LoggingConfig controls the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
	JSONFormat bool            `json:"json_format,omitempty"`
}

// defaultAdminPassword matches the source storefront's embedded secret.
const defaultAdminPassword = "Lemon!32#TigerRunRawan"

// GetTheme returns the configured theme, defaulting to "light".
func (c *UserConfig) GetTheme() string {
	if c == nil || c.Theme == "" {
		return "light"
	}
	return c.Theme
}

// GetAdminPassword returns the admin secret.
// Priority: KRUMB_ADMIN_PASSWORD environment variable, config file value,
// built-in default.
func (c *UserConfig) GetAdminPassword() string {
	if pw := os.Getenv("KRUMB_ADMIN_PASSWORD"); pw != "" {
		return pw
	}
	if c != nil && c.AdminPassword != "" {
		return c.AdminPassword
	}
	return defaultAdminPassword
}

// GetStorePath returns the SQLite mirror path, defaulting to
// .krumb/store.db under the workspace root.
func (c *UserConfig) GetStorePath() string {
	if c != nil && c.StorePath != "" {
		return c.StorePath
	}
	root, err := FindWorkspaceRoot()
	if err != nil {
		return filepath.Join(".krumb", "store.db")
	}
	return filepath.Join(root, ".krumb", "store.db")
}

// GetCheckoutDelay returns the simulated payment duration.
func (c *UserConfig) GetCheckoutDelay() time.Duration {
	if c != nil && c.CheckoutDelayMS > 0 {
		return time.Duration(c.CheckoutDelayMS) * time.Millisecond
	}
	return 3 * time.Second
}

// GetLoginDelay returns the simulated login verification duration.
func (c *UserConfig) GetLoginDelay() time.Duration {
	if c != nil && c.LoginDelayMS > 0 {
		return time.Duration(c.LoginDelayMS) * time.Millisecond
	}
	return time.Second
}

// GetLogging returns logging settings with defaults.
func (c *UserConfig) GetLogging() LoggingConfig {
	if c != nil && c.Logging != nil {
		cfg := *c.Logging
		if cfg.Level == "" {
			cfg.Level = "info"
		}
		return cfg
	}
	return LoggingConfig{
		Level:     "info",
		DebugMode: false, // Production mode by default
	}
}

// DefaultUserConfigPath returns the default path to .krumb/config.json.
func DefaultUserConfigPath() string {
	root, err := FindWorkspaceRoot()
	if err != nil {
		return filepath.Join(".krumb", "config.json")
	}
	return filepath.Join(root, ".krumb", "config.json")
}

// FindWorkspaceRoot attempts to find the app root by looking for .krumb.
// If not found, returns the current working directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, ".krumb")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return originalDir, nil
}

// Load loads configuration from the given path.
// Returns an empty config (defaults apply via Get* methods) if the file
// does not exist.
func Load(path string) (*UserConfig, error) {
	cfg := &UserConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the given path.
func (c *UserConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// Global is a convenience function to load config from the default path.
func Global() (*UserConfig, error) {
	return Load(DefaultUserConfigPath())
}
