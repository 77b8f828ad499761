package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// UI Settings
	ColorTheme string `yaml:"color_theme"`

	// Drop folder: files created here are processed as if dropped.
	// Empty disables the watcher.
	DropDir         string `yaml:"drop_dir"`
	WatchDebounceMS int    `yaml:"watch_debounce_ms"`

	// Picker root; empty means the working directory
	PickerDir string `yaml:"picker_dir"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		ColorTheme:      "auto",
		DropDir:         "",
		WatchDebounceMS: 500,
		PickerDir:       "",
		LogLevel:        "info",
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// A missing file means defaults
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if !isValidTheme(cfg.ColorTheme) {
		cfg.ColorTheme = "auto"
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if !isValidLogLevel(cfg.LogLevel) {
		cfg.LogLevel = "info"
	}
	if cfg.DropDir != "" {
		cfg.DropDir = expandHome(cfg.DropDir)
	}
	if cfg.PickerDir != "" {
		cfg.PickerDir = expandHome(cfg.PickerDir)
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isValidTheme(theme string) bool {
	switch theme {
	case "auto", "dark", "light":
		return true
	}
	return false
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
