// Package config loads the formlab configuration file. The format is
// dnsmasq-style: one "optionName value" pair per line, # comments, and
// [section] headers for scoped options.
package config

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents the application configuration.
type Config struct {
	// CatalogDir overrides where saved form documents live.
	CatalogDir string
	// Currency is the display suffix for priced selection labels.
	Currency string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// Preview controls runtime behavior of the preview shell.
	Preview PreviewConfig
	// Warnings contains any warnings generated during config loading.
	Warnings []string
}

// PreviewConfig is the [preview] section.
type PreviewConfig struct {
	// HooksEnabled controls whether onClick script hooks run at all.
	HooksEnabled bool
	// HookTimeoutMs bounds a single hook execution.
	HookTimeoutMs int
}

// NewConfig creates a configuration with defaults applied.
func NewConfig() *Config {
	return &Config{
		Currency: "₽",
		LogLevel: "warn",
		Preview: PreviewConfig{
			HooksEnabled:  true,
			HookTimeoutMs: 5000,
		},
	}
}

// DefaultPath returns {UserConfigDir}/formlab/config.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "formlab", "config"), nil
}

// Load loads configuration from the default config file path.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from the specified file path. A missing
// file yields the defaults. Symlinked config files are rejected so the
// loader cannot be pointed at sensitive files.
func LoadFromPath(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in config path: %s", path)
	}

	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	config := NewConfig()
	scanner := bufio.NewScanner(r)

	// section is "" for the global scope, a recognized section name, or
	// "!" for an unknown section whose contents must be skipped wholesale.
	section := ""

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.Trim(line, "[]")
			switch name {
			case "preview":
				section = name
			default:
				section = "!"
				config.addWarning("unknown section: %s", name)
			}
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		name := parts[0]
		var value string
		if len(parts) > 1 {
			value = parts[1]
		}

		switch section {
		case "preview":
			if err := parsePreviewOption(&config.Preview, name, value); err != nil {
				return nil, fmt.Errorf("invalid preview option %q: %w", name, err)
			}
			continue
		case "!":
			// Already warned on the header; options inside an unknown
			// section must not bleed into the global namespace.
			continue
		}

		switch name {
		case "catalogDir":
			config.CatalogDir = value
		case "currency":
			config.Currency = value
		case "logLevel":
			switch value {
			case "debug", "info", "warn", "error":
				config.LogLevel = value
			default:
				config.addWarning("unknown logLevel %q, keeping %q", value, config.LogLevel)
			}
		default:
			config.addWarning("unknown option: %s", name)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	return config, nil
}

func (c *Config) addWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("[Config] " + msg)
}

// parsePreviewOption parses one [preview] option:
//   - hooksEnabled <bool>: whether onClick hooks run (default: true)
//   - hookTimeoutMs <int>: per-hook execution bound (default: 5000)
func parsePreviewOption(pc *PreviewConfig, name, value string) error {
	switch name {
	case "hooksEnabled":
		enabled, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value %q: %w", value, err)
		}
		pc.HooksEnabled = enabled

	case "hookTimeoutMs":
		ms, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q: %w", value, err)
		}
		if ms < 1 {
			return fmt.Errorf("hookTimeoutMs must be at least 1: %d", ms)
		}
		pc.HookTimeoutMs = ms

	default:
		return fmt.Errorf("unknown preview option: %s", name)
	}
	return nil
}

// parseBool parses a boolean value from string.
// Accepts: true, false, 1, 0, yes, no, on, off (case-insensitive).
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value: %s", s)
	}
}

// SlogLevel maps the configured log level to slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
