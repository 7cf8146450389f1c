// Package config handles gotopub configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/gotopub/config.yml.
type Config struct {
	JournalsPath string  `yaml:"journals_path,omitempty"` // YAML journal directory replacing the built-in one
	Browser      string  `yaml:"browser,omitempty"`       // system, firefox, chromium, ...
	ServerAddr   string  `yaml:"server_addr,omitempty"`   // Listen address for `gotopub serve`
	LogLevel     string  `yaml:"log_level,omitempty"`     // trace, debug, info, warn, error
	LogFormat    string  `yaml:"log_format,omitempty"`    // json, console
	CheckRate    float64 `yaml:"check_rate,omitempty"`    // Link checks per second
}

// Defaults applied when a value is not configured.
const (
	DefaultBrowser    = "system"
	DefaultServerAddr = "127.0.0.1:8080"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "console"
	DefaultCheckRate  = 1.0
)

// Environment variables overriding configuration values.
const (
	EnvJournals = "GOTOPUB_JOURNALS"
	EnvBrowser  = "GOTOPUB_BROWSER"
	EnvAddr     = "GOTOPUB_ADDR"
	EnvLogLevel = "GOTOPUB_LOG_LEVEL"
)

// Keys lists the configuration keys accepted by Set, in display order.
var Keys = []string{"journals_path", "browser", "server_addr", "log_level", "log_format", "check_rate"}

// ValidBrowsers lists the supported browser values.
var ValidBrowsers = []string{"system", "firefox", "chromium", "google-chrome", "safari"}

// ValidLogLevels lists the supported log levels.
var ValidLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// Get returns the string value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "journals_path":
		return c.JournalsPath, nil
	case "browser":
		return c.Browser, nil
	case "server_addr":
		return c.ServerAddr, nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "check_rate":
		if c.CheckRate == 0 {
			return "", nil
		}
		return FormatRate(c.CheckRate), nil
	}
	return "", fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys, ", "))
}

// Set validates and assigns a configuration key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "journals_path":
		if err := ValidateJournalsPath(value); err != nil {
			return err
		}
		c.JournalsPath = value
	case "browser":
		if err := validateChoice("browser", value, ValidBrowsers); err != nil {
			return err
		}
		c.Browser = value
	case "server_addr":
		c.ServerAddr = value
	case "log_level":
		if err := validateChoice("log_level", value, ValidLogLevels); err != nil {
			return err
		}
		c.LogLevel = value
	case "log_format":
		if err := validateChoice("log_format", value, []string{"json", "console"}); err != nil {
			return err
		}
		c.LogFormat = value
	case "check_rate":
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate <= 0 {
			return fmt.Errorf("invalid check_rate: %s (must be a positive number)", value)
		}
		c.CheckRate = rate
	default:
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func validateChoice(key, value string, valid []string) error {
	if value == "" {
		return nil // Empty resets to the default
	}
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s (valid: %v)", key, value, valid)
}

// ValidateJournalsPath checks that the journal directory file exists.
func ValidateJournalsPath(path string) error {
	if path == "" {
		return nil // Empty means built-in directory
	}

	expandedPath := ExpandTilde(path)

	info, err := os.Stat(expandedPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", expandedPath)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory: %s", expandedPath)
	}

	return nil
}

// ExpandTilde expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
