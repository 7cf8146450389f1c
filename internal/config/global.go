package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "gotopub"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *Config

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/gotopub/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*Config, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.JournalsPath != "" {
		cfg.JournalsPath = ExpandTilde(cfg.JournalsPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetConfigValue returns the environment variable if set, else the config value.
func GetConfigValue(envKey, configValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return configValue
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// GetJournalsPath returns the journal directory override, or "" for the built-in one.
func GetJournalsPath() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		cfg = &Config{}
	}
	return ExpandTilde(GetConfigValue(EnvJournals, cfg.JournalsPath))
}

// GetBrowser returns the browser used to open resolved URLs.
func GetBrowser() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		cfg = &Config{}
	}
	return orDefault(GetConfigValue(EnvBrowser, cfg.Browser), DefaultBrowser)
}

// GetServerAddr returns the listen address of the HTTP API.
func GetServerAddr() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		cfg = &Config{}
	}
	return orDefault(GetConfigValue(EnvAddr, cfg.ServerAddr), DefaultServerAddr)
}

// GetLogLevel returns the minimum log level.
func GetLogLevel() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		cfg = &Config{}
	}
	return orDefault(GetConfigValue(EnvLogLevel, cfg.LogLevel), DefaultLogLevel)
}

// GetLogFormat returns the log output format.
func GetLogFormat() string {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		cfg = &Config{}
	}
	return orDefault(cfg.LogFormat, DefaultLogFormat)
}

// GetCheckRate returns the number of link checks allowed per second.
func GetCheckRate() float64 {
	cfg, err := LoadGlobalConfig()
	if err != nil || cfg.CheckRate <= 0 {
		return DefaultCheckRate
	}
	return cfg.CheckRate
}

// FormatRate formats a rate for display.
func FormatRate(r float64) string {
	return strconv.FormatFloat(r, 'g', -1, 64)
}

// HelpfulConfigMessage explains where the configuration lives.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`gotopub reads its configuration from %s

Tip: point gotopub at your own journal list:
  mkdir -p %s
  echo 'journals_path: /path/to/journals.yml' > %s

Each journal entry has a name, a provider key and an optional abbr.`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
