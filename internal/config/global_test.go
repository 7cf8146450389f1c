package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withConfigHome points XDG_CONFIG_HOME at a temp dir and resets the cache.
func withConfigHome(t *testing.T) string {
	t.Helper()
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	return tmpDir
}

func writeGlobalConfig(t *testing.T, home, content string) string {
	t.Helper()
	configDir := filepath.Join(home, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(configDir, GlobalConfigFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/gotopub/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	want := filepath.Join(home, ".config", "gotopub", "config.yml")
	if got := GlobalConfigPath(); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	withConfigHome(t)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadGlobalConfig() returned nil")
	}
	if cfg.JournalsPath != "" {
		t.Errorf("JournalsPath = %q, want empty", cfg.JournalsPath)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	home := withConfigHome(t)
	writeGlobalConfig(t, home, `journals_path: ~/refs/journals.yml
browser: firefox
server_addr: ":9999"
log_level: debug
check_rate: 4
`)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}

	userHome, _ := os.UserHomeDir()
	if want := filepath.Join(userHome, "refs/journals.yml"); cfg.JournalsPath != want {
		t.Errorf("JournalsPath = %q, want %q", cfg.JournalsPath, want)
	}
	if cfg.Browser != "firefox" {
		t.Errorf("Browser = %q, want firefox", cfg.Browser)
	}
	if cfg.ServerAddr != ":9999" {
		t.Errorf("ServerAddr = %q, want :9999", cfg.ServerAddr)
	}
	if cfg.CheckRate != 4 {
		t.Errorf("CheckRate = %v, want 4", cfg.CheckRate)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	home := withConfigHome(t)
	writeGlobalConfig(t, home, "browser: [unclosed")

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() should return error for invalid YAML")
	}
}

func TestGetConfigValue(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-env" {
		t.Errorf("GetConfigValue() = %q, want from-env", got)
	}

	t.Setenv("TEST_CONFIG_KEY", "")
	if got := GetConfigValue("TEST_CONFIG_KEY", "from-config"); got != "from-config" {
		t.Errorf("GetConfigValue() = %q, want from-config", got)
	}
}

func TestGetters_Defaults(t *testing.T) {
	withConfigHome(t)
	t.Setenv(EnvJournals, "")
	t.Setenv(EnvBrowser, "")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvLogLevel, "")

	if got := GetJournalsPath(); got != "" {
		t.Errorf("GetJournalsPath() = %q, want empty", got)
	}
	if got := GetBrowser(); got != DefaultBrowser {
		t.Errorf("GetBrowser() = %q, want %q", got, DefaultBrowser)
	}
	if got := GetServerAddr(); got != DefaultServerAddr {
		t.Errorf("GetServerAddr() = %q, want %q", got, DefaultServerAddr)
	}
	if got := GetLogLevel(); got != DefaultLogLevel {
		t.Errorf("GetLogLevel() = %q, want %q", got, DefaultLogLevel)
	}
	if got := GetLogFormat(); got != DefaultLogFormat {
		t.Errorf("GetLogFormat() = %q, want %q", got, DefaultLogFormat)
	}
	if got := GetCheckRate(); got != DefaultCheckRate {
		t.Errorf("GetCheckRate() = %v, want %v", got, DefaultCheckRate)
	}
}

func TestGetters_EnvOverridesConfig(t *testing.T) {
	home := withConfigHome(t)
	writeGlobalConfig(t, home, "server_addr: \":7000\"\nbrowser: chromium\n")

	t.Setenv(EnvAddr, ":8000")
	t.Setenv(EnvBrowser, "")
	if got := GetServerAddr(); got != ":8000" {
		t.Errorf("GetServerAddr() = %q, want :8000", got)
	}
	if got := GetBrowser(); got != "chromium" {
		t.Errorf("GetBrowser() = %q, want chromium", got)
	}
}

func TestGlobalConfigCache(t *testing.T) {
	home := withConfigHome(t)
	path := writeGlobalConfig(t, home, "browser: firefox\n")

	cfg1, _ := LoadGlobalConfig()
	if cfg1.Browser != "firefox" {
		t.Errorf("First load: Browser = %q, want firefox", cfg1.Browser)
	}

	if err := os.WriteFile(path, []byte("browser: safari\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg2, _ := LoadGlobalConfig()
	if cfg2.Browser != "firefox" {
		t.Errorf("Second load: Browser = %q, want firefox (cached)", cfg2.Browser)
	}

	ResetGlobalConfigCache()

	cfg3, _ := LoadGlobalConfig()
	if cfg3.Browser != "safari" {
		t.Errorf("Third load: Browser = %q, want safari", cfg3.Browser)
	}
}

func TestHelpfulConfigMessage(t *testing.T) {
	msg := HelpfulConfigMessage()
	if len(msg) < 50 {
		t.Error("HelpfulConfigMessage() seems too short")
	}
}
