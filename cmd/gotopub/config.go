package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gotopub/gotopub/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set values of the global configuration file
(~/.config/gotopub/config.yml, or under $XDG_CONFIG_HOME).

Usage:
  gotopub config                            # Show all config
  gotopub config browser                    # Get specific value
  gotopub config browser firefox            # Set value
  gotopub config journals-path ~/journals.yml

Keys:
  journals-path  YAML journal directory replacing the built-in one
  browser        Browser for --open (system, firefox, chromium, google-chrome, safari)
  server-addr    Listen address for 'gotopub serve'
  log-level      trace, debug, info, warn, error
  log-format     console or json
  check-rate     Link checks per second for --check and 'check --links'

Environment variables GOTOPUB_JOURNALS, GOTOPUB_BROWSER, GOTOPUB_ADDR and
GOTOPUB_LOG_LEVEL override the file. An empty value resets a key.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		values := make(map[string]string, len(config.Keys))
		for _, key := range config.Keys {
			values[key], _ = cfg.Get(key)
		}
		if humanOutput {
			fmt.Printf("# %s\n", config.GlobalConfigPath())
			for _, key := range config.Keys {
				fmt.Printf("%s %s\n", padRight(strings.ReplaceAll(key, "_", "-")+":", 15), values[key])
			}
		} else {
			outputJSON(values)
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	updated := *cfg
	if err := updated.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if err := updated.Save(config.GlobalConfigPath()); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}
	config.ResetGlobalConfigCache()

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  value,
		})
	}

	return nil
}

// normalizeKey converts key formats (journals-path, Journals_Path) to config keys
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "-", "_")
	return key
}
