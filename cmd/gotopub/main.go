// Package main provides the gotopub CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gotopub/gotopub/internal/config"
	"github.com/gotopub/gotopub/internal/journal"
	"github.com/gotopub/gotopub/internal/observability"
	"github.com/gotopub/gotopub/internal/provider"
	"github.com/gotopub/gotopub/internal/resolve"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// logLevelFlag overrides the configured log level when set
var logLevelFlag string

// logger is configured before any command runs
var logger = zerolog.Nop()

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is on, so cobra errors (bad flags, arg counts) are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gotopub",
	Short: "Jump from a journal citation to the article",
	Long: `gotopub turns a journal citation (journal, volume, page) into a link
to the article on the publisher's website.

Core features:
  - Fuzzy journal name suggestions
  - Publisher quick-links and DOIs for known journals
  - Open the link in a browser or copy it to the clipboard
  - A small JSON HTTP API for editor and browser integrations

All commands output JSON by default; use --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger()
	},
}

func init() {
	// .env is optional; variables already set in the environment win
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Version = Version
}

// newLogger builds the CLI logger from flags and configuration. Logs go to
// stderr so JSON on stdout stays machine-readable.
func newLogger() zerolog.Logger {
	level := logLevelFlag
	if level == "" {
		level = config.GetLogLevel()
	}
	return observability.NewLogger(observability.LoggingConfig{
		Level:  level,
		Format: config.GetLogFormat(),
		Output: "stderr",
	})
}

// loadDirectory returns the configured journal directory, or the built-in one.
func loadDirectory() (*journal.Directory, error) {
	path := config.GetJournalsPath()
	if path == "" {
		return journal.Builtin(), nil
	}
	logger.Debug().Str("path", path).Msg("loading journal directory")
	return journal.Load(path)
}

// mustLoadResolver builds the resolver from the journal directory and the
// built-in providers, exits on error. Integrity problems are logged here and
// reported per request by Resolve.
func mustLoadResolver() *resolve.Resolver {
	dir, err := loadDirectory()
	if err != nil {
		if humanOutput {
			fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		}
		exitWithError(ExitConfigError, "loading journals: %v", err)
	}

	providers := provider.Default()
	for _, issue := range journal.CheckProviders(dir, providers.Has) {
		logger.Warn().Str("journal", issue.Journal).Str("provider", issue.Provider).Msg("journal references unknown provider")
	}

	return resolve.New(dir, providers)
}
