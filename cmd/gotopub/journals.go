package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gotopub/gotopub/internal/journal"
	"github.com/gotopub/gotopub/internal/provider"
)

// Column widths for human output
const (
	journalNameWidth = 48
	providerKeyWidth = 8
)

var journalsProviderFlag string

// JournalsResult is the JSON output for gotopub journals.
type JournalsResult struct {
	Journals []journal.Entry `json:"journals"`
	Total    int             `json:"total"`
}

// ProvidersResult is the JSON output for gotopub providers.
type ProvidersResult struct {
	Providers []provider.Info `json:"providers"`
}

func init() {
	journalsCmd.Flags().StringVar(&journalsProviderFlag, "provider", "", "Only list journals of this provider key")
	rootCmd.AddCommand(journalsCmd)
	rootCmd.AddCommand(providersCmd)
}

var journalsCmd = &cobra.Command{
	Use:   "journals",
	Short: "List known journals",
	Long: `List the journals of the directory with their provider and abbreviation.

Examples:
  gotopub journals
  gotopub journals --provider aps --human`,
	Args: cobra.NoArgs,
	RunE: runJournals,
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported publishers",
	Args:  cobra.NoArgs,
	RunE:  runProviders,
}

func runJournals(cmd *cobra.Command, args []string) error {
	r := mustLoadResolver()

	var entries []journal.Entry
	if journalsProviderFlag != "" {
		if !r.Providers().Has(journalsProviderFlag) {
			exitWithError(ExitError, "unknown provider: %s (see 'gotopub providers')", journalsProviderFlag)
		}
		entries = r.Journals().ByProvider(journalsProviderFlag)
	} else {
		entries = r.Journals().Entries()
	}
	if entries == nil {
		entries = []journal.Entry{}
	}

	if humanOutput {
		for _, e := range entries {
			fmt.Printf("%s %s %s\n",
				padRight(truncateString(e.Name, journalNameWidth), journalNameWidth),
				padRight(e.Provider, providerKeyWidth),
				identifiersLabel(e))
		}
		fmt.Printf("\n%d journals\n", len(entries))
		return nil
	}

	return outputJSON(JournalsResult{Journals: entries, Total: len(entries)})
}

// identifiersLabel lists the identifiers of a journal with their volumes.
func identifiersLabel(e journal.Entry) string {
	if len(e.Volumes) == 0 {
		return e.Abbreviation
	}
	parts := make([]string, len(e.Volumes))
	for i, r := range e.Volumes {
		parts[i] = fmt.Sprintf("%s (vol. %s)", r.Abbreviation, r)
	}
	return strings.Join(parts, ", ")
}

func runProviders(cmd *cobra.Command, args []string) error {
	r := mustLoadResolver()

	all := r.Providers().All()
	infos := make([]provider.Info, len(all))
	for i, p := range all {
		infos[i] = p.Info()
	}

	if humanOutput {
		for _, info := range infos {
			doi := ""
			switch {
			case info.DOI:
				doi = " [doi]"
			case info.DOILookup:
				doi = " [doi --lookup]"
			}
			fmt.Printf("%s %s%s\n    %s\n", padRight(info.Key, providerKeyWidth), info.Name, doi, info.Website)
		}
		return nil
	}

	return outputJSON(ProvidersResult{Providers: infos})
}
