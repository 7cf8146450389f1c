package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gotopub/gotopub/internal/suggest"
)

var suggestSourceFlag string

// SuggestResult is the JSON output for gotopub suggest.
type SuggestResult struct {
	Request     string               `json:"request"`
	Source      string               `json:"source"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

func init() {
	suggestCmd.Flags().StringVar(&suggestSourceFlag, "source", suggest.SourceName, "Compare against journal names (name) or abbreviations (abbr)")
	rootCmd.AddCommand(suggestCmd)
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [text...]",
	Short: "Suggest journal names for partial input",
	Long: `Suggest up to five journal names closest to the given text.

Journals are ranked by edit distance relative to the journal name length,
ignoring case. Without text, the first journals of the directory are listed.

Examples:
  gotopub suggest phys rev lett
  gotopub suggest --source abbr jacs`,
	RunE: runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	r := mustLoadResolver()
	matcher := suggest.NewMatcher(r.Journals())

	q := strings.Join(args, " ")
	suggestions, err := matcher.Suggest(q, suggestSourceFlag)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}

	if humanOutput {
		if len(suggestions) == 0 {
			fmt.Println("No journals.")
			return nil
		}
		for i, s := range suggestions {
			fmt.Printf("%d. %s\n", i+1, s.Label)
		}
		return nil
	}

	return outputJSON(SuggestResult{
		Request:     q,
		Source:      suggestSourceFlag,
		Suggestions: suggestions,
	})
}
