package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gotopub/gotopub/internal/config"
	"github.com/gotopub/gotopub/internal/journal"
	"github.com/gotopub/gotopub/internal/linkcheck"
	"github.com/gotopub/gotopub/internal/resolve"
)

var checkLinksFlag bool

// CheckResult is the response for the check command.
type CheckResult struct {
	Status    string       `json:"status"`
	Journals  int          `json:"journals"`
	Providers int          `json:"providers"`
	Issues    []CheckIssue `json:"issues"`
}

// CheckIssue represents a single issue found during check.
type CheckIssue struct {
	Type     string `json:"type"`
	Journal  string `json:"journal,omitempty"`
	Provider string `json:"provider,omitempty"`
	URL      string `json:"url,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Issue types
const (
	issueUnknownProvider = "unknown_provider"
	issueUnusedProvider  = "unused_provider"
	issueDeadWebsite     = "dead_website"
)

func init() {
	checkCmd.Flags().BoolVar(&checkLinksFlag, "links", false, "Also check that every provider website answers (rate limited)")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the journal directory against the providers",
	Long: `Verify that every journal references a known provider.

Providers without any journal are reported too. With --links, each
provider website is requested once, at the configured check_rate.
Exits with code 3 when a journal references an unknown provider or a
website is dead.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// collectIssues reports directory/registry mismatches.
func collectIssues(r *resolve.Resolver) []CheckIssue {
	issues := []CheckIssue{}

	for _, issue := range journal.CheckProviders(r.Journals(), r.Providers().Has) {
		issues = append(issues, CheckIssue{
			Type:     issueUnknownProvider,
			Journal:  issue.Journal,
			Provider: issue.Provider,
		})
	}

	for _, key := range r.Providers().Keys() {
		if len(r.Journals().ByProvider(key)) == 0 {
			issues = append(issues, CheckIssue{
				Type:     issueUnusedProvider,
				Provider: key,
			})
		}
	}

	return issues
}

// checkWebsites requests every provider website through checker.
func checkWebsites(ctx context.Context, r *resolve.Resolver, checker *linkcheck.Checker) []CheckIssue {
	all := r.Providers().All()
	links := make([]string, len(all))
	for i, p := range all {
		links[i] = p.WebsiteURL
	}

	var issues []CheckIssue
	for i, res := range checker.CheckAll(ctx, links) {
		if res.Err == nil {
			continue
		}
		issues = append(issues, CheckIssue{
			Type:     issueDeadWebsite,
			Provider: all[i].Key,
			URL:      links[i],
			Reason:   res.Err.Error(),
		})
	}
	return issues
}

// hasErrors reports whether any issue should fail the check. Unused
// providers are informational.
func hasErrors(issues []CheckIssue) bool {
	for _, issue := range issues {
		if issue.Type != issueUnusedProvider {
			return true
		}
	}
	return false
}

func runCheck(cmd *cobra.Command, args []string) error {
	r := mustLoadResolver()
	issues := collectIssues(r)

	if checkLinksFlag {
		rate := config.GetCheckRate()
		timeout := linkcheck.DefaultTimeout + time.Duration(float64(r.Providers().Len())/rate*float64(time.Second))
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		checker := linkcheck.NewChecker(linkcheck.WithRate(rate))
		issues = append(issues, checkWebsites(ctx, r, checker)...)
	}

	status := "ok"
	if hasErrors(issues) {
		status = "issues_found"
	}

	if humanOutput {
		fmt.Printf("Checked %d journals against %d providers\n", r.Journals().Len(), r.Providers().Len())
		for _, issue := range issues {
			switch issue.Type {
			case issueUnknownProvider:
				fmt.Printf("  ERROR %s: unknown provider %q\n", issue.Journal, issue.Provider)
			case issueUnusedProvider:
				fmt.Printf("  note  provider %q has no journals\n", issue.Provider)
			case issueDeadWebsite:
				fmt.Printf("  ERROR provider %q website %s: %s\n", issue.Provider, issue.URL, issue.Reason)
			}
		}
		if status == "ok" {
			fmt.Println("No problems found.")
		}
	} else {
		outputJSON(CheckResult{
			Status:    status,
			Journals:  r.Journals().Len(),
			Providers: r.Providers().Len(),
			Issues:    issues,
		})
	}

	if status != "ok" {
		os.Exit(ExitDataError)
	}
	return nil
}
