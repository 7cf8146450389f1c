package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gotopub/gotopub/internal/browser"
	"github.com/gotopub/gotopub/internal/clipboard"
	"github.com/gotopub/gotopub/internal/config"
	"github.com/gotopub/gotopub/internal/linkcheck"
	"github.com/gotopub/gotopub/internal/observability"
	"github.com/gotopub/gotopub/internal/provider"
	"github.com/gotopub/gotopub/internal/resolve"
)

// Transport flags shared by url, doi and open
var (
	urlCopyFlag  bool
	urlOpenFlag  bool
	urlCheckFlag bool
)

var doiLookupFlag bool

// URLResult is the JSON output for gotopub url and gotopub doi.
type URLResult struct {
	resolve.Result
	Copied   bool         `json:"copied"` // true if --copy succeeded
	Opened   bool         `json:"opened"` // true if --open started a browser
	Check    *CheckStatus `json:"check,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// CheckStatus is the outcome of --check.
type CheckStatus struct {
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code,omitempty"`
	FinalURL   string `json:"final_url,omitempty"`
	Error      string `json:"error,omitempty"`
}

func init() {
	for _, cmd := range []*cobra.Command{urlCmd, doiCmd} {
		cmd.Flags().BoolVar(&urlCopyFlag, "copy", false, "Copy the link to the system clipboard")
		cmd.Flags().BoolVar(&urlOpenFlag, "open", false, "Open the link in the configured browser")
		cmd.Flags().BoolVar(&urlCheckFlag, "check", false, "Check that the publisher answers the link")
	}
	doiCmd.Flags().BoolVar(&doiLookupFlag, "lookup", false, "Follow the publisher's quick link to find the DOI when it has no DOI scheme")
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(doiCmd)
	rootCmd.AddCommand(openCmd)
}

var urlCmd = &cobra.Command{
	Use:   "url <journal> <volume> <page>",
	Short: "Build the publisher link for a citation",
	Long: `Build the publisher quick-link for a journal citation.

The journal must be the exact display name (see 'gotopub suggest').
Volume and page must be whole numbers.

Examples:
  gotopub url Nature 12 345
  gotopub url "Physical Review Letters" 116 231301 --copy
  gotopub url "Journal of the American Chemical Society" 138 5052 --open`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCitation(resolve.ActionURL, args)
	},
}

var doiCmd = &cobra.Command{
	Use:   "doi <journal> <volume> <page>",
	Short: "Build the DOI link for a citation",
	Long: `Build the https://doi.org link for a journal citation.

Publishers with a predictable DOI scheme answer offline. With --lookup,
publishers that redirect their quick link to the article page (see
'doi_lookup' in 'gotopub providers') are asked over the network. Others
fail with exit code 4.

Examples:
  gotopub doi "Physical Review Letters" 116 231301
  gotopub doi "Journal of the American Chemical Society" 138 5052 --lookup`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCitation(resolve.ActionDOI, args)
	},
}

var openCmd = &cobra.Command{
	Use:   "open <journal> <volume> <page>",
	Short: "Open the publisher page for a citation",
	Long:  `Resolve a citation and open the publisher page in the configured browser. Same as 'gotopub url --open'.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		urlOpenFlag = true
		return runCitation(resolve.ActionURL, args)
	},
}

// citationRequest builds a resolve request from positional arguments.
func citationRequest(action resolve.Action, args []string) resolve.Request {
	return resolve.Request{
		Journal: args[0],
		Volume:  args[1],
		Page:    args[2],
		Action:  action,
	}
}

func runCitation(action resolve.Action, args []string) error {
	r := mustLoadResolver()
	req := citationRequest(action, args)
	log := observability.WithCitationContext(logger, req.Journal, req.Volume, req.Page)

	res, err := r.Resolve(req)
	if err != nil && doiLookupFlag && action == resolve.ActionDOI && resolve.IsKind(err, resolve.KindUnsupportedAction) {
		var lookupErr error
		res, lookupErr = resolveDOIByRedirect(r, req)
		switch {
		case errors.Is(lookupErr, provider.ErrNoDOI):
			// No lookup either: report the original rejection
		case lookupErr != nil && resolve.KindOf(lookupErr) != "":
			err = lookupErr
		case lookupErr != nil:
			log.Debug().Err(lookupErr).Msg("DOI lookup failed")
			exitWithError(ExitDataError, "DOI lookup failed: %v", lookupErr)
		default:
			err = nil
		}
	}
	if err != nil {
		log.Debug().Err(err).Msg("citation rejected")
		exitWithResolveError(err)
	}
	log.Debug().Str("url", res.URL).Str("provider", res.Provider.Key).Msg("citation resolved")

	out := URLResult{Result: *res}

	if urlCopyFlag {
		if err := clipboard.Copy(res.URL); err != nil {
			if errors.Is(err, clipboard.ErrClipboardUnavailable) {
				out.Warnings = append(out.Warnings, clipboardUnavailableMsg)
			} else {
				out.Warnings = append(out.Warnings, fmt.Sprintf("clipboard error: %v", err))
			}
		} else {
			out.Copied = true
		}
	}

	if urlOpenFlag {
		opener := browser.NewOpener(config.GetBrowser())
		if err := opener.Open(res.URL); err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("opening browser: %v", err))
		} else {
			out.Opened = true
		}
	}

	if urlCheckFlag {
		out.Check = checkLink(res.URL)
	}

	if humanOutput {
		fmt.Println(res.URL)
		if out.Copied {
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
		}
		if out.Opened {
			fmt.Fprintf(os.Stderr, "Opened in %s browser\n", config.GetBrowser())
		}
		if out.Check != nil {
			if out.Check.OK {
				fmt.Fprintf(os.Stderr, "Link OK (HTTP %d)\n", out.Check.StatusCode)
			} else {
				fmt.Fprintf(os.Stderr, "Link check failed: %s\n", out.Check.Error)
			}
		}
		for _, w := range out.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
	} else {
		outputJSON(out)
	}

	if out.Check != nil && !out.Check.OK {
		os.Exit(ExitDataError)
	}
	return nil
}

// resolveDOIByRedirect resolves the quick link of req and follows it until the
// publisher redirects to a location carrying the DOI. It returns
// provider.ErrNoDOI when the publisher's redirects carry no DOI.
func resolveDOIByRedirect(r *resolve.Resolver, req resolve.Request) (*resolve.Result, error) {
	req.Action = resolve.ActionURL
	res, err := r.Resolve(req)
	if err != nil {
		return nil, err
	}
	p, ok := r.Providers().Lookup(res.Provider.Key)
	if !ok || !p.SupportsDOILookup() {
		return nil, provider.ErrNoDOI
	}

	ctx, cancel := context.WithTimeout(context.Background(), linkcheck.DefaultTimeout)
	defer cancel()

	checker := linkcheck.NewChecker(linkcheck.WithRate(config.GetCheckRate()))
	doi, err := lookupDOI(ctx, checker, p, res.URL)
	if err != nil {
		return nil, err
	}
	res.DOI = doi
	res.URL = resolve.DOIURL(doi)
	return res, nil
}

// lookupDOI follows quickLink until p recognizes a DOI in a redirect location.
func lookupDOI(ctx context.Context, checker *linkcheck.Checker, p *provider.Provider, quickLink string) (string, error) {
	start := time.Now()
	loc, err := checker.Locate(ctx, quickLink, func(location string) bool {
		_, ok := p.DOIFromLocation(location)
		return ok
	})
	logger.Debug().Str("url", quickLink).Str("location", loc).Dur("duration", time.Since(start)).Err(err).Msg("DOI lookup")
	if err != nil {
		return "", err
	}
	doi, _ := p.DOIFromLocation(loc)
	return doi, nil
}

// checkLink performs a single rate-limited request against link.
func checkLink(link string) *CheckStatus {
	ctx, cancel := context.WithTimeout(context.Background(), linkcheck.DefaultTimeout)
	defer cancel()

	checker := linkcheck.NewChecker(linkcheck.WithRate(config.GetCheckRate()))
	start := time.Now()
	status, err := checker.Check(ctx, link)
	logger.Debug().Str("url", link).Dur("duration", time.Since(start)).Err(err).Msg("link checked")

	return checkStatus(status, err)
}

// checkStatus converts a checker outcome to its JSON form.
func checkStatus(status *linkcheck.Status, err error) *CheckStatus {
	if err != nil {
		return &CheckStatus{OK: false, Error: err.Error()}
	}
	return &CheckStatus{
		OK:         true,
		StatusCode: status.StatusCode,
		FinalURL:   status.FinalURL,
	}
}
