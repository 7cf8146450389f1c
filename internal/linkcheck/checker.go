// Package linkcheck verifies that resolved publisher links answer over HTTP.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single check.
	DefaultTimeout = 15 * time.Second

	// DefaultRate is the number of checks per second.
	DefaultRate = 1.0

	// UserAgent identifies gotopub to publishers.
	UserAgent = "gotopub-linkcheck/1.0"
)

// Status is the outcome of a successful check.
type Status struct {
	URL        string `json:"url"`
	FinalURL   string `json:"final_url"`
	StatusCode int    `json:"status_code"`
	Method     string `json:"method"`
}

// Checker is a rate-limited HTTP link checker. It makes exactly one
// request per link (two when the publisher rejects HEAD) and never retries.
type Checker struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) CheckerOption {
	return func(c *Checker) {
		c.httpClient = hc
	}
}

// WithRate sets the number of checks allowed per second.
func WithRate(perSecond float64) CheckerOption {
	return func(c *Checker) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) CheckerOption {
	return func(c *Checker) {
		c.userAgent = ua
	}
}

// NewChecker creates a link checker.
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRate), 1),
		userAgent:  UserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Check requests link and reports its status. Publishers that reject HEAD
// with 405 or 501 are retried once with GET.
func (c *Checker) Check(ctx context.Context, link string) (*Status, error) {
	resp, err := c.do(ctx, http.MethodHead, link)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		resp, err = c.do(ctx, http.MethodGet, link)
		if err != nil {
			return nil, err
		}
	}

	if err := statusError(link, resp.StatusCode); err != nil {
		return nil, err
	}

	return &Status{
		URL:        link,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Method:     resp.Request.Method,
	}, nil
}

// do performs one rate-limited request and drains the body.
func (c *Checker) do(ctx context.Context, method, link string) (*http.Response, error) {
	return c.doWith(ctx, c.httpClient, method, link)
}

func (c *Checker) doWith(ctx context.Context, hc *http.Client, method, link string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, link, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	return resp, nil
}

// Result pairs a link with its check outcome.
type Result struct {
	Status *Status
	Err    error
}

// CheckAll checks links sequentially, in order, honoring the rate limit.
// It stops early when ctx is cancelled; unchecked links get ctx.Err().
func (c *Checker) CheckAll(ctx context.Context, links []string) []Result {
	results := make([]Result, len(links))
	for i, link := range links {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Err: err}
			continue
		}
		status, err := c.Check(ctx, link)
		results[i] = Result{Status: status, Err: err}
	}
	return results
}
