package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
)

// MaxRedirects bounds the hops Locate follows.
const MaxRedirects = 5

// Locate follows the redirects of link one hop at a time and returns the
// first Location accepted by match. Cookies set along the way are sent on
// later hops, since some publishers bounce through a cookie check before
// redirecting to the article. Every hop counts against the rate limit.
func (c *Checker) Locate(ctx context.Context, link string, match func(location string) bool) (string, error) {
	hc := *c.httpClient
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return "", fmt.Errorf("creating cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	current := link
	for range MaxRedirects {
		resp, err := c.doWith(ctx, &hc, http.MethodGet, current)
		if err != nil {
			return "", err
		}
		if err := statusError(current, resp.StatusCode); err != nil {
			return "", err
		}

		loc, err := resp.Location()
		if err != nil {
			// Not a redirect: the chain ends here.
			return "", fmt.Errorf("%w: %s answered HTTP %d", ErrNoMatch, current, resp.StatusCode)
		}
		if match(loc.String()) {
			return loc.String(), nil
		}
		current = loc.String()
	}

	return "", fmt.Errorf("%w: gave up after %d redirects from %s", ErrNoMatch, MaxRedirects, link)
}
