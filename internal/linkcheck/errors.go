package linkcheck

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the checker.
var (
	// ErrNotFound indicates the publisher answered 404 or 410.
	ErrNotFound = errors.New("link not found")

	// ErrBlocked indicates the publisher refused the request (401/403).
	// Many publisher sites reject non-browser clients, so this does not
	// prove the link is broken.
	ErrBlocked = errors.New("link blocked by publisher")

	// ErrRateLimited indicates the publisher answered 429.
	ErrRateLimited = errors.New("publisher rate limit exceeded")

	// ErrNetworkError indicates the request never got a response.
	ErrNetworkError = errors.New("network error checking link")

	// ErrNoMatch indicates a redirect chain ended without reaching the
	// location being looked for.
	ErrNoMatch = errors.New("redirects did not reach a matching location")
)

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("checking %s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound returns true if the error indicates a dead link.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusNotFound || statusErr.StatusCode == http.StatusGone
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// statusError maps a response status to an error, or nil for 2xx/3xx.
func statusError(link string, code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return fmt.Errorf("%w: %s (HTTP %d)", ErrNotFound, link, code)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %s (HTTP %d)", ErrBlocked, link, code)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, link)
	default:
		return &StatusError{URL: link, StatusCode: code}
	}
}
