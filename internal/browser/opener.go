// Package browser opens resolved publisher links in a web browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrNotWebURL is returned when asked to open something other than an http(s) link.
var ErrNotWebURL = errors.New("not an http(s) URL")

// Opener launches URLs with the configured browser.
type Opener struct {
	browser string
	goos    string
}

// NewOpener creates an opener for the given browser ("system" uses the
// platform default handler).
func NewOpener(browser string) *Opener {
	if browser == "" {
		browser = "system"
	}
	return &Opener{
		browser: browser,
		goos:    runtime.GOOS,
	}
}

// Browser returns the configured browser name.
func (o *Opener) Browser() string {
	return o.browser
}

// Open starts the browser on link without waiting for it to exit.
func (o *Opener) Open(link string) error {
	cmd, err := o.command(link)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Args[0], err)
	}
	// Reap the child in the background; its exit status is irrelevant.
	go func() { _ = cmd.Wait() }()
	return nil
}

// command builds the platform command that opens link.
func (o *Opener) command(link string) (*exec.Cmd, error) {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotWebURL, link)
	}

	switch o.goos {
	case "darwin":
		return o.darwinCommand(link), nil
	case "linux", "freebsd", "openbsd":
		return o.linuxCommand(link), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", link), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", o.goos)
	}
}

func (o *Opener) darwinCommand(link string) *exec.Cmd {
	switch o.browser {
	case "firefox":
		return exec.Command("open", "-a", "Firefox", link)
	case "chromium":
		return exec.Command("open", "-a", "Chromium", link)
	case "google-chrome":
		return exec.Command("open", "-a", "Google Chrome", link)
	case "safari":
		return exec.Command("open", "-a", "Safari", link)
	default: // "system"
		return exec.Command("open", link)
	}
}

func (o *Opener) linuxCommand(link string) *exec.Cmd {
	switch o.browser {
	case "firefox", "chromium", "google-chrome":
		return exec.Command(o.browser, link)
	default: // "system"; safari falls back here too
		return exec.Command("xdg-open", link)
	}
}
