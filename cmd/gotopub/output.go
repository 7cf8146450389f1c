package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gotopub/gotopub/internal/resolve"
)

// clipboardUnavailableMsg is the standard warning when clipboard is not available.
const clipboardUnavailableMsg = "clipboard unavailable (install wl-copy, xclip or xsel on Linux)"

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitWithResolveError reports a rejected citation with its kind and field.
func exitWithResolveError(err error) {
	var rerr *resolve.Error
	if !errors.As(err, &rerr) {
		exitWithError(ExitError, "%v", err)
	}
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", rerr.Message)
	} else {
		outputJSON(ErrorResponse{
			Error: rerr.Message,
			Kind:  string(rerr.Kind),
			Field: rerr.Field,
		})
	}
	os.Exit(exitCodeForKind(rerr.Kind))
}

// exitCodeForKind maps a failure kind to a process exit code.
func exitCodeForKind(kind resolve.Kind) int {
	switch kind {
	case resolve.KindUnsupportedAction, resolve.KindUnsupportedMethod:
		return ExitUnsupported
	case resolve.KindConfigurationIntegrity:
		return ExitConfigError
	case "":
		return ExitError
	default:
		return ExitDataError
	}
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}

// padRight pads s with spaces to width characters.
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
