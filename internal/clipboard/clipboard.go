// Package clipboard copies resolved links to the system clipboard via shell commands.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when no clipboard tool is installed.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// linuxTools are tried in order; wl-copy covers Wayland sessions.
var linuxTools = [][]string{
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// getClipboardCommand returns the command that reads stdin into the clipboard.
func getClipboardCommand() (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err != nil {
			return nil, ErrClipboardUnavailable
		}
		return exec.Command("pbcopy"), nil
	case "linux":
		for _, tool := range linuxTools {
			if _, err := exec.LookPath(tool[0]); err == nil {
				return exec.Command(tool[0], tool[1:]...), nil
			}
		}
		return nil, ErrClipboardUnavailable
	case "windows":
		if _, err := exec.LookPath("clip"); err != nil {
			return nil, ErrClipboardUnavailable
		}
		return exec.Command("clip"), nil
	default:
		return nil, ErrClipboardUnavailable
	}
}

// IsAvailable reports whether Copy can work on this system.
func IsAvailable() bool {
	_, err := getClipboardCommand()
	return err == nil
}

// Copy places text on the system clipboard.
func Copy(text string) error {
	cmd, err := getClipboardCommand()
	if err != nil {
		return err
	}

	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", cmd.Args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
