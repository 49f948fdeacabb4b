// Package clipboard copies text to the system clipboard via shell tools.
package clipboard

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard tool can be found.
var ErrUnavailable = errors.New("clipboard unavailable")

// command picks the platform clipboard writer, preferring Wayland's
// wl-copy over the X11 tools on Linux.
func command() *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		if _, err := exec.LookPath("pbcopy"); err == nil {
			return exec.Command("pbcopy")
		}
	case "linux":
		if _, err := exec.LookPath("wl-copy"); err == nil {
			return exec.Command("wl-copy")
		}
		if _, err := exec.LookPath("xclip"); err == nil {
			return exec.Command("xclip", "-selection", "clipboard")
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return exec.Command("xsel", "--clipboard", "--input")
		}
	}
	return nil
}

// IsAvailable reports whether a clipboard tool exists on this system.
func IsAvailable() bool {
	return command() != nil
}

// Copy writes text to the system clipboard, or ErrUnavailable when no
// tool exists.
func Copy(text string) error {
	cmd := command()
	if cmd == nil {
		return ErrUnavailable
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
