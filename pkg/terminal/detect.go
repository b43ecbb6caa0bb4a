// ABOUTME: Backend resolution singleton and non-mutating capability queries.
// ABOUTME: The backend is probed once per process and never re-probed mid-session.

package terminal

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

var (
	activeOnce sync.Once
	active     Backend
	activeErr  error
)

// Active returns the process-wide backend, resolving it on first use
// from the capability probe. Once resolved the backend never changes:
// switching mid-session would invalidate in-flight mode and screen
// state.
func Active() (Backend, error) {
	activeOnce.Do(func() {
		active, activeErr = probeBackend()
	})
	return active, activeErr
}

// IsTerminal reports whether f is attached to an interactive terminal.
// It never mutates terminal state.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// RawModeSupported reports whether raw mode can be enabled for f, so
// callers can degrade gracefully instead of failing at dispatch.
func RawModeSupported(f *os.File) bool {
	return IsTerminal(f)
}

// Size returns the dimensions of the terminal attached to stdout.
func Size() (cols, rows int, err error) {
	cols, rows, err = term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, &BackendUnavailableError{Op: "size", Err: err}
	}
	return cols, rows, nil
}

// ColorCount returns the number of colors the terminal advertises:
// 256 when TERM claims a 256-color profile, 8 otherwise.
func ColorCount() int {
	if strings.Contains(os.Getenv("TERM"), "256color") {
		return 256
	}
	return 8
}
