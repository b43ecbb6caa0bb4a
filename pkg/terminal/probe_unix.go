// ABOUTME: Unix backend probe: every Unix terminal speaks ANSI, so the writer backend always wins.
// ABOUTME: A non-terminal stdout resolves to BackendUnavailableError so callers can degrade.

//go:build !windows

package terminal

import "os"

// probeBackend resolves the platform backend exactly once per process.
// On Unix the ANSI writer is the only variant; resolution fails only
// when stdout is not an interactive terminal.
func probeBackend() (Backend, error) {
	if !IsTerminal(os.Stdout) {
		return nil, &BackendUnavailableError{Op: "probe", Err: ErrNotATerminal}
	}
	return NewANSIBackend(os.Stdout, int(os.Stdin.Fd())), nil
}
