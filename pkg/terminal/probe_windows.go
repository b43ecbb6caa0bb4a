// ABOUTME: Windows backend probe: prefer VT escape processing, fall back to the legacy console driver.
// ABOUTME: Mirrors the original try-enable-ANSI-then-WinAPI selection, resolved once per process.

//go:build windows

package terminal

import (
	"os"

	"golang.org/x/sys/windows"
)

// probeBackend resolves the platform backend exactly once per process.
// Windows 10+ consoles accept VT sequences once
// ENABLE_VIRTUAL_TERMINAL_PROCESSING is set; when that succeeds the
// ANSI writer drives the console like any Unix terminal. Legacy
// consoles fall back to the native console-API driver.
func probeBackend() (Backend, error) {
	if !IsTerminal(os.Stdout) {
		return nil, &BackendUnavailableError{Op: "probe", Err: ErrNotATerminal}
	}

	out := windows.Handle(os.Stdout.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(out, &mode); err == nil {
		if err := windows.SetConsoleMode(out, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err == nil {
			return NewANSIBackend(os.Stdout, int(os.Stdin.Fd())), nil
		}
	}

	return newConsoleBackend(os.Stdout, os.Stdin)
}
