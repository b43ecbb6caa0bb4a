// ABOUTME: Cursor position query and window resize for POSIX terminals.
// ABOUTME: Both go through the controlling tty so redirected stdio does not break them.

//go:build unix

package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/TimonPost/crossterm/internal/ansi"
)

const maxCursorReport = 64

// Position returns the cursor's 0-based column and row. It writes a
// DSR 6 query to the controlling tty and reads the report back, which
// requires raw mode for the duration of the exchange; the prior tty
// configuration is restored before returning.
func Position() (x, y int, err error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return 0, 0, &BackendUnavailableError{Op: "cursor-position", Err: err}
	}
	defer tty.Close()

	fd := int(tty.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return 0, 0, &BackendUnavailableError{Op: "cursor-position", Err: err}
	}
	defer term.Restore(fd, state)

	if _, err := tty.WriteString(ansi.RequestCursorPosition); err != nil {
		return 0, 0, &BackendUnavailableError{Op: "cursor-position", Err: err}
	}

	report := make([]byte, 0, 16)
	buf := make([]byte, 1)
	for {
		n, err := tty.Read(buf)
		if err != nil {
			return 0, 0, &BackendUnavailableError{Op: "cursor-position", Err: err}
		}
		if n == 0 {
			continue
		}
		report = append(report, buf[0])
		if buf[0] == 'R' {
			break
		}
		if len(report) > maxCursorReport {
			return 0, 0, &BackendUnavailableError{Op: "cursor-position", Err: fmt.Errorf("unterminated cursor report %q", report)}
		}
	}
	return parseCursorReport(report)
}

// SetSize asks the terminal emulator to resize its window to cols by
// rows cells. Emulators are free to ignore the request.
func SetSize(cols, rows int) error {
	if cols < 1 || rows < 1 {
		return fmt.Errorf("terminal size %dx%d out of range", cols, rows)
	}
	if _, err := os.Stdout.WriteString(ansi.SetSize(cols, rows)); err != nil {
		return &BackendUnavailableError{Op: "set-size", Err: err}
	}
	return nil
}
