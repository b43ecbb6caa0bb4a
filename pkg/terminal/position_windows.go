// ABOUTME: Cursor position query and window resize for the Windows console.
// ABOUTME: Both use the screen buffer info APIs instead of an escape sequence round-trip.

//go:build windows

package terminal

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Position returns the cursor's 0-based column and row from the
// console screen buffer info.
func Position() (x, y int, err error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(os.Stdout.Fd()), &info); err != nil {
		return 0, 0, &BackendUnavailableError{Op: "cursor-position", Err: err}
	}
	return int(info.CursorPosition.X), int(info.CursorPosition.Y), nil
}

// SetSize resizes the console screen buffer and window. The window can
// never be larger than the buffer, so the shrink direction decides
// which is adjusted first.
func SetSize(cols, rows int) error {
	if cols < 1 || rows < 1 {
		return fmt.Errorf("terminal size %dx%d out of range", cols, rows)
	}
	h := windows.Handle(os.Stdout.Fd())
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(h, &info); err != nil {
		return &BackendUnavailableError{Op: "set-size", Err: err}
	}

	size := windows.Coord{X: int16(cols), Y: int16(rows)}
	window := windows.SmallRect{Right: int16(cols) - 1, Bottom: int16(rows) - 1}

	if size.X < info.Size.X || size.Y < info.Size.Y {
		if err := setWindowRect(h, &window); err != nil {
			return err
		}
		return setBufferSize(h, size)
	}
	if err := setBufferSize(h, size); err != nil {
		return err
	}
	return setWindowRect(h, &window)
}

func setBufferSize(h windows.Handle, size windows.Coord) error {
	packed := uintptr(uint32(uint16(size.X)) | uint32(uint16(size.Y))<<16)
	r, _, err := procSetConsoleScreenBufferSize.Call(uintptr(h), packed)
	if r == 0 {
		return &BackendUnavailableError{Op: "set-size", Err: err}
	}
	return nil
}

func setWindowRect(h windows.Handle, window *windows.SmallRect) error {
	r, _, err := procSetConsoleWindowInfo.Call(uintptr(h), uintptr(1), uintptr(unsafe.Pointer(window)))
	if r == 0 {
		return &BackendUnavailableError{Op: "set-size", Err: err}
	}
	return nil
}
