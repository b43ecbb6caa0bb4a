// ABOUTME: Defines the Backend contract both platform drivers implement, plus the mode/screen/region enums.
// ABOUTME: Exactly two implementations exist: the ANSI sequence writer and the Windows console driver.

package terminal

import "github.com/TimonPost/crossterm/pkg/style"

// Mode is the terminal input processing mode.
type Mode int

const (
	// Cooked is canonical mode: the OS line-buffers and echoes input.
	Cooked Mode = iota
	// Raw delivers keystrokes immediately, unprocessed and unechoed.
	Raw
)

func (m Mode) String() string {
	if m == Raw {
		return "Raw"
	}
	return "Cooked"
}

// ScreenBuffer identifies which display buffer is visible.
type ScreenBuffer int

const (
	// Primary is the buffer the shell was using before we ran.
	Primary ScreenBuffer = iota
	// Alternate is the secondary buffer; switching back restores
	// the primary buffer's prior contents.
	Alternate
)

func (s ScreenBuffer) String() string {
	if s == Alternate {
		return "Alternate"
	}
	return "Primary"
}

// ClearRegion selects how much of the screen a clear operation erases.
type ClearRegion int

const (
	// ClearAll erases the whole visible buffer.
	ClearAll ClearRegion = iota
	// ClearFromCursorDown erases from the cursor to the end of the screen.
	ClearFromCursorDown
	// ClearFromCursorUp erases from the cursor to the beginning of the screen.
	ClearFromCursorUp
	// ClearCurrentLine erases the line the cursor is on.
	ClearCurrentLine
	// ClearUntilNewLine erases from the cursor to the end of the line.
	ClearUntilNewLine

	maxClearRegion // sentinel; keep last
)

// Valid reports whether r is a member of the clear-region set.
func (r ClearRegion) Valid() bool {
	return r >= ClearAll && r < maxClearRegion
}

var clearRegionNames = map[ClearRegion]string{
	ClearAll:            "ClearAll",
	ClearFromCursorDown: "ClearFromCursorDown",
	ClearFromCursorUp:   "ClearFromCursorUp",
	ClearCurrentLine:    "ClearCurrentLine",
	ClearUntilNewLine:   "ClearUntilNewLine",
}

func (r ClearRegion) String() string {
	if name, ok := clearRegionNames[r]; ok {
		return name
	}
	return "Invalid"
}

// Backend translates abstract terminal operations into OS-level effects.
// The ANSI implementation emits escape sequences to an output sink; the
// Windows console implementation issues equivalent native calls. Both
// must produce observably equivalent results for the same operation.
//
// Cursor coordinates are 0-based at this interface regardless of the
// platform convention; implementations translate as needed. Each output
// operation's bytes reach the sink in a single write so concurrent
// dispatches never interleave within one operation.
type Backend interface {
	// Name identifies the implementation ("ansi" or "console").
	Name() string

	// Cursor operations.
	MoveTo(x, y int) error
	MoveUp(n int) error
	MoveDown(n int) error
	MoveLeft(n int) error
	MoveRight(n int) error
	SavePosition() error
	RestorePosition() error
	ShowCursor(visible bool) error

	// Styling. Values are pre-validated by callers; implementations
	// may assume membership in the closed sets.
	SetForeground(c style.Color) error
	SetBackground(c style.Color) error
	// SetColors applies both colors as one operation so no other
	// command's output can land between the pair.
	SetColors(fg, bg style.Color) error
	SetAttribute(a style.Attribute) error

	// Screen content.
	Clear(region ClearRegion) error
	ScrollUp(n int) error
	ScrollDown(n int) error
	Print(s string) error
	SetTitle(title string) error

	// Mode-sensitive operations. EnableRaw captures the pre-toggle
	// configuration on first use and both toggles are idempotent.
	EnableRaw() error
	DisableRaw() error
	SwitchScreen(buf ScreenBuffer) error
	SetMouseCapture(enabled bool) error
}
