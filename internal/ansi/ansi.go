// ABOUTME: Builders for the ANSI/VT escape sequences used by the ANSI backend.
// ABOUTME: All cursor coordinates are 0-based here; CSI's 1-based convention is applied internally.

package ansi

import (
	"strconv"

	"github.com/TimonPost/crossterm/pkg/style"
)

// CSI is the control sequence introducer shared by most sequences below.
const CSI = "\x1b["

// Cursor movement.

// MoveTo positions the cursor at 0-based column x, row y.
func MoveTo(x, y int) string {
	return CSI + strconv.Itoa(y+1) + ";" + strconv.Itoa(x+1) + "H"
}

func MoveUp(n int) string    { return CSI + strconv.Itoa(n) + "A" }
func MoveDown(n int) string  { return CSI + strconv.Itoa(n) + "B" }
func MoveRight(n int) string { return CSI + strconv.Itoa(n) + "C" }
func MoveLeft(n int) string  { return CSI + strconv.Itoa(n) + "D" }

// SavePosition and RestorePosition use the SCO sequences, which xterm
// and friends accept alongside DECSC/DECRC.
const (
	SavePosition    = CSI + "s"
	RestorePosition = CSI + "u"
)

// Cursor visibility (DECTCEM).
const (
	ShowCursor = CSI + "?25h"
	HideCursor = CSI + "?25l"
)

// Screen buffer switching (xterm 1049: save cursor + switch + clear).
const (
	EnterAlternateScreen = CSI + "?1049h"
	LeaveAlternateScreen = CSI + "?1049l"
)

// Clearing.
const (
	ClearAll            = CSI + "2J"
	ClearFromCursorDown = CSI + "J"
	ClearFromCursorUp   = CSI + "1J"
	ClearCurrentLine    = CSI + "2K"
	ClearUntilNewLine   = CSI + "K"
)

// Scrolling.

func ScrollUp(n int) string   { return CSI + strconv.Itoa(n) + "S" }
func ScrollDown(n int) string { return CSI + strconv.Itoa(n) + "T" }

// Mouse capture: normal tracking, button-event tracking, and the urxvt
// and SGR extended coordinate modes together, mirroring what terminal
// emulators actually honor.
const (
	EnableMouseCapture  = CSI + "?1000h" + CSI + "?1002h" + CSI + "?1015h" + CSI + "?1006h"
	DisableMouseCapture = CSI + "?1006l" + CSI + "?1015l" + CSI + "?1002l" + CSI + "?1000l"
)

// RequestCursorPosition asks the terminal to report the cursor
// position (DSR 6). The reply arrives on input as ESC[row;colR.
const RequestCursorPosition = CSI + "6n"

// SetSize asks the emulator to resize its window to the given cell
// dimensions (XTWINOPS 8).
func SetSize(cols, rows int) string {
	return CSI + "8;" + strconv.Itoa(rows) + ";" + strconv.Itoa(cols) + "t"
}

// SetTitle sets the terminal window title via OSC 0.
func SetTitle(title string) string {
	return "\x1b]0;" + title + "\x07"
}

// fgCodes maps each style.Color to its SGR foreground parameter.
// Background parameters are foreground + 10.
var fgCodes = map[style.Color]int{
	style.ColorReset:       39,
	style.ColorBlack:       30,
	style.ColorDarkGrey:    90,
	style.ColorRed:         91,
	style.ColorDarkRed:     31,
	style.ColorGreen:       92,
	style.ColorDarkGreen:   32,
	style.ColorYellow:      93,
	style.ColorDarkYellow:  33,
	style.ColorBlue:        94,
	style.ColorDarkBlue:    34,
	style.ColorMagenta:     95,
	style.ColorDarkMagenta: 35,
	style.ColorCyan:        96,
	style.ColorDarkCyan:    36,
	style.ColorWhite:       97,
	style.ColorGrey:        37,
}

// attrCodes maps each style.Attribute to its SGR parameter.
var attrCodes = map[style.Attribute]int{
	style.AttrReset:      0,
	style.AttrBold:       1,
	style.AttrDim:        2,
	style.AttrItalic:     3,
	style.AttrUnderlined: 4,
	style.AttrReverse:    7,
	style.AttrHidden:     8,
	style.AttrCrossedOut: 9,
}

// SetForeground encodes an SGR foreground color.
// The color must already be validated by the caller.
func SetForeground(c style.Color) string {
	return CSI + strconv.Itoa(fgCodes[c]) + "m"
}

// SetBackground encodes an SGR background color.
func SetBackground(c style.Color) string {
	return CSI + strconv.Itoa(fgCodes[c]+10) + "m"
}

// SetColors encodes both colors as one SGR sequence so the pair
// reaches the terminal in a single write.
func SetColors(fg, bg style.Color) string {
	return CSI + strconv.Itoa(fgCodes[fg]) + ";" + strconv.Itoa(fgCodes[bg]+10) + "m"
}

// SetAttribute encodes an SGR attribute.
func SetAttribute(a style.Attribute) string {
	return CSI + strconv.Itoa(attrCodes[a]) + "m"
}
