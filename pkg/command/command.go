// ABOUTME: Command is an immutable unit of terminal mutation from a closed operation set.
// ABOUTME: Constructors validate arguments up front; encoding happens only at dispatch time.

package command

import (
	"github.com/TimonPost/crossterm/pkg/style"
	"github.com/TimonPost/crossterm/pkg/terminal"
)

// Kind identifies the operation a Command performs.
type Kind int

const (
	KindMoveCursor Kind = iota
	KindMoveUp
	KindMoveDown
	KindMoveLeft
	KindMoveRight
	KindSavePosition
	KindRestorePosition
	KindShowCursor
	KindSetColor
	KindSetAttribute
	KindClear
	KindScrollUp
	KindScrollDown
	KindPrint
	KindSetTitle
	KindToggleRawMode
	KindSwitchScreen
	KindMouseCapture
)

// ExecMode selects when a Command takes effect.
type ExecMode int

const (
	// Immediate dispatches synchronously: the mutation is applied (or
	// flushed to the sink) before Apply returns.
	Immediate ExecMode = iota
	// Queued appends the Command to the executor's buffer; nothing
	// happens until Flush.
	Queued
)

// Command is one requested terminal mutation. Commands are immutable
// once constructed and carry no backend-specific encoding: the same
// value produces different bytes (or native calls) depending on which
// backend dispatches it.
type Command struct {
	kind Kind
	mode ExecMode

	x, y   int
	n      int
	fg, bg style.Color
	attr   style.Attribute
	region terminal.ClearRegion
	screen terminal.ScreenBuffer
	on     bool
	text   string
}

// Kind returns the operation this command performs.
func (c Command) Kind() Kind { return c.kind }

// Mode returns the command's execution mode.
func (c Command) Mode() ExecMode { return c.mode }

// Queued returns a copy of c with the Queued execution mode.
func (c Command) Queued() Command {
	c.mode = Queued
	return c
}

// MoveCursor moves the cursor to 0-based column x, row y.
func MoveCursor(x, y int) (Command, error) {
	if x < 0 {
		return Command{}, &style.ValidationError{Field: "x", Value: x}
	}
	if y < 0 {
		return Command{}, &style.ValidationError{Field: "y", Value: y}
	}
	return Command{kind: KindMoveCursor, x: x, y: y}, nil
}

func relativeMove(kind Kind, n int) (Command, error) {
	if n < 1 {
		return Command{}, &style.ValidationError{Field: "count", Value: n}
	}
	return Command{kind: kind, n: n}, nil
}

// MoveUp moves the cursor n rows up.
func MoveUp(n int) (Command, error) { return relativeMove(KindMoveUp, n) }

// MoveDown moves the cursor n rows down.
func MoveDown(n int) (Command, error) { return relativeMove(KindMoveDown, n) }

// MoveLeft moves the cursor n columns left.
func MoveLeft(n int) (Command, error) { return relativeMove(KindMoveLeft, n) }

// MoveRight moves the cursor n columns right.
func MoveRight(n int) (Command, error) { return relativeMove(KindMoveRight, n) }

// SavePosition records the cursor position for a later RestorePosition.
func SavePosition() Command { return Command{kind: KindSavePosition} }

// RestorePosition returns the cursor to the last saved position.
func RestorePosition() Command { return Command{kind: KindRestorePosition} }

// ShowCursor controls cursor visibility.
func ShowCursor(visible bool) Command {
	return Command{kind: KindShowCursor, on: visible}
}

// SetColor sets the foreground and background colors. Both values must
// be members of the closed color set; violations fail here, producing
// zero backend calls.
func SetColor(fg, bg style.Color) (Command, error) {
	if err := style.ValidateColor(fg); err != nil {
		return Command{}, err
	}
	if err := style.ValidateColor(bg); err != nil {
		return Command{}, err
	}
	return Command{kind: KindSetColor, fg: fg, bg: bg}, nil
}

// SetAttribute applies a text attribute.
func SetAttribute(a style.Attribute) (Command, error) {
	if err := style.ValidateAttribute(a); err != nil {
		return Command{}, err
	}
	return Command{kind: KindSetAttribute, attr: a}, nil
}

// Clear erases the given screen region.
func Clear(region terminal.ClearRegion) (Command, error) {
	if !region.Valid() {
		return Command{}, &style.ValidationError{Field: "region", Value: int(region)}
	}
	return Command{kind: KindClear, region: region}, nil
}

// ScrollUp scrolls the visible contents n lines up.
func ScrollUp(n int) (Command, error) { return relativeMove(KindScrollUp, n) }

// ScrollDown scrolls the visible contents n lines down.
func ScrollDown(n int) (Command, error) { return relativeMove(KindScrollDown, n) }

// Print writes literal text at the cursor position.
func Print(s string) Command { return Command{kind: KindPrint, text: s} }

// SetTitle sets the terminal window title.
func SetTitle(title string) Command { return Command{kind: KindSetTitle, text: title} }

// ToggleRawMode enables or disables raw input mode.
func ToggleRawMode(on bool) Command {
	return Command{kind: KindToggleRawMode, on: on}
}

// SwitchScreen makes buf the visible screen buffer.
func SwitchScreen(buf terminal.ScreenBuffer) (Command, error) {
	if buf != terminal.Primary && buf != terminal.Alternate {
		return Command{}, &style.ValidationError{Field: "screen", Value: int(buf)}
	}
	return Command{kind: KindSwitchScreen, screen: buf}, nil
}

// MouseCapture enables or disables mouse event reporting.
func MouseCapture(on bool) Command {
	return Command{kind: KindMouseCapture, on: on}
}
