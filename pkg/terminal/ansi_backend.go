// ABOUTME: ANSIBackend implements Backend by writing VT escape sequences to an output sink.
// ABOUTME: Raw mode toggling goes through golang.org/x/term so the exact prior state is restored.

package terminal

import (
	"io"
	"sync"

	"golang.org/x/term"

	"github.com/TimonPost/crossterm/internal/ansi"
	"github.com/TimonPost/crossterm/pkg/style"
)

// ANSIBackend drives any ANSI/VT-capable terminal through escape
// sequences written to out. Raw-mode toggling operates on inputFd,
// normally the file descriptor of standard input.
type ANSIBackend struct {
	mu      sync.Mutex
	out     io.Writer
	inputFd int

	// rawState holds the configuration captured before the first raw
	// toggle; nil while cooked. Discarded only on explicit restore.
	rawState *term.State
}

var _ Backend = (*ANSIBackend)(nil)

// NewANSIBackend returns an ANSI backend writing to out. inputFd is the
// descriptor raw-mode toggling applies to; pass -1 when the sink has no
// associated input (raw toggles then fail with BackendUnavailableError).
func NewANSIBackend(out io.Writer, inputFd int) *ANSIBackend {
	return &ANSIBackend{out: out, inputFd: inputFd}
}

// write emits one operation's bytes in a single Write call, serialized
// against other operations on the same backend.
func (b *ANSIBackend) write(op, seq string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := io.WriteString(b.out, seq); err != nil {
		return &BackendUnavailableError{Op: op, Err: err}
	}
	return nil
}

func (b *ANSIBackend) Name() string { return "ansi" }

func (b *ANSIBackend) MoveTo(x, y int) error { return b.write("move-to", ansi.MoveTo(x, y)) }
func (b *ANSIBackend) MoveUp(n int) error    { return b.write("move-up", ansi.MoveUp(n)) }
func (b *ANSIBackend) MoveDown(n int) error  { return b.write("move-down", ansi.MoveDown(n)) }
func (b *ANSIBackend) MoveLeft(n int) error  { return b.write("move-left", ansi.MoveLeft(n)) }
func (b *ANSIBackend) MoveRight(n int) error { return b.write("move-right", ansi.MoveRight(n)) }

func (b *ANSIBackend) SavePosition() error {
	return b.write("save-position", ansi.SavePosition)
}

func (b *ANSIBackend) RestorePosition() error {
	return b.write("restore-position", ansi.RestorePosition)
}

func (b *ANSIBackend) ShowCursor(visible bool) error {
	if visible {
		return b.write("show-cursor", ansi.ShowCursor)
	}
	return b.write("hide-cursor", ansi.HideCursor)
}

func (b *ANSIBackend) SetForeground(c style.Color) error {
	return b.write("set-foreground", ansi.SetForeground(c))
}

func (b *ANSIBackend) SetBackground(c style.Color) error {
	return b.write("set-background", ansi.SetBackground(c))
}

func (b *ANSIBackend) SetColors(fg, bg style.Color) error {
	return b.write("set-colors", ansi.SetColors(fg, bg))
}

func (b *ANSIBackend) SetAttribute(a style.Attribute) error {
	return b.write("set-attribute", ansi.SetAttribute(a))
}

// clearSequences maps each region to its erase sequence.
var clearSequences = map[ClearRegion]string{
	ClearAll:            ansi.ClearAll,
	ClearFromCursorDown: ansi.ClearFromCursorDown,
	ClearFromCursorUp:   ansi.ClearFromCursorUp,
	ClearCurrentLine:    ansi.ClearCurrentLine,
	ClearUntilNewLine:   ansi.ClearUntilNewLine,
}

func (b *ANSIBackend) Clear(region ClearRegion) error {
	return b.write("clear", clearSequences[region])
}

func (b *ANSIBackend) ScrollUp(n int) error   { return b.write("scroll-up", ansi.ScrollUp(n)) }
func (b *ANSIBackend) ScrollDown(n int) error { return b.write("scroll-down", ansi.ScrollDown(n)) }

func (b *ANSIBackend) Print(s string) error { return b.write("print", s) }

func (b *ANSIBackend) SetTitle(title string) error {
	return b.write("set-title", ansi.SetTitle(title))
}

// EnableRaw switches inputFd to raw mode. The first call captures the
// pre-existing configuration; repeated calls are absorbed.
func (b *ANSIBackend) EnableRaw() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rawState != nil {
		return nil
	}
	if b.inputFd < 0 {
		return &BackendUnavailableError{Op: "enable-raw", Err: ErrNotATerminal}
	}
	state, err := term.MakeRaw(b.inputFd)
	if err != nil {
		return &BackendUnavailableError{Op: "enable-raw", Err: err}
	}
	b.rawState = state
	return nil
}

// DisableRaw restores the configuration captured by EnableRaw. Calling
// it while cooked is a no-op.
func (b *ANSIBackend) DisableRaw() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rawState == nil {
		return nil
	}
	if err := term.Restore(b.inputFd, b.rawState); err != nil {
		return &RestoreError{Errs: []error{err}}
	}
	b.rawState = nil
	return nil
}

func (b *ANSIBackend) SwitchScreen(buf ScreenBuffer) error {
	if buf == Alternate {
		return b.write("enter-alternate", ansi.EnterAlternateScreen)
	}
	return b.write("leave-alternate", ansi.LeaveAlternateScreen)
}

func (b *ANSIBackend) SetMouseCapture(enabled bool) error {
	if enabled {
		return b.write("enable-mouse", ansi.EnableMouseCapture)
	}
	return b.write("disable-mouse", ansi.DisableMouseCapture)
}
