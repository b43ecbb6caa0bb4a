// ABOUTME: Native Windows console Backend for legacy consoles without VT processing.
// ABOUTME: Issues kernel32 console calls that mirror each ANSI operation's observable effect.

//go:build windows

package terminal

import (
	"os"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/term"

	"github.com/TimonPost/crossterm/pkg/style"
)

// Console character attribute bits.
const (
	fgBlue      uint16 = 0x0001
	fgGreen     uint16 = 0x0002
	fgRed       uint16 = 0x0004
	fgIntensity uint16 = 0x0008
	bgShift            = 4
	fgMask      uint16 = 0x000f
	bgMask      uint16 = 0x00f0
)

// Console input mode flags enabling mouse and window events.
const mouseModeFlags = 0x0010 | 0x0080 | 0x0008 // MOUSE_INPUT | EXTENDED_FLAGS | WINDOW_INPUT

// kernel32 procedures not wrapped by x/sys/windows.
var (
	kernel32                       = windows.NewLazySystemDLL("kernel32.dll")
	procSetConsoleCursorPosition   = kernel32.NewProc("SetConsoleCursorPosition")
	procSetConsoleTextAttribute    = kernel32.NewProc("SetConsoleTextAttribute")
	procFillConsoleOutputCharW     = kernel32.NewProc("FillConsoleOutputCharacterW")
	procFillConsoleOutputAttr      = kernel32.NewProc("FillConsoleOutputAttribute")
	procGetConsoleCursorInfo       = kernel32.NewProc("GetConsoleCursorInfo")
	procSetConsoleCursorInfo       = kernel32.NewProc("SetConsoleCursorInfo")
	procCreateConsoleScreenBuffer  = kernel32.NewProc("CreateConsoleScreenBuffer")
	procSetConsoleActiveBuffer     = kernel32.NewProc("SetConsoleActiveScreenBuffer")
	procSetConsoleWindowInfo       = kernel32.NewProc("SetConsoleWindowInfo")
	procSetConsoleScreenBufferSize = kernel32.NewProc("SetConsoleScreenBufferSize")
	procSetConsoleTitleW           = kernel32.NewProc("SetConsoleTitleW")
)

type consoleCursorInfo struct {
	size    uint32
	visible int32
}

// consoleBackend drives a legacy Windows console through native calls.
type consoleBackend struct {
	mu  sync.Mutex
	out *os.File
	in  *os.File

	// originalAttrs are the character attributes at construction time;
	// ColorReset and AttrReset return to them.
	originalAttrs uint16
	currentAttrs  uint16

	savedPos *windows.Coord

	// altBuffer is the screen buffer handle while the alternate screen
	// is active, 0 otherwise.
	altBuffer windows.Handle

	rawState *term.State

	// savedInputMode holds the input console mode captured before
	// mouse capture was first enabled.
	savedInputMode *uint32
}

var _ Backend = (*consoleBackend)(nil)

// newConsoleBackend captures the console's current attributes so that
// resets restore what the user had, not a hardcoded default.
func newConsoleBackend(out, in *os.File) (*consoleBackend, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(out.Fd()), &info); err != nil {
		return nil, &BackendUnavailableError{Op: "console-init", Err: err}
	}
	return &consoleBackend{
		out:           out,
		in:            in,
		originalAttrs: info.Attributes,
		currentAttrs:  info.Attributes,
	}, nil
}

func (b *consoleBackend) Name() string { return "console" }

// handle returns the buffer all output operations target: the
// alternate buffer while active, the original console otherwise.
// Must be called with b.mu held.
func (b *consoleBackend) handle() windows.Handle {
	if b.altBuffer != 0 {
		return b.altBuffer
	}
	return windows.Handle(b.out.Fd())
}

func (b *consoleBackend) bufferInfo() (windows.ConsoleScreenBufferInfo, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(b.handle(), &info); err != nil {
		return info, &BackendUnavailableError{Op: "buffer-info", Err: err}
	}
	return info, nil
}

func (b *consoleBackend) setCursor(pos windows.Coord) error {
	packed := uintptr(uint32(uint16(pos.X)) | uint32(uint16(pos.Y))<<16)
	r, _, err := procSetConsoleCursorPosition.Call(uintptr(b.handle()), packed)
	if r == 0 {
		return &BackendUnavailableError{Op: "set-cursor", Err: err}
	}
	return nil
}

// MoveTo positions the cursor; the console API is 0-based like our
// interface, so coordinates pass through untranslated.
func (b *consoleBackend) MoveTo(x, y int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.setCursor(windows.Coord{X: int16(x), Y: int16(y)})
}

// moveBy shifts the cursor relative to its current position.
func (b *consoleBackend) moveBy(dx, dy int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := b.bufferInfo()
	if err != nil {
		return err
	}
	pos := info.CursorPosition
	pos.X += int16(dx)
	pos.Y += int16(dy)
	if pos.X < 0 {
		pos.X = 0
	}
	if pos.Y < 0 {
		pos.Y = 0
	}
	return b.setCursor(pos)
}

func (b *consoleBackend) MoveUp(n int) error    { return b.moveBy(0, -n) }
func (b *consoleBackend) MoveDown(n int) error  { return b.moveBy(0, n) }
func (b *consoleBackend) MoveLeft(n int) error  { return b.moveBy(-n, 0) }
func (b *consoleBackend) MoveRight(n int) error { return b.moveBy(n, 0) }

func (b *consoleBackend) SavePosition() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := b.bufferInfo()
	if err != nil {
		return err
	}
	pos := info.CursorPosition
	b.savedPos = &pos
	return nil
}

func (b *consoleBackend) RestorePosition() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.savedPos == nil {
		return nil
	}
	return b.setCursor(*b.savedPos)
}

func (b *consoleBackend) ShowCursor(visible bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var info consoleCursorInfo
	r, _, err := procGetConsoleCursorInfo.Call(uintptr(b.handle()), uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return &BackendUnavailableError{Op: "cursor-info", Err: err}
	}
	if visible {
		info.visible = 1
	} else {
		info.visible = 0
	}
	r, _, err = procSetConsoleCursorInfo.Call(uintptr(b.handle()), uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return &BackendUnavailableError{Op: "show-cursor", Err: err}
	}
	return nil
}

// fgBits maps each style.Color to console foreground attribute bits.
var fgBits = map[style.Color]uint16{
	style.ColorBlack:       0,
	style.ColorDarkGrey:    fgIntensity,
	style.ColorRed:         fgRed | fgIntensity,
	style.ColorDarkRed:     fgRed,
	style.ColorGreen:       fgGreen | fgIntensity,
	style.ColorDarkGreen:   fgGreen,
	style.ColorYellow:      fgRed | fgGreen | fgIntensity,
	style.ColorDarkYellow:  fgRed | fgGreen,
	style.ColorBlue:        fgBlue | fgIntensity,
	style.ColorDarkBlue:    fgBlue,
	style.ColorMagenta:     fgRed | fgBlue | fgIntensity,
	style.ColorDarkMagenta: fgRed | fgBlue,
	style.ColorCyan:        fgGreen | fgBlue | fgIntensity,
	style.ColorDarkCyan:    fgGreen | fgBlue,
	style.ColorWhite:       fgRed | fgGreen | fgBlue | fgIntensity,
	style.ColorGrey:        fgRed | fgGreen | fgBlue,
}

func (b *consoleBackend) applyAttrs() error {
	r, _, err := procSetConsoleTextAttribute.Call(uintptr(b.handle()), uintptr(b.currentAttrs))
	if r == 0 {
		return &BackendUnavailableError{Op: "set-attributes", Err: err}
	}
	return nil
}

// mergeForeground and mergeBackground fold a color into currentAttrs.
// Must be called with b.mu held.
func (b *consoleBackend) mergeForeground(c style.Color) {
	if c == style.ColorReset {
		b.currentAttrs = (b.currentAttrs &^ fgMask) | (b.originalAttrs & fgMask)
	} else {
		b.currentAttrs = (b.currentAttrs &^ fgMask) | fgBits[c]
	}
}

func (b *consoleBackend) mergeBackground(c style.Color) {
	if c == style.ColorReset {
		b.currentAttrs = (b.currentAttrs &^ bgMask) | (b.originalAttrs & bgMask)
	} else {
		b.currentAttrs = (b.currentAttrs &^ bgMask) | fgBits[c]<<bgShift
	}
}

func (b *consoleBackend) SetForeground(c style.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mergeForeground(c)
	return b.applyAttrs()
}

func (b *consoleBackend) SetBackground(c style.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mergeBackground(c)
	return b.applyAttrs()
}

// SetColors updates both color nibbles under one lock acquisition and
// pushes them with a single SetConsoleTextAttribute call, so no other
// operation can observe a half-applied pair.
func (b *consoleBackend) SetColors(fg, bg style.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mergeForeground(fg)
	b.mergeBackground(bg)
	return b.applyAttrs()
}

// SetAttribute approximates SGR attributes with the console's limited
// attribute set: bold maps to intensity, reverse swaps the nibbles,
// reset restores the construction-time attributes. Attributes with no
// console equivalent are absorbed, matching the original driver.
func (b *consoleBackend) SetAttribute(a style.Attribute) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch a {
	case style.AttrReset:
		b.currentAttrs = b.originalAttrs
	case style.AttrBold:
		b.currentAttrs |= fgIntensity
	case style.AttrDim:
		b.currentAttrs &^= fgIntensity
	case style.AttrReverse:
		fg := b.currentAttrs & fgMask
		bg := (b.currentAttrs & bgMask) >> bgShift
		b.currentAttrs = (b.currentAttrs &^ (fgMask | bgMask)) | bg | fg<<bgShift
	default:
		return nil
	}
	return b.applyAttrs()
}

// fill writes count cells of spaces with current attributes at from.
func (b *consoleBackend) fill(from windows.Coord, count uint32) error {
	var written uint32
	coord := uintptr(uint32(uint16(from.X)) | uint32(uint16(from.Y))<<16)

	r, _, err := procFillConsoleOutputCharW.Call(
		uintptr(b.handle()), uintptr(' '), uintptr(count), coord,
		uintptr(unsafe.Pointer(&written)))
	if r == 0 {
		return &BackendUnavailableError{Op: "clear", Err: err}
	}
	r, _, err = procFillConsoleOutputAttr.Call(
		uintptr(b.handle()), uintptr(b.currentAttrs), uintptr(count), coord,
		uintptr(unsafe.Pointer(&written)))
	if r == 0 {
		return &BackendUnavailableError{Op: "clear", Err: err}
	}
	return nil
}

func (b *consoleBackend) Clear(region ClearRegion) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := b.bufferInfo()
	if err != nil {
		return err
	}
	width := uint32(uint16(info.Size.X))
	height := uint32(uint16(info.Size.Y))
	cur := info.CursorPosition

	switch region {
	case ClearAll:
		if err := b.fill(windows.Coord{}, width*height); err != nil {
			return err
		}
		return b.setCursor(windows.Coord{})
	case ClearFromCursorDown:
		remaining := (height-uint32(uint16(cur.Y)))*width - uint32(uint16(cur.X))
		return b.fill(cur, remaining)
	case ClearFromCursorUp:
		return b.fill(windows.Coord{}, uint32(uint16(cur.Y))*width+uint32(uint16(cur.X))+1)
	case ClearCurrentLine:
		return b.fill(windows.Coord{X: 0, Y: cur.Y}, width)
	case ClearUntilNewLine:
		return b.fill(cur, width-uint32(uint16(cur.X)))
	}
	return nil
}

// scrollBy moves the console window viewport vertically.
func (b *consoleBackend) scrollBy(dy int16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	info, err := b.bufferInfo()
	if err != nil {
		return err
	}
	window := info.Window
	window.Top += dy
	window.Bottom += dy
	if window.Top < 0 {
		return nil
	}
	// bAbsolute=1: window holds absolute coordinates, not deltas.
	r, _, callErr := procSetConsoleWindowInfo.Call(
		uintptr(b.handle()), uintptr(1), uintptr(unsafe.Pointer(&window)))
	if r == 0 {
		return &BackendUnavailableError{Op: "scroll", Err: callErr}
	}
	return nil
}

func (b *consoleBackend) ScrollUp(n int) error   { return b.scrollBy(int16(-n)) }
func (b *consoleBackend) ScrollDown(n int) error { return b.scrollBy(int16(n)) }

func (b *consoleBackend) Print(s string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := windows.UTF16FromString(s)
	if err != nil {
		return &BackendUnavailableError{Op: "print", Err: err}
	}
	// Trim the NUL terminator added by UTF16FromString.
	buf = buf[:len(buf)-1]
	if len(buf) == 0 {
		return nil
	}
	var written uint32
	if err := windows.WriteConsole(b.handle(), &buf[0], uint32(len(buf)), &written, nil); err != nil {
		return &BackendUnavailableError{Op: "print", Err: err}
	}
	return nil
}

func (b *consoleBackend) SetTitle(title string) error {
	p, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return &BackendUnavailableError{Op: "set-title", Err: err}
	}
	r, _, callErr := procSetConsoleTitleW.Call(uintptr(unsafe.Pointer(p)))
	if r == 0 {
		return &BackendUnavailableError{Op: "set-title", Err: callErr}
	}
	return nil
}

// EnableRaw switches the console input to raw mode, capturing the
// pre-toggle configuration the first time. Idempotent.
func (b *consoleBackend) EnableRaw() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rawState != nil {
		return nil
	}
	state, err := term.MakeRaw(int(b.in.Fd()))
	if err != nil {
		return &BackendUnavailableError{Op: "enable-raw", Err: err}
	}
	b.rawState = state
	return nil
}

func (b *consoleBackend) DisableRaw() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rawState == nil {
		return nil
	}
	if err := term.Restore(int(b.in.Fd()), b.rawState); err != nil {
		return &RestoreError{Errs: []error{err}}
	}
	b.rawState = nil
	return nil
}

// SwitchScreen activates a fresh console screen buffer for Alternate
// and reactivates the original buffer (closing the alternate) for
// Primary, preserving the primary buffer's contents across the trip.
func (b *consoleBackend) SwitchScreen(buf ScreenBuffer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if buf == Alternate {
		if b.altBuffer != 0 {
			return nil
		}
		const consoleTextmodeBuffer = 1
		r, _, err := procCreateConsoleScreenBuffer.Call(
			uintptr(windows.GENERIC_READ|windows.GENERIC_WRITE),
			uintptr(windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE),
			0, consoleTextmodeBuffer, 0)
		h := windows.Handle(r)
		if h == windows.InvalidHandle {
			return &BackendUnavailableError{Op: "enter-alternate", Err: err}
		}
		if r, _, err := procSetConsoleActiveBuffer.Call(uintptr(h)); r == 0 {
			windows.CloseHandle(h)
			return &BackendUnavailableError{Op: "enter-alternate", Err: err}
		}
		b.altBuffer = h
		return nil
	}

	if b.altBuffer == 0 {
		return nil
	}
	if r, _, err := procSetConsoleActiveBuffer.Call(uintptr(b.out.Fd())); r == 0 {
		return &BackendUnavailableError{Op: "leave-alternate", Err: err}
	}
	windows.CloseHandle(b.altBuffer)
	b.altBuffer = 0
	return nil
}

// SetMouseCapture toggles mouse and window input reporting on the
// console input handle, restoring the captured mode on disable.
func (b *consoleBackend) SetMouseCapture(enabled bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	in := windows.Handle(b.in.Fd())
	if enabled {
		var mode uint32
		if err := windows.GetConsoleMode(in, &mode); err != nil {
			return &BackendUnavailableError{Op: "enable-mouse", Err: err}
		}
		if b.savedInputMode == nil {
			saved := mode
			b.savedInputMode = &saved
		}
		if err := windows.SetConsoleMode(in, mouseModeFlags); err != nil {
			return &BackendUnavailableError{Op: "enable-mouse", Err: err}
		}
		return nil
	}

	if b.savedInputMode == nil {
		return nil
	}
	if err := windows.SetConsoleMode(in, *b.savedInputMode); err != nil {
		return &BackendUnavailableError{Op: "disable-mouse", Err: err}
	}
	b.savedInputMode = nil
	return nil
}
