// ABOUTME: Windows default input source: reads structured console input records via coninput.
// ABOUTME: Keys, mouse, and buffer-size records map directly to events; no byte decoding needed.

//go:build windows

package input

import (
	"fmt"

	"github.com/erikgeiser/coninput"
	"golang.org/x/sys/windows"
)

// newPlatformReader reads from the console input buffer. Records are
// already structured, so the escape parser is bypassed entirely.
func newPlatformReader(cfg config) (*Reader, error) {
	conin, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return nil, fmt.Errorf("get console input handle: %w", err)
	}

	// Manual-reset event used to interrupt a pending wait on the
	// console handle, mirroring how a byte reader is cancelled.
	cancelEvent, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("create cancel event: %w", err)
	}

	r := &Reader{
		events:     make(chan Event, 64),
		inject:     make(chan Event, 8),
		stop:       make(chan struct{}),
		escTimeout: cfg.escTimeout,
		cancelFn: func() bool {
			return windows.SetEvent(cancelEvent) == nil
		},
	}

	cs := &consoleSource{
		reader:       r,
		conin:        conin,
		cancelEvent:  cancelEvent,
		resizeEvents: cfg.resizeEvents,
	}
	go cs.run()
	return r, nil
}

type consoleSource struct {
	reader       *Reader
	conin        windows.Handle
	cancelEvent  windows.Handle
	resizeEvents bool

	// lastButtons tracks the previous mouse button state so press and
	// release transitions can be derived from absolute state reports.
	lastButtons coninput.ButtonState
}

func (cs *consoleSource) run() {
	r := cs.reader
	defer close(r.events)
	defer windows.CloseHandle(cs.cancelEvent)

	handles := []windows.Handle{cs.cancelEvent, cs.conin}
	for {
		which, err := windows.WaitForMultipleObjects(handles, false, windows.INFINITE)
		if err != nil {
			r.err = fmt.Errorf("wait for console input: %w", err)
			return
		}
		if which == windows.WAIT_OBJECT_0 {
			r.err = ErrCancelled
			return
		}

		records, err := coninput.ReadNConsoleInputs(cs.conin, 16)
		if err != nil {
			r.err = fmt.Errorf("read console input: %w", err)
			return
		}
		for _, rec := range records {
			for _, ev := range cs.translate(rec) {
				select {
				case r.events <- ev:
				case <-r.stop:
					r.err = ErrCancelled
					return
				}
			}
		}

		if !cs.drainInjected() {
			return
		}
	}
}

// drainInjected forwards any injected events without blocking on the
// inject channel. Returns false when the reader was cancelled.
func (cs *consoleSource) drainInjected() bool {
	r := cs.reader
	for {
		select {
		case ev := <-r.inject:
			select {
			case r.events <- ev:
			case <-r.stop:
				r.err = ErrCancelled
				return false
			}
		default:
			return true
		}
	}
}

// translate maps one console record to zero or more events.
func (cs *consoleSource) translate(rec coninput.InputRecord) []Event {
	switch e := rec.Unwrap().(type) {
	case coninput.KeyEventRecord:
		if !e.KeyDown {
			return nil
		}
		ev, ok := keyFromRecord(e)
		if !ok {
			return nil
		}
		out := make([]Event, 0, e.RepeatCount)
		for i := uint16(0); i < e.RepeatCount; i++ {
			out = append(out, ev)
		}
		return out
	case coninput.MouseEventRecord:
		ev, ok := cs.mouseFromRecord(e)
		if !ok {
			return nil
		}
		return []Event{ev}
	case coninput.WindowBufferSizeEventRecord:
		if !cs.resizeEvents {
			return nil
		}
		return []Event{ResizeEvent{
			Cols: int(e.Size.X),
			Rows: int(e.Size.Y),
		}}
	default:
		return nil
	}
}

var vkCodes = map[coninput.VirtualKeyCode]KeyCode{
	coninput.VK_RETURN: KeyEnter,
	coninput.VK_TAB:    KeyTab,
	coninput.VK_BACK:   KeyBackspace,
	coninput.VK_ESCAPE: KeyEscape,
	coninput.VK_UP:     KeyUp,
	coninput.VK_DOWN:   KeyDown,
	coninput.VK_LEFT:   KeyLeft,
	coninput.VK_RIGHT:  KeyRight,
	coninput.VK_HOME:   KeyHome,
	coninput.VK_END:    KeyEnd,
	coninput.VK_PRIOR:  KeyPageUp,
	coninput.VK_NEXT:   KeyPageDown,
	coninput.VK_INSERT: KeyInsert,
	coninput.VK_DELETE: KeyDelete,
	coninput.VK_F1:     KeyF1,
	coninput.VK_F2:     KeyF2,
	coninput.VK_F3:     KeyF3,
	coninput.VK_F4:     KeyF4,
	coninput.VK_F5:     KeyF5,
	coninput.VK_F6:     KeyF6,
	coninput.VK_F7:     KeyF7,
	coninput.VK_F8:     KeyF8,
	coninput.VK_F9:     KeyF9,
	coninput.VK_F10:    KeyF10,
	coninput.VK_F11:    KeyF11,
	coninput.VK_F12:    KeyF12,
}

func keyFromRecord(e coninput.KeyEventRecord) (KeyEvent, bool) {
	mods := modifiersFromControlState(e.ControlKeyState)

	if code, ok := vkCodes[e.VirtualKeyCode]; ok {
		if code == KeyTab && mods.Contains(ModShift) {
			return KeyEvent{Code: KeyBackTab, Modifiers: mods &^ ModShift}, true
		}
		return KeyEvent{Code: code, Modifiers: mods}, true
	}

	ch := e.Char
	if ch == 0 {
		// Modifier-only or dead keypress.
		return KeyEvent{}, false
	}
	if mods.Contains(ModCtrl) && ch < 0x20 {
		// The console pre-translates Ctrl+letter to a control byte;
		// report the letter with the modifier instead.
		ch = rune('a' + ch - 1)
	}
	return KeyEvent{Code: KeyRune, Rune: ch, Modifiers: mods}, true
}

func modifiersFromControlState(state coninput.ControlKeyState) Modifiers {
	var mods Modifiers
	if state.Contains(coninput.SHIFT_PRESSED) {
		mods |= ModShift
	}
	if state.Contains(coninput.LEFT_ALT_PRESSED) || state.Contains(coninput.RIGHT_ALT_PRESSED) {
		mods |= ModAlt
	}
	if state.Contains(coninput.LEFT_CTRL_PRESSED) || state.Contains(coninput.RIGHT_CTRL_PRESSED) {
		mods |= ModCtrl
	}
	return mods
}

// mouseFromRecord derives a transition event from the console's
// absolute button-state report.
func (cs *consoleSource) mouseFromRecord(e coninput.MouseEventRecord) (MouseEvent, bool) {
	ev := MouseEvent{
		X:         int(e.MousePositon.X),
		Y:         int(e.MousePositon.Y),
		Modifiers: modifiersFromControlState(e.ControlKeyState),
	}

	switch {
	case e.EventFlags.Contains(coninput.MOUSE_WHEELED):
		// High word of the button state carries the signed wheel delta.
		if int16(uint32(e.ButtonState)>>16) > 0 {
			ev.Button = MouseWheelUp
		} else {
			ev.Button = MouseWheelDown
		}
		ev.Action = MousePress
		return ev, true
	case e.EventFlags.Contains(coninput.MOUSE_MOVED):
		btn, held := buttonFromState(cs.lastButtons)
		if !held {
			return MouseEvent{}, false
		}
		ev.Button = btn
		ev.Action = MouseDrag
		return ev, true
	default:
		pressed := e.ButtonState &^ cs.lastButtons
		released := cs.lastButtons &^ e.ButtonState
		cs.lastButtons = e.ButtonState
		if btn, ok := buttonFromState(pressed); ok {
			ev.Button = btn
			ev.Action = MousePress
			return ev, true
		}
		if btn, ok := buttonFromState(released); ok {
			ev.Button = btn
			ev.Action = MouseRelease
			return ev, true
		}
		return MouseEvent{}, false
	}
}

func buttonFromState(state coninput.ButtonState) (MouseButton, bool) {
	switch {
	case state&coninput.FROM_LEFT_1ST_BUTTON_PRESSED != 0:
		return MouseLeft, true
	case state&coninput.RIGHTMOST_BUTTON_PRESSED != 0:
		return MouseRight, true
	case state&coninput.FROM_LEFT_2ND_BUTTON_PRESSED != 0:
		return MouseMiddle, true
	default:
		return MouseButtonNone, false
	}
}
