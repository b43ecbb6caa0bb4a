// ABOUTME: Structured input events: keys with modifiers, mouse actions, and terminal resizes.
// ABOUTME: Events form an ordered stream reflecting arrival order; the decoder never reorders them.

package input

import "fmt"

// Event is one decoded input occurrence. The concrete types are
// KeyEvent, MouseEvent, and ResizeEvent.
type Event interface {
	isEvent()
}

// KeyCode enumerates the kinds of key events the decoder can produce.
type KeyCode int

const (
	KeyRune KeyCode = iota // Printable character (see KeyEvent.Rune)
	KeyEnter
	KeyTab
	KeyBackTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyEscape
	KeyNull
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyUnknown // Unrecognized input
)

// Modifiers is a bitmask of modifier keys held during a key event.
type Modifiers int

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
)

// Contains reports whether all modifiers in m are set.
func (mods Modifiers) Contains(m Modifiers) bool {
	return mods&m == m
}

// KeyEvent is a single decoded keypress.
type KeyEvent struct {
	Code      KeyCode
	Rune      rune // valid when Code == KeyRune
	Modifiers Modifiers
}

func (KeyEvent) isEvent() {}

// keyCodeNames provides human-readable labels for each KeyCode.
var keyCodeNames = map[KeyCode]string{
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackTab:   "BackTab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyInsert:    "Insert",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
	KeyEscape:    "Escape",
	KeyNull:      "Null",
	KeyF1:        "F1",
	KeyF2:        "F2",
	KeyF3:        "F3",
	KeyF4:        "F4",
	KeyF5:        "F5",
	KeyF6:        "F6",
	KeyF7:        "F7",
	KeyF8:        "F8",
	KeyF9:        "F9",
	KeyF10:       "F10",
	KeyF11:       "F11",
	KeyF12:       "F12",
	KeyUnknown:   "Unknown",
}

// String returns a human-readable representation for debug display.
func (k KeyEvent) String() string {
	var s string
	if k.Code == KeyRune {
		s = string(k.Rune)
	} else if name, ok := keyCodeNames[k.Code]; ok {
		s = name
	} else {
		s = "Unknown"
	}
	if k.Modifiers.Contains(ModCtrl) {
		s = "Ctrl+" + s
	}
	if k.Modifiers.Contains(ModAlt) {
		s = "Alt+" + s
	}
	if k.Modifiers.Contains(ModShift) && k.Code != KeyRune {
		s = "Shift+" + s
	}
	return s
}

// MouseButton identifies which button a mouse event concerns.
type MouseButton int

const (
	MouseButtonNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseAction identifies what happened to the button.
type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseDrag
)

// MouseEvent is a decoded mouse occurrence at a 0-based cell position.
type MouseEvent struct {
	X, Y      int
	Button    MouseButton
	Action    MouseAction
	Modifiers Modifiers
}

func (MouseEvent) isEvent() {}

func (m MouseEvent) String() string {
	return fmt.Sprintf("mouse button=%d action=%d at (%d,%d)", m.Button, m.Action, m.X, m.Y)
}

// ResizeEvent reports the terminal's new dimensions in cells.
type ResizeEvent struct {
	Cols, Rows int
}

func (ResizeEvent) isEvent() {}

func (r ResizeEvent) String() string {
	return fmt.Sprintf("resize to %dx%d", r.Cols, r.Rows)
}
