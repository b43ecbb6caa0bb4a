// ABOUTME: Incremental escape-sequence parser turning raw terminal bytes into events.
// ABOUTME: Recognizes CSI/SS3 keys, SGR and X10 mouse encodings, and resolves the lone-ESC ambiguity.

package input

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	escByte = 0x1b

	// maxEscSequence bounds how many bytes an escape sequence may span
	// before the parser gives up and reinterprets the ESC as a literal
	// keypress. Well-formed sequences are far shorter.
	maxEscSequence = 32
)

// tryParse attempts to decode one event from the front of buf.
// It returns the number of bytes consumed, the decoded event, and
// whether more bytes are needed to disambiguate. When noMore is true
// (stream ended or the inactivity timeout fired) ambiguous prefixes
// resolve immediately: a leading ESC becomes a literal Escape keypress
// and the remaining bytes re-parse as separate events.
func tryParse(buf []byte, noMore bool) (int, Event, bool) {
	if len(buf) == 0 {
		return 0, nil, false
	}
	if buf[0] != escByte {
		return parsePlain(buf, noMore)
	}

	// A lone ESC is indistinguishable from the start of a sequence by
	// prefix alone; only more bytes or the timeout can resolve it.
	if len(buf) == 1 {
		if noMore {
			return 1, KeyEvent{Code: KeyEscape}, false
		}
		return 0, nil, true
	}

	switch buf[1] {
	case '[':
		return parseCSI(buf, noMore)
	case 'O':
		return parseSS3(buf, noMore)
	default:
		if buf[1] >= 0x20 && buf[1] <= 0x7e {
			return 2, KeyEvent{Code: KeyRune, Rune: rune(buf[1]), Modifiers: ModAlt}, false
		}
		// ESC followed by a control byte: emit the Escape and let the
		// control byte re-parse on its own.
		return 1, KeyEvent{Code: KeyEscape}, false
	}
}

// parsePlain decodes input that does not start with ESC: control
// bytes, then UTF-8 runes.
func parsePlain(buf []byte, noMore bool) (int, Event, bool) {
	b := buf[0]
	switch {
	case b == '\r' || b == '\n':
		return 1, KeyEvent{Code: KeyEnter}, false
	case b == '\t':
		return 1, KeyEvent{Code: KeyTab}, false
	case b == 0x7f || b == 0x08:
		return 1, KeyEvent{Code: KeyBackspace}, false
	case b == 0x00:
		return 1, KeyEvent{Code: KeyNull}, false
	case b >= 0x01 && b <= 0x1a:
		// Ctrl+letter arrives as the letter's ordinal.
		return 1, KeyEvent{Code: KeyRune, Rune: rune('a' + b - 1), Modifiers: ModCtrl}, false
	case b < 0x20:
		return 1, KeyEvent{Code: KeyUnknown}, false
	}

	if !utf8.FullRune(buf) {
		if len(buf) < utf8.UTFMax && !noMore {
			return 0, nil, true
		}
		return 1, KeyEvent{Code: KeyUnknown}, false
	}
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size == 1 {
		return 1, KeyEvent{Code: KeyUnknown}, false
	}
	return size, KeyEvent{Code: KeyRune, Rune: r}, false
}

// parseSS3 decodes ESC O <byte> sequences sent by terminals in
// application mode.
func parseSS3(buf []byte, noMore bool) (int, Event, bool) {
	if len(buf) < 3 {
		if noMore {
			return 1, KeyEvent{Code: KeyEscape}, false
		}
		return 0, nil, true
	}
	if code, ok := ss3KeyCodes[buf[2]]; ok {
		return 3, KeyEvent{Code: code}, false
	}
	return 1, KeyEvent{Code: KeyEscape}, false
}

var ss3KeyCodes = map[byte]KeyCode{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

// parseCSI decodes ESC [ ... sequences: parameterized keys, BackTab,
// and both mouse encodings.
func parseCSI(buf []byte, noMore bool) (int, Event, bool) {
	// X10 mouse: ESC [ M cb cx cy, six fixed bytes with the payload
	// outside the normal CSI byte ranges.
	if len(buf) >= 3 && buf[2] == 'M' {
		if len(buf) < 6 {
			if noMore {
				return 1, KeyEvent{Code: KeyEscape}, false
			}
			return 0, nil, true
		}
		return 6, parseX10Mouse(buf[3], buf[4], buf[5]), false
	}

	for i := 2; i < len(buf); i++ {
		if i > maxEscSequence {
			return 1, KeyEvent{Code: KeyEscape}, false
		}
		b := buf[i]
		if b >= 0x40 && b <= 0x7e {
			return i + 1, decodeCSI(buf[:i+1]), false
		}
		// Parameter (0x30-0x3f) and intermediate (0x20-0x2f) bytes may
		// continue the sequence; anything else is malformed.
		if b < 0x20 || b > 0x3f {
			return 1, KeyEvent{Code: KeyEscape}, false
		}
	}

	if noMore || len(buf) > maxEscSequence {
		return 1, KeyEvent{Code: KeyEscape}, false
	}
	return 0, nil, true
}

var csiLetterKeyCodes = map[byte]KeyCode{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}

var csiTildeKeyCodes = map[int]KeyCode{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// decodeCSI interprets a complete CSI sequence (ESC [ ... final).
func decodeCSI(seq []byte) Event {
	final := seq[len(seq)-1]
	body := string(seq[2 : len(seq)-1])

	if strings.HasPrefix(body, "<") && (final == 'M' || final == 'm') {
		return decodeSGRMouse(body[1:], final)
	}

	params := strings.Split(body, ";")
	switch final {
	case 'A', 'B', 'C', 'D', 'H', 'F':
		var mods Modifiers
		if len(params) >= 2 {
			mods = decodeModifiers(params[1])
		}
		return KeyEvent{Code: csiLetterKeyCodes[final], Modifiers: mods}
	case '~':
		n, err := strconv.Atoi(params[0])
		if err != nil {
			return KeyEvent{Code: KeyUnknown}
		}
		code, ok := csiTildeKeyCodes[n]
		if !ok {
			return KeyEvent{Code: KeyUnknown}
		}
		var mods Modifiers
		if len(params) >= 2 {
			mods = decodeModifiers(params[1])
		}
		return KeyEvent{Code: code, Modifiers: mods}
	case 'Z':
		return KeyEvent{Code: KeyBackTab, Modifiers: ModShift}
	}
	return KeyEvent{Code: KeyUnknown}
}

// decodeModifiers translates the xterm modifier parameter: the wire
// value is the bitmask plus one (shift=1, alt=2, ctrl=4).
func decodeModifiers(param string) Modifiers {
	n, err := strconv.Atoi(param)
	if err != nil || n < 2 {
		return 0
	}
	bits := n - 1
	var mods Modifiers
	if bits&1 != 0 {
		mods |= ModShift
	}
	if bits&2 != 0 {
		mods |= ModAlt
	}
	if bits&4 != 0 {
		mods |= ModCtrl
	}
	return mods
}

// decodeSGRMouse interprets the SGR encoding ESC [ < cb;cx;cy (M|m):
// coordinates are 1-based, final 'm' marks a button release.
func decodeSGRMouse(body string, final byte) Event {
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return KeyEvent{Code: KeyUnknown}
	}
	cb, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return KeyEvent{Code: KeyUnknown}
	}

	ev := mouseFromButtonBits(cb)
	ev.X = x - 1
	ev.Y = y - 1
	if final == 'm' {
		ev.Action = MouseRelease
	}
	return ev
}

// parseX10Mouse interprets the legacy encoding: each payload byte is
// the value plus 32, coordinates additionally 1-based.
func parseX10Mouse(cb, cx, cy byte) Event {
	ev := mouseFromButtonBits(int(cb) - 32)
	ev.X = int(cx) - 33
	ev.Y = int(cy) - 33
	// X10 signals release with the button bits set to 3.
	if (int(cb)-32)&3 == 3 && ev.Button == MouseButtonNone {
		ev.Action = MouseRelease
	}
	return ev
}

// mouseFromButtonBits decodes the shared button/modifier bit layout of
// both mouse encodings.
func mouseFromButtonBits(cb int) MouseEvent {
	ev := MouseEvent{Action: MousePress}

	if cb&4 != 0 {
		ev.Modifiers |= ModShift
	}
	if cb&8 != 0 {
		ev.Modifiers |= ModAlt
	}
	if cb&16 != 0 {
		ev.Modifiers |= ModCtrl
	}

	if cb&64 != 0 {
		if cb&1 != 0 {
			ev.Button = MouseWheelDown
		} else {
			ev.Button = MouseWheelUp
		}
		return ev
	}

	switch cb & 3 {
	case 0:
		ev.Button = MouseLeft
	case 1:
		ev.Button = MouseMiddle
	case 2:
		ev.Button = MouseRight
	case 3:
		ev.Button = MouseButtonNone
	}
	if cb&32 != 0 {
		ev.Action = MouseDrag
	}
	return ev
}
