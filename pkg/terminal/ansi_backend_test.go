// ABOUTME: Tests for ANSIBackend sequence emission and error wrapping.
// ABOUTME: Uses a bytes.Buffer sink; raw-mode paths are covered by the pty integration test.

package terminal

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/TimonPost/crossterm/pkg/style"
)

func TestANSIBackendEmitsSequences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   func(b *ANSIBackend) error
		want string
	}{
		{name: "move to", op: func(b *ANSIBackend) error { return b.MoveTo(3, 5) }, want: "\x1b[6;4H"},
		{name: "move up", op: func(b *ANSIBackend) error { return b.MoveUp(2) }, want: "\x1b[2A"},
		{name: "save position", op: (*ANSIBackend).SavePosition, want: "\x1b[s"},
		{name: "restore position", op: (*ANSIBackend).RestorePosition, want: "\x1b[u"},
		{name: "hide cursor", op: func(b *ANSIBackend) error { return b.ShowCursor(false) }, want: "\x1b[?25l"},
		{name: "show cursor", op: func(b *ANSIBackend) error { return b.ShowCursor(true) }, want: "\x1b[?25h"},
		{name: "clear all", op: func(b *ANSIBackend) error { return b.Clear(ClearAll) }, want: "\x1b[2J"},
		{name: "clear line", op: func(b *ANSIBackend) error { return b.Clear(ClearCurrentLine) }, want: "\x1b[2K"},
		{name: "clear until newline", op: func(b *ANSIBackend) error { return b.Clear(ClearUntilNewLine) }, want: "\x1b[K"},
		{name: "foreground", op: func(b *ANSIBackend) error { return b.SetForeground(style.ColorGreen) }, want: "\x1b[92m"},
		{name: "background", op: func(b *ANSIBackend) error { return b.SetBackground(style.ColorDarkGreen) }, want: "\x1b[42m"},
		{name: "colors", op: func(b *ANSIBackend) error { return b.SetColors(style.ColorRed, style.ColorBlue) }, want: "\x1b[91;104m"},
		{name: "colors reset", op: func(b *ANSIBackend) error { return b.SetColors(style.ColorReset, style.ColorReset) }, want: "\x1b[39;49m"},
		{name: "attribute", op: func(b *ANSIBackend) error { return b.SetAttribute(style.AttrBold) }, want: "\x1b[1m"},
		{name: "scroll up", op: func(b *ANSIBackend) error { return b.ScrollUp(4) }, want: "\x1b[4S"},
		{name: "print", op: func(b *ANSIBackend) error { return b.Print("hi") }, want: "hi"},
		{name: "title", op: func(b *ANSIBackend) error { return b.SetTitle("demo") }, want: "\x1b]0;demo\x07"},
		{name: "enter alternate", op: func(b *ANSIBackend) error { return b.SwitchScreen(Alternate) }, want: "\x1b[?1049h"},
		{name: "leave alternate", op: func(b *ANSIBackend) error { return b.SwitchScreen(Primary) }, want: "\x1b[?1049l"},
		{name: "enable mouse", op: func(b *ANSIBackend) error { return b.SetMouseCapture(true) }, want: "\x1b[?1000h\x1b[?1002h\x1b[?1015h\x1b[?1006h"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			b := NewANSIBackend(&out, -1)
			if err := tt.op(b); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := out.String(); got != tt.want {
				t.Errorf("emitted %q, want %q", got, tt.want)
			}
		})
	}
}

func TestANSIBackendColorPairNeverSplits(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	b := NewANSIBackend(&out, -1)

	// Hammer the backend from two goroutines; every color pair must
	// reach the sink contiguously, with no print landing between the
	// foreground and background halves.
	const rounds = 5000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := b.SetColors(style.ColorRed, style.ColorBlue); err != nil {
				t.Errorf("SetColors: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := b.Print("X"); err != nil {
				t.Errorf("Print: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	// Stripping every intact pair and every printed byte must leave
	// nothing; leftovers mean a pair was torn apart.
	data := bytes.ReplaceAll(out.Bytes(), []byte("\x1b[91;104m"), nil)
	data = bytes.ReplaceAll(data, []byte("X"), nil)
	if len(data) != 0 {
		t.Fatalf("output contains %d bytes outside complete color pairs: %q", len(data), data[:min(len(data), 32)])
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write(p []byte) (int, error) { return 0, w.err }

func TestANSIBackendWriteFailure(t *testing.T) {
	t.Parallel()

	sink := errors.New("sink closed")
	b := NewANSIBackend(failingWriter{err: sink}, -1)

	err := b.MoveTo(1, 1)
	if err == nil {
		t.Fatal("MoveTo on failing writer = nil, want error")
	}
	var berr *BackendUnavailableError
	if !errors.As(err, &berr) {
		t.Fatalf("error type = %T, want *BackendUnavailableError", err)
	}
	if berr.Op != "move-to" {
		t.Errorf("BackendUnavailableError.Op = %q, want %q", berr.Op, "move-to")
	}
	if !errors.Is(err, sink) {
		t.Error("error does not wrap the writer failure")
	}
}

func TestANSIBackendRawWithoutTerminal(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	b := NewANSIBackend(&out, -1)

	err := b.EnableRaw()
	if err == nil {
		t.Fatal("EnableRaw without a terminal fd = nil, want error")
	}
	if !errors.Is(err, ErrNotATerminal) {
		t.Errorf("EnableRaw error = %v, want ErrNotATerminal in chain", err)
	}
}

func TestANSIBackendDisableRawIdempotent(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	b := NewANSIBackend(&out, -1)

	// Never entered raw mode; leaving must be a clean no-op.
	if err := b.DisableRaw(); err != nil {
		t.Errorf("DisableRaw before EnableRaw = %v, want nil", err)
	}
}
