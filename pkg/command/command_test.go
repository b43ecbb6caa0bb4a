// ABOUTME: Tests for Command constructors: argument validation and execution-mode selection.
// ABOUTME: Invalid arguments must fail at construction with zero backend effects.

package command

import (
	"errors"
	"testing"

	"github.com/TimonPost/crossterm/pkg/style"
	"github.com/TimonPost/crossterm/pkg/terminal"
)

func TestConstructorValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		build   func() (Command, error)
		wantErr bool
	}{
		{name: "move cursor origin", build: func() (Command, error) { return MoveCursor(0, 0) }},
		{name: "move cursor negative x", build: func() (Command, error) { return MoveCursor(-1, 0) }, wantErr: true},
		{name: "move cursor negative y", build: func() (Command, error) { return MoveCursor(0, -5) }, wantErr: true},
		{name: "move up", build: func() (Command, error) { return MoveUp(1) }},
		{name: "move up zero", build: func() (Command, error) { return MoveUp(0) }, wantErr: true},
		{name: "move left negative", build: func() (Command, error) { return MoveLeft(-2) }, wantErr: true},
		{name: "set color", build: func() (Command, error) { return SetColor(style.ColorRed, style.ColorReset) }},
		{name: "set color bad foreground", build: func() (Command, error) { return SetColor(style.Color(99), style.ColorReset) }, wantErr: true},
		{name: "set color bad background", build: func() (Command, error) { return SetColor(style.ColorRed, style.Color(-1)) }, wantErr: true},
		{name: "set attribute", build: func() (Command, error) { return SetAttribute(style.AttrDim) }},
		{name: "set attribute invalid", build: func() (Command, error) { return SetAttribute(style.Attribute(42)) }, wantErr: true},
		{name: "clear", build: func() (Command, error) { return Clear(terminal.ClearCurrentLine) }},
		{name: "clear invalid region", build: func() (Command, error) { return Clear(terminal.ClearRegion(9)) }, wantErr: true},
		{name: "scroll up zero", build: func() (Command, error) { return ScrollUp(0) }, wantErr: true},
		{name: "switch screen", build: func() (Command, error) { return SwitchScreen(terminal.Alternate) }},
		{name: "switch screen invalid", build: func() (Command, error) { return SwitchScreen(terminal.ScreenBuffer(7)) }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := tt.build()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				var verr *style.ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("error type = %T, want *style.ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCommandDefaultsImmediate(t *testing.T) {
	t.Parallel()

	cmd, err := MoveCursor(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if cmd.Mode() != Immediate {
		t.Errorf("Mode() = %v, want Immediate", cmd.Mode())
	}
}

func TestQueuedReturnsCopy(t *testing.T) {
	t.Parallel()

	orig := Print("x")
	queued := orig.Queued()

	if queued.Mode() != Queued {
		t.Errorf("queued copy Mode() = %v, want Queued", queued.Mode())
	}
	if orig.Mode() != Immediate {
		t.Error("Queued() mutated the original command")
	}
	if queued.Kind() != orig.Kind() {
		t.Error("Queued() changed the command kind")
	}
}

func TestValidationFailureProducesNoBackendCalls(t *testing.T) {
	t.Parallel()

	v := terminal.NewVirtualBackend()
	e := NewExecutor(terminal.NewTracker(v))

	if _, err := SetColor(style.Color(99), style.ColorReset); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := MoveCursor(-1, -1); err == nil {
		t.Fatal("expected validation error")
	}

	if ops := v.Ops(); len(ops) != 0 {
		t.Errorf("backend ops after failed construction = %v, want none", ops)
	}
	if got := e.QueueLen(); got != 0 {
		t.Errorf("queue length = %d, want 0", got)
	}
}
