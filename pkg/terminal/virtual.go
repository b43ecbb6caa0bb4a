// ABOUTME: VirtualBackend implements Backend for testing without a real terminal.
// ABOUTME: Records every dispatched operation in order and tracks raw/screen transitions.

package terminal

import (
	"fmt"
	"sync"

	"github.com/TimonPost/crossterm/pkg/style"
)

// VirtualBackend is a fake Backend for unit tests. It records each
// operation as a human-readable string, in dispatch order, and tracks
// mode and screen transitions. An operation whose name appears in
// failOps returns a BackendUnavailableError instead.
type VirtualBackend struct {
	mu         sync.Mutex
	ops        []string
	rawMode    bool
	screen     ScreenBuffer
	enterCount int
	exitCount  int
	failOps    map[string]error
}

var _ Backend = (*VirtualBackend)(nil)

// NewVirtualBackend returns an empty VirtualBackend.
func NewVirtualBackend() *VirtualBackend {
	return &VirtualBackend{failOps: make(map[string]error)}
}

// FailOn makes subsequent dispatches of the named operation fail with
// a BackendUnavailableError wrapping err. A nil err clears the injected
// failure.
func (v *VirtualBackend) FailOn(op string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if err == nil {
		delete(v.failOps, op)
		return
	}
	v.failOps[op] = err
}

func (v *VirtualBackend) record(op string, args ...any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err, ok := v.failOps[op]; ok {
		return &BackendUnavailableError{Op: op, Err: err}
	}
	if len(args) > 0 {
		op = fmt.Sprintf(op+" %v", args)
	}
	v.ops = append(v.ops, op)
	return nil
}

func (v *VirtualBackend) Name() string { return "virtual" }

func (v *VirtualBackend) MoveTo(x, y int) error { return v.record("move-to", x, y) }
func (v *VirtualBackend) MoveUp(n int) error    { return v.record("move-up", n) }
func (v *VirtualBackend) MoveDown(n int) error  { return v.record("move-down", n) }
func (v *VirtualBackend) MoveLeft(n int) error  { return v.record("move-left", n) }
func (v *VirtualBackend) MoveRight(n int) error { return v.record("move-right", n) }

func (v *VirtualBackend) SavePosition() error    { return v.record("save-position") }
func (v *VirtualBackend) RestorePosition() error { return v.record("restore-position") }

func (v *VirtualBackend) ShowCursor(visible bool) error {
	if visible {
		return v.record("show-cursor")
	}
	return v.record("hide-cursor")
}

func (v *VirtualBackend) SetForeground(c style.Color) error {
	return v.record("set-foreground", c)
}

func (v *VirtualBackend) SetBackground(c style.Color) error {
	return v.record("set-background", c)
}

func (v *VirtualBackend) SetColors(fg, bg style.Color) error {
	return v.record("set-colors", fg, bg)
}

func (v *VirtualBackend) SetAttribute(a style.Attribute) error {
	return v.record("set-attribute", a)
}

func (v *VirtualBackend) Clear(region ClearRegion) error { return v.record("clear", region) }
func (v *VirtualBackend) ScrollUp(n int) error           { return v.record("scroll-up", n) }
func (v *VirtualBackend) ScrollDown(n int) error         { return v.record("scroll-down", n) }
func (v *VirtualBackend) Print(s string) error           { return v.record("print", s) }
func (v *VirtualBackend) SetTitle(title string) error    { return v.record("set-title", title) }

func (v *VirtualBackend) EnableRaw() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err, ok := v.failOps["enable-raw"]; ok {
		return &BackendUnavailableError{Op: "enable-raw", Err: err}
	}
	if v.rawMode {
		return nil
	}
	v.rawMode = true
	v.enterCount++
	v.ops = append(v.ops, "enable-raw")
	return nil
}

func (v *VirtualBackend) DisableRaw() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err, ok := v.failOps["disable-raw"]; ok {
		return &RestoreError{Errs: []error{err}}
	}
	if !v.rawMode {
		return nil
	}
	v.rawMode = false
	v.exitCount++
	v.ops = append(v.ops, "disable-raw")
	return nil
}

func (v *VirtualBackend) SwitchScreen(buf ScreenBuffer) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	op := "enter-alternate"
	if buf == Primary {
		op = "leave-alternate"
	}
	if err, ok := v.failOps[op]; ok {
		return &BackendUnavailableError{Op: op, Err: err}
	}
	v.screen = buf
	v.ops = append(v.ops, op)
	return nil
}

func (v *VirtualBackend) SetMouseCapture(enabled bool) error {
	if enabled {
		return v.record("enable-mouse")
	}
	return v.record("disable-mouse")
}

// --- Test helpers (not part of Backend) ---

// Ops returns a copy of every recorded operation in dispatch order.
func (v *VirtualBackend) Ops() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]string, len(v.ops))
	copy(out, v.ops)
	return out
}

// Reset clears the recorded operations.
func (v *VirtualBackend) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ops = nil
}

// IsRawMode reports whether raw mode is currently active.
func (v *VirtualBackend) IsRawMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rawMode
}

// Screen returns the currently visible screen buffer.
func (v *VirtualBackend) Screen() ScreenBuffer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.screen
}

// EnterCount returns how many effective raw-mode entries occurred.
func (v *VirtualBackend) EnterCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enterCount
}

// ExitCount returns how many effective raw-mode exits occurred.
func (v *VirtualBackend) ExitCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.exitCount
}
