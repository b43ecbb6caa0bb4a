// ABOUTME: Tracker is the process-wide terminal state machine over mode × screen.
// ABOUTME: All mutation funnels through one mutex; Restore returns unconditionally to the first-mutation state.

package terminal

import (
	"sync"

	"github.com/TimonPost/crossterm/internal/log"
)

// State is one point in the mode × screen state machine.
type State struct {
	Mode   Mode
	Screen ScreenBuffer
}

// Tracker records the current terminal mode and visible screen buffer
// and guarantees they can be restored. It is the single synchronized
// mutation entry point for mode-sensitive operations: callers must not
// toggle raw mode or switch screens on the backend directly.
type Tracker struct {
	mu      sync.Mutex
	backend Backend
	cur     State

	// initial is the state captured just before the first mutation.
	// Restore transitions back to it from any state.
	initial *State
}

// NewTracker returns a tracker for b, starting at Cooked × Primary.
func NewTracker(b Backend) *Tracker {
	return &Tracker{backend: b}
}

// captureInitial records the pre-mutation state once.
// Must be called with t.mu held.
func (t *Tracker) captureInitial() {
	if t.initial == nil {
		snapshot := t.cur
		t.initial = &snapshot
	}
}

// Backend returns the backend this tracker mutates through.
func (t *Tracker) Backend() Backend { return t.backend }

// State returns the current tracked state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur
}

// EnableRaw puts the terminal into raw mode. Repeated calls are
// absorbed; two consecutive enables equal one.
func (t *Tracker) EnableRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.captureInitial()
	if t.cur.Mode == Raw {
		return nil
	}
	if err := t.backend.EnableRaw(); err != nil {
		return err
	}
	t.cur.Mode = Raw
	return nil
}

// DisableRaw returns the terminal to cooked mode. Idempotent.
func (t *Tracker) DisableRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.captureInitial()
	if t.cur.Mode == Cooked {
		return nil
	}
	if err := t.backend.DisableRaw(); err != nil {
		return err
	}
	t.cur.Mode = Cooked
	return nil
}

// SwitchScreen makes buf the visible screen buffer. Switching to the
// buffer already visible is a no-op, not an error.
func (t *Tracker) SwitchScreen(buf ScreenBuffer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.captureInitial()
	if t.cur.Screen == buf {
		return nil
	}
	if err := t.backend.SwitchScreen(buf); err != nil {
		return err
	}
	t.cur.Screen = buf
	return nil
}

// Restore transitions unconditionally back to the state captured at
// first mutation, from any of the four reachable states. Failures are
// collected into a *RestoreError and logged, and the remaining
// transitions are still attempted. Restore after Restore (or before
// any mutation) is a no-op.
func (t *Tracker) Restore() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initial == nil {
		return nil
	}

	var errs []error

	// Leave the alternate screen before touching the input mode so the
	// primary buffer is visible again even if the mode restore fails.
	if t.cur.Screen != t.initial.Screen {
		if err := t.backend.SwitchScreen(t.initial.Screen); err != nil {
			errs = append(errs, err)
		} else {
			t.cur.Screen = t.initial.Screen
		}
	}

	if t.cur.Mode != t.initial.Mode {
		var err error
		if t.initial.Mode == Cooked {
			err = t.backend.DisableRaw()
		} else {
			err = t.backend.EnableRaw()
		}
		if err != nil {
			errs = append(errs, err)
		} else {
			t.cur.Mode = t.initial.Mode
		}
	}

	if len(errs) > 0 {
		rerr := &RestoreError{Errs: errs}
		log.Warn("terminal restore incomplete: %v", rerr)
		return rerr
	}

	t.initial = nil
	return nil
}

// Global tracker, bound lazily to the resolved backend.
var (
	globalOnce    sync.Once
	globalTracker *Tracker
	globalErr     error
)

// Global returns the process-wide tracker for the active backend. The
// backend is resolved on first use and never re-probed; an error here
// means the process is not attached to a usable terminal.
func Global() (*Tracker, error) {
	globalOnce.Do(func() {
		backend, err := Active()
		if err != nil {
			globalErr = err
			return
		}
		globalTracker = NewTracker(backend)
	})
	return globalTracker, globalErr
}
