// ABOUTME: Executor dispatches Commands to the backend, immediately or through a FIFO queue.
// ABOUTME: Mode-sensitive commands route through the state tracker; all dispatch is serialized per executor.

package command

import (
	"sync"

	"github.com/TimonPost/crossterm/pkg/terminal"
)

// Executor applies Commands against one tracker (and therefore one
// backend and output sink). Immediate commands dispatch synchronously;
// Queued commands accumulate until Flush, which dispatches them in
// FIFO order. Batching many small mutations into one Flush cuts write
// calls when redrawing a full screen.
type Executor struct {
	mu      sync.Mutex
	tracker *terminal.Tracker
	queue   []Command
}

// NewExecutor returns an executor dispatching through t.
func NewExecutor(t *terminal.Tracker) *Executor {
	return &Executor{tracker: t}
}

// Default returns an executor for the process-wide tracker on the
// resolved platform backend.
func Default() (*Executor, error) {
	t, err := terminal.Global()
	if err != nil {
		return nil, err
	}
	return NewExecutor(t), nil
}

// Tracker returns the state tracker this executor dispatches through.
func (e *Executor) Tracker() *terminal.Tracker { return e.tracker }

// Apply executes cmd according to its execution mode: Immediate
// commands reach the backend before Apply returns, Queued commands
// wait for Flush. Dispatch errors are always surfaced; a swallowed
// failure would desynchronize the caller's view of terminal state.
func (e *Executor) Apply(cmd Command) error {
	if cmd.Mode() == Queued {
		e.mu.Lock()
		e.queue = append(e.queue, cmd)
		e.mu.Unlock()
		return nil
	}
	return e.dispatch(cmd)
}

// QueueLen returns the number of commands waiting for Flush.
func (e *Executor) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Flush dispatches all queued commands in the order enqueued, then
// clears the queue. On a dispatch failure the error is returned and
// the commands not yet dispatched stay queued, so a caller can inspect
// the error kind and decide whether to retry the remainder; terminal
// operations are not safe to retry blindly.
func (e *Executor) Flush() error {
	e.mu.Lock()
	pending := e.queue
	e.queue = nil
	e.mu.Unlock()

	for i, cmd := range pending {
		if err := e.dispatch(cmd); err != nil {
			e.mu.Lock()
			e.queue = append(pending[i+1:], e.queue...)
			e.mu.Unlock()
			return err
		}
	}
	return nil
}

// dispatch resolves cmd against the backend. Encoding happens here,
// not at construction, so one Command value works on either backend.
func (e *Executor) dispatch(cmd Command) error {
	backend := e.tracker.Backend()

	switch cmd.kind {
	case KindMoveCursor:
		return backend.MoveTo(cmd.x, cmd.y)
	case KindMoveUp:
		return backend.MoveUp(cmd.n)
	case KindMoveDown:
		return backend.MoveDown(cmd.n)
	case KindMoveLeft:
		return backend.MoveLeft(cmd.n)
	case KindMoveRight:
		return backend.MoveRight(cmd.n)
	case KindSavePosition:
		return backend.SavePosition()
	case KindRestorePosition:
		return backend.RestorePosition()
	case KindShowCursor:
		return backend.ShowCursor(cmd.on)
	case KindSetColor:
		// One backend call keeps the pair atomic with respect to
		// concurrent dispatches.
		return backend.SetColors(cmd.fg, cmd.bg)
	case KindSetAttribute:
		return backend.SetAttribute(cmd.attr)
	case KindClear:
		return backend.Clear(cmd.region)
	case KindScrollUp:
		return backend.ScrollUp(cmd.n)
	case KindScrollDown:
		return backend.ScrollDown(cmd.n)
	case KindPrint:
		return backend.Print(cmd.text)
	case KindSetTitle:
		return backend.SetTitle(cmd.text)
	case KindToggleRawMode:
		if cmd.on {
			return e.tracker.EnableRaw()
		}
		return e.tracker.DisableRaw()
	case KindSwitchScreen:
		return e.tracker.SwitchScreen(cmd.screen)
	case KindMouseCapture:
		return backend.SetMouseCapture(cmd.on)
	}
	return nil
}
