// ABOUTME: Scoped-acquisition guards and panic/signal hooks guaranteeing terminal restoration.
// ABOUTME: Every exit path (return, panic, signal) funnels into at most one restore attempt.

package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"

	"github.com/TimonPost/crossterm/internal/log"
)

// Guard represents acquired terminal state whose release is guaranteed
// to run at most once. Callers defer Release so normal returns and
// propagated panics both restore the acquired state.
type Guard struct {
	once    sync.Once
	release func() error
	err     error
}

// Release undoes the acquisition. Safe to call multiple times; only
// the first call takes effect and later calls return its result.
func (g *Guard) Release() error {
	g.once.Do(func() {
		g.err = g.release()
	})
	return g.err
}

// AcquireRaw enables raw mode and returns a guard that disables it.
//
//	guard, err := tracker.AcquireRaw()
//	if err != nil { ... }
//	defer guard.Release()
func (t *Tracker) AcquireRaw() (*Guard, error) {
	if err := t.EnableRaw(); err != nil {
		return nil, err
	}
	return &Guard{release: t.DisableRaw}, nil
}

// AcquireAlternate switches to the alternate screen and returns a
// guard that switches back to the primary buffer.
func (t *Tracker) AcquireAlternate() (*Guard, error) {
	if err := t.SwitchScreen(Alternate); err != nil {
		return nil, err
	}
	return &Guard{release: func() error { return t.SwitchScreen(Primary) }}, nil
}

// RestoreOnPanic should be deferred at the top of main (or any
// goroutine that owns the terminal). On panic it makes the cursor
// visible, restores the tracked state, prints the panic value and
// stack trace, then exits with code 1. A restore failure is logged,
// never escalated, so the panic itself stays visible.
func RestoreOnPanic(t *Tracker) {
	r := recover()
	if r == nil {
		return
	}

	_ = t.Backend().ShowCursor(true)
	if err := t.Restore(); err != nil {
		log.Error("restore after panic failed: %v", err)
	}

	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", r, debug.Stack())
	os.Exit(1)
}

// RecoverAndRestore should be deferred in background goroutines that
// run while the terminal is in raw mode. Unlike RestoreOnPanic it does
// not exit the process, letting the owning goroutine decide shutdown.
func RecoverAndRestore(t *Tracker) {
	r := recover()
	if r == nil {
		return
	}

	_ = t.Backend().ShowCursor(true)
	if err := t.Restore(); err != nil {
		log.Error("restore after goroutine panic failed: %v", err)
	}

	fmt.Fprintf(os.Stderr, "\ngoroutine panic: %v\n\n%s\n", r, debug.Stack())
}

// RestoreOnSignal registers sigs (SIGINT and SIGTERM when empty) and
// restores the tracked state exactly once when one arrives, then
// re-raises the signal's default disposition by exiting. The returned
// stop function unregisters the handler and releases the goroutine.
func RestoreOnSignal(t *Tracker, sigs ...os.Signal) (stop func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt}
	}

	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, sigs...)

	var once sync.Once
	go func() {
		select {
		case sig := <-ch:
			once.Do(func() {
				if err := t.Restore(); err != nil {
					log.Error("restore on %v failed: %v", sig, err)
				}
			})
			signal.Stop(ch)
			// 128+n is the conventional exit status for signal n; keep
			// SIGINT's well-known 130 and fall back to 1 otherwise.
			if sig == os.Interrupt {
				os.Exit(130)
			}
			os.Exit(1)
		case <-done:
			signal.Stop(ch)
		}
	}()

	return func() { close(done) }
}
