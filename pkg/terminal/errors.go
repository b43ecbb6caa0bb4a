// ABOUTME: Error taxonomy for backend dispatch and state restoration.
// ABOUTME: BackendUnavailableError is recoverable by the caller; RestoreError is logged, never escalated.

package terminal

import (
	"errors"
	"fmt"
)

// ErrNotATerminal indicates the sink or source is not attached to an
// interactive terminal. It is always wrapped in a
// *BackendUnavailableError so errors.Is works on either.
var ErrNotATerminal = errors.New("not a terminal")

// BackendUnavailableError indicates a dispatch could not reach the
// terminal: the sink is closed, not a terminal, or a platform call
// failed. Callers recover by falling back to non-interactive behavior;
// the library never swallows this silently.
type BackendUnavailableError struct {
	Op  string
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("backend unavailable during %s: %v", e.Op, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

// RestoreError indicates state restoration could not fully complete,
// for example because the handle was already closed. It is reported to
// the caller and logged, but cleanup paths must never escalate it to a
// crash: failing during cleanup would mask the original termination
// reason.
type RestoreError struct {
	Errs []error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("terminal restore incomplete: %v", errors.Join(e.Errs...))
}

func (e *RestoreError) Unwrap() []error { return e.Errs }
