// ABOUTME: ValidationError reported when a caller passes a value outside a closed enumeration.
// ABOUTME: Raised at construction time so invalid values never reach a backend.

package style

import "fmt"

// ValidationError indicates a caller bug: a value outside one of the
// closed enumerations was passed to a constructor. It is surfaced
// immediately at construction, never at dispatch.
type ValidationError struct {
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s value %d", e.Field, e.Value)
}
