// Package validation holds the error type shared by the services that
// screen caller input before it reaches the processor.
package validation

import "fmt"

// Error reports malformed caller input, rejected before any processor call
// is made.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
