package resilience

import (
	"errors"
	"fmt"
)

// Sentinel errors for resilience operations.
var (
	// ErrTimeout is returned when an operation does not finish before its deadline.
	ErrTimeout = errors.New("resilience: operation timed out")

	// ErrPanic matches any *PanicError via errors.Is.
	ErrPanic = errors.New("resilience: operation panicked")
)

// PanicError carries the value recovered from a panicking operation.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Is reports whether target is ErrPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}
