package claim

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("claim not found")
	// ErrConflict means a concurrent update won the compare-and-set; the
	// caller should re-read and retry.
	ErrConflict = errors.New("claim was modified concurrently")
)

// ValidationError is a client input failure.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// TransitionError reports an illegal status move, naming both ends.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
