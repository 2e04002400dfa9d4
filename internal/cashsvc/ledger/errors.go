package ledger

import (
	"errors"
	"fmt"
)

// ErrAlreadyPaid signals a no-op pay attempt on a bill that is not PENDING.
// Callers treat it as a warning, not a failure.
var ErrAlreadyPaid = errors.New("bill is already marked as paid")

// ErrBillNotFound is returned when a bill id does not exist.
var ErrBillNotFound = errors.New("bill not found")

// ValidationError rejects a transaction before anything is written.
// Field names the offending input for user messaging.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
