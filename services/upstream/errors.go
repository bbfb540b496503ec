package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotTaken means the slot was consumed between resolve and submit.
	ErrSlotTaken = errors.New("slot no longer available")
	// ErrNoBooking means the viewer has no booking on record.
	ErrNoBooking = errors.New("no booking on record")
)

// NetworkError wraps transport-level failures reaching the backend.
// These are retryable.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response that is not one of the recognized
// domain conditions.
type StatusError struct {
	Op      string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s: status %d: %s", e.Op, e.Status, e.Message)
}
