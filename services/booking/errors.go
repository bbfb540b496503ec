package booking

import "fmt"

// FlowError is a typed booking-flow error. Sentinel values below are stable
// across wrapping, so callers branch with errors.Is.
type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrInvalidTimezone means the supplied identifier is not a recognized
	// zone name. Not retryable; indicates a bug or corrupted state.
	ErrInvalidTimezone = &FlowError{Code: "invalidTimezone", Message: "unrecognized timezone identifier"}

	// ErrInvalidDateTime means a malformed date or time-of-day string.
	ErrInvalidDateTime = &FlowError{Code: "invalidDateTime", Message: "malformed date or time value"}

	// ErrAvailabilityUnavailable means bookable slots could not be determined
	// at all; callers present an empty state rather than guessing.
	ErrAvailabilityUnavailable = &FlowError{Code: "availabilityUnavailable", Message: "could not determine bookable slots"}

	// ErrFlowNotFound means the flow id has no live draft (expired or never existed).
	ErrFlowNotFound = &FlowError{Code: "flowNotFound", Message: "booking flow not found or expired"}

	// ErrDateNotBookable means the date failed the coarse day-of-week /
	// not-in-the-past filter and per-slot detail was never fetched.
	ErrDateNotBookable = &FlowError{Code: "dateNotBookable", Message: "date is not open for booking"}

	// ErrSlotNotOffered means the chosen time is not in the resolved slot list.
	ErrSlotNotOffered = &FlowError{Code: "slotNotOffered", Message: "selected time is not among the offered slots"}

	// ErrNoSelection means submit was attempted without a complete selection.
	ErrNoSelection = &FlowError{Code: "noSelection", Message: "no date and time selected"}

	// ErrSubmitInFlight rejects a repeat submit while one is outstanding.
	ErrSubmitInFlight = &FlowError{Code: "submitInFlight", Message: "a submission is already in progress"}

	// ErrSlotTaken means the slot was booked by someone else between resolve
	// and submit; the flow returns to time selection with fresh availability.
	ErrSlotTaken = &FlowError{Code: "slotNoLongerAvailable", Message: "slot was booked by someone else"}

	// ErrSubmitFailed is a retryable submission failure; the selection is kept.
	ErrSubmitFailed = &FlowError{Code: "submitFailed", Message: "booking submission failed"}

	// ErrUnknownPackage means the session package id is not in the catalog.
	ErrUnknownPackage = &FlowError{Code: "unknownPackage", Message: "unknown session package"}
)
