package upstream

import (
	"context"

	"mindhaven/models"
)

// Client talks to the scheduling backend, which is authoritative for
// availability templates, per-date slots and booking records.
type Client interface {
	// FetchAvailabilityTemplate returns the weekly recurring template plus
	// the backend's canonical timezone identifier.
	FetchAvailabilityTemplate(ctx context.Context) (*models.AvailabilityTemplate, error)

	// FetchDateAvailability returns concrete slots for one calendar date,
	// already reduced by existing bookings, in server-canonical time.
	FetchDateAvailability(ctx context.Context, date, serverTimezone string) (*models.DateAvailability, error)

	// SubmitBooking creates a booking, or moves an existing one when
	// req.BookingID is set (reschedule).
	SubmitBooking(ctx context.Context, req SubmitRequest) (*models.BookingRecord, error)

	// FetchBookingDetails returns the viewer's current booking, if any.
	// Returns ErrNoBooking when none exists.
	FetchBookingDetails(ctx context.Context, viewerID string) (*models.BookingRecord, error)
}

// SubmitRequest is the booking-creation payload. Date/Time are
// server-canonical; ViewerTimezone is stored alongside so the display
// instant can be reconstructed.
type SubmitRequest struct {
	BookingID      string `json:"bookingId,omitempty"` // set when rescheduling
	ViewerID       string `json:"viewerId"`
	PackageID      string `json:"packageId"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	ViewerTimezone string `json:"viewerTimezone"`
	IdempotencyKey string `json:"idempotencyKey"`
}
