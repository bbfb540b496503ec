package models

import "time"

// FlowState is the booking flow's current phase.
type FlowState string

const (
	FlowSelectingDate FlowState = "selecting_date"
	FlowSelectingTime FlowState = "selecting_time"
	FlowSubmitting    FlowState = "submitting"
	FlowBooked        FlowState = "booked"
)

// BookingDraft is the transient, unsaved in-progress selection for one flow
// instance. It lives in the draft store until the booking succeeds (replaced
// by a BookingRecord) or the flow is abandoned.
//
// SelectedSlot is only meaningful relative to SelectedTimezone; any timezone
// change clears it rather than reinterpreting it.
type BookingDraft struct {
	FlowID       string    `json:"flowId"`
	ViewerID     string    `json:"viewerId"`
	PackageID    string    `json:"packageId"`
	RescheduleID string    `json:"rescheduleId,omitempty"` // existing booking being moved, if any
	State        FlowState `json:"state"`

	SelectedDate     string          `json:"selectedDate,omitempty"` // viewer-calendar date "2006-01-02"
	SelectedTimezone string          `json:"selectedTimezone"`
	SelectedSlot     *DisplayInstant `json:"selectedSlot,omitempty"`

	// Revision increases on every date or timezone change. Availability
	// results are tagged with the revision they were requested under and are
	// discarded if the draft has moved on by the time they arrive.
	Revision      int64            `json:"revision"`
	Slots         []DisplayInstant `json:"slots,omitempty"`
	SlotsRevision int64            `json:"slotsRevision,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
