package models

// ReminderPayload is the message body for a scheduled session reminder task.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	ViewerID  string `json:"viewerId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	FireDate  string `json:"fireDate"` // RFC3339
}
