package models

import "time"

// BookingRecord is a confirmed booking as stored by the scheduling backend.
// SessionDate/SessionTime are server-canonical; together with ServerTimezone
// and SelectedTimezone the absolute instant can always be reconstructed.
type BookingRecord struct {
	ID               string    `json:"id"`
	ViewerID         string    `json:"viewerId"`
	PackageID        string    `json:"packageId"`
	SessionDate      string    `json:"sessionDate"` // "2006-01-02" in ServerTimezone
	SessionTime      string    `json:"sessionTime"` // "15:04:05" in ServerTimezone
	SelectedTimezone string    `json:"selectedTimezone"`
	ServerTimezone   string    `json:"serverTimezone"`
	Completed        bool      `json:"completed"`
	ZoomLink         string    `json:"zoomLink,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
