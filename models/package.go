package models

// SessionPackage is static product info for a bookable session bundle.
// Read-only reference data; never mutated by the booking flow.
type SessionPackage struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Price           float64 `json:"price"`
	Currency        string  `json:"currency"`
	NumSessions     int     `json:"numSessions"`
	Image           string  `json:"image,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	Medium          string  `json:"medium"` // e.g. "Zoom"
	FreeCall        bool    `json:"freeCall"`
}
