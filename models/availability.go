package models

import "time"

// SlotEntry is one concrete slot for a given date, in server-canonical time.
type SlotEntry struct {
	Time      string `json:"time"`      // e.g. "14:00:00"
	Available bool   `json:"available"` // false when already consumed or blocked
	DayName   string `json:"dayName"`
}

// DateAvailability is the scheduling backend's view of one calendar date:
// template windows minus existing bookings, in server-canonical time.
type DateAvailability struct {
	Date           string      `json:"date"` // "2006-01-02"
	Availabilities []SlotEntry `json:"availabilities"`
}

// DisplayInstant is a bookable slot rendered into the viewer's timezone.
// At is the absolute instant; Date/Time are the viewer-local wall clock,
// which may fall on a different calendar date than the server-side one.
type DisplayInstant struct {
	Date       string    `json:"date"` // "2006-01-02" in the viewer timezone
	Time       string    `json:"time"` // "15:04:05" in the viewer timezone
	DayName    string    `json:"dayName"`
	Timezone   string    `json:"timezone"`
	ZoneAbbrev string    `json:"zoneAbbrev"`
	At         time.Time `json:"at"`
}
