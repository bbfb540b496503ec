package models

// SummaryCard is the calendar-card rendering of a booking or draft selection.
// Pure presentation data; all fields are in the viewer's selected timezone.
type SummaryCard struct {
	Month           string `json:"month"`   // "July"
	Day             int    `json:"day"`     // 14
	Weekday         string `json:"weekday"` // "Monday"
	TimeLabel       string `json:"timeLabel"`
	ZoneAbbrev      string `json:"zoneAbbrev"`
	DurationMinutes int    `json:"durationMinutes"`
	Medium          string `json:"medium"`
}
