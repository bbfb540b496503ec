package models

// TemplateWindow is one recurring bookable window, authored in the scheduling
// backend's canonical timezone.
type TemplateWindow struct {
	Day  string `json:"day"`  // weekday name, e.g. "Monday"
	Time string `json:"time"` // time of day, e.g. "09:00:00"
}

// AvailabilityTemplate is the weekly recurring availability set owned by the
// scheduling backend. Read-only on this side; immutable per fetch.
type AvailabilityTemplate struct {
	Windows          []TemplateWindow `json:"availabilities"`
	NextAvailability string           `json:"nextAvailability,omitempty"`
	ServerTimezone   string           `json:"serverTimezone"`
}

// HasDay reports whether any recurring window falls on the given weekday name.
func (t *AvailabilityTemplate) HasDay(dayName string) bool {
	for _, w := range t.Windows {
		if w.Day == dayName {
			return true
		}
	}
	return false
}
