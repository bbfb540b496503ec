package booking

import (
	"fmt"
	"time"

	"mindhaven/models"
)

// Wire formats shared with the scheduling backend.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// ToDisplay interprets date+timeOfDay as wall clock in serverTz and returns
// the equivalent instant rendered in viewerTz. Offsets are resolved per
// concrete date, so DST transitions come out right; a fixed offset is never
// cached.
func ToDisplay(date, timeOfDay, serverTz, viewerTz string) (models.DisplayInstant, error) {
	serverLoc, err := time.LoadLocation(serverTz)
	if err != nil {
		return models.DisplayInstant{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, serverTz)
	}
	viewerLoc, err := time.LoadLocation(viewerTz)
	if err != nil {
		return models.DisplayInstant{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, viewerTz)
	}

	at, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+timeOfDay, serverLoc)
	if err != nil {
		return models.DisplayInstant{}, fmt.Errorf("%w: %q %q", ErrInvalidDateTime, date, timeOfDay)
	}

	local := at.In(viewerLoc)
	abbrev, _ := local.Zone()
	return models.DisplayInstant{
		Date:       local.Format(DateLayout),
		Time:       local.Format(TimeLayout),
		DayName:    local.Weekday().String(),
		Timezone:   viewerTz,
		ZoneAbbrev: abbrev,
		At:         local,
	}, nil
}

// ToServer is the inverse of ToDisplay: it returns the server-canonical date
// and time-of-day for the instant. Used on submission.
//
// The absolute instant in At is authoritative when set. Re-parsing the
// viewer-local wall clock is ambiguous during the DST fall-back repeated
// hour and can resolve to the wrong offset; the wall-clock parse is only a
// fallback for instants built without At.
func ToServer(inst models.DisplayInstant, viewerTz, serverTz string) (date, timeOfDay string, err error) {
	viewerLoc, err := time.LoadLocation(viewerTz)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidTimezone, viewerTz)
	}
	serverLoc, err := time.LoadLocation(serverTz)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidTimezone, serverTz)
	}

	at := inst.At
	if at.IsZero() {
		at, err = time.ParseInLocation(DateLayout+" "+TimeLayout, inst.Date+" "+inst.Time, viewerLoc)
		if err != nil {
			return "", "", fmt.Errorf("%w: %q %q", ErrInvalidDateTime, inst.Date, inst.Time)
		}
	}

	canonical := at.In(serverLoc)
	return canonical.Format(DateLayout), canonical.Format(TimeLayout), nil
}
