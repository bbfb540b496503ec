package booking

import (
	"mindhaven/models"
)

// SummarizeInstant renders a resolved display instant as a calendar card.
// Formatting only; no business logic lives here.
func SummarizeInstant(inst models.DisplayInstant, pkg models.SessionPackage) models.SummaryCard {
	return models.SummaryCard{
		Month:           inst.At.Format("January"),
		Day:             inst.At.Day(),
		Weekday:         inst.At.Weekday().String(),
		TimeLabel:       inst.At.Format("3:04 PM"),
		ZoneAbbrev:      inst.ZoneAbbrev,
		DurationMinutes: pkg.DurationMinutes,
		Medium:          pkg.Medium,
	}
}

// SummarizeRecord renders a confirmed booking in its viewer timezone.
func SummarizeRecord(rec *models.BookingRecord, pkg models.SessionPackage) (models.SummaryCard, error) {
	inst, err := ToDisplay(rec.SessionDate, rec.SessionTime, rec.ServerTimezone, rec.SelectedTimezone)
	if err != nil {
		return models.SummaryCard{}, err
	}
	return SummarizeInstant(inst, pkg), nil
}
