package booking

import (
	"errors"
	"testing"

	"mindhaven/models"
)

func TestSummarizeInstant(t *testing.T) {
	inst, err := ToDisplay("2027-07-05", "09:00:00", "America/New_York", "Asia/Kolkata")
	if err != nil {
		t.Fatalf("ToDisplay() error = %v", err)
	}

	card := SummarizeInstant(inst, testPackage)

	if card.Month != "July" {
		t.Errorf("Month = %s, want July", card.Month)
	}
	if card.Day != 5 {
		t.Errorf("Day = %d, want 5", card.Day)
	}
	if card.Weekday != "Monday" {
		t.Errorf("Weekday = %s, want Monday", card.Weekday)
	}
	if card.TimeLabel != "6:30 PM" {
		t.Errorf("TimeLabel = %s, want 6:30 PM", card.TimeLabel)
	}
	if card.ZoneAbbrev != "IST" {
		t.Errorf("ZoneAbbrev = %s, want IST", card.ZoneAbbrev)
	}
	if card.DurationMinutes != 50 || card.Medium != "Zoom" {
		t.Errorf("package fields = %d min %s, want 50 min Zoom", card.DurationMinutes, card.Medium)
	}
}

func TestSummarizeRecord(t *testing.T) {
	rec := &models.BookingRecord{
		SessionDate:      "2027-01-04",
		SessionTime:      "09:00:00",
		SelectedTimezone: "Asia/Kolkata",
		ServerTimezone:   "America/New_York",
	}

	card, err := SummarizeRecord(rec, testPackage)
	if err != nil {
		t.Fatalf("SummarizeRecord() error = %v", err)
	}

	// In January New York is on standard time, so the same 09:00 canonical
	// slot lands half an hour later on the Kolkata clock than it does in July.
	if card.TimeLabel != "7:30 PM" {
		t.Errorf("TimeLabel = %s, want 7:30 PM", card.TimeLabel)
	}
	if card.Month != "January" || card.Day != 4 || card.Weekday != "Monday" {
		t.Errorf("date fields = %s %d %s, want January 4 Monday", card.Month, card.Day, card.Weekday)
	}
}

func TestSummarizeRecordBadTimezone(t *testing.T) {
	rec := &models.BookingRecord{
		SessionDate:      "2027-01-04",
		SessionTime:      "09:00:00",
		SelectedTimezone: "Nowhere/Atlantis",
		ServerTimezone:   "America/New_York",
	}
	if _, err := SummarizeRecord(rec, testPackage); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("SummarizeRecord() error = %v, want ErrInvalidTimezone", err)
	}
}
