package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"mindhaven/models"
	"mindhaven/services/upstream"
)

func mondayAvailability() map[string]*models.DateAvailability {
	return map[string]*models.DateAvailability{
		"2027-07-05": {
			Date: "2027-07-05",
			Availabilities: []models.SlotEntry{
				{Time: "09:00:00", Available: true, DayName: "Monday"},
				{Time: "14:00:00", Available: true, DayName: "Monday"},
			},
		},
	}
}

func startedFlow(t *testing.T, fu *fakeUpstream) (*DefaultFlowService, *fakeScheduler, *models.BookingDraft) {
	t.Helper()
	store := newMemoryDraftStore()
	svc, sched := newTestFlow(fu, store, mustTime(t, "2027-07-01T12:00:00Z"))
	draft, _, err := svc.Start(context.Background(), "viewer-1", "single-session", "America/New_York")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return svc, sched, draft
}

func TestStartRejectsBadInput(t *testing.T) {
	fu := &fakeUpstream{template: testTemplate()}
	store := newMemoryDraftStore()
	svc, _ := newTestFlow(fu, store, mustTime(t, "2027-07-01T12:00:00Z"))

	if _, _, err := svc.Start(context.Background(), "viewer-1", "single-session", "Mars/Olympus"); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("Start() error = %v, want ErrInvalidTimezone", err)
	}
	if _, _, err := svc.Start(context.Background(), "viewer-1", "no-such-package", "America/New_York"); !errors.Is(err, ErrUnknownPackage) {
		t.Errorf("Start() error = %v, want ErrUnknownPackage", err)
	}
}

func TestEnabledDaysTimezoneOverride(t *testing.T) {
	fu := &fakeUpstream{template: testTemplate()}
	svc, _, draft := startedFlow(t, fu)
	ctx := context.Background()

	// Empty override falls back to the flow's stored timezone.
	days, err := svc.EnabledDays(ctx, draft.FlowID, 2027, time.July, "")
	if err != nil {
		t.Fatalf("EnabledDays() error = %v", err)
	}
	if len(days) != 8 {
		t.Errorf("EnabledDays() = %v, want the month's 4 Mondays and 4 Wednesdays", days)
	}

	days, err = svc.EnabledDays(ctx, draft.FlowID, 2027, time.July, "Asia/Kolkata")
	if err != nil {
		t.Fatalf("EnabledDays() with override error = %v", err)
	}
	if len(days) != 8 {
		t.Errorf("EnabledDays() with override = %v, want 8 dates", days)
	}

	if _, err := svc.EnabledDays(ctx, draft.FlowID, 2027, time.July, "Not/AZone"); !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("EnabledDays() with bad override error = %v, want ErrInvalidTimezone", err)
	}
}

func TestSelectDateResolvesSlots(t *testing.T) {
	fu := &fakeUpstream{template: testTemplate(), availability: mondayAvailability()}
	svc, _, draft := startedFlow(t, fu)

	got, err := svc.SelectDate(context.Background(), draft.FlowID, "2027-07-05")
	if err != nil {
		t.Fatalf("SelectDate() error = %v", err)
	}
	if got.State != models.FlowSelectingTime {
		t.Errorf("state = %s, want %s", got.State, models.FlowSelectingTime)
	}
	if len(got.Slots) != 2 {
		t.Fatalf("slots = %+v, want 2 entries", got.Slots)
	}
	if got.SlotsRevision != got.Revision {
		t.Errorf("slots revision %d does not match draft revision %d", got.SlotsRevision, got.Revision)
	}
}

func TestSelectDateCoarseFilterSkipsResolution(t *testing.T) {
	fu := &fakeUpstream{template: testTemplate(), availability: mondayAvailability()}
	svc, _, draft := startedFlow(t, fu)

	// Tuesday is not in the weekly template.
	if _, err := svc.SelectDate(context.Background(), draft.FlowID, "2027-07-06"); !errors.Is(err, ErrDateNotBookable) {
		t.Fatalf("SelectDate() error = %v, want ErrDateNotBookable", err)
	}
	if fu.fetchDateCalls != 0 {
		t.Errorf("per-date availability was fetched %d times for a coarse-disabled date", fu.fetchDateCalls)
	}
}

func TestTimezoneChangeClearsSelectedTime(t *testing.T) {
	fu := &fakeUpstream{template: testTemplate(), availability: mondayAvailability()}
	svc, _, draft := startedFlow(t, fu)
	ctx := context.Background()

	if _, err := svc.SelectDate(ctx, draft.FlowID, "2027-07-05"); err != nil {
		t.Fatalf("SelectDate() error = %v", err)
	}
	got, err := svc.SelectTime(ctx, draft.FlowID, "09:00:00")
	if err != nil {
		t.Fatalf("SelectTime() error = %v", err)
	}
	if got.SelectedSlot == nil {
		t.Fatal("SelectedSlot not set after SelectTime")
	}

	got, err = svc.SetTimezone(ctx, draft.FlowID, "Asia/Kolkata")
	if err != nil {
		t.Fatalf("SetTimezone() error = %v", err)
	}
	if got.SelectedSlot != nil {
		t.Error("SelectedSlot survived a timezone change")
	}
	if got.SelectedTimezone != "Asia/Kolkata" {
		t.Errorf("timezone = %s, want Asia/Kolkata", got.SelectedTimezone)
	}
	// Slots were re-resolved under the new timezone.
	if len(got.Slots) == 0 || got.Slots[0].Time != "18:30:00" {
		t.Errorf("slots after timezone change = %+v, want first at 18:30:00 IST", got.Slots)
	}
}

func TestStaleAvailabilityResultIsDiscarded(t *testing.T) {
	store := newMemoryDraftStore()
	fu := &fakeUpstream{template: testTemplate(), availability: mondayAvailability()}
	svc, _ := newTestFlow(fu, store, mustTime(t, "2027-07-01T12:00:00Z"))
	ctx := context.Background()

	draft, _, err := svc.Start(ctx, "viewer-1", "single-session", "America/New_York")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// While the availability fetch is in flight, the viewer changes the
	// timezone, superseding the request.
	fu.onFetchDate = func() {
		fu.onFetchDate = nil // only interleave once
		current, err := store.Get(ctx, draft.FlowID)
		if err != nil {
			t.Fatalf("interleaved Get() error = %v", err)
		}
		current.SelectedTimezone = "Asia/Kolkata"
		current.Revision++
		if err := store.Save(ctx, current); err != nil {
			t.Fatalf("interleaved Save() error = %v", err)
		}
	}

	got, err := svc.SelectDate(ctx, draft.FlowID, "2027-07-05")
	if err != nil {
		t.Fatalf("SelectDate() error = %v", err)
	}
	if len(got.Slots) != 0 {
		t.Errorf("stale slot list was applied: %+v", got.Slots)
	}
	if got.SlotsRevision == got.Revision {
		t.Error("stale result was recorded as current")
	}
}

func TestSelectTimeRejectsUnofferedSlot(t *testing.T) {
	fu := &fakeUpstream{template: testTemplate(), availability: mondayAvailability()}
	svc, _, draft := startedFlow(t, fu)
	ctx := context.Background()

	if _, err := svc.SelectDate(ctx, draft.FlowID, "2027-07-05"); err != nil {
		t.Fatalf("SelectDate() error = %v", err)
	}
	if _, err := svc.SelectTime(ctx, draft.FlowID, "11:11:00"); !errors.Is(err, ErrSlotNotOffered) {
		t.Errorf("SelectTime() error = %v, want ErrSlotNotOffered", err)
	}
}

func TestSubmitHappyPath(t *testing.T) {
	store := newMemoryDraftStore()
	fu := &fakeUpstream{template: testTemplate(), availability: mondayAvailability()}
	svc, sched := newTestFlow(fu, store, mustTime(t, "2027-07-01T12:00:00Z"))
	ctx := context.Background()

	draft, _, err := svc.Start(ctx, "viewer-1", "single-session", "Asia/Kolkata")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := svc.SelectDate(ctx, draft.FlowID, "2027-07-05"); err != nil {
		t.Fatalf("SelectDate() error = %v", err)
	}
	if _, err := svc.SelectTime(ctx, draft.FlowID, "18:30:00"); err != nil {
		t.Fatalf("SelectTime() error = %v", err)
	}

	rec, err := svc.Submit(ctx, draft.FlowID)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// The viewer-local 18:30 IST selection lands as the server-canonical
	// Monday 09:00 New York slot.
	if rec.SessionDate != "2027-07-05" || rec.SessionTime != "09:00:00" {
		t.Errorf("record canonical time = %s %s, want 2027-07-05 09:00:00", rec.SessionDate, rec.SessionTime)
	}
	if rec.SelectedTimezone != "Asia/Kolkata" {
		t.Errorf("record viewer timezone = %s, want Asia/Kolkata", rec.SelectedTimezone)
	}

	// Draft is discarded once the record exists.
	if _, err := store.Get(ctx, draft.FlowID); !errors.Is(err, ErrFlowNotFound) {
		t.Errorf("draft still present after success: %v", err)
	}
	if len(sched.scheduled) != 1 {
		t.Errorf("expected one scheduled reminder, got %d", len(sched.scheduled))
	}
}

func TestSubmitSlotTakenReturnsToTimeSelection(t *testing.T) {
	store := newMemoryDraftStore()
	fu := &fakeUpstream{template: testTemplate(), availability: mondayAvailability()}
	fu.submitFn = func(upstream.SubmitRequest) (*models.BookingRecord, error) {
		return nil, upstream.ErrSlotTaken
	}
	svc, _ := newTestFlow(fu, store, mustTime(t, "2027-07-01T12:00:00Z"))
	ctx := context.Background()

	draft, _, err := svc.Start(ctx, "viewer-1", "single-session", "America/New_York")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := svc.SelectDate(ctx, draft.FlowID, "2027-07-05"); err != nil {
		t.Fatalf("SelectDate() error = %v", err)
	}
	if _, err := svc.SelectTime(ctx, draft.FlowID, "09:00:00"); err != nil {
		t.Fatalf("SelectTime() error = %v", err)
	}

	fetchesBefore := fu.fetchDateCalls
	_, err = svc.Submit(ctx, draft.FlowID)
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("Submit() error = %v, want ErrSlotTaken", err)
	}

	got, err := store.Get(ctx, draft.FlowID)
	if err != nil {
		t.Fatalf("Get() after conflict error = %v", err)
	}
	if got.State != models.FlowSelectingTime {
		t.Errorf("state after conflict = %s, want %s", got.State, models.FlowSelectingTime)
	}
	if got.SelectedSlot != nil {
		t.Error("conflicting selection was kept")
	}
	if fu.fetchDateCalls <= fetchesBefore {
		t.Error("availability was not re-resolved after the conflict")
	}
}

func TestSubmitNetworkFailureKeepsSelection(t *testing.T) {
	store := newMemoryDraftStore()
	fu := &fakeUpstream{template: testTemplate(), availability: mondayAvailability()}
	fu.submitFn = func(upstream.SubmitRequest) (*models.BookingRecord, error) {
		return nil, &upstream.NetworkError{Op: "submit booking", Err: errors.New("timeout")}
	}
	svc, _ := newTestFlow(fu, store, mustTime(t, "2027-07-01T12:00:00Z"))
	ctx := context.Background()

	draft, _, err := svc.Start(ctx, "viewer-1", "single-session", "America/New_York")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := svc.SelectDate(ctx, draft.FlowID, "2027-07-05"); err != nil {
		t.Fatalf("SelectDate() error = %v", err)
	}
	if _, err := svc.SelectTime(ctx, draft.FlowID, "09:00:00"); err != nil {
		t.Fatalf("SelectTime() error = %v", err)
	}

	if _, err := svc.Submit(ctx, draft.FlowID); !errors.Is(err, ErrSubmitFailed) {
		t.Fatalf("Submit() error = %v, want ErrSubmitFailed", err)
	}

	got, err := store.Get(ctx, draft.FlowID)
	if err != nil {
		t.Fatalf("Get() after failure error = %v", err)
	}
	if got.State != models.FlowSelectingTime {
		t.Errorf("state after failure = %s, want %s", got.State, models.FlowSelectingTime)
	}
	if got.SelectedSlot == nil || got.SelectedSlot.Time != "09:00:00" {
		t.Errorf("selection lost on retryable failure: %+v", got.SelectedSlot)
	}
}

func TestSubmitWhileSubmittingIsRejected(t *testing.T) {
	store := newMemoryDraftStore()
	fu := &fakeUpstream{template: testTemplate(), availability: mondayAvailability()}
	svc, _ := newTestFlow(fu, store, mustTime(t, "2027-07-01T12:00:00Z"))
	ctx := context.Background()

	draft, _, err := svc.Start(ctx, "viewer-1", "single-session", "America/New_York")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if _, err := svc.SelectDate(ctx, draft.FlowID, "2027-07-05"); err != nil {
		t.Fatalf("SelectDate() error = %v", err)
	}
	if _, err := svc.SelectTime(ctx, draft.FlowID, "09:00:00"); err != nil {
		t.Fatalf("SelectTime() error = %v", err)
	}

	// Freeze the draft mid-submission.
	frozen, err := store.Get(ctx, draft.FlowID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	frozen.State = models.FlowSubmitting
	if err := store.Save(ctx, frozen); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := svc.Submit(ctx, draft.FlowID); !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("Submit() error = %v, want ErrSubmitInFlight", err)
	}
}

func TestRescheduleFlowTargetsExistingBooking(t *testing.T) {
	store := newMemoryDraftStore()
	fu := &fakeUpstream{template: testTemplate(), availability: mondayAvailability()}
	fu.booking = &models.BookingRecord{
		ID:               "bk-7",
		ViewerID:         "viewer-1",
		PackageID:        "single-session",
		SessionDate:      "2027-06-07",
		SessionTime:      "09:00:00",
		SelectedTimezone: "America/New_York",
		ServerTimezone:   "America/New_York",
	}
	var submitted *upstream.SubmitRequest
	fu.submitFn = func(req upstream.SubmitRequest) (*models.BookingRecord, error) {
		submitted = &req
		rec := *fu.booking
		rec.SessionDate = req.Date
		rec.SessionTime = req.Time
		return &rec, nil
	}
	svc, _ := newTestFlow(fu, store, mustTime(t, "2027-07-01T12:00:00Z"))
	ctx := context.Background()

	draft, _, err := svc.StartReschedule(ctx, "viewer-1", "")
	if err != nil {
		t.Fatalf("StartReschedule() error = %v", err)
	}
	if draft.RescheduleID != "bk-7" {
		t.Fatalf("RescheduleID = %s, want bk-7", draft.RescheduleID)
	}
	if draft.SelectedTimezone != "America/New_York" {
		t.Errorf("timezone defaulted to %s, want the record's America/New_York", draft.SelectedTimezone)
	}

	if _, err := svc.SelectDate(ctx, draft.FlowID, "2027-07-05"); err != nil {
		t.Fatalf("SelectDate() error = %v", err)
	}
	if _, err := svc.SelectTime(ctx, draft.FlowID, "14:00:00"); err != nil {
		t.Fatalf("SelectTime() error = %v", err)
	}
	rec, err := svc.Submit(ctx, draft.FlowID)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if submitted == nil || submitted.BookingID != "bk-7" {
		t.Errorf("submit did not target the existing booking: %+v", submitted)
	}
	if rec.ID != "bk-7" {
		t.Errorf("record id = %s, want the original bk-7", rec.ID)
	}
}
