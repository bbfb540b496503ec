package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindhaven/models"
	"mindhaven/services/upstream"
)

// Start opens a new booking flow for the given package and viewer timezone.
func (s *DefaultFlowService) Start(ctx context.Context, viewerID, packageID, viewerTz string) (*models.BookingDraft, *models.AvailabilityTemplate, error) {
	if _, err := time.LoadLocation(viewerTz); err != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, viewerTz)
	}
	if _, ok := s.Catalog.Get(packageID); !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownPackage, packageID)
	}

	tpl, err := s.Resolver.Template(ctx)
	if err != nil {
		return nil, nil, err
	}

	draft := &models.BookingDraft{
		FlowID:           uuid.New().String(),
		ViewerID:         viewerID,
		PackageID:        packageID,
		State:            models.FlowSelectingDate,
		SelectedTimezone: viewerTz,
		Revision:         1,
		CreatedAt:        time.Now(),
	}
	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, nil, err
	}
	return draft, tpl, nil
}

// StartReschedule opens a flow seeded from the viewer's existing booking.
// A successful submit moves that booking rather than creating a second one.
func (s *DefaultFlowService) StartReschedule(ctx context.Context, viewerID, viewerTz string) (*models.BookingDraft, *models.AvailabilityTemplate, error) {
	rec, err := s.Upstream.FetchBookingDetails(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	if viewerTz == "" {
		viewerTz = rec.SelectedTimezone
	}
	if _, err := time.LoadLocation(viewerTz); err != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, viewerTz)
	}

	tpl, err := s.Resolver.Template(ctx)
	if err != nil {
		return nil, nil, err
	}

	draft := &models.BookingDraft{
		FlowID:           uuid.New().String(),
		ViewerID:         viewerID,
		PackageID:        rec.PackageID,
		RescheduleID:     rec.ID,
		State:            models.FlowSelectingDate,
		SelectedTimezone: viewerTz,
		Revision:         1,
		CreatedAt:        time.Now(),
	}
	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, nil, err
	}
	return draft, tpl, nil
}

// EnabledDays lists the clickable dates of a month. An empty viewerTz falls
// back to the flow's stored timezone; a non-empty one previews the month in
// another zone without touching the draft.
func (s *DefaultFlowService) EnabledDays(ctx context.Context, flowID string, year int, month time.Month, viewerTz string) ([]string, error) {
	draft, err := s.Drafts.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if viewerTz == "" {
		viewerTz = draft.SelectedTimezone
	}
	tpl, err := s.Resolver.Template(ctx)
	if err != nil {
		return nil, err
	}
	return s.Resolver.EnabledDays(tpl, year, month, viewerTz)
}

// SelectDate picks a calendar date. Coarse-disabled dates are rejected
// without ever fetching per-slot detail; otherwise the flow moves to time
// selection and availability is resolved for the new date.
func (s *DefaultFlowService) SelectDate(ctx context.Context, flowID, date string) (*models.BookingDraft, error) {
	draft, err := s.Drafts.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if draft.State == models.FlowSubmitting {
		return nil, ErrSubmitInFlight
	}

	tpl, err := s.Resolver.Template(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := s.Resolver.DateEnabled(tpl, date, draft.SelectedTimezone)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDateNotBookable, date)
	}

	draft.SelectedDate = date
	draft.SelectedSlot = nil // a time picked for another date is meaningless
	draft.State = models.FlowSelectingTime
	draft.Revision++
	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return s.resolveAndApply(ctx, draft.FlowID, draft.Revision, date, draft.SelectedTimezone)
}

// SetTimezone changes the display timezone. Any previously selected time is
// cleared unconditionally: an old display time relative to a new timezone is
// invalid, so it must be re-derived, never reinterpreted.
func (s *DefaultFlowService) SetTimezone(ctx context.Context, flowID, tz string) (*models.BookingDraft, error) {
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	draft, err := s.Drafts.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if draft.State == models.FlowSubmitting {
		return nil, ErrSubmitInFlight
	}

	draft.SelectedTimezone = tz
	draft.SelectedSlot = nil
	draft.Slots = nil
	draft.Revision++

	if draft.SelectedDate != "" {
		tpl, err := s.Resolver.Template(ctx)
		if err != nil {
			return nil, err
		}
		ok, err := s.Resolver.DateEnabled(tpl, draft.SelectedDate, tz)
		if err != nil {
			return nil, err
		}
		if !ok {
			// The chosen date may have slipped into the past under the new zone.
			draft.SelectedDate = ""
			draft.State = models.FlowSelectingDate
		}
	}

	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	if draft.State == models.FlowSelectingTime && draft.SelectedDate != "" {
		return s.resolveAndApply(ctx, draft.FlowID, draft.Revision, draft.SelectedDate, tz)
	}
	return draft, nil
}

// resolveAndApply fetches availability for the given selection and applies
// the result only if the draft's revision still matches the one the fetch
// was issued under. A result for a superseded selection is discarded, so a
// stale response can never overwrite the current slot list.
func (s *DefaultFlowService) resolveAndApply(ctx context.Context, flowID string, revision int64, date, tz string) (*models.BookingDraft, error) {
	slots, err := s.Resolver.Resolve(ctx, date, tz)
	if err != nil {
		return nil, err
	}

	draft, err := s.Drafts.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if draft.Revision != revision {
		s.Logger.Debug("discarding stale availability result",
			zap.String("flowID", flowID),
			zap.Int64("requested", revision),
			zap.Int64("current", draft.Revision))
		return draft, nil
	}

	draft.Slots = slots
	draft.SlotsRevision = revision
	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// SelectTime picks one of the offered display instants by its viewer-local
// wall clock. Times outside the resolved list are rejected, which also
// covers entries the backend marked unavailable (they are never offered).
func (s *DefaultFlowService) SelectTime(ctx context.Context, flowID, timeOfDay string) (*models.BookingDraft, error) {
	draft, err := s.Drafts.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if draft.State == models.FlowSubmitting {
		return nil, ErrSubmitInFlight
	}
	if draft.State != models.FlowSelectingTime || draft.SelectedDate == "" {
		return nil, ErrNoSelection
	}
	if draft.SlotsRevision != draft.Revision {
		// Offered list is stale relative to the current selection.
		return nil, ErrSlotNotOffered
	}

	for i := range draft.Slots {
		if draft.Slots[i].Time == timeOfDay {
			slot := draft.Slots[i]
			draft.SelectedSlot = &slot
			if err := s.Drafts.Save(ctx, draft); err != nil {
				return nil, err
			}
			return draft, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSlotNotOffered, timeOfDay)
}

// Back returns from time selection to date selection, keeping the timezone.
func (s *DefaultFlowService) Back(ctx context.Context, flowID string) (*models.BookingDraft, error) {
	draft, err := s.Drafts.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if draft.State == models.FlowSubmitting {
		return nil, ErrSubmitInFlight
	}

	draft.State = models.FlowSelectingDate
	draft.SelectedSlot = nil
	draft.Slots = nil
	draft.Revision++
	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Submit sends the selection to the backend in server-canonical form.
//
// While a submission is outstanding the draft sits in submitting and repeat
// submits are rejected; the backend additionally receives an idempotency key
// as the second line of defense against duplicates. On ErrSlotTaken the flow
// returns to time selection and availability is re-resolved for the same
// date; on any other failure the selection is kept so the viewer can retry
// in place.
func (s *DefaultFlowService) Submit(ctx context.Context, flowID string) (*models.BookingRecord, error) {
	draft, err := s.Drafts.Get(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if draft.State == models.FlowSubmitting {
		return nil, ErrSubmitInFlight
	}
	if draft.State != models.FlowSelectingTime || draft.SelectedSlot == nil {
		return nil, ErrNoSelection
	}

	draft.State = models.FlowSubmitting
	if err := s.Drafts.Save(ctx, draft); err != nil {
		return nil, err
	}

	tpl, err := s.Resolver.Template(ctx)
	if err != nil {
		s.revertToSelectingTime(ctx, draft)
		return nil, err
	}
	date, timeOfDay, err := ToServer(*draft.SelectedSlot, draft.SelectedTimezone, tpl.ServerTimezone)
	if err != nil {
		s.revertToSelectingTime(ctx, draft)
		return nil, err
	}

	rec, err := s.Upstream.SubmitBooking(ctx, upstream.SubmitRequest{
		BookingID:      draft.RescheduleID,
		ViewerID:       draft.ViewerID,
		PackageID:      draft.PackageID,
		Date:           date,
		Time:           timeOfDay,
		ViewerTimezone: draft.SelectedTimezone,
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		if errors.Is(err, upstream.ErrSlotTaken) {
			draft.SelectedSlot = nil
			draft.State = models.FlowSelectingTime
			draft.Revision++
			if saveErr := s.Drafts.Save(ctx, draft); saveErr != nil {
				s.Logger.Error("failed to persist draft after slot conflict", zap.Error(saveErr))
			} else if _, resolveErr := s.resolveAndApply(ctx, draft.FlowID, draft.Revision, draft.SelectedDate, draft.SelectedTimezone); resolveErr != nil {
				s.Logger.Warn("re-resolve after slot conflict failed", zap.Error(resolveErr))
			}
			return nil, fmt.Errorf("%w: %v", ErrSlotTaken, err)
		}
		s.revertToSelectingTime(ctx, draft)
		return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	s.scheduleReminder(draft, rec)

	if err := s.Drafts.Delete(ctx, draft.FlowID); err != nil {
		s.Logger.Warn("failed to delete draft after booking", zap.String("flowID", draft.FlowID), zap.Error(err))
	}
	s.Logger.Info("booking confirmed",
		zap.String("bookingID", rec.ID),
		zap.String("viewerID", rec.ViewerID),
		zap.String("sessionDate", rec.SessionDate),
		zap.String("sessionTime", rec.SessionTime))
	return rec, nil
}

// revertToSelectingTime puts the draft back where retry is possible without
// losing the selection.
func (s *DefaultFlowService) revertToSelectingTime(ctx context.Context, draft *models.BookingDraft) {
	draft.State = models.FlowSelectingTime
	if err := s.Drafts.Save(ctx, draft); err != nil {
		s.Logger.Error("failed to revert draft state", zap.String("flowID", draft.FlowID), zap.Error(err))
	}
}

func (s *DefaultFlowService) scheduleReminder(draft *models.BookingDraft, rec *models.BookingRecord) {
	if s.Reminders == nil || draft.SelectedSlot == nil {
		return
	}
	fireAt := draft.SelectedSlot.At.Add(-s.ReminderLead)
	if !fireAt.After(time.Now()) {
		return
	}
	payload := models.ReminderPayload{
		BookingID: rec.ID,
		ViewerID:  rec.ViewerID,
		Title:     "Upcoming session",
		Body:      "Your session is coming up on " + draft.SelectedSlot.Date + " at " + draft.SelectedSlot.Time + " " + draft.SelectedSlot.ZoneAbbrev,
		FireDate:  fireAt.Format(time.RFC3339),
	}
	if err := s.Reminders.ScheduleSessionReminder(payload, fireAt); err != nil {
		// Reminder delivery is best effort; the booking itself stands.
		s.Logger.Warn("failed to schedule session reminder", zap.String("bookingID", rec.ID), zap.Error(err))
	}
}

// Cancel abandons the flow and discards its draft.
func (s *DefaultFlowService) Cancel(ctx context.Context, flowID string) error {
	return s.Drafts.Delete(ctx, flowID)
}

// Summary renders the current selection as a calendar card.
func (s *DefaultFlowService) Summary(ctx context.Context, flowID string) (models.SummaryCard, error) {
	draft, err := s.Drafts.Get(ctx, flowID)
	if err != nil {
		return models.SummaryCard{}, err
	}
	if draft.SelectedSlot == nil {
		return models.SummaryCard{}, ErrNoSelection
	}
	pkg, ok := s.Catalog.Get(draft.PackageID)
	if !ok {
		return models.SummaryCard{}, fmt.Errorf("%w: %q", ErrUnknownPackage, draft.PackageID)
	}
	return SummarizeInstant(*draft.SelectedSlot, pkg), nil
}

// CurrentBooking returns the viewer's existing booking, if any.
func (s *DefaultFlowService) CurrentBooking(ctx context.Context, viewerID string) (*models.BookingRecord, error) {
	return s.Upstream.FetchBookingDetails(ctx, viewerID)
}
