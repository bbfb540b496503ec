package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mindhaven/models"
	"mindhaven/services/catalog"
	"mindhaven/services/notification"
	"mindhaven/services/upstream"
)

// FlowService drives one booking flow instance through its states:
// selecting_date -> selecting_time -> submitting -> booked, with back
// transitions to selecting_time on submission failure and to selecting_date
// on request.
type FlowService interface {
	Start(ctx context.Context, viewerID, packageID, viewerTz string) (*models.BookingDraft, *models.AvailabilityTemplate, error)
	StartReschedule(ctx context.Context, viewerID, viewerTz string) (*models.BookingDraft, *models.AvailabilityTemplate, error)
	EnabledDays(ctx context.Context, flowID string, year int, month time.Month, viewerTz string) ([]string, error)
	SelectDate(ctx context.Context, flowID, date string) (*models.BookingDraft, error)
	SetTimezone(ctx context.Context, flowID, tz string) (*models.BookingDraft, error)
	SelectTime(ctx context.Context, flowID, timeOfDay string) (*models.BookingDraft, error)
	Back(ctx context.Context, flowID string) (*models.BookingDraft, error)
	Submit(ctx context.Context, flowID string) (*models.BookingRecord, error)
	Cancel(ctx context.Context, flowID string) error
	Summary(ctx context.Context, flowID string) (models.SummaryCard, error)
	CurrentBooking(ctx context.Context, viewerID string) (*models.BookingRecord, error)
}

// DefaultFlowService implements FlowService. All collaborators are injected;
// the service keeps no state of its own beyond what lives in the draft store.
type DefaultFlowService struct {
	Drafts       DraftStore
	Resolver     *AvailabilityResolver
	Upstream     upstream.Client
	Catalog      catalog.Catalog
	Reminders    notification.Scheduler
	Logger       *zap.Logger
	ReminderLead time.Duration
}
