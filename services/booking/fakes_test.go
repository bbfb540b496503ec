package booking

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"mindhaven/models"
	"mindhaven/services/upstream"
)

// fakeUpstream is an in-memory stand-in for the scheduling backend.
type fakeUpstream struct {
	template     *models.AvailabilityTemplate
	templateErr  error
	availability map[string]*models.DateAvailability
	availErr     error

	fetchTemplateCalls int
	fetchDateCalls     int
	onFetchDate        func() // runs inside FetchDateAvailability, before returning

	submitFn func(req upstream.SubmitRequest) (*models.BookingRecord, error)
	booking  *models.BookingRecord
}

func (f *fakeUpstream) FetchAvailabilityTemplate(context.Context) (*models.AvailabilityTemplate, error) {
	f.fetchTemplateCalls++
	if f.templateErr != nil {
		return nil, f.templateErr
	}
	return f.template, nil
}

func (f *fakeUpstream) FetchDateAvailability(_ context.Context, date, _ string) (*models.DateAvailability, error) {
	f.fetchDateCalls++
	if f.onFetchDate != nil {
		f.onFetchDate()
	}
	if f.availErr != nil {
		return nil, f.availErr
	}
	if da, ok := f.availability[date]; ok {
		return da, nil
	}
	return &models.DateAvailability{Date: date}, nil
}

func (f *fakeUpstream) SubmitBooking(_ context.Context, req upstream.SubmitRequest) (*models.BookingRecord, error) {
	if f.submitFn != nil {
		return f.submitFn(req)
	}
	return &models.BookingRecord{
		ID:               "bk-1",
		ViewerID:         req.ViewerID,
		PackageID:        req.PackageID,
		SessionDate:      req.Date,
		SessionTime:      req.Time,
		SelectedTimezone: req.ViewerTimezone,
		ServerTimezone:   f.template.ServerTimezone,
		CreatedAt:        time.Now(),
	}, nil
}

func (f *fakeUpstream) FetchBookingDetails(context.Context, string) (*models.BookingRecord, error) {
	if f.booking == nil {
		return nil, upstream.ErrNoBooking
	}
	return f.booking, nil
}

// memoryDraftStore keeps drafts in a map with JSON copy semantics, so
// callers never share draft memory with the store.
type memoryDraftStore struct {
	drafts map[string][]byte
}

func newMemoryDraftStore() *memoryDraftStore {
	return &memoryDraftStore{drafts: make(map[string][]byte)}
}

func (s *memoryDraftStore) Save(_ context.Context, draft *models.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	s.drafts[draft.FlowID] = data
	return nil
}

func (s *memoryDraftStore) Get(_ context.Context, flowID string) (*models.BookingDraft, error) {
	data, ok := s.drafts[flowID]
	if !ok {
		return nil, ErrFlowNotFound
	}
	var draft models.BookingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (s *memoryDraftStore) Delete(_ context.Context, flowID string) error {
	delete(s.drafts, flowID)
	return nil
}

type fakeScheduler struct {
	scheduled []models.ReminderPayload
}

func (f *fakeScheduler) ScheduleSessionReminder(payload models.ReminderPayload, _ time.Time) error {
	f.scheduled = append(f.scheduled, payload)
	return nil
}

type fakeCatalog struct{}

func (fakeCatalog) List() []models.SessionPackage {
	return []models.SessionPackage{testPackage}
}

func (fakeCatalog) Get(id string) (models.SessionPackage, bool) {
	if id == testPackage.ID {
		return testPackage, true
	}
	return models.SessionPackage{}, false
}

var testPackage = models.SessionPackage{
	ID:              "single-session",
	Title:           "Single Therapy Session",
	Price:           90,
	Currency:        "USD",
	NumSessions:     1,
	DurationMinutes: 50,
	Medium:          "Zoom",
}

func testTemplate() *models.AvailabilityTemplate {
	return &models.AvailabilityTemplate{
		Windows: []models.TemplateWindow{
			{Day: "Monday", Time: "09:00:00"},
			{Day: "Monday", Time: "14:00:00"},
			{Day: "Wednesday", Time: "10:00:00"},
		},
		ServerTimezone: "America/New_York",
	}
}

func newTestResolver(fu *fakeUpstream, now time.Time) *AvailabilityResolver {
	return &AvailabilityResolver{
		Upstream: fu,
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return now },
	}
}

func newTestFlow(fu *fakeUpstream, store DraftStore, now time.Time) (*DefaultFlowService, *fakeScheduler) {
	sched := &fakeScheduler{}
	return &DefaultFlowService{
		Drafts:       store,
		Resolver:     newTestResolver(fu, now),
		Upstream:     fu,
		Catalog:      fakeCatalog{},
		Reminders:    sched,
		Logger:       zap.NewNop(),
		ReminderLead: 24 * time.Hour,
	}, sched
}
