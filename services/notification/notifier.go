package notification

import (
	"context"

	"go.uber.org/zap"

	"mindhaven/models"
)

// Notifier delivers a session reminder to the viewer. Concrete transports
// (push, email) live outside this service; LogNotifier is the default sink.
type Notifier interface {
	SendSessionReminder(ctx context.Context, payload models.ReminderPayload) error
}

// LogNotifier records reminder deliveries in the structured log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) SendSessionReminder(_ context.Context, payload models.ReminderPayload) error {
	n.Logger.Info("session reminder due",
		zap.String("bookingID", payload.BookingID),
		zap.String("viewerID", payload.ViewerID),
		zap.String("fireDate", payload.FireDate),
		zap.String("title", payload.Title),
	)
	return nil
}
