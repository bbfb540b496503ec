package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"mindhaven/models"
)

const TypeSessionReminder = "reminder:session"

// NewSessionReminderTask builds an asynq task that fires at the given time.
func NewSessionReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSessionReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Scheduler enqueues session reminders for later delivery.
type Scheduler interface {
	ScheduleSessionReminder(payload models.ReminderPayload, fireAt time.Time) error
}

// AsynqScheduler enqueues reminders onto the Redis-backed task queue.
type AsynqScheduler struct {
	Client *asynq.Client
}

func (s *AsynqScheduler) ScheduleSessionReminder(payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewSessionReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	if _, err := s.Client.Enqueue(task, opts...); err != nil {
		return fmt.Errorf("enqueue reminder task: %w", err)
	}
	return nil
}
