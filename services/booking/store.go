package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"mindhaven/models"
)

// DraftStore holds transient booking drafts keyed by flow ID. The draft is
// owned exclusively by its flow instance; nothing else reads or writes it.
type DraftStore interface {
	Save(ctx context.Context, draft *models.BookingDraft) error
	Get(ctx context.Context, flowID string) (*models.BookingDraft, error)
	Delete(ctx context.Context, flowID string) error
}

// RedisDraftStore stores drafts as JSON values with a TTL, so abandoned
// flows expire on their own.
type RedisDraftStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func draftKey(flowID string) string { return "booking:draft:" + flowID }

func (s *RedisDraftStore) Save(ctx context.Context, draft *models.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal booking draft: %w", err)
	}
	if err := s.Client.Set(ctx, draftKey(draft.FlowID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("store booking draft: %w", err)
	}
	return nil
}

func (s *RedisDraftStore) Get(ctx context.Context, flowID string) (*models.BookingDraft, error) {
	data, err := s.Client.Get(ctx, draftKey(flowID)).Result()
	if err == redis.Nil {
		return nil, ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load booking draft: %w", err)
	}
	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("parse booking draft: %w", err)
	}
	return &draft, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, flowID string) error {
	if err := s.Client.Del(ctx, draftKey(flowID)).Err(); err != nil {
		return fmt.Errorf("delete booking draft: %w", err)
	}
	return nil
}
