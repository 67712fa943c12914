package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

const conversationKeyPrefix = "advisor:conversation:"

// ConversationStateRepository keeps live conversations in Redis with a
// sliding per-key expiry refreshed on every save.
type ConversationStateRepository struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewConversationStateRepository constructs the repository.
func NewConversationStateRepository(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *ConversationStateRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationStateRepository{client: client, ttl: ttl, logger: logger, now: time.Now}
}

// WithClock overrides the time source used to stamp and expire states.
func (r *ConversationStateRepository) WithClock(now func() time.Time) *ConversationStateRepository {
	if now != nil {
		r.now = now
	}
	return r
}

func conversationKey(studentID string) string {
	return conversationKeyPrefix + studentID
}

// Get loads the live state for a student. Missing and expired states both
// return models.ErrStateNotFound.
func (r *ConversationStateRepository) Get(ctx context.Context, studentID string) (*models.ConversationState, error) {
	key := conversationKey(studentID)
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrStateNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var state models.ConversationState
	if err := json.Unmarshal(raw, &state); err != nil {
		r.logger.Warn("discarding unreadable conversation state", zap.String("student_id", studentID), zap.Error(err))
		_ = r.client.Del(ctx, key).Err()
		return nil, models.ErrStateNotFound
	}
	if state.Expired(r.now(), r.ttl) {
		_ = r.client.Del(ctx, key).Err()
		return nil, models.ErrStateNotFound
	}
	return &state, nil
}

// Save stamps the state and replaces whatever was stored for the student.
func (r *ConversationStateRepository) Save(ctx context.Context, state *models.ConversationState) error {
	if state == nil || state.StudentID == "" {
		return fmt.Errorf("save conversation state: missing student id")
	}
	now := r.now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.LastTouched = now

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal conversation state: %w", err)
	}
	key := conversationKey(state.StudentID)
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes the student's state.
func (r *ConversationStateRepository) Delete(ctx context.Context, studentID string) error {
	key := conversationKey(studentID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// HasActive reports whether the student is still answering preference questions.
func (r *ConversationStateRepository) HasActive(ctx context.Context, studentID string) (bool, error) {
	state, err := r.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, models.ErrStateNotFound) {
			return false, nil
		}
		return false, err
	}
	return state.Active(), nil
}
