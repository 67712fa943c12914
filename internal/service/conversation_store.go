package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

// ErrStateNotFound is returned by stores when no live state exists.
var ErrStateNotFound = models.ErrStateNotFound

// ConversationStore holds at most one live conversation per student.
type ConversationStore interface {
	Get(ctx context.Context, studentID string) (*models.ConversationState, error)
	Save(ctx context.Context, state *models.ConversationState) error
	Delete(ctx context.Context, studentID string) error
	HasActive(ctx context.Context, studentID string) (bool, error)
}

// MemoryConversationStore is a process-local store. Expiry is checked lazily
// on lookup; stale entries stay in memory until their key is read again.
type MemoryConversationStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]*models.ConversationState
}

// NewMemoryConversationStore constructs the store with the given idle TTL.
func NewMemoryConversationStore(ttl time.Duration) *MemoryConversationStore {
	if ttl <= 0 {
		ttl = 60 * time.Minute
	}
	return &MemoryConversationStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]*models.ConversationState),
	}
}

// WithClock overrides the time source.
func (s *MemoryConversationStore) WithClock(now func() time.Time) *MemoryConversationStore {
	if now != nil {
		s.now = now
	}
	return s
}

// Get returns a copy of the live state, deleting it first if it has expired.
func (s *MemoryConversationStore) Get(_ context.Context, studentID string) (*models.ConversationState, error) {
	s.mu.RLock()
	state, ok := s.items[studentID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}
	if state.Expired(s.now(), s.ttl) {
		s.mu.Lock()
		if current, ok := s.items[studentID]; ok && current == state {
			delete(s.items, studentID)
		}
		s.mu.Unlock()
		return nil, ErrStateNotFound
	}
	return cloneState(state), nil
}

// Save stamps the state and fully replaces any entry for the same student.
func (s *MemoryConversationStore) Save(_ context.Context, state *models.ConversationState) error {
	if state == nil || state.StudentID == "" {
		return errors.New("save conversation state: missing student id")
	}
	now := s.now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.LastTouched = now

	s.mu.Lock()
	s.items[state.StudentID] = cloneState(state)
	s.mu.Unlock()
	return nil
}

// Delete removes the student's state.
func (s *MemoryConversationStore) Delete(_ context.Context, studentID string) error {
	s.mu.Lock()
	delete(s.items, studentID)
	s.mu.Unlock()
	return nil
}

// HasActive reports whether the student is still answering preference questions.
func (s *MemoryConversationStore) HasActive(ctx context.Context, studentID string) (bool, error) {
	state, err := s.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return false, nil
		}
		return false, err
	}
	return state.Active(), nil
}

// Len reports how many entries are held, expired or not.
func (s *MemoryConversationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func cloneState(state *models.ConversationState) *models.ConversationState {
	clone := *state
	clone.Asked = append([]models.Question(nil), state.Asked...)
	clone.Remaining = append([]models.Question(nil), state.Remaining...)
	clone.Preference = state.Preference.Clone()
	if state.Pending != nil {
		pending := *state.Pending
		clone.Pending = &pending
	}
	return &clone
}
