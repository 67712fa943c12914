package models

import (
	"errors"
	"time"
)

// ErrStateNotFound is returned when a student has no live conversation,
// including one that has expired.
var ErrStateNotFound = errors.New("conversation state not found")

// ConversationStage is the step of the preference-elicitation protocol.
type ConversationStage string

// Conversation stages.
const (
	StageInitial                ConversationStage = "initial"
	StageCollectingPreferences  ConversationStage = "collecting_preferences"
	StageGeneratingCombinations ConversationStage = "generating_combinations"
	StageCompleted              ConversationStage = "completed"
)

// DayFraming says whether a day answer lists days to avoid or days to prefer.
type DayFraming string

// Day question framings.
const (
	DayFramingAvoid  DayFraming = "avoid"
	DayFramingPrefer DayFraming = "prefer"
)

// Question describes which dimension is being asked and how.
type Question struct {
	Dimension Dimension  `json:"dimension"`
	Framing   DayFraming `json:"framing,omitempty"`
	Prompt    string     `json:"prompt"`
}

// ConversationState is the live dialogue state for one student.
type ConversationState struct {
	StudentID   string             `json:"student_id"`
	SessionID   string             `json:"session_id"`
	Stage       ConversationStage  `json:"stage"`
	Asked       []Question         `json:"asked"`
	Remaining   []Question         `json:"remaining"`
	Preference  CompletePreference `json:"preference"`
	Pending     *Question          `json:"pending,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	LastTouched time.Time          `json:"last_touched"`
}

// Active reports whether the conversation still expects preference answers.
func (s *ConversationState) Active() bool {
	return s != nil && (s.Stage == StageInitial || s.Stage == StageCollectingPreferences)
}

// Expired reports whether the state has been idle for longer than ttl.
func (s *ConversationState) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(s.LastTouched) > ttl
}
