package dto

import (
	"time"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

// TurnOutcome tells the client how to render a turn response.
type TurnOutcome string

// Turn outcomes.
const (
	OutcomeQuestion           TurnOutcome = "question"
	OutcomeReask              TurnOutcome = "reask"
	OutcomeCompleted          TurnOutcome = "completed"
	OutcomeNoFeasibleSchedule TurnOutcome = "no_feasible_schedule"
	OutcomeInfeasible         TurnOutcome = "infeasible"
	OutcomeUnsupportedIntent  TurnOutcome = "unsupported_intent"
)

// SubmitTurnRequest carries one free-text message from a student.
type SubmitTurnRequest struct {
	StudentID string `json:"student_id" validate:"required,max=64"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=64"`
	Message   string `json:"message" validate:"required,max=2000"`
}

// GenerationMetadata describes a search run.
type GenerationMetadata struct {
	Partial            bool      `json:"partial"`
	TotalFound         int       `json:"total_found"`
	ExploredNodes      int       `json:"explored_nodes"`
	MaxCombinations    int       `json:"max_combinations"`
	InfeasibleSubjects []string  `json:"infeasible_subjects,omitempty"`
	TermID             string    `json:"term_id,omitempty"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// TurnResponse is the reply to a submitted turn.
type TurnResponse struct {
	SessionID    string                    `json:"session_id"`
	Stage        models.ConversationStage  `json:"stage"`
	Outcome      TurnOutcome               `json:"outcome"`
	Message      string                    `json:"message,omitempty"`
	Question     *models.Question          `json:"question,omitempty"`
	Guidance     string                    `json:"guidance,omitempty"`
	Preference   models.CompletePreference `json:"preference"`
	Combinations []*models.Combination     `json:"combinations,omitempty"`
	Metadata     *GenerationMetadata       `json:"metadata,omitempty"`
	Restarted    bool                      `json:"restarted,omitempty"`
}

// SessionResponse exposes the live conversation of a student.
type SessionResponse struct {
	StudentID string                    `json:"student_id"`
	Active    bool                      `json:"active"`
	State     *models.ConversationState `json:"state,omitempty"`
}

// AdvisorResult is a completed recommendation kept for retrieval and export.
type AdvisorResult struct {
	SessionID    string                    `json:"session_id"`
	StudentID    string                    `json:"student_id"`
	Preference   models.CompletePreference `json:"preference"`
	Combinations []*models.Combination     `json:"combinations"`
	Metadata     GenerationMetadata        `json:"metadata"`
}
