package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vqdung71104/student-management-sub001/internal/combination"
	"github.com/vqdung71104/student-management-sub001/internal/dto"
	"github.com/vqdung71104/student-management-sub001/internal/models"
	"github.com/vqdung71104/student-management-sub001/internal/preference"
	appErrors "github.com/vqdung71104/student-management-sub001/pkg/errors"
)

const (
	msgUnsupportedIntent = "Mình chỉ hỗ trợ gợi ý lịch học. Hãy thử: \"xếp lịch học cho mình\"."
	msgRestarted         = "Phiên trò chuyện trước đã hết hạn, mình bắt đầu lại nhé."
	msgCompleted         = "Mình đã tìm được %d phương án lịch học phù hợp."
	msgPartial           = "Mình đã tìm được %d phương án (đã dừng sớm vì quá nhiều khả năng)."
	msgNoFeasible        = "Không tìm được phương án lịch học nào không bị trùng giờ."
	msgInfeasible        = "Không có lớp phù hợp cho các môn: %s."
)

type requirementLister interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.SubjectRequirement, error)
}

type classOptionLister interface {
	ListCandidates(ctx context.Context, subjectID, termID string) ([]*models.ClassOption, error)
}

// AdvisorConfig governs generation behaviour.
type AdvisorConfig struct {
	TermID          string
	StrictAvoidDays bool
	ResultTTL       time.Duration
}

// ScheduleAdvisorService drives the preference conversation and produces ranked combinations.
type ScheduleAdvisorService struct {
	requirements requirementLister
	classes      classOptionLister
	store        ConversationStore
	intents      IntentClassifier
	collector    *preference.Collector
	generator    *combination.Generator
	scorer       *combination.Scorer
	cache        *CacheService
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	locks        *turnLocks
	cfg          AdvisorConfig
	now          func() time.Time
	newID        func() string
}

// NewScheduleAdvisorService wires advisor dependencies.
func NewScheduleAdvisorService(
	requirements requirementLister,
	classes classOptionLister,
	store ConversationStore,
	intents IntentClassifier,
	collector *preference.Collector,
	generator *combination.Generator,
	scorer *combination.Scorer,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AdvisorConfig,
) *ScheduleAdvisorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if intents == nil {
		intents = NewKeywordIntentClassifier(nil)
	}
	if collector == nil {
		collector = preference.NewCollector(nil, preference.DefaultThresholds())
	}
	if generator == nil {
		generator = combination.NewGenerator(combination.GeneratorConfig{})
	}
	if scorer == nil {
		scorer = combination.NewScorer(combination.DefaultWeights())
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 30 * time.Minute
	}
	return &ScheduleAdvisorService{
		requirements: requirements,
		classes:      classes,
		store:        store,
		intents:      intents,
		collector:    collector,
		generator:    generator,
		scorer:       scorer,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		locks:        newTurnLocks(),
		cfg:          cfg,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// WithClock overrides the time source used for timestamps.
func (s *ScheduleAdvisorService) WithClock(now func() time.Time) *ScheduleAdvisorService {
	if now != nil {
		s.now = now
	}
	return s
}

// SubmitTurn processes one student message. Parse failures, infeasible requirement
// sets and expired sessions are reported through the response outcome; only
// validation and infrastructure failures are returned as errors.
func (s *ScheduleAdvisorService) SubmitTurn(ctx context.Context, req dto.SubmitTurnRequest) (*dto.TurnResponse, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.Message = strings.TrimSpace(req.Message)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid turn payload")
	}

	unlock := s.locks.Lock(req.StudentID)
	defer unlock()

	state, err := s.loadState(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}

	var resp *dto.TurnResponse
	switch {
	case state == nil:
		resp, err = s.open(ctx, req)
	case state.Stage == models.StageGeneratingCombinations:
		resp, err = s.generate(ctx, state)
	default:
		resp, err = s.answer(ctx, state, req.Message)
	}
	if err != nil {
		s.logger.Error("advisor turn failed",
			zap.String("student_id", req.StudentID),
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordTurn(resp.Outcome)
	s.logger.Info("advisor turn",
		zap.String("student_id", req.StudentID),
		zap.String("session_id", resp.SessionID),
		zap.String("stage", string(resp.Stage)),
		zap.String("outcome", string(resp.Outcome)),
		zap.Bool("restarted", resp.Restarted),
	)
	return resp, nil
}

// loadState returns nil when the student has no live conversation.
func (s *ScheduleAdvisorService) loadState(ctx context.Context, studentID string) (*models.ConversationState, error) {
	state, err := s.store.Get(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrStateNotFound) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load conversation state")
	}
	if state.Stage == models.StageCompleted {
		return nil, nil
	}
	return state, nil
}

// open starts a conversation. A session id without live state and without a
// stored result means the previous conversation expired; the student is
// already in the scheduling flow so the intent gate is skipped. A session that
// completed is not expired and goes through the gate like a fresh message.
func (s *ScheduleAdvisorService) open(ctx context.Context, req dto.SubmitTurnRequest) (*dto.TurnResponse, error) {
	restarted := req.SessionID != "" && !s.completed(ctx, req)
	if !restarted {
		intent, err := s.intents.Classify(ctx, req.Message)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to classify intent")
		}
		if intent != IntentScheduleRecommendation {
			return &dto.TurnResponse{
				Stage:      models.StageInitial,
				Outcome:    dto.OutcomeUnsupportedIntent,
				Message:    msgUnsupportedIntent,
				Preference: models.CompletePreference{},
			}, nil
		}
	}

	now := s.now().UTC()
	state := &models.ConversationState{
		StudentID: req.StudentID,
		SessionID: s.newID(),
		Stage:     models.StageInitial,
		CreatedAt: now,
	}
	step := s.collector.Start(req.Message, state.Preference)
	state.Preference = step.Preference
	if len(step.Extracted) > 0 {
		s.logger.Debug("extracted opening preferences",
			zap.String("student_id", req.StudentID),
			zap.Any("dimensions", step.Extracted),
		)
	}

	var (
		resp *dto.TurnResponse
		err  error
	)
	if step.Done {
		resp, err = s.generate(ctx, state)
	} else {
		resp, err = s.ask(ctx, state, step)
	}
	if err != nil {
		return nil, err
	}
	if restarted {
		resp.Restarted = true
		resp.Message = strings.TrimSpace(msgRestarted + " " + resp.Message)
	}
	return resp, nil
}

// completed reports whether the session in req already produced a result for this student.
func (s *ScheduleAdvisorService) completed(ctx context.Context, req dto.SubmitTurnRequest) bool {
	result, hit, err := s.cache.Result(ctx, req.SessionID)
	if err != nil {
		s.logger.Warn("could not check for a completed session",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		return false
	}
	return hit && result.StudentID == req.StudentID
}

// answer applies a message to the pending question of a live conversation.
func (s *ScheduleAdvisorService) answer(ctx context.Context, state *models.ConversationState, message string) (*dto.TurnResponse, error) {
	var step preference.Step
	if state.Pending == nil {
		step = s.collector.Start(message, state.Preference)
	} else {
		step = s.collector.Advance(message, *state.Pending, state.Remaining, state.Preference)
	}

	if step.Reask() {
		if err := s.save(ctx, state); err != nil {
			return nil, err
		}
		return &dto.TurnResponse{
			SessionID:  state.SessionID,
			Stage:      state.Stage,
			Outcome:    dto.OutcomeReask,
			Question:   step.Next,
			Guidance:   step.Err.Guidance,
			Preference: state.Preference,
		}, nil
	}

	state.Preference = step.Preference
	if len(step.Corrected) > 0 {
		s.logger.Info("preference corrected",
			zap.String("student_id", state.StudentID),
			zap.Any("dimensions", step.Corrected),
		)
	}
	if step.Done {
		return s.generate(ctx, state)
	}
	return s.ask(ctx, state, step)
}

func (s *ScheduleAdvisorService) ask(ctx context.Context, state *models.ConversationState, step preference.Step) (*dto.TurnResponse, error) {
	state.Stage = models.StageCollectingPreferences
	state.Pending = step.Next
	state.Remaining = step.Remaining
	if step.Next != nil {
		state.Asked = append(state.Asked, *step.Next)
	}
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return &dto.TurnResponse{
		SessionID:  state.SessionID,
		Stage:      state.Stage,
		Outcome:    dto.OutcomeQuestion,
		Question:   step.Next,
		Preference: state.Preference,
	}, nil
}

// generate runs search and ranking. The state is parked in
// generating_combinations first so a failed load is retried on the next turn.
func (s *ScheduleAdvisorService) generate(ctx context.Context, state *models.ConversationState) (*dto.TurnResponse, error) {
	state.Stage = models.StageGeneratingCombinations
	state.Pending = nil
	state.Remaining = nil
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}

	candidates, err := s.loadCandidates(ctx, state.StudentID)
	if err != nil {
		return nil, err
	}
	if s.cfg.StrictAvoidDays {
		var emptied []string
		candidates, emptied = combination.ExcludeDays(candidates, state.Preference.AvoidDays)
		if len(emptied) > 0 {
			s.logger.Info("avoided days left subjects without sections",
				zap.String("student_id", state.StudentID),
				zap.Strings("subject_ids", emptied),
			)
		}
	}

	started := time.Now()
	result, genErr := s.generator.Generate(candidates)
	meta := dto.GenerationMetadata{
		MaxCombinations: s.generator.MaxCombinations(),
		TermID:          s.cfg.TermID,
		GeneratedAt:     s.now().UTC(),
	}

	resp := &dto.TurnResponse{
		SessionID:  state.SessionID,
		Stage:      models.StageCompleted,
		Preference: state.Preference,
		Metadata:   &meta,
	}

	var infeasible *combination.InfeasibleError
	switch {
	case errors.As(genErr, &infeasible):
		meta.InfeasibleSubjects = infeasible.SubjectIDs
		resp.Outcome = dto.OutcomeInfeasible
		resp.Message = fmt.Sprintf(msgInfeasible, strings.Join(s.subjectNames(candidates, infeasible.SubjectIDs), ", "))
		resp.Combinations = []*models.Combination{}
	case genErr != nil:
		return nil, appErrors.Wrap(genErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate combinations")
	default:
		ranking := s.scorer.Rank(result.Combinations, state.Preference)
		meta.Partial = result.Partial
		meta.TotalFound = len(ranking.Combinations)
		meta.ExploredNodes = result.Explored
		resp.Combinations = ranking.Combinations
		switch {
		case ranking.NoFeasibleSchedule:
			resp.Outcome = dto.OutcomeNoFeasibleSchedule
			resp.Message = msgNoFeasible
		case result.Partial:
			resp.Outcome = dto.OutcomeCompleted
			resp.Message = fmt.Sprintf(msgPartial, meta.TotalFound)
		default:
			resp.Outcome = dto.OutcomeCompleted
			resp.Message = fmt.Sprintf(msgCompleted, meta.TotalFound)
		}
	}

	elapsed := time.Since(started)
	s.metrics.ObserveGeneration(elapsed, meta.TotalFound, meta.ExploredNodes)
	s.logger.Info("combinations generated",
		zap.String("student_id", state.StudentID),
		zap.String("session_id", state.SessionID),
		zap.Int("requirements", len(candidates)),
		zap.Int("explored", meta.ExploredNodes),
		zap.Int("emitted", meta.TotalFound),
		zap.Bool("partial", meta.Partial),
		zap.Strings("infeasible_subjects", meta.InfeasibleSubjects),
		zap.Duration("duration", elapsed),
	)

	stored := &dto.AdvisorResult{
		SessionID:    state.SessionID,
		StudentID:    state.StudentID,
		Preference:   state.Preference,
		Combinations: resp.Combinations,
		Metadata:     meta,
	}
	if err := s.cache.PutResult(ctx, stored, s.cfg.ResultTTL); err != nil {
		s.logger.Warn("failed to cache advisor result", zap.String("session_id", state.SessionID), zap.Error(err))
	}

	state.Stage = models.StageCompleted
	if err := s.store.Delete(ctx, state.StudentID); err != nil {
		s.logger.Warn("failed to clear completed conversation", zap.String("student_id", state.StudentID), zap.Error(err))
	}
	return resp, nil
}

// loadCandidates fetches requirements and their sections for the active term.
func (s *ScheduleAdvisorService) loadCandidates(ctx context.Context, studentID string) ([]combination.Candidates, error) {
	reqs, err := s.requirements.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject requirements")
	}
	candidates := make([]combination.Candidates, 0, len(reqs))
	for _, req := range reqs {
		options, err := s.classes.ListCandidates(ctx, req.SubjectID, s.cfg.TermID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class options")
		}
		options = restrictOptions(options, req.ClassOptionIDs)
		if len(req.ClassOptionIDs) == 0 {
			for _, option := range options {
				req.ClassOptionIDs = append(req.ClassOptionIDs, option.ID)
			}
		}
		candidates = append(candidates, combination.Candidates{Requirement: req, Options: options})
	}
	return candidates, nil
}

// restrictOptions keeps only the listed sections; an empty list keeps all.
func restrictOptions(options []*models.ClassOption, ids []string) []*models.ClassOption {
	if len(ids) == 0 {
		return options
	}
	allowed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}
	kept := make([]*models.ClassOption, 0, len(options))
	for _, option := range options {
		if _, ok := allowed[option.ID]; ok {
			kept = append(kept, option)
		}
	}
	return kept
}

func (s *ScheduleAdvisorService) subjectNames(candidates []combination.Candidates, ids []string) []string {
	names := make(map[string]string, len(candidates))
	for _, c := range candidates {
		names[c.Requirement.SubjectID] = c.Requirement.Name
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := names[id]; name != "" {
			out = append(out, name)
			continue
		}
		out = append(out, id)
	}
	return out
}

func (s *ScheduleAdvisorService) save(ctx context.Context, state *models.ConversationState) error {
	if err := s.store.Save(ctx, state); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save conversation state")
	}
	return nil
}

// Session returns the live conversation of a student, if any.
func (s *ScheduleAdvisorService) Session(ctx context.Context, studentID string) (*dto.SessionResponse, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	state, err := s.loadState(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{StudentID: studentID, Active: state.Active(), State: state}, nil
}

// Reset discards the conversation of a student.
func (s *ScheduleAdvisorService) Reset(ctx context.Context, studentID string) error {
	if strings.TrimSpace(studentID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	unlock := s.locks.Lock(studentID)
	defer unlock()
	if err := s.store.Delete(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset conversation")
	}
	s.logger.Info("advisor conversation reset", zap.String("student_id", studentID))
	return nil
}

// Result returns the cached ranked combinations of a completed session.
func (s *ScheduleAdvisorService) Result(ctx context.Context, sessionID string) (*dto.AdvisorResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session id is required")
	}
	result, hit, err := s.cache.Result(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}
	if !hit {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found or expired")
	}
	return result, nil
}
