package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vqdung71104/student-management-sub001/internal/dto"
	appErrors "github.com/vqdung71104/student-management-sub001/pkg/errors"
)

const resultKeyPrefix = "advisor:result:"

// CacheRepository is the key/value backend behind the result cache. Misses
// are reported as appErrors.ErrCacheMiss.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CacheService keeps ranked results addressable by session id after the
// conversation that produced them is gone, so they can be re-read and exported.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewCacheService constructs the result cache. A nil repository disables it.
func NewCacheService(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *CacheService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, ttl: ttl, logger: logger}
}

// Enabled reports whether results are retained at all.
func (s *CacheService) Enabled() bool {
	return s != nil && s.repo != nil
}

// TTL is the retention applied when the caller passes none.
func (s *CacheService) TTL() time.Duration {
	if s == nil {
		return 0
	}
	return s.ttl
}

func resultKey(sessionID string) string {
	return resultKeyPrefix + sessionID
}

// PutResult stores a ranked result under its session id.
func (s *CacheService) PutResult(ctx context.Context, result *dto.AdvisorResult, ttl time.Duration) error {
	if !s.Enabled() || result == nil {
		return nil
	}
	if result.SessionID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "result has no session id")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	start := time.Now()
	err := s.repo.Set(ctx, resultKey(result.SessionID), result, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("result cache write failed", zap.String("session_id", result.SessionID), zap.Error(err))
	}
	return err
}

// Result looks up the ranked result of a session. The boolean is false on a
// miss; backend failures are returned as errors.
func (s *CacheService) Result(ctx context.Context, sessionID string) (*dto.AdvisorResult, bool, error) {
	if !s.Enabled() {
		return nil, false, nil
	}
	start := time.Now()
	var result dto.AdvisorResult
	err := s.repo.Get(ctx, resultKey(sessionID), &result)
	elapsed := time.Since(start)
	switch {
	case err == nil:
		s.metrics.RecordCacheOperation(true, elapsed)
		return &result, true, nil
	case errors.Is(err, appErrors.ErrCacheMiss):
		s.metrics.RecordCacheOperation(false, elapsed)
		return nil, false, nil
	default:
		s.metrics.RecordCacheOperation(false, elapsed)
		s.logger.Warn("result cache read failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, false, err
	}
}
