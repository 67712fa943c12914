package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vqdung71104/student-management-sub001/internal/dto"
	appErrors "github.com/vqdung71104/student-management-sub001/pkg/errors"
)

type failingCache struct{ err error }

func (f failingCache) Get(context.Context, string, interface{}) error { return f.err }
func (f failingCache) Set(context.Context, string, interface{}, time.Duration) error {
	return f.err
}
func (f failingCache) Delete(context.Context, ...string) error { return f.err }

func TestCacheServiceResultLifecycle(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(NewMemoryCache(), metrics, time.Minute, nil)
	ctx := context.Background()
	require.True(t, cache.Enabled())
	assert.Equal(t, time.Minute, cache.TTL())

	_, hit, err := cache.Result(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, hit)

	stored := &dto.AdvisorResult{
		SessionID: "sess-1",
		StudentID: "20210001",
		Metadata:  dto.GenerationMetadata{TotalFound: 3, TermID: "2025-1"},
	}
	require.NoError(t, cache.PutResult(ctx, stored, 0))

	got, hit, err := cache.Result(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "20210001", got.StudentID)
	assert.Equal(t, 3, got.Metadata.TotalFound)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
}

func TestCacheServiceRejectsResultWithoutSession(t *testing.T) {
	cache := NewCacheService(NewMemoryCache(), nil, 0, nil)
	err := cache.PutResult(context.Background(), &dto.AdvisorResult{StudentID: "x"}, 0)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCacheServiceSurfacesBackendErrors(t *testing.T) {
	boom := errors.New("connection refused")
	cache := NewCacheService(failingCache{err: boom}, nil, time.Minute, nil)

	_, hit, err := cache.Result(context.Background(), "sess-1")
	assert.False(t, hit)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, cache.PutResult(context.Background(), &dto.AdvisorResult{SessionID: "s"}, 0), boom)
}

func TestMemoryCacheExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 8, 18, 9, 0, 0, 0, time.UTC)}
	mem := NewMemoryCache()
	mem.now = clock.Now
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "k", "v", time.Minute))

	var out string
	require.NoError(t, mem.Get(ctx, "k", &out))
	clock.Advance(2 * time.Minute)
	assert.ErrorIs(t, mem.Get(ctx, "k", &out), appErrors.ErrCacheMiss)
}

func TestCacheServiceDisabled(t *testing.T) {
	var cache *CacheService
	assert.False(t, cache.Enabled())
	_, hit, err := cache.Result(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, cache.PutResult(context.Background(), &dto.AdvisorResult{SessionID: "s"}, 0))
}
