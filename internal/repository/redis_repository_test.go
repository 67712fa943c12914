package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vqdung71104/student-management-sub001/internal/models"
	appErrors "github.com/vqdung71104/student-management-sub001/pkg/errors"
)

func newRedisFixture(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return srv, client
}

func TestConversationStateRepositoryRoundTrip(t *testing.T) {
	_, client := newRedisFixture(t)
	now := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	repo := NewConversationStateRepository(client, time.Hour, nil).WithClock(func() time.Time { return now })
	ctx := context.Background()

	state := &models.ConversationState{
		StudentID: "20210001",
		SessionID: "session-1",
		Stage:     models.StageCollectingPreferences,
		Preference: models.CompletePreference{
			TimePeriod: models.TimePeriodMorning,
			AvoidDays:  models.WeekdaySet{models.Saturday},
			Collected:  []models.Dimension{models.DimensionTimePeriod, models.DimensionDays},
		},
		Pending: &models.Question{Dimension: models.DimensionAvoidLateEnd},
	}
	require.NoError(t, repo.Save(ctx, state))
	assert.Equal(t, now, state.LastTouched)

	loaded, err := repo.Get(ctx, "20210001")
	require.NoError(t, err)
	assert.Equal(t, "session-1", loaded.SessionID)
	assert.Equal(t, models.TimePeriodMorning, loaded.Preference.TimePeriod)
	assert.Equal(t, models.WeekdaySet{models.Saturday}, loaded.Preference.AvoidDays)
	require.NotNil(t, loaded.Pending)
	assert.Equal(t, models.DimensionAvoidLateEnd, loaded.Pending.Dimension)

	active, err := repo.HasActive(ctx, "20210001")
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, repo.Delete(ctx, "20210001"))
	_, err = repo.Get(ctx, "20210001")
	assert.ErrorIs(t, err, models.ErrStateNotFound)
}

func TestConversationStateRepositoryExpires(t *testing.T) {
	srv, client := newRedisFixture(t)
	repo := NewConversationStateRepository(client, 30*time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.ConversationState{StudentID: "s1", Stage: models.StageInitial}))
	srv.FastForward(31 * time.Minute)

	_, err := repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, models.ErrStateNotFound)
	active, err := repo.HasActive(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestConversationStateRepositoryExpiresByClock(t *testing.T) {
	_, client := newRedisFixture(t)
	now := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	repo := NewConversationStateRepository(client, 30*time.Minute, nil).WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.ConversationState{StudentID: "s1", Stage: models.StageInitial}))
	now = now.Add(31 * time.Minute)

	_, err := repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, models.ErrStateNotFound)
}

func TestCacheRepositoryGetSet(t *testing.T) {
	srv, client := newRedisFixture(t)
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "missing", &dest), appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "k", map[string]int{"score": 120}, time.Minute))
	require.NoError(t, repo.Get(ctx, "k", &dest))
	assert.Equal(t, 120, dest["score"])

	require.NoError(t, repo.Delete(ctx, "k"))
	assert.False(t, srv.Exists("k"))
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	var dest string
	assert.ErrorIs(t, repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", "v", time.Minute))
}
