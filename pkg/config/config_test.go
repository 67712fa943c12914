package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg := fromViper(newViper())

	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 60*time.Minute, cfg.Advisor.ConversationTTL)
	assert.Equal(t, StateBackendMemory, cfg.Advisor.StateBackend)
	assert.Equal(t, 200, cfg.Advisor.MaxCombinations)
	assert.True(t, cfg.Advisor.StrictAvoidDays)
	assert.Equal(t, "07:00", cfg.Advisor.DefaultEarlyThreshold)
	assert.Equal(t, "17:30", cfg.Advisor.DefaultLateThreshold)
	assert.Equal(t, 100.0, cfg.Advisor.Weights.Base)
	assert.Equal(t, 30.0, cfg.Advisor.Weights.AvoidDayPenalty)
	assert.False(t, cfg.Auth.Enabled)
}

func TestOverridesAndFallbacks(t *testing.T) {
	v := newViper()
	v.Set("ADVISOR_CONVERSATION_TTL", "not-a-duration")
	v.Set("ADVISOR_STATE_BACKEND", " REDIS ")
	v.Set("ADVISOR_MAX_COMBINATIONS", -4)
	v.Set("ADVISOR_WEIGHT_AVOID_DAY", 50)
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := fromViper(v)
	assert.Equal(t, 60*time.Minute, cfg.Advisor.ConversationTTL)
	assert.Equal(t, StateBackendRedis, cfg.Advisor.StateBackend)
	assert.Equal(t, 200, cfg.Advisor.MaxCombinations)
	assert.Equal(t, 50.0, cfg.Advisor.Weights.AvoidDayPenalty)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}
