package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// State backends for live conversations.
const (
	StateBackendMemory = "memory"
	StateBackendRedis  = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Log      LogConfig
	Advisor  AdvisorConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// AuthConfig controls optional bearer-token identification of students.
type AuthConfig struct {
	Enabled bool
	Secret  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AdvisorConfig tunes the schedule advisor conversation and search.
type AdvisorConfig struct {
	ConversationTTL       time.Duration
	StateBackend          string
	MaxCombinations       int
	StrictAvoidDays       bool
	DefaultEarlyThreshold string
	DefaultLateThreshold  string
	ResultTTL             time.Duration
	ActiveTermID          string
	Weights               WeightsConfig
}

// WeightsConfig mirrors the scoring policy so it can be tuned per deployment.
type WeightsConfig struct {
	Base                  float64
	FreeDayReward         float64
	ContinuityReward      float64
	PeriodMatchReward     float64
	PeriodMismatchPenalty float64
	EarlyStartPenalty     float64
	LateEndPenalty        float64
	AvoidDayPenalty       float64
	PreferDayReward       float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Auth = AuthConfig{
		Enabled: v.GetBool("AUTH_ENABLED"),
		Secret:  v.GetString("JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("ADVISOR_STATE_BACKEND")))
	if backend != StateBackendRedis {
		backend = StateBackendMemory
	}
	maxCombinations := v.GetInt("ADVISOR_MAX_COMBINATIONS")
	if maxCombinations <= 0 {
		maxCombinations = 200
	}
	cfg.Advisor = AdvisorConfig{
		ConversationTTL:       parseDuration(v.GetString("ADVISOR_CONVERSATION_TTL"), 60*time.Minute),
		StateBackend:          backend,
		MaxCombinations:       maxCombinations,
		StrictAvoidDays:       v.GetBool("ADVISOR_STRICT_AVOID_DAYS"),
		DefaultEarlyThreshold: v.GetString("ADVISOR_DEFAULT_EARLY_THRESHOLD"),
		DefaultLateThreshold:  v.GetString("ADVISOR_DEFAULT_LATE_THRESHOLD"),
		ResultTTL:             parseDuration(v.GetString("ADVISOR_RESULT_TTL"), 30*time.Minute),
		ActiveTermID:          v.GetString("CONFIG_ACTIVE_TERM_ID"),
		Weights: WeightsConfig{
			Base:                  v.GetFloat64("ADVISOR_WEIGHT_BASE"),
			FreeDayReward:         v.GetFloat64("ADVISOR_WEIGHT_FREE_DAY"),
			ContinuityReward:      v.GetFloat64("ADVISOR_WEIGHT_CONTINUITY"),
			PeriodMatchReward:     v.GetFloat64("ADVISOR_WEIGHT_PERIOD_MATCH"),
			PeriodMismatchPenalty: v.GetFloat64("ADVISOR_WEIGHT_PERIOD_MISMATCH"),
			EarlyStartPenalty:     v.GetFloat64("ADVISOR_WEIGHT_EARLY_START"),
			LateEndPenalty:        v.GetFloat64("ADVISOR_WEIGHT_LATE_END"),
			AvoidDayPenalty:       v.GetFloat64("ADVISOR_WEIGHT_AVOID_DAY"),
			PreferDayReward:       v.GetFloat64("ADVISOR_WEIGHT_PREFER_DAY"),
		},
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "student_management")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ADVISOR_CONVERSATION_TTL", "60m")
	v.SetDefault("ADVISOR_STATE_BACKEND", StateBackendMemory)
	v.SetDefault("ADVISOR_MAX_COMBINATIONS", 200)
	v.SetDefault("ADVISOR_STRICT_AVOID_DAYS", true)
	v.SetDefault("ADVISOR_DEFAULT_EARLY_THRESHOLD", "07:00")
	v.SetDefault("ADVISOR_DEFAULT_LATE_THRESHOLD", "17:30")
	v.SetDefault("ADVISOR_RESULT_TTL", "30m")
	v.SetDefault("CONFIG_ACTIVE_TERM_ID", "")

	v.SetDefault("ADVISOR_WEIGHT_BASE", 100)
	v.SetDefault("ADVISOR_WEIGHT_FREE_DAY", 3)
	v.SetDefault("ADVISOR_WEIGHT_CONTINUITY", 2)
	v.SetDefault("ADVISOR_WEIGHT_PERIOD_MATCH", 10)
	v.SetDefault("ADVISOR_WEIGHT_PERIOD_MISMATCH", 5)
	v.SetDefault("ADVISOR_WEIGHT_EARLY_START", 8)
	v.SetDefault("ADVISOR_WEIGHT_LATE_END", 8)
	v.SetDefault("ADVISOR_WEIGHT_AVOID_DAY", 30)
	v.SetDefault("ADVISOR_WEIGHT_PREFER_DAY", 4)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
