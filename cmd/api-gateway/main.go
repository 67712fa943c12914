package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vqdung71104/student-management-sub001/api/swagger"
	"github.com/vqdung71104/student-management-sub001/internal/combination"
	"github.com/vqdung71104/student-management-sub001/internal/handler"
	"github.com/vqdung71104/student-management-sub001/internal/middleware"
	"github.com/vqdung71104/student-management-sub001/internal/models"
	"github.com/vqdung71104/student-management-sub001/internal/preference"
	"github.com/vqdung71104/student-management-sub001/internal/repository"
	"github.com/vqdung71104/student-management-sub001/internal/service"
	"github.com/vqdung71104/student-management-sub001/pkg/cache"
	"github.com/vqdung71104/student-management-sub001/pkg/config"
	"github.com/vqdung71104/student-management-sub001/pkg/database"
	"github.com/vqdung71104/student-management-sub001/pkg/logger"
	corsmiddleware "github.com/vqdung71104/student-management-sub001/pkg/middleware/cors"
	reqidmiddleware "github.com/vqdung71104/student-management-sub001/pkg/middleware/requestid"
)

// @title Student Schedule Advisor API
// @version 1.0.0
// @description Conversation-driven class schedule recommendations
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient redis.Cmdable
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, using in-memory state and cache", zap.Error(err))
		} else {
			defer client.Close()
			redisClient = client
		}
	}

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository = service.NewMemoryCache()
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	resultCache := service.NewCacheService(cacheRepo, metrics, cfg.Advisor.ResultTTL, logr)

	var store service.ConversationStore
	switch {
	case cfg.Advisor.StateBackend == config.StateBackendRedis && redisClient != nil:
		store = repository.NewConversationStateRepository(redisClient, cfg.Advisor.ConversationTTL, logr)
	default:
		if cfg.Advisor.StateBackend == config.StateBackendRedis {
			logr.Warn("redis state backend requested but redis is unavailable, falling back to memory")
		}
		store = service.NewMemoryConversationStore(cfg.Advisor.ConversationTTL)
	}

	weights := combination.Weights{
		Base:                  cfg.Advisor.Weights.Base,
		FreeDayReward:         cfg.Advisor.Weights.FreeDayReward,
		ContinuityReward:      cfg.Advisor.Weights.ContinuityReward,
		PeriodMatchReward:     cfg.Advisor.Weights.PeriodMatchReward,
		PeriodMismatchPenalty: cfg.Advisor.Weights.PeriodMismatchPenalty,
		EarlyStartPenalty:     cfg.Advisor.Weights.EarlyStartPenalty,
		LateEndPenalty:        cfg.Advisor.Weights.LateEndPenalty,
		AvoidDayPenalty:       cfg.Advisor.Weights.AvoidDayPenalty,
		PreferDayReward:       cfg.Advisor.Weights.PreferDayReward,
	}
	if err := weights.Validate(); err != nil {
		logr.Fatal("invalid scoring weights", zap.Error(err))
	}

	collector := preference.NewCollector(nil, thresholds(cfg.Advisor, logr))
	generator := combination.NewGenerator(combination.GeneratorConfig{MaxCombinations: cfg.Advisor.MaxCombinations})
	scorer := combination.NewScorer(weights)

	advisorSvc := service.NewScheduleAdvisorService(
		repository.NewSubjectRequirementRepository(db),
		repository.NewClassOptionRepository(db),
		store,
		service.NewKeywordIntentClassifier(nil),
		collector,
		generator,
		scorer,
		resultCache,
		metrics,
		validator.New(),
		logr,
		service.AdvisorConfig{
			TermID:          cfg.Advisor.ActiveTermID,
			StrictAvoidDays: cfg.Advisor.StrictAvoidDays,
			ResultTTL:       cfg.Advisor.ResultTTL,
		},
	)
	exportSvc := service.NewExportService(logr, nil, nil, nil)
	tokenSvc := service.NewTokenService(cfg.Auth.Secret)

	advisorHandler := handler.NewAdvisorHandler(advisorSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, readinessChecks(db, redisClient))

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)
	if cfg.Auth.Enabled {
		api.Use(middleware.JWT(tokenSvc))
	}

	advisor := api.Group("/advisor")
	advisor.POST("/turns", advisorHandler.SubmitTurn)
	advisor.GET("/sessions/:studentId", middleware.StudentScope("studentId"), advisorHandler.Session)
	advisor.DELETE("/sessions/:studentId", middleware.StudentScope("studentId"), advisorHandler.Reset)
	advisor.GET("/results/:sessionId", advisorHandler.Result)
	advisor.GET("/results/:sessionId/export", advisorHandler.Export)
	if cfg.Auth.Enabled {
		advisor.GET("/metrics", middleware.RequireRoles(models.RoleAdvisor, models.RoleAdmin), metricsHandler.Snapshot)
	} else {
		advisor.GET("/metrics", metricsHandler.Snapshot)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting",
		"addr", addr,
		"env", cfg.Env,
		"state_backend", cfg.Advisor.StateBackend,
		"redis", redisClient != nil,
		"auth", cfg.Auth.Enabled,
	)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// thresholds parses the configured default avoidance times, keeping the
// built-in value for anything unparseable.
func thresholds(cfg config.AdvisorConfig, logr *zap.Logger) preference.Defaults {
	defaults := preference.DefaultThresholds()
	if t, err := models.ParseClock(cfg.DefaultEarlyThreshold); err == nil {
		defaults.EarlyThreshold = t
	} else if cfg.DefaultEarlyThreshold != "" {
		logr.Warn("invalid early threshold, using default", zap.String("value", cfg.DefaultEarlyThreshold), zap.Error(err))
	}
	if t, err := models.ParseClock(cfg.DefaultLateThreshold); err == nil {
		defaults.LateThreshold = t
	} else if cfg.DefaultLateThreshold != "" {
		logr.Warn("invalid late threshold, using default", zap.String("value", cfg.DefaultLateThreshold), zap.Error(err))
	}
	return defaults
}

func readinessChecks(db *sqlx.DB, redisClient redis.Cmdable) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return checks
}
