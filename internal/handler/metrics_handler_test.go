package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/vqdung71104/student-management-sub001/internal/dto"
	"github.com/vqdung71104/student-management-sub001/internal/service"
)

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	healthy := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"postgres": func(ctx context.Context) error { return nil },
	})
	failing := NewMetricsHandler(nil, map[string]ReadinessCheck{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("dial tcp: refused") },
	})

	r := gin.New()
	r.GET("/ready", healthy.Ready)
	r.GET("/ready-failing", failing.Ready)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready-failing", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "refused")
}

func TestMetricsHandlerPrometheusAndSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.RecordTurn(dto.OutcomeCompleted)
	h := NewMetricsHandler(metrics, nil)

	r := gin.New()
	r.GET("/metrics", h.Prometheus)
	r.GET("/snapshot", h.Snapshot)
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `advisor_turns_total{outcome="completed"} 1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/snapshot", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed":1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsHandlerWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(nil, nil)
	r := gin.New()
	r.GET("/metrics", h.Prometheus)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
