package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vqdung71104/student-management-sub001/internal/dto"
)

// MetricsSnapshot is a lightweight JSON view of the collected counters.
type MetricsSnapshot struct {
	CacheHitRatio            float64           `json:"cache_hit_ratio"`
	CacheHits                uint64            `json:"cache_hits"`
	CacheMisses              uint64            `json:"cache_misses"`
	RequestsTotal            uint64            `json:"requests_total"`
	AverageRequestDurationMs float64           `json:"average_request_duration_ms"`
	Turns                    map[string]uint64 `json:"turns"`
	GenerationRuns           uint64            `json:"generation_runs"`
	AverageGenerationMs      float64           `json:"average_generation_ms"`
	Goroutines               int               `json:"goroutines"`
	GeneratedAt              time.Time         `json:"generated_at"`
}

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	cacheLatency        prometheus.Observer
	cacheWrite          prometheus.Observer
	cacheHitRatio       prometheus.Gauge
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	turnsTotal          *prometheus.CounterVec
	generationDuration  prometheus.Histogram
	combinationsEmitted prometheus.Histogram
	exploredNodes       prometheus.Histogram

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	generationCount      uint64
	generationTotal      uint64
	turnCounts           [len(turnOutcomes)]uint64
}

var turnOutcomes = [...]dto.TurnOutcome{
	dto.OutcomeQuestion,
	dto.OutcomeReask,
	dto.OutcomeCompleted,
	dto.OutcomeNoFeasibleSchedule,
	dto.OutcomeInfeasible,
	dto.OutcomeUnsupportedIntent,
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	turnsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_turns_total",
		Help: "Conversation turns processed, by outcome",
	}, []string{"outcome"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_generation_duration_seconds",
		Help:    "Time spent generating and ranking combinations",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	combinationsEmitted := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_combinations_emitted",
		Help:    "Combinations emitted per generation run",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200, 500},
	})

	exploredNodes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_explored_nodes",
		Help:    "Search nodes visited per generation run",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		turnsTotal, generationDuration, combinationsEmitted, exploredNodes, goroutines)

	return &MetricsService{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		cacheLatency:        cacheLatency,
		cacheWrite:          cacheWrite,
		cacheHitRatio:       cacheHitRatio,
		cacheHits:           cacheHits,
		cacheMisses:         cacheMisses,
		turnsTotal:          turnsTotal,
		generationDuration:  generationDuration,
		combinationsEmitted: combinationsEmitted,
		exploredNodes:       exploredNodes,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordTurn counts a processed conversation turn.
func (m *MetricsService) RecordTurn(outcome dto.TurnOutcome) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(string(outcome)).Inc()
	for i, o := range turnOutcomes {
		if o == outcome {
			atomic.AddUint64(&m.turnCounts[i], 1)
			break
		}
	}
}

// ObserveGeneration records one search-and-rank run.
func (m *MetricsService) ObserveGeneration(duration time.Duration, emitted, explored int) {
	if m == nil {
		return
	}
	m.generationDuration.Observe(duration.Seconds())
	m.combinationsEmitted.Observe(float64(emitted))
	m.exploredNodes.Observe(float64(explored))
	atomic.AddUint64(&m.generationCount, 1)
	atomic.AddUint64(&m.generationTotal, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated metrics suitable for JSON endpoints.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	runs := atomic.LoadUint64(&m.generationCount)
	runDuration := atomic.LoadUint64(&m.generationTotal)

	var cacheRatio float64
	if total := hits + misses; total > 0 {
		cacheRatio = float64(hits) / float64(total)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgGenerationMs float64
	if runs > 0 {
		avgGenerationMs = float64(runDuration) / float64(runs) / float64(time.Millisecond)
	}

	turns := make(map[string]uint64, len(turnOutcomes))
	for i, o := range turnOutcomes {
		turns[string(o)] = atomic.LoadUint64(&m.turnCounts[i])
	}

	return MetricsSnapshot{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		Turns:                    turns,
		GenerationRuns:           runs,
		AverageGenerationMs:      avgGenerationMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
