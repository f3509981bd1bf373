package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"jumptimer/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(collection string, duration time.Duration)
	IncPersistenceErrors(collection string)
	SetCollectionSize(collection string, count int)
	IncSplits()
	IncRunsCompleted(puzzleKind string)
	ObserveRunDuration(duration time.Duration)
	SetSessionState(state string)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration *prometheus.HistogramVec
	persistenceErrors   *prometheus.CounterVec
	collectionSize      *prometheus.GaugeVec
	splitsTotal         prometheus.Counter
	runsTotal           *prometheus.CounterVec
	runDuration         prometheus.Histogram
	sessionState        *prometheus.GaugeVec
}

var sessionStates = []string{"idle", "countdown", "running", "finished"}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(collection string, duration time.Duration) {
	m.persistenceDuration.WithLabelValues(collection).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPersistenceErrors(collection string) {
	m.persistenceErrors.WithLabelValues(collection).Inc()
}

func (m *MetricsProvider) SetCollectionSize(collection string, count int) {
	m.collectionSize.WithLabelValues(collection).Set(float64(count))
}

func (m *MetricsProvider) IncSplits() {
	m.splitsTotal.Inc()
}

func (m *MetricsProvider) IncRunsCompleted(puzzleKind string) {
	m.runsTotal.WithLabelValues(puzzleKind).Inc()
}

func (m *MetricsProvider) ObserveRunDuration(duration time.Duration) {
	m.runDuration.Observe(duration.Seconds())
}

// SetSessionState keeps exactly one state label at 1.
func (m *MetricsProvider) SetSessionState(state string) {
	for _, s := range sessionStates {
		v := 0.0
		if s == state {
			v = 1
		}
		m.sessionState.WithLabelValues(s).Set(v)
	}
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}
	return newMetricsProvider(prometheus.DefaultRegisterer)
}

func newMetricsProvider(reg prometheus.Registerer) *MetricsProvider {
	m := &MetricsProvider{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jumptimer_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jumptimer_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jumptimer_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jumptimer_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jumptimer_persistence_duration_seconds",
			Help:    "Duration of store save operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection"}),

		persistenceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jumptimer_persistence_errors_total",
			Help: "Total number of failed store load/save operations",
		}, []string{"collection"}),

		collectionSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "jumptimer_collection_size",
			Help: "Number of entities held per collection",
		}, []string{"collection"}),

		splitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jumptimer_splits_total",
			Help: "Total number of checkpoints marked",
		}),

		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jumptimer_runs_completed_total",
			Help: "Total number of finished runs",
		}, []string{"puzzle_kind"}),

		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "jumptimer_run_duration_seconds",
			Help:    "Total duration of finished runs in seconds",
			Buckets: []float64{15, 30, 60, 120, 300, 600, 1200, 1800, 3600},
		}),

		sessionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "jumptimer_session_state",
			Help: "Current session state (1 for the active state)",
		}, []string{"state"}),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.cacheHits,
		m.cacheMisses,
		m.persistenceDuration,
		m.persistenceErrors,
		m.collectionSize,
		m.splitsTotal,
		m.runsTotal,
		m.runDuration,
		m.sessionState,
	)

	return m
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                    {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)    {}
func (n *noopMetrics) IncCacheHits()                                       {}
func (n *noopMetrics) IncCacheMisses()                                     {}
func (n *noopMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncPersistenceErrors(_ string)                       {}
func (n *noopMetrics) SetCollectionSize(_ string, _ int)                   {}
func (n *noopMetrics) IncSplits()                                          {}
func (n *noopMetrics) IncRunsCompleted(_ string)                           {}
func (n *noopMetrics) ObserveRunDuration(_ time.Duration)                  {}
func (n *noopMetrics) SetSessionState(_ string)                            {}
