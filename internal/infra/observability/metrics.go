package observability

import (
	"time"

	"github.com/coverdesk/insurance-backoffice-go/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the back office.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	storeErrors     *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	claimsCreated   prometheus.Counter
	transitions     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backoffice_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_store_errors_total",
				Help: "Total errors from the persistence store.",
			},
			[]string{"entity"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		claimsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "backoffice_claims_created_total",
				Help: "Total claims created.",
			},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backoffice_claim_transitions_total",
				Help: "Claim status transitions by action and outcome.",
			},
			[]string{"action", "outcome"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the store error counter for an entity.
func (m *Metrics) IncrStoreError(entity string) {
	m.storeErrors.WithLabelValues(entity).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrClaimCreated increments the created-claims counter.
func (m *Metrics) IncrClaimCreated() {
	m.claimsCreated.Inc()
}

// IncrTransition records a transition attempt. Outcome is "applied",
// "invalid_transition" or "invalid_amount".
func (m *Metrics) IncrTransition(action, outcome string) {
	m.transitions.WithLabelValues(action, outcome).Inc()
}

// ClaimsSnapshot returns cumulative lifecycle counters for the
// GET /v1/metrics/claims endpoint.
func (m *Metrics) ClaimsSnapshot() *domain.ClaimsMetrics {
	approved := getCounterValue(m.transitions, "approve", "applied")
	rejected := getCounterValue(m.transitions, "reject", "applied")
	settled := getCounterValue(m.transitions, "settle", "applied")

	invalid := float64(0)
	for _, action := range []string{"approve", "reject", "settle"} {
		invalid += getCounterValue(m.transitions, action, "invalid_transition")
		invalid += getCounterValue(m.transitions, action, "invalid_amount")
	}

	hits := getCounterValue(m.cacheHits, "customers") + getCounterValue(m.cacheHits, "policies")
	misses := getCounterValue(m.cacheMisses, "customers") + getCounterValue(m.cacheMisses, "policies")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	storeErrors := float64(0)
	for _, entity := range []string{"customers", "policies", "claims", "staff"} {
		storeErrors += getCounterValue(m.storeErrors, entity)
	}

	created := float64(0)
	d := &dto.Metric{}
	if err := m.claimsCreated.Write(d); err == nil && d.Counter != nil && d.Counter.Value != nil {
		created = *d.Counter.Value
	}

	return &domain.ClaimsMetrics{
		ClaimsCreated:       int64(created),
		ClaimsApproved:      int64(approved),
		ClaimsRejected:      int64(rejected),
		ClaimsSettled:       int64(settled),
		RejectedTransitions: int64(invalid),
		StoreErrors:         int64(storeErrors),
		CacheHitRate:        hitRate,
		Period:              "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for
// the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
