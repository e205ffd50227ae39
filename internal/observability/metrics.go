package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for check resolution.
type Metrics struct {
	registry      *prometheus.Registry
	Checks        *prometheus.CounterVec
	Rerolls       *prometheus.CounterVec
	Attempts      *prometheus.CounterVec
	TokenFailures prometheus.Counter
	StoreErrors   *prometheus.CounterVec
}

// NewMetrics constructs a registry with the arcanist collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	checks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arcanist_checks_total",
		Help: "Checks resolved, by surface and whether a DC was set",
	}, []string{"surface", "dc"})

	rerolls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arcanist_rerolls_total",
		Help: "Reroll actions resolved, by surface",
	}, []string{"surface"})

	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arcanist_check_attempts_total",
		Help: "Individual d20 attempts by result (success, failure, unjudged)",
	}, []string{"result"})

	tokens := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arcanist_token_decode_failures_total",
		Help: "Action tokens that failed to decode",
	})

	storeErrs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arcanist_store_errors_total",
		Help: "Character store failures by operation",
	}, []string{"operation"})

	reg.MustRegister(checks, rerolls, attempts, tokens, storeErrs)

	return &Metrics{
		registry:      reg,
		Checks:        checks,
		Rerolls:       rerolls,
		Attempts:      attempts,
		TokenFailures: tokens,
		StoreErrors:   storeErrs,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCheck counts a resolved check and its attempts.
func (m *Metrics) RecordCheck(surface string, hasDC bool, attempts, successes int) {
	if m == nil {
		return
	}
	if surface == "" {
		surface = "unknown"
	}
	dc := "false"
	if hasDC {
		dc = "true"
	}
	m.Checks.WithLabelValues(surface, dc).Inc()
	if !hasDC {
		m.Attempts.WithLabelValues("unjudged").Add(float64(attempts))
		return
	}
	m.Attempts.WithLabelValues("success").Add(float64(successes))
	m.Attempts.WithLabelValues("failure").Add(float64(attempts - successes))
}

// RecordReroll counts a resolved reroll.
func (m *Metrics) RecordReroll(surface string) {
	if m == nil {
		return
	}
	if surface == "" {
		surface = "unknown"
	}
	m.Rerolls.WithLabelValues(surface).Inc()
}

// RecordTokenFailure counts a token that could not be decoded.
func (m *Metrics) RecordTokenFailure() {
	if m == nil {
		return
	}
	m.TokenFailures.Inc()
}

// RecordStoreError counts a character store failure.
func (m *Metrics) RecordStoreError(operation string) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "unknown"
	}
	m.StoreErrors.WithLabelValues(operation).Inc()
}
