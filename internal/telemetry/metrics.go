// Package telemetry holds the prometheus collectors and the OpenTelemetry
// tracer setup shared by the HTTP API.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calculation outcome labels.
const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

var (
	// Calculations counts calculator requests by operation and outcome.
	Calculations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finplan_calculations_total",
			Help: "Number of calculations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// CalculationDuration observes how long each operation takes.
	CalculationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finplan_calculation_duration_seconds",
			Help:    "Calculation latency by operation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// ValidationFailures counts individual rejected inputs.
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finplan_validation_failures_total",
			Help: "Number of validation messages returned by operation",
		},
		[]string{"operation"},
	)
)

// ObserveCalculation records one finished calculation.
func ObserveCalculation(operation, status string, seconds float64) {
	Calculations.WithLabelValues(operation, status).Inc()
	CalculationDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordValidationFailures adds the number of messages a rejected input produced.
func RecordValidationFailures(operation string, messages int) {
	if messages > 0 {
		ValidationFailures.WithLabelValues(operation).Add(float64(messages))
	}
}
