// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the dialogue engine.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/quickmark-labs/qrbot/eventbus"
)

// =============================================================================
// DIALOGUE METRICS
// =============================================================================

var (
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrbot_events_total",
			Help: "Total number of handled text events",
		},
		[]string{"action"}, // action: prompt, validation_error, payload_ready, cancelled, ignored
	)

	eventDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qrbot_event_duration_seconds",
			Help:    "Text event handling duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qrbot_active_sessions",
			Help: "Number of users with an operation in progress",
		},
	)
)

// =============================================================================
// OPERATION METRICS
// =============================================================================

var (
	validationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrbot_validation_failures_total",
			Help: "Total number of rejected field inputs",
		},
		[]string{"data_type", "validator"},
	)

	payloadsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrbot_payloads_generated_total",
			Help: "Total number of completed payloads",
		},
		[]string{"data_type"},
	)

	operationsCancelledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrbot_operations_cancelled_total",
			Help: "Total number of cancelled operations",
		},
		[]string{"data_type"},
	)

	encodingFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrbot_encoding_failures_total",
			Help: "Total number of aborted encodings",
		},
		[]string{"data_type"},
	)

	choiceFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrbot_choice_fallbacks_total",
			Help: "Total number of unmatched choice replies resolved by fallback",
		},
		[]string{"data_type"},
	)
)

// =============================================================================
// RECORDERS
// =============================================================================

// RecordEvent records one handled text event and its duration.
func RecordEvent(action string, seconds float64) {
	eventsTotal.WithLabelValues(action).Inc()
	eventDurationSeconds.Observe(seconds)
}

// SetActiveSessions updates the active session gauge.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// RegisterBusMetrics subscribes metric recorders to the dialogue events.
// Call once at startup.
func RegisterBusMetrics(bus *eventbus.Bus) {
	bus.Subscribe(eventbus.TypeValidationRejected, func(_ context.Context, e eventbus.Event) error {
		ev := e.(*eventbus.ValidationRejected)
		validationFailuresTotal.WithLabelValues(ev.DataType, ev.Validator).Inc()
		return nil
	})
	bus.Subscribe(eventbus.TypePayloadGenerated, func(_ context.Context, e eventbus.Event) error {
		ev := e.(*eventbus.PayloadGenerated)
		payloadsGeneratedTotal.WithLabelValues(ev.DataType).Inc()
		return nil
	})
	bus.Subscribe(eventbus.TypeOperationCancelled, func(_ context.Context, e eventbus.Event) error {
		ev := e.(*eventbus.OperationCancelled)
		operationsCancelledTotal.WithLabelValues(ev.DataType).Inc()
		return nil
	})
	bus.Subscribe(eventbus.TypeEncodingFailed, func(_ context.Context, e eventbus.Event) error {
		ev := e.(*eventbus.EncodingFailed)
		encodingFailuresTotal.WithLabelValues(ev.DataType).Inc()
		return nil
	})
	bus.Subscribe(eventbus.TypeChoiceResolved, func(_ context.Context, e eventbus.Event) error {
		ev := e.(*eventbus.ChoiceResolved)
		if ev.Fallback {
			choiceFallbacksTotal.WithLabelValues(ev.DataType).Inc()
		}
		return nil
	})
}
