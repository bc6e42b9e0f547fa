package triage

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the triage subsystem.
type Metrics struct {
	ClassificationsTotal   *prometheus.CounterVec
	ClassificationLevels   *prometheus.CounterVec
	ClassificationDuration *prometheus.HistogramVec
	RemoteCallDuration     prometheus.Histogram
	RemoteFailuresTotal    *prometheus.CounterVec
	FallbacksTotal         prometheus.Counter
	SubmitsTotal           *prometheus.CounterVec
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ClassificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acuity_classifications_total",
			Help: "Total classifications by terminal outcome.",
		}, []string{"outcome"}),
		ClassificationLevels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acuity_classification_levels_total",
			Help: "Total classifications by assigned severity level.",
		}, []string{"level"}),
		ClassificationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acuity_classification_duration_seconds",
			Help:    "Duration of classification calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms .. ~16s
		}, []string{"outcome"}),
		RemoteCallDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "acuity_remote_call_duration_seconds",
			Help:    "Duration of remote classifier calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s .. ~32s
		}),
		RemoteFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acuity_remote_failures_total",
			Help: "Total remote classifier failures by reason.",
		}, []string{"reason"}),
		FallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "acuity_fallbacks_total",
			Help: "Total classifications degraded to the local heuristic after a remote failure.",
		}),
		SubmitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "acuity_submits_total",
			Help: "Total triage submissions by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.ClassificationsTotal,
		m.ClassificationLevels,
		m.ClassificationDuration,
		m.RemoteCallDuration,
		m.RemoteFailuresTotal,
		m.FallbacksTotal,
		m.SubmitsTotal,
	)

	return m
}

// Hooks returns an EngineHooks that increments the corresponding metrics.
func (m *Metrics) Hooks() EngineHooks {
	return EngineHooks{
		OnRemoteCall: func(duration float64, err error) {
			m.RemoteCallDuration.Observe(duration)
			if err != nil {
				m.RemoteFailuresTotal.WithLabelValues(remoteFailureReason(err)).Inc()
			}
		},
		OnClassify: func(outcome Outcome, level Level, duration float64) {
			m.ClassificationsTotal.WithLabelValues(string(outcome)).Inc()
			m.ClassificationLevels.WithLabelValues(strconv.Itoa(int(level))).Inc()
			m.ClassificationDuration.WithLabelValues(string(outcome)).Observe(duration)
			if outcome == OutcomeFallback {
				m.FallbacksTotal.Inc()
			}
		},
	}
}

// ObserveRecord counts a persisted record submission.
func (m *Metrics) ObserveRecord(r *Record) {
	result := "classified"
	if r.FallbackNotice != "" {
		result = "classified_fallback"
	}
	m.SubmitsTotal.WithLabelValues(result).Inc()
}

func remoteFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrRemoteTimedOut):
		return "timeout"
	case errors.Is(err, ErrRemoteMalformed):
		return "malformed"
	case errors.Is(err, ErrRemoteUnreachable):
		return "unreachable"
	default:
		return "other"
	}
}
