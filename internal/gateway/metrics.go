package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the bot's Prometheus counters. It satisfies bot.Recorder
// so the handler can report events without importing this package.
type Metrics struct {
	registry *prometheus.Registry

	updates        *prometheus.CounterVec
	transcriptions *prometheus.CounterVec
	duration       prometheus.Histogram
	replies        prometheus.Counter
	denied         prometheus.Counter
}

// NewMetrics creates a Metrics instance backed by its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scribe",
			Name:      "updates_total",
			Help:      "Updates received, by message kind.",
		}, []string{"kind"}),
		transcriptions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scribe",
			Name:      "transcriptions_total",
			Help:      "Transcription attempts, by model and outcome.",
		}, []string{"model", "outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scribe",
			Name:      "transcription_duration_seconds",
			Help:      "Wall-clock time spent on transcription API calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		replies: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "scribe",
			Name:      "replies_sent_total",
			Help:      "Messages sent back to users.",
		}),
		denied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "scribe",
			Name:      "access_denied_total",
			Help:      "Updates rejected by the allowlist.",
		}),
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// UpdateReceived implements bot.Recorder.
func (m *Metrics) UpdateReceived(kind string) {
	m.updates.WithLabelValues(kind).Inc()
}

// AccessDenied implements bot.Recorder.
func (m *Metrics) AccessDenied() {
	m.denied.Inc()
}

// TranscriptionObserved implements bot.Recorder.
func (m *Metrics) TranscriptionObserved(model, outcome string, seconds float64) {
	if model == "" {
		model = "unknown"
	}
	m.transcriptions.WithLabelValues(model, outcome).Inc()
	m.duration.Observe(seconds)
}

// ReplySent implements bot.Recorder.
func (m *Metrics) ReplySent() {
	m.replies.Inc()
}
