package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the outbox worker.
type Metrics struct {
	PendingDepth    prometheus.Gauge
	PublishedTotal  prometheus.Counter
	PublishFailures prometheus.Counter
	PrunedTotal     prometheus.Counter
	PublishDuration prometheus.Histogram
	BatchSize       prometheus.Histogram
	PollDuration    prometheus.Histogram
}

var latencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// New registers the outbox metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PendingDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "vaxcert_outbox_pending_total",
			Help: "Current number of pending (unpublished) outbox entries",
		}),
		PublishedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "vaxcert_outbox_published_total",
			Help: "Total number of outbox entries published",
		}),
		PublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "vaxcert_outbox_publish_failures_total",
			Help: "Total number of outbox fetch or publish failures",
		}),
		PrunedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "vaxcert_outbox_pruned_total",
			Help: "Total number of processed outbox entries deleted",
		}),
		PublishDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaxcert_outbox_publish_duration_seconds",
			Help:    "Time taken to publish one outbox entry",
			Buckets: latencyBuckets,
		}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaxcert_outbox_batch_size",
			Help:    "Number of entries fetched per poll",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		PollDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "vaxcert_outbox_poll_duration_seconds",
			Help:    "Time taken for each non-empty poll cycle",
			Buckets: latencyBuckets,
		}),
	}
}

func (m *Metrics) SetPendingDepth(count int64) {
	m.PendingDepth.Set(float64(count))
}

func (m *Metrics) IncPublished() {
	m.PublishedTotal.Inc()
}

func (m *Metrics) IncPublishFailures() {
	m.PublishFailures.Inc()
}

func (m *Metrics) AddPruned(n int64) {
	m.PrunedTotal.Add(float64(n))
}

func (m *Metrics) ObservePublishDuration(durationSeconds float64) {
	m.PublishDuration.Observe(durationSeconds)
}

func (m *Metrics) ObserveBatchSize(size int) {
	m.BatchSize.Observe(float64(size))
}

func (m *Metrics) ObservePollDuration(durationSeconds float64) {
	m.PollDuration.Observe(durationSeconds)
}
