package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for registry operations.
type Metrics struct {
	CallsTotal         *prometheus.CounterVec
	CallLatency        *prometheus.HistogramVec
	CertificatesMinted prometheus.Counter
	Transfers          prometheus.Counter
	AttrUpdates        prometheus.Counter
	AuthRejections     *prometheus.CounterVec
	OwnerCacheLookups  *prometheus.CounterVec
}

// New registers registry collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CallsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxcert_registry_calls_total",
			Help: "Registry calls, labeled by operation and outcome code",
		}, []string{"operation", "outcome"}),
		CallLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vaxcert_registry_call_latency_seconds",
			Help:    "Latency of registry calls including the store transaction",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		CertificatesMinted: f.NewCounter(prometheus.CounterOpts{
			Name: "vaxcert_certificates_minted_total",
			Help: "Certificates issued",
		}),
		Transfers: f.NewCounter(prometheus.CounterOpts{
			Name: "vaxcert_certificates_transferred_total",
			Help: "Certificate ownership transfers",
		}),
		AttrUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "vaxcert_certificate_attr_updates_total",
			Help: "Certificate attribute rewrites",
		}),
		AuthRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxcert_registry_auth_rejections_total",
			Help: "Calls rejected by the authorization gate, labeled by operation and reason",
		}, []string{"operation", "reason"}),
		OwnerCacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vaxcert_owner_cache_lookups_total",
			Help: "Owner cache lookups, labeled by result (hit, miss, error)",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveCall(operation, outcome string, durationSeconds float64) {
	m.CallsTotal.WithLabelValues(operation, outcome).Inc()
	m.CallLatency.WithLabelValues(operation).Observe(durationSeconds)
}

func (m *Metrics) IncrementMinted() {
	m.CertificatesMinted.Inc()
}

func (m *Metrics) IncrementTransfers() {
	m.Transfers.Inc()
}

func (m *Metrics) IncrementAttrUpdates() {
	m.AttrUpdates.Inc()
}

func (m *Metrics) IncrementAuthRejection(operation, reason string) {
	m.AuthRejections.WithLabelValues(operation, reason).Inc()
}

func (m *Metrics) IncrementCacheLookup(result string) {
	m.OwnerCacheLookups.WithLabelValues(result).Inc()
}
