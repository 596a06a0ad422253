// Package metrics builds the process-wide Prometheus registry the server
// exposes on /metrics. Feature packages register their own collectors on it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewRegistry returns a registry with the Go runtime and process collectors
// plus a constant vaxcert_build_info series.
func NewRegistry(version, backend string) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: "vaxcert_build_info",
		Help: "Build and runtime information; always 1",
	}, []string{"version", "backend"}).WithLabelValues(version, backend).Set(1)

	return reg
}
