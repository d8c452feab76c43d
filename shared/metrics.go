package shared

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	CacheHits      prometheus.Counter
	UpstreamFetch  *prometheus.CounterVec
	SnapshotSize   prometheus.Gauge
	RequestsServed *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics on the default
// registry. Call once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orgcert_cache_hits_total",
			Help: "Total number of requests served from the cached snapshot",
		}),
		UpstreamFetch: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "orgcert_upstream_fetch_total",
			Help: "Total number of upstream fetch attempts by outcome",
		}, []string{"outcome"}),
		SnapshotSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "orgcert_snapshot_records",
			Help: "Number of records in the currently installed snapshot",
		}),
		RequestsServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "orgcert_requests_served_total",
			Help: "Total number of API requests served by endpoint",
		}, []string{"endpoint"}),
	}
}

// Fetch outcome label values for UpstreamFetch.
const (
	FetchOutcomeSuccess   = "success"
	FetchOutcomeUpstream  = "upstream_error"
	FetchOutcomeTransport = "transport_error"
	FetchOutcomeParse     = "parse_error"
)
