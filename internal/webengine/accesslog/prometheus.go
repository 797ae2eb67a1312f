//go:build prometheus

package accesslog

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yourusername/agentweb/internal/webengine/conn"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentweb",
			Subsystem: "webengine",
			Name:      "requests_total",
			Help:      "Total number of requests handled, by status class.",
		},
		[]string{"status_class", "method"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agentweb",
			Subsystem: "webengine",
			Name:      "request_duration_seconds",
			Help:      "Request handling latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	responseBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agentweb",
			Subsystem: "webengine",
			Name:      "response_bytes_total",
			Help:      "Total response bytes sent.",
		},
		[]string{"method"},
	)
)

// PrometheusSink records each Record as Prometheus counters/histograms.
// Mounting promhttp.Handler() to expose them is the embedder's job.
type PrometheusSink struct{}

// LogRequest implements conn.AccessLogger.
func (PrometheusSink) LogRequest(r conn.Record) {
	class := strconv.Itoa(r.Status/100) + "xx"
	requestsTotal.WithLabelValues(class, r.Method).Inc()
	requestDuration.WithLabelValues(r.Method).Observe(r.Duration.Seconds())
	responseBytesTotal.WithLabelValues(r.Method).Add(float64(r.BytesSent))
}
