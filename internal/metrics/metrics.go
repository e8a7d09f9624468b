// Package metrics exposes operational Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitcircle",
		Name:      "coordination_outcomes_total",
		Help:      "Coordination calls by operation and outcome or error kind.",
	}, []string{"operation", "outcome"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitcircle",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})
)

func init() {
	registry.MustRegister(
		outcomes,
		requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordOutcome counts one coordination call. outcome is either a success
// variant such as "joined" or an error kind such as "permission".
func RecordOutcome(operation, outcome string) {
	outcomes.WithLabelValues(operation, outcome).Inc()
}

// ObserveRequest records the latency of a request. route is the mux pattern,
// never the raw path, to keep label cardinality bounded.
func ObserveRequest(route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
