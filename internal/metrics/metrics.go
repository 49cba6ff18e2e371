package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal tracks handled HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keymint_http_requests_total",
		Help: "Total number of HTTP requests handled",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request processing time
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "keymint_http_request_duration_seconds",
		Help:    "Histogram of HTTP request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// EventsPublished tracks lifecycle event publish attempts by outcome
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keymint_events_published_total",
		Help: "Total number of lifecycle event publish attempts",
	}, []string{"event", "outcome"})
)
