package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "folio"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Site metrics
var (
	PagesRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Total number of pages rendered, by template",
		},
		[]string{"template"},
	)

	ContentItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "content_items",
			Help:      "Number of content items currently loaded",
		},
		[]string{"kind"}, // "post", "project", "page", "tag"
	)

	ContentReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_reloads_total",
			Help:      "Total number of content reloads",
		},
		[]string{"status"},
	)

	AssetsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assets_published_total",
			Help:      "Total number of images uploaded to storage",
		},
		[]string{"status"},
	)

	ThumbnailsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thumbnails_failed_total",
			Help:      "Total number of images that could not be thumbnailed",
		},
	)
)
