package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	adminRequestsTotal  *prometheus.CounterVec
	adminLatencySeconds *prometheus.HistogramVec
	adminErrorsTotal    *prometheus.CounterVec

	activityRecordedTotal *prometheus.CounterVec
	activityDroppedTotal  *prometheus.CounterVec

	feedRequestsTotal  *prometheus.CounterVec
	feedLatencySeconds prometheus.Histogram

	streamClientsGauge prometheus.Gauge

	uploadRequestsTotal *prometheus.CounterVec
	uploadRejectedTotal *prometheus.CounterVec
	uploadLatencyHist   prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used for admin observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		activityRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_events_recorded_total",
			Help: "Total number of activity log events persisted.",
		}, []string{"action"})

		activityDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_events_dropped_total",
			Help: "Total number of activity log events discarded.",
		}, []string{"reason"})

		feedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "activity_feed_requests_total",
			Help: "Activity feed list requests by cache outcome.",
		}, []string{"outcome"})

		feedLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "activity_feed_latency_seconds",
			Help:    "Latency distribution for activity feed queries.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		streamClientsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "activity_stream_clients",
			Help: "Currently connected live activity stream clients.",
		})

		uploadRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "avatar_upload_requests_total",
			Help: "Total number of accepted avatar uploads.",
		}, []string{"type"})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "avatar_upload_rejected_total",
			Help: "Total number of rejected avatar uploads.",
		}, []string{"reason"})

		uploadLatencyHist = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "avatar_upload_latency_seconds",
			Help:    "Latency distribution for avatar uploads.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})

		prometheus.MustRegister(
			adminRequestsTotal, adminLatencySeconds, adminErrorsTotal,
			activityRecordedTotal, activityDroppedTotal,
			feedRequestsTotal, feedLatencySeconds,
			streamClientsGauge,
			uploadRequestsTotal, uploadRejectedTotal, uploadLatencyHist,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// ActivityEventsRecorded exposes the counter for persisted activity events.
func ActivityEventsRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return activityRecordedTotal
}

// ActivityEventsDropped exposes the counter for discarded activity events.
func ActivityEventsDropped() *prometheus.CounterVec {
	RegisterMetrics()
	return activityDroppedTotal
}

// FeedRequests exposes the counter for feed list requests.
func FeedRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return feedRequestsTotal
}

// FeedLatency exposes the feed query latency histogram.
func FeedLatency() prometheus.Histogram {
	RegisterMetrics()
	return feedLatencySeconds
}

// StreamClientsActive exposes the connected stream client gauge.
func StreamClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return streamClientsGauge
}

// UploadRequests exposes the counter for accepted uploads.
func UploadRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRequestsTotal
}

// UploadRejected exposes the counter for rejected uploads.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// UploadLatency exposes the upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencyHist
}

// MetricsHandler serves the Prometheus scrape endpoint through fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
