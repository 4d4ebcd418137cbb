package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"theater-portal/pkg/config"
)

// Counter metrics
var (
	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theater_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Theater operation counter
	TheaterOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theater_operations_total",
			Help: "Total number of theater-scoped operations",
		},
		[]string{"operation"}, // "create", "switch", "invite_create", "event_update", ...
	)

	// Error counter by type
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theater_errors_total",
			Help: "Total number of request errors by type",
		},
		[]string{"type"}, // "invalid_request", "forbidden", "limit_reached", "db_error", ...
	)

	// Active theater resolution outcomes
	ResolutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theater_resolutions_total",
			Help: "Active theater resolutions by how the theater was selected",
		},
		[]string{"source"}, // "preference", "fallback", "none"
	)

	// Active theater preference writes
	PreferenceWriteCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theater_preference_writes_total",
			Help: "Active theater preference writes by result",
		},
		[]string{"result"}, // "ok", "failed"
	)

	// Invite acceptance attempts on the profile read path
	InviteAcceptanceCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theater_invite_acceptances_total",
			Help: "Invite acceptance attempts by outcome",
		},
		[]string{"outcome"}, // "accepted", "deferred", "already_member", "failed", "none"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "theater_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "theater_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "theater_portal_info",
			Help: "Information about the theater portal service",
		},
		[]string{"version"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(TheaterOperationCounter)
	prometheus.MustRegister(ErrorCounter)
	prometheus.MustRegister(ResolutionCounter)
	prometheus.MustRegister(PreferenceWriteCounter)
	prometheus.MustRegister(InviteAcceptanceCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(InfoGauge)
}

// InitMetrics publishes the service info gauge
func InitMetrics(cfg *config.Config) {
	InfoGauge.Reset()
	InfoGauge.With(prometheus.Labels{"version": cfg.Metrics.Version}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations.
// Usage: defer prometheus.TrackDBOperation("query")()
func TrackDBOperation(operation string) func() {
	startTime := time.Now()
	return func() {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(startTime).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordError records a request error by type
func RecordError(errorType string) {
	ErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordTheaterOperation records a theater-scoped operation
func RecordTheaterOperation(operation string) {
	TheaterOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordResolution records which rule selected the active theater
func RecordResolution(source string) {
	ResolutionCounter.With(prometheus.Labels{"source": source}).Inc()
}

// RecordPreferenceWrite records the result of persisting an active theater preference
func RecordPreferenceWrite(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	PreferenceWriteCounter.With(prometheus.Labels{"result": result}).Inc()
}

// RecordInviteAcceptance records an invite acceptance outcome
func RecordInviteAcceptance(outcome string) {
	InviteAcceptanceCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}
