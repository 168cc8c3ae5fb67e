package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all the application metrics. A nil *Metrics is valid and
// records nothing, so services can run without a registry in tests.
type Metrics struct {
	registry prometheus.Gatherer

	// HTTP request metrics
	HTTPRequestTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Cascade engine metrics
	CascadeDeleteTotal *prometheus.CounterVec
	CascadeRowsTotal   *prometheus.CounterVec

	// Media binding metrics
	MediaReleaseTotal *prometheus.CounterVec

	// Toggle outcomes for likes and subscriptions
	ToggleTotal *prometheus.CounterVec
}

// New creates the metrics and registers them on reg. Collectors that are
// already registered are reused.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,

		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		CascadeDeleteTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cascade_deletes_total",
			Help: "Total number of cascade deletes by root entity kind",
		}, []string{"entity", "status"}),

		CascadeRowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cascade_rows_deleted_total",
			Help: "Rows removed by each cascade step",
		}, []string{"entity", "step"}),

		MediaReleaseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "media_releases_total",
			Help: "Media objects released from storage",
		}, []string{"status"}),

		ToggleTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toggles_total",
			Help: "Like and subscription toggles by outcome",
		}, []string{"kind", "state"}),
	}

	m.HTTPRequestTotal = registerOrGet(reg, m.HTTPRequestTotal)
	m.HTTPRequestDuration = registerOrGet(reg, m.HTTPRequestDuration)
	m.CascadeDeleteTotal = registerOrGet(reg, m.CascadeDeleteTotal)
	m.CascadeRowsTotal = registerOrGet(reg, m.CascadeRowsTotal)
	m.MediaReleaseTotal = registerOrGet(reg, m.MediaReleaseTotal)
	m.ToggleTotal = registerOrGet(reg, m.ToggleTotal)

	return m
}

func registerOrGet[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveCascade records the outcome of a whole cascade delete.
func (m *Metrics) ObserveCascade(entity string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.CascadeDeleteTotal.WithLabelValues(entity, status).Inc()
}

// ObserveCascadeStep records rows removed by one cascade step.
func (m *Metrics) ObserveCascadeStep(entity, step string, rows int64) {
	if m == nil || rows <= 0 {
		return
	}
	m.CascadeRowsTotal.WithLabelValues(entity, step).Add(float64(rows))
}

// ObserveMediaRelease records a storage delete attempt.
func (m *Metrics) ObserveMediaRelease(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.MediaReleaseTotal.WithLabelValues(status).Inc()
}

// ObserveToggle records a like or subscription toggle outcome.
func (m *Metrics) ObserveToggle(kind, state string) {
	if m == nil {
		return
	}
	m.ToggleTotal.WithLabelValues(kind, state).Inc()
}
