package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Retries  *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_api_requests_total",
			Help: "Lending API requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_api_request_duration_seconds",
			Help:    "Lending API request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Retries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_api_retries_total",
			Help: "Retried lending API calls by failure class",
		}, []string{"class"}),
	}
}

// Retried counts one retry. Its signature fits a retry policy's OnRetry hook.
func (m *Metrics) Retried(err error, _ time.Duration) {
	if m == nil {
		return
	}
	class := "transport"
	var ae *Error
	if errors.As(err, &ae) {
		class = strconv.Itoa(ae.Status)
	}
	m.Retries.WithLabelValues(class).Inc()
}

func (m *Metrics) observe(method, path string, code int, start time.Time) {
	if m == nil {
		return
	}
	route := routeOf(path)
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.Requests.WithLabelValues(method, route, label).Inc()
	m.Duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// routeOf replaces numeric path segments so ids do not blow up label cardinality.
func routeOf(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
