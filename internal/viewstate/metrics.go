package viewstate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LoadDuration *prometheus.HistogramVec
	Operations   *prometheus.CounterVec
	Stale        *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_facade_load_duration_seconds",
			Help:    "Duration of facade list loads including retries",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"collection"}),
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_facade_operations_total",
			Help: "Facade operations by kind and outcome",
		}, []string{"collection", "op", "outcome"}),
		Stale: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_facade_stale_responses_total",
			Help: "Responses dropped because a newer request superseded them",
		}, []string{"collection"}),
	}
}

func (m *Metrics) observeLoad(name string, start time.Time) {
	if m == nil {
		return
	}
	m.LoadDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

func (m *Metrics) count(name, op string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.Operations.WithLabelValues(name, op, outcome).Inc()
}

func (m *Metrics) stale(name string) {
	if m == nil {
		return
	}
	m.Stale.WithLabelValues(name).Inc()
}
