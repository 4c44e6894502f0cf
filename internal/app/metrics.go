package app

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts shell operations and tracks the size of the stored state
type Metrics struct {
	Registry     *prometheus.Registry
	mutations    *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	userHolidays prometheus.Gauge
	schedules    prometheus.Gauge
}

// NewMetrics registers the planner collectors on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "holiday_planner",
				Name:      "mutations_total",
				Help:      "Successful write operations by kind",
			},
			[]string{"kind"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "holiday_planner",
				Name:      "rejections_total",
				Help:      "Failed write operations by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		userHolidays: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "holiday_planner",
			Name:      "user_holidays",
			Help:      "Number of stored user holidays",
		}),
		schedules: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "holiday_planner",
			Name:      "schedules",
			Help:      "Number of dates with a stored schedule",
		}),
	}
	m.Registry.MustRegister(m.mutations, m.rejections, m.userHolidays, m.schedules)
	return m
}

// Observe records the result of a write of kind
func (m *Metrics) Observe(kind string, err error) {
	if err == nil {
		m.mutations.WithLabelValues(kind).Inc()
		return
	}
	m.rejections.WithLabelValues(kind, errorReason(err)).Inc()
}

// SetState updates the state gauges
func (m *Metrics) SetState(userHolidays, schedules int) {
	m.userHolidays.Set(float64(userHolidays))
	m.schedules.Set(float64(schedules))
}
