// Package metrics exposes planner counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the planner's counters. A nil *Metrics records nothing.
type Metrics struct {
	Recommendations *prometheus.CounterVec
	Verifications   *prometheus.CounterVec
	VisitsRecorded  prometheus.Counter
	Notifications   prometheus.Counter
}

// New creates the counters and registers them with reg when it is not nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_planner",
			Name:      "recommendations_total",
			Help:      "Recommendation attempts by result.",
		}, []string{"result"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "field_planner",
			Name:      "verifications_total",
			Help:      "Location verifications by outcome.",
		}, []string{"outcome"}),
		VisitsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_planner",
			Name:      "visits_recorded_total",
			Help:      "Visits newly written to the ledger.",
		}),
		Notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "field_planner",
			Name:      "notifications_pushed_total",
			Help:      "Notifications pushed into the feed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Recommendations, m.Verifications, m.VisitsRecorded, m.Notifications)
	}
	return m
}

func (m *Metrics) Recommendation(result string) {
	if m == nil {
		return
	}
	m.Recommendations.WithLabelValues(result).Inc()
}

func (m *Metrics) Verification(outcome string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) VisitRecorded() {
	if m == nil {
		return
	}
	m.VisitsRecorded.Inc()
}

func (m *Metrics) NotificationsPushed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Notifications.Add(float64(n))
}
