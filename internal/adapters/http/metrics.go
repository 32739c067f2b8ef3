package web

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the domain counters exposed on /metrics.
type metrics struct {
	logins      *prometheus.CounterVec
	assignments *prometheus.CounterVec
	completions *prometheus.CounterVec
	exports     prometheus.Counter
}

// appMetrics is set by NewMux; nil disables counting.
var appMetrics *metrics

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "physio", Name: "logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "physio", Name: "assignments_total",
			Help: "Exercise assignments by result.",
		}, []string{"result"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "physio", Name: "completions_total",
			Help: "Completion requests by result.",
		}, []string{"result"}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "physio", Name: "calendar_exports_total",
			Help: "Calendar feeds served.",
		}),
	}
	reg.MustRegister(m.logins, m.assignments, m.completions, m.exports)
	return m
}

func (m *metrics) login(result string) {
	if m != nil {
		m.logins.WithLabelValues(result).Inc()
	}
}

func (m *metrics) assignment(result string) {
	if m != nil {
		m.assignments.WithLabelValues(result).Inc()
	}
}

func (m *metrics) completion(result string) {
	if m != nil {
		m.completions.WithLabelValues(result).Inc()
	}
}

func (m *metrics) export() {
	if m != nil {
		m.exports.Inc()
	}
}
