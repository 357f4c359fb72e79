package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phishshield/phishscore/internal/types"
)

// Metrics owns a private registry so tests and multiple servers in one
// process do not collide on the global one.
type Metrics struct {
	reg    *prometheus.Registry
	scored *prometheus.CounterVec
	prob   prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		scored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phishscore_scored_total",
			Help: "Total number of messages scored, by scoring tier",
		}, []string{"model_version"}),
		prob: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "phishscore_phish_probability",
			Help:    "Distribution of reported phishing probabilities",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
	}
	m.reg.MustRegister(
		m.scored,
		m.prob,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Observe(res types.ScoreResult) {
	m.scored.WithLabelValues(string(res.ModelVersion)).Inc()
	m.prob.Observe(res.PhishProb)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
