// Package metrics exposes Prometheus instruments for pricing runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qcserestipy/mcpricer/pkg/montecarlo"
)

// Metrics groups the run instruments and the registry they live on.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram
	PairsTotal  prometheus.Counter
	LastPrice   prometheus.Gauge
	LastStdErr  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcpricer",
			Name:      "runs_total",
			Help:      "Pricing runs by outcome",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mcpricer",
			Name:      "run_duration_seconds",
			Help:      "Wall clock time of completed pricing runs",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		PairsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mcpricer",
			Name:      "simulated_pairs_total",
			Help:      "Antithetic pairs simulated across all runs",
		}),
		LastPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mcpricer",
			Name:      "last_price",
			Help:      "Price reported by the most recent completed run",
		}),
		LastStdErr: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mcpricer",
			Name:      "last_std_err",
			Help:      "Standard error of the most recent completed run",
		}),
	}
	m.registry.MustRegister(m.RunsTotal, m.RunDuration, m.PairsTotal, m.LastPrice, m.LastStdErr)
	return m
}

// Observe records the outcome of one run.
func (m *Metrics) Observe(res montecarlo.Result, err error) {
	if err != nil {
		m.RunsTotal.WithLabelValues("failed").Inc()
		return
	}
	m.RunsTotal.WithLabelValues("completed").Inc()
	m.RunDuration.Observe(res.Elapsed.Seconds())
	m.PairsTotal.Add(float64(res.Pairs))
	m.LastPrice.Set(res.Price)
	m.LastStdErr.Set(res.StdErr)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
