// Package metrics exposes Prometheus instruments for sessions, clicks and
// HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"ballpop/internal/balls"
	"ballpop/internal/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ballpop"

type Metrics struct {
	registry *prometheus.Registry

	clicks       *prometheus.CounterVec
	runs         prometheus.Counter
	runSeconds   prometheus.Histogram
	doubleGap    prometheus.Histogram
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Clicks on active balls by outcome.",
		}, []string{"click_type", "outcome"}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_completed_total",
			Help:      "Sessions that reached the winning score.",
		}),
		runSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Elapsed time shown when a run was completed.",
			Buckets:   []float64{15, 30, 45, 60, 90, 120, 180, 300, 600},
		}),
		doubleGap: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "double_click_gap_seconds",
			Help:      "Gap between the two clicks of a successful double click.",
			Buckets:   []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.clicks, m.runs, m.runSeconds, m.doubleGap, m.httpRequests, m.httpDuration,
	)
	return m
}

// TrackSessions exports the number of live sessions as reported by count.
func (m *Metrics) TrackSessions(count func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Sessions currently held in memory.",
	}, func() float64 { return float64(count()) }))
}

func (m *Metrics) RecordClick(c game.ClickRecord) {
	m.clicks.WithLabelValues(string(c.ClickType), c.Outcome.String()).Inc()
	if c.ClickType == balls.Double && c.Outcome == balls.Pop {
		m.doubleGap.Observe(c.Gap.Seconds())
	}
}

func (m *Metrics) RecordRun(run game.RunRecord) {
	m.runs.Inc()
	m.runSeconds.Observe(float64(run.ElapsedSeconds))
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
