package stats

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcomes used as the status label.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Metrics holds the Prometheus collectors for analysis runs on a private
// registry.
type Metrics struct {
	registry *prometheus.Registry

	analyses           *prometheus.CounterVec
	duration           prometheus.Histogram
	sectionsRanked     prometheus.Counter
	subsectionsOmitted prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docrank_analyses_total",
			Help: "Analysis runs by final status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "docrank_analysis_duration_seconds",
			Help:    "Wall time of an analysis run, parsing included.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		sectionsRanked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docrank_sections_ranked_total",
			Help: "Sections returned in rankings.",
		}),
		subsectionsOmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "docrank_subsections_omitted_total",
			Help: "Ranked sections whose title could not be located in the page text.",
		}),
	}
	m.registry.MustRegister(
		m.analyses,
		m.duration,
		m.sectionsRanked,
		m.subsectionsOmitted,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSuccess records a completed analysis.
func (m *Metrics) ObserveSuccess(d time.Duration, sections, omitted int) {
	m.analyses.WithLabelValues(StatusCompleted).Inc()
	m.duration.Observe(d.Seconds())
	m.sectionsRanked.Add(float64(sections))
	m.subsectionsOmitted.Add(float64(omitted))
}

// ObserveFailure records a failed analysis.
func (m *Metrics) ObserveFailure(d time.Duration) {
	m.analyses.WithLabelValues(StatusFailed).Inc()
	m.duration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
