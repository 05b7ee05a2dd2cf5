package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	targetsPlanned prom.Gauge
	lrConnections  prom.Counter
}

// NewPrometheusRecorder constructs and registers metrics on reg (a fresh
// registry is created when reg is nil).
func NewPrometheusRecorder(reg *prom.Registry) (*PrometheusRecorder, *prom.Registry) {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "md2html",
			Name:      "build_duration_seconds",
			Help:      "Total duration of one plan+build run",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "md2html",
			Name:      "build_outcomes_total",
			Help:      "Build run counts by outcome",
		}, []string{"outcome"}),
		targetsPlanned: prom.NewGauge(prom.GaugeOpts{
			Namespace: "md2html",
			Name:      "targets_planned",
			Help:      "Number of targets in the most recent build plan",
		}),
		lrConnections: prom.NewCounter(prom.CounterOpts{
			Namespace: "md2html",
			Name:      "livereload_connections_total",
			Help:      "Total livereload client connections",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.targetsPlanned, pr.lrConnections)
	return pr, reg
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetTargetsPlanned(n int) {
	p.targetsPlanned.Set(float64(n))
}

func (p *PrometheusRecorder) IncLiveReloadConnections() {
	p.lrConnections.Inc()
}
