// Package metrics exposes probe measurements as Prometheus metrics and reads
// runtime memory statistics for verbose reports.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mcspeed"

// Probe modes used as the "mode" label of mcspeed_probes_total.
const (
	ModeBaseline = "baseline"
	ModeProbe    = "probe"
	ModeCompare  = "compare"
)

// Recorder owns a private Prometheus registry holding the mcspeed metrics
// and the Go runtime collectors. A nil *Recorder discards observations.
type Recorder struct {
	registry *prometheus.Registry

	probes        *prometheus.CounterVec
	probeDuration *prometheus.HistogramVec
	speedup       prometheus.Gauge
	samplesDrawn  prometheus.Counter
	skips         prometheus.Counter
	targetMet     prometheus.Gauge
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		probes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Integration runs executed, by mode (baseline, probe, compare).",
		}, []string{"mode"}),
		probeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Wall-clock duration of integration runs, by thread count.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}, []string{"threads"}),
		speedup: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "speedup_ratio",
			Help:      "Speed-up of the most recent probe over the baseline.",
		}),
		samplesDrawn: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_drawn_total",
			Help:      "Integrand evaluations performed.",
		}),
		skips: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_skips_total",
			Help:      "Evaluations skipped because they failed or were not finite.",
		}),
		targetMet: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "search_target_met",
			Help:      "1 if the last search reached its target speed-up, 0 otherwise.",
		}),
	}
}

// ObserveRun records one integration run.
func (r *Recorder) ObserveRun(mode string, threads int, elapsed time.Duration, drawn, skipped int) {
	if r == nil {
		return
	}
	r.probes.WithLabelValues(mode).Inc()
	r.probeDuration.WithLabelValues(strconv.Itoa(threads)).Observe(elapsed.Seconds())
	r.samplesDrawn.Add(float64(drawn))
	r.skips.Add(float64(skipped))
}

// SetSpeedup records the speed-up of the latest probe.
func (r *Recorder) SetSpeedup(v float64) {
	if r == nil {
		return
	}
	r.speedup.Set(v)
}

// SetTargetMet records whether the last search met its target.
func (r *Recorder) SetTargetMet(met bool) {
	if r == nil {
		return
	}
	if met {
		r.targetMet.Set(1)
		return
	}
	r.targetMet.Set(0)
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// WriteToTextfile writes the current metrics to path in the text format
// read by the node_exporter textfile collector.
func (r *Recorder) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
