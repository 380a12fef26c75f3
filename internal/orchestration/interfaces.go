package orchestration

import (
	"context"
	"io"
	"time"

	"github.com/agbru/mcspeed/internal/integrand"
	"github.com/agbru/mcspeed/internal/montecarlo"
)

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks . Prober,ProbeReporter,Clock

// RunResult is the timed outcome of one integration run. It is an immutable
// value.
type RunResult struct {
	// Estimate is the integral estimate.
	Estimate float64
	// Elapsed is the wall-clock duration of the run, at least 1ns.
	Elapsed time.Duration
	// Threads is the worker count used.
	Threads int
}

// ElapsedMillis returns Elapsed in fractional milliseconds.
func (r RunResult) ElapsedMillis() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// ProbeKind distinguishes the runs of a search or comparison.
type ProbeKind string

// Probe kinds. They double as the "mode" label of the probe metrics.
const (
	KindBaseline ProbeKind = "baseline"
	KindProbe    ProbeKind = "probe"
	KindCompare  ProbeKind = "compare"
)

// ProbeRecord describes one completed run.
type ProbeRecord struct {
	Kind ProbeKind
	Run  RunResult
	// Speedup is baseline/elapsed; zero for the baseline itself.
	Speedup float64
	// Drawn and Skipped are the sampler's evaluation counts.
	Drawn   int
	Skipped int
	// Adopted reports whether the probe became the best result.
	Adopted bool
	// MetTarget reports whether the probe triggered the early stop.
	MetTarget bool
}

// SearchOutcome is the result of one speed-up search.
type SearchOutcome struct {
	// Best is the retained run: the first one meeting the target, or
	// otherwise the one with the strictly highest speed-up.
	Best RunResult
	// Baseline is the sequential reference run.
	Baseline RunResult
	// BaselineMillis is Baseline.ElapsedMillis().
	BaselineMillis float64
	// AchievedSpeedup is Baseline.Elapsed / Best.Elapsed.
	AchievedSpeedup float64
	// MetTarget reports AchievedSpeedup >= TargetSpeedup.
	MetTarget bool
	// TargetSpeedup echoes the requested target.
	TargetSpeedup float64
	// Probes lists every run after the baseline in execution order.
	Probes []ProbeRecord
}

// Request describes a speed-up search.
type Request struct {
	Integrand     integrand.Integrand
	A, B          float64
	Samples       int
	TargetSpeedup float64
	MaxThreads    int
}

// CompareRequest describes a sequential-versus-parallel comparison.
type CompareRequest struct {
	Integrand integrand.Integrand
	A, B      float64
	Samples   int
	Threads   int
}

// Comparison is the result of Compare.
type Comparison struct {
	Sequential RunResult
	Parallel   RunResult
	// Speedup is Sequential.Elapsed / Parallel.Elapsed.
	Speedup float64
}

// Prober runs one integration. montecarlo.Sampler implements it.
type Prober interface {
	IntegrateDetailed(ctx context.Context, f integrand.Integrand, a, b float64, samples, threads int) (montecarlo.Result, error)
}

// Clock measures wall-clock time. The real clock uses the monotonic
// reading of time.Now.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type realClock struct{}

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }

// ProbeReporter observes a search as it runs. Calls are made from the
// goroutine running the search, in order.
type ProbeReporter interface {
	// ProbeStarted is called before each run.
	ProbeStarted(kind ProbeKind, threads int)
	// ProbeFinished is called after each successful run.
	ProbeFinished(rec ProbeRecord)
	// SearchFinished is called once with the final outcome.
	SearchFinished(outcome SearchOutcome)
}

// NullProbeReporter is a no-op implementation of ProbeReporter.
// Useful for quiet mode or testing.
type NullProbeReporter struct{}

// ProbeStarted does nothing.
func (NullProbeReporter) ProbeStarted(ProbeKind, int) {}

// ProbeFinished does nothing.
func (NullProbeReporter) ProbeFinished(ProbeRecord) {}

// SearchFinished does nothing.
func (NullProbeReporter) SearchFinished(SearchOutcome) {}

// Subject describes what was integrated, for presentation.
type Subject struct {
	Label   string
	A, B    float64
	Samples int
}

// ResultPresenter renders search and comparison results. It decouples the
// orchestration layer from output formatting.
type ResultPresenter interface {
	// PresentSearch displays a search outcome.
	PresentSearch(subject Subject, outcome SearchOutcome, verbose bool, out io.Writer)
	// PresentComparison displays a sequential-versus-parallel comparison.
	PresentComparison(subject Subject, cmp Comparison, out io.Writer)
}

// ErrorHandler handles run errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
