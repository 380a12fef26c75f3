package orchestration

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/integrand"
	"github.com/agbru/mcspeed/internal/logging"
	"github.com/agbru/mcspeed/internal/metrics"
)

// Controller runs speed-up searches and comparisons on top of a Prober.
// A Controller is not safe for concurrent searches when it shares a
// ProbeReporter that is not.
type Controller struct {
	prober   Prober
	clock    Clock
	reporter ProbeReporter
	recorder *metrics.Recorder
	logger   logging.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used to time runs.
func WithClock(c Clock) Option { return func(ctl *Controller) { ctl.clock = c } }

// WithReporter sets the observer notified of every run.
func WithReporter(r ProbeReporter) Option { return func(ctl *Controller) { ctl.reporter = r } }

// WithRecorder sets the Prometheus recorder fed with every run.
func WithRecorder(r *metrics.Recorder) Option { return func(ctl *Controller) { ctl.recorder = r } }

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option { return func(ctl *Controller) { ctl.logger = l } }

// NewController returns a Controller driving p.
func NewController(p Prober, opts ...Option) *Controller {
	c := &Controller{
		prober:   p,
		clock:    realClock{},
		reporter: NullProbeReporter{},
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = realClock{}
	}
	if c.reporter == nil {
		c.reporter = NullProbeReporter{}
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	return c
}

// Search times a sequential baseline once, then probes thread counts
// 1..MaxThreads in increasing order. The first probe whose speed-up reaches
// the target ends the search; otherwise the probe with the strictly highest
// speed-up is kept. Falling short of the target is not an error: the
// outcome reports MetTarget=false.
//
// A failed run aborts the search with an apperrors.ExecutionError and no
// outcome. The context is checked before every run; a run in progress is
// never interrupted.
func (c *Controller) Search(ctx context.Context, req Request) (outcome SearchOutcome, err error) {
	if err := validateRequest(req); err != nil {
		return SearchOutcome{}, err
	}

	runID := uuid.NewString()
	ctx, span := startSearchSpan(ctx, "Controller.Search", runID, req)
	defer func() {
		if err == nil {
			setSearchSpanResult(span, outcome)
		}
		endSpanWithError(span, err)
	}()

	c.logger.Debug("search started",
		logging.String("run_id", runID),
		logging.Int("samples", req.Samples),
		logging.Float64("target", req.TargetSpeedup),
		logging.Int("max_threads", req.MaxThreads))

	baseline, _, err := c.run(ctx, KindBaseline, req.Integrand, req.A, req.B, req.Samples, 1)
	if err != nil {
		return SearchOutcome{}, err
	}
	c.reporter.ProbeFinished(ProbeRecord{Kind: KindBaseline, Run: baseline.Run, Drawn: baseline.Drawn, Skipped: baseline.Skipped})

	var (
		best        RunResult
		bestSpeedup float64
		probes      = make([]ProbeRecord, 0, req.MaxThreads)
	)
	for threads := 1; threads <= req.MaxThreads; threads++ {
		rec, run, err := c.run(ctx, KindProbe, req.Integrand, req.A, req.B, req.Samples, threads)
		if err != nil {
			return SearchOutcome{}, err
		}
		rec.Speedup = speedup(baseline.Run.Elapsed, run.Elapsed)
		c.recorder.SetSpeedup(rec.Speedup)

		stop := rec.Speedup >= req.TargetSpeedup
		if stop || rec.Speedup > bestSpeedup {
			best, bestSpeedup = run, rec.Speedup
			rec.Adopted = true
		}
		rec.MetTarget = stop
		probes = append(probes, rec)
		c.reporter.ProbeFinished(rec)

		c.logger.Debug("probe finished",
			logging.Int("threads", threads),
			logging.Float64("elapsed_ms", run.ElapsedMillis()),
			logging.Float64("speedup", rec.Speedup),
			logging.Bool("adopted", rec.Adopted))

		if stop {
			break
		}
	}

	achieved := speedup(baseline.Run.Elapsed, best.Elapsed)
	outcome = SearchOutcome{
		Best:            best,
		Baseline:        baseline.Run,
		BaselineMillis:  baseline.Run.ElapsedMillis(),
		AchievedSpeedup: achieved,
		MetTarget:       achieved >= req.TargetSpeedup,
		TargetSpeedup:   req.TargetSpeedup,
		Probes:          probes,
	}
	c.recorder.SetTargetMet(outcome.MetTarget)
	c.reporter.SearchFinished(outcome)
	c.logger.Info("search finished",
		logging.String("run_id", runID),
		logging.Int("threads", best.Threads),
		logging.Float64("speedup", achieved),
		logging.Bool("met_target", outcome.MetTarget))
	return outcome, nil
}

// Compare times one sequential run and one run at req.Threads workers.
func (c *Controller) Compare(ctx context.Context, req CompareRequest) (cmp Comparison, err error) {
	if req.Threads < 1 {
		return Comparison{}, apperrors.ValidationError{Field: "threads", Message: "must be at least 1"}
	}
	if req.Integrand == nil {
		return Comparison{}, apperrors.ValidationError{Field: "function", Message: "integrand is required"}
	}
	ctx, span := startSearchSpan(ctx, "Controller.Compare", uuid.NewString(), Request{A: req.A, B: req.B, Samples: req.Samples, MaxThreads: req.Threads})
	defer func() { endSpanWithError(span, err) }()

	seq, _, err := c.run(ctx, KindBaseline, req.Integrand, req.A, req.B, req.Samples, 1)
	if err != nil {
		return Comparison{}, err
	}
	c.reporter.ProbeFinished(ProbeRecord{Kind: KindBaseline, Run: seq.Run, Drawn: seq.Drawn, Skipped: seq.Skipped})

	par, run, err := c.run(ctx, KindCompare, req.Integrand, req.A, req.B, req.Samples, req.Threads)
	if err != nil {
		return Comparison{}, err
	}
	par.Speedup = speedup(seq.Run.Elapsed, run.Elapsed)
	par.Adopted = true
	c.recorder.SetSpeedup(par.Speedup)
	c.reporter.ProbeFinished(par)

	return Comparison{Sequential: seq.Run, Parallel: run, Speedup: par.Speedup}, nil
}

// run times one integration. Errors other than invalid input and context
// errors are wrapped in an apperrors.ExecutionError for the run's thread
// count.
func (c *Controller) run(ctx context.Context, kind ProbeKind, f integrand.Integrand, a, b float64, samples, threads int) (ProbeRecord, RunResult, error) {
	if err := ctx.Err(); err != nil {
		return ProbeRecord{}, RunResult{}, err
	}
	c.reporter.ProbeStarted(kind, threads)

	ctx, span := startProbeSpan(ctx, kind, threads)
	start := c.clock.Now()
	res, err := c.prober.IntegrateDetailed(ctx, f, a, b, samples, threads)
	elapsed := max(c.clock.Since(start), time.Nanosecond)
	if err != nil {
		err = classify(err, threads)
		c.logger.Error("run failed", err, logging.String("kind", string(kind)), logging.Int("threads", threads))
		endSpanWithError(span, err)
		return ProbeRecord{}, RunResult{}, err
	}
	span.End()

	c.recorder.ObserveRun(string(kind), threads, elapsed, res.Drawn, res.Skipped)
	run := RunResult{Estimate: res.Value, Elapsed: elapsed, Threads: threads}
	return ProbeRecord{Kind: kind, Run: run, Drawn: res.Drawn, Skipped: res.Skipped}, run, nil
}

func classify(err error, threads int) error {
	var (
		ve apperrors.ValidationError
		ee apperrors.ExecutionError
	)
	switch {
	case errors.As(err, &ve), errors.As(err, &ee), apperrors.IsContextError(err):
		return err
	}
	return apperrors.ExecutionError{Threads: threads, Cause: err}
}

// speedup returns baseline/elapsed. Both durations are at least 1ns.
func speedup(baseline, elapsed time.Duration) float64 {
	return float64(baseline) / float64(max(elapsed, time.Nanosecond))
}

func validateRequest(req Request) error {
	switch {
	case req.Integrand == nil:
		return apperrors.ValidationError{Field: "function", Message: "integrand is required"}
	case req.Samples <= 0:
		return apperrors.ValidationError{Field: "samples", Message: "must be positive"}
	case math.IsNaN(req.TargetSpeedup) || math.IsInf(req.TargetSpeedup, 0) || req.TargetSpeedup <= 0:
		return apperrors.ValidationError{Field: "speedup", Message: "must be a positive number"}
	case req.MaxThreads < 1:
		return apperrors.ValidationError{Field: "max-threads", Message: "must be at least 1"}
	}
	return nil
}
