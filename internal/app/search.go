package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/mcspeed/internal/cli"
	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/metrics"
	"github.com/agbru/mcspeed/internal/orchestration"
	"github.com/agbru/mcspeed/internal/plot"
	"github.com/agbru/mcspeed/internal/sysmon"
)

// runSearch runs the speed-up search and presents its outcome. Missing the
// target is reported as a warning and still exits successfully.
func (a *Application) runSearch(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, a.Function.Label, out)
	}

	var spinner *cli.SpinnerReporter
	var reporter orchestration.ProbeReporter = orchestration.NullProbeReporter{}
	if !a.Config.Quiet {
		spinner = cli.NewSpinnerReporter(out, a.Config.MaxThreads)
		reporter = spinner
	}

	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	start := time.Now()
	outcome, err := a.controller(reporter).Search(ctx, a.request())
	if spinner != nil {
		spinner.Stop()
	}

	presenter := cli.CLIResultPresenter{}
	if err != nil {
		err = apperrors.TimeoutFor(err, "search", a.Config.Timeout)
		return presenter.HandleError(err, time.Since(start), out)
	}

	if a.Config.Quiet {
		cli.DisplayQuietResult(out, outcome.Best.Estimate)
		return apperrors.ExitSuccess
	}

	presenter.PresentSearch(a.subject(), outcome, a.Config.Verbose, out)
	if a.Config.Verbose {
		cli.DisplayResourceUsage(sysmon.Sample(), before, collector.Snapshot(), out)
	}
	return a.renderPlot(out)
}

// runCompare times one sequential run against one run on Config.Threads
// workers.
func (a *Application) runCompare(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, a.Function.Label, out)
	}

	var spinner *cli.SpinnerReporter
	var reporter orchestration.ProbeReporter = orchestration.NullProbeReporter{}
	if !a.Config.Quiet {
		// Two runs: the sequential one and the parallel one.
		spinner = cli.NewSpinnerReporter(out, 1)
		reporter = spinner
	}

	start := time.Now()
	cmp, err := a.controller(reporter).Compare(ctx, orchestration.CompareRequest{
		Integrand: a.Function.Integrand,
		A:         a.Config.A,
		B:         a.Config.B,
		Samples:   a.Config.Samples,
		Threads:   a.Config.Threads,
	})
	if spinner != nil {
		spinner.Stop()
	}

	presenter := cli.CLIResultPresenter{}
	if err != nil {
		err = apperrors.TimeoutFor(err, "compare", a.Config.Timeout)
		return presenter.HandleError(err, time.Since(start), out)
	}

	if a.Config.Quiet {
		cli.DisplayQuietResult(out, cmp.Parallel.Estimate)
		return apperrors.ExitSuccess
	}

	presenter.PresentComparison(a.subject(), cmp, out)
	return a.renderPlot(out)
}

// renderPlot draws the integrand after the results when --plot is set.
func (a *Application) renderPlot(out io.Writer) int {
	if !a.Config.Plot {
		return apperrors.ExitSuccess
	}
	fmt.Fprintf(out, "\n--- f(x) = %s ---\n", a.Function.Label)
	if err := plot.Render(out, a.Function.Integrand, a.Config.A, a.Config.B, plot.Options{}); err != nil {
		err = apperrors.WrapError(err, "rendering %s on [%g, %g]", a.Function.Key, a.Config.A, a.Config.B)
		a.Logger.Error("plot failed", err)
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
