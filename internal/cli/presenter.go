package cli

import (
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/format"
	"github.com/agbru/mcspeed/internal/metrics"
	"github.com/agbru/mcspeed/internal/orchestration"
	"github.com/agbru/mcspeed/internal/sysmon"
	"github.com/agbru/mcspeed/internal/ui"
)

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// It provides formatted, colorized output for search and comparison results.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// ShortfallWarning is printed when no probe reached the requested speed-up.
func ShortfallWarning(achieved, target float64) string {
	return fmt.Sprintf("Actual speed-up (%s) is less than requested (%s). Try increasing the interval or sample size.",
		format.FormatSpeedup(achieved), format.FormatSpeedup(target))
}

// PresentSearch displays the outcome of a speed-up search. With verbose set
// the probe history follows the summary.
func (CLIResultPresenter) PresentSearch(subject orchestration.Subject, outcome orchestration.SearchOutcome, verbose bool, out io.Writer) {
	fmt.Fprintf(out, "\n%s--- Search Result ---%s\n", ui.ColorBold(), ui.ColorReset())
	printSubject(subject, out)
	fmt.Fprintf(out, "Baseline (1 thread, sequential): %s\n", ui.Paint(ui.ColorSecondary(), format.FormatMillis(outcome.BaselineMillis)))
	fmt.Fprintf(out, "Best run:                        %s with %s thread(s)\n",
		ui.Paint(ui.ColorSecondary(), format.FormatMillis(outcome.Best.ElapsedMillis())),
		ui.Paint(ui.ColorPrimary(), fmt.Sprint(outcome.Best.Threads)))
	fmt.Fprintf(out, "Speed-up:                        %s (target %s)\n",
		ui.Paint(speedupColor(outcome.MetTarget), format.FormatSpeedup(outcome.AchievedSpeedup)),
		format.FormatSpeedup(outcome.TargetSpeedup))
	fmt.Fprintf(out, "Estimate:                        %s\n", ui.Paint(ui.ColorGreen(), format.FormatScientific(outcome.Best.Estimate)))

	if !outcome.MetTarget {
		fmt.Fprintf(out, "\n%s⚠ %s%s\n", ui.ColorYellow(), ShortfallWarning(outcome.AchievedSpeedup, outcome.TargetSpeedup), ui.ColorReset())
	}
	if verbose {
		PresentProbeTable(outcome.Probes, out)
	}
}

// PresentComparison displays a sequential-versus-parallel comparison.
func (CLIResultPresenter) PresentComparison(subject orchestration.Subject, cmp orchestration.Comparison, out io.Writer) {
	fmt.Fprintf(out, "\n%s--- Comparison ---%s\n", ui.ColorBold(), ui.ColorReset())
	printSubject(subject, out)
	fmt.Fprintf(out, "Sequential: %s  estimate %s\n",
		ui.Paint(ui.ColorSecondary(), format.FormatMillis(cmp.Sequential.ElapsedMillis())),
		format.FormatScientific(cmp.Sequential.Estimate))
	fmt.Fprintf(out, "Parallel:   %s  estimate %s  (%d threads)\n",
		ui.Paint(ui.ColorSecondary(), format.FormatMillis(cmp.Parallel.ElapsedMillis())),
		format.FormatScientific(cmp.Parallel.Estimate), cmp.Parallel.Threads)
	fmt.Fprintf(out, "Speed-up:   %s\n", ui.Paint(speedupColor(cmp.Speedup >= 1), format.FormatSpeedup(cmp.Speedup)))
}

// PresentProbeTable lists every probe of a search in execution order.
// Adopted probes are marked with '*', the probe that met the target with '✓'.
func PresentProbeTable(probes []orchestration.ProbeRecord, out io.Writer) {
	if len(probes) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s%-8s %12s %10s %12s %8s%s\n", ui.ColorBold(), "Threads", "Time", "Speed-up", "Drawn", "Skipped", ui.ColorReset())
	for _, p := range probes {
		marker := " "
		switch {
		case p.MetTarget:
			marker = ui.Paint(ui.ColorGreen(), "✓")
		case p.Adopted:
			marker = ui.Paint(ui.ColorPrimary(), "*")
		}
		fmt.Fprintf(out, "%-8d %12s %10s %12s %8d %s\n",
			p.Run.Threads, format.FormatMillis(p.Run.ElapsedMillis()), format.FormatSpeedup(p.Speedup),
			format.FormatCount(p.Drawn), p.Skipped, marker)
	}
}

// HandleError handles run errors and returns an appropriate exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	fmt.Fprint(out, ui.ColorRed())
	code := apperrors.HandleError(err, duration, out)
	fmt.Fprint(out, ui.ColorReset())
	return code
}

// DisplayResourceUsage shows the host load and the runtime memory cost of a
// search, from snapshots taken before and after it.
func DisplayResourceUsage(stats sysmon.Stats, before, after metrics.MemorySnapshot, out io.Writer) {
	d := after.Delta(before)
	fmt.Fprintf(out, "\nResources:\n")
	fmt.Fprintf(out, "  CPU:             %.1f%% (%d cores sampled)\n", stats.CPUPercent, len(stats.PerCore))
	fmt.Fprintf(out, "  Memory:          %.1f%%\n", stats.MemPercent)
	fmt.Fprintf(out, "  Heap in use:     %s\n", formatBytes(d.HeapAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", d.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(d.PauseTotalNs)/1e6)
	fmt.Fprintf(out, "  Goroutines:      %d\n", d.NumGoroutine)
}

func printSubject(s orchestration.Subject, out io.Writer) {
	fmt.Fprintf(out, "Function: %s\n", ui.Paint(ui.ColorPrimary(), s.Label))
	fmt.Fprintf(out, "Interval: %s\n", format.FormatInterval(s.A, s.B))
	fmt.Fprintf(out, "Samples:  %s\n", format.FormatCount(s.Samples))
}

func speedupColor(ok bool) string {
	if ok {
		return ui.ColorGreen()
	}
	return ui.ColorYellow()
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
