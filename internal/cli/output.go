// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* and Present* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayQuietResult], [CLIResultPresenter.PresentSearch].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatQuietResult].
//
//   - Print* functions write informational banners around a run.
//     Examples: [PrintExecutionConfig], [PrintFunctionList].

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strconv"

	"github.com/agbru/mcspeed/internal/config"
	"github.com/agbru/mcspeed/internal/format"
	"github.com/agbru/mcspeed/internal/integrand"
	"github.com/agbru/mcspeed/internal/ui"
)

// FormatQuietResult formats an estimate for quiet mode: a single
// round-trippable number suitable for scripting.
func FormatQuietResult(estimate float64) string {
	return strconv.FormatFloat(estimate, 'g', -1, 64)
}

// DisplayQuietResult outputs an estimate in quiet mode.
func DisplayQuietResult(out io.Writer, estimate float64) {
	fmt.Fprintln(out, FormatQuietResult(estimate))
}

// PrintExecutionConfig displays the run configuration before the first
// probe starts. label is the resolved integrand label.
func PrintExecutionConfig(cfg config.AppConfig, label string, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Integrating %s over %s with %s samples per run.\n",
		ui.Paint(ui.ColorPrimary(), label), format.FormatInterval(cfg.A, cfg.B),
		ui.Paint(ui.ColorSecondary(), format.FormatCount(cfg.Samples)))
	if cfg.Compare {
		fmt.Fprintf(out, "Mode: comparison of 1 thread against %s threads.\n", ui.Paint(ui.ColorSecondary(), strconv.Itoa(cfg.Threads)))
	} else {
		fmt.Fprintf(out, "Mode: speed-up search for %s, probing up to %s threads.\n",
			ui.Paint(ui.ColorYellow(), format.FormatSpeedup(cfg.Speedup)), ui.Paint(ui.ColorSecondary(), strconv.Itoa(cfg.MaxThreads)))
	}
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s, timeout %s.\n",
		ui.ColorSecondary(), runtime.NumCPU(), ui.ColorReset(), ui.ColorSecondary(), runtime.Version(), ui.ColorReset(), cfg.Timeout)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// PrintFunctionList lists the integrand library, marking current.
func PrintFunctionList(functions []integrand.Named, current string, out io.Writer) {
	fmt.Fprintf(out, "%sAvailable functions:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, fn := range functions {
		marker := "  "
		if fn.Key == current {
			marker = ui.Paint(ui.ColorGreen(), "► ")
		}
		fmt.Fprintf(out, "%s%s%-8s%s %s\n", marker, ui.ColorYellow(), fn.Key, ui.ColorReset(), fn.Label)
	}
}
