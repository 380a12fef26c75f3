package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/integrand"
	"github.com/agbru/mcspeed/internal/orchestration"
	"github.com/agbru/mcspeed/internal/plot"
	"github.com/agbru/mcspeed/internal/ui"
)

// Runner executes searches and comparisons. orchestration.Controller
// implements it.
type Runner interface {
	Search(ctx context.Context, req orchestration.Request) (orchestration.SearchOutcome, error)
	Compare(ctx context.Context, req orchestration.CompareRequest) (orchestration.Comparison, error)
}

// REPLConfig holds the initial settings of an interactive session.
type REPLConfig struct {
	Function   string
	A, B       float64
	Samples    int
	Speedup    float64
	MaxThreads int
	// Threads is the parallel thread count of the compare command.
	Threads int
	// Timeout bounds each run command.
	Timeout time.Duration
	Verbose bool
}

// REPL is an interactive console for running searches.
type REPL struct {
	config    REPLConfig
	runner    Runner
	registry  *integrand.Registry
	current   integrand.Named
	presenter CLIResultPresenter
	in        io.Reader
	out       io.Writer
}

// NewREPL creates a session. An unknown initial function falls back to the
// first function of the registry.
func NewREPL(runner Runner, registry *integrand.Registry, config REPLConfig) *REPL {
	current, err := registry.Get(config.Function)
	if err != nil {
		if all := registry.All(); len(all) > 0 {
			current = all[0]
		}
	}
	return &REPL{
		config:   config,
		runner:   runner,
		registry: registry,
		current:  current,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start reads and executes commands until exit or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"mc> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(line) {
				return
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorPrimary(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s     %sMonte Carlo Speed-up Search - Interactive Mode%s       %s║%s\n",
		ui.ColorPrimary(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorPrimary(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorPrimary(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	cmd := func(name, help string) {
		fmt.Fprintf(r.out, "  %s%-18s%s - %s\n", ui.ColorYellow(), name, ui.ColorReset(), help)
	}
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	cmd("fn <name>", "Select the integrand ("+strings.Join(r.registry.List(), ", ")+")")
	cmd("interval <a> <b>", "Set the integration interval")
	cmd("samples <n>", "Set the samples per run")
	cmd("speedup <x>", "Set the target speed-up (>= 1)")
	cmd("threads <n>", "Set the highest thread count to probe")
	cmd("run", "Search for the target speed-up")
	cmd("compare [n]", "Compare 1 thread against n threads")
	cmd("plot", "Plot the integrand over the interval")
	cmd("list", "List available functions")
	cmd("status", "Display current settings")
	cmd("help", "Display this help")
	cmd("exit / quit", "Exit interactive mode")
}

// processCommand executes one input line. Returns false if the REPL should
// exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "fn", "f":
		r.cmdFunction(args)
	case "interval", "iv":
		r.cmdInterval(args)
	case "samples", "n":
		r.cmdSamples(args)
	case "speedup", "s":
		r.cmdSpeedup(args)
	case "threads", "t":
		r.cmdThreads(args)
	case "run", "r":
		r.cmdRun()
	case "compare", "cmp":
		r.cmdCompare(args)
	case "plot", "p":
		r.cmdPlot()
	case "list", "ls":
		PrintFunctionList(r.registry.All(), r.current.Key, r.out)
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		r.errorf("Unknown command: %s", cmd)
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

func (r *REPL) errorf(format string, args ...any) {
	fmt.Fprintf(r.out, "%s%s%s\n", ui.ColorRed(), fmt.Sprintf(format, args...), ui.ColorReset())
}

func (r *REPL) cmdFunction(args []string) {
	if len(args) == 0 {
		r.errorf("Usage: fn <name>")
		return
	}
	fn, err := r.registry.Get(strings.Join(args, " "))
	if err != nil {
		r.errorf("%v", err)
		return
	}
	r.current = fn
	fmt.Fprintf(r.out, "Function changed to: %s\n", ui.Paint(ui.ColorGreen(), fn.Label))
}

func (r *REPL) cmdInterval(args []string) {
	if len(args) != 2 {
		r.errorf("Usage: interval <a> <b>")
		return
	}
	a, errA := parseFinite(args[0])
	b, errB := parseFinite(args[1])
	if errA != nil || errB != nil {
		r.errorf("Invalid interval: %s %s", args[0], args[1])
		return
	}
	if a == b {
		r.errorf("Interval bounds must differ")
		return
	}
	r.config.A, r.config.B = a, b
	fmt.Fprintf(r.out, "Interval set to [%g, %g]\n", a, b)
}

func (r *REPL) cmdSamples(args []string) {
	n, ok := r.positiveInt(args, "samples <n>")
	if ok {
		r.config.Samples = n
		fmt.Fprintf(r.out, "Samples set to %d\n", n)
	}
}

func (r *REPL) cmdThreads(args []string) {
	n, ok := r.positiveInt(args, "threads <n>")
	if ok {
		r.config.MaxThreads = n
		fmt.Fprintf(r.out, "Max threads set to %d\n", n)
	}
}

func (r *REPL) cmdSpeedup(args []string) {
	if len(args) != 1 {
		r.errorf("Usage: speedup <x>")
		return
	}
	v, err := parseFinite(args[0])
	if err != nil || v < 1 {
		r.errorf("Invalid speed-up: %s (must be a number >= 1)", args[0])
		return
	}
	r.config.Speedup = v
	fmt.Fprintf(r.out, "Target speed-up set to %g\n", v)
}

func (r *REPL) positiveInt(args []string, usage string) (int, bool) {
	if len(args) != 1 {
		r.errorf("Usage: %s", usage)
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		r.errorf("Invalid value: %s (must be a positive integer)", args[0])
		return 0, false
	}
	return n, true
}

func (r *REPL) runContext() (context.Context, context.CancelFunc) {
	if r.config.Timeout > 0 {
		return context.WithTimeout(context.Background(), r.config.Timeout)
	}
	return context.WithCancel(context.Background())
}

func (r *REPL) subject() orchestration.Subject {
	return orchestration.Subject{Label: r.current.Label, A: r.config.A, B: r.config.B, Samples: r.config.Samples}
}

func (r *REPL) cmdRun() {
	ctx, cancel := r.runContext()
	defer cancel()

	start := time.Now()
	outcome, err := r.runner.Search(ctx, orchestration.Request{
		Integrand:     r.current,
		A:             r.config.A,
		B:             r.config.B,
		Samples:       r.config.Samples,
		TargetSpeedup: r.config.Speedup,
		MaxThreads:    r.config.MaxThreads,
	})
	if err != nil {
		r.presenter.HandleError(apperrors.TimeoutFor(err, "search", r.config.Timeout), time.Since(start), r.out)
		return
	}
	r.presenter.PresentSearch(r.subject(), outcome, r.config.Verbose, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdCompare(args []string) {
	threads := r.config.Threads
	if len(args) > 0 {
		n, ok := r.positiveInt(args[:1], "compare [n]")
		if !ok {
			return
		}
		threads = n
	}
	ctx, cancel := r.runContext()
	defer cancel()

	start := time.Now()
	cmp, err := r.runner.Compare(ctx, orchestration.CompareRequest{
		Integrand: r.current,
		A:         r.config.A,
		B:         r.config.B,
		Samples:   r.config.Samples,
		Threads:   threads,
	})
	if err != nil {
		r.presenter.HandleError(apperrors.TimeoutFor(err, "compare", r.config.Timeout), time.Since(start), r.out)
		return
	}
	r.presenter.PresentComparison(r.subject(), cmp, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdPlot() {
	if err := plot.Render(r.out, r.current, r.config.A, r.config.B, plot.Options{}); err != nil {
		r.errorf("Plot failed: %v", err)
	}
}

func (r *REPL) cmdStatus() {
	v := func(s string) string { return ui.Paint(ui.ColorSecondary(), s) }
	fmt.Fprintf(r.out, "\n%sCurrent settings:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Function:     %s (%s)\n", v(r.current.Label), r.current.Key)
	fmt.Fprintf(r.out, "  Interval:     %s\n", v(fmt.Sprintf("[%g, %g]", r.config.A, r.config.B)))
	fmt.Fprintf(r.out, "  Samples:      %s\n", v(strconv.Itoa(r.config.Samples)))
	fmt.Fprintf(r.out, "  Speed-up:     %s\n", v(strconv.FormatFloat(r.config.Speedup, 'g', -1, 64)))
	fmt.Fprintf(r.out, "  Max threads:  %s\n", v(strconv.Itoa(r.config.MaxThreads)))
	fmt.Fprintf(r.out, "  Compare with: %s threads\n", v(strconv.Itoa(r.config.Threads)))
	fmt.Fprintf(r.out, "  Timeout:      %s\n", v(r.config.Timeout.String()))
	fmt.Fprintln(r.out)
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s is not finite", s)
	}
	return v, nil
}
