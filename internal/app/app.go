// Package app wires configuration, the integrand library, the sampler and
// the search controller into the mcspeed command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/agbru/mcspeed/internal/cli"
	"github.com/agbru/mcspeed/internal/config"
	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/integrand"
	"github.com/agbru/mcspeed/internal/logging"
	"github.com/agbru/mcspeed/internal/metrics"
	"github.com/agbru/mcspeed/internal/montecarlo"
	"github.com/agbru/mcspeed/internal/orchestration"
	"github.com/agbru/mcspeed/internal/tui"
	"github.com/agbru/mcspeed/internal/ui"
)

// Application represents the mcspeed application instance.
type Application struct {
	Config    config.AppConfig
	Registry  *integrand.Registry
	Function  integrand.Named
	Prober    orchestration.Prober
	Recorder  *metrics.Recorder
	Logger    logging.Logger
	ErrWriter io.Writer
	In        io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets the integrand library.
func WithRegistry(r *integrand.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithProber replaces the Monte Carlo sampler, mainly for tests.
func WithProber(p orchestration.Prober) AppOption {
	return func(a *Application) { a.Prober = p }
}

// WithInput sets the reader of the interactive console.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// New creates a new Application instance by parsing command-line arguments.
// The selected function is resolved against the library here so an unknown
// name fails before any timing work.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = integrand.DefaultRegistry()
	}

	programName := "mcspeed"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Registry.List())
	if err != nil {
		return nil, err
	}

	if cfg.Completion == "" && !cfg.List {
		fn, err := app.Registry.Get(cfg.Function)
		if err != nil {
			return nil, apperrors.ValidationError{Field: "function", Message: err.Error()}
		}
		app.Function = fn
	} else if fn, err := app.Registry.Get(cfg.Function); err == nil {
		app.Function = fn
	}

	cfg = config.ApplyAdaptiveDefaults(cfg)
	app.Config = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, apperrors.ValidationError{Field: "log-level", Message: err.Error()}
	}
	logger := logging.NewLogger(errWriter, "mcspeed")
	if isTerminal(errWriter) {
		logger = logging.NewConsoleLogger(errWriter, "mcspeed", cfg.NoColor)
	}
	app.Logger = logger.WithLevel(level)

	if app.Prober == nil {
		app.Prober = montecarlo.NewSampler(
			montecarlo.WithSeeder(montecarlo.SeederFor(cfg.Seed)),
			montecarlo.WithLogger(app.Logger),
		)
	}
	if cfg.MetricsOut != "" {
		app.Recorder = metrics.NewRecorder()
	}
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	applyTheme(a.Config.NoColor || !isTerminal(out), a.Config.Theme)

	if a.Config.List {
		current := a.Function.Key
		if current == "" {
			current = a.Config.Function
		}
		cli.PrintFunctionList(a.Registry.All(), current, out)
		return apperrors.ExitSuccess
	}

	var code int
	switch {
	case a.Config.Interactive:
		code = a.runInteractive(out)
	case a.Config.TUI:
		code = a.runTUI(ctx)
	case a.Config.Compare:
		code = a.runCompare(ctx, out)
	default:
		code = a.runSearch(ctx, out)
	}
	return a.writeMetrics(code)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Registry.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runInteractive starts the console. Each run command carries its own
// timeout.
func (a *Application) runInteractive(out io.Writer) int {
	repl := cli.NewREPL(a.controller(nil), a.Registry, cli.REPLConfig{
		Function:   a.Function.Key,
		A:          a.Config.A,
		B:          a.Config.B,
		Samples:    a.Config.Samples,
		Speedup:    a.Config.Speedup,
		MaxThreads: a.Config.MaxThreads,
		Threads:    a.Config.Threads,
		Timeout:    a.Config.Timeout,
		Verbose:    a.Config.Verbose,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runTUI launches the interactive TUI dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return tui.Run(ctx, tui.Session{
		Prober:   a.Prober,
		Request:  a.request(),
		Subject:  a.subject(),
		Recorder: a.Recorder,
		Logger:   a.Logger,
		Version:  Version,
	})
}

// writeMetrics exports the Prometheus text exposition when --metrics-out
// is set. A write failure turns a successful exit into a generic error.
func (a *Application) writeMetrics(code int) int {
	if a.Recorder == nil || a.Config.MetricsOut == "" {
		return code
	}
	if err := a.Recorder.WriteToTextfile(a.Config.MetricsOut); err != nil {
		err = apperrors.WrapError(err, "writing metrics to %s", a.Config.MetricsOut)
		a.Logger.Error("metrics export failed", err)
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		if code == apperrors.ExitSuccess {
			return apperrors.ExitErrorGeneric
		}
	}
	return code
}

// controller builds a Controller reporting to reporter, or to nothing when
// reporter is nil.
func (a *Application) controller(reporter orchestration.ProbeReporter) *orchestration.Controller {
	opts := []orchestration.Option{
		orchestration.WithRecorder(a.Recorder),
		orchestration.WithLogger(a.Logger),
	}
	if reporter != nil {
		opts = append(opts, orchestration.WithReporter(reporter))
	}
	return orchestration.NewController(a.Prober, opts...)
}

func (a *Application) request() orchestration.Request {
	return orchestration.Request{
		Integrand:     a.Function.Integrand,
		A:             a.Config.A,
		B:             a.Config.B,
		Samples:       a.Config.Samples,
		TargetSpeedup: a.Config.Speedup,
		MaxThreads:    a.Config.MaxThreads,
	}
}

func (a *Application) subject() orchestration.Subject {
	return orchestration.Subject{Label: a.Function.Label, A: a.Config.A, B: a.Config.B, Samples: a.Config.Samples}
}

// applyTheme selects the colour palette. NO_COLOR and noColor win over the
// requested theme.
func applyTheme(noColor bool, theme string) {
	ui.InitTheme(noColor)
	if ui.GetCurrentTheme().Name != ui.NoColorTheme.Name {
		ui.SetTheme(theme)
	}
}

// isTerminal reports whether out is a terminal. Redirected output gets no
// escape codes.
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ReportStartupError describes an error returned by New and returns the exit
// code. Flag syntax errors were already printed with the usage text by the
// flag package.
func ReportStartupError(err error, w io.Writer) int {
	var (
		configErr     apperrors.ConfigError
		validationErr apperrors.ValidationError
	)
	if errors.As(err, &configErr) || errors.As(err, &validationErr) {
		fmt.Fprintf(w, "Input error: %v\n", err)
	}
	return apperrors.ExitErrorConfig
}
