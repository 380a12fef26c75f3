// Package config parses and validates the mcspeed run configuration from
// command-line flags, MCSPEED_* environment variables and an optional YAML
// run file.
package config

import (
	"flag"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/logging"
)

const (
	// EnvPrefix is prepended to every environment variable override.
	EnvPrefix = "MCSPEED_"

	// DefaultFunction is the integrand used when none is selected.
	DefaultFunction = "sin"
	// DefaultA and DefaultB bound the default interval [0, 3.14].
	DefaultA = 0.0
	DefaultB = 3.14
	// DefaultSamples is the sample budget used for every run of a search.
	DefaultSamples = 10_000_000
	// DefaultSpeedup is the target speed-up over the sequential baseline.
	DefaultSpeedup = 2.0
	// DefaultCompareThreads is the parallel thread count in compare mode.
	DefaultCompareThreads = 4
	// DefaultTimeout bounds a whole search; probes already running finish.
	DefaultTimeout = 10 * time.Minute
	// DefaultLogLevel keeps diagnostic output out of normal CLI runs.
	DefaultLogLevel = "warn"
	// DefaultTheme suits dark terminal backgrounds.
	DefaultTheme = "dark"
)

// Themes lists the accepted --theme values.
var Themes = []string{"dark", "light"}

// AppConfig aggregates the parsed configuration of one invocation.
type AppConfig struct {
	// Function is the key or label of the selected integrand.
	Function string
	// A and B are the interval bounds. A > B flips the sign of the result.
	A, B float64
	// Samples is the total sample budget per run.
	Samples int
	// Speedup is the target speed-up over the single-threaded baseline.
	Speedup float64
	// MaxThreads bounds the probes; 0 means all available hardware threads.
	MaxThreads int
	// Compare switches to the console mode: one sequential and one
	// parallel run at Threads workers.
	Compare bool
	// Threads is the worker count used by compare mode.
	Threads int
	// Seed makes sampling reproducible when non-zero.
	Seed uint64
	// Timeout bounds the whole run; it is checked between probes.
	Timeout time.Duration
	// Plot renders the integrand over the interval after the results.
	Plot bool
	// TUI launches the interactive dashboard.
	TUI bool
	// Interactive starts the REPL.
	Interactive bool
	// Quiet prints only the estimate.
	Quiet bool
	// Verbose adds the probe history and resource usage to the output.
	Verbose bool
	// NoColor disables ANSI colours.
	NoColor bool
	// Theme selects the colour palette (dark or light).
	Theme string
	// LogLevel is the zerolog level name.
	LogLevel string
	// ConfigFile is an optional YAML run file.
	ConfigFile string
	// MetricsOut, when set, receives the Prometheus text exposition at exit.
	MetricsOut string
	// Completion selects a shell for which to print a completion script.
	Completion string
	// List prints the function library and exits.
	List bool
}

// Default returns the configuration used when nothing is overridden.
func Default() AppConfig {
	return AppConfig{
		Function: DefaultFunction,
		A:        DefaultA,
		B:        DefaultB,
		Samples:  DefaultSamples,
		Speedup:  DefaultSpeedup,
		Threads:  DefaultCompareThreads,
		Timeout:  DefaultTimeout,
		LogLevel: DefaultLogLevel,
		Theme:    DefaultTheme,
	}
}

// ParseConfig parses args into an AppConfig. Priority is: command-line flags,
// then MCSPEED_* environment variables, then the YAML run file, then
// defaults. functions lists the integrand keys shown in the usage text. Usage
// and parse errors are written to errWriter; flag.ErrHelp is returned unwrapped for -h.
func ParseConfig(programName string, args []string, errWriter io.Writer, functions []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	d := Default()
	config := d
	fs.StringVar(&config.Function, "function", d.Function, "Integrand key or label ("+strings.Join(functions, ", ")+").")
	fs.StringVar(&config.Function, "f", d.Function, "Integrand (shorthand).")
	fs.Float64Var(&config.A, "a", d.A, "Lower bound of the interval.")
	fs.Float64Var(&config.B, "b", d.B, "Upper bound of the interval.")
	fs.IntVar(&config.Samples, "samples", d.Samples, "Total number of Monte Carlo samples per run.")
	fs.IntVar(&config.Samples, "n", d.Samples, "Samples (shorthand).")
	fs.Float64Var(&config.Speedup, "speedup", d.Speedup, "Target speed-up over the single-threaded baseline (>= 1).")
	fs.Float64Var(&config.Speedup, "s", d.Speedup, "Target speed-up (shorthand).")
	fs.IntVar(&config.MaxThreads, "max-threads", d.MaxThreads, "Highest thread count to probe (0 = available hardware threads).")
	fs.BoolVar(&config.Compare, "compare", false, "Compare one sequential run against one parallel run.")
	fs.IntVar(&config.Threads, "threads", d.Threads, "Thread count of the parallel run in compare mode.")
	fs.Uint64Var(&config.Seed, "seed", 0, "Seed for reproducible sampling (0 = system entropy).")
	fs.DurationVar(&config.Timeout, "timeout", d.Timeout, "Maximum duration of the run, checked between probes.")
	fs.BoolVar(&config.Plot, "plot", false, "Plot the integrand after the results.")
	fs.BoolVar(&config.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start the interactive console.")
	fs.BoolVar(&config.Interactive, "i", false, "Interactive console (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the estimate.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Show the probe history and resource usage.")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose output (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable coloured output.")
	fs.StringVar(&config.Theme, "theme", d.Theme, "Colour theme ("+strings.Join(Themes, ", ")+").")
	fs.StringVar(&config.LogLevel, "log-level", d.LogLevel, "Log level (debug, info, warn, error, off).")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML run file.")
	fs.StringVar(&config.MetricsOut, "metrics-out", "", "Write Prometheus metrics to this file on exit.")
	fs.StringVar(&config.Completion, "completion", "", "Print a shell completion script (bash, zsh, fish).")
	fs.BoolVar(&config.List, "list", false, "List the available functions and exit.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if !isFlagSet(fs, "config") {
		config.ConfigFile = getEnvString("CONFIG", config.ConfigFile)
	}
	if config.ConfigFile != "" {
		rf, err := LoadRunFile(config.ConfigFile)
		if err != nil {
			return AppConfig{}, err
		}
		rf.apply(&config, fs)
	}
	if err := applyEnvOverrides(&config, fs); err != nil {
		return AppConfig{}, err
	}

	// The logger is built in every mode, so its level is checked even when
	// the rest of the validation is skipped.
	if _, err := logging.ParseLevel(config.LogLevel); err != nil {
		return AppConfig{}, apperrors.ValidationError{Field: "log-level", Message: err.Error()}
	}
	if config.Completion != "" || config.List {
		return config, nil
	}
	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the semantic consistency of the configuration. It runs
// before any timing work so invalid input never starts a probe. Resolving
// the function name against the library is left to the caller.
func (c AppConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.Function) == "":
		return apperrors.ValidationError{Field: "function", Message: "must not be empty"}
	case !isFinite(c.A):
		return apperrors.ValidationError{Field: "a", Message: "must be a finite number"}
	case !isFinite(c.B):
		return apperrors.ValidationError{Field: "b", Message: "must be a finite number"}
	case c.A == c.B:
		return apperrors.ValidationError{Field: "b", Message: "interval bounds must differ"}
	case c.Samples <= 0:
		return apperrors.ValidationError{Field: "samples", Message: "must be a positive integer"}
	case !isFinite(c.Speedup) || c.Speedup < 1:
		return apperrors.ValidationError{Field: "speedup", Message: "must be a number >= 1"}
	case c.MaxThreads < 0:
		return apperrors.ValidationError{Field: "max-threads", Message: "must not be negative"}
	case c.Compare && c.Threads < 1:
		return apperrors.ValidationError{Field: "threads", Message: "must be at least 1"}
	case c.Timeout <= 0:
		return apperrors.ValidationError{Field: "timeout", Message: "must be positive"}
	case c.TUI && c.Interactive:
		return apperrors.NewConfigError("--tui and --interactive are mutually exclusive")
	case c.TUI && c.Compare:
		return apperrors.NewConfigError("--tui and --compare are mutually exclusive")
	case !slices.Contains(Themes, c.Theme):
		return apperrors.ValidationError{Field: "theme", Message: "must be one of " + strings.Join(Themes, ", ")}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.ValidationError{Field: "log-level", Message: err.Error()}
	}
	return nil
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
