// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/mcspeed/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// This is useful for aliased flags where either the short or long form may be used.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the MCSPEED_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
// A value that does not parse is an input error.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) error
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Numeric overrides
	{"A", []string{"a"}, func(c *AppConfig, v string) (err error) {
		c.A, err = strconv.ParseFloat(v, 64)
		return err
	}},
	{"B", []string{"b"}, func(c *AppConfig, v string) (err error) {
		c.B, err = strconv.ParseFloat(v, 64)
		return err
	}},
	{"SAMPLES", []string{"samples", "n"}, func(c *AppConfig, v string) (err error) {
		c.Samples, err = strconv.Atoi(v)
		return err
	}},
	{"SPEEDUP", []string{"speedup", "s"}, func(c *AppConfig, v string) (err error) {
		c.Speedup, err = strconv.ParseFloat(v, 64)
		return err
	}},
	{"MAX_THREADS", []string{"max-threads"}, func(c *AppConfig, v string) (err error) {
		c.MaxThreads, err = strconv.Atoi(v)
		return err
	}},
	{"THREADS", []string{"threads"}, func(c *AppConfig, v string) (err error) {
		c.Threads, err = strconv.Atoi(v)
		return err
	}},
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) (err error) {
		c.Seed, err = strconv.ParseUint(v, 10, 64)
		return err
	}},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) (err error) {
		c.Timeout, err = time.ParseDuration(v)
		return err
	}},

	// String overrides
	{"FUNCTION", []string{"function", "f"}, func(c *AppConfig, v string) error {
		c.Function = v
		return nil
	}},
	{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) error {
		c.LogLevel = v
		return nil
	}},
	{"THEME", []string{"theme"}, func(c *AppConfig, v string) error {
		c.Theme = v
		return nil
	}},
	{"METRICS_OUT", []string{"metrics-out"}, func(c *AppConfig, v string) error {
		c.MetricsOut = v
		return nil
	}},

	// Boolean overrides
	{"COMPARE", []string{"compare"}, func(c *AppConfig, v string) error {
		c.Compare = parseBoolEnv(v, c.Compare)
		return nil
	}},
	{"PLOT", []string{"plot"}, func(c *AppConfig, v string) error {
		c.Plot = parseBoolEnv(v, c.Plot)
		return nil
	}},
	{"VERBOSE", []string{"v", "verbose"}, func(c *AppConfig, v string) error {
		c.Verbose = parseBoolEnv(v, c.Verbose)
		return nil
	}},
	{"QUIET", []string{"quiet", "q"}, func(c *AppConfig, v string) error {
		c.Quiet = parseBoolEnv(v, c.Quiet)
		return nil
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) error {
		c.NoColor = parseBoolEnv(v, c.NoColor)
		return nil
	}},
	{"TUI", []string{"tui"}, func(c *AppConfig, v string) error {
		c.TUI = parseBoolEnv(v, c.TUI)
		return nil
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > run file > Defaults.
//
// Supported environment variables (all prefixed with MCSPEED_):
//   - A, B, SAMPLES, SPEEDUP, MAX_THREADS, THREADS, SEED, TIMEOUT,
//     FUNCTION, LOG_LEVEL, THEME, METRICS_OUT, CONFIG,
//     COMPARE, PLOT, VERBOSE, QUIET, NO_COLOR, TUI
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			if err := o.apply(config, strings.TrimSpace(val)); err != nil {
				return apperrors.NewConfigError("invalid value %q for %s%s: %v", val, EnvPrefix, o.envKey, err)
			}
		}
	}
	return nil
}
