package config

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/mcspeed/internal/errors"
)

// RunFile is the YAML form of a run configuration. Absent keys leave the
// corresponding setting untouched.
//
//	function: gauss
//	a: -3
//	b: 3
//	samples: 5000000
//	speedup: 2.5
//	max_threads: 8
//	seed: 42
//	timeout: 2m
type RunFile struct {
	Function   *string        `yaml:"function"`
	A          *float64       `yaml:"a"`
	B          *float64       `yaml:"b"`
	Samples    *int           `yaml:"samples"`
	Speedup    *float64       `yaml:"speedup"`
	MaxThreads *int           `yaml:"max_threads"`
	Threads    *int           `yaml:"threads"`
	Seed       *uint64        `yaml:"seed"`
	Timeout    *time.Duration `yaml:"timeout"`
	Plot       *bool          `yaml:"plot"`
	Verbose    *bool          `yaml:"verbose"`
	LogLevel   *string        `yaml:"log_level"`
	Theme      *string        `yaml:"theme"`
}

// ParseRunFile decodes a YAML run file. Unknown keys are rejected.
func ParseRunFile(data []byte) (RunFile, error) {
	var rf RunFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil && !isEOF(err) {
		return RunFile{}, apperrors.NewConfigError("parsing run file: %v", err)
	}
	return rf, nil
}

// LoadRunFile reads and decodes the YAML run file at path.
func LoadRunFile(path string) (RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunFile{}, apperrors.NewConfigError("reading run file: %v", err)
	}
	return ParseRunFile(data)
}

// apply copies the file's settings into config for every setting whose flag
// was not given explicitly.
func (rf RunFile) apply(config *AppConfig, fs *flag.FlagSet) {
	set := func(names ...string) bool { return !isFlagSetAny(fs, names...) }
	if rf.Function != nil && set("function", "f") {
		config.Function = *rf.Function
	}
	if rf.A != nil && set("a") {
		config.A = *rf.A
	}
	if rf.B != nil && set("b") {
		config.B = *rf.B
	}
	if rf.Samples != nil && set("samples", "n") {
		config.Samples = *rf.Samples
	}
	if rf.Speedup != nil && set("speedup", "s") {
		config.Speedup = *rf.Speedup
	}
	if rf.MaxThreads != nil && set("max-threads") {
		config.MaxThreads = *rf.MaxThreads
	}
	if rf.Threads != nil && set("threads") {
		config.Threads = *rf.Threads
	}
	if rf.Seed != nil && set("seed") {
		config.Seed = *rf.Seed
	}
	if rf.Timeout != nil && set("timeout") {
		config.Timeout = *rf.Timeout
	}
	if rf.Plot != nil && set("plot") {
		config.Plot = *rf.Plot
	}
	if rf.Verbose != nil && set("verbose", "v") {
		config.Verbose = *rf.Verbose
	}
	if rf.LogLevel != nil && set("log-level") {
		config.LogLevel = *rf.LogLevel
	}
	if rf.Theme != nil && set("theme") {
		config.Theme = *rf.Theme
	}
}

func isEOF(err error) bool { return errors.Is(err, io.EOF) }
