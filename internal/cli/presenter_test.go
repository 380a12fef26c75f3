package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/metrics"
	"github.com/agbru/mcspeed/internal/orchestration"
	"github.com/agbru/mcspeed/internal/sysmon"
)

var testSubject = orchestration.Subject{Label: "sin(x)", A: 0, B: 3.14, Samples: 1000}

func runResult(ms float64, threads int, estimate float64) orchestration.RunResult {
	return orchestration.RunResult{Estimate: estimate, Elapsed: time.Duration(ms * float64(time.Millisecond)), Threads: threads}
}

func TestPresentSearch(t *testing.T) {
	t.Parallel()
	outcome := orchestration.SearchOutcome{
		Baseline:        runResult(100, 1, 2.0),
		BaselineMillis:  100,
		Best:            runResult(40, 4, 1.998),
		AchievedSpeedup: 2.5,
		MetTarget:       true,
		TargetSpeedup:   2,
		Probes: []orchestration.ProbeRecord{
			{Kind: orchestration.KindProbe, Run: runResult(95, 1, 2.0), Speedup: 1.05, Drawn: 1000, Adopted: true},
			{Kind: orchestration.KindProbe, Run: runResult(40, 4, 1.998), Speedup: 2.5, Drawn: 1000, Adopted: true, MetTarget: true},
		},
	}

	tests := []struct {
		name     string
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "summary",
			contains: []string{"Function: sin(x)", "Interval: [0.00, 3.14]", "100.00 ms", "40.00 ms", "2.50×", "target 2.00×", "1.998 × 10^0"},
			excludes: []string{"Speed-up   ", "less than requested", "Threads"},
		},
		{
			name:     "verbose probe table",
			verbose:  true,
			contains: []string{"Threads", "95.00 ms", "1.05×", "1,000", "✓"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			CLIResultPresenter{}.PresentSearch(testSubject, outcome, tt.verbose, &buf)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestPresentSearch_Shortfall(t *testing.T) {
	t.Parallel()
	outcome := orchestration.SearchOutcome{
		Baseline:        runResult(100, 1, 2),
		BaselineMillis:  100,
		Best:            runResult(80, 2, 2),
		AchievedSpeedup: 1.25,
		TargetSpeedup:   1000,
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentSearch(testSubject, outcome, false, &buf)
	want := "Actual speed-up (1.25×) is less than requested (1000.00×). Try increasing the interval or sample size."
	if !strings.Contains(buf.String(), want) {
		t.Errorf("output missing shortfall warning:\n%s", buf.String())
	}
}

func TestPresentComparison(t *testing.T) {
	t.Parallel()
	cmp := orchestration.Comparison{
		Sequential: runResult(120, 1, 2.001),
		Parallel:   runResult(40, 4, 1.999),
		Speedup:    3,
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparison(testSubject, cmp, &buf)
	out := buf.String()
	for _, want := range []string{"Sequential: 120.00 ms", "Parallel:   40.00 ms", "(4 threads)", "3.00×"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPresentProbeTable_Empty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PresentProbeTable(nil, &buf)
	if buf.Len() != 0 {
		t.Errorf("empty history should print nothing, got %q", buf.String())
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantText string
	}{
		{"nil", nil, apperrors.ExitSuccess, ""},
		{"validation", apperrors.ValidationError{Field: "samples", Message: "must be positive"}, apperrors.ExitErrorConfig, "Input error"},
		{"execution", apperrors.ExecutionError{Threads: 3, Cause: errors.New("boom")}, apperrors.ExitErrorExecution, "Execution error"},
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout, "Timeout"},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled, "Canceled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if code := (CLIResultPresenter{}).HandleError(tt.err, time.Second, &buf); code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(buf.String(), tt.wantText) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.wantText)
			}
		})
	}
}

func TestDisplayResourceUsage(t *testing.T) {
	t.Parallel()
	before := metrics.MemorySnapshot{NumGC: 2, PauseTotalNs: 1_000_000}
	after := metrics.MemorySnapshot{HeapAlloc: 3 << 20, NumGC: 5, PauseTotalNs: 3_500_000, NumGoroutine: 7}
	var buf bytes.Buffer
	DisplayResourceUsage(sysmon.Stats{CPUPercent: 42.5, MemPercent: 10, PerCore: []float64{40, 45}}, before, after, &buf)
	out := buf.String()
	for _, want := range []string{"42.5%", "2 cores", "3.0 MiB", "GC cycles:       3", "2.50ms", "Goroutines:      7"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 30, "5.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
