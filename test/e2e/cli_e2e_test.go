package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E verifies the built binary end to end.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}

	tmpDir := t.TempDir()
	binName := "mcspeed"
	if runtime.GOOS == "windows" {
		binName = "mcspeed.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/mcspeed")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build mcspeed: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // case-insensitive substring
		wantCode int
	}{
		{
			name:     "Search",
			args:     []string{"-f", "square", "-a", "0", "-b", "1", "-n", "100000", "--max-threads", "2"},
			wantOut:  "--- Search Result ---",
			wantCode: 0,
		},
		{
			name:     "Shortfall Is Not An Error",
			args:     []string{"-n", "10000", "-s", "1000", "--max-threads", "2"},
			wantOut:  "less than requested",
			wantCode: 0,
		},
		{
			name:     "Quiet Mode",
			args:     []string{"-f", "square", "-a", "0", "-b", "3", "-n", "200000", "--max-threads", "1", "-q", "--seed", "1"},
			wantOut:  "9",
			wantCode: 0,
		},
		{
			name:     "Compare",
			args:     []string{"--compare", "--threads", "2", "-n", "100000"},
			wantOut:  "Parallel:",
			wantCode: 0,
		},
		{
			name:     "Plot",
			args:     []string{"-f", "cos", "-n", "1000", "--max-threads", "1", "--plot"},
			wantOut:  "f(x) = cos(x)",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "List",
			args:     []string{"--list"},
			wantOut:  "e^(-x^2)",
			wantCode: 0,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "mcspeed",
			wantCode: 0,
		},
		{
			name:     "Completion",
			args:     []string{"--completion", "fish"},
			wantOut:  "complete -c mcspeed",
			wantCode: 0,
		},
		{
			name:     "Unknown Function",
			args:     []string{"-f", "tan"},
			wantOut:  "unknown function",
			wantCode: 4,
		},
		{
			name:     "Equal Bounds",
			args:     []string{"-a", "1", "-b", "1"},
			wantOut:  "interval bounds must differ",
			wantCode: 4,
		},
		{
			name:     "Very Short Timeout",
			args:     []string{"-n", "50000000", "--max-threads", "4", "--timeout", "1ms"},
			wantOut:  "timeout",
			wantCode: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("Command did not run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("Exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}

			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
