package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{nil, false},
		{[]string{"--version"}, true},
		{[]string{"-n", "10", "-V"}, true},
		{[]string{"-version"}, true},
		{[]string{"-v"}, false},
		{[]string{"--", "--version"}, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	saved, savedCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = saved, savedCommit })
	Version, Commit = "v1.4.0", "abc123"

	var buf bytes.Buffer
	PrintVersion(&buf)
	out := buf.String()
	for _, want := range []string{"mcspeed v1.4.0", "commit: abc123", "go:"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintVersion() missing %q:\n%s", want, out)
		}
	}
}
