package app

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Version is the release version, set at build time with
// -ldflags "-X github.com/agbru/mcspeed/internal/app.Version=v1.0.0".
var Version = "dev"

// Commit and BuildDate are optional build metadata, also set via -ldflags.
var (
	Commit    = ""
	BuildDate = ""
)

// HasVersionFlag reports whether args request the version banner. Parsing
// stops at "--".
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--version", "-version", "-V":
			return true
		case "--":
			return false
		}
	}
	return false
}

// PrintVersion writes the version banner.
func PrintVersion(out io.Writer) {
	fmt.Fprintf(out, "mcspeed %s\n", resolvedVersion())
	if Commit != "" {
		fmt.Fprintf(out, "  commit: %s\n", Commit)
	}
	if BuildDate != "" {
		fmt.Fprintf(out, "  built:  %s\n", BuildDate)
	}
	fmt.Fprintf(out, "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// resolvedVersion falls back to the module version recorded by
// "go install" when Version was not set at link time.
func resolvedVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
