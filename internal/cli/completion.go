package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes a CLI flag for shell completion generation.
// All shell completion functions generate from this registry, so adding
// a new flag only requires appending to flagRegistry.
type FlagCompletion struct {
	Long      string   // long flag name without "--" (e.g., "samples")
	Short     string   // short flag without "-" (e.g., "n")
	Help      string   // description text
	Values    []string // suggested completion values (nil = boolean/no suggestions)
	ValueName string   // label for the value in zsh (e.g., "number", "duration")
	IsFile    bool     // true if the flag takes a file path
	IsFunc    bool     // true if values come from the function library (dynamic)
}

// flagRegistry is the central list of all CLI flags for completion generation.
var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Short: "V", Help: "Show version information"},
	{Long: "function", Short: "f", Help: "Integrand to integrate", IsFunc: true, ValueName: "function"},
	{Short: "a", Help: "Lower bound of the interval", ValueName: "number"},
	{Short: "b", Help: "Upper bound of the interval", ValueName: "number"},
	{Long: "samples", Short: "n", Help: "Samples per run", Values: []string{"100000", "1000000", "10000000"}, ValueName: "count"},
	{Long: "speedup", Short: "s", Help: "Target speed-up", Values: []string{"1.5", "2", "3", "4"}, ValueName: "ratio"},
	{Long: "max-threads", Help: "Highest thread count to probe", ValueName: "threads"},
	{Long: "compare", Help: "Compare sequential and parallel runs"},
	{Long: "threads", Help: "Parallel threads in compare mode", Values: []string{"2", "4", "8", "16"}, ValueName: "threads"},
	{Long: "seed", Help: "Seed for reproducible sampling", ValueName: "seed"},
	{Long: "timeout", Help: "Maximum execution time", Values: []string{"1m", "5m", "10m", "30m", "1h"}, ValueName: "duration"},
	{Long: "plot", Help: "Plot the integrand"},
	{Long: "tui", Help: "Launch the interactive dashboard"},
	{Long: "interactive", Short: "i", Help: "Start the interactive console"},
	{Long: "quiet", Short: "q", Help: "Print only the estimate"},
	{Long: "verbose", Short: "v", Help: "Show probe history and resource usage"},
	{Long: "no-color", Help: "Disable coloured output"},
	{Long: "theme", Help: "Colour theme", Values: []string{"dark", "light"}, ValueName: "theme"},
	{Long: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error", "off"}, ValueName: "level"},
	{Long: "config", Help: "YAML run file", IsFile: true, ValueName: "file"},
	{Long: "metrics-out", Help: "Prometheus metrics output file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
	{Long: "list", Help: "List available functions"},
}

// GenerateCompletion generates a shell completion script for the specified
// shell. functions lists the integrand keys offered for --function.
func GenerateCompletion(out io.Writer, shell string, functions []string) error {
	switch shell {
	case "bash":
		return generateBashCompletion(out, functions)
	case "zsh":
		return generateZshCompletion(out, functions)
	case "fish":
		return generateFishCompletion(out, functions)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
}

// flagNames returns the dash-prefixed spellings of f.
func flagNames(f FlagCompletion) []string {
	var names []string
	if f.Long != "" {
		names = append(names, "--"+f.Long)
	}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func generateBashCompletion(out io.Writer, functions []string) error {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		opts = append(opts, flagNames(f)...)

		var body string
		switch {
		case f.IsFunc:
			body = `COMPREPLY=( $(compgen -W "${functions}" -- "${cur}") )`
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(f.Values) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.Values, " "))
		case f.ValueName != "":
			body = "COMPREPLY=()"
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n",
			strings.Join(flagNames(f), "|"), body)
	}

	script := fmt.Sprintf(`# Bash completion script for mcspeed
# Add this to your ~/.bashrc or ~/.bash_completion

_mcspeed_completions() {
    local cur prev opts functions
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    opts="%s"
    functions="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _mcspeed_completions mcspeed
`, strings.Join(opts, " "), strings.Join(functions, " "), cases.String())

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion bash generation failed: %w", err)
	}
	return nil
}

func generateZshCompletion(out io.Writer, functions []string) error {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}

	script := fmt.Sprintf(`#compdef mcspeed

# Zsh completion script for mcspeed
# Add this to your ~/.zshrc or place in $fpath

_mcspeed() {
    local -a functions
    functions=(%s)

    _arguments -s \
%s
}

_mcspeed "$@"
`, strings.Join(functions, " "), strings.Join(args, " \\\n"))

	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion zsh generation failed: %w", err)
	}
	return nil
}

// zshArgEntry formats a single FlagCompletion as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	valueSuffix := ""
	switch {
	case f.IsFile:
		valueSuffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsFunc:
		valueSuffix = fmt.Sprintf(":%s:($functions)", f.ValueName)
	case len(f.Values) > 0:
		valueSuffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		valueSuffix = fmt.Sprintf(":%s:", f.ValueName)
	}

	if f.Long != "" && f.Short != "" {
		return fmt.Sprintf("        '(-%s --%s)'{-%s,--%s}'[%s]%s'",
			f.Short, f.Long, f.Short, f.Long, f.Help, valueSuffix)
	}
	if f.Long != "" {
		return fmt.Sprintf("        '--%s[%s]%s'", f.Long, f.Help, valueSuffix)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Short, f.Help, valueSuffix)
}

func generateFishCompletion(out io.Writer, functions []string) error {
	lines := []string{
		"# Fish completion script for mcspeed",
		"# Add this to ~/.config/fish/completions/mcspeed.fish",
		"",
		"# Disable file completion by default",
		"complete -c mcspeed -f",
		"",
	}
	fnList := strings.Join(functions, " ")
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, fnList))
	}
	lines = append(lines, "")

	if _, err := fmt.Fprint(out, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("completion fish generation failed: %w", err)
	}
	return nil
}

// fishCompleteLine formats a single FlagCompletion as a fish complete command.
func fishCompleteLine(f FlagCompletion, fnList string) string {
	parts := []string{"complete -c mcspeed"}
	if f.Short != "" {
		if len(f.Short) == 1 {
			parts = append(parts, "-s "+f.Short)
		} else {
			parts = append(parts, "-o "+f.Short)
		}
	}
	if f.Long != "" {
		parts = append(parts, "-l "+f.Long)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))

	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsFunc:
		parts = append(parts, fmt.Sprintf("-xa '%s'", fnList))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}
