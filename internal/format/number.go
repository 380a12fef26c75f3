// Package format renders durations, estimates and speed-up ratios for the
// CLI, the REPL and the TUI.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatScientific renders v with four significant digits in the form
// "1.234 × 10^-1". Non-finite values use their fmt spelling.
func FormatScientific(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%v", v)
	}
	s := strconv.FormatFloat(v, 'e', 3, 64)
	mantissa, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	n, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%s × 10^%d", mantissa, n)
}

// FormatSpeedup renders a speed-up ratio as "1.85×".
func FormatSpeedup(v float64) string {
	return fmt.Sprintf("%.2f×", v)
}

// FormatInterval renders an interval as "[0.00, 3.14]".
func FormatInterval(a, b float64) string {
	return fmt.Sprintf("[%.2f, %.2f]", a, b)
}

// FormatCount inserts thousands separators: 10000000 becomes "10,000,000".
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
