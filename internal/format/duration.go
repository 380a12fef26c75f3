package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatMillis renders fractional milliseconds with two decimals, the
// precision used for every run timing ("12.34 ms").
func FormatMillis(ms float64) string {
	return fmt.Sprintf("%.2f ms", ms)
}

// FormatETA renders a remaining-time estimate, rounded to the second above
// one second and to the millisecond below. Zero or negative yields "-".
func FormatETA(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
