package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mcspeed/internal/format"
	"github.com/agbru/mcspeed/internal/orchestration"
)

// HeaderModel renders the top bar: title, version, subject and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	subject   orchestration.Subject
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, subject orchestration.Subject) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		subject:   subject,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the search started, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "mcspeed"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")
	subject := fmt.Sprintf("∫ %s over %s, %s samples",
		h.subject.Label, format.FormatInterval(h.subject.A, h.subject.B), format.FormatCount(h.subject.Samples))
	elapsed := elapsedStyle.Render("Elapsed: " + format.FormatExecutionDuration(h.Elapsed()))

	row := titleStyle.Render(titleText) + pipe + subject + pipe + elapsed
	gap := max(h.width-2-lipgloss.Width(row), 0)
	return headerStyle.Width(h.width).Render(row + spaces(gap))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
