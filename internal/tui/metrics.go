package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mcspeed/internal/format"
	"github.com/agbru/mcspeed/internal/orchestration"
)

// MetricsModel displays search progress alongside runtime memory and host
// load.
type MetricsModel struct {
	mem        MemStatsMsg
	cpuPercent float64
	memPercent float64
	progress   *orchestration.SearchProgress
	threads    int
	best       float64
	target     float64
	width      int
	height     int
}

// NewMetricsModel creates a metrics panel for a search aiming at target.
func NewMetricsModel(progress *orchestration.SearchProgress, target float64) MetricsModel {
	return MetricsModel{progress: progress, target: target}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.mem = msg
}

// UpdateSysStats updates host load.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpuPercent = msg.CPUPercent
	m.memPercent = msg.MemPercent
}

// ProbeStarted records the thread count in progress.
func (m *MetricsModel) ProbeStarted(threads int) {
	m.threads = threads
}

// ProbeFinished feeds a run into the progress tracker.
func (m *MetricsModel) ProbeFinished(rec orchestration.ProbeRecord) {
	if m.progress != nil {
		m.progress.Observe(rec)
	}
	if rec.Adopted {
		m.best = rec.Speedup
	}
}

// Finish marks the search complete.
func (m *MetricsModel) Finish() {
	if m.progress != nil {
		m.progress.Finish()
	}
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	colWidth := max((m.width-6)/2, 0)
	var frac float64
	var eta time.Duration
	var runs string
	if m.progress != nil {
		frac, eta = m.progress.Fraction(), m.progress.ETA()
		runs = fmt.Sprintf("%d/%d", m.progress.Completed(), m.progress.Planned())
	}

	var rows strings.Builder
	rows.WriteString(panelTitleStyle.Render("Search"))
	rows.WriteString("\n  ")
	rows.WriteString(renderBar(frac, max(m.width-16, 4)))
	rows.WriteString(metricValueStyle.Render(fmt.Sprintf(" %3.0f%%", frac*100)))

	left := []string{
		formatMetricCol("Runs:", runs, colWidth),
		formatMetricCol("Best:", format.FormatSpeedup(m.best), colWidth),
		formatMetricCol("CPU:", fmt.Sprintf("%.1f%%", m.cpuPercent), colWidth),
		formatMetricCol("Heap:", formatBytes(m.mem.HeapAlloc), colWidth),
	}
	right := []string{
		formatMetricCol("Threads:", fmt.Sprint(m.threads), colWidth),
		formatMetricCol("Target:", format.FormatSpeedup(m.target), colWidth),
		formatMetricCol("Mem:", fmt.Sprintf("%.1f%%", m.memPercent), colWidth),
		formatMetricCol("GC:", fmt.Sprintf("%d (%.1fms)", m.mem.NumGC, float64(m.mem.PauseTotalNs)/1e6), colWidth),
	}
	left = append(left, formatMetricCol("ETA:", format.FormatETA(eta), colWidth))
	right = append(right, formatMetricCol("Goroutines:", fmt.Sprint(m.mem.NumGoroutine), colWidth))

	for i := range left {
		rows.WriteString("\n")
		rows.WriteString(left[i])
		rows.WriteString(right[i])
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

// renderBar renders progress in [0, 1] as a bar of width cells.
func renderBar(progress float64, width int) string {
	filled := int(min(max(progress, 0), 1) * float64(width))
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-11s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
