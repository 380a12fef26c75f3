package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/mcspeed/internal/format"
	"github.com/agbru/mcspeed/internal/orchestration"
)

// historySize bounds the CPU history kept for the chart.
const historySize = 120

// ChartModel shows the speed-up of each probe against the target and the
// recent host CPU load.
type ChartModel struct {
	speedups   []float64
	target     float64
	cpuHistory *RingBuffer
	width      int
	height     int
}

// NewChartModel creates an empty chart for a search aiming at target.
func NewChartModel(target float64) ChartModel {
	return ChartModel{target: target, cpuHistory: NewRingBuffer(historySize)}
}

// SetSize updates dimensions.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// AddProbe records the speed-up of a probe. The baseline is ignored.
func (c *ChartModel) AddProbe(rec orchestration.ProbeRecord) {
	if rec.Kind == orchestration.KindBaseline {
		return
	}
	c.speedups = append(c.speedups, rec.Speedup)
}

// UpdateSysStats appends a CPU sample.
func (c *ChartModel) UpdateSysStats(msg SysStatsMsg) {
	c.cpuHistory.Push(msg.CPUPercent)
}

// Reset clears the chart.
func (c *ChartModel) Reset() {
	c.speedups = nil
	c.cpuHistory.Reset()
}

func (c ChartModel) ceiling() float64 {
	m := c.target
	for _, s := range c.speedups {
		m = max(m, s)
	}
	return m
}

// View renders the chart panel.
func (c ChartModel) View() string {
	inner := max(c.width-4, 1)
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Speed-up by thread count"))
	b.WriteString("\n")
	if len(c.speedups) == 0 {
		b.WriteString(metricLabelStyle.Render("waiting for probes..."))
	} else {
		spark := c.speedups[max(len(c.speedups)-inner, 0):]
		b.WriteString(speedupStyle.Render(RenderSparkline(spark, c.ceiling())))
		b.WriteString("\n")
		last := c.speedups[len(c.speedups)-1]
		b.WriteString(metricLabelStyle.Render(fmt.Sprintf("last %s  target %s  threads 1..%d",
			format.FormatSpeedup(last), format.FormatSpeedup(c.target), len(c.speedups))))
	}

	cpuRows := c.height - 8
	if cpuRows > 0 && c.cpuHistory.Len() > 0 {
		b.WriteString("\n\n")
		b.WriteString(panelTitleStyle.Render(fmt.Sprintf("CPU %.0f%%", c.cpuHistory.Last())))
		for _, line := range RenderBrailleChart(c.cpuHistory.Slice(), 100, inner, cpuRows) {
			b.WriteString("\n")
			b.WriteString(cpuChartStyle.Render(line))
		}
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(b.String())
}
