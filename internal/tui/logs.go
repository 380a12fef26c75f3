package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/mcspeed/internal/cli"
	"github.com/agbru/mcspeed/internal/format"
	"github.com/agbru/mcspeed/internal/orchestration"
)

// LogsModel is the scrollable probe log.
type LogsModel struct {
	vp     viewport.Model
	lines  []string
	width  int
	height int
	now    func() time.Time
}

// NewLogsModel creates an empty log.
func NewLogsModel() LogsModel {
	return LogsModel{vp: viewport.New(0, 0), now: time.Now}
}

// SetSize updates dimensions, including the panel border.
func (l *LogsModel) SetSize(w, h int) {
	l.width, l.height = w, h
	l.vp.Width = max(w-4, 0)
	l.vp.Height = max(h-3, 0)
	l.refresh()
}

// Lines returns the log entries without styling metadata.
func (l LogsModel) Lines() []string { return l.lines }

func (l *LogsModel) add(line string) {
	stamp := logTimeStyle.Render(l.now().Format("15:04:05"))
	l.lines = append(l.lines, stamp+" "+line)
	l.refresh()
	l.vp.GotoBottom()
}

func (l *LogsModel) refresh() {
	l.vp.SetContent(strings.Join(l.lines, "\n"))
}

// AddProbeStarted logs the start of a run.
func (l *LogsModel) AddProbeStarted(kind orchestration.ProbeKind, threads int) {
	l.add(fmt.Sprintf("%s started with %d thread(s)", logKindStyle.Render(string(kind)), threads))
}

// AddProbeFinished logs a finished run.
func (l *LogsModel) AddProbeFinished(rec orchestration.ProbeRecord) {
	line := fmt.Sprintf("%s t=%d %s", logKindStyle.Render(string(rec.Kind)), rec.Run.Threads, format.FormatMillis(rec.Run.ElapsedMillis()))
	if rec.Kind != orchestration.KindBaseline {
		line += " speed-up " + format.FormatSpeedup(rec.Speedup)
	}
	if rec.Skipped > 0 {
		line += logWarningStyle.Render(fmt.Sprintf(" (%d skipped)", rec.Skipped))
	}
	switch {
	case rec.MetTarget:
		line += logSuccessStyle.Render(" ✓ target met")
	case rec.Adopted:
		line += logSuccessStyle.Render(" * best so far")
	}
	l.add(line)
}

// AddOutcome logs the final result of a search.
func (l *LogsModel) AddOutcome(o orchestration.SearchOutcome) {
	l.add(logSuccessStyle.Render(fmt.Sprintf("best: %d thread(s), %s, speed-up %s, estimate %s",
		o.Best.Threads, format.FormatMillis(o.Best.ElapsedMillis()),
		format.FormatSpeedup(o.AchievedSpeedup), format.FormatScientific(o.Best.Estimate))))
	if !o.MetTarget {
		l.add(logWarningStyle.Render(cli.ShortfallWarning(o.AchievedSpeedup, o.TargetSpeedup)))
	}
}

// AddError logs a failed search.
func (l *LogsModel) AddError(err error) {
	l.add(logErrorStyle.Render("error: " + err.Error()))
}

// Reset clears the log.
func (l *LogsModel) Reset() {
	l.lines = nil
	l.refresh()
	l.vp.GotoTop()
}

// Update forwards scrolling keys to the viewport.
func (l *LogsModel) Update(msg tea.Msg) {
	l.vp, _ = l.vp.Update(msg)
}

// View renders the log panel.
func (l LogsModel) View() string {
	body := panelTitleStyle.Render("Probes") + "\n" + l.vp.View()
	return panelStyle.Width(max(l.width-2, 0)).Height(max(l.height-2, 0)).Render(body)
}
