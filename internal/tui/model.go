// Package tui implements the interactive dashboard: a live probe log, the
// search progress and host load, the speed-up of each thread count and a
// plot of the integrand.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/logging"
	"github.com/agbru/mcspeed/internal/metrics"
	"github.com/agbru/mcspeed/internal/orchestration"
	"github.com/agbru/mcspeed/internal/sysmon"
)

// Session describes the search shown by the dashboard.
type Session struct {
	Prober   orchestration.Prober
	Request  orchestration.Request
	Subject  orchestration.Subject
	Recorder *metrics.Recorder
	Logger   logging.Logger
	Version  string
}

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// Layout constants for the TUI dashboard.
const (
	headerHeight          = 1
	footerHeight          = 1
	minBodyHeight         = 8
	LeftPanelWidthPercent = 60
	MetricsPanelHeight    = 9
)

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) leftWidth() int { return l.width * LeftPanelWidthPercent / 100 }

func (l LayoutManager) rightWidth() int { return l.width - l.leftWidth() }

func (l LayoutManager) plotHeight() int { return l.bodyHeight() / 2 }

func (l LayoutManager) logsHeight() int { return l.bodyHeight() - l.plotHeight() }

func (l LayoutManager) metricsHeight() int { return min(MetricsPanelHeight, l.bodyHeight()/2) }

func (l LayoutManager) chartHeight() int { return l.bodyHeight() - l.metricsHeight() }

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header  HeaderModel
	logs    LogsModel
	metrics MetricsModel
	chart   ChartModel
	plot    PlotModel
	footer  FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	session   Session
	ref       *programRef
	paused    bool
}

// NewModel creates a new TUI model.
func NewModel(parentCtx context.Context, session Session) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	keymap := DefaultKeyMap()
	req := session.Request
	return Model{
		header:  NewHeaderModel(session.Version, session.Subject),
		logs:    NewLogsModel(),
		metrics: NewMetricsModel(orchestration.NewSearchProgress(req.MaxThreads), req.TargetSpeedup),
		chart:   NewChartModel(req.TargetSpeedup),
		plot:    NewPlotModel(req.Integrand, req.A, req.B, session.Subject.Label),
		footer:  NewFooterModel(keymap),
		keymap:  keymap,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		session:   session,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startSearchCmd(m.ref, m.ctx, m.session, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ProbeStartedMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.logs.AddProbeStarted(msg.Kind, msg.Threads)
		m.metrics.ProbeStarted(msg.Threads)
		return m, nil

	case ProbeFinishedMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.logs.AddProbeFinished(msg.Record)
		m.metrics.ProbeFinished(msg.Record)
		m.chart.AddProbe(msg.Record)
		return m, nil

	case SearchDoneMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous search
		}
		m.done = true
		m.exitCode = apperrors.ExitCodeFor(msg.Err)
		m.header.SetDone()
		m.metrics.Finish()
		m.footer.SetDone(true)
		if msg.Err != nil {
			m.logs.AddError(msg.Err)
			m.footer.SetError(true)
			return m, nil
		}
		m.logs.AddOutcome(msg.Outcome)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		m.chart.UpdateSysStats(msg)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Rerun):
		if !m.done {
			return m, nil
		}
		m.generation++
		m.cancel()
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)

		req := m.session.Request
		m.header.Reset()
		m.logs.Reset()
		m.chart.Reset()
		m.metrics = NewMetricsModel(orchestration.NewSearchProgress(req.MaxThreads), req.TargetSpeedup)
		m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.footer.SetPaused(false)
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess

		return m, tea.Batch(
			tickCmd(),
			startSearchCmd(m.ref, m.ctx, m.session, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.logs.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	left := lipgloss.JoinVertical(lipgloss.Left, m.plot.View(), m.logs.View())
	right := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.plot.SetSize(m.leftWidth(), m.plotHeight())
	m.logs.SetSize(m.leftWidth(), m.logsHeight())
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// ExitCode returns the exit code of the last search.
func (m Model) ExitCode() int { return m.exitCode }

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, session Session) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, session)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so the search can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startSearchCmd returns a tea.Cmd that runs the search with a reporter
// forwarding its events to the program.
func startSearchCmd(ref *programRef, ctx context.Context, session Session, gen uint64) tea.Cmd {
	return func() tea.Msg {
		opts := []orchestration.Option{
			orchestration.WithReporter(&TUIProbeReporter{ref: ref, generation: gen}),
			orchestration.WithRecorder(session.Recorder),
		}
		if session.Logger != nil {
			opts = append(opts, orchestration.WithLogger(session.Logger))
		}
		ctl := orchestration.NewController(session.Prober, opts...)

		start := time.Now()
		outcome, err := ctl.Search(ctx, session.Request)
		return SearchDoneMsg{Outcome: outcome, Err: err, Duration: time.Since(start), Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg(metrics.NewMemoryCollector().Snapshot())
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg(sysmon.Sample())
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
