package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/mcspeed/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the search goroutine can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProbeReporter implements orchestration.ProbeReporter by forwarding
// search events to the dashboard as bubbletea messages.
type TUIProbeReporter struct {
	ref        *programRef
	generation uint64
}

// Verify interface compliance.
var _ orchestration.ProbeReporter = (*TUIProbeReporter)(nil)

// ProbeStarted sends a ProbeStartedMsg.
func (t *TUIProbeReporter) ProbeStarted(kind orchestration.ProbeKind, threads int) {
	t.ref.Send(ProbeStartedMsg{Kind: kind, Threads: threads, Generation: t.generation})
}

// ProbeFinished sends a ProbeFinishedMsg.
func (t *TUIProbeReporter) ProbeFinished(rec orchestration.ProbeRecord) {
	t.ref.Send(ProbeFinishedMsg{Record: rec, Generation: t.generation})
}

// SearchFinished does nothing: the outcome arrives with SearchDoneMsg,
// which also carries errors.
func (t *TUIProbeReporter) SearchFinished(orchestration.SearchOutcome) {}
