package tui

import (
	"time"

	"github.com/agbru/mcspeed/internal/metrics"
	"github.com/agbru/mcspeed/internal/orchestration"
	"github.com/agbru/mcspeed/internal/sysmon"
)

// Messages carrying a Generation belong to one search. A rerun bumps the
// model's generation so late messages from a cancelled search are dropped.

// ProbeStartedMsg is sent before each run of a search.
type ProbeStartedMsg struct {
	Kind       orchestration.ProbeKind
	Threads    int
	Generation uint64
}

// ProbeFinishedMsg is sent after each successful run.
type ProbeFinishedMsg struct {
	Record     orchestration.ProbeRecord
	Generation uint64
}

// SearchDoneMsg is sent when the search command returns.
type SearchDoneMsg struct {
	Outcome    orchestration.SearchOutcome
	Err        error
	Duration   time.Duration
	Generation uint64
}

// ContextCancelledMsg is sent when the session context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// TickMsg drives periodic resource sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory snapshot.
type MemStatsMsg metrics.MemorySnapshot

// SysStatsMsg carries a host CPU and memory snapshot.
type SysStatsMsg sysmon.Stats
