package orchestration

import (
	"sync"
	"time"
)

// SearchProgress tracks how far a search has gone. A search runs at most
// MaxThreads+1 times (the baseline plus one probe per thread count), so the
// fraction is an upper-bound view: an early stop jumps it to 1.
// Both the CLI spinner and the TUI read it; it is safe for concurrent use.
type SearchProgress struct {
	mu        sync.Mutex
	planned   int
	completed int
	total     time.Duration
	done      bool
}

// NewSearchProgress returns a tracker for a search probing up to maxThreads
// thread counts. Returns nil if maxThreads <= 0.
func NewSearchProgress(maxThreads int) *SearchProgress {
	if maxThreads <= 0 {
		return nil
	}
	return &SearchProgress{planned: maxThreads + 1}
}

// Observe records a finished run.
func (p *SearchProgress) Observe(rec ProbeRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	p.total += rec.Run.Elapsed
	if rec.MetTarget {
		p.done = true
	}
}

// Finish marks the search complete.
func (p *SearchProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
}

// Fraction returns the completed share of planned runs, in [0, 1].
func (p *SearchProgress) Fraction() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return 1
	}
	return min(float64(p.completed)/float64(p.planned), 1)
}

// ETA estimates the time left if every remaining probe runs, from the mean
// duration of the runs so far. Zero before the first run completes.
func (p *SearchProgress) ETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done || p.completed == 0 {
		return 0
	}
	mean := p.total / time.Duration(p.completed)
	return mean * time.Duration(max(p.planned-p.completed, 0))
}

// Completed returns the number of runs observed.
func (p *SearchProgress) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// Planned returns the maximum number of runs of the search.
func (p *SearchProgress) Planned() int { return p.planned }
