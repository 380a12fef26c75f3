package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/mcspeed/internal/format"
	"github.com/agbru/mcspeed/internal/orchestration"
	"github.com/agbru/mcspeed/internal/ui"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the spinner.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 24
)

// Spinner abstracts the terminal spinner so the probe reporter can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(out io.Writer) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, spinner.WithWriter(out))
	return &realSpinner{s}
}

// SpinnerReporter implements orchestration.ProbeReporter with a spinner,
// a progress bar over the planned runs and an ETA. The spinner starts on
// the first run and stops when the search finishes or Stop is called.
type SpinnerReporter struct {
	mu       sync.Mutex
	spinner  Spinner
	progress *orchestration.SearchProgress
	running  bool
}

var _ orchestration.ProbeReporter = (*SpinnerReporter)(nil)

// NewSpinnerReporter returns a reporter writing to out for a search probing
// up to maxThreads thread counts. Compare runs pass maxThreads=1, which
// plans the two runs of a comparison.
func NewSpinnerReporter(out io.Writer, maxThreads int) *SpinnerReporter {
	return &SpinnerReporter{
		spinner:  newSpinner(out),
		progress: orchestration.NewSearchProgress(maxThreads),
	}
}

// ProbeStarted shows which run is in progress.
func (r *SpinnerReporter) ProbeStarted(kind orchestration.ProbeKind, threads int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spinner.UpdateSuffix(" " + r.describe(kind, threads))
	if !r.running {
		r.spinner.Start()
		r.running = true
	}
}

// ProbeFinished advances the progress bar.
func (r *SpinnerReporter) ProbeFinished(rec orchestration.ProbeRecord) {
	if r.progress != nil {
		r.progress.Observe(rec)
	}
}

// SearchFinished stops the spinner.
func (r *SpinnerReporter) SearchFinished(orchestration.SearchOutcome) {
	r.Stop()
}

// Stop halts the spinner. It is safe to call more than once.
func (r *SpinnerReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		r.progress.Finish()
	}
	if r.running {
		r.spinner.Stop()
		r.running = false
	}
}

func (r *SpinnerReporter) describe(kind orchestration.ProbeKind, threads int) string {
	var label string
	switch kind {
	case orchestration.KindBaseline:
		label = "Timing sequential baseline"
	default:
		label = fmt.Sprintf("Probing %d thread(s)", threads)
	}
	if r.progress == nil {
		return label + "..."
	}
	frac := r.progress.Fraction()
	return fmt.Sprintf("%s... %s %3.0f%% ETA %s",
		label, progressBar(frac, ProgressBarWidth), frac*100, format.FormatETA(r.progress.ETA()))
}

// progressBar renders progress in [0, 1] as a bar of length cells.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := range length {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return ui.Paint(ui.ColorPrimary(), builder.String())
}
