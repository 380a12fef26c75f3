package orchestration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"

	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/integrand"
	"github.com/agbru/mcspeed/internal/logging"
	"github.com/agbru/mcspeed/internal/metrics"
	"github.com/agbru/mcspeed/internal/montecarlo"
	"github.com/agbru/mcspeed/internal/orchestration"
	"github.com/agbru/mcspeed/internal/orchestration/mocks"
)

var square = integrand.Func(func(x float64) float64 { return x * x })

// fakeClock only moves when advanced.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Sub(t)
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// takes returns a gomock action that makes the probe last d on clock.
func takes(clock *fakeClock, d time.Duration, estimate float64) func(context.Context, integrand.Integrand, float64, float64, int, int) (montecarlo.Result, error) {
	return func(_ context.Context, _ integrand.Integrand, _, _ float64, samples, threads int) (montecarlo.Result, error) {
		clock.advance(d)
		return montecarlo.Result{Value: estimate, Drawn: samples, Threads: threads}, nil
	}
}

func request(target float64, maxThreads int) orchestration.Request {
	return orchestration.Request{
		Integrand:     square,
		A:             0,
		B:             1,
		Samples:       1000,
		TargetSpeedup: target,
		MaxThreads:    maxThreads,
	}
}

func TestSearch_EarlyStop(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	clock := newFakeClock()
	prober := mocks.NewMockProber(ctrl)

	gomock.InOrder(
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), 0.0, 1.0, 1000, 1).
			DoAndReturn(takes(clock, 100*time.Millisecond, 0.333)),
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), 0.0, 1.0, 1000, 1).
			DoAndReturn(takes(clock, 100*time.Millisecond, 0.334)),
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), 0.0, 1.0, 1000, 2).
			DoAndReturn(takes(clock, 50*time.Millisecond, 0.332)),
	)
	prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 3).Times(0)

	c := orchestration.NewController(prober, orchestration.WithClock(clock))
	outcome, err := c.Search(context.Background(), request(1.5, 8))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if outcome.Best.Threads != 2 {
		t.Errorf("Best.Threads = %d, want 2", outcome.Best.Threads)
	}
	if outcome.Best.Estimate != 0.332 {
		t.Errorf("Best.Estimate = %v, want the threads=2 estimate", outcome.Best.Estimate)
	}
	if !outcome.MetTarget {
		t.Error("MetTarget = false, want true")
	}
	if outcome.AchievedSpeedup != 2 {
		t.Errorf("AchievedSpeedup = %v, want 2", outcome.AchievedSpeedup)
	}
	if outcome.BaselineMillis != 100 {
		t.Errorf("BaselineMillis = %v, want 100", outcome.BaselineMillis)
	}
	if len(outcome.Probes) != 2 {
		t.Fatalf("len(Probes) = %d, want 2", len(outcome.Probes))
	}
	if !outcome.Probes[1].MetTarget || !outcome.Probes[1].Adopted {
		t.Errorf("last probe = %+v, want adopted early stop", outcome.Probes[1])
	}
}

func TestSearch_GracefulShortfall(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	clock := newFakeClock()
	prober := mocks.NewMockProber(ctrl)

	gomock.InOrder(
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 1).
			DoAndReturn(takes(clock, 100*time.Millisecond, 1)),
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 1).
			DoAndReturn(takes(clock, 100*time.Millisecond, 1)),
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 2).
			DoAndReturn(takes(clock, 40*time.Millisecond, 2)),
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 3).
			DoAndReturn(takes(clock, 50*time.Millisecond, 3)),
		// Ties the best speed-up: not strictly greater, so not adopted.
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 4).
			DoAndReturn(takes(clock, 40*time.Millisecond, 4)),
	)

	c := orchestration.NewController(prober, orchestration.WithClock(clock))
	outcome, err := c.Search(context.Background(), request(1000, 4))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if outcome.MetTarget {
		t.Error("MetTarget = true, want false")
	}
	if len(outcome.Probes) != 4 {
		t.Errorf("len(Probes) = %d, want 4", len(outcome.Probes))
	}
	if outcome.Best.Threads != 2 || outcome.Best.Estimate != 2 {
		t.Errorf("Best = %+v, want the threads=2 run", outcome.Best)
	}
	if outcome.AchievedSpeedup != 2.5 {
		t.Errorf("AchievedSpeedup = %v, want 2.5", outcome.AchievedSpeedup)
	}
	if outcome.TargetSpeedup != 1000 {
		t.Errorf("TargetSpeedup = %v, want 1000", outcome.TargetSpeedup)
	}

	adopted := []bool{true, true, false, false}
	for i, p := range outcome.Probes {
		if p.Adopted != adopted[i] {
			t.Errorf("Probes[%d].Adopted = %v, want %v", i, p.Adopted, adopted[i])
		}
		if p.Run.Threads != i+1 {
			t.Errorf("Probes[%d].Threads = %d, want %d", i, p.Run.Threads, i+1)
		}
	}
}

func TestSearch_ProbeErrorAborts(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	clock := newFakeClock()
	prober := mocks.NewMockProber(ctrl)
	cause := errors.New("worker 1 panicked: boom")

	gomock.InOrder(
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 1).
			DoAndReturn(takes(clock, 100*time.Millisecond, 1)).Times(2),
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 2).
			DoAndReturn(takes(clock, 90*time.Millisecond, 1)),
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 3).
			Return(montecarlo.Result{}, cause),
	)
	prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 4).Times(0)

	c := orchestration.NewController(prober, orchestration.WithClock(clock))
	outcome, err := c.Search(context.Background(), request(1000, 4))

	var ee apperrors.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("error = %v, want ExecutionError", err)
	}
	if ee.Threads != 3 {
		t.Errorf("ExecutionError.Threads = %d, want 3", ee.Threads)
	}
	if !errors.Is(err, cause) {
		t.Error("ExecutionError should wrap the probe failure")
	}
	if outcome.Best != (orchestration.RunResult{}) || outcome.Probes != nil {
		t.Errorf("no partial outcome expected, got %+v", outcome)
	}
}

func TestSearch_BaselineErrorAborts(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 1).
		Return(montecarlo.Result{}, apperrors.ExecutionError{Threads: 1, Cause: errors.New("no entropy")}).
		Times(1)

	_, err := orchestration.NewController(prober).Search(context.Background(), request(2, 4))
	var ee apperrors.ExecutionError
	if !errors.As(err, &ee) || ee.Threads != 1 {
		t.Errorf("error = %v, want ExecutionError for threads=1", err)
	}
}

func TestSearch_InvalidRequest(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		mutate    func(*orchestration.Request)
		wantField string
	}{
		{"no integrand", func(r *orchestration.Request) { r.Integrand = nil }, "function"},
		{"zero samples", func(r *orchestration.Request) { r.Samples = 0 }, "samples"},
		{"zero target", func(r *orchestration.Request) { r.TargetSpeedup = 0 }, "speedup"},
		{"NaN target", func(r *orchestration.Request) { r.TargetSpeedup = math.NaN() }, "speedup"},
		{"zero max threads", func(r *orchestration.Request) { r.MaxThreads = 0 }, "max-threads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			prober := mocks.NewMockProber(ctrl)
			prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			req := request(2, 4)
			tt.mutate(&req)
			_, err := orchestration.NewController(prober).Search(context.Background(), req)
			var ve apperrors.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.wantField {
				t.Errorf("error = %v, want ValidationError for %q", err, tt.wantField)
			}
		})
	}
}

// cancelAfter cancels the search context once n runs have finished.
type cancelAfter struct {
	orchestration.NullProbeReporter
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) ProbeFinished(orchestration.ProbeRecord) {
	c.n--
	if c.n == 0 {
		c.cancel()
	}
}

func TestSearch_CanceledBetweenProbes(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	clock := newFakeClock()
	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(takes(clock, 10*time.Millisecond, 1)).Times(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reporter := &cancelAfter{n: 3, cancel: cancel}

	c := orchestration.NewController(prober, orchestration.WithClock(clock), orchestration.WithReporter(reporter))
	_, err := c.Search(ctx, request(1000, 8))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSearch_ReporterSequence(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	clock := newFakeClock()
	prober := mocks.NewMockProber(ctrl)
	reporter := mocks.NewMockProbeReporter(ctrl)

	prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(takes(clock, 10*time.Millisecond, 1)).Times(3)

	gomock.InOrder(
		reporter.EXPECT().ProbeStarted(orchestration.KindBaseline, 1),
		reporter.EXPECT().ProbeFinished(gomock.Any()),
		reporter.EXPECT().ProbeStarted(orchestration.KindProbe, 1),
		reporter.EXPECT().ProbeFinished(gomock.Any()),
		reporter.EXPECT().ProbeStarted(orchestration.KindProbe, 2),
		reporter.EXPECT().ProbeFinished(gomock.Any()),
		reporter.EXPECT().SearchFinished(gomock.Any()),
	)

	c := orchestration.NewController(prober, orchestration.WithClock(clock), orchestration.WithReporter(reporter))
	if _, err := c.Search(context.Background(), request(1000, 2)); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
}

func TestSearch_ElapsedClampedToOneNanosecond(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	clock := newFakeClock() // never advanced
	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(montecarlo.Result{Value: 1}, nil).Times(3)

	c := orchestration.NewController(prober, orchestration.WithClock(clock))
	outcome, err := c.Search(context.Background(), request(1000, 2))
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Best.Elapsed != time.Nanosecond || outcome.AchievedSpeedup != 1 {
		t.Errorf("outcome = %+v, want 1ns runs and speed-up 1", outcome)
	}
	if math.IsInf(outcome.AchievedSpeedup, 0) || math.IsNaN(outcome.AchievedSpeedup) {
		t.Error("speed-up must be finite")
	}
}

func TestSearch_RecordsMetrics(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	clock := newFakeClock()
	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(takes(clock, 10*time.Millisecond, 1)).Times(4)

	rec := metrics.NewRecorder()
	c := orchestration.NewController(prober, orchestration.WithClock(clock), orchestration.WithRecorder(rec))
	if _, err := c.Search(context.Background(), request(1000, 3)); err != nil {
		t.Fatal(err)
	}

	// One series per mode: baseline and probe.
	n, err := testutil.GatherAndCount(rec.Registry(), "mcspeed_probes_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("mcspeed_probes_total series = %d, want 2", n)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	clock := newFakeClock()
	prober := mocks.NewMockProber(ctrl)

	gomock.InOrder(
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 1).
			DoAndReturn(takes(clock, 300*time.Millisecond, 0.5)),
		prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 4).
			DoAndReturn(takes(clock, 100*time.Millisecond, 0.49)),
	)

	c := orchestration.NewController(prober, orchestration.WithClock(clock))
	cmp, err := c.Compare(context.Background(), orchestration.CompareRequest{
		Integrand: square, A: 0, B: 1, Samples: 1000, Threads: 4,
	})
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if cmp.Sequential.Threads != 1 || cmp.Parallel.Threads != 4 {
		t.Errorf("threads = %d/%d, want 1/4", cmp.Sequential.Threads, cmp.Parallel.Threads)
	}
	if cmp.Speedup != 3 {
		t.Errorf("Speedup = %v, want 3", cmp.Speedup)
	}
	if cmp.Parallel.ElapsedMillis() != 100 {
		t.Errorf("Parallel.ElapsedMillis() = %v, want 100", cmp.Parallel.ElapsedMillis())
	}
}

func TestCompare_InvalidThreads(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	prober := mocks.NewMockProber(ctrl)
	_, err := orchestration.NewController(prober).Compare(context.Background(), orchestration.CompareRequest{
		Integrand: square, A: 0, B: 1, Samples: 10, Threads: 0,
	})
	var ve apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

// TestSearch_WithSampler runs a real search end to end on the sampler.
func TestSearch_WithSampler(t *testing.T) {
	t.Parallel()
	sampler := montecarlo.NewSampler(montecarlo.WithSeeder(montecarlo.FixedSeeder(17)))
	c := orchestration.NewController(sampler)

	outcome, err := c.Search(context.Background(), orchestration.Request{
		Integrand: square, A: 0, B: 1, Samples: 200_000, TargetSpeedup: 1000, MaxThreads: 3,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(outcome.Probes) != 3 {
		t.Errorf("len(Probes) = %d, want 3", len(outcome.Probes))
	}
	if outcome.Best.Threads < 1 || outcome.Best.Threads > 3 {
		t.Errorf("Best.Threads = %d, want within [1, 3]", outcome.Best.Threads)
	}
	if math.Abs(outcome.Best.Estimate-1.0/3.0) > 0.01 {
		t.Errorf("Best.Estimate = %v, want ≈ 1/3", outcome.Best.Estimate)
	}
	if outcome.AchievedSpeedup <= 0 {
		t.Errorf("AchievedSpeedup = %v, want > 0", outcome.AchievedSpeedup)
	}
}

func TestSearch_LogsRunID(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	clock := newFakeClock()
	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().IntegrateDetailed(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(takes(clock, 10*time.Millisecond, 1)).Times(3)

	var buf bytes.Buffer
	c := orchestration.NewController(prober, orchestration.WithClock(clock), orchestration.WithLogger(logging.NewLogger(&buf, "test")))
	if _, err := c.Search(context.Background(), request(1000, 2)); err != nil {
		t.Fatal(err)
	}

	ids := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line %q: %v", line, err)
		}
		if id, ok := entry["run_id"].(string); ok {
			ids[id] = true
		}
	}
	if len(ids) != 1 {
		t.Errorf("want one run id shared by the start and finish entries, got %v", ids)
	}
}
