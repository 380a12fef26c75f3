package montecarlo

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/integrand"
)

var square = integrand.Func(func(x float64) float64 { return x * x })

// countingIntegrand counts every evaluation across all workers.
type countingIntegrand struct {
	calls atomic.Int64
}

func (c *countingIntegrand) Eval(x float64) (float64, error) {
	c.calls.Add(1)
	return x, nil
}

func TestIntegrate_Unbiased(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		f       integrand.Integrand
		a, b    float64
		want    float64
		threads int
	}{
		{"x^2 on [0,1] sequential", square, 0, 1, 1.0 / 3.0, 1},
		{"x^2 on [0,1] four workers", square, 0, 1, 1.0 / 3.0, 4},
		{"sin on [0,pi]", integrand.Func(math.Sin), 0, math.Pi, 2, 2},
		{"gaussian on [-3,3]", integrand.Func(func(x float64) float64 { return math.Exp(-x * x) }), -3, 3, math.Sqrt(math.Pi) * math.Erf(3), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewSampler(WithSeeder(FixedSeeder(7)))
			got, err := s.Integrate(context.Background(), tt.f, tt.a, tt.b, 1_000_000, tt.threads)
			if err != nil {
				t.Fatalf("Integrate() error = %v", err)
			}
			if math.Abs(got-tt.want) > 0.01*math.Max(1, math.Abs(tt.want)) {
				t.Errorf("Integrate() = %v, want %v ± 1%%", got, tt.want)
			}
		})
	}
}

func TestIntegrate_ThreadCountInvariance(t *testing.T) {
	t.Parallel()
	s := NewSampler(WithSeeder(FixedSeeder(99)))
	const samples = 960_000 // divisible by every thread count below

	var estimates []float64
	for _, threads := range []int{1, 2, 3, 8} {
		got, err := s.Integrate(context.Background(), square, 0, 1, samples, threads)
		if err != nil {
			t.Fatalf("threads=%d: %v", threads, err)
		}
		estimates = append(estimates, got)
	}
	for i, e := range estimates[1:] {
		if math.Abs(e-estimates[0]) > 5e-3 {
			t.Errorf("estimate %d = %v deviates from sequential %v", i+1, e, estimates[0])
		}
	}
}

// rmsError integrates x^2 over [0,1] once per seed and returns the root mean
// square error against 1/3 together with the mean estimate.
func rmsError(t *testing.T, seeds, samples, threads int) (rms, mean float64) {
	t.Helper()
	var sumSq, sum float64
	for seed := range seeds {
		s := NewSampler(WithSeeder(FixedSeeder(uint64(seed + 1))))
		got, err := s.Integrate(context.Background(), square, 0, 1, samples, threads)
		if err != nil {
			t.Fatalf("seed %d: %v", seed+1, err)
		}
		sumSq += (got - 1.0/3.0) * (got - 1.0/3.0)
		sum += got
	}
	return math.Sqrt(sumSq / float64(seeds)), sum / float64(seeds)
}

func TestIntegrate_ErrorShrinksWithSqrtSamples(t *testing.T) {
	if testing.Short() {
		t.Skip("draws tens of millions of samples")
	}
	t.Parallel()
	const seeds = 16

	small, _ := rmsError(t, seeds, 10_000, 4)
	large, _ := rmsError(t, seeds, 1_000_000, 4)
	if large == 0 {
		t.Fatal("zero error at 1e6 samples")
	}
	// 100x the samples should cut the error about sqrt(100) = 10 times.
	if ratio := small / large; ratio < 3 || ratio > 30 {
		t.Errorf("rms error ratio = %.2f (%.3g at 1e4, %.3g at 1e6), want about 10", ratio, small, large)
	}

	_, seq := rmsError(t, seeds, 100_000, 1)
	_, par := rmsError(t, seeds, 100_000, 4)
	for _, c := range []struct {
		name string
		mean float64
	}{{"sequential", seq}, {"four workers", par}} {
		if math.Abs(c.mean-1.0/3.0) > 1e-3 {
			t.Errorf("%s mean over %d seeds = %v, want 1/3 ± 1e-3", c.name, seeds, c.mean)
		}
	}
}

func TestIntegrate_RemainderDropped(t *testing.T) {
	t.Parallel()
	f := &countingIntegrand{}
	s := NewSampler(WithSeeder(FixedSeeder(1)))

	res, err := s.IntegrateDetailed(context.Background(), f, 0, 1, 10, 3)
	if err != nil {
		t.Fatalf("IntegrateDetailed() error = %v", err)
	}
	if got := f.calls.Load(); got != 9 {
		t.Errorf("evaluations = %d, want 9", got)
	}
	if res.Drawn != 9 {
		t.Errorf("Drawn = %d, want 9", res.Drawn)
	}
	if res.Threads != 3 {
		t.Errorf("Threads = %d, want 3", res.Threads)
	}

	// The denominator stays at 10, so a constant integrand comes out at 9/10.
	one := integrand.Func(func(float64) float64 { return 1 })
	got, err := s.Integrate(context.Background(), one, 0, 1, 10, 3)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-0.9) > 1e-12 {
		t.Errorf("constant estimate = %v, want 0.9", got)
	}
}

func TestIntegrate_SequentialDrawsEverySample(t *testing.T) {
	t.Parallel()
	f := &countingIntegrand{}
	if _, err := NewSampler().Integrate(context.Background(), f, 0, 1, 10, 1); err != nil {
		t.Fatal(err)
	}
	if got := f.calls.Load(); got != 10 {
		t.Errorf("evaluations = %d, want 10", got)
	}
}

func TestIntegrate_Orientation(t *testing.T) {
	t.Parallel()
	s := NewSampler(WithSeeder(FixedSeeder(2024)))
	ctx := context.Background()

	forward, err := s.Integrate(ctx, square, 0, 2, 1_000_000, 1)
	if err != nil {
		t.Fatal(err)
	}
	backward, err := s.Integrate(ctx, square, 2, 0, 1_000_000, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(forward+backward) > 0.02 {
		t.Errorf("forward %v and backward %v are not opposite", forward, backward)
	}
	if backward >= 0 {
		t.Errorf("backward = %v, want negative", backward)
	}
}

func TestIntegrate_SkipTolerance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		f    integrand.Integrand
	}{
		{"domain error for negative x", integrand.CheckedFunc(func(x float64) (float64, error) {
			if x < 0 {
				return 0, integrand.ErrDomain
			}
			return math.Sqrt(x), nil
		})},
		{"NaN for negative x", integrand.Func(math.Sqrt)},
		{"panic for negative x", integrand.Func(func(x float64) float64 {
			if x < 0 {
				panic("negative argument")
			}
			return math.Sqrt(x)
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewSampler(WithSeeder(FixedSeeder(5)))
			for _, threads := range []int{1, 4} {
				res, err := s.IntegrateDetailed(context.Background(), tt.f, -1, 1, 200_000, threads)
				if err != nil {
					t.Fatalf("threads=%d: error = %v", threads, err)
				}
				if math.IsNaN(res.Value) || math.IsInf(res.Value, 0) {
					t.Fatalf("threads=%d: estimate %v is not finite", threads, res.Value)
				}
				if res.Skipped == 0 {
					t.Errorf("threads=%d: expected skipped samples", threads)
				}
				// Negative half contributes zero: 2 * mean over [0,1] of sqrt / 2.
				if math.Abs(res.Value-2.0/3.0) > 0.02 {
					t.Errorf("threads=%d: estimate = %v, want ≈ 0.667", threads, res.Value)
				}
			}
		})
	}
}

func TestIntegrate_EmptyInterval(t *testing.T) {
	t.Parallel()
	got, err := NewSampler().Integrate(context.Background(), square, 1.5, 1.5, 1000, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("Integrate over empty interval = %v, want 0", got)
	}
}

func TestIntegrate_Validation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		f         integrand.Integrand
		a, b      float64
		samples   int
		threads   int
		wantField string
	}{
		{"nil integrand", nil, 0, 1, 10, 1, "function"},
		{"NaN lower bound", square, math.NaN(), 1, 10, 1, "a"},
		{"infinite upper bound", square, 0, math.Inf(1), 10, 1, "b"},
		{"zero samples", square, 0, 1, 0, 1, "samples"},
		{"negative samples", square, 0, 1, -5, 1, "samples"},
		{"zero threads", square, 0, 1, 10, 0, "threads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewSampler().Integrate(context.Background(), tt.f, tt.a, tt.b, tt.samples, tt.threads)
			var ve apperrors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestIntegrate_CanceledBeforeStart(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &countingIntegrand{}
	_, err := NewSampler().Integrate(ctx, f, 0, 1, 100, 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if f.calls.Load() != 0 {
		t.Error("no sample should be drawn after cancellation")
	}
}

type failingSeeder struct{ failAt int }

func (s failingSeeder) Stream(worker int) (*rand.Rand, error) {
	if worker == s.failAt {
		return nil, errors.New("entropy unavailable")
	}
	return FixedSeeder(1).Stream(worker)
}

type panickingSeeder struct{}

func (panickingSeeder) Stream(int) (*rand.Rand, error) { panic("seeder exploded") }

func TestIntegrate_WorkerFailure(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		seeder  Seeder
		threads int
	}{
		{"sequential seeder error", failingSeeder{failAt: 0}, 1},
		{"worker seeder error", failingSeeder{failAt: 2}, 4},
		{"worker panic", panickingSeeder{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewSampler(WithSeeder(tt.seeder))
			_, err := s.Integrate(context.Background(), square, 0, 1, 100, tt.threads)
			var ee apperrors.ExecutionError
			if !errors.As(err, &ee) {
				t.Fatalf("error = %v, want ExecutionError", err)
			}
			if ee.Threads != tt.threads {
				t.Errorf("Threads = %d, want %d", ee.Threads, tt.threads)
			}
		})
	}
}

func TestFixedSeeder_Reproducible(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	first, err := NewSampler(WithSeeder(FixedSeeder(42))).Integrate(ctx, square, 0, 1, 10_000, 4)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewSampler(WithSeeder(FixedSeeder(42))).Integrate(ctx, square, 0, 1, 10_000, 4)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("same seed produced %v and %v", first, second)
	}
}

func TestSeederFor(t *testing.T) {
	t.Parallel()
	if _, ok := SeederFor(0).(EntropySeeder); !ok {
		t.Error("seed 0 should select EntropySeeder")
	}
	if s, ok := SeederFor(9).(FixedSeeder); !ok || s != 9 {
		t.Errorf("seed 9 should select FixedSeeder(9), got %#v", SeederFor(9))
	}
}
