// Package montecarlo implements the Monte Carlo estimator of a definite
// integral ∫ₐᵇ f(x)dx, run either sequentially or split across a scoped pool
// of worker goroutines.
package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/mcspeed/internal/errors"
	"github.com/agbru/mcspeed/internal/integrand"
	"github.com/agbru/mcspeed/internal/logging"
)

// Result is the detailed output of one integration run.
type Result struct {
	// Value is the integral estimate.
	Value float64
	// Drawn is the number of samples actually evaluated. With threads > 1
	// it is threads*(samples/threads).
	Drawn int
	// Skipped counts evaluations that produced no usable value (error, NaN,
	// infinity or panic). Skipped samples contribute zero.
	Skipped int
	// Threads is the worker count used.
	Threads int
}

// Sampler computes Monte Carlo integral estimates. A Sampler holds no
// per-run state and may be shared between goroutines.
type Sampler struct {
	seeder Seeder
	logger logging.Logger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithSeeder sets the source of per-worker random streams.
func WithSeeder(s Seeder) Option {
	return func(sm *Sampler) {
		if s != nil {
			sm.seeder = s
		}
	}
}

// WithLogger sets the logger used to report worker failures.
func WithLogger(l logging.Logger) Option {
	return func(sm *Sampler) {
		if l != nil {
			sm.logger = l
		}
	}
}

// NewSampler returns a Sampler seeded from system entropy unless
// configured otherwise.
func NewSampler(opts ...Option) *Sampler {
	s := &Sampler{seeder: EntropySeeder{}, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Integrate returns the estimate of ∫ₐᵇ f(x)dx using samples uniform draws
// split across threads workers.
func (s *Sampler) Integrate(ctx context.Context, f integrand.Integrand, a, b float64, samples, threads int) (float64, error) {
	res, err := s.IntegrateDetailed(ctx, f, a, b, samples, threads)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

// IntegrateDetailed is Integrate returning draw and skip counts as well.
//
// With threads > 1 each worker draws samples/threads points and the
// remainder is not drawn, yet the combined sum is still scaled by
// (b-a)/samples. a > b yields the negated integral over [b, a].
//
// The context is only consulted before the run starts; once started the run
// always completes and every worker is joined before returning.
func (s *Sampler) IntegrateDetailed(ctx context.Context, f integrand.Integrand, a, b float64, samples, threads int) (Result, error) {
	if err := validate(f, a, b, samples, threads); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	width := b - a
	if threads == 1 {
		p, err := s.work(f, 0, a, width, samples)
		if err != nil {
			s.logger.Error("sequential run failed", err)
			return Result{}, apperrors.ExecutionError{Threads: 1, Cause: err}
		}
		return Result{
			Value:   width * p.sum / float64(samples),
			Drawn:   p.drawn,
			Skipped: p.skipped,
			Threads: 1,
		}, nil
	}

	per := samples / threads
	partials := make([]partial, threads)

	var g errgroup.Group
	g.SetLimit(threads)
	for w := 0; w < threads; w++ {
		g.Go(func() error {
			p, err := s.work(f, w, a, width, per)
			partials[w] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("worker failed", err, logging.Int("threads", threads))
		return Result{}, apperrors.ExecutionError{Threads: threads, Cause: err}
	}

	var total partial
	for _, p := range partials {
		total.sum += p.sum
		total.drawn += p.drawn
		total.skipped += p.skipped
	}
	return Result{
		Value:   width * total.sum / float64(samples),
		Drawn:   total.drawn,
		Skipped: total.skipped,
		Threads: threads,
	}, nil
}

// partial is one worker's private accumulator.
type partial struct {
	sum     float64
	drawn   int
	skipped int
}

// work runs one worker: it obtains the worker's private stream and samples
// n points. A panic escaping the per-sample guard becomes an error.
func (s *Sampler) work(f integrand.Integrand, w int, a, width float64, n int) (p partial, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d panicked: %v", w, r)
		}
	}()
	rng, err := s.seeder.Stream(w)
	if err != nil {
		return partial{}, fmt.Errorf("worker %d: %w", w, err)
	}
	return sample(f, rng, a, width, n), nil
}

// sample draws n points x = a + width*u, u ∈ [0, 1), and sums f(x).
func sample(f integrand.Integrand, rng *rand.Rand, a, width float64, n int) partial {
	p := partial{drawn: n}
	for range n {
		y, ok := integrand.Evaluate(f, a+width*rng.Float64())
		if !ok {
			p.skipped++
			continue
		}
		p.sum += y
	}
	return p
}

func validate(f integrand.Integrand, a, b float64, samples, threads int) error {
	switch {
	case f == nil:
		return apperrors.ValidationError{Field: "function", Message: "integrand is required"}
	case math.IsNaN(a) || math.IsInf(a, 0):
		return apperrors.ValidationError{Field: "a", Message: "lower bound must be finite"}
	case math.IsNaN(b) || math.IsInf(b, 0):
		return apperrors.ValidationError{Field: "b", Message: "upper bound must be finite"}
	case samples <= 0:
		return apperrors.ValidationError{Field: "samples", Message: "must be positive"}
	case threads <= 0:
		return apperrors.ValidationError{Field: "threads", Message: "must be positive"}
	}
	return nil
}
