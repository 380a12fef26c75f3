package montecarlo

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Seeder hands out independent random streams, one per worker. Stream is
// called from the worker goroutine that will own the returned generator, so
// implementations must be safe for concurrent use. The generator itself is
// never shared.
type Seeder interface {
	Stream(worker int) (*rand.Rand, error)
}

// EntropySeeder seeds every stream from the operating system's entropy
// source. Two runs never share a sample sequence.
type EntropySeeder struct{}

// Stream returns a PCG generator seeded with 128 fresh random bits.
func (EntropySeeder) Stream(int) (*rand.Rand, error) {
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("reading seed entropy: %w", err)
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(buf[:8]),
		binary.LittleEndian.Uint64(buf[8:]),
	)), nil
}

// FixedSeeder derives stream i deterministically as PCG(seed, i), so a run
// with the same seed and thread count reproduces the same estimate.
type FixedSeeder uint64

// Stream returns the PCG generator for the given worker index.
func (s FixedSeeder) Stream(worker int) (*rand.Rand, error) {
	if worker < 0 {
		return nil, fmt.Errorf("negative worker index %d", worker)
	}
	return rand.New(rand.NewPCG(uint64(s), uint64(worker))), nil
}

// SeederFor returns FixedSeeder(seed) for a non-zero seed and an
// EntropySeeder otherwise.
func SeederFor(seed uint64) Seeder {
	if seed == 0 {
		return EntropySeeder{}
	}
	return FixedSeeder(seed)
}
