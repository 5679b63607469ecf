// Package testutil holds helpers shared by property tests.
package testutil

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"testing"
	"time"
)

// Seed is shared by every generator in a test binary so a failing run can be replayed.
var Seed uint64 //nolint:gochecknoglobals // reproducibility

func init() { //nolint:gochecknoinits // seed must be fixed before any test runs
	Seed = uint64(time.Now().UnixNano()) //nolint:gosec // test seed
	if envSeed := os.Getenv("TEST_SEED"); envSeed != "" {
		if parsed, err := strconv.ParseUint(envSeed, 0, 64); err == nil {
			Seed = parsed
		}
	}
	fmt.Printf("to reproduce: TEST_SEED=0x%x\n", Seed) //nolint:forbidigo // test output
}

// NewRand returns a generator seeded from Seed.
func NewRand(t *testing.T) *rand.Rand {
	t.Helper()
	return rand.New(rand.NewPCG(Seed, Seed)) //nolint:gosec // weak RNG is fine for tests
}

// RandString generates a random alphanumeric string of the given length.
func RandString(r *rand.Rand, length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = chars[r.IntN(len(chars))]
	}
	return string(b)
}

// RandDurations returns n durations drawn uniformly from [lo, hi] in steps of unit.
func RandDurations(r *rand.Rand, n int, lo, hi, unit time.Duration) []time.Duration {
	steps := int64((hi-lo)/unit) + 1
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = lo + time.Duration(r.Int64N(steps))*unit
	}
	return out
}
