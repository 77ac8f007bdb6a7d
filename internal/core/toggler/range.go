package toggler

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Range defines a duration range with uniform random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a duration in [Min, Max]. Both bounds are inclusive.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	switch {
	case delta < 0:
		// Max-Min overflowed, only possible with a negative Min.
		return value.Max
	case delta == math.MaxInt64:
		return value.Min + time.Duration(rng.Int63())
	}
	return value.Min + time.Duration(rng.Int63n(int64(delta)+1))
}

// SleepFunc suspends for duration and reports false when ctx ended first.
type SleepFunc func(ctx context.Context, duration time.Duration) bool

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
