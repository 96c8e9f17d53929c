// Package backoff computes exponential backoff delays with jitter.
//
// The schedule is a pure function of the attempt number and a random sample,
// so callers decide where randomness comes from and tests can pin it down.
// It mirrors the classic randomized exponential backoff algorithm:
//
//	interval(n) = min(Initial * Multiplier^n, Max)
//	delay(n)    = interval(n) * (1 - Jitter + 2*Jitter*sample), capped at Max
package backoff

import (
	"math"
	"math/rand/v2"
	"time"
)

// Default values, matching the reconnect schedule of the upstream feed clients:
// 500ms, 750ms, 1.125s, 1.6875s, ... capped at one minute.
const (
	DefaultInitial    = 500 * time.Millisecond
	DefaultMultiplier = 1.5
	DefaultJitter     = 0.5
	DefaultMax        = time.Minute
)

// Policy describes an exponential backoff schedule.
type Policy struct {
	Initial    time.Duration // delay before the first retry, before jitter
	Multiplier float64       // growth factor applied per attempt (values < 1 are treated as 1)
	Jitter     float64       // randomization factor in [0, 1]
	Max        time.Duration // upper bound for any returned delay
}

// Default returns the default Policy.
func Default() Policy {
	return Policy{
		Initial:    DefaultInitial,
		Multiplier: DefaultMultiplier,
		Jitter:     DefaultJitter,
		Max:        DefaultMax,
	}
}

// Interval returns the un-jittered delay for the given zero-based attempt.
func (p Policy) Interval(attempt uint) time.Duration {
	if p.Initial <= 0 {
		return 0
	}

	multiplier := max(p.Multiplier, 1)
	interval := float64(p.Initial) * math.Pow(multiplier, float64(attempt))

	if p.Max > 0 && interval >= float64(p.Max) {
		return p.Max
	}
	if interval >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}

	return time.Duration(interval)
}

// Delay returns the jittered delay for the given zero-based attempt.
//
// sample must be in [0, 1); 0.5 yields exactly Interval(attempt). The result
// never exceeds Max (when Max is set) and is never negative.
func (p Policy) Delay(attempt uint, sample float64) time.Duration {
	interval := float64(p.Interval(attempt))

	jitter := min(max(p.Jitter, 0), 1)
	sample = min(max(sample, 0), 1)

	delay := interval * (1 - jitter + 2*jitter*sample)
	if p.Max > 0 && delay > float64(p.Max) {
		delay = float64(p.Max)
	}

	return time.Duration(delay)
}

// Next is Delay with a sample drawn from math/rand/v2.
func (p Policy) Next(attempt uint) time.Duration {
	return p.Delay(attempt, rand.Float64())
}
