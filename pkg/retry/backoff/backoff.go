// Package backoff provides delay strategies used by retry.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// Strategy returns the delay to wait after the given attempt. Attempts start
// at 1.
type Strategy func(attempts uint) time.Duration

func Constant(interval time.Duration) Strategy {
	return func(uint) time.Duration {
		return interval
	}
}

// Exponential returns baseDelay * base^(attempts - 1), saturating at the
// maximum duration on overflow.
//
// Ex. Exponential(2*time.Second, 3) = 2s, 6s, 18s, 54s, ...
func Exponential(baseDelay time.Duration, base float64) Strategy {
	return func(attempts uint) time.Duration {
		delay := float64(baseDelay) * math.Pow(base, float64(attempts-1))
		if delay >= math.MaxInt64 || math.IsInf(delay, 0) || math.IsNaN(delay) {
			return math.MaxInt64
		}
		return time.Duration(delay)
	}
}

// BinaryExponential is Exponential with a base of 2.
func BinaryExponential(baseDelay time.Duration) Strategy {
	return Exponential(baseDelay, 2)
}

// Capped limits the delays of strategy to max.
func Capped(strategy Strategy, max time.Duration) Strategy {
	return func(attempts uint) time.Duration {
		if delay := strategy(attempts); delay < max {
			return delay
		}
		return max
	}
}

// WithJitter shifts each delay of strategy by a uniformly random fraction in
// [-jitter, jitter]. A 100ms delay with a jitter of 0.1 becomes 90ms to 110ms.
func WithJitter(strategy Strategy, jitter float64) Strategy {
	return func(attempts uint) time.Duration {
		delay := float64(strategy(attempts))
		return time.Duration(delay * (1 + (rand.Float64()*2-1)*jitter))
	}
}
