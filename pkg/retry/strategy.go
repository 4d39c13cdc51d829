package retry

import (
	"errors"
	"time"

	"github.com/lazor-kit/wallet-client/pkg/retry/backoff"
)

// Strategy inspects a failed attempt. It returns false to stop retrying, and
// otherwise the delay it requires before the next attempt.
type Strategy func(attempts uint, err error) (bool, time.Duration)

// Limit caps the total number of attempts. maxAttempts should be >= 1, since
// the action is evaluated first.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) (bool, time.Duration) {
		return attempts < maxAttempts, 0
	}
}

// RetriableErrors only retries errors matching one of retriableErrors.
func RetriableErrors(retriableErrors ...error) Strategy {
	return func(_ uint, err error) (bool, time.Duration) {
		for _, e := range retriableErrors {
			if errors.Is(err, e) {
				return true, 0
			}
		}
		return false, 0
	}
}

// NonRetriableErrors stops on errors matching one of nonRetriableErrors.
func NonRetriableErrors(nonRetriableErrors ...error) Strategy {
	return func(_ uint, err error) (bool, time.Duration) {
		for _, e := range nonRetriableErrors {
			if errors.Is(err, e) {
				return false, 0
			}
		}
		return true, 0
	}
}

// RetriableWhen only retries errors for which isRetriable returns true.
func RetriableWhen(isRetriable func(error) bool) Strategy {
	return func(_ uint, err error) (bool, time.Duration) {
		return isRetriable(err), 0
	}
}

// Backoff delays the next attempt by strategy, capped at maxBackoff.
func Backoff(strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	capped := backoff.Capped(strategy, maxBackoff)
	return func(attempts uint, _ error) (bool, time.Duration) {
		return true, capped(attempts)
	}
}

// BackoffWithJitter is Backoff with the capped delay randomly shifted by up to
// jitter (a fraction) in either direction.
func BackoffWithJitter(strategy backoff.Strategy, maxBackoff time.Duration, jitter float64) Strategy {
	jittered := backoff.WithJitter(backoff.Capped(strategy, maxBackoff), jitter)
	return func(attempts uint, _ error) (bool, time.Duration) {
		return true, jittered(attempts)
	}
}
