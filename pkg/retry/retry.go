// Package retry runs actions until they succeed or a strategy gives up.
package retry

import (
	"context"
	"time"
)

// Action is a function to be performed in a retriable manner.
type Action func() error

// Retrier retries actions with a fixed set of strategies.
type Retrier interface {
	Retry(ctx context.Context, action Action) (uint, error)
}

type retrier struct {
	strategies []Strategy
}

// NewRetrier returns a Retrier applying strategies to every action. Without
// strategies, actions are retried until they succeed or ctx is done.
func NewRetrier(strategies ...Strategy) Retrier {
	return &retrier{
		strategies: strategies,
	}
}

func (r *retrier) Retry(ctx context.Context, action Action) (uint, error) {
	return Retry(ctx, action, r.strategies...)
}

// Retry executes action until it succeeds or one of the strategies rejects
// the failed attempt, in which case the action's error is returned. The delays
// requested by the strategies are summed and waited out before the next
// attempt. If ctx is done first, ctx.Err() is returned.
func Retry(ctx context.Context, action Action, strategies ...Strategy) (uint, error) {
	for attempts := uint(1); ; attempts++ {
		err := action()
		if err == nil {
			return attempts, nil
		}

		var delay time.Duration
		for _, s := range strategies {
			ok, d := s(attempts, err)
			if !ok {
				return attempts, err
			}
			delay += d
		}

		if err := wait(ctx, delay); err != nil {
			return attempts, err
		}
	}
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
