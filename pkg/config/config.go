package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNoValue  = errors.New("config: no value set")
	ErrShutdown = errors.New("config: shutdown")
)

// Config is an untyped configuration source. Sources return ErrNoValue when
// unset, letting typed wrappers fall back to their defaults.
type Config interface {
	Get(ctx context.Context) (interface{}, error)
	Shutdown()
}

// Value is a typed view over a Config.
type Value[T any] interface {
	// Get returns the latest value, falling back to the last known value on error
	Get(ctx context.Context) T

	// GetSafe is like Get, but also surfaces the underlying error
	GetSafe(ctx context.Context) (T, error)

	Shutdown()
}

type (
	Bool     = Value[bool]
	String   = Value[string]
	Uint64   = Value[uint64]
	Duration = Value[time.Duration]
)
