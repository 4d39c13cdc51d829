package backoff

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConstant(t *testing.T) {
	s := Constant(100 * time.Millisecond)

	for i := uint(1); i < 10; i++ {
		assert.Equal(t, 100*time.Millisecond, s(i))
	}
}

func TestExponential(t *testing.T) {
	s := Exponential(2*time.Second, 3.0)

	assert.Equal(t, 2*time.Second, s(1))
	assert.Equal(t, 6*time.Second, s(2))
	assert.Equal(t, 18*time.Second, s(3))
	assert.Equal(t, 54*time.Second, s(4))

	assert.Equal(t, time.Duration(math.MaxInt64), BinaryExponential(time.Second)(200))
}

func TestCapped(t *testing.T) {
	s := Capped(BinaryExponential(time.Second), 5*time.Second)

	assert.Equal(t, time.Second, s(1))
	assert.Equal(t, 4*time.Second, s(3))
	assert.Equal(t, 5*time.Second, s(4))
	assert.Equal(t, 5*time.Second, s(100))
}

func TestWithJitter(t *testing.T) {
	s := WithJitter(Constant(100*time.Millisecond), 0.2)

	for i := uint(1); i < 100; i++ {
		assert.InDelta(t, float64(100*time.Millisecond), float64(s(i)), float64(20*time.Millisecond))
	}

	assert.Equal(t, 100*time.Millisecond, WithJitter(Constant(100*time.Millisecond), 0)(1))
}
