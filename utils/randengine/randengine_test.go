package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/intersection-sim/utils/randengine"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := randengine.New(42)
	b := randengine.New(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestDiscreteDistribution(t *testing.T) {
	e := randengine.New(1)
	for i := 0; i < 100; i++ {
		assert.Equal(t, int32(1), e.DiscreteDistribution([]float64{0, 1, 0}))
		v := e.DiscreteDistribution([]float64{1, 2, 3})
		assert.True(t, v >= 0 && v < 3)
	}
}

func TestPTrue(t *testing.T) {
	e := randengine.New(7)
	for i := 0; i < 100; i++ {
		assert.True(t, e.PTrue(1))
		assert.False(t, e.PTrue(0))
	}
}
