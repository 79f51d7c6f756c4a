package trafficlight_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/intersection-sim/entity/junction/trafficlight"
)

func TestTrafficLightCycle(t *testing.T) {
	l := trafficlight.New(trafficlight.Red)

	l.NextState()
	assert.Equal(t, trafficlight.Green, l.State())
	l.NextState()
	assert.Equal(t, trafficlight.Yellow, l.State())
	l.NextState()
	assert.Equal(t, trafficlight.Red, l.State())
}

func TestRightArrowLightCycle(t *testing.T) {
	l := trafficlight.New(trafficlight.Off)

	l.NextState()
	assert.Equal(t, trafficlight.On, l.State())
	l.NextState()
	assert.Equal(t, trafficlight.Off, l.State())
}

func TestLightFamilyIsFixed(t *testing.T) {
	for _, s := range []trafficlight.State{trafficlight.Green, trafficlight.Yellow, trafficlight.Red} {
		l := trafficlight.New(s)
		for i := 0; i < 3; i++ {
			assert.Equal(t, trafficlight.FamilyTraffic, l.Family())
			l.NextState()
		}
		assert.Equal(t, s, l.State(), "three advances return to %v", s)
	}
	for _, s := range []trafficlight.State{trafficlight.On, trafficlight.Off} {
		l := trafficlight.New(s)
		for i := 0; i < 2; i++ {
			assert.Equal(t, trafficlight.FamilyRightArrow, l.Family())
			l.NextState()
		}
		assert.Equal(t, s, l.State(), "two advances return to %v", s)
	}
}

func TestBlocking(t *testing.T) {
	assert.True(t, trafficlight.Yellow.Blocking())
	assert.True(t, trafficlight.Off.Blocking())
	assert.False(t, trafficlight.Green.Blocking())
	assert.False(t, trafficlight.On.Blocking())
	assert.False(t, trafficlight.Red.Blocking())
}
