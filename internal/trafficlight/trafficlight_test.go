package trafficlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateCycles(t *testing.T) {
	tl := TrafficLight{Position: 800, Green: 40, Yellow: 0, Red: 20, StartTime: 0}
	assert.Equal(t, Green, tl.State(0))
	assert.Equal(t, Green, tl.State(39))
	assert.Equal(t, Red, tl.State(40))
	assert.Equal(t, Red, tl.State(59))
	assert.Equal(t, Green, tl.State(60))
}

func TestStateBeforeStartTimeIsRed(t *testing.T) {
	tl := TrafficLight{Green: 10, Red: 10, StartTime: 100}
	assert.Equal(t, Red, tl.State(0))
	assert.Equal(t, Red, tl.State(99))
}

func TestResolvedPositionEndOfRoadSentinel(t *testing.T) {
	tl := TrafficLight{Position: EndOfRoad}
	assert.Equal(t, 250.0, tl.ResolvedPosition(250))
	tl2 := TrafficLight{Position: 10}
	assert.Equal(t, 10.0, tl2.ResolvedPosition(250))
}

func TestOppositeSwapsDurationsWithYellowSafetySlot(t *testing.T) {
	tl := TrafficLight{Green: 30, Yellow: 3, Red: 27, StartTime: 5}
	opp := Opposite(tl)
	assert.InDelta(t, 24.0, opp.Green, 1e-9) // red - yellow
	assert.InDelta(t, 30.0, opp.Red, 1e-9)   // green
	assert.Equal(t, tl.Yellow, opp.Yellow)
	assert.Equal(t, tl.StartTime, opp.StartTime)
}

func TestOppositeFallsBackWhenRedMinusYellowNonPositive(t *testing.T) {
	tl := TrafficLight{Green: 10, Yellow: 20, Red: 15, StartTime: 0}
	opp := Opposite(tl)
	assert.InDelta(t, tl.Red, opp.Green, 1e-9)
}
