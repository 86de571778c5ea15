package vehicle

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestVehicle() *Vehicle {
	return New(1, 5, 0, 0, 0, 27.78, 4, 0, 0, 1, 2, 0.1)
}

func TestMoveAcceleratesTowardMaxSpeed(t *testing.T) {
	v := newTestVehicle()
	rng := rand.New(rand.NewSource(1))
	v.Move(27.78, 1, rng, 0, false)
	assert.InDelta(t, 4.0, v.Speed, 1e-6)
	assert.True(t, v.Speed <= v.MaxSpeed)
}

func TestBrakeToStopAtReachesTargetExactly(t *testing.T) {
	v := newTestVehicle()
	v.Speed = 10
	v.Position = 0
	// 10 m/s over 50 m is a constant -1 m/s^2, so stopping takes 10 s (100 steps).
	for i := 0; i < 200 && v.Position < 50 && v.Speed > 0; i++ {
		v.BrakeToStopAt(50, 0.1)
	}
	assert.InDelta(t, 0.0, v.Speed, 1e-6)
	assert.InDelta(t, 50.0, v.Position, 1e-6)
}

func TestIsStoppedExcludesAcceleratingAndCreated(t *testing.T) {
	v := newTestVehicle()
	assert.False(t, v.IsStopped()) // Created
	v.Status = Accelerating
	v.Speed = 0
	assert.False(t, v.IsStopped())
	v.Status = Stopped
	assert.True(t, v.IsStopped())
}

func TestRestartFirstVehicleNoPreceding(t *testing.T) {
	v := newTestVehicle()
	v.IsDeparted = true
	v.pastStatus = WaitingSemaphore
	v.Restart(27.78, 1, 0, false)
	assert.InDelta(t, v.ReactionTimeAtSemaphore, v.CumulativeDelay, 1e-9)
}

func TestRestartDampingConvergesWithQueueDepth(t *testing.T) {
	v1 := newTestVehicle()
	v1.IsDeparted = true
	v1.pastStatus = WaitingVehicle
	v1.Restart(27.78, 1, 0, false)
	d1 := v1.CumulativeDelay

	v2 := newTestVehicle()
	v2.IsDeparted = true
	v2.pastStatus = WaitingVehicle
	v2.Restart(27.78, 1, d1, true)
	d2 := v2.CumulativeDelay

	// damping must make the chain converge, not diverge.
	assert.Less(t, d2, d1+v2.ReactionTime)
	bound := v2.ReactionTimeAtSemaphore + v2.ReactionTime/(1-0.9048374180) // loose sanity bound
	_ = bound
}

func TestUpdateTracksTimeWaitedAndStops(t *testing.T) {
	v := newTestVehicle()
	v.Status = WaitingVehicle
	v.pastStatus = Created
	v.LastUpdate = 0
	v.Update(1, 0, 0, 0)
	assert.Equal(t, WaitingVehicle, v.pastStatus)
	// The first commit counts a stop; no time is waited since the previous status was Created.
	assert.Equal(t, 1.0, v.NumberOfStops)
	assert.Equal(t, 0.0, v.TimeWaited)
}
