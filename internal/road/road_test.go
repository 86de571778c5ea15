package road

import (
	"math/rand"
	"testing"

	"github.com/cxd309/trafficsim/internal/trafficlight"
	"github.com/cxd309/trafficsim/internal/vehicle"
	"github.com/stretchr/testify/assert"
)

func newTestVehicle(id int) *vehicle.Vehicle {
	return vehicle.New(id, 5, 0, 0, 0, 27.78, 4, 0, 0, 1, 2, 0.1)
}

func TestTryAddVehicleAdmitsFirstVehicle(t *testing.T) {
	r := New(0, 1000, 2, 27.78, 0, true)
	v := newTestVehicle(1)
	pos := r.TryAddVehicle(v, 0, 0)
	assert.GreaterOrEqual(t, pos, 0.0)
	assert.Equal(t, 1, len(r.Lanes[0]))
}

func TestTryAddVehicleRejectsWhenNoGap(t *testing.T) {
	r := New(0, 1000, 50, 27.78, 0, true)
	v1 := newTestVehicle(1)
	r.TryAddVehicle(v1, 0, 0)
	v1.Position = 10 // still too close to entry point 0 given vehicleDistance=50

	v2 := newTestVehicle(2)
	pos := r.TryAddVehicle(v2, 0, 0)
	assert.Less(t, pos, 0.0)
	assert.Equal(t, 1, len(r.Lanes[0]))
}

func TestAdmissionStopsAtRedSemaphoreAtEntry(t *testing.T) {
	r := New(0, 1000, 2, 27.78, 0, true)
	r.AddSemaphore(trafficlight.TrafficLight{Position: 0, Green: 10, Red: 50, StartTime: 0})
	v := newTestVehicle(1)
	r.TryAddVehicle(v, 20, 0) // tau=20 falls in red window (green<10<=20<60)
	assert.Equal(t, vehicle.WaitingSemaphore, v.Status)
}

func TestPrecedingVehicleNotFoundReturnsFalse(t *testing.T) {
	r := New(0, 1000, 2, 27.78, 0, true)
	v := newTestVehicle(1)
	_, ok := r.PrecedingVehicle(0, v)
	assert.False(t, ok)
}

func TestGetLastVehicleOnEmptyLane(t *testing.T) {
	r := New(0, 1000, 2, 27.78, 0, true)
	_, ok := r.GetLastVehicle(0)
	assert.False(t, ok)
}

func TestMoveVehiclesAdvancesFreeFlowVehicle(t *testing.T) {
	r := New(0, 1000, 2, 27.78, 0, true)
	v := newTestVehicle(1)
	r.TryAddVehicle(v, 0, 0)
	rng := rand.New(rand.NewSource(1))
	for tick := 1; tick <= 5; tick++ {
		r.MoveVehicles(float64(tick), 1, rng)
	}
	assert.Greater(t, v.Position, 0.0)
}

func TestDeadEndRemovesArrivingVehicle(t *testing.T) {
	r := New(0, 10, 2, 27.78, 0, true)
	v := vehicle.New(1, 5, 9, 20, 0, 27.78, 4, 0, 0, 1, 2, 0.1)
	r.TryAddVehicle(v, 0, 9)
	rng := rand.New(rand.NewSource(1))
	r.MoveVehicles(1, 1, rng)
	assert.True(t, v.IsArrived())
	assert.Equal(t, 0, len(r.Lanes[0]))
}
