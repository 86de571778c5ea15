package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/trafficsim/internal/road"
	"github.com/cxd309/trafficsim/internal/simerr"
	"github.com/cxd309/trafficsim/internal/vehicle"
)

const minimalScenario = `{
  "simulation": {"name": "dead-end", "cycles": 5},
  "vehicles": [
    {"length": 5, "initialSpeed": 10, "initialAcceleration": 0, "maxSpeed": 20, "maxAcceleration": 3}
  ],
  "roads": [
    {"length": 500, "vehicleDistance": 2, "speedLimit": 20, "isStartingRoad": true}
  ]
}`

func TestDecodeAppliesDefaults(t *testing.T) {
	doc, err := Decode([]byte(minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, defaultTimeStep, doc.Simulation.TimeStep)
	assert.Equal(t, defaultVehicleInjectionRate, doc.Simulation.VehicleInjectionRate)

	v := doc.Vehicles[0]
	assert.Equal(t, defaultInitialPosition, v.InitialPosition)
	assert.Equal(t, defaultCreationTime, v.CreationTime)
	assert.Equal(t, defaultSigma, v.Sigma)
	assert.Equal(t, defaultReactionTime, v.ReactionTime)
	assert.Equal(t, defaultReactionTimeAtSemaphore, v.ReactionTimeAtSemaphore)
	assert.Equal(t, defaultDampingFactor, v.DampingFactor)
}

func TestDecodeHonorsExplicitZero(t *testing.T) {
	doc, err := Decode([]byte(`{
      "simulation": {"name": "x", "cycles": 1, "timeStep": 2},
      "vehicles": [{"length": 5, "initialSpeed": 0, "initialAcceleration": 0, "maxSpeed": 10, "maxAcceleration": 2, "sigma": 0, "dampingFactor": 0}],
      "roads": [{"length": 100, "vehicleDistance": 2, "speedLimit": 10}]
    }`))
	require.NoError(t, err)
	assert.Equal(t, 2.0, doc.Simulation.TimeStep)
	assert.Equal(t, 0.0, doc.Vehicles[0].DampingFactor)
}

func TestDecodeRejectsMissingRequiredField(t *testing.T) {
	_, err := Decode([]byte(`{"simulation": {"name": "x"}, "vehicles": [], "roads": []}`))
	require.Error(t, err)
	var cfgErr *simerr.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidateRejectsSemaphoreOnUnknownRoad(t *testing.T) {
	doc, err := Decode([]byte(minimalScenario))
	require.NoError(t, err)
	doc.Semaphores = []SemaphoreConfig{{Road: 7, GreenLight: 10, RedLight: 10}}

	_, err = Validate(doc)
	require.Error(t, err)
	var cfgErr *simerr.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidateRejectsJunctionWithNoOutgoingRoads(t *testing.T) {
	doc, err := Decode([]byte(minimalScenario))
	require.NoError(t, err)
	doc.Intersections = []JunctionConfig{{InRoads: []int{0}, OutRoads: nil}}

	_, err = Validate(doc)
	require.Error(t, err)
	var topoErr *simerr.TopologyError
	assert.ErrorAs(t, err, &topoErr)
}

func TestValidateReportsUnreachableRoadAsWarning(t *testing.T) {
	doc, err := Decode([]byte(`{
      "simulation": {"name": "x", "cycles": 1},
      "vehicles": [{"length": 5, "initialSpeed": 0, "initialAcceleration": 0, "maxSpeed": 10, "maxAcceleration": 2}],
      "roads": [
        {"length": 100, "vehicleDistance": 2, "speedLimit": 10, "isStartingRoad": true},
        {"length": 100, "vehicleDistance": 2, "speedLimit": 10}
      ]
    }`))
	require.NoError(t, err)

	unreachable, err := Validate(doc)
	require.NoError(t, err)
	assert.Contains(t, unreachable, "1")
}

func TestBuildProducesRunnableSimulator(t *testing.T) {
	doc, err := Decode([]byte(minimalScenario))
	require.NoError(t, err)

	_, err = Validate(doc)
	require.NoError(t, err)

	sim, err := Build(doc, 42)
	require.NoError(t, err)
	require.Len(t, sim.Roads, 1)
	require.Len(t, sim.StartingRoads, 1)

	sim.Run()
	assert.NotEmpty(t, sim.History.Metrics())
}

func TestBuildDerivesPriorityFromInRoadsIndex(t *testing.T) {
	doc, err := Decode([]byte(`{
      "simulation": {"name": "merge", "cycles": 1},
      "vehicles": [{"length": 5, "initialSpeed": 0, "initialAcceleration": 0, "maxSpeed": 10, "maxAcceleration": 2}],
      "roads": [
        {"length": 100, "vehicleDistance": 2, "speedLimit": 10, "isStartingRoad": true},
        {"length": 100, "vehicleDistance": 2, "speedLimit": 10, "isStartingRoad": true},
        {"length": 100, "vehicleDistance": 2, "speedLimit": 10}
      ],
      "intersections": [{"inRoads": [0, 1], "outRoads": [2]}]
    }`))
	require.NoError(t, err)

	sim, err := Build(doc, 1)
	require.NoError(t, err)

	var byID = map[int]int{}
	for _, r := range sim.Roads {
		byID[r.ID] = r.Priority
	}
	assert.Equal(t, 0, byID[0])
	assert.Equal(t, 1, byID[1])
}

func TestBuildResolvesVehiclePreset(t *testing.T) {
	doc, err := Decode([]byte(`{
      "simulation": {"name": "preset", "cycles": 1},
      "vehicles": [{"preset": "bus", "length": 5, "initialSpeed": 0, "initialAcceleration": 0, "maxSpeed": 10, "maxAcceleration": 2}],
      "roads": [{"length": 100, "vehicleDistance": 2, "speedLimit": 10, "isStartingRoad": true}]
    }`))
	require.NoError(t, err)

	sim, err := Build(doc, 1)
	require.NoError(t, err)

	bus := vehicle.BusPreset()
	require.Len(t, sim.VehicleTypes, 1)
	assert.Equal(t, bus.Length, sim.VehicleTypes[0].Length)
	assert.Equal(t, bus.MaxSpeed, sim.VehicleTypes[0].MaxSpeed)
	assert.Equal(t, bus.MaxAcceleration, sim.VehicleTypes[0].MaxAcceleration)
}

func TestBuildRejectsUnknownVehiclePreset(t *testing.T) {
	doc, err := Decode([]byte(`{
      "simulation": {"name": "preset", "cycles": 1},
      "vehicles": [{"preset": "spaceship", "length": 5, "initialSpeed": 0, "initialAcceleration": 0, "maxSpeed": 10, "maxAcceleration": 2}],
      "roads": [{"length": 100, "vehicleDistance": 2, "speedLimit": 10, "isStartingRoad": true}]
    }`))
	require.NoError(t, err)

	_, err = Build(doc, 1)
	require.Error(t, err)
	var cfgErr *simerr.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBuildSynchronizesPairedSemaphoresAcrossIntersection(t *testing.T) {
	doc, err := Decode([]byte(`{
      "simulation": {"name": "x-intersection", "cycles": 1},
      "vehicles": [{"length": 5, "initialSpeed": 0, "initialAcceleration": 0, "maxSpeed": 10, "maxAcceleration": 2}],
      "roads": [
        {"length": 100, "vehicleDistance": 2, "speedLimit": 10, "isStartingRoad": true},
        {"length": 100, "vehicleDistance": 2, "speedLimit": 10, "isStartingRoad": true},
        {"length": 100, "vehicleDistance": 2, "speedLimit": 10}
      ],
      "semaphores": [
        {"position": 90, "greenLight": 30, "redLight": 10, "startTime": 0, "road": 0},
        {"position": 90, "greenLight": 30, "redLight": 10, "startTime": 0, "road": 1}
      ],
      "intersections": [{"inRoads": [0, 1], "outRoads": [2], "synchronize": true}]
    }`))
	require.NoError(t, err)

	sim, err := Build(doc, 1)
	require.NoError(t, err)

	var road0, road1 int
	for _, r := range sim.Roads {
		switch r.ID {
		case 0:
			road0 = len(r.TrafficLights)
		case 1:
			road1 = len(r.TrafficLights)
		}
	}
	require.Equal(t, 1, road0)
	require.Equal(t, 1, road1)

	var tl0, tl1 = findRoad(sim.Roads, 0).TrafficLights[0], findRoad(sim.Roads, 1).TrafficLights[0]
	assert.Equal(t, tl0.Red, tl1.Green)
	assert.Equal(t, tl0.Green, tl1.Red)
}

func findRoad(roads []*road.Road, id int) *road.Road {
	for _, r := range roads {
		if r.ID == id {
			return r
		}
	}
	return nil
}
