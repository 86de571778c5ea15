// Package engine owns the simulator's construction and its tick loop,
// grounded on the teacher's NewTMS/Run constructor-and-loop shape (build a
// graph, wrap it in a driver type, expose a Run that steps to completion
// and wraps every error with fmt.Errorf("...: %w", err)) but re-sequenced
// to this domain's single safety+motion pass per vehicle (Road.MoveVehicles)
// instead of the teacher's separate movement-authority and motion passes,
// since here braking decisions are vehicle-local look-ahead rather than
// signaled by a central block system.
package engine

import (
	"math/rand"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/cxd309/trafficsim/internal/history"
	"github.com/cxd309/trafficsim/internal/road"
	"github.com/cxd309/trafficsim/internal/telemetry"
	"github.com/cxd309/trafficsim/internal/vehicle"
)

// VehicleTemplate is a vehicle-type descriptor instantiated once per
// starting road on every injection tick.
type VehicleTemplate struct {
	Length                  float64
	InitialPosition         float64
	InitialSpeed            float64
	InitialAcceleration     float64
	MaxSpeed                float64
	MaxAcceleration         float64
	CreationTime            float64
	Sigma                   float64
	ReactionTime            float64
	ReactionTimeAtSemaphore float64
	DampingFactor           float64
}

// Simulator runs the fixed-timestep tick loop over a fully wired road
// network: starting roads receive new vehicles on injection ticks, every
// road is advanced in descending-ID order each tick (spec.md §5's minimum
// viable ordering policy), and per-road history is sampled at the end of
// the tick.
type Simulator struct {
	RunID string

	Roads         []*road.Road // all roads, sorted descending by ID
	StartingRoads []*road.Road
	VehicleTypes  []VehicleTemplate

	TimeStep             float64
	VehicleInjectionRate int
	Cycles               int

	RNG *rand.Rand

	History *history.MapHistory

	// AllVehicles holds every vehicle ever injected, including ones that
	// have since arrived — internal/report's fleet metrics and the live
	// Prometheus gauges both read it, and the bounded-cycle nature of a
	// simulation run keeps its memory cost predictable.
	AllVehicles []*vehicle.Vehicle

	nextVehicleID int
	prevArrived   int
}

// New constructs a Simulator. sectorLength configures the per-road history
// sampler (100m reference default if <= 0). seed initialises the
// Simulator's own RNG, which drives vehicle movement, for deterministic
// replay.
func New(roads, startingRoads []*road.Road, vehicleTypes []VehicleTemplate, timeStep float64, injectionRate, cycles int, sectorLength float64, seed int64) *Simulator {
	sorted := make([]*road.Road, len(roads))
	copy(sorted, roads)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	return &Simulator{
		RunID:                uuid.NewString(),
		Roads:                sorted,
		StartingRoads:        startingRoads,
		VehicleTypes:         vehicleTypes,
		TimeStep:             timeStep,
		VehicleInjectionRate: injectionRate,
		Cycles:               cycles,
		RNG:                  rand.New(rand.NewSource(seed)),
		History:              history.NewMapHistory(sorted, sectorLength),
	}
}

// Run executes the full tick loop (spec.md §4.8): injection, then
// descending-road-id movement, then history sampling, once per tick.
func (s *Simulator) Run() {
	for i := 0; i < s.Cycles; i++ {
		t := float64(i) * s.TimeStep
		if s.VehicleInjectionRate > 0 && i%s.VehicleInjectionRate == 0 {
			s.inject(t)
		}
		for _, r := range s.Roads {
			r.MoveVehicles(t, s.TimeStep, s.RNG)
		}
		s.History.SaveState(t)
		s.reportTick()
	}
}

// reportTick updates the live Prometheus gauges (§6-FULL.3) from the current
// road/vehicle state; cheap enough to run every tick regardless of whether
// --metrics-addr is actually serving them.
func (s *Simulator) reportTick() {
	telemetry.TicksProcessed.Inc()

	live, arrived := 0, 0
	for _, v := range s.AllVehicles {
		if v.IsArrived() {
			arrived++
		} else {
			live++
		}
	}
	telemetry.LiveVehicles.Set(float64(live))
	if delta := arrived - s.prevArrived; delta > 0 {
		telemetry.VehiclesArrived.Add(float64(delta))
	}
	s.prevArrived = arrived

	for _, r := range s.Roads {
		density := 0.0
		if r.Length > 0 {
			count := 0
			for _, lane := range r.Lanes {
				count += len(lane)
			}
			density = float64(count) / r.Length
		}
		telemetry.RoadDensity.WithLabelValues(strconv.Itoa(r.ID)).Set(density)
	}
}

// inject instantiates one vehicle of every vehicle type onto every starting
// road, admitting it at the road's configured entry point.
func (s *Simulator) inject(t float64) {
	for _, r := range s.StartingRoads {
		for _, vt := range s.VehicleTypes {
			s.nextVehicleID++
			v := vehicle.New(
				s.nextVehicleID, vt.Length, vt.InitialPosition, vt.InitialSpeed, vt.InitialAcceleration,
				vt.MaxSpeed, vt.MaxAcceleration, t, vt.Sigma, vt.ReactionTime, vt.ReactionTimeAtSemaphore, vt.DampingFactor,
			)
			r.TryAddVehicle(v, t, vt.InitialPosition)
			s.AllVehicles = append(s.AllVehicles, v)
		}
	}
}
