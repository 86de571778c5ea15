// Package scenario owns decoding, default application, validation, and
// construction of the JSON scenario documents described by spec.md §6,
// grounded on the reference implementation's Simulation.getSimulationFromJSON
// (simulate.py) for field names and default values, and on the teacher's
// SimulationInput JSON-input shape for the decode-then-build two-step
// pattern.
package scenario

// Document is the fully-resolved (defaults applied) in-memory form of a
// scenario JSON file.
type Document struct {
	Simulation    SimulationConfig
	Vehicles      []VehicleType
	Roads         []RoadConfig
	Semaphores    []SemaphoreConfig
	Intersections []JunctionConfig
}

// SimulationConfig is the top-level "simulation" object.
type SimulationConfig struct {
	Name                 string
	Cycles               int
	TimeStep             float64
	VehicleInjectionRate int
	SectorLength         float64
}

// VehicleType is one entry of the "vehicles" array: a template instantiated
// once per starting road on every injection tick. Preset names one of
// internal/vehicle's named archetypes (SPEC_FULL §12); when non-empty, Build
// resolves Length/MaxSpeed/MaxAcceleration/ReactionTime/
// ReactionTimeAtSemaphore/DampingFactor from the preset and the explicit
// fields below are ignored for those six.
type VehicleType struct {
	Preset                  string
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

// Point2D is a single vertex of a road's shape polyline, a SPEC_FULL
// addition (§10.1) absent from the reference JSON schema: roads without a
// "shape" key fall back to the default straight-line two-point polyline.
type Point2D struct {
	X float64
	Y float64
}

// RoadConfig is one entry of the "roads" array. Roads have no explicit "id"
// key; their ID is the 0-based index in the array, per spec.md §6.
type RoadConfig struct {
	Length          float64
	VehicleDistance float64
	SpeedLimit      float64
	IsStartingRoad  bool
	Shape           []Point2D
}

// SemaphoreConfig is one entry of the "semaphores" array.
type SemaphoreConfig struct {
	Position    float64
	GreenLight  float64
	RedLight    float64
	YellowLight float64
	StartTime   float64
	Road        int
}

// JunctionConfig is one entry of the "intersections" array. The variant
// (NFurcation / Merge / Intersection) is inferred from the shape of
// InRoads/OutRoads at Build time — see Build's doc comment. Synchronize is a
// SPEC_FULL §12 supplement: when true, Build pairs up InRoads sequentially
// and wires the second road of each pair to trafficlight.Opposite() of the
// first (see Opposite for the resulting phases).
type JunctionConfig struct {
	InRoads     []int
	OutRoads    []int
	OutFluxes   []float64
	Synchronize bool
}
