package scenario

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cxd309/trafficsim/internal/simerr"
)

// Default values applied to omitted fields, taken field-for-field from the
// reference loader's "KEY in dict else default" pattern.
const (
	defaultTimeStep                = 1.0
	defaultVehicleInjectionRate    = 1
	defaultInitialPosition         = 0.0
	defaultCreationTime            = 0.0
	defaultSigma                   = 0.0
	defaultReactionTime            = 1.0
	defaultReactionTimeAtSemaphore = 1.0
	defaultDampingFactor           = 0.18
	defaultIsStartingRoad          = false
	defaultYellowLight             = 0.0
)

// rawDocument mirrors the JSON wire shape exactly. Pointer fields distinguish
// "key omitted" from "key present with its zero value" for every field whose
// default is non-zero; fields whose default already is the zero value decode
// directly.
type rawDocument struct {
	Simulation struct {
		Name                 string   `json:"name"`
		Cycles               int      `json:"cycles"`
		TimeStep             *float64 `json:"timeStep"`
		VehicleInjectionRate *int     `json:"vehicleInjectionRate"`
		SectorLength         float64  `json:"sectorLength"`
	} `json:"simulation"`

	Vehicles []struct {
		Preset                  string   `json:"preset"`
		Length                  float64  `json:"length"`
		InitialPosition         *float64 `json:"initialPosition"`
		InitialSpeed            float64  `json:"initialSpeed"`
		InitialAcceleration     float64  `json:"initialAcceleration"`
		MaxSpeed                float64  `json:"maxSpeed"`
		MaxAcceleration         float64  `json:"maxAcceleration"`
		CreationTime            *float64 `json:"creationTime"`
		Sigma                   *float64 `json:"sigma"`
		ReactionTime            *float64 `json:"reactionTime"`
		ReactionTimeAtSemaphore *float64 `json:"reactionTimeAtSemaphore"`
		DampingFactor           *float64 `json:"dampingFactor"`
	} `json:"vehicles"`

	Roads []struct {
		Length          float64   `json:"length"`
		VehicleDistance float64   `json:"vehicleDistance"`
		SpeedLimit      float64   `json:"speedLimit"`
		IsStartingRoad  *bool     `json:"isStartingRoad"`
		Shape           []Point2D `json:"shape"`
	} `json:"roads"`

	Semaphores []struct {
		Position    float64  `json:"position"`
		GreenLight  float64  `json:"greenLight"`
		RedLight    float64  `json:"redLight"`
		YellowLight *float64 `json:"yellowLight"`
		StartTime   float64  `json:"startTime"`
		Road        int      `json:"road"`
	} `json:"semaphores"`

	Intersections []struct {
		InRoads     []int     `json:"inRoads"`
		OutRoads    []int     `json:"outRoads"`
		OutFluxes   []float64 `json:"outFluxes"`
		Synchronize bool      `json:"synchronize"`
	} `json:"intersections"`
}

func orFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func orInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func orBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Load reads the scenario document at path, decodes it, and applies every
// field default from the reference loader. It does not validate
// cross-references or topology — call Validate afterward.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, simerr.NewConfigError("", fmt.Errorf("reading scenario file: %w", err))
	}
	return Decode(data)
}

// Decode parses raw JSON bytes into a Document with defaults applied, the
// same step Load performs after reading from disk.
func Decode(data []byte) (Document, error) {
	if err := validateAgainstSchema(data); err != nil {
		return Document{}, err
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, simerr.NewConfigError("", fmt.Errorf("parsing scenario JSON: %w", err))
	}

	doc := Document{
		Simulation: SimulationConfig{
			Name:                 raw.Simulation.Name,
			Cycles:               raw.Simulation.Cycles,
			TimeStep:             orFloat(raw.Simulation.TimeStep, defaultTimeStep),
			VehicleInjectionRate: orInt(raw.Simulation.VehicleInjectionRate, defaultVehicleInjectionRate),
			SectorLength:         raw.Simulation.SectorLength,
		},
	}

	for _, v := range raw.Vehicles {
		doc.Vehicles = append(doc.Vehicles, VehicleType{
			Preset:                  v.Preset,
			Length:                  v.Length,
			InitialPosition:         orFloat(v.InitialPosition, defaultInitialPosition),
			InitialSpeed:            v.InitialSpeed,
			InitialAcceleration:     v.InitialAcceleration,
			MaxSpeed:                v.MaxSpeed,
			MaxAcceleration:         v.MaxAcceleration,
			CreationTime:            orFloat(v.CreationTime, defaultCreationTime),
			Sigma:                   orFloat(v.Sigma, defaultSigma),
			ReactionTime:            orFloat(v.ReactionTime, defaultReactionTime),
			ReactionTimeAtSemaphore: orFloat(v.ReactionTimeAtSemaphore, defaultReactionTimeAtSemaphore),
			DampingFactor:           orFloat(v.DampingFactor, defaultDampingFactor),
		})
	}

	for _, r := range raw.Roads {
		doc.Roads = append(doc.Roads, RoadConfig{
			Length:          r.Length,
			VehicleDistance: r.VehicleDistance,
			SpeedLimit:      r.SpeedLimit,
			IsStartingRoad:  orBool(r.IsStartingRoad, defaultIsStartingRoad),
			Shape:           r.Shape,
		})
	}

	for _, s := range raw.Semaphores {
		doc.Semaphores = append(doc.Semaphores, SemaphoreConfig{
			Position:    s.Position,
			GreenLight:  s.GreenLight,
			RedLight:    s.RedLight,
			YellowLight: orFloat(s.YellowLight, defaultYellowLight),
			StartTime:   s.StartTime,
			Road:        s.Road,
		})
	}

	for _, j := range raw.Intersections {
		doc.Intersections = append(doc.Intersections, JunctionConfig{
			InRoads:     j.InRoads,
			OutRoads:    j.OutRoads,
			OutFluxes:   j.OutFluxes,
			Synchronize: j.Synchronize,
		})
	}

	return doc, nil
}
