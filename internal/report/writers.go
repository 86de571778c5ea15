package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/cxd309/trafficsim/internal/history"
	"github.com/cxd309/trafficsim/internal/simerr"
	"github.com/cxd309/trafficsim/internal/vehicle"
)

// OutputPaths names the run's output files, grounded on simulate.py's
// "../output/<name>_<kind>_<cycles>.<ext>" convention.
type OutputPaths struct {
	MapHistory      string
	RoadMetrics     string
	VehiclesMetrics string
	FleetMetrics    string
	VehiclesHistory string
	TickLog         string
}

// NewOutputPaths builds the set of output file paths for a run named name
// over cycles ticks, rooted at dir (spec.md §6's "../output" by default).
func NewOutputPaths(dir, name string, cycles int) OutputPaths {
	base := fmt.Sprintf("%s_%%s_%d.json", name, cycles)
	return OutputPaths{
		MapHistory:      filepath.Join(dir, fmt.Sprintf(base, "map_history")),
		RoadMetrics:     filepath.Join(dir, fmt.Sprintf(base, "road_metrics")),
		VehiclesMetrics: filepath.Join(dir, fmt.Sprintf(base, "vehicles_metrics")),
		FleetMetrics:    filepath.Join(dir, fmt.Sprintf(base, "fleet_metrics")),
		VehiclesHistory: filepath.Join(dir, fmt.Sprintf(base, "vehicles_history")),
		TickLog:         filepath.Join(dir, fmt.Sprintf("%s_simulation_output_%d.txt", name, cycles)),
	}
}

type roadHistoryDoc struct {
	RoadID       int                   `json:"roadId"`
	SectorLength float64               `json:"sectorLength"`
	States       []history.SectorState `json:"states"`
}

type mapHistoryDoc struct {
	Roads []roadHistoryDoc `json:"roads"`
}

// WriteMapHistory serializes every road's per-tick sector snapshots.
func WriteMapHistory(path string, h *history.MapHistory) error {
	doc := mapHistoryDoc{}
	for _, rh := range h.Roads {
		doc.Roads = append(doc.Roads, roadHistoryDoc{
			RoadID:       rh.Road.ID,
			SectorLength: rh.SectorLength,
			States:       rh.States,
		})
	}
	return writeJSON(path, doc)
}

// WriteRoadMetrics serializes the aggregate per-road density/queue metrics.
func WriteRoadMetrics(path string, h *history.MapHistory) error {
	return writeJSON(path, h.Metrics())
}

// vehicleTickState is one vehicle's rounded snapshot at a single tick,
// field-named and rounded to spec.md §6's vehicles_metrics shape.
type vehicleTickState struct {
	VehicleID    int     `json:"VehicleID"`
	Position     float64 `json:"Position"`
	CoordX       float64 `json:"CoordX"`
	CoordY       float64 `json:"CoordY"`
	Speed        float64 `json:"Speed"`
	Acceleration float64 `json:"Acceleration"`
	State        string  `json:"State"`
	Road         int     `json:"Road"`
}

// WriteVehiclesMetrics serializes the tick-indexed array of per-vehicle
// states spec.md §6 requires: index i holds every vehicle's snapshot at
// simulation time i*timeStep, values rounded to 5 decimals.
func WriteVehiclesMetrics(path string, vehicles []*vehicle.Vehicle, cycles int, timeStep float64) error {
	if cycles < 0 {
		cycles = 0
	}
	byTick := make([]map[int]vehicleTickState, cycles)
	for i := range byTick {
		byTick[i] = make(map[int]vehicleTickState)
	}
	for _, v := range vehicles {
		for _, s := range v.History {
			i := tickIndex(s.Time, timeStep)
			if i < 0 || i >= cycles {
				continue
			}
			byTick[i][v.ID] = vehicleTickState{
				VehicleID:    v.ID,
				Position:     round5(s.Position),
				CoordX:       round5(s.CoordX),
				CoordY:       round5(s.CoordY),
				Speed:        round5(s.Speed),
				Acceleration: round5(s.Acceleration),
				State:        s.Status.String(),
				Road:         s.RoadID,
			}
		}
	}

	ticks := make([][]vehicleTickState, cycles)
	for i, m := range byTick {
		entries := make([]vehicleTickState, 0, len(m))
		for _, e := range m {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(a, b int) bool { return entries[a].VehicleID < entries[b].VehicleID })
		ticks[i] = entries
	}
	return writeJSON(path, ticks)
}

func tickIndex(t, timeStep float64) int {
	if timeStep <= 0 {
		return -1
	}
	return int(math.Round(t / timeStep))
}

func round5(x float64) float64 {
	return math.Round(x*1e5) / 1e5
}

// WriteFleetMetrics serializes the fleet-wide metrics rollup (SPEC_FULL
// §12's supplement), a distinct file from vehicles_metrics.
func WriteFleetMetrics(path string, vehicles []*vehicle.Vehicle) error {
	return writeJSON(path, ComputeFleetMetrics(vehicles))
}

type vehicleHistoryDoc struct {
	VehicleID int              `json:"vehicleId"`
	History   []vehicle.State  `json:"history"`
}

// WriteVehiclesHistory serializes every vehicle's full per-tick state
// history, the Go equivalent of saveVehiclesStateHistory.
func WriteVehiclesHistory(path string, vehicles []*vehicle.Vehicle) error {
	docs := make([]vehicleHistoryDoc, 0, len(vehicles))
	for _, v := range vehicles {
		docs = append(docs, vehicleHistoryDoc{VehicleID: v.ID, History: v.History})
	}
	return writeJSON(path, docs)
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return simerr.NewConfigError("", fmt.Errorf("creating output directory: %w", err))
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return simerr.NewConfigError("", fmt.Errorf("encoding %s: %w", path, err))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return simerr.NewConfigError("", fmt.Errorf("writing %s: %w", path, err))
	}
	return nil
}
