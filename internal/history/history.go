// Package history records per-tick sector occupancy snapshots for a road
// and rolls them into aggregate density/queue-length metrics, ported from
// the reference implementation's data.py sector-sampling model.
package history

import (
	"github.com/cxd309/trafficsim/internal/road"
)

// MinDensityToConsiderTrafficQueue is the sector-density threshold above
// which a sector counts toward a contiguous traffic-queue run.
const MinDensityToConsiderTrafficQueue = 0.8

// SectorState is one time-sampled snapshot of a road's per-sector
// occupancy.
type SectorState struct {
	Time                    float64
	VehiclesPerSector       []int
	DensityPerSector        []float64
	DensityPerSectorPerLane []float64
	NumSectors              int
	LongestTrafficQueue     int
}

// calculateLongestTrafficQueue finds the longest run of consecutive sectors
// whose density exceeds MinDensityToConsiderTrafficQueue.
func calculateLongestTrafficQueue(densityPerSector []float64) int {
	longest := 0
	for i := range densityPerSector {
		if densityPerSector[i] <= MinDensityToConsiderTrafficQueue {
			continue
		}
		count := 1
		for j := i + 1; j < len(densityPerSector); j++ {
			if densityPerSector[j] > MinDensityToConsiderTrafficQueue {
				count++
			} else {
				break
			}
		}
		if count > longest {
			longest = count
		}
	}
	return longest
}

func newSectorState(t float64, vehiclesPerSector []int, densityPerSector, densityPerSectorPerLane []float64) SectorState {
	return SectorState{
		Time:                    t,
		VehiclesPerSector:       vehiclesPerSector,
		DensityPerSector:        densityPerSector,
		DensityPerSectorPerLane: densityPerSectorPerLane,
		NumSectors:              len(vehiclesPerSector),
		LongestTrafficQueue:     calculateLongestTrafficQueue(densityPerSector),
	}
}

// RoadHistory accumulates SectorState snapshots for one road, partitioning
// its length into fixed-width sectors. A sector whose start leaves less than
// 1.5 sector lengths of road runs to the road's end, so a tail remainder is
// folded into the sector before it only when the combined sector stays
// under 1.5 × SectorLength; otherwise the remainder is a shorter sector of
// its own.
type RoadHistory struct {
	Road         *road.Road
	NumLanes     int
	SectorLength float64
	States       []SectorState
}

// NewRoadHistory constructs a RoadHistory for r, sampled in sectorLength
// metre chunks (100m, the reference default, if sectorLength <= 0).
func NewRoadHistory(r *road.Road, sectorLength float64) *RoadHistory {
	if sectorLength <= 0 {
		sectorLength = 100
	}
	return &RoadHistory{Road: r, NumLanes: r.NumberOfLanes(), SectorLength: sectorLength}
}

// SaveState samples the road's current vehicle positions into sectors and
// appends the resulting SectorState.
func (h *RoadHistory) SaveState(t float64) {
	length := h.Road.Length
	var vehiclesPerSector []int
	var densityPerSector, densityPerSectorPerLane []float64

	for start := 0.0; start < length; start += h.SectorLength {
		end := start + h.SectorLength
		if end > length {
			end = length
		}
		last := length-start < h.SectorLength*1.5

		if last {
			end = length
		}

		vehicles := h.Road.VehiclesAt(start, end)
		occupied := 0.0
		for _, v := range vehicles {
			occupied += v.Length + h.Road.VehicleDistance
		}
		density := 0.0
		if h.SectorLength > 0 {
			density = occupied / h.SectorLength
		}
		vehiclesPerSector = append(vehiclesPerSector, len(vehicles))
		densityPerSector = append(densityPerSector, density)
		densityPerSectorPerLane = append(densityPerSectorPerLane, density/float64(h.NumLanes))

		if last {
			break
		}
	}

	h.States = append(h.States, newSectorState(t, vehiclesPerSector, densityPerSector, densityPerSectorPerLane))
}

// Metrics is the rolled-up summary of a RoadHistory's recorded states.
type Metrics struct {
	RoadID                   int
	SectorLength             float64
	AverageDensity           float64
	AverageVehiclesPerSector float64
	AverageLongestQueue      float64
}

// GetMetrics averages density, vehicle occupancy, and queue length across
// all recorded states. If no states were recorded, only RoadID and
// SectorLength are set and every average is zero.
func (h *RoadHistory) GetMetrics() Metrics {
	if len(h.States) == 0 {
		return Metrics{RoadID: h.Road.ID, SectorLength: h.SectorLength}
	}
	var totalDensity, totalVehicles float64
	var totalLongestQueue int
	numSectors := h.States[len(h.States)-1].NumSectors
	for _, s := range h.States {
		for _, d := range s.DensityPerSector {
			totalDensity += d
		}
		for _, v := range s.VehiclesPerSector {
			totalVehicles += float64(v)
		}
		totalLongestQueue += s.LongestTrafficQueue
	}
	n := float64(len(h.States))
	sectors := float64(numSectors)
	if sectors == 0 {
		sectors = 1
	}
	return Metrics{
		RoadID:                   h.Road.ID,
		SectorLength:             h.SectorLength,
		AverageDensity:           totalDensity / n / sectors,
		AverageVehiclesPerSector: totalVehicles / n / sectors,
		AverageLongestQueue:      float64(totalLongestQueue) * h.SectorLength / n,
	}
}

// MapHistory aggregates a RoadHistory per road in a scenario.
type MapHistory struct {
	Roads        []*RoadHistory
}

// NewMapHistory constructs a MapHistory sampling every road in roads at
// sectorLength metre resolution.
func NewMapHistory(roads []*road.Road, sectorLength float64) *MapHistory {
	m := &MapHistory{}
	for _, r := range roads {
		m.Roads = append(m.Roads, NewRoadHistory(r, sectorLength))
	}
	return m
}

// SaveState samples every road's current state at t.
func (m *MapHistory) SaveState(t float64) {
	for _, rh := range m.Roads {
		rh.SaveState(t)
	}
}

// Metrics rolls up every road's Metrics.
func (m *MapHistory) Metrics() []Metrics {
	out := make([]Metrics, 0, len(m.Roads))
	for _, rh := range m.Roads {
		out = append(out, rh.GetMetrics())
	}
	return out
}
