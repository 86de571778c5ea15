package history

import (
	"testing"

	"github.com/cxd309/trafficsim/internal/road"
	"github.com/cxd309/trafficsim/internal/vehicle"
	"github.com/stretchr/testify/assert"
)

func TestSaveStateMergesShortTailSector(t *testing.T) {
	r := road.New(1, 130, 2, 27.78, 0, true)
	h := NewRoadHistory(r, 100)
	h.SaveState(0)
	// 130m road, 100m sectors: from start 0 the remaining 130m is under
	// 1.5*100, so the first sector runs to the end as one sector of 130m.
	assert.Equal(t, 1, h.States[0].NumSectors)
}

func TestSaveStateSplitsLongRoadIntoMultipleSectors(t *testing.T) {
	r := road.New(1, 250, 2, 27.78, 0, true)
	h := NewRoadHistory(r, 100)
	h.SaveState(0)
	// 250m: from start 100 the remaining 150m is not under 1.5*100, so
	// [100,200] stays a full sector and the 50m tail forms [200,250]
	// -> 3 sectors total.
	assert.Equal(t, 3, h.States[0].NumSectors)
}

func TestLongestTrafficQueueFindsContiguousRun(t *testing.T) {
	densities := []float64{0.9, 1.0, 0.2, 0.9, 0.9, 0.9}
	assert.Equal(t, 3, calculateLongestTrafficQueue(densities))
}

func TestDensityCountsVehicleLengthsAndSpacing(t *testing.T) {
	r := road.New(1, 100, 2, 27.78, 0, true)
	v1 := vehicle.New(1, 5, 10, 0, 0, 27.78, 4, 0, 0, 1, 2, 0.1)
	v2 := vehicle.New(2, 5, 20, 0, 0, 27.78, 4, 0, 0, 1, 2, 0.1)
	r.TryAddVehicle(v1, 0, 10)
	r.TryAddVehicle(v2, 0, 20)

	h := NewRoadHistory(r, 100)
	h.SaveState(0)
	assert.Equal(t, 2, h.States[0].VehiclesPerSector[0])
	assert.InDelta(t, (5.0+2)*2/100.0, h.States[0].DensityPerSector[0], 1e-9)
}

func TestMetricsAveragesAcrossStates(t *testing.T) {
	r := road.New(1, 100, 2, 27.78, 0, true)
	h := NewRoadHistory(r, 100)
	h.SaveState(0)
	h.SaveState(1)
	m := h.GetMetrics()
	assert.Equal(t, r.ID, m.RoadID)
	assert.Equal(t, 0.0, m.AverageDensity)
}

func TestMapHistoryAggregatesPerRoad(t *testing.T) {
	r1 := road.New(1, 100, 2, 27.78, 0, true)
	r2 := road.New(2, 200, 2, 27.78, 0, true)
	m := NewMapHistory([]*road.Road{r1, r2}, 100)
	m.SaveState(0)
	metrics := m.Metrics()
	assert.Len(t, metrics, 2)
}
