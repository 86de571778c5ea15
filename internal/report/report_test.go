package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxd309/trafficsim/internal/history"
	"github.com/cxd309/trafficsim/internal/road"
	"github.com/cxd309/trafficsim/internal/vehicle"
)

func arrivedVehicle(id int, travel float64) *vehicle.Vehicle {
	v := vehicle.New(id, 5, 0, 10, 0, 20, 3, 0, 0, 1, 1, 0.1)
	v.History = []vehicle.State{{Time: 0, Speed: 10, Acceleration: 0}, {Time: travel, Speed: 5, Acceleration: -1}}
	v.DepartDelay = 1
	v.TimeWaited = 2
	v.SetArrivalTime(travel)
	return v
}

func TestComputeFleetMetricsOnlyCountsArrivedForTravelTime(t *testing.T) {
	arrived := arrivedVehicle(1, 50)
	stillRunning := vehicle.New(2, 5, 0, 10, 0, 20, 3, 0, 0, 1, 1, 0.1)

	m := ComputeFleetMetrics([]*vehicle.Vehicle{arrived, stillRunning})
	assert.Equal(t, 1, m.ArrivedVehicles)
	assert.Equal(t, arrived.TravelTime(), m.Duration.Average)
}

func TestRangeOfComputesMedianForEvenCount(t *testing.T) {
	r := rangeOf([]float64{1, 2, 3, 4})
	assert.Equal(t, 2.5, r.Median)
	assert.Equal(t, 1.0, r.Min)
	assert.Equal(t, 4.0, r.Max)
}

func TestWriteMapHistoryProducesValidJSON(t *testing.T) {
	r := road.New(1, 300, 2, 20, 0, true)
	h := history.NewMapHistory([]*road.Road{r}, 100)
	h.SaveState(0)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteMapHistory(path, h))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "roads")
}

func TestWriteFleetMetricsRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fm.json")
	require.NoError(t, WriteFleetMetrics(path, []*vehicle.Vehicle{arrivedVehicle(1, 30)}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded FleetMetrics
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded.ArrivedVehicles)
}

func TestWriteVehiclesMetricsIsTickIndexedAndRounded(t *testing.T) {
	v := vehicle.New(7, 5, 0, 10, 0, 20, 3, 0, 0, 1, 1, 0.1)
	v.History = []vehicle.State{
		{Time: 0, Position: 1.123456789, CoordX: 0, CoordY: 0, Speed: 10.000005, Acceleration: 0, Status: vehicle.Moving, RoadID: 2},
		{Time: 1, Position: 11.123456789, CoordX: 0, CoordY: 0, Speed: 10, Acceleration: 0, Status: vehicle.Moving, RoadID: 2},
	}

	path := filepath.Join(t.TempDir(), "vm.json")
	require.NoError(t, WriteVehiclesMetrics(path, []*vehicle.Vehicle{v}, 2, 1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded [][]vehicleTickState
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	require.Len(t, decoded[0], 1)
	assert.Equal(t, 7, decoded[0][0].VehicleID)
	assert.Equal(t, 1.12346, decoded[0][0].Position)
	assert.Equal(t, "Moving", decoded[0][0].State)
	assert.Equal(t, 2, decoded[0][0].Road)
	require.Len(t, decoded[1], 1)
	assert.Equal(t, 11.12346, decoded[1][0].Position)
}

func TestBusiestRoadSparklineHandlesEmptyHistory(t *testing.T) {
	r := road.New(1, 300, 2, 20, 0, true)
	h := history.NewMapHistory([]*road.Road{r}, 100)
	assert.Equal(t, "(no data yet)", BusiestRoadSparkline(h, 40))
}

func TestNewOutputPathsNamesEveryFile(t *testing.T) {
	paths := NewOutputPaths("../output", "demo", 10)
	assert.Contains(t, paths.MapHistory, "demo_map_history_10.json")
	assert.Contains(t, paths.TickLog, "demo_simulation_output_10.txt")
}
