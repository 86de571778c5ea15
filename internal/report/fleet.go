// Package report owns every on-disk and terminal output the simulator
// produces once a run completes: the three JSON files named in spec.md §6,
// a fleet-wide metrics summary (a SPEC_FULL supplement grounded in the
// reference implementation's Vehicle.getVehiclesMetrics), and an optional
// terminal density sparkline.
package report

import (
	"sort"

	"github.com/cxd309/trafficsim/internal/vehicle"
)

// Range is a min/max/median/average summary over one sampled quantity.
type Range struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
	Average float64 `json:"average"`
}

// FleetMetrics is the fleet-wide rollup over every vehicle that took part
// in a run, ported field-for-field from getVehiclesMetrics: travel time,
// time waited and depart delay over arrived vehicles, stop counts over every
// vehicle, and average speed/acceleration across every vehicle's full state
// history.
type FleetMetrics struct {
	Duration       Range   `json:"duration"`
	Stops          Range   `json:"stops"`
	TimeWaited     Range   `json:"timeWaited"`
	DepartDelay    Range   `json:"departureDelay"`
	AverageSpeed   float64 `json:"averageSpeed"`
	AverageAccel   float64 `json:"averageAcceleration"`
	ArrivedVehicles int    `json:"arrivedVehicles"`
}

func rangeOf(values []float64) Range {
	if len(values) == 0 {
		return Range{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return Range{
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		Median:  median(sorted),
		Average: sum / float64(len(sorted)),
	}
}

// median assumes values is already sorted, matching Python's statistics.median.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// ComputeFleetMetrics aggregates vehicles the way getVehiclesMetrics does:
// travel time, time waited, and depart delay are only meaningful for
// arrived vehicles; stop counts and per-vehicle speed/acceleration averages
// are taken over the whole fleet regardless of arrival.
func ComputeFleetMetrics(vehicles []*vehicle.Vehicle) FleetMetrics {
	var travelTimes, timeWaited, departDelays, stops []float64
	var speedSum, accelSum float64
	arrived := 0

	for _, v := range vehicles {
		stops = append(stops, v.NumberOfStops)
		speedSum += averageSpeed(v)
		accelSum += averageAcceleration(v)
		if v.IsArrived() {
			arrived++
			travelTimes = append(travelTimes, v.TravelTime())
			timeWaited = append(timeWaited, v.TimeWaited)
			departDelays = append(departDelays, v.DepartDelay)
		}
	}

	m := FleetMetrics{
		Duration:        rangeOf(travelTimes),
		Stops:           rangeOf(stops),
		TimeWaited:      rangeOf(timeWaited),
		DepartDelay:     rangeOf(departDelays),
		ArrivedVehicles: arrived,
	}
	if n := len(vehicles); n > 0 {
		m.AverageSpeed = speedSum / float64(n)
		m.AverageAccel = accelSum / float64(n)
	}
	return m
}

func averageSpeed(v *vehicle.Vehicle) float64 {
	if len(v.History) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range v.History {
		sum += s.Speed
	}
	return sum / float64(len(v.History))
}

func averageAcceleration(v *vehicle.Vehicle) float64 {
	if len(v.History) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range v.History {
		sum += s.Acceleration
	}
	return sum / float64(len(v.History))
}
