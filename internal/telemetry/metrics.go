package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics gauges/counters exposed at /metrics when --metrics-addr is set,
// grounded in the pack's internal/obs/metrics.go naming and registration
// style.
var (
	TicksProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trafficsim_ticks_processed_total",
		Help: "Total number of simulation ticks executed",
	})
	LiveVehicles = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trafficsim_live_vehicles",
		Help: "Number of vehicles currently on the network",
	})
	VehiclesArrived = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trafficsim_vehicles_arrived_total",
		Help: "Total number of vehicles that reached a sink",
	})
	RoadDensity = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "trafficsim_road_density",
		Help: "Mean vehicle density per road, vehicles per metre",
	}, []string{"road_id"})
	StateErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trafficsim_state_errors_total",
		Help: "Total number of tolerated per-tick state anomalies",
	})
)

func init() {
	prometheus.MustRegister(TicksProcessed, LiveVehicles, VehiclesArrived, RoadDensity, StateErrors)
}
