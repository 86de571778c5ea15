// Command simulate reads a scenario JSON file (spec.md §6), runs the
// fixed-timestep traffic simulation to completion, and writes the run's
// output files under ../output. See SPEC_FULL.md §6-FULL.4 for the full
// flag surface.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cxd309/trafficsim/internal/engine"
	"github.com/cxd309/trafficsim/internal/report"
	"github.com/cxd309/trafficsim/internal/scenario"
	"github.com/cxd309/trafficsim/internal/simerr"
	"github.com/cxd309/trafficsim/internal/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	logLevel := fs.String("log", "info", "log level: debug, info, warn, error")
	summary := fs.Bool("summary", false, "print a terminal summary and density sparkline when the run finishes")
	metricsAddr := fs.String("metrics-addr", "", "address to serve /metrics and /healthz on, e.g. :9090 (disabled if empty)")
	logFile := fs.String("log-file", "", "optional rotating file to mirror structured log output to")
	seed := fs.Int64("seed", 1, "seed for the deterministic RNG")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: simulate <scenario.json> [flags]")
		return 2
	}
	scenarioPath := fs.Arg(0)

	logger, err := telemetry.NewLogger(*logLevel, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	if *metricsAddr != "" {
		srv := telemetry.StartServer(*metricsAddr)
		defer srv.Close()
		logger.Info("metrics server listening", telemetry.String("addr", *metricsAddr))
	}

	doc, err := scenario.Load(scenarioPath)
	if err != nil {
		return exitForError(logger, err)
	}

	unreachable, err := scenario.Validate(doc)
	if err != nil {
		return exitForError(logger, err)
	}
	for _, r := range unreachable {
		logger.Warn("road unreachable from any starting road", telemetry.String("road", r))
	}

	sim, err := scenario.Build(doc, *seed)
	if err != nil {
		return exitForError(logger, err)
	}

	logger.Info("starting simulation",
		telemetry.String("name", doc.Simulation.Name),
		telemetry.Int("cycles", doc.Simulation.Cycles),
		telemetry.String("runId", sim.RunID),
	)

	sim.Run()

	logger.Info("simulation finished", telemetry.Int("vehiclesTracked", len(sim.AllVehicles)))

	paths := report.NewOutputPaths("../output", doc.Simulation.Name, doc.Simulation.Cycles)
	if err := writeOutputs(sim, paths); err != nil {
		logger.Error("writing outputs", telemetry.Err(err))
		return 1
	}

	if *summary {
		fmt.Println(report.BusiestRoadSparkline(sim.History, 60))
		fleet := report.ComputeFleetMetrics(sim.AllVehicles)
		fmt.Printf("Arrived vehicles: %d, average travel time: %.1fs, average stops: %.1f\n",
			fleet.ArrivedVehicles, fleet.Duration.Average, fleet.Stops.Average)
	}

	return 0
}

func writeOutputs(sim *engine.Simulator, paths report.OutputPaths) error {
	if err := report.WriteMapHistory(paths.MapHistory, sim.History); err != nil {
		return err
	}
	if err := report.WriteRoadMetrics(paths.RoadMetrics, sim.History); err != nil {
		return err
	}
	if err := report.WriteVehiclesMetrics(paths.VehiclesMetrics, sim.AllVehicles, sim.Cycles, sim.TimeStep); err != nil {
		return err
	}
	if err := report.WriteFleetMetrics(paths.FleetMetrics, sim.AllVehicles); err != nil {
		return err
	}
	return report.WriteVehiclesHistory(paths.VehiclesHistory, sim.AllVehicles)
}

// exitForError maps a ConfigError/TopologyError to exit code 1 per
// SPEC_FULL §6-FULL.4; any other error also exits 1 but is logged without
// the specific taxonomy label.
func exitForError(logger *zap.Logger, err error) int {
	var cfgErr *simerr.ConfigError
	var topoErr *simerr.TopologyError
	switch {
	case errors.As(err, &cfgErr):
		logger.Error("invalid scenario configuration", telemetry.Err(err))
	case errors.As(err, &topoErr):
		logger.Error("invalid scenario topology", telemetry.Err(err))
	default:
		logger.Error("unexpected error", telemetry.Err(err))
	}
	return 1
}
