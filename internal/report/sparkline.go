package report

import (
	"fmt"

	asciigraph "github.com/guptarohit/asciigraph"

	"github.com/cxd309/trafficsim/internal/history"
)

// BusiestRoadSparkline renders a terminal density sparkline for the road
// with the highest average density, the same Plot/Height/Width/Caption call
// shape the pack's TUI charts use. Returns "(no data yet)" if h has no
// sampled roads.
func BusiestRoadSparkline(h *history.MapHistory, width int) string {
	if width < 10 {
		width = 10
	}

	var busiest *history.RoadHistory
	busiestAvg := -1.0
	for _, rh := range h.Roads {
		m := rh.GetMetrics()
		if m.AverageDensity > busiestAvg {
			busiestAvg = m.AverageDensity
			busiest = rh
		}
	}
	if busiest == nil || len(busiest.States) == 0 {
		return "(no data yet)"
	}

	data := make([]float64, len(busiest.States))
	for i, s := range busiest.States {
		density := 0.0
		for _, d := range s.DensityPerSector {
			density += d
		}
		if s.NumSectors > 0 {
			density /= float64(s.NumSectors)
		}
		data[i] = density
	}

	caption := fmt.Sprintf("Road %d density", busiest.Road.ID)
	return asciigraph.Plot(data, asciigraph.Height(8), asciigraph.Width(width), asciigraph.Caption(caption))
}
