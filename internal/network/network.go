// Package network adapts the teacher's graph/shortest-path machinery
// (internal/graph) from a runtime routing domain into a validation-time
// diagnostic over a scenario's road/junction wiring: nodes are road IDs,
// edges are junction transitions (an incoming road's end junction feeding
// an outgoing road). It is consulted only at scenario-load time, never
// during the tick loop.
package network

import (
	"fmt"
	"strconv"

	"github.com/cxd309/trafficsim/internal/graph"
	"github.com/cxd309/trafficsim/internal/simerr"
)

// Junction describes one junction's incoming and outgoing road IDs, as
// decoded from a scenario document, for topology validation purposes.
type Junction struct {
	ID       string
	Incoming []int
	Outgoing []int
}

// Network is the validation-time road/junction graph.
type Network struct {
	g             *graph.Graph
	startingRoads []string
	allRoads      []string
}

func roadNode(id int) graph.NodeID { return strconv.Itoa(id) }

// Build constructs a Network from every road ID in the scenario, the
// junctions wiring them together, and which roads are starting roads (the
// injection entry points). It does not itself return an error for an
// unreachable road — that is a warning, surfaced by Unreachable — but does
// return a TopologyError for a junction with zero incoming or zero
// outgoing roads, since such a junction can never pass a vehicle through.
func Build(roadIDs []int, startingRoadIDs []int, junctions []Junction) (*Network, error) {
	data := graph.GraphData{}
	for _, id := range roadIDs {
		data.Nodes = append(data.Nodes, graph.Node{ID: roadNode(id)})
	}
	g, err := graph.NewGraph(data)
	if err != nil {
		return nil, simerr.NewTopologyError("building road graph", err)
	}

	edgeSeq := 0
	for _, j := range junctions {
		if len(j.Incoming) == 0 {
			return nil, simerr.NewTopologyError(fmt.Sprintf("junction %s has no incoming roads", j.ID), nil)
		}
		if len(j.Outgoing) == 0 {
			return nil, simerr.NewTopologyError(fmt.Sprintf("junction %s has no outgoing roads", j.ID), nil)
		}
		for _, in := range j.Incoming {
			for _, out := range j.Outgoing {
				edgeSeq++
				e := graph.Edge{ID: fmt.Sprintf("e%d", edgeSeq), U: roadNode(in), V: roadNode(out), Length: 1}
				if err := g.AddEdge(e); err != nil {
					return nil, simerr.NewTopologyError(fmt.Sprintf("junction %s", j.ID), err)
				}
			}
		}
	}

	n := &Network{g: g}
	for _, id := range roadIDs {
		n.allRoads = append(n.allRoads, roadNode(id))
	}
	for _, id := range startingRoadIDs {
		n.startingRoads = append(n.startingRoads, roadNode(id))
	}
	return n, nil
}

// Unreachable returns the IDs of roads (as their scenario road IDs encoded
// as strings) not reachable by any junction chain from a starting road.
// This is a warning-level diagnostic, not a TopologyError — an unreachable
// road cannot break the simulation, it is simply dead wiring.
func (n *Network) Unreachable() []string {
	reachable := make(map[string]bool)
	for _, s := range n.startingRoads {
		reachable[s] = true
		for _, r := range n.allRoads {
			if r == s {
				continue
			}
			if _, err := n.g.GetShortestPath(s, r); err == nil {
				reachable[r] = true
			}
		}
	}
	var unreached []string
	for _, r := range n.allRoads {
		if !reachable[r] {
			unreached = append(unreached, r)
		}
	}
	return unreached
}

// ShortestHops returns the number of junction hops on the shortest path
// from road "from" to road "to", and whether a path exists.
func (n *Network) ShortestHops(from, to int) (int, bool) {
	path, err := n.g.GetShortestPath(roadNode(from), roadNode(to))
	if err != nil {
		return 0, false
	}
	return int(path.Length), true
}
