package store

import (
	"sort"

	"switchgraph/internal/domain"
)

// Change summarises how a new graph differs from the previous snapshot
type Change struct {
	AddedNodes   []string
	RemovedNodes []string
	AddedEdges   []domain.GraphEdge
	RemovedEdges []domain.GraphEdge
}

// Empty reports whether nothing changed
func (c Change) Empty() bool {
	return len(c.AddedNodes) == 0 && len(c.RemovedNodes) == 0 &&
		len(c.AddedEdges) == 0 && len(c.RemovedEdges) == 0
}

// Diff compares two graphs by node id and edge endpoints. A nil previous
// graph counts as empty.
func Diff(prev, next *domain.TopologyGraph) Change {
	if prev == nil {
		prev = domain.NewTopologyGraph()
	}
	if next == nil {
		next = domain.NewTopologyGraph()
	}

	var c Change
	prevNodes := nodeSet(prev)
	nextNodes := nodeSet(next)
	for id := range nextNodes {
		if !prevNodes[id] {
			c.AddedNodes = append(c.AddedNodes, id)
		}
	}
	for id := range prevNodes {
		if !nextNodes[id] {
			c.RemovedNodes = append(c.RemovedNodes, id)
		}
	}
	sort.Strings(c.AddedNodes)
	sort.Strings(c.RemovedNodes)

	prevEdges := edgeSet(prev)
	nextEdges := edgeSet(next)
	for _, e := range next.Edges {
		if !prevEdges[edgeKey(e)] {
			c.AddedEdges = append(c.AddedEdges, e)
		}
	}
	for _, e := range prev.Edges {
		if !nextEdges[edgeKey(e)] {
			c.RemovedEdges = append(c.RemovedEdges, e)
		}
	}

	return c
}

func nodeSet(g *domain.TopologyGraph) map[string]bool {
	set := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		set[n.ID] = true
	}
	return set
}

type edgeID struct {
	from, fromIf, to, toIf string
}

// edgeKey ignores orientation so a flipped edge is not reported as changed
func edgeKey(e domain.GraphEdge) edgeID {
	if e.To < e.From || (e.To == e.From && e.ToInterface < e.FromInterface) {
		return edgeID{e.To, e.ToInterface, e.From, e.FromInterface}
	}
	return edgeID{e.From, e.FromInterface, e.To, e.ToInterface}
}

func edgeSet(g *domain.TopologyGraph) map[edgeID]bool {
	set := make(map[edgeID]bool, len(g.Edges))
	for _, e := range g.Edges {
		set[edgeKey(e)] = true
	}
	return set
}
