// Package assembler merges device records and inferred links into the graph
// document written for the rendering page. It performs no inference.
package assembler

import (
	"fmt"
	"sort"

	"switchgraph/internal/domain"
)

// Assemble builds the topology graph. Node ids are the device identities, so
// they are stable across runs. Nodes and edges are sorted, making the output
// a deterministic function of the input. Every device and every link given is
// present in the result; anything that cannot be represented is reported as
// an AssemblyContractViolation.
func Assemble(devices []domain.Device, links []domain.Link) (*domain.TopologyGraph, error) {
	graph := domain.NewTopologyGraph()

	known := make(map[string]bool, len(devices))
	for _, d := range devices {
		if d.ID == "" {
			return nil, &domain.AssemblyContractViolation{Reason: "device with empty identity"}
		}
		if known[d.ID] {
			return nil, &domain.AssemblyContractViolation{Reason: fmt.Sprintf("duplicate device %q", d.ID)}
		}
		known[d.ID] = true
		graph.Nodes = append(graph.Nodes, domain.GraphNode{ID: d.ID, Label: d.DisplayLabel()})
	}

	seen := make(map[domain.LinkKey]bool, len(links))
	for _, l := range links {
		if err := checkLink(l, known); err != nil {
			return nil, err
		}
		key := l.Key()
		if seen[key] {
			return nil, &domain.AssemblyContractViolation{Reason: fmt.Sprintf("duplicate link %s", l)}
		}
		seen[key] = true
		graph.Edges = append(graph.Edges, edgeFromLink(l))
	}

	sort.Slice(graph.Nodes, func(i, j int) bool {
		return graph.Nodes[i].ID < graph.Nodes[j].ID
	})
	sort.Slice(graph.Edges, func(i, j int) bool {
		a, b := graph.Edges[i], graph.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		if a.FromInterface != b.FromInterface {
			return a.FromInterface < b.FromInterface
		}
		return a.ToInterface < b.ToInterface
	})

	return graph, nil
}

func checkLink(l domain.Link, known map[string]bool) error {
	for _, e := range []domain.Endpoint{l.A, l.B} {
		if e.Device == "" || e.Interface == "" {
			return &domain.AssemblyContractViolation{Reason: fmt.Sprintf("link %s has an incomplete endpoint", l)}
		}
		if !known[e.Device] {
			return &domain.AssemblyContractViolation{Reason: fmt.Sprintf("link %s references unknown device %q", l, e.Device)}
		}
	}
	if l.A.Device == l.B.Device {
		return &domain.AssemblyContractViolation{Reason: fmt.Sprintf("link %s loops back to its own device", l)}
	}
	return nil
}

// edgeFromLink orients the edge so that From sorts before To
func edgeFromLink(l domain.Link) domain.GraphEdge {
	a, b := l.A, l.B
	if b.Device < a.Device {
		a, b = b, a
	}
	return domain.GraphEdge{
		From:          a.Device,
		To:            b.Device,
		FromInterface: a.Interface,
		ToInterface:   b.Interface,
		Label:         a.Interface + " - " + b.Interface,
		Evidence:      l.Evidence,
	}
}
