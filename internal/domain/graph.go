package domain

// TopologyGraph is the exchange document consumed by the graph page
type TopologyGraph struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

// GraphNode represents a device in the visualization
type GraphNode struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// GraphEdge represents an inferred link in the visualization
type GraphEdge struct {
	From          string `json:"from" yaml:"from"`
	To            string `json:"to" yaml:"to"`
	FromInterface string `json:"fromInterface" yaml:"fromInterface"`
	ToInterface   string `json:"toInterface" yaml:"toInterface"`
	Label         string `json:"label,omitempty" yaml:"label,omitempty"`
	Evidence      int    `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// NewTopologyGraph creates an empty graph whose slices encode as [] rather than null
func NewTopologyGraph() *TopologyGraph {
	return &TopologyGraph{
		Nodes: make([]GraphNode, 0),
		Edges: make([]GraphEdge, 0),
	}
}

// NodeIDs returns the node ids in document order
func (g *TopologyGraph) NodeIDs() []string {
	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	return ids
}
