// Package relgraph converts relationship query results into a deduplicated
// node/edge graph ready for layout and rendering.
//
// Every function in this package is a pure transform: the same input always
// produces the same nodes and edges in the same order, and no ids are random.
package relgraph

import (
	"errors"
	"fmt"
)

// NodeType tags the role of a node in the rendered graph.
type NodeType string

const (
	NodeCenter      NodeType = "center"
	NodeUser        NodeType = "user"
	NodeTransaction NodeType = "transaction"
)

// EdgeType tags the relationship category an edge was derived from.
type EdgeType string

const (
	EdgeDirect       EdgeType = "direct"
	EdgeTransaction  EdgeType = "transaction"
	EdgeSent         EdgeType = "sent"
	EdgeReceived     EdgeType = "received"
	EdgeSharedDevice EdgeType = "shared-device"
	EdgeSharedIP     EdgeType = "shared-ip"
	EdgeFlow         EdgeType = "flow"
)

// GraphNode is a renderable node.
type GraphNode struct {
	ID    string   `json:"id" yaml:"id"`
	Label string   `json:"label" yaml:"label"`
	Type  NodeType `json:"type" yaml:"type"`
	// Concentricity is a layout hint: 0 for the center, growing with hop distance.
	Concentricity int `json:"concentricity" yaml:"concentricity"`
}

// GraphEdge is a renderable directed edge.
type GraphEdge struct {
	ID     string   `json:"id" yaml:"id"`
	Source string   `json:"source" yaml:"source"`
	Target string   `json:"target" yaml:"target"`
	Label  string   `json:"label" yaml:"label"`
	Type   EdgeType `json:"type" yaml:"type"`
	// TransactionCount is set on shared-device edges whose label carries a count.
	TransactionCount int `json:"transactionCount,omitempty" yaml:"transactionCount,omitempty"`
}

// Graph is the output of a build call.
type Graph struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes"`
	Edges []GraphEdge `json:"edges" yaml:"edges"`
}

// Stats summarizes a graph for API consumers.
type Stats struct {
	NodeCount   int              `json:"nodeCount" yaml:"nodeCount"`
	EdgeCount   int              `json:"edgeCount" yaml:"edgeCount"`
	EdgesByType map[EdgeType]int `json:"edgesByType" yaml:"edgesByType"`
}

// Stats counts nodes and edges per type.
func (g Graph) Stats() Stats {
	s := Stats{
		NodeCount:   len(g.Nodes),
		EdgeCount:   len(g.Edges),
		EdgesByType: make(map[EdgeType]int),
	}
	for _, e := range g.Edges {
		s.EdgesByType[e.Type]++
	}
	return s
}

// IsEmpty reports whether the graph has no nodes.
func (g Graph) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// Node returns the node with the given id.
func (g Graph) Node(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// EdgesBetween returns all edges from source to target in graph order.
func (g Graph) EdgesBetween(source, target string) []GraphEdge {
	var out []GraphEdge
	for _, e := range g.Edges {
		if e.Source == source && e.Target == target {
			out = append(out, e)
		}
	}
	return out
}

// Sentinel errors reported by Validate.
var (
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrDuplicateEdge = errors.New("duplicate edge id")
	ErrDanglingEdge  = errors.New("edge references unknown node")
)

// Validate checks node id uniqueness, edge id uniqueness and edge referential
// integrity. All violations are returned joined.
func (g Graph) Validate() error {
	var errs []error

	nodes := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, ok := nodes[n.ID]; ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID))
			continue
		}
		nodes[n.ID] = struct{}{}
	}

	edges := make(map[string]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		if _, ok := edges[e.ID]; ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateEdge, e.ID))
		}
		edges[e.ID] = struct{}{}

		if _, ok := nodes[e.Source]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s source %s", ErrDanglingEdge, e.ID, e.Source))
		}
		if _, ok := nodes[e.Target]; !ok {
			errs = append(errs, fmt.Errorf("%w: %s target %s", ErrDanglingEdge, e.ID, e.Target))
		}
	}

	return errors.Join(errs...)
}
