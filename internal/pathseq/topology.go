package pathseq

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
)

// Topology describes the shape of a path result. It is informational only;
// Sequence never consults it.
type Topology struct {
	Start      string `json:"start" yaml:"start"`
	HasCycle   bool   `json:"hasCycle" yaml:"hasCycle"`
	Branching  bool   `json:"branching" yaml:"branching"`
	Components int    `json:"components" yaml:"components"`
	// Dangling counts relationships whose endpoints are not among the nodes.
	Dangling int  `json:"dangling" yaml:"dangling"`
	Simple   bool `json:"simple" yaml:"simple"`
}

// Diagnose inspects nodes and rels for cycles, branching, disconnected pieces
// and relationships that reference unknown nodes.
func Diagnose(nodes []domain.PathNode, rels []domain.PathRelationship) Topology {
	t := Topology{Start: StartNodeID(rels)}
	if len(nodes) == 0 && len(rels) == 0 {
		return t
	}

	ids := make(map[string]int64)
	known := make(map[string]bool, len(nodes))
	dg := simple.NewDirectedGraph()
	idOf := func(s string) int64 {
		if id, ok := ids[s]; ok {
			return id
		}
		id := int64(len(ids))
		ids[s] = id
		dg.AddNode(simple.Node(id))
		return id
	}

	for _, n := range nodes {
		if id := n.ID(); id != "" {
			known[id] = true
			idOf(id)
		}
	}

	for _, r := range rels {
		if !known[r.StartNodeID] || !known[r.EndNodeID] {
			t.Dangling++
		}
		from, to := idOf(r.StartNodeID), idOf(r.EndNodeID)
		if from == to {
			t.HasCycle = true
			continue
		}
		if dg.HasEdgeFromTo(from, to) {
			t.Branching = true
			continue
		}
		dg.SetEdge(dg.NewEdge(dg.Node(from), dg.Node(to)))
	}

	if _, err := topo.Sort(dg); err != nil {
		t.HasCycle = true
	}

	nodesIt := dg.Nodes()
	for nodesIt.Next() {
		id := nodesIt.Node().ID()
		if dg.From(id).Len() > 1 || dg.To(id).Len() > 1 {
			t.Branching = true
			break
		}
	}

	t.Components = len(topo.ConnectedComponents(graph.Undirect{G: dg}))
	t.Simple = !t.HasCycle && !t.Branching && t.Components == 1 && t.Dangling == 0
	return t
}
