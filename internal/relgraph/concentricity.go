package relgraph

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// assignConcentricity sets each node's concentricity to its hop distance from
// the nearest center node over the undirected view of g. Nodes unreachable
// from any center keep their current value.
func assignConcentricity(g *Graph) {
	if len(g.Nodes) == 0 {
		return
	}

	index := make(map[string]int64, len(g.Nodes))
	ug := simple.NewUndirectedGraph()
	for i, n := range g.Nodes {
		index[n.ID] = int64(i)
		ug.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges {
		from, okFrom := index[e.Source]
		to, okTo := index[e.Target]
		if !okFrom || !okTo || from == to {
			continue
		}
		if !ug.HasEdgeBetween(from, to) {
			ug.SetEdge(ug.NewEdge(ug.Node(from), ug.Node(to)))
		}
	}

	best := make(map[int64]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.Type != NodeCenter {
			continue
		}
		var bfs traverse.BreadthFirst
		bfs.Walk(ug, ug.Node(int64(i)), func(node graph.Node, depth int) bool {
			if d, ok := best[node.ID()]; !ok || depth < d {
				best[node.ID()] = depth
			}
			return false
		})
	}

	for i := range g.Nodes {
		if d, ok := best[int64(i)]; ok {
			g.Nodes[i].Concentricity = d
		}
	}
}
