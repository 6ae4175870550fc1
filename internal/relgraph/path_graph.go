package relgraph

import (
	"strconv"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
	"github.com/Harsh2563/flagright-relgraph/internal/pathseq"
)

// FromOrderedPath renders a sequenced shortest path as a chain of flow edges.
// The first node is the center and concentricity follows the position along
// the chain.
func FromOrderedPath(path pathseq.OrderedPath) Graph {
	b := newBuilder()

	ids := make([]string, len(path.Nodes))
	for i, n := range path.Nodes {
		id := n.ID()
		if id == "" {
			id = "path-node-" + strconv.Itoa(i)
		}
		ids[i] = id

		typ := NodeUser
		label := ""
		switch {
		case n.Type == domain.PathNodeTransaction:
			typ = NodeTransaction
			label = transactionLabel(id)
		case n.User != nil:
			label = userLabel(*n.User, id)
		default:
			label = "User " + shortID(id)
		}
		if i == 0 {
			typ = NodeCenter
		}
		b.addNode(id, label, typ)
	}

	for i := 1; i < len(ids); i++ {
		label := pathseq.FallbackEdgeLabel
		if i-1 < len(path.Steps) {
			label = path.Steps[i-1].Label
		}
		b.addEdge(GraphEdge{
			ID:     edgeID(ids[i-1], ids[i], "path:"+strconv.Itoa(i-1)),
			Source: ids[i-1],
			Target: ids[i],
			Label:  label,
			Type:   EdgeFlow,
		}, domain.KindOther)
	}

	g := Graph{Nodes: b.nodes, Edges: b.edges}
	for i := range g.Nodes {
		g.Nodes[i].Concentricity = i
	}
	return g
}
