// Package pathseq linearizes an unordered shortest-path result into the
// ordered chain of nodes from the path's start to its end.
package pathseq

import (
	"github.com/Harsh2563/flagright-relgraph/internal/domain"
)

// FallbackEdgeLabel labels a step when no relationship matches the node pair.
const FallbackEdgeLabel = "CONNECTED"

type relKey struct {
	start string
	end   string
}

func keyOf(r domain.PathRelationship) relKey {
	return relKey{start: r.StartNodeID, end: r.EndNodeID}
}

// Sequence orders nodes by walking rels from the path's start node.
//
// The start is the first relationship start id that never appears as an end
// id; without one (a cycle) the first relationship's start is used. The walk
// follows the first unvisited outgoing relationship of the current node and
// stops when there is none, when the next id is not among nodes, or when the
// next node was already emitted. A branching or disconnected relationship set
// therefore yields a truncated sequence, never an error.
func Sequence(nodes []domain.PathNode, rels []domain.PathRelationship) []domain.PathNode {
	out := []domain.PathNode{}
	if len(nodes) == 0 || len(rels) == 0 {
		return out
	}

	lookup := make(map[string]domain.PathNode, len(nodes))
	for _, n := range nodes {
		id := n.ID()
		if id == "" {
			continue
		}
		if _, ok := lookup[id]; !ok {
			lookup[id] = n
		}
	}

	visited := make(map[relKey]bool, len(rels))
	emitted := make(map[string]bool, len(nodes))
	current := StartNodeID(rels)

	for {
		node, ok := lookup[current]
		if !ok || emitted[current] {
			break
		}
		out = append(out, node)
		emitted[current] = true

		next, found := "", false
		for _, r := range rels {
			if r.StartNodeID != current || visited[keyOf(r)] {
				continue
			}
			visited[keyOf(r)] = true
			next, found = r.EndNodeID, true
			break
		}
		if !found {
			break
		}
		current = next
	}

	return out
}

// StartNodeID returns the id that starts some relationship but ends none,
// preferring input order. It falls back to the first relationship's start id
// and returns "" for an empty set.
func StartNodeID(rels []domain.PathRelationship) string {
	if len(rels) == 0 {
		return ""
	}
	ends := make(map[string]struct{}, len(rels))
	for _, r := range rels {
		ends[r.EndNodeID] = struct{}{}
	}
	for _, r := range rels {
		if _, ok := ends[r.StartNodeID]; !ok {
			return r.StartNodeID
		}
	}
	return rels[0].StartNodeID
}

// EdgeLabel returns the type of the first relationship from fromID to toID,
// or FallbackEdgeLabel when none matches.
func EdgeLabel(rels []domain.PathRelationship, fromID, toID string) string {
	for _, r := range rels {
		if r.StartNodeID == fromID && r.EndNodeID == toID && r.Type != "" {
			return string(r.Type)
		}
	}
	return FallbackEdgeLabel
}

// Step is one hop of an ordered path.
type Step struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Label string `json:"label" yaml:"label"`
}

// OrderedPath is a sequenced shortest path ready for display.
type OrderedPath struct {
	Nodes []domain.PathNode `json:"nodes" yaml:"nodes"`
	Steps []Step            `json:"steps" yaml:"steps"`
	// Complete is true when every input node appears in Nodes.
	Complete bool     `json:"complete" yaml:"complete"`
	Topology Topology `json:"topology" yaml:"topology"`
}

// SequencePath sequences path and pairs consecutive nodes with their
// connecting relationship label.
func SequencePath(path domain.Path) OrderedPath {
	nodes := Sequence(path.Nodes, path.Relationships)

	steps := make([]Step, 0, len(nodes))
	for i := 1; i < len(nodes); i++ {
		from, to := nodes[i-1].ID(), nodes[i].ID()
		steps = append(steps, Step{
			From:  from,
			To:    to,
			Label: EdgeLabel(path.Relationships, from, to),
		})
	}

	return OrderedPath{
		Nodes:    nodes,
		Steps:    steps,
		Complete: len(nodes) > 0 && len(nodes) == len(path.Nodes),
		Topology: Diagnose(path.Nodes, path.Relationships),
	}
}
