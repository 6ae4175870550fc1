package relgraph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
)

// pair identifies a (source, target) node pair.
type pair struct {
	source string
	target string
}

// builder accumulates nodes and edges for a single build call. It is never
// shared between calls.
type builder struct {
	nodes     []GraphNode
	nodeIndex map[string]int

	edges     []GraphEdge
	edgeIndex map[string]struct{}
	// edgeKinds remembers the relationship kind an edge was derived from so the
	// attribute merge pass can branch on structured kinds.
	edgeKinds map[string]domain.RelationshipKind

	placeholders map[string]int

	// labels accumulates relationship labels per (center, user) pair in first-seen order.
	labels    map[pair][]domain.RelationshipLabel
	pairOrder []pair
}

func newBuilder() *builder {
	return &builder{
		nodes:        []GraphNode{},
		nodeIndex:    make(map[string]int),
		edges:        []GraphEdge{},
		edgeIndex:    make(map[string]struct{}),
		edgeKinds:    make(map[string]domain.RelationshipKind),
		placeholders: make(map[string]int),
		labels:       make(map[pair][]domain.RelationshipLabel),
	}
}

// entityID returns id when present, otherwise the next placeholder for the
// category ("direct-user-0", "direct-user-1", ...).
func (b *builder) entityID(id, category string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	n := b.placeholders[category]
	b.placeholders[category] = n + 1
	return category + "-" + strconv.Itoa(n)
}

// addNode emits a node unless one with the same id exists; first seen wins.
func (b *builder) addNode(id, label string, typ NodeType) {
	if _, ok := b.nodeIndex[id]; ok {
		return
	}
	b.nodeIndex[id] = len(b.nodes)
	b.nodes = append(b.nodes, GraphNode{ID: id, Label: label, Type: typ, Concentricity: 1})
	if typ == NodeCenter {
		b.nodes[len(b.nodes)-1].Concentricity = 0
	}
}

// addEdge emits an edge unless one with the same id exists.
func (b *builder) addEdge(e GraphEdge, kind domain.RelationshipKind) bool {
	if _, ok := b.edgeIndex[e.ID]; ok {
		return false
	}
	b.edgeIndex[e.ID] = struct{}{}
	b.edges = append(b.edges, e)
	b.edgeKinds[e.ID] = kind
	return true
}

// recordLabel adds label to the (center, user) label set if not already present.
func (b *builder) recordLabel(center, user string, label domain.RelationshipLabel) {
	key := pair{source: center, target: user}
	existing, seen := b.labels[key]
	if !seen {
		b.pairOrder = append(b.pairOrder, key)
	}
	for _, l := range existing {
		if l.Raw == label.Raw {
			return
		}
	}
	b.labels[key] = append(existing, label)
}

func (b *builder) graph(edges []GraphEdge) Graph {
	g := Graph{Nodes: b.nodes, Edges: edges}
	assignConcentricity(&g)
	return g
}

func edgeID(source, target, discriminator string) string {
	return source + "|" + target + "|" + discriminator
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// userLabel picks the first non-empty of first name and email, falling back
// to a shortened id.
func userLabel(u domain.User, id string) string {
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	return "User " + shortID(id)
}

func transactionLabel(id string) string {
	return "Transaction " + shortID(id)
}

func formatAmount(amount float64, currency string) string {
	value := strconv.FormatFloat(amount, 'f', -1, 64)
	if currency = strings.TrimSpace(currency); currency == "" {
		return value
	}
	return fmt.Sprintf("%s %s", value, currency)
}

func relationshipText(label domain.RelationshipLabel) string {
	if label.Raw != "" {
		return label.Raw
	}
	if label.Kind != "" && label.Kind != domain.KindOther {
		return string(label.Kind)
	}
	return "RELATED"
}
