package pathseq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
)

func u(id string) domain.PathNode {
	return domain.UserNode(domain.User{ID: id})
}

func tx(id string) domain.PathNode {
	return domain.TransactionNode(domain.Transaction{ID: id})
}

func rel(from, to string, typ domain.PathRelationshipType) domain.PathRelationship {
	return domain.PathRelationship{Type: typ, StartNodeID: from, EndNodeID: to}
}

func ids(nodes []domain.PathNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID())
	}
	return out
}

func TestSequenceOrdersSimplePath(t *testing.T) {
	nodes := []domain.PathNode{tx("B"), u("C"), u("A")}
	rels := []domain.PathRelationship{
		rel("B", "C", domain.RelReceivedBy),
		rel("A", "B", domain.RelSent),
	}

	got := Sequence(nodes, rels)
	assert.Equal(t, []string{"A", "B", "C"}, ids(got))
	assert.Equal(t, domain.PathNodeTransaction, got[1].Type)

	// repeated calls agree
	assert.Equal(t, got, Sequence(nodes, rels))
}

func TestSequenceEmptyInput(t *testing.T) {
	got := Sequence(nil, nil)
	require.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, Sequence([]domain.PathNode{u("A")}, nil))
	assert.Empty(t, Sequence(nil, []domain.PathRelationship{rel("A", "B", domain.RelSent)}))
}

func TestSequenceDisconnectedStopsAtReachableChain(t *testing.T) {
	nodes := []domain.PathNode{u("A"), u("B"), u("C"), u("D")}
	rels := []domain.PathRelationship{
		rel("A", "B", domain.RelSent),
		rel("C", "D", domain.RelSent),
	}

	assert.Equal(t, []string{"A", "B"}, ids(Sequence(nodes, rels)))
}

func TestSequenceCycleFallsBackToFirstRelationship(t *testing.T) {
	nodes := []domain.PathNode{u("A"), u("B"), u("C")}
	rels := []domain.PathRelationship{
		rel("B", "C", domain.RelSent),
		rel("C", "A", domain.RelSent),
		rel("A", "B", domain.RelSent),
	}

	assert.Equal(t, "B", StartNodeID(rels))
	assert.Equal(t, []string{"B", "C", "A"}, ids(Sequence(nodes, rels)))
}

func TestSequenceStopsAtUnknownNode(t *testing.T) {
	nodes := []domain.PathNode{u("A"), tx("B")}
	rels := []domain.PathRelationship{
		rel("A", "B", domain.RelSent),
		rel("B", "Z", domain.RelReceivedBy),
	}

	assert.Equal(t, []string{"A", "B"}, ids(Sequence(nodes, rels)))
}

func TestSequenceBranchingTakesFirstRelationship(t *testing.T) {
	nodes := []domain.PathNode{u("A"), tx("B"), tx("C")}
	rels := []domain.PathRelationship{
		rel("A", "B", domain.RelSent),
		rel("A", "C", domain.RelSent),
	}

	assert.Equal(t, []string{"A", "B"}, ids(Sequence(nodes, rels)))
}

func TestSequenceParallelRelationshipsUsedOnce(t *testing.T) {
	nodes := []domain.PathNode{u("A"), tx("B")}
	rels := []domain.PathRelationship{
		rel("A", "B", domain.RelSent),
		rel("A", "B", domain.RelSent),
		rel("B", "A", domain.RelReceivedBy),
	}

	assert.Equal(t, []string{"A", "B"}, ids(Sequence(nodes, rels)))
}

func TestEdgeLabel(t *testing.T) {
	rels := []domain.PathRelationship{
		rel("A", "B", domain.RelSent),
		rel("B", "C", domain.RelReceivedBy),
	}

	assert.Equal(t, "SENT", EdgeLabel(rels, "A", "B"))
	assert.Equal(t, "RECEIVED_BY", EdgeLabel(rels, "B", "C"))
	assert.Equal(t, FallbackEdgeLabel, EdgeLabel(rels, "C", "B"))
	assert.Equal(t, FallbackEdgeLabel, EdgeLabel(nil, "A", "B"))
}

func TestSequencePath(t *testing.T) {
	path := domain.Path{
		Nodes: []domain.PathNode{u("A"), tx("T"), u("C")},
		Relationships: []domain.PathRelationship{
			rel("T", "C", domain.RelReceivedBy),
			rel("A", "T", domain.RelSent),
		},
	}

	got := SequencePath(path)
	assert.Equal(t, []string{"A", "T", "C"}, ids(got.Nodes))
	assert.Equal(t, []Step{
		{From: "A", To: "T", Label: "SENT"},
		{From: "T", To: "C", Label: "RECEIVED_BY"},
	}, got.Steps)
	assert.True(t, got.Complete)
	assert.True(t, got.Topology.Simple)
}

func TestSequencePathIncomplete(t *testing.T) {
	got := SequencePath(domain.Path{
		Nodes: []domain.PathNode{u("A"), u("B"), u("C"), u("D")},
		Relationships: []domain.PathRelationship{
			rel("A", "B", domain.RelSent),
			rel("C", "D", domain.RelSent),
		},
	})

	assert.False(t, got.Complete)
	assert.Len(t, got.Steps, 1)
	assert.False(t, got.Topology.Simple)
	assert.Equal(t, 2, got.Topology.Components)
}

func TestSequencePathEmpty(t *testing.T) {
	got := SequencePath(domain.Path{})
	assert.Empty(t, got.Nodes)
	assert.Empty(t, got.Steps)
	assert.False(t, got.Complete)
}
