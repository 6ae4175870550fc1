package relgraph

import (
	"strconv"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
)

// CenterPlaceholderPrefix prefixes the synthetic center id used when no center
// user id is supplied. One placeholder center is created per response.
const CenterPlaceholderPrefix = "center-"

// BuildUserRelationshipGraph assembles the graph for one or more user
// relationship responses around centerUserID.
//
// Responses without a data payload are skipped. When centerUserID is empty a
// placeholder center ("center-<index>") is synthesized per response.
func BuildUserRelationshipGraph(responses []domain.UserRelationshipResponse, centerUserID string) Graph {
	b := newBuilder()

	for i, resp := range responses {
		if resp.Data == nil {
			continue
		}

		center := centerUserID
		if center == "" {
			center = CenterPlaceholderPrefix + strconv.Itoa(i)
		}
		b.addNode(center, "User "+shortID(center), NodeCenter)

		for _, rec := range resp.Data.DirectRelationships {
			b.addRelationship(center, rec, EdgeDirect, "direct-user")
		}
		for _, rec := range resp.Data.TransactionRelationships {
			b.addRelationship(center, rec, EdgeTransaction, "transaction-user")
		}
		for _, rec := range resp.Data.SentTransactions {
			b.addFlow(center, rec, EdgeSent, "sent")
		}
		for _, rec := range resp.Data.ReceivedTransactions {
			b.addFlow(center, rec, EdgeReceived, "received")
		}
	}

	return b.graph(mergeAttributeEdges(b))
}

func (b *builder) addRelationship(center string, rec domain.RelationshipRecord, typ EdgeType, category string) {
	userID := b.entityID(rec.User.ID, category)
	b.addNode(userID, userLabel(rec.User, userID), NodeUser)

	label := rec.RelationshipType
	b.recordLabel(center, userID, label)

	text := relationshipText(label)
	b.addEdge(GraphEdge{
		ID:               edgeID(center, userID, string(typ)+":"+text),
		Source:           center,
		Target:           userID,
		Label:            text,
		Type:             typ,
		TransactionCount: label.TransactionCount,
	}, label.Kind)
}

func (b *builder) addFlow(center string, rec domain.TransactionFlowRecord, typ EdgeType, category string) {
	userID := b.entityID(rec.RelatedUser.ID, category+"-user")
	b.addNode(userID, userLabel(rec.RelatedUser, userID), NodeUser)

	txID := b.entityID(rec.Transaction.ID, category+"-transaction")
	amount := formatAmount(rec.Transaction.Amount, rec.Transaction.Currency)

	edge := GraphEdge{Type: typ}
	if typ == EdgeSent {
		edge.Source, edge.Target = center, userID
		edge.Label = "Sent " + amount
	} else {
		edge.Source, edge.Target = userID, center
		edge.Label = "Received " + amount
	}
	edge.ID = edgeID(edge.Source, edge.Target, string(typ)+":"+txID)
	b.addEdge(edge, domain.KindOther)
}
