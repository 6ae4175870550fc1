package relgraph

import (
	"github.com/Harsh2563/flagright-relgraph/internal/domain"
)

// BuildTransactionRelationshipGraph assembles the graph around a transaction:
// sender and receiver users joined by flow edges, plus transactions that share
// a device or IP address with the center.
func BuildTransactionRelationshipGraph(resp domain.TransactionRelationshipResponse, centerTransactionID string) Graph {
	b := newBuilder()
	if resp.Data == nil {
		return b.graph(b.edges)
	}

	center := centerTransactionID
	if center == "" {
		center = CenterPlaceholderPrefix + "0"
	}
	b.addNode(center, transactionLabel(center), NodeCenter)

	if s := resp.Data.Sender; s != nil {
		id := b.entityID(s.ID, "sender")
		b.addNode(id, userLabel(*s, id), NodeUser)
		b.addEdge(GraphEdge{
			ID:     edgeID(id, center, "flow:sender"),
			Source: id,
			Target: center,
			Label:  string(domain.RelSent),
			Type:   EdgeFlow,
		}, domain.KindOther)
	}

	if r := resp.Data.Receiver; r != nil {
		id := b.entityID(r.ID, "receiver")
		b.addNode(id, userLabel(*r, id), NodeUser)
		b.addEdge(GraphEdge{
			ID:     edgeID(center, id, "flow:receiver"),
			Source: center,
			Target: id,
			Label:  string(domain.RelReceivedBy),
			Type:   EdgeFlow,
		}, domain.KindOther)
	}

	for _, rec := range resp.Data.SharedDeviceTransactions {
		b.addLinkedTransaction(center, rec, EdgeSharedDevice, "shared-device-transaction")
	}
	for _, rec := range resp.Data.SharedIPTransactions {
		b.addLinkedTransaction(center, rec, EdgeSharedIP, "shared-ip-transaction")
	}

	return b.graph(b.edges)
}

func (b *builder) addLinkedTransaction(center string, rec domain.TransactionLinkRecord, typ EdgeType, category string) {
	id := b.entityID(rec.Transaction.ID, category)
	b.addNode(id, transactionLabel(id), NodeTransaction)

	text := relationshipText(rec.RelationshipType)
	if text == "RELATED" {
		if typ == EdgeSharedDevice {
			text = string(domain.KindSharedDevice)
		} else {
			text = string(domain.KindSharedIP)
		}
	}

	b.addEdge(GraphEdge{
		ID:               edgeID(center, id, string(typ)),
		Source:           center,
		Target:           id,
		Label:            text,
		Type:             typ,
		TransactionCount: rec.RelationshipType.TransactionCount,
	}, rec.RelationshipType.Kind)
}
