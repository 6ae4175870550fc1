package relgraph

import (
	"github.com/Harsh2563/flagright-relgraph/internal/domain"
)

// SharedEmailAndPhoneLabel labels the edge that replaces separate SHARED_EMAIL
// and SHARED_PHONE edges between the same center and user.
const SharedEmailAndPhoneLabel = "SHARED_EMAIL & PHONE"

// mergeAttributeEdges runs after all edges are built and returns a new edge
// slice; b.edges is not modified.
//
// Pairs whose label set has both SHARED_EMAIL and SHARED_PHONE get their
// email/phone edges replaced by one combined edge at the position of the first
// replaced edge. Pairs with a counted SHARED_DEVICE label get an additional
// reinforced transaction edge carrying the highest count.
func mergeAttributeEdges(b *builder) []GraphEdge {
	combine := make(map[pair]bool)
	deviceLabels := make(map[pair]domain.RelationshipLabel)

	for _, key := range b.pairOrder {
		var email, phone bool
		for _, l := range b.labels[key] {
			switch l.Kind {
			case domain.KindSharedEmail:
				email = true
			case domain.KindSharedPhone:
				phone = true
			case domain.KindSharedDevice:
				if l.TransactionCount > deviceLabels[key].TransactionCount {
					deviceLabels[key] = l
				}
			}
		}
		if email && phone {
			combine[key] = true
		}
	}

	out := make([]GraphEdge, 0, len(b.edges)+len(deviceLabels))
	emitted := make(map[pair]bool)
	for _, e := range b.edges {
		key := pair{source: e.Source, target: e.Target}
		kind := b.edgeKinds[e.ID]
		if combine[key] && (kind == domain.KindSharedEmail || kind == domain.KindSharedPhone) {
			if !emitted[key] {
				emitted[key] = true
				out = append(out, GraphEdge{
					ID:     edgeID(key.source, key.target, "shared-email-phone"),
					Source: key.source,
					Target: key.target,
					Label:  SharedEmailAndPhoneLabel,
					Type:   EdgeDirect,
				})
			}
			continue
		}
		out = append(out, e)
	}

	for _, key := range b.pairOrder {
		label, ok := deviceLabels[key]
		if !ok {
			continue
		}
		out = append(out, GraphEdge{
			ID:               edgeID(key.source, key.target, "shared-device-reinforced"),
			Source:           key.source,
			Target:           key.target,
			Label:            relationshipText(label),
			Type:             EdgeTransaction,
			TransactionCount: label.TransactionCount,
		})
	}

	return out
}
