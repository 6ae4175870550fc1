package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
	"github.com/Harsh2563/flagright-relgraph/internal/graph"
)

// Repository answers relationship queries straight from the graph database,
// producing the same envelopes as the relationship query API.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// UserRelationships returns the relationship envelope for a single user.
func (r *Repository) UserRelationships(ctx context.Context, userID string) (domain.UserRelationshipResponse, error) {
	if userID == "" {
		return domain.UserRelationshipResponse{}, errors.New("user id is required")
	}

	params := map[string]any{"userId": userID}
	if err := r.requireExists(ctx, userExistsCypher, params, "user "+userID); err != nil {
		return domain.UserRelationshipResponse{}, err
	}

	data := domain.UserRelationshipData{
		DirectRelationships:      []domain.RelationshipRecord{},
		TransactionRelationships: []domain.RelationshipRecord{},
		SentTransactions:         []domain.TransactionFlowRecord{},
		ReceivedTransactions:     []domain.TransactionFlowRecord{},
	}

	var err error
	if data.DirectRelationships, err = r.relationshipRecords(ctx, userDirectRelationshipsCypher, params); err != nil {
		return domain.UserRelationshipResponse{}, fmt.Errorf("fetch direct relationships: %w", err)
	}
	if data.TransactionRelationships, err = r.relationshipRecords(ctx, userTransactionRelationshipsCypher, params); err != nil {
		return domain.UserRelationshipResponse{}, fmt.Errorf("fetch transaction relationships: %w", err)
	}
	if data.SentTransactions, err = r.flowRecords(ctx, userSentTransactionsCypher, params); err != nil {
		return domain.UserRelationshipResponse{}, fmt.Errorf("fetch sent transactions: %w", err)
	}
	if data.ReceivedTransactions, err = r.flowRecords(ctx, userReceivedTransactionsCypher, params); err != nil {
		return domain.UserRelationshipResponse{}, fmt.Errorf("fetch received transactions: %w", err)
	}

	return domain.UserRelationshipResponse{Status: "success", Data: &data}, nil
}

// TransactionRelationships returns the sender, receiver and linked
// transactions of a transaction.
func (r *Repository) TransactionRelationships(ctx context.Context, txID string) (domain.TransactionRelationshipResponse, error) {
	if txID == "" {
		return domain.TransactionRelationshipResponse{}, errors.New("transaction id is required")
	}

	params := map[string]any{"transactionId": txID}
	res, err := r.client.ExecuteRead(ctx, transactionPartiesCypher, params)
	if err != nil {
		return domain.TransactionRelationshipResponse{}, fmt.Errorf("fetch transaction parties: %w", err)
	}
	record := res.First()
	if record == nil {
		return domain.TransactionRelationshipResponse{}, fmt.Errorf("transaction %s: %w", txID, domain.ErrNotFound)
	}

	data := domain.TransactionRelationshipData{
		SharedDeviceTransactions: []domain.TransactionLinkRecord{},
		SharedIPTransactions:     []domain.TransactionLinkRecord{},
	}
	if props := record.Map("sender"); props != nil {
		u := userFromProps(props)
		data.Sender = &u
	}
	if props := record.Map("receiver"); props != nil {
		u := userFromProps(props)
		data.Receiver = &u
	}

	links, err := r.client.ExecuteRead(ctx, transactionLinksCypher, params)
	if err != nil {
		return domain.TransactionRelationshipResponse{}, fmt.Errorf("fetch linked transactions: %w", err)
	}
	for _, rec := range links.Records {
		link := domain.TransactionLinkRecord{
			RelationshipType: domain.ParseRelationshipLabel(toString(rec["relationshipType"])),
			Transaction:      transactionFromProps(rec.Map("transaction")),
		}
		switch link.RelationshipType.Kind {
		case domain.KindSharedDevice:
			data.SharedDeviceTransactions = append(data.SharedDeviceTransactions, link)
		case domain.KindSharedIP:
			data.SharedIPTransactions = append(data.SharedIPTransactions, link)
		}
	}

	return domain.TransactionRelationshipResponse{Status: "success", Data: &data}, nil
}

// ShortestPath finds the shortest SENT/RECEIVED_BY path between two users.
// The returned node and relationship lists are in database order, not path
// order.
func (r *Repository) ShortestPath(ctx context.Context, sourceUserID, targetUserID string) (domain.ShortestPathResponse, error) {
	if sourceUserID == "" || targetUserID == "" {
		return domain.ShortestPathResponse{}, errors.New("source and target user IDs are required")
	}

	params := map[string]any{"sourceUserId": sourceUserID, "targetUserId": targetUserID}

	if sourceUserID == targetUserID {
		res, err := r.client.ExecuteRead(ctx, userPropertiesCypher, map[string]any{"userId": sourceUserID})
		if err != nil {
			return domain.ShortestPathResponse{}, fmt.Errorf("fetch user: %w", err)
		}
		record := res.First()
		if record == nil {
			return domain.ShortestPathResponse{}, fmt.Errorf("user %s: %w", sourceUserID, domain.ErrNotFound)
		}
		return domain.ShortestPathResponse{Status: "success", Data: &domain.ShortestPathData{
			Path: domain.Path{
				Nodes:         []domain.PathNode{domain.UserNode(userFromProps(record.Map("user")))},
				Relationships: []domain.PathRelationship{},
			},
		}}, nil
	}

	res, err := r.client.ExecuteRead(ctx, shortestPathCypher, params)
	if err != nil {
		return domain.ShortestPathResponse{}, fmt.Errorf("shortest path query: %w", err)
	}
	record := res.First()
	if record == nil {
		return domain.ShortestPathResponse{}, fmt.Errorf("path %s -> %s: %w", sourceUserID, targetUserID, domain.ErrNotFound)
	}

	path := domain.Path{Nodes: []domain.PathNode{}, Relationships: []domain.PathRelationship{}}
	for _, raw := range record.List("nodes") {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		props, _ := node["properties"].(map[string]any)
		switch domain.PathNodeType(toString(node["type"])) {
		case domain.PathNodeUser:
			path.Nodes = append(path.Nodes, domain.UserNode(userFromProps(props)))
		case domain.PathNodeTransaction:
			path.Nodes = append(path.Nodes, domain.TransactionNode(transactionFromProps(props)))
		}
	}
	for _, raw := range record.List("relationships") {
		rel, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		path.Relationships = append(path.Relationships, domain.PathRelationship{
			Type:        domain.PathRelationshipType(toString(rel["type"])),
			StartNodeID: toString(rel["startNodeId"]),
			EndNodeID:   toString(rel["endNodeId"]),
		})
	}

	return domain.ShortestPathResponse{Status: "success", Data: &domain.ShortestPathData{
		Path:   path,
		Length: toInt(record["length"]),
	}}, nil
}

// Ping verifies the graph connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.VerifyConnectivity(ctx)
}

func (r *Repository) requireExists(ctx context.Context, cypher string, params map[string]any, what string) error {
	res, err := r.client.ExecuteRead(ctx, cypher, params)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", what, err)
	}
	if res.First() == nil {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

func (r *Repository) relationshipRecords(ctx context.Context, cypher string, params map[string]any) ([]domain.RelationshipRecord, error) {
	res, err := r.client.ExecuteRead(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RelationshipRecord, 0, len(res.Records))
	for _, rec := range res.Records {
		out = append(out, domain.RelationshipRecord{
			RelationshipType: domain.ParseRelationshipLabel(toString(rec["relationshipType"])),
			User:             userFromProps(rec.Map("user")),
		})
	}
	return out, nil
}

func (r *Repository) flowRecords(ctx context.Context, cypher string, params map[string]any) ([]domain.TransactionFlowRecord, error) {
	res, err := r.client.ExecuteRead(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TransactionFlowRecord, 0, len(res.Records))
	for _, rec := range res.Records {
		out = append(out, domain.TransactionFlowRecord{
			Transaction: transactionFromProps(rec.Map("transaction")),
			RelatedUser: userFromProps(rec.Map("relatedUser")),
		})
	}
	return out, nil
}

// maxPathHops bounds the shortest path search. Cypher does not accept a
// parameter as a variable-length bound.
const maxPathHops = 12

const userExistsCypher = `
MATCH (u:User {id: $userId})
RETURN u.id AS id
`

const userPropertiesCypher = `
MATCH (u:User {id: $userId})
RETURN properties(u) AS user
`

const userDirectRelationshipsCypher = `
MATCH (u:User {id: $userId})-[r:SHARED_EMAIL|SHARED_PHONE|SHARED_ADDRESS|SHARED_PAYMENT_METHOD]-(other:User)
WHERE other.id <> u.id
RETURN DISTINCT type(r) AS relationshipType, properties(other) AS user
ORDER BY user.id, relationshipType
`

const userTransactionRelationshipsCypher = `
MATCH (u:User {id: $userId})-[:SENT|RECEIVED_BY]-(t:Transaction)-[r:SHARED_DEVICE|SHARED_IP]-(linked:Transaction)-[:SENT|RECEIVED_BY]-(other:User)
WHERE other.id <> u.id
WITH other, type(r) AS linkType, count(DISTINCT linked) AS transactions
RETURN CASE linkType
         WHEN "SHARED_DEVICE" THEN "SHARED_DEVICE (" + toString(transactions) + " transactions)"
         ELSE linkType
       END AS relationshipType,
       properties(other) AS user
ORDER BY user.id, relationshipType
`

const userSentTransactionsCypher = `
MATCH (u:User {id: $userId})-[:SENT]->(t:Transaction)-[:RECEIVED_BY]->(other:User)
RETURN properties(t) AS transaction, properties(other) AS relatedUser
ORDER BY t.timestamp, t.id
`

const userReceivedTransactionsCypher = `
MATCH (other:User)-[:SENT]->(t:Transaction)-[:RECEIVED_BY]->(u:User {id: $userId})
RETURN properties(t) AS transaction, properties(other) AS relatedUser
ORDER BY t.timestamp, t.id
`

const transactionPartiesCypher = `
MATCH (t:Transaction {id: $transactionId})
OPTIONAL MATCH (sender:User)-[:SENT]->(t)
OPTIONAL MATCH (t)-[:RECEIVED_BY]->(receiver:User)
RETURN properties(t) AS transaction,
       CASE WHEN sender IS NULL THEN null ELSE properties(sender) END AS sender,
       CASE WHEN receiver IS NULL THEN null ELSE properties(receiver) END AS receiver
LIMIT 1
`

const transactionLinksCypher = `
MATCH (t:Transaction {id: $transactionId})-[r:SHARED_DEVICE|SHARED_IP]-(other:Transaction)
WHERE other.id <> t.id
RETURN DISTINCT type(r) AS relationshipType, properties(other) AS transaction
ORDER BY relationshipType, transaction.id
`

var shortestPathCypher = fmt.Sprintf(`
MATCH (source:User {id: $sourceUserId}), (target:User {id: $targetUserId})
MATCH p = shortestPath((source)-[:SENT|RECEIVED_BY*..%d]-(target))
RETURN [n IN nodes(p) | {type: head(labels(n)), properties: properties(n)}] AS nodes,
       [r IN relationships(p) | {type: type(r), startNodeId: startNode(r).id, endNodeId: endNode(r).id}] AS relationships,
       length(p) AS length
`, maxPathHops)
