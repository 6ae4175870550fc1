package domain

import (
	"encoding/json"
	"fmt"
)

// PathNodeType discriminates the entity carried by a PathNode.
type PathNodeType string

const (
	PathNodeUser        PathNodeType = "User"
	PathNodeTransaction PathNodeType = "Transaction"
)

// PathRelationshipType is the type of a relationship on a shortest path.
type PathRelationshipType string

const (
	RelSent       PathRelationshipType = "SENT"
	RelReceivedBy PathRelationshipType = "RECEIVED_BY"
)

// PathNode is a node of a shortest-path result. Exactly one of User or
// Transaction is set, matching Type.
type PathNode struct {
	Type        PathNodeType
	User        *User
	Transaction *Transaction
}

// UserNode wraps a user as a path node.
func UserNode(u User) PathNode {
	return PathNode{Type: PathNodeUser, User: &u}
}

// TransactionNode wraps a transaction as a path node.
func TransactionNode(tx Transaction) PathNode {
	return PathNode{Type: PathNodeTransaction, Transaction: &tx}
}

// ID returns the id of the underlying entity, or "" when it has none.
func (n PathNode) ID() string {
	switch {
	case n.User != nil:
		return n.User.ID
	case n.Transaction != nil:
		return n.Transaction.ID
	default:
		return ""
	}
}

type pathNodeWire struct {
	Type       PathNodeType    `json:"type"`
	Properties json.RawMessage `json:"properties"`
}

func (n *PathNode) UnmarshalJSON(data []byte) error {
	var wire pathNodeWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*n = PathNode{Type: wire.Type}
	if len(wire.Properties) == 0 {
		return nil
	}

	switch wire.Type {
	case PathNodeUser:
		var u User
		if err := json.Unmarshal(wire.Properties, &u); err != nil {
			return fmt.Errorf("decode user path node: %w", err)
		}
		n.User = &u
	case PathNodeTransaction:
		var tx Transaction
		if err := json.Unmarshal(wire.Properties, &tx); err != nil {
			return fmt.Errorf("decode transaction path node: %w", err)
		}
		n.Transaction = &tx
	}
	return nil
}

func (n PathNode) MarshalJSON() ([]byte, error) {
	var props any
	switch {
	case n.User != nil:
		props = n.User
	case n.Transaction != nil:
		props = n.Transaction
	}
	return json.Marshal(struct {
		Type       PathNodeType `json:"type"`
		Properties any          `json:"properties"`
	}{n.Type, props})
}

func (n PathNode) MarshalYAML() (any, error) {
	out := map[string]any{"type": string(n.Type)}
	switch {
	case n.User != nil:
		out["properties"] = n.User
	case n.Transaction != nil:
		out["properties"] = n.Transaction
	}
	return out, nil
}

// PathRelationship is an unordered directed relationship of a shortest path.
type PathRelationship struct {
	Type        PathRelationshipType `json:"type" yaml:"type"`
	StartNodeID string               `json:"startNodeId" yaml:"startNodeId"`
	EndNodeID   string               `json:"endNodeId" yaml:"endNodeId"`
}

// Path is the unordered node and relationship sets of a shortest path.
type Path struct {
	Nodes         []PathNode         `json:"nodes" yaml:"nodes"`
	Relationships []PathRelationship `json:"relationships" yaml:"relationships"`
}

// ShortestPathData is the payload of a shortest-path query.
type ShortestPathData struct {
	Path   Path `json:"path" yaml:"path"`
	Length int  `json:"length" yaml:"length"`
}

// ShortestPathResponse is the envelope returned for a shortest-path query.
type ShortestPathResponse struct {
	Status string            `json:"status" yaml:"status"`
	Data   *ShortestPathData `json:"data,omitempty" yaml:"data,omitempty"`
}
