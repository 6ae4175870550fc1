package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// RelationshipRecord links the center entity to a related user through a
// direct or transaction-mediated relationship.
type RelationshipRecord struct {
	RelationshipType RelationshipLabel `json:"relationshipType" yaml:"relationshipType"`
	User             User              `json:"user" yaml:"user"`
}

// TransactionFlowRecord is a transaction sent or received by the center user
// together with the counterpart user.
type TransactionFlowRecord struct {
	Transaction Transaction `json:"transaction" yaml:"transaction"`
	RelatedUser User        `json:"relatedUser" yaml:"relatedUser"`
}

// TransactionLinkRecord links the center transaction to another transaction
// through shared metadata (device, IP).
type TransactionLinkRecord struct {
	RelationshipType RelationshipLabel `json:"relationshipType" yaml:"relationshipType"`
	Transaction      Transaction       `json:"transaction" yaml:"transaction"`
}

// UserRelationshipData is the payload of a user relationship query.
type UserRelationshipData struct {
	DirectRelationships      []RelationshipRecord    `json:"directRelationships" yaml:"directRelationships"`
	TransactionRelationships []RelationshipRecord    `json:"transactionRelationships" yaml:"transactionRelationships"`
	SentTransactions         []TransactionFlowRecord `json:"sentTransactions" yaml:"sentTransactions"`
	ReceivedTransactions     []TransactionFlowRecord `json:"receivedTransactions" yaml:"receivedTransactions"`
}

// UserRelationshipResponse is the envelope returned for a user relationship query.
// A nil Data means the anchor had no relationship payload.
type UserRelationshipResponse struct {
	Status string                `json:"status" yaml:"status"`
	Data   *UserRelationshipData `json:"data,omitempty" yaml:"data,omitempty"`
}

// UserRelationshipResponses normalizes the "single object or list" shape of the
// user relationship endpoint into a list.
type UserRelationshipResponses []UserRelationshipResponse

var errUnexpectedShape = errors.New("expected JSON object or array")

func (r *UserRelationshipResponses) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = UserRelationshipResponses{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		var list []UserRelationshipResponse
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		*r = list
	case '{':
		var single UserRelationshipResponse
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*r = UserRelationshipResponses{single}
	default:
		return errUnexpectedShape
	}
	return nil
}

// TransactionRelationshipData is the payload of a transaction relationship query.
type TransactionRelationshipData struct {
	Sender                   *User                   `json:"sender,omitempty" yaml:"sender,omitempty"`
	Receiver                 *User                   `json:"receiver,omitempty" yaml:"receiver,omitempty"`
	SharedDeviceTransactions []TransactionLinkRecord `json:"sharedDeviceTransactions" yaml:"sharedDeviceTransactions"`
	SharedIPTransactions     []TransactionLinkRecord `json:"sharedIPTransactions" yaml:"sharedIPTransactions"`
}

// TransactionRelationshipResponse is the envelope returned for a transaction relationship query.
type TransactionRelationshipResponse struct {
	Status string                       `json:"status" yaml:"status"`
	Data   *TransactionRelationshipData `json:"data,omitempty" yaml:"data,omitempty"`
}
