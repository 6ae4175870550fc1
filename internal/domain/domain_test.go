package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelationshipLabel(t *testing.T) {
	tests := []struct {
		raw   string
		kind  RelationshipKind
		count int
	}{
		{"SHARED_EMAIL", KindSharedEmail, 0},
		{" shared_phone ", KindSharedPhone, 0},
		{"SHARED_IP", KindSharedIP, 0},
		{"SHARED_DEVICE", KindSharedDevice, 0},
		{"SHARED_DEVICE (3 transactions)", KindSharedDevice, 3},
		{"SHARED_DEVICE (1 transaction)", KindSharedDevice, 1},
		{"SHARED_DEVICE(12 transactions)", KindSharedDevice, 12},
		{"SHARED_PAYMENT_METHOD", KindSharedPaymentMethod, 0},
		{"FRIEND_OF", KindOther, 0},
		{"", KindOther, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			label := ParseRelationshipLabel(tt.raw)
			assert.Equal(t, tt.kind, label.Kind)
			assert.Equal(t, tt.count, label.TransactionCount)
			assert.Equal(t, tt.raw, label.Raw)
		})
	}
}

func TestRelationshipLabel_JSONKeepsRawText(t *testing.T) {
	var rec RelationshipRecord
	err := json.Unmarshal([]byte(`{"relationshipType":"SHARED_DEVICE (4 transactions)","user":{"id":"u-1"}}`), &rec)
	require.NoError(t, err)

	assert.Equal(t, KindSharedDevice, rec.RelationshipType.Kind)
	assert.Equal(t, 4, rec.RelationshipType.TransactionCount)

	out, err := json.Marshal(rec.RelationshipType)
	require.NoError(t, err)
	assert.JSONEq(t, `"SHARED_DEVICE (4 transactions)"`, string(out))
}

func TestUserRelationshipResponses_NormalizesShapes(t *testing.T) {
	single := `{"status":"success","data":{"directRelationships":[{"relationshipType":"SHARED_EMAIL","user":{"id":"u-2"}}]}}`

	var fromObject UserRelationshipResponses
	require.NoError(t, json.Unmarshal([]byte(single), &fromObject))
	require.Len(t, fromObject, 1)
	require.NotNil(t, fromObject[0].Data)
	assert.Equal(t, "u-2", fromObject[0].Data.DirectRelationships[0].User.ID)

	var fromArray UserRelationshipResponses
	require.NoError(t, json.Unmarshal([]byte("["+single+","+`{"status":"success"}`+"]"), &fromArray))
	require.Len(t, fromArray, 2)
	assert.Equal(t, fromObject[0], fromArray[0])
	assert.Nil(t, fromArray[1].Data)

	var fromNull UserRelationshipResponses
	require.NoError(t, json.Unmarshal([]byte("null"), &fromNull))
	assert.Empty(t, fromNull)

	var bad UserRelationshipResponses
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &bad))
}

func TestPathNode_DecodesByType(t *testing.T) {
	payload := `{
		"nodes": [
			{"type": "User", "properties": {"id": "u-1", "firstName": "Ada"}},
			{"type": "Transaction", "properties": {"id": "t-1", "amount": 12.5, "currency": "USD"}},
			{"type": "User"}
		],
		"relationships": [{"type": "SENT", "startNodeId": "u-1", "endNodeId": "t-1"}]
	}`

	var path Path
	require.NoError(t, json.Unmarshal([]byte(payload), &path))
	require.Len(t, path.Nodes, 3)

	assert.Equal(t, PathNodeUser, path.Nodes[0].Type)
	assert.Equal(t, "u-1", path.Nodes[0].ID())
	assert.Equal(t, "Ada", path.Nodes[0].User.FirstName)

	assert.Equal(t, PathNodeTransaction, path.Nodes[1].Type)
	assert.Equal(t, "t-1", path.Nodes[1].ID())
	assert.InDelta(t, 12.5, path.Nodes[1].Transaction.Amount, 0.0001)

	assert.Equal(t, "", path.Nodes[2].ID())
	assert.Equal(t, RelSent, path.Relationships[0].Type)

	out, err := json.Marshal(path.Nodes[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"properties":{"id":"u-1"`)
}
