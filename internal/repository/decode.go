package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Harsh2563/flagright-relgraph/internal/domain"
)

// Nested values (address, payment methods, device info) are stored as JSON
// strings on the node because Neo4j properties cannot hold maps.

func userFromProps(props map[string]any) domain.User {
	if props == nil {
		return domain.User{}
	}
	u := domain.User{
		ID:        toString(props["id"]),
		FirstName: toString(props["firstName"]),
		LastName:  toString(props["lastName"]),
		Email:     toString(props["email"]),
		Phone:     toString(props["phone"]),
		CreatedAt: toTimestamp(props["createdAt"]),
	}

	var addr domain.Address
	if decodeJSONProp(props["address"], &addr) {
		u.Address = &addr
	}
	var methods []domain.PaymentMethod
	if decodeJSONProp(props["paymentMethods"], &methods) {
		u.PaymentMethods = methods
	}
	return u
}

func transactionFromProps(props map[string]any) domain.Transaction {
	if props == nil {
		return domain.Transaction{}
	}
	tx := domain.Transaction{
		ID:                  toString(props["id"]),
		TransactionType:     toString(props["transactionType"]),
		Status:              toString(props["status"]),
		SenderID:            toString(props["senderId"]),
		ReceiverID:          toString(props["receiverId"]),
		Amount:              toFloat64(props["amount"]),
		Currency:            toString(props["currency"]),
		DestinationCurrency: toString(props["destinationCurrency"]),
		Timestamp:           toTimestamp(props["timestamp"]),
		Description:         toString(props["description"]),
		DeviceID:            toString(props["deviceId"]),
		PaymentMethod:       toString(props["paymentMethod"]),
	}
	if v, ok := props["destinationAmount"]; ok && v != nil {
		amount := toFloat64(v)
		tx.DestinationAmount = &amount
	}
	var info domain.DeviceInfo
	if decodeJSONProp(props["deviceInfo"], &info) {
		tx.DeviceInfo = &info
	}
	return tx
}

// decodeJSONProp decodes a JSON string property into dst and reports whether
// it did.
func decodeJSONProp(val any, dst any) bool {
	s := toString(val)
	if s == "" {
		return false
	}
	return json.Unmarshal([]byte(s), dst) == nil
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return fmt.Sprint(v)
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toInt(val any) int {
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// toTimestamp renders driver temporal values as RFC 3339 strings.
func toTimestamp(val any) string {
	switch v := val.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case interface{ Time() time.Time }:
		return v.Time().UTC().Format(time.RFC3339Nano)
	case string:
		return v
	default:
		return ""
	}
}
