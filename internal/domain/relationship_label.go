package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// RelationshipKind is the structured discriminator of a relationship type label.
type RelationshipKind string

const (
	KindOther               RelationshipKind = "OTHER"
	KindSharedEmail         RelationshipKind = "SHARED_EMAIL"
	KindSharedPhone         RelationshipKind = "SHARED_PHONE"
	KindSharedAddress       RelationshipKind = "SHARED_ADDRESS"
	KindSharedPaymentMethod RelationshipKind = "SHARED_PAYMENT_METHOD"
	KindSharedDevice        RelationshipKind = "SHARED_DEVICE"
	KindSharedIP            RelationshipKind = "SHARED_IP"
)

var sharedDevicePattern = regexp.MustCompile(`^SHARED_DEVICE\s*\(\s*(\d+)\s+TRANSACTIONS?\s*\)$`)

// RelationshipLabel is the parsed form of a free-form relationship type string
// such as "SHARED_EMAIL" or "SHARED_DEVICE (3 transactions)".
type RelationshipLabel struct {
	Kind RelationshipKind
	// TransactionCount is only set for SHARED_DEVICE labels that embed a count.
	TransactionCount int
	Raw              string
}

// ParseRelationshipLabel converts a relationship type string into its tagged form.
// Unknown labels keep their raw text with KindOther.
func ParseRelationshipLabel(raw string) RelationshipLabel {
	label := RelationshipLabel{Kind: KindOther, Raw: raw}
	normalized := strings.ToUpper(strings.TrimSpace(raw))

	switch RelationshipKind(normalized) {
	case KindSharedEmail, KindSharedPhone, KindSharedAddress, KindSharedPaymentMethod, KindSharedDevice, KindSharedIP:
		label.Kind = RelationshipKind(normalized)
		return label
	}

	if m := sharedDevicePattern.FindStringSubmatch(normalized); m != nil {
		label.Kind = KindSharedDevice
		if n, err := strconv.Atoi(m[1]); err == nil {
			label.TransactionCount = n
		}
	}
	return label
}

// String returns the label as received from the API.
func (l RelationshipLabel) String() string {
	return l.Raw
}

// Is reports whether the label has the given kind.
func (l RelationshipLabel) Is(kind RelationshipKind) bool {
	return l.Kind == kind
}

func (l RelationshipLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Raw)
}

func (l *RelationshipLabel) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = ParseRelationshipLabel(raw)
	return nil
}

func (l RelationshipLabel) MarshalYAML() (any, error) {
	return l.Raw, nil
}
