package domain

// Address captures the optional postal address returned for a user.
type Address struct {
	Street     string `json:"street,omitempty" yaml:"street,omitempty"`
	City       string `json:"city,omitempty" yaml:"city,omitempty"`
	State      string `json:"state,omitempty" yaml:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty" yaml:"postalCode,omitempty"`
	Country    string `json:"country,omitempty" yaml:"country,omitempty"`
}

// PaymentMethod represents a payment instrument attached to a user.
type PaymentMethod struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Last4    string `json:"last4,omitempty" yaml:"last4,omitempty"`
}

// User is the user entity as returned by the graph-query API.
type User struct {
	ID             string          `json:"id" yaml:"id"`
	FirstName      string          `json:"firstName" yaml:"firstName"`
	LastName       string          `json:"lastName" yaml:"lastName"`
	Email          string          `json:"email" yaml:"email"`
	Phone          string          `json:"phone,omitempty" yaml:"phone,omitempty"`
	Address        *Address        `json:"address,omitempty" yaml:"address,omitempty"`
	PaymentMethods []PaymentMethod `json:"paymentMethods,omitempty" yaml:"paymentMethods,omitempty"`
	CreatedAt      string          `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}
