package domain

// DeviceInfo carries the device metadata recorded with a transaction.
type DeviceInfo struct {
	IPAddress string `json:"ipAddress,omitempty" yaml:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`
}

// Transaction is the transaction entity as returned by the graph-query API.
type Transaction struct {
	ID                  string      `json:"id" yaml:"id"`
	TransactionType     string      `json:"transactionType" yaml:"transactionType"`
	Status              string      `json:"status" yaml:"status"`
	SenderID            string      `json:"senderId" yaml:"senderId"`
	ReceiverID          string      `json:"receiverId" yaml:"receiverId"`
	Amount              float64     `json:"amount" yaml:"amount"`
	Currency            string      `json:"currency" yaml:"currency"`
	DestinationAmount   *float64    `json:"destinationAmount,omitempty" yaml:"destinationAmount,omitempty"`
	DestinationCurrency string      `json:"destinationCurrency,omitempty" yaml:"destinationCurrency,omitempty"`
	Timestamp           string      `json:"timestamp" yaml:"timestamp"`
	Description         string      `json:"description,omitempty" yaml:"description,omitempty"`
	DeviceID            string      `json:"deviceId,omitempty" yaml:"deviceId,omitempty"`
	DeviceInfo          *DeviceInfo `json:"deviceInfo,omitempty" yaml:"deviceInfo,omitempty"`
	PaymentMethod       string      `json:"paymentMethod,omitempty" yaml:"paymentMethod,omitempty"`
}
