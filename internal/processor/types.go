package processor

// Intent is a payment intent as the processor represents it.
type Intent struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	ClientSecret  string            `json:"client_secret,omitempty"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Customer      string            `json:"customer,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Created       int64             `json:"created"`
}

// Refund is a refund record as the processor represents it.
type Refund struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	PaymentIntent string `json:"payment_intent"`
	Created       int64  `json:"created"`
}

// Customer is a customer record as the processor represents it.
type Customer struct {
	ID       string            `json:"id"`
	Email    string            `json:"email,omitempty"`
	Name     string            `json:"name,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Created  int64             `json:"created"`
}

// PaymentMethod is a stored payment instrument attached to a customer.
type PaymentMethod struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Customer string `json:"customer,omitempty"`
	Card     *Card  `json:"card,omitempty"`
}

// Card carries the displayable subset of a card payment method.
type Card struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

// IntentParams are the fields submitted when creating a payment intent.
type IntentParams struct {
	Amount                  int64             `json:"amount"`
	Currency                string            `json:"currency"`
	Customer                string            `json:"customer,omitempty"`
	PaymentMethod           string            `json:"payment_method,omitempty"`
	AutomaticPaymentMethods bool              `json:"automatic_payment_methods,omitempty"`
	Metadata                map[string]string `json:"metadata,omitempty"`
}

// RefundParams are the fields submitted when creating a refund. A nil Amount
// is omitted from the request entirely, which the processor interprets as a
// full refund; the gateway never substitutes a default of its own.
type RefundParams struct {
	PaymentIntent string `json:"payment_intent"`
	Amount        *int64 `json:"amount,omitempty"`
}

// ListIntentsParams filter and bound an intent listing.
type ListIntentsParams struct {
	Customer string
	Limit    int
}

// CustomerParams are the fields submitted when creating or updating a
// customer.
type CustomerParams struct {
	Email    string            `json:"email,omitempty"`
	Name     string            `json:"name,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// listEnvelope is the processor's list response wrapper.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}
