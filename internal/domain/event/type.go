package event

// Type identifies the category of a processor notification. Types are
// dot-namespaced strings assigned by the processor.
type Type string

const (
	TypePaymentSucceeded Type = "payment_intent.succeeded"
	TypePaymentFailed    Type = "payment_intent.payment_failed"
	TypeChargeRefunded   Type = "charge.refunded"
	TypeDisputeCreated   Type = "charge.dispute.created"

	// TypeWildcard matches every event. Wildcard handlers run after all
	// type-specific handlers for an event.
	TypeWildcard Type = "*"
)

// String returns the string representation of the event type.
func (t Type) String() string {
	return string(t)
}
