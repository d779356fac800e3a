package processor

import "fmt"

// ErrorType classifies a processor failure.
type ErrorType string

const (
	// ErrorTypeInvalidRequest means the submitted parameters were rejected.
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"

	// ErrorTypeCard means the card was declined or otherwise unusable.
	ErrorTypeCard ErrorType = "card_error"

	// ErrorTypeAuthentication means the gateway's processor credentials
	// were rejected.
	ErrorTypeAuthentication ErrorType = "authentication_error"

	// ErrorTypeRateLimit means the processor is throttling requests.
	ErrorTypeRateLimit ErrorType = "rate_limit_error"

	// ErrorTypeAPI covers processor outages and network failures.
	ErrorTypeAPI ErrorType = "api_error"
)

// Error is a processor failure normalized into the gateway's taxonomy.
// Callers never see the processor's wire format directly.
type Error struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code,omitempty"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("processor %s (%s): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("processor %s: %s", e.Type, e.Message)
}

// ClientFault reports whether the failure was caused by the caller's input
// rather than the processor or the gateway. It drives the 4xx-versus-502
// split at the HTTP boundary.
func (e *Error) ClientFault() bool {
	switch e.Type {
	case ErrorTypeInvalidRequest, ErrorTypeCard, ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}
