// Package payment orchestrates payment-intent operations against the
// external processor. Every mutating call carries an idempotency key so
// caller-level retries never duplicate a financial side effect. The service
// holds no payment state of its own; reads are live pass-throughs.
package payment

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/domain/validation"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/processor"
	"github.com/Shivay00001/fintech-payment-processing-gateway/pkg/utils"
)

const (
	// DefaultListLimit applies when the caller does not bound a listing.
	DefaultListLimit = 10

	// MaxListLimit is the largest page the processor accepts.
	MaxListLimit = 100

	// metadataIdempotencyKey is where the idempotency key is mirrored into
	// intent metadata so processor records can be audited against the
	// transport-level token.
	metadataIdempotencyKey = "idempotency_key"
)

// IntentRequest is the caller's input to intent creation.
type IntentRequest struct {
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	CustomerID      string            `json:"customerId,omitempty"`
	PaymentMethodID string            `json:"paymentMethodId,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	IdempotencyKey  string            `json:"idempotencyKey,omitempty"`
}

// Result is the normalized outcome of an intent operation. ClientSecret is
// present only on creation.
type Result struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"clientSecret,omitempty"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// RefundResult is the normalized outcome of a refund.
type RefundResult struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// Processor is the outbound boundary the orchestrator drives. Implemented
// by *processor.Client.
type Processor interface {
	CreateIntent(ctx context.Context, params processor.IntentParams, idempotencyKey string) (*processor.Intent, error)
	ConfirmIntent(ctx context.Context, id, idempotencyKey string) (*processor.Intent, error)
	CaptureIntent(ctx context.Context, id, idempotencyKey string) (*processor.Intent, error)
	CreateRefund(ctx context.Context, params processor.RefundParams, idempotencyKey string) (*processor.Refund, error)
	GetIntent(ctx context.Context, id string) (*processor.Intent, error)
	ListIntents(ctx context.Context, params processor.ListIntentsParams) ([]processor.Intent, error)
}

// Service issues idempotent payment operations against the processor.
type Service struct {
	processor Processor
	logger    *zap.Logger
}

// NewService creates a payment service.
func NewService(p Processor, logger *zap.Logger) *Service {
	return &Service{
		processor: p,
		logger:    logger,
	}
}

// CreateIntent validates the request, attaches an idempotency key (caller's
// or freshly generated), mirrors the key into metadata, and creates the
// intent at the processor.
func (s *Service) CreateIntent(ctx context.Context, req IntentRequest) (*Result, error) {
	if err := validateIntentRequest(req); err != nil {
		return nil, err
	}

	idempotencyKey := req.IdempotencyKey
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	metadata := make(map[string]string, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata[metadataIdempotencyKey] = idempotencyKey

	s.logger.Info("Creating payment intent",
		zap.Int64("amount", req.Amount),
		zap.String("currency", utils.NormalizeCurrency(req.Currency)),
		zap.String("idempotency_key", idempotencyKey))

	intent, err := s.processor.CreateIntent(ctx, processor.IntentParams{
		Amount:                  req.Amount,
		Currency:                utils.NormalizeCurrency(req.Currency),
		Customer:                req.CustomerID,
		PaymentMethod:           req.PaymentMethodID,
		AutomaticPaymentMethods: true,
		Metadata:                metadata,
	}, idempotencyKey)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment intent created",
		zap.String("payment_id", intent.ID),
		zap.String("status", intent.Status))

	return &Result{
		ID:           intent.ID,
		Status:       intent.Status,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
	}, nil
}

// Confirm confirms a payment intent. The processor owns the intent state
// machine; an invalid transition surfaces as its error.
func (s *Service) Confirm(ctx context.Context, id string) (*Result, error) {
	if id == "" {
		return nil, &validation.Error{Field: "paymentId", Message: "payment id is required"}
	}

	intent, err := s.processor.ConfirmIntent(ctx, id, uuid.NewString())
	if err != nil {
		return nil, err
	}

	return resultFromIntent(intent), nil
}

// Capture captures a confirmed payment intent.
func (s *Service) Capture(ctx context.Context, id string) (*Result, error) {
	if id == "" {
		return nil, &validation.Error{Field: "paymentId", Message: "payment id is required"}
	}

	intent, err := s.processor.CaptureIntent(ctx, id, uuid.NewString())
	if err != nil {
		return nil, err
	}

	return resultFromIntent(intent), nil
}

// Refund refunds a captured payment. A nil amount requests a full refund:
// the amount field is left off the processor request so the processor's own
// default applies.
func (s *Service) Refund(ctx context.Context, id string, amount *int64) (*RefundResult, error) {
	if id == "" {
		return nil, &validation.Error{Field: "paymentId", Message: "payment id is required"}
	}
	if amount != nil {
		if err := utils.ValidateAmount(*amount); err != nil {
			return nil, &validation.Error{Field: "amount", Message: err.Error()}
		}
	}

	s.logger.Info("Processing refund",
		zap.String("payment_id", id),
		zap.Bool("full_refund", amount == nil))

	refund, err := s.processor.CreateRefund(ctx, processor.RefundParams{
		PaymentIntent: id,
		Amount:        amount,
	}, uuid.NewString())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Refund completed",
		zap.String("refund_id", refund.ID),
		zap.String("status", refund.Status))

	return &RefundResult{
		ID:              refund.ID,
		Status:          refund.Status,
		Amount:          refund.Amount,
		Currency:        refund.Currency,
		PaymentIntentID: refund.PaymentIntent,
	}, nil
}

// Get retrieves a payment intent. Live pass-through, no local cache.
func (s *Service) Get(ctx context.Context, id string) (*Result, error) {
	if id == "" {
		return nil, &validation.Error{Field: "paymentId", Message: "payment id is required"}
	}

	intent, err := s.processor.GetIntent(ctx, id)
	if err != nil {
		return nil, err
	}

	return resultFromIntent(intent), nil
}

// List lists payment intents. A non-positive limit defaults to
// DefaultListLimit; an empty customerID means no filter.
func (s *Service) List(ctx context.Context, customerID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	intents, err := s.processor.ListIntents(ctx, processor.ListIntentsParams{
		Customer: customerID,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(intents))
	for i := range intents {
		results[i] = *resultFromIntent(&intents[i])
	}
	return results, nil
}

func resultFromIntent(intent *processor.Intent) *Result {
	return &Result{
		ID:       intent.ID,
		Status:   intent.Status,
		Amount:   intent.Amount,
		Currency: intent.Currency,
	}
}

func validateIntentRequest(req IntentRequest) error {
	if err := utils.ValidateAmount(req.Amount); err != nil {
		return &validation.Error{Field: "amount", Message: err.Error()}
	}
	if err := utils.ValidateCurrency(req.Currency); err != nil {
		return &validation.Error{Field: "currency", Message: err.Error()}
	}
	if req.IdempotencyKey != "" {
		if _, err := uuid.Parse(req.IdempotencyKey); err != nil {
			return &validation.Error{Field: "idempotencyKey", Message: "must be a valid UUID"}
		}
	}
	return nil
}
