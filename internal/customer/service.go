// Package customer is a pass-through proxy for processor customer records.
// It adds no logic of its own; the processor owns the data.
package customer

import (
	"context"

	"go.uber.org/zap"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/domain/validation"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/processor"
)

// Request carries the caller's customer fields.
type Request struct {
	Email    string            `json:"email,omitempty"`
	Name     string            `json:"name,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// API is the slice of the processor client the proxy uses.
type API interface {
	CreateCustomer(ctx context.Context, params processor.CustomerParams) (*processor.Customer, error)
	GetCustomer(ctx context.Context, id string) (*processor.Customer, error)
	UpdateCustomer(ctx context.Context, id string, params processor.CustomerParams) (*processor.Customer, error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]processor.PaymentMethod, error)
}

// Service forwards customer operations to the processor.
type Service struct {
	processor API
	logger    *zap.Logger
}

// NewService creates a customer service.
func NewService(p API, logger *zap.Logger) *Service {
	return &Service{
		processor: p,
		logger:    logger,
	}
}

// Create creates a customer at the processor.
func (s *Service) Create(ctx context.Context, req Request) (*processor.Customer, error) {
	customer, err := s.processor.CreateCustomer(ctx, processor.CustomerParams{
		Email:    req.Email,
		Name:     req.Name,
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Customer created", zap.String("customer_id", customer.ID))
	return customer, nil
}

// Get retrieves a customer from the processor.
func (s *Service) Get(ctx context.Context, id string) (*processor.Customer, error) {
	if id == "" {
		return nil, &validation.Error{Field: "customerId", Message: "customer id is required"}
	}
	return s.processor.GetCustomer(ctx, id)
}

// Update updates a customer at the processor.
func (s *Service) Update(ctx context.Context, id string, req Request) (*processor.Customer, error) {
	if id == "" {
		return nil, &validation.Error{Field: "customerId", Message: "customer id is required"}
	}
	return s.processor.UpdateCustomer(ctx, id, processor.CustomerParams{
		Email:    req.Email,
		Name:     req.Name,
		Metadata: req.Metadata,
	})
}

// ListPaymentMethods lists a customer's card payment methods.
func (s *Service) ListPaymentMethods(ctx context.Context, id string) ([]processor.PaymentMethod, error) {
	if id == "" {
		return nil, &validation.Error{Field: "customerId", Message: "customer id is required"}
	}
	return s.processor.ListPaymentMethods(ctx, id)
}
