package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/customer"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/dispatcher"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/payment"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/processor"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/webhook"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubProcessor satisfies both payment.Processor and customer.API.
type stubProcessor struct {
	createErr error
	refunds   []processor.RefundParams
	lists     []processor.ListIntentsParams
}

func (s *stubProcessor) CreateIntent(ctx context.Context, params processor.IntentParams, key string) (*processor.Intent, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &processor.Intent{
		ID:           "pi_1",
		Status:       "requires_confirmation",
		ClientSecret: "pi_1_secret",
		Amount:       params.Amount,
		Currency:     params.Currency,
	}, nil
}

func (s *stubProcessor) ConfirmIntent(ctx context.Context, id, key string) (*processor.Intent, error) {
	return &processor.Intent{ID: id, Status: "confirmed", Amount: 2500, Currency: "usd"}, nil
}

func (s *stubProcessor) CaptureIntent(ctx context.Context, id, key string) (*processor.Intent, error) {
	return &processor.Intent{ID: id, Status: "captured", Amount: 2500, Currency: "usd"}, nil
}

func (s *stubProcessor) CreateRefund(ctx context.Context, params processor.RefundParams, key string) (*processor.Refund, error) {
	s.refunds = append(s.refunds, params)
	return &processor.Refund{ID: "re_1", Status: "succeeded", Amount: 2500, Currency: "usd", PaymentIntent: params.PaymentIntent}, nil
}

func (s *stubProcessor) GetIntent(ctx context.Context, id string) (*processor.Intent, error) {
	return &processor.Intent{ID: id, Status: "captured", Amount: 2500, Currency: "usd"}, nil
}

func (s *stubProcessor) ListIntents(ctx context.Context, params processor.ListIntentsParams) ([]processor.Intent, error) {
	s.lists = append(s.lists, params)
	return []processor.Intent{{ID: "pi_1"}}, nil
}

func (s *stubProcessor) CreateCustomer(ctx context.Context, params processor.CustomerParams) (*processor.Customer, error) {
	return &processor.Customer{ID: "cus_1", Email: params.Email, Name: params.Name}, nil
}

func (s *stubProcessor) GetCustomer(ctx context.Context, id string) (*processor.Customer, error) {
	return &processor.Customer{ID: id}, nil
}

func (s *stubProcessor) UpdateCustomer(ctx context.Context, id string, params processor.CustomerParams) (*processor.Customer, error) {
	return &processor.Customer{ID: id, Email: params.Email, Name: params.Name}, nil
}

func (s *stubProcessor) ListPaymentMethods(ctx context.Context, customerID string) ([]processor.PaymentMethod, error) {
	return []processor.PaymentMethod{{ID: "pm_1", Type: "card", Customer: customerID}}, nil
}

func newTestServer(stub *stubProcessor) *Server {
	logger := zap.NewNop()
	payments := payment.NewService(stub, logger)
	customers := customer.NewService(stub, logger)
	handlers := NewHandlers(payments, customers, logger)

	d := dispatcher.New()
	webhookHandler := webhook.NewHandler(webhook.NewVerifier("whsec_test", 0), d, logger)

	return NewServer(DefaultServerConfig(), handlers, webhookHandler, logger)
}

func doJSON(t *testing.T, server *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func TestCreateIntent_Endpoint(t *testing.T) {
	server := newTestServer(&stubProcessor{})

	w := doJSON(t, server, stdhttp.MethodPost, "/api/v1/payments/intent", map[string]any{
		"amount":   2500,
		"currency": "USD",
	})

	assert.Equal(t, stdhttp.StatusCreated, w.Code)

	var result payment.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "pi_1", result.ID)
	assert.Equal(t, "pi_1_secret", result.ClientSecret)
	assert.Equal(t, "usd", result.Currency)
}

func TestCreateIntent_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"amount above maximum", map[string]any{"amount": 100_000_000, "currency": "usd"}},
		{"two-letter currency", map[string]any{"amount": 100, "currency": "US"}},
		{"missing amount", map[string]any{"currency": "usd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&stubProcessor{})
			w := doJSON(t, server, stdhttp.MethodPost, "/api/v1/payments/intent", tt.body)
			assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "card decline",
			err:        &processor.Error{Type: processor.ErrorTypeCard, Message: "declined"},
			wantStatus: stdhttp.StatusPaymentRequired,
		},
		{
			name:       "invalid request",
			err:        &processor.Error{Type: processor.ErrorTypeInvalidRequest, Message: "no such intent"},
			wantStatus: stdhttp.StatusBadRequest,
		},
		{
			name:       "rate limited",
			err:        &processor.Error{Type: processor.ErrorTypeRateLimit, Message: "slow down"},
			wantStatus: stdhttp.StatusTooManyRequests,
		},
		{
			name:       "processor outage",
			err:        &processor.Error{Type: processor.ErrorTypeAPI, Message: "internal"},
			wantStatus: stdhttp.StatusBadGateway,
		},
		{
			name:       "bad credentials",
			err:        &processor.Error{Type: processor.ErrorTypeAuthentication, Message: "invalid key"},
			wantStatus: stdhttp.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&stubProcessor{createErr: tt.err})

			w := doJSON(t, server, stdhttp.MethodPost, "/api/v1/payments/intent", map[string]any{
				"amount":   2500,
				"currency": "usd",
			})

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRefund_Endpoint(t *testing.T) {
	t.Run("empty body means full refund", func(t *testing.T) {
		stub := &stubProcessor{}
		server := newTestServer(stub)

		w := doJSON(t, server, stdhttp.MethodPost, "/api/v1/payments/pi_1/refund", nil)

		assert.Equal(t, stdhttp.StatusOK, w.Code)
		require.Len(t, stub.refunds, 1)
		assert.Nil(t, stub.refunds[0].Amount)
	})

	t.Run("partial amount forwarded", func(t *testing.T) {
		stub := &stubProcessor{}
		server := newTestServer(stub)

		w := doJSON(t, server, stdhttp.MethodPost, "/api/v1/payments/pi_1/refund", map[string]any{"amount": 1000})

		assert.Equal(t, stdhttp.StatusOK, w.Code)
		require.Len(t, stub.refunds, 1)
		require.NotNil(t, stub.refunds[0].Amount)
		assert.Equal(t, int64(1000), *stub.refunds[0].Amount)
	})

	// Chunked transfers carry ContentLength -1, so the amount must still be
	// read from the body. A dropped amount here would refund in full.
	t.Run("chunked body keeps partial amount", func(t *testing.T) {
		stub := &stubProcessor{}
		server := newTestServer(stub)

		req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/payments/pi_1/refund",
			io.NopCloser(strings.NewReader(`{"amount":500}`)))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		req.TransferEncoding = []string{"chunked"}

		w := httptest.NewRecorder()
		server.Router().ServeHTTP(w, req)

		assert.Equal(t, stdhttp.StatusOK, w.Code)
		require.Len(t, stub.refunds, 1)
		require.NotNil(t, stub.refunds[0].Amount)
		assert.Equal(t, int64(500), *stub.refunds[0].Amount)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		stub := &stubProcessor{}
		server := newTestServer(stub)

		req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/payments/pi_1/refund",
			strings.NewReader(`{"amount":`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		server.Router().ServeHTTP(w, req)

		assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
		assert.Empty(t, stub.refunds)
	})
}

func TestListPayments_Endpoint(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		stub := &stubProcessor{}
		server := newTestServer(stub)

		w := doJSON(t, server, stdhttp.MethodGet, "/api/v1/payments", nil)

		assert.Equal(t, stdhttp.StatusOK, w.Code)
		require.Len(t, stub.lists, 1)
		assert.Equal(t, payment.DefaultListLimit, stub.lists[0].Limit)
		assert.Empty(t, stub.lists[0].Customer)
	})

	t.Run("customer filter and limit", func(t *testing.T) {
		stub := &stubProcessor{}
		server := newTestServer(stub)

		w := doJSON(t, server, stdhttp.MethodGet, "/api/v1/payments?customerId=cus_3&limit=5", nil)

		assert.Equal(t, stdhttp.StatusOK, w.Code)
		require.Len(t, stub.lists, 1)
		assert.Equal(t, 5, stub.lists[0].Limit)
		assert.Equal(t, "cus_3", stub.lists[0].Customer)
	})

	t.Run("non-numeric limit rejected", func(t *testing.T) {
		server := newTestServer(&stubProcessor{})
		w := doJSON(t, server, stdhttp.MethodGet, "/api/v1/payments?limit=lots", nil)
		assert.Equal(t, stdhttp.StatusBadRequest, w.Code)
	})
}

func TestCustomerEndpoints(t *testing.T) {
	server := newTestServer(&stubProcessor{})

	w := doJSON(t, server, stdhttp.MethodPost, "/api/v1/customers", map[string]any{
		"email": "a@example.com",
		"name":  "Ada",
	})
	assert.Equal(t, stdhttp.StatusCreated, w.Code)

	w = doJSON(t, server, stdhttp.MethodGet, "/api/v1/customers/cus_1", nil)
	assert.Equal(t, stdhttp.StatusOK, w.Code)

	w = doJSON(t, server, stdhttp.MethodPatch, "/api/v1/customers/cus_1", map[string]any{"name": "Ada L"})
	assert.Equal(t, stdhttp.StatusOK, w.Code)

	w = doJSON(t, server, stdhttp.MethodGet, "/api/v1/customers/cus_1/payment-methods", nil)
	assert.Equal(t, stdhttp.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "paymentMethods")
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(&stubProcessor{})

	w := doJSON(t, server, stdhttp.MethodGet, "/health", nil)
	assert.Equal(t, stdhttp.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
}

func TestRequestIDHeader(t *testing.T) {
	server := newTestServer(&stubProcessor{})

	w := doJSON(t, server, stdhttp.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
