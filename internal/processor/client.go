// Package processor is the HTTP client for the external payment processor.
// It owns the wire format: JSON requests with bearer authentication, an
// Idempotency-Key header on every mutating call, and error responses decoded
// into the gateway's error taxonomy. It performs no retries; idempotency
// keys make retries safe at whatever layer chooses to issue them.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Config holds processor client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client talks to the processor's REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a processor API client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CreateIntent creates a payment intent. The idempotency key deduplicates
// retried submissions at the processor.
func (c *Client) CreateIntent(ctx context.Context, params IntentParams, idempotencyKey string) (*Intent, error) {
	var intent Intent
	if err := c.do(ctx, http.MethodPost, "/v1/payment_intents", params, idempotencyKey, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// ConfirmIntent confirms a payment intent.
func (c *Client) ConfirmIntent(ctx context.Context, id, idempotencyKey string) (*Intent, error) {
	var intent Intent
	path := "/v1/payment_intents/" + url.PathEscape(id) + "/confirm"
	if err := c.do(ctx, http.MethodPost, path, nil, idempotencyKey, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CaptureIntent captures a confirmed payment intent.
func (c *Client) CaptureIntent(ctx context.Context, id, idempotencyKey string) (*Intent, error) {
	var intent Intent
	path := "/v1/payment_intents/" + url.PathEscape(id) + "/capture"
	if err := c.do(ctx, http.MethodPost, path, nil, idempotencyKey, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreateRefund creates a refund against a payment intent.
func (c *Client) CreateRefund(ctx context.Context, params RefundParams, idempotencyKey string) (*Refund, error) {
	var refund Refund
	if err := c.do(ctx, http.MethodPost, "/v1/refunds", params, idempotencyKey, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

// GetIntent retrieves a payment intent.
func (c *Client) GetIntent(ctx context.Context, id string) (*Intent, error) {
	var intent Intent
	path := "/v1/payment_intents/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, "", &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// ListIntents lists payment intents, optionally filtered by customer.
func (c *Client) ListIntents(ctx context.Context, params ListIntentsParams) ([]Intent, error) {
	query := url.Values{}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Customer != "" {
		query.Set("customer", params.Customer)
	}

	var list listEnvelope[Intent]
	path := "/v1/payment_intents"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	if err := c.do(ctx, http.MethodGet, path, nil, "", &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// CreateCustomer creates a customer record.
func (c *Client) CreateCustomer(ctx context.Context, params CustomerParams) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodPost, "/v1/customers", params, "", &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomer retrieves a customer record.
func (c *Client) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(id), nil, "", &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer updates a customer record.
func (c *Client) UpdateCustomer(ctx context.Context, id string, params CustomerParams) (*Customer, error) {
	var customer Customer
	if err := c.do(ctx, http.MethodPost, "/v1/customers/"+url.PathEscape(id), params, "", &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListPaymentMethods lists a customer's card payment methods.
func (c *Client) ListPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error) {
	query := url.Values{}
	query.Set("customer", customerID)
	query.Set("type", "card")

	var list listEnvelope[PaymentMethod]
	if err := c.do(ctx, http.MethodGet, "/v1/payment_methods?"+query.Encode(), nil, "", &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// errorEnvelope is the processor's error response wrapper.
type errorEnvelope struct {
	Error Error `json:"error"`
}

// do executes one API call. Mutating calls pass a non-empty idempotencyKey,
// which is sent as the Idempotency-Key header. Failures of any kind come
// back as *Error so callers see a single taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Processor request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return &Error{
			Type:    ErrorTypeAPI,
			Message: fmt.Sprintf("processor unreachable: %v", err),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Type:       ErrorTypeAPI,
			Message:    fmt.Sprintf("failed to read processor response: %v", err),
			StatusCode: resp.StatusCode,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp.StatusCode, respBody, method, path)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{
				Type:       ErrorTypeAPI,
				Message:    fmt.Sprintf("failed to decode processor response: %v", err),
				StatusCode: resp.StatusCode,
			}
		}
	}

	return nil
}

func (c *Client) decodeError(status int, body []byte, method, path string) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Type != "" {
		envelope.Error.StatusCode = status
		c.logger.Warn("Processor rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("error_type", string(envelope.Error.Type)),
			zap.String("error_code", envelope.Error.Code))
		return &envelope.Error
	}

	return &Error{
		Type:       ErrorTypeAPI,
		Message:    fmt.Sprintf("processor returned status %d", status),
		StatusCode: status,
	}
}
