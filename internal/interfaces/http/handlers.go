package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/customer"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/domain/validation"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/metrics"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/payment"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/processor"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	payments  *payment.Service
	customers *customer.Service
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(payments *payment.Service, customers *customer.Service, logger *zap.Logger) *Handlers {
	return &Handlers{
		payments:  payments,
		customers: customers,
		logger:    logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// RefundRequest carries an optional refund amount. A missing amount means
// "refund in full".
type RefundRequest struct {
	Amount *int64 `json:"amount,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// CreateIntent handles POST /api/v1/payments/intent
func (h *Handlers) CreateIntent(c *gin.Context) {
	var req payment.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.payments.CreateIntent(c.Request.Context(), req)
	if err != nil {
		metrics.PaymentOperationsTotal.WithLabelValues("create", "error").Inc()
		h.writeError(c, err)
		return
	}

	metrics.PaymentOperationsTotal.WithLabelValues("create", "success").Inc()
	c.JSON(http.StatusCreated, result)
}

// GetPayment handles GET /api/v1/payments/:paymentId
func (h *Handlers) GetPayment(c *gin.Context) {
	result, err := h.payments.Get(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ConfirmPayment handles POST /api/v1/payments/:paymentId/confirm
func (h *Handlers) ConfirmPayment(c *gin.Context) {
	result, err := h.payments.Confirm(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		metrics.PaymentOperationsTotal.WithLabelValues("confirm", "error").Inc()
		h.writeError(c, err)
		return
	}

	metrics.PaymentOperationsTotal.WithLabelValues("confirm", "success").Inc()
	c.JSON(http.StatusOK, result)
}

// CapturePayment handles POST /api/v1/payments/:paymentId/capture
func (h *Handlers) CapturePayment(c *gin.Context) {
	result, err := h.payments.Capture(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		metrics.PaymentOperationsTotal.WithLabelValues("capture", "error").Inc()
		h.writeError(c, err)
		return
	}

	metrics.PaymentOperationsTotal.WithLabelValues("capture", "success").Inc()
	c.JSON(http.StatusOK, result)
}

// RefundPayment handles POST /api/v1/payments/:paymentId/refund
func (h *Handlers) RefundPayment(c *gin.Context) {
	// The body is read unconditionally: ContentLength is -1 on chunked
	// requests, so gating on it would drop the caller's amount and turn a
	// partial refund into a full one. An empty body still means full refund.
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var req RefundRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	result, err := h.payments.Refund(c.Request.Context(), c.Param("paymentId"), req.Amount)
	if err != nil {
		metrics.PaymentOperationsTotal.WithLabelValues("refund", "error").Inc()
		h.writeError(c, err)
		return
	}

	metrics.PaymentOperationsTotal.WithLabelValues("refund", "success").Inc()
	c.JSON(http.StatusOK, result)
}

// ListPayments handles GET /api/v1/payments
func (h *Handlers) ListPayments(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	results, err := h.payments.List(c.Request.Context(), c.Query("customerId"), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": results})
}

// CreateCustomer handles POST /api/v1/customers
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var req customer.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetCustomer handles GET /api/v1/customers/:customerId
func (h *Handlers) GetCustomer(c *gin.Context) {
	result, err := h.customers.Get(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateCustomer handles PATCH /api/v1/customers/:customerId
func (h *Handlers) UpdateCustomer(c *gin.Context) {
	var req customer.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.customers.Update(c.Request.Context(), c.Param("customerId"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListPaymentMethods handles GET /api/v1/customers/:customerId/payment-methods
func (h *Handlers) ListPaymentMethods(c *gin.Context) {
	methods, err := h.customers.ListPaymentMethods(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentMethods": methods})
}

// writeError translates service errors into client responses. Client-side
// faults keep their detail; everything else is logged server-side and
// surfaced as an opaque failure.
func (h *Handlers) writeError(c *gin.Context, err error) {
	var valErr *validation.Error
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation error",
			"message": valErr.Error(),
		})
		return
	}

	var procErr *processor.Error
	if errors.As(err, &procErr) {
		if procErr.ClientFault() {
			c.JSON(statusForProcessorError(procErr), gin.H{
				"error":   "payment error",
				"message": procErr.Message,
			})
			return
		}

		h.logger.Error("Processor failure",
			zap.String("path", c.FullPath()),
			zap.Error(procErr))
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment processor unavailable"})
		return
	}

	h.logger.Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusForProcessorError(err *processor.Error) int {
	switch err.Type {
	case processor.ErrorTypeCard:
		return http.StatusPaymentRequired
	case processor.ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}
