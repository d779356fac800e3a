package webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/dispatcher"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/metrics"
)

// SignatureHeader carries the processor's signature over the raw payload.
const SignatureHeader = "Processor-Signature"

// MaxPayloadBytes caps a webhook delivery. Real processor events are a few
// kilobytes; anything larger is rejected before it can exhaust memory.
const MaxPayloadBytes = 100 * 1024

// Handler handles inbound webhook deliveries from the processor.
type Handler struct {
	verifier   *Verifier
	dispatcher dispatcher.Dispatcher
	logger     *zap.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(verifier *Verifier, d dispatcher.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		verifier:   verifier,
		dispatcher: d,
		logger:     logger,
	}
}

// Handle processes one webhook delivery. The body is read raw and passed to
// the verifier unmodified. Handlers run synchronously before the response is
// written: any verification or handler failure returns 400 so the processor
// redelivers, and only a fully handled event is acknowledged.
func (h *Handler) Handle(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.WebhookFailuresTotal.WithLabelValues("payload_too_large").Inc()
			h.logger.Warn("Webhook payload too large", zap.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
			return
		}
		h.logger.Error("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	evt, err := h.verifier.Verify(body, c.GetHeader(SignatureHeader))
	if err != nil {
		metrics.WebhookFailuresTotal.WithLabelValues("verification").Inc()
		h.logger.Warn("Webhook verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook verification failed"})
		return
	}

	h.logger.Info("Received processor event",
		zap.String("event_id", evt.ID),
		zap.String("event_type", evt.Type.String()))
	metrics.WebhookEventsTotal.WithLabelValues(evt.Type.String()).Inc()

	if err := h.dispatcher.Dispatch(c.Request.Context(), evt); err != nil {
		metrics.WebhookFailuresTotal.WithLabelValues("handler").Inc()
		h.logger.Error("Webhook dispatch failed",
			zap.String("event_id", evt.ID),
			zap.String("event_type", evt.Type.String()),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
