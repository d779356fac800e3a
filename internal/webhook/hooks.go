package webhook

import (
	"context"

	"go.uber.org/zap"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/dispatcher"
	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/domain/event"
)

// RegisterDefaultHandlers subscribes the built-in observers for payment
// lifecycle events. Each is a bounded, side-effect-free observation and is
// safe to re-run on redelivery. Domain logic (ledger writes, notifications)
// plugs in alongside these via Subscribe without dispatcher changes.
func RegisterDefaultHandlers(d dispatcher.Dispatcher, logger *zap.Logger) {
	d.SubscribeNamed(event.TypePaymentSucceeded, "log-payment-succeeded",
		func(ctx context.Context, evt *event.Event) error {
			logger.Info("Payment succeeded",
				zap.String("payment_id", evt.ObjectID()),
				zap.Int64("amount", evt.DataInt("amount")),
				zap.String("currency", evt.DataString("currency")))
			return nil
		})

	d.SubscribeNamed(event.TypePaymentFailed, "log-payment-failed",
		func(ctx context.Context, evt *event.Event) error {
			var reason string
			if lastErr := evt.DataMap("last_payment_error"); lastErr != nil {
				reason, _ = lastErr["message"].(string)
			}
			logger.Warn("Payment failed",
				zap.String("payment_id", evt.ObjectID()),
				zap.String("reason", reason))
			return nil
		})

	d.SubscribeNamed(event.TypeChargeRefunded, "log-charge-refunded",
		func(ctx context.Context, evt *event.Event) error {
			logger.Info("Charge refunded",
				zap.String("charge_id", evt.ObjectID()),
				zap.Int64("amount_refunded", evt.DataInt("amount_refunded")))
			return nil
		})

	d.SubscribeNamed(event.TypeDisputeCreated, "log-dispute-created",
		func(ctx context.Context, evt *event.Event) error {
			logger.Warn("Dispute created",
				zap.String("charge_id", evt.DataString("charge")),
				zap.String("dispute_id", evt.ObjectID()))
			return nil
		})
}
