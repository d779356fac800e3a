package dispatcher

import (
	"context"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/domain/event"
)

// Handler processes one processor event. Handlers must tolerate redelivery:
// a failed dispatch is not acknowledged to the processor, which redelivers
// the whole event and re-runs every handler.
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo contains handler metadata for debugging.
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}
