package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/domain/event"
)

// Dispatcher routes processor events to registered handlers.
type Dispatcher interface {
	// Subscribe registers a handler for an event type. Registering under
	// event.TypeWildcard subscribes the handler to every event.
	Subscribe(eventType event.Type, handler Handler)

	// SubscribeNamed registers a handler with a name for debugging.
	SubscribeNamed(eventType event.Type, name string, handler Handler)

	// Dispatch invokes the handlers matching the event strictly in order:
	// type-specific handlers first, then wildcard handlers, each group in
	// registration order. The first handler failure aborts the remaining
	// handlers and is returned as a *HandlerError. An event with no
	// matching handlers dispatches successfully as a no-op.
	Dispatch(ctx context.Context, evt *event.Event) error

	// ListHandlers returns registered handlers for an event type.
	ListHandlers(eventType event.Type) []HandlerInfo
}

// HandlerError reports a handler failure during dispatch. The webhook
// boundary propagates it by not acknowledging the delivery.
type HandlerError struct {
	HandlerName string
	EventType   event.Type
	EventID     string
	Err         error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler %s failed for event %s (%s): %v", e.HandlerName, e.EventID, e.EventType, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// Logger interface for minimal logging dependency; *zap.SugaredLogger
// satisfies it.
type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// eventDispatcher is the concrete implementation of Dispatcher
type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerInfo
	logger   Logger
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// New creates a new event dispatcher
func New(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		handlers: make(map[event.Type][]HandlerInfo),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Subscribe registers a handler for an event type with an auto-generated name
func (d *eventDispatcher) Subscribe(eventType event.Type, handler Handler) {
	d.mu.RLock()
	name := fmt.Sprintf("handler-%d", len(d.handlers[eventType]))
	d.mu.RUnlock()

	d.SubscribeNamed(eventType, name, handler)
}

// SubscribeNamed registers a handler with a specific name for debugging
func (d *eventDispatcher) SubscribeNamed(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], HandlerInfo{
		Name:      name,
		EventType: eventType,
		Handler:   handler,
	})

	if d.logger != nil {
		d.logger.Infow("Handler registered",
			"event_type", eventType,
			"handler_name", name,
		)
	}
}

// Dispatch invokes matching handlers sequentially, type-specific before
// wildcard, failing fast on the first error.
func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	d.mu.RLock()
	handlers := make([]HandlerInfo, 0, len(d.handlers[evt.Type])+len(d.handlers[event.TypeWildcard]))
	handlers = append(handlers, d.handlers[evt.Type]...)
	if evt.Type != event.TypeWildcard {
		handlers = append(handlers, d.handlers[event.TypeWildcard]...)
	}
	d.mu.RUnlock()

	if d.logger != nil {
		d.logger.Infow("Dispatching event",
			"event_type", evt.Type,
			"event_id", evt.ID,
			"handler_count", len(handlers),
		)
	}

	for _, info := range handlers {
		if err := d.safeExecute(ctx, evt, info); err != nil {
			if d.logger != nil {
				d.logger.Errorw("Handler error",
					"event_type", evt.Type,
					"event_id", evt.ID,
					"handler_name", info.Name,
					"error", err,
				)
			}
			return &HandlerError{
				HandlerName: info.Name,
				EventType:   evt.Type,
				EventID:     evt.ID,
				Err:         err,
			}
		}
	}

	return nil
}

// ListHandlers returns registered handlers for an event type
func (d *eventDispatcher) ListHandlers(eventType event.Type) []HandlerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	handlers := d.handlers[eventType]
	result := make([]HandlerInfo, len(handlers))

	for i, h := range handlers {
		result[i] = HandlerInfo{
			Name:      h.Name,
			EventType: h.EventType,
			// Handler function is not copied to avoid exposing internals
		}
	}

	return result
}

// safeExecute runs a handler with panic recovery
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, info HandlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
			if d.logger != nil {
				d.logger.Errorw("Handler panic recovered",
					"event_type", evt.Type,
					"event_id", evt.ID,
					"handler_name", info.Name,
					"panic", r,
				)
			}
		}
	}()

	return info.Handler(ctx, evt)
}
