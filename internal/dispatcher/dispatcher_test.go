package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Shivay00001/fintech-payment-processing-gateway/internal/domain/event"
)

// mockLogger implements Logger for testing
type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func testEvent(eventType event.Type) *event.Event {
	return event.New("evt_test", eventType, time.Now(), map[string]any{"id": "pi_test"})
}

func TestNew(t *testing.T) {
	t.Run("creates dispatcher without logger", func(t *testing.T) {
		d := New()
		if d == nil {
			t.Fatal("expected non-nil dispatcher")
		}
	})

	t.Run("creates dispatcher with logger", func(t *testing.T) {
		logger := &mockLogger{}
		d := New(WithLogger(logger))
		if d == nil {
			t.Fatal("expected non-nil dispatcher")
		}
	})
}

func TestSubscribe(t *testing.T) {
	t.Run("subscribes handler with auto-generated name", func(t *testing.T) {
		d := New()
		called := false

		d.Subscribe(event.TypePaymentSucceeded, func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		if err := d.Dispatch(context.Background(), testEvent(event.TypePaymentSucceeded)); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}

		if !called {
			t.Error("expected handler to be called")
		}
	})

	t.Run("subscribes multiple handlers to same event type", func(t *testing.T) {
		d := New()
		called1, called2 := false, false

		d.Subscribe(event.TypePaymentSucceeded, func(ctx context.Context, evt *event.Event) error {
			called1 = true
			return nil
		})
		d.Subscribe(event.TypePaymentSucceeded, func(ctx context.Context, evt *event.Event) error {
			called2 = true
			return nil
		})

		if err := d.Dispatch(context.Background(), testEvent(event.TypePaymentSucceeded)); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}

		if !called1 || !called2 {
			t.Errorf("expected both handlers called, got %v, %v", called1, called2)
		}
	})
}

func TestDispatch_Ordering(t *testing.T) {
	t.Run("handlers run in registration order, wildcard last", func(t *testing.T) {
		d := New()
		var order []string

		record := func(name string) Handler {
			return func(ctx context.Context, evt *event.Event) error {
				order = append(order, name)
				return nil
			}
		}

		d.SubscribeNamed(event.TypePaymentSucceeded, "A", record("A"))
		d.SubscribeNamed(event.TypePaymentSucceeded, "B", record("B"))
		d.SubscribeNamed(event.TypeWildcard, "C", record("C"))

		if err := d.Dispatch(context.Background(), testEvent(event.TypePaymentSucceeded)); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}

		want := []string{"A", "B", "C"}
		if len(order) != len(want) {
			t.Fatalf("got invocations %v, want %v", order, want)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("got invocations %v, want %v", order, want)
			}
		}
	})

	t.Run("wildcard handlers run alone for unknown types", func(t *testing.T) {
		d := New()
		var order []string

		d.SubscribeNamed(event.TypePaymentSucceeded, "specific", func(ctx context.Context, evt *event.Event) error {
			order = append(order, "specific")
			return nil
		})
		d.SubscribeNamed(event.TypeWildcard, "wildcard", func(ctx context.Context, evt *event.Event) error {
			order = append(order, "wildcard")
			return nil
		})

		if err := d.Dispatch(context.Background(), testEvent(event.Type("payment_intent.canceled"))); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}

		if len(order) != 1 || order[0] != "wildcard" {
			t.Fatalf("got invocations %v, want only wildcard", order)
		}
	})
}

func TestDispatch_FailFast(t *testing.T) {
	d := New(WithLogger(&mockLogger{}))
	wantErr := errors.New("handler exploded")
	laterCalled := false

	d.SubscribeNamed(event.TypePaymentFailed, "first", func(ctx context.Context, evt *event.Event) error {
		return wantErr
	})
	d.SubscribeNamed(event.TypePaymentFailed, "second", func(ctx context.Context, evt *event.Event) error {
		laterCalled = true
		return nil
	})
	d.SubscribeNamed(event.TypeWildcard, "wildcard", func(ctx context.Context, evt *event.Event) error {
		laterCalled = true
		return nil
	})

	err := d.Dispatch(context.Background(), testEvent(event.TypePaymentFailed))
	if err == nil {
		t.Fatal("expected dispatch error")
	}

	var handlerErr *HandlerError
	if !errors.As(err, &handlerErr) {
		t.Fatalf("expected *HandlerError, got %T", err)
	}
	if handlerErr.HandlerName != "first" {
		t.Errorf("HandlerName = %q, want %q", handlerErr.HandlerName, "first")
	}
	if !errors.Is(err, wantErr) {
		t.Error("expected wrapped cause to be recoverable via errors.Is")
	}
	if laterCalled {
		t.Error("handlers after the failure must not run")
	}
}

func TestDispatch_NoHandlers(t *testing.T) {
	d := New()

	if err := d.Dispatch(context.Background(), testEvent(event.Type("balance.available"))); err != nil {
		t.Fatalf("dispatch of unregistered type should be a no-op success, got %v", err)
	}
}

func TestDispatch_PanicRecovery(t *testing.T) {
	logger := &mockLogger{}
	d := New(WithLogger(logger))

	d.SubscribeNamed(event.TypeChargeRefunded, "panicky", func(ctx context.Context, evt *event.Event) error {
		panic("boom")
	})

	err := d.Dispatch(context.Background(), testEvent(event.TypeChargeRefunded))
	if err == nil {
		t.Fatal("expected error from panicking handler")
	}

	var handlerErr *HandlerError
	if !errors.As(err, &handlerErr) {
		t.Fatalf("expected *HandlerError, got %T", err)
	}
	if logger.ErrorCount() == 0 {
		t.Error("expected panic to be logged")
	}
}

func TestDispatch_ConcurrentRegistration(t *testing.T) {
	d := New()
	evt := testEvent(event.TypePaymentSucceeded)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.SubscribeNamed(event.TypePaymentSucceeded, fmt.Sprintf("h-%d", i), func(ctx context.Context, evt *event.Event) error {
				return nil
			})
		}(i)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.Dispatch(context.Background(), evt); err != nil {
				t.Errorf("dispatch failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(d.ListHandlers(event.TypePaymentSucceeded)); got != 10 {
		t.Errorf("ListHandlers returned %d handlers, want 10", got)
	}
}
