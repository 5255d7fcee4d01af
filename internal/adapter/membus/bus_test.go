package membus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/example/shop-order-service/internal/domain"
)

func testEnvelope(t *testing.T, evType domain.EventType) (domain.Envelope, map[string]string) {
	t.Helper()
	env, err := domain.NewEnvelope(evType, domain.OrderEvent{OrderID: "ord-1"})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	return env, map[string]string{domain.AttrEventType: string(evType)}
}

func TestFanOutIndependentOfFailures(t *testing.T) {
	ctx := context.Background()
	bus := New()
	bus.Redeliveries = 0

	var good atomic.Int64
	_ = bus.Subscribe(ctx, "bad", nil, func(context.Context, domain.BusMessage) error {
		return errors.New("always fails")
	})
	_ = bus.Subscribe(ctx, "good", nil, func(context.Context, domain.BusMessage) error {
		good.Add(1)
		return nil
	})

	env, attrs := testEnvelope(t, domain.EventOrderCreated)
	id, err := bus.Publish(ctx, env, attrs)
	if err != nil {
		t.Fatalf("Publish() error = %v; subscriber failures must stay invisible to the publisher", err)
	}
	if id == "" {
		t.Error("Publish() returned empty message id")
	}
	bus.Wait()
	if good.Load() != 1 {
		t.Errorf("good subscriber deliveries = %d, want 1", good.Load())
	}
}

func TestFilterAllowList(t *testing.T) {
	ctx := context.Background()
	bus := New()

	var filtered, unfiltered atomic.Int64
	billingFilter := &domain.AttributeFilter{
		Key:   domain.AttrEventType,
		Allow: []string{string(domain.EventOrderCreated)},
	}
	_ = bus.Subscribe(ctx, "billing", billingFilter, func(context.Context, domain.BusMessage) error {
		filtered.Add(1)
		return nil
	})
	_ = bus.Subscribe(ctx, "archive", nil, func(context.Context, domain.BusMessage) error {
		unfiltered.Add(1)
		return nil
	})

	for _, evType := range []domain.EventType{domain.EventOrderCreated, domain.EventOrderDeleted} {
		env, attrs := testEnvelope(t, evType)
		if _, err := bus.Publish(ctx, env, attrs); err != nil {
			t.Fatalf("publish %s: %v", evType, err)
		}
	}
	bus.Wait()

	if filtered.Load() != 1 {
		t.Errorf("filtered subscriber got %d messages, want 1 (ORDER_CREATED only)", filtered.Load())
	}
	if unfiltered.Load() != 2 {
		t.Errorf("unfiltered subscriber got %d messages, want 2", unfiltered.Load())
	}
}

func TestRedeliveryOnHandlerError(t *testing.T) {
	ctx := context.Background()
	bus := New()
	bus.Redeliveries = 2

	var attempts atomic.Int64
	_ = bus.Subscribe(ctx, "flaky", nil, func(context.Context, domain.BusMessage) error {
		if attempts.Add(1) == 1 {
			return errors.New("transient")
		}
		return nil
	})

	env, attrs := testEnvelope(t, domain.EventOrderCreated)
	if _, err := bus.Publish(ctx, env, attrs); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	bus.Wait()
	if attempts.Load() != 2 {
		t.Errorf("delivery attempts = %d, want 2 (one failure, one success)", attempts.Load())
	}
}
