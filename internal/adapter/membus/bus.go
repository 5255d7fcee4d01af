// Package membus — шина в памяти с теми же семантиками, что у NATS-адаптера:
// независимый fan-out по подписчикам, allow-list фильтр по атрибуту,
// повторная доставка при ошибке обработчика.
package membus

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/shop-order-service/internal/domain"
)

type subscription struct {
	name    string
	filter  *domain.AttributeFilter
	handler domain.EventHandler
}

type Bus struct {
	// Redeliveries — число дополнительных попыток после ошибки обработчика.
	Redeliveries   int
	DeliverTimeout time.Duration

	mu       sync.RWMutex
	subs     []subscription
	inflight sync.WaitGroup
}

func New() *Bus {
	return &Bus{Redeliveries: 2, DeliverTimeout: 5 * time.Second}
}

func (b *Bus) Publish(_ context.Context, env domain.Envelope, attrs map[string]string) (string, error) {
	// конверт сериализуется при публикации: подписчики получают независимые копии
	raw, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	msg := domain.BusMessage{ID: uuid.NewString(), Attributes: attrs}
	if err := json.Unmarshal(raw, &msg.Envelope); err != nil {
		return "", err
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	// подтверждение — приём к доставке; обработка подписчиками асинхронна,
	// их отказы издателю не видны
	for _, sub := range subs {
		if !sub.filter.Match(msg.Attributes) {
			continue
		}
		b.inflight.Add(1)
		go func(sub subscription) {
			defer b.inflight.Done()
			b.deliver(sub, msg)
		}(sub)
	}
	return msg.ID, nil
}

func (b *Bus) deliver(sub subscription, msg domain.BusMessage) {
	for attempt := 0; attempt <= b.Redeliveries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), b.DeliverTimeout)
		err := sub.handler(ctx, msg)
		cancel()
		if err == nil {
			return
		}
		log.Printf("%s handler error: %v", sub.name, err)
	}
}

func (b *Bus) Subscribe(_ context.Context, name string, filter *domain.AttributeFilter, handler domain.EventHandler) error {
	b.mu.Lock()
	b.subs = append(b.subs, subscription{name: name, filter: filter, handler: handler})
	b.mu.Unlock()
	return nil
}

// Wait блокируется до завершения всех начатых доставок.
func (b *Bus) Wait() { b.inflight.Wait() }

var (
	_ domain.EventPublisher  = (*Bus)(nil)
	_ domain.EventSubscriber = (*Bus)(nil)
)
