package natsstan

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	stan "github.com/nats-io/stan.go"

	"github.com/example/shop-order-service/internal/domain"
)

// Publisher — публикация конвертов в NATS Streaming. Атрибуты переносятся
// внутри сообщения шины; фильтрация — на стороне подписчика.
type Publisher struct {
	Conn    stan.Conn
	Subject string
}

func (p *Publisher) Publish(_ context.Context, env domain.Envelope, attrs map[string]string) (string, error) {
	msg := domain.BusMessage{ID: uuid.NewString(), Attributes: attrs, Envelope: env}
	b, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	// синхронная публикация: подтверждение — приём к доставке, не обработка
	if err := p.Conn.Publish(p.Subject, b); err != nil {
		return "", err
	}
	return msg.ID, nil
}

var _ domain.EventPublisher = (*Publisher)(nil)
