package natsstan

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	stan "github.com/nats-io/stan.go"

	"github.com/example/shop-order-service/internal/domain"
)

// Subscriber — подписка на сообщения шины через NATS Streaming. Каждый вызов
// Subscribe открывает отдельное соединение с собственным durable-именем и
// своей queue-группой: fan-out по потребителям независим.
type Subscriber struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	Durable   string
}

func (s *Subscriber) Subscribe(ctx context.Context, name string, filter *domain.AttributeFilter, handler domain.EventHandler) error {
	clientID := s.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("shop-%s-%d", name, time.Now().UnixNano())
	} else {
		clientID = clientID + "-" + name
	}
	sc, err := stan.Connect(s.ClusterID, clientID, stan.NatsURL(s.URL))
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		sc.Close()
	}()
	_, err = sc.QueueSubscribe(s.Subject, name+"-workers", func(m *stan.Msg) {
		var msg domain.BusMessage
		if err := json.Unmarshal(m.Data, &msg); err != nil {
			// битое сообщение переотправлять бессмысленно
			log.Printf("%s: invalid bus message: %v", name, err)
			_ = m.Ack()
			return
		}
		if !filter.Match(msg.Attributes) {
			// не наш тип события — подтверждаем и пропускаем
			_ = m.Ack()
			return
		}
		hCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := handler(hCtx, msg); err != nil {
			// не подтверждаем, даём сообщению переотправиться
			log.Printf("%s handler error: %v", name, err)
			return
		}
		if err := m.Ack(); err != nil {
			log.Printf("%s ack failed: %v", name, err)
		}
	}, stan.DurableName(s.Durable+"-"+name), stan.SetManualAckMode(), stan.AckWait(10*time.Second), stan.DeliverAllAvailable())
	return err
}

var _ domain.EventSubscriber = (*Subscriber)(nil)
