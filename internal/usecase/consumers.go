package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/shop-order-service/internal/domain"
)

// eventTTL — время жизни записи архива. В исходной системе слагаемые 5 и 60
// секунд дают ровно 65; значение зафиксировано как есть.
const eventTTL = 65 * time.Second

// ArchiveEvent — безфильтровый потребитель шины: каждая доставка превращается
// в запись архива с отметкой времени получения. Запись не идемпотентна:
// повторная доставка того же сообщения даёт вторую запись.
type ArchiveEvent struct {
	Archive domain.EventArchive
	Now     func() time.Time // nil — time.Now
}

func (uc ArchiveEvent) Execute(ctx context.Context, msg domain.BusMessage) error {
	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	rec, err := buildEventRecord(msg, now())
	if err != nil {
		return err
	}
	if err := uc.Archive.Append(ctx, rec); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func buildEventRecord(msg domain.BusMessage, receivedAt time.Time) (domain.EventRecord, error) {
	ms := receivedAt.UnixMilli()
	rec := domain.EventRecord{
		SK:        fmt.Sprintf("%s#%d", msg.Envelope.EventType, ms),
		CreatedAt: ms,
		EventType: msg.Envelope.EventType,
		TTL:       receivedAt.Unix() + int64(eventTTL/time.Second),
	}
	switch msg.Envelope.EventType {
	case domain.EventOrderCreated, domain.EventOrderDeleted:
		var ev domain.OrderEvent
		if err := json.Unmarshal(msg.Envelope.Data, &ev); err != nil {
			return domain.EventRecord{}, fmt.Errorf("decode order event: %w", err)
		}
		rec.PK = "#order_" + ev.OrderID
		rec.Email = ev.Email
		rec.RequestID = ev.RequestID
		rec.Info = domain.EventRecordInfo{
			OrderID:      ev.OrderID,
			ProductCodes: ev.ProductCodes,
			MessageID:    msg.ID,
		}
	case domain.EventProductCreated, domain.EventProductDeleted:
		var ev domain.ProductEvent
		if err := json.Unmarshal(msg.Envelope.Data, &ev); err != nil {
			return domain.EventRecord{}, fmt.Errorf("decode product event: %w", err)
		}
		rec.PK = "#product_" + ev.ProductCode
		rec.Email = ev.Email
		rec.RequestID = ev.RequestID
		rec.Info = domain.EventRecordInfo{
			ProductID: ev.ProductID,
			Price:     ev.ProductPrice,
			MessageID: msg.ID,
		}
	default:
		return domain.EventRecord{}, fmt.Errorf("unknown event type %q", msg.Envelope.EventType)
	}
	return rec, nil
}

// BillOrder — потребитель с фильтром eventType=ORDER_CREATED. Доставка
// at-least-once, поэтому списание идемпотентно по идентификатору заказа.
type BillOrder struct {
	Ledger domain.BillingLedger
}

// Filter возвращает allow-list подписки биллинга.
func (BillOrder) Filter() *domain.AttributeFilter {
	return &domain.AttributeFilter{
		Key:   domain.AttrEventType,
		Allow: []string{string(domain.EventOrderCreated)},
	}
}

func (uc BillOrder) Execute(ctx context.Context, msg domain.BusMessage) error {
	var ev domain.OrderEvent
	if err := json.Unmarshal(msg.Envelope.Data, &ev); err != nil {
		return fmt.Errorf("decode order event: %w", err)
	}
	first, err := uc.Ledger.MarkBilled(ctx, ev.OrderID, ev.Billing.TotalPrice)
	if err != nil {
		return fmt.Errorf("mark billed: %w", err)
	}
	if !first {
		// повторная доставка — счёт уже выставлен
		return nil
	}
	log.Printf("billed order %s: %.2f %s", ev.OrderID, ev.Billing.TotalPrice, ev.Billing.Payment)
	return nil
}
