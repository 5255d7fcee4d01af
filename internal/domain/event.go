package domain

import (
	"encoding/json"
	"fmt"
)

// EventType — тип события жизненного цикла заказа или товара.
type EventType string

const (
	EventOrderCreated   EventType = "ORDER_CREATED"
	EventOrderDeleted   EventType = "ORDER_DELETED"
	EventProductCreated EventType = "PRODUCT_CREATED"
	EventProductDeleted EventType = "PRODUCT_DELETED"
)

// AttrEventType — ключ атрибута сообщения, по которому фильтруются подписчики.
const AttrEventType = "eventType"

// Envelope — конверт события: тип плюс сериализованная полезная нагрузка.
type Envelope struct {
	EventType EventType       `json:"eventType"`
	Data      json.RawMessage `json:"data"`
}

// NewEnvelope — чистый конструктор конверта; вход не мутирует.
func NewEnvelope(t EventType, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", t, err)
	}
	return Envelope{EventType: t, Data: data}, nil
}

// OrderEvent — полезная нагрузка события заказа, публикуемая в шину.
type OrderEvent struct {
	Email        string   `json:"email"`
	OrderID      string   `json:"orderId"`
	RequestID    string   `json:"requestId"`
	Billing      Billing  `json:"billing"`
	Shipping     Shipping `json:"shipping"`
	ProductCodes []string `json:"productCodes"`
}

// ProductEvent — полезная нагрузка события товара.
type ProductEvent struct {
	Email        string  `json:"email"`
	ProductID    string  `json:"productId"`
	ProductCode  string  `json:"productCode"`
	ProductPrice float64 `json:"productPrice"`
	RequestID    string  `json:"requestId"`
}

// BusMessage — единица доставки шины: идентификатор сообщения, атрибуты
// и конверт. Атрибуты переносятся внутри сообщения, фильтрация по ним —
// на стороне подписчика.
type BusMessage struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes"`
	Envelope   Envelope          `json:"envelope"`
}

// EventRecordInfo — детали события в записи архива.
type EventRecordInfo struct {
	OrderID      string   `json:"orderId,omitempty"`
	ProductID    string   `json:"productId,omitempty"`
	Price        float64  `json:"price,omitempty"`
	ProductCodes []string `json:"productCodes,omitempty"`
	MessageID    string   `json:"messageId"`
}

// EventRecord — неизменяемая запись архива событий. PK — "#order_<id>" либо
// "#product_<code>", SK — "<eventType>#<ms получения>". TTL — unix-время в
// секундах, после которого запись подлежит удалению.
type EventRecord struct {
	PK        string          `json:"pk"`
	SK        string          `json:"sk"`
	Email     string          `json:"email"`
	CreatedAt int64           `json:"createdAt"`
	RequestID string          `json:"requestId"`
	EventType EventType       `json:"eventType"`
	Info      EventRecordInfo `json:"info"`
	TTL       int64           `json:"ttl"`
}
