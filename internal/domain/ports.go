package domain

import (
	"context"
	"time"
)

// ProductCatalog — порт чтения каталога товаров.
type ProductCatalog interface {
	// ResolveByIDs возвращает только существующие товары; отсутствие части
	// идентификаторов ошибкой не считается — сверять количество должен
	// вызывающий.
	ResolveByIDs(ctx context.Context, ids []string) ([]Product, error)
}

// CatalogAdmin — порт административных операций каталога.
type CatalogAdmin interface {
	Save(ctx context.Context, p Product) (Product, error)
	Delete(ctx context.Context, id string) (Product, error)
}

// OrderStore — порт персистентности заказов. Атомарность — только на уровне
// одной записи, межтабличных транзакций нет.
type OrderStore interface {
	Create(ctx context.Context, o Order) (Order, error)
	Get(ctx context.Context, email, orderID string) (Order, error)
	ListByEmail(ctx context.Context, email string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	// Delete возвращает удалённое значение; ErrNotFound, если записи нет.
	Delete(ctx context.Context, email, orderID string) (Order, error)
}

// EventArchive — порт append-only архива событий.
type EventArchive interface {
	Append(ctx context.Context, rec EventRecord) error
	// PurgeExpired удаляет записи с истёкшим TTL и возвращает их число.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// BillingLedger — порт учёта выставленных счетов.
type BillingLedger interface {
	// MarkBilled помечает заказ оплаченным; true — если пометка первая.
	MarkBilled(ctx context.Context, orderID string, totalPrice float64) (bool, error)
}

// AttributeFilter — allow-list по одному атрибуту сообщения. Nil-фильтр
// пропускает всё.
type AttributeFilter struct {
	Key   string
	Allow []string
}

// Match сообщает, проходит ли набор атрибутов фильтр.
func (f *AttributeFilter) Match(attrs map[string]string) bool {
	if f == nil {
		return true
	}
	v, ok := attrs[f.Key]
	if !ok {
		return false
	}
	for _, a := range f.Allow {
		if a == v {
			return true
		}
	}
	return false
}

// EventPublisher — порт публикации событий; возвращает идентификатор принятого
// сообщения. Подтверждение означает приём к доставке, а не завершение
// обработки подписчиками.
type EventPublisher interface {
	Publish(ctx context.Context, env Envelope, attrs map[string]string) (string, error)
}

// EventHandler — обработчик доставленного сообщения. Ошибка ведёт к повторной
// доставке (at-least-once), поэтому обработка обязана переносить дубликаты.
type EventHandler func(ctx context.Context, msg BusMessage) error

// EventSubscriber — порт подписки с независимым fan-out по подписчикам.
type EventSubscriber interface {
	Subscribe(ctx context.Context, name string, filter *AttributeFilter, handler EventHandler) error
}

// Общие доменные ошибки
var (
	ErrNotFound          = notFoundError("not found")
	ErrUnresolvedProduct = notFoundError("some product was not found")
	ErrValidation        = validationError("invalid data")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }
