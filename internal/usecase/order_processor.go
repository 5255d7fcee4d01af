package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/shop-order-service/internal/domain"
)

// CreateOrderRequest — входные данные оформления заказа; валидация формы
// выполнена внешним слоем маршрутизации.
type CreateOrderRequest struct {
	Email      string
	ProductIDs []string
	Payment    domain.PaymentType
	Shipping   domain.Shipping
	RequestID  string
}

// CreateOrder — оформление заказа: сверка с каталогом, сборка, запись и
// публикация события.
type CreateOrder struct {
	Catalog domain.ProductCatalog
	Store   domain.OrderStore
	Bus     domain.EventPublisher
}

func (uc CreateOrder) Execute(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	products, err := uc.Catalog.ResolveByIDs(ctx, req.ProductIDs)
	if err != nil {
		return domain.Order{}, fmt.Errorf("resolve products: %w", err)
	}
	if len(products) < len(req.ProductIDs) {
		return domain.Order{}, domain.ErrUnresolvedProduct
	}

	order := buildOrder(req, products)

	// Запись и публикация выполняются параллельно и ожидаются вместе: отказ
	// любой из них — отказ всего запроса. Компенсации нет: при отказе одной
	// публикации заказ остаётся записанным без события.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := uc.Store.Create(gctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return publishOrderEvent(gctx, uc.Bus, domain.EventOrderCreated, order, req.RequestID)
	})
	if err := g.Wait(); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// buildOrder — чистый конструктор заказа: снимок цен каталога, сумма позиций,
// новый идентификатор и отметка времени.
func buildOrder(req CreateOrderRequest, products []domain.Product) domain.Order {
	items := make([]domain.OrderItem, 0, len(products))
	var total float64
	for _, p := range products {
		total += p.Price
		items = append(items, domain.OrderItem{Code: p.Code, Price: p.Price})
	}
	return domain.Order{
		Email:     req.Email,
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UnixMilli(),
		Products:  items,
		Billing:   domain.Billing{Payment: req.Payment, TotalPrice: total},
		Shipping:  req.Shipping,
	}
}

func publishOrderEvent(ctx context.Context, bus domain.EventPublisher, t domain.EventType, o domain.Order, requestID string) error {
	env, err := domain.NewEnvelope(t, domain.OrderEvent{
		Email:        o.Email,
		OrderID:      o.ID,
		RequestID:    requestID,
		Billing:      o.Billing,
		Shipping:     o.Shipping,
		ProductCodes: o.ProductCodes(),
	})
	if err != nil {
		return err
	}
	attrs := map[string]string{domain.AttrEventType: string(t)}
	if _, err := bus.Publish(ctx, env, attrs); err != nil {
		return fmt.Errorf("publish %s: %w", t, err)
	}
	return nil
}

// GetOrder — получить заказ по владельцу и идентификатору.
type GetOrder struct {
	Store domain.OrderStore
}

func (uc GetOrder) Execute(ctx context.Context, email, orderID string) (domain.Order, error) {
	return uc.Store.Get(ctx, email, orderID)
}

// ListOrders — список заказов владельца либо всех заказов.
type ListOrders struct {
	Store domain.OrderStore
}

func (uc ListOrders) Execute(ctx context.Context, email string) ([]domain.Order, error) {
	if email == "" {
		return uc.Store.ListAll(ctx)
	}
	return uc.Store.ListByEmail(ctx, email)
}

// DeleteOrder — удаление заказа с публикацией события. Отсутствие заказа
// обрывает операцию до публикации.
type DeleteOrder struct {
	Store domain.OrderStore
	Bus   domain.EventPublisher
}

func (uc DeleteOrder) Execute(ctx context.Context, email, orderID, requestID string) (domain.Order, error) {
	order, err := uc.Store.Delete(ctx, email, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := publishOrderEvent(ctx, uc.Bus, domain.EventOrderDeleted, order, requestID); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}
