package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/shop-order-service/internal/domain"
)

// CreateProduct — административное создание товара с публикацией события.
type CreateProduct struct {
	Catalog domain.CatalogAdmin
	Bus     domain.EventPublisher
}

func (uc CreateProduct) Execute(ctx context.Context, p domain.Product, email, requestID string) (domain.Product, error) {
	if p.Code == "" || p.Price < 0 {
		return domain.Product{}, domain.ErrValidation
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	created, err := uc.Catalog.Save(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("save product: %w", err)
	}
	if err := publishProductEvent(ctx, uc.Bus, domain.EventProductCreated, created, email, requestID); err != nil {
		return domain.Product{}, err
	}
	return created, nil
}

// DeleteProduct — административное удаление товара с публикацией события.
type DeleteProduct struct {
	Catalog domain.CatalogAdmin
	Bus     domain.EventPublisher
}

func (uc DeleteProduct) Execute(ctx context.Context, id, email, requestID string) (domain.Product, error) {
	deleted, err := uc.Catalog.Delete(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if err := publishProductEvent(ctx, uc.Bus, domain.EventProductDeleted, deleted, email, requestID); err != nil {
		return domain.Product{}, err
	}
	return deleted, nil
}

func publishProductEvent(ctx context.Context, bus domain.EventPublisher, t domain.EventType, p domain.Product, email, requestID string) error {
	env, err := domain.NewEnvelope(t, domain.ProductEvent{
		Email:        email,
		ProductID:    p.ID,
		ProductCode:  p.Code,
		ProductPrice: p.Price,
		RequestID:    requestID,
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
