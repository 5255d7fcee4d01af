package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shop-order-service/internal/domain"
)

// PostgresBillingLedger — учёт выставленных счетов. Первенство пометки
// решается через ON CONFLICT DO NOTHING по идентификатору заказа.
type PostgresBillingLedger struct {
	Pool *pgxpool.Pool
}

func NewPostgresBillingLedger(pool *pgxpool.Pool) *PostgresBillingLedger {
	return &PostgresBillingLedger{Pool: pool}
}

func (r *PostgresBillingLedger) MarkBilled(ctx context.Context, orderID string, totalPrice float64) (bool, error) {
	ct, err := r.Pool.Exec(ctx, `INSERT INTO billed_orders(order_id, total_price) VALUES($1, $2)
        ON CONFLICT (order_id) DO NOTHING`, orderID, totalPrice)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

var _ domain.BillingLedger = (*PostgresBillingLedger)(nil)
