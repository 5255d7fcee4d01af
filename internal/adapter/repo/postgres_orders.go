package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shop-order-service/internal/domain"
)

type PostgresOrderStore struct {
	Pool *pgxpool.Pool
}

func NewPostgresOrderStore(pool *pgxpool.Pool) *PostgresOrderStore {
	return &PostgresOrderStore{Pool: pool}
}

func (r *PostgresOrderStore) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return domain.Order{}, err
	}
	_, err = r.Pool.Exec(ctx, `INSERT INTO orders(email, order_id, payload) VALUES($1, $2, $3)
        ON CONFLICT (email, order_id) DO UPDATE SET payload = EXCLUDED.payload`, o.Email, o.ID, raw)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *PostgresOrderStore) Get(ctx context.Context, email, orderID string) (domain.Order, error) {
	var raw []byte
	err := r.Pool.QueryRow(ctx, `SELECT payload FROM orders WHERE email = $1 AND order_id = $2`,
		email, orderID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	var o domain.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *PostgresOrderStore) ListByEmail(ctx context.Context, email string) ([]domain.Order, error) {
	return r.list(ctx, `SELECT payload FROM orders WHERE email = $1 ORDER BY order_id`, email)
}

func (r *PostgresOrderStore) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, `SELECT payload FROM orders ORDER BY email, order_id`)
}

func (r *PostgresOrderStore) list(ctx context.Context, sql string, args ...any) ([]domain.Order, error) {
	rows, err := r.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []domain.Order{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var o domain.Order
		if err := json.Unmarshal(raw, &o); err != nil {
			// пропускаем битые записи, не прерывая выборку
			continue
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *PostgresOrderStore) Delete(ctx context.Context, email, orderID string) (domain.Order, error) {
	var raw []byte
	err := r.Pool.QueryRow(ctx, `DELETE FROM orders WHERE email = $1 AND order_id = $2 RETURNING payload`,
		email, orderID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	var o domain.Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

var _ domain.OrderStore = (*PostgresOrderStore)(nil)
