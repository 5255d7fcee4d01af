package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema — создать необходимые таблицы, если отсутствуют.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS orders (
  email text NOT NULL,
  order_id text NOT NULL,
  payload jsonb NOT NULL,
  PRIMARY KEY (email, order_id)
);
CREATE TABLE IF NOT EXISTS products (
  id text PRIMARY KEY,
  payload jsonb NOT NULL
);
-- архив append-only: уникальность намеренно не навязывается, повторная
-- доставка сообщения даёт вторую строку
CREATE TABLE IF NOT EXISTS order_events (
  pk text NOT NULL,
  sk text NOT NULL,
  payload jsonb NOT NULL,
  ttl bigint NOT NULL
);
CREATE INDEX IF NOT EXISTS order_events_pk_sk ON order_events(pk, sk);
CREATE INDEX IF NOT EXISTS order_events_ttl ON order_events(ttl);
CREATE TABLE IF NOT EXISTS billed_orders (
  order_id text PRIMARY KEY,
  total_price numeric NOT NULL,
  billed_at timestamptz NOT NULL DEFAULT now()
);`)
	return err
}
