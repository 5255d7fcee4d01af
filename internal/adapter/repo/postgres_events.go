package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shop-order-service/internal/domain"
)

// PostgresEventArchive — append-only архив событий. Вставка без уникального
// ограничения: повторная доставка сообщения даёт вторую строку.
type PostgresEventArchive struct {
	Pool *pgxpool.Pool
}

func NewPostgresEventArchive(pool *pgxpool.Pool) *PostgresEventArchive {
	return &PostgresEventArchive{Pool: pool}
}

func (r *PostgresEventArchive) Append(ctx context.Context, rec domain.EventRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = r.Pool.Exec(ctx, `INSERT INTO order_events(pk, sk, payload, ttl) VALUES($1, $2, $3, $4)`,
		rec.PK, rec.SK, raw, rec.TTL)
	return err
}

func (r *PostgresEventArchive) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	ct, err := r.Pool.Exec(ctx, `DELETE FROM order_events WHERE ttl <= $1`, now.Unix())
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

var _ domain.EventArchive = (*PostgresEventArchive)(nil)
