package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/shop-order-service/internal/domain"
)

type PostgresProductCatalog struct {
	Pool *pgxpool.Pool
}

func NewPostgresProductCatalog(pool *pgxpool.Pool) *PostgresProductCatalog {
	return &PostgresProductCatalog{Pool: pool}
}

func (r *PostgresProductCatalog) ResolveByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	rows, err := r.Pool.Query(ctx, `SELECT payload FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := []domain.Product{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresProductCatalog) Save(ctx context.Context, p domain.Product) (domain.Product, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return domain.Product{}, err
	}
	_, err = r.Pool.Exec(ctx, `INSERT INTO products(id, payload) VALUES($1, $2)
        ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`, p.ID, raw)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (r *PostgresProductCatalog) Delete(ctx context.Context, id string) (domain.Product, error) {
	var raw []byte
	err := r.Pool.QueryRow(ctx, `DELETE FROM products WHERE id = $1 RETURNING payload`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

var _ domain.ProductCatalog = (*PostgresProductCatalog)(nil)
var _ domain.CatalogAdmin = (*PostgresProductCatalog)(nil)
