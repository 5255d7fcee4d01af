// Package memstore — реализации портов хранения в памяти; используются в
// тестах и в режиме BACKEND=memory без внешнего Postgres.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/shop-order-service/internal/domain"
)

type MemoryOrderStore struct {
	mu    sync.RWMutex
	store map[string]domain.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{store: make(map[string]domain.Order)}
}

func orderKey(email, orderID string) string { return email + "#" + orderID }

func (s *MemoryOrderStore) Create(_ context.Context, o domain.Order) (domain.Order, error) {
	s.mu.Lock()
	s.store[orderKey(o.Email, o.ID)] = o
	s.mu.Unlock()
	return o, nil
}

func (s *MemoryOrderStore) Get(_ context.Context, email, orderID string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.store[orderKey(email, orderID)]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (s *MemoryOrderStore) ListByEmail(_ context.Context, email string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := []domain.Order{}
	for _, o := range s.store {
		if o.Email == email {
			orders = append(orders, o)
		}
	}
	sortOrders(orders)
	return orders, nil
}

func (s *MemoryOrderStore) ListAll(_ context.Context) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]domain.Order, 0, len(s.store))
	for _, o := range s.store {
		orders = append(orders, o)
	}
	sortOrders(orders)
	return orders, nil
}

func (s *MemoryOrderStore) Delete(_ context.Context, email, orderID string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := orderKey(email, orderID)
	o, ok := s.store[k]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	delete(s.store, k)
	return o, nil
}

func sortOrders(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Email != orders[j].Email {
			return orders[i].Email < orders[j].Email
		}
		return orders[i].ID < orders[j].ID
	})
}

type MemoryProductCatalog struct {
	mu    sync.RWMutex
	store map[string]domain.Product
}

func NewMemoryProductCatalog() *MemoryProductCatalog {
	return &MemoryProductCatalog{store: make(map[string]domain.Product)}
}

func (c *MemoryProductCatalog) ResolveByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	products := []domain.Product{}
	for _, id := range ids {
		if p, ok := c.store[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (c *MemoryProductCatalog) Save(_ context.Context, p domain.Product) (domain.Product, error) {
	c.mu.Lock()
	c.store[p.ID] = p
	c.mu.Unlock()
	return p, nil
}

func (c *MemoryProductCatalog) Delete(_ context.Context, id string) (domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.store[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	delete(c.store, id)
	return p, nil
}

// MemoryEventArchive — append-only архив в памяти; как и у табличного
// варианта, дедупликации нет.
type MemoryEventArchive struct {
	mu   sync.RWMutex
	recs []domain.EventRecord
}

func NewMemoryEventArchive() *MemoryEventArchive {
	return &MemoryEventArchive{}
}

func (a *MemoryEventArchive) Append(_ context.Context, rec domain.EventRecord) error {
	a.mu.Lock()
	a.recs = append(a.recs, rec)
	a.mu.Unlock()
	return nil
}

func (a *MemoryEventArchive) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.recs[:0]
	var purged int64
	for _, rec := range a.recs {
		if rec.TTL <= now.Unix() {
			purged++
			continue
		}
		kept = append(kept, rec)
	}
	a.recs = kept
	return purged, nil
}

// Records возвращает копию содержимого архива.
func (a *MemoryEventArchive) Records() []domain.EventRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.EventRecord, len(a.recs))
	copy(out, a.recs)
	return out
}

type MemoryBillingLedger struct {
	mu     sync.Mutex
	billed map[string]float64
}

func NewMemoryBillingLedger() *MemoryBillingLedger {
	return &MemoryBillingLedger{billed: make(map[string]float64)}
}

func (l *MemoryBillingLedger) MarkBilled(_ context.Context, orderID string, totalPrice float64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.billed[orderID]; ok {
		return false, nil
	}
	l.billed[orderID] = totalPrice
	return true, nil
}

// Billed возвращает сумму по заказу и признак наличия пометки.
func (l *MemoryBillingLedger) Billed(orderID string) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, ok := l.billed[orderID]
	return v, ok
}

var (
	_ domain.OrderStore     = (*MemoryOrderStore)(nil)
	_ domain.ProductCatalog = (*MemoryProductCatalog)(nil)
	_ domain.CatalogAdmin   = (*MemoryProductCatalog)(nil)
	_ domain.EventArchive   = (*MemoryEventArchive)(nil)
	_ domain.BillingLedger  = (*MemoryBillingLedger)(nil)
)
