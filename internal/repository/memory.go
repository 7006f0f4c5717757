package repository

import (
	"context"
	"sync"
	"time"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

// MemoryOrderCache is a process-local OrderCache. Entries expire after ttl;
// a zero ttl keeps them until invalidated.
type MemoryOrderCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time

	all        []models.Order
	allExpires time.Time
	hasAll     bool

	orders map[string]memoryEntry
}

type memoryEntry struct {
	order   models.Order
	expires time.Time
}

// NewMemoryOrderCache creates an empty in-memory cache.
func NewMemoryOrderCache(ttl time.Duration) *MemoryOrderCache {
	return &MemoryOrderCache{
		ttl:    ttl,
		now:    time.Now,
		orders: make(map[string]memoryEntry),
	}
}

func (c *MemoryOrderCache) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *MemoryOrderCache) expired(at time.Time) bool {
	return !at.IsZero() && !c.now().Before(at)
}

func (c *MemoryOrderCache) GetAll(ctx context.Context) ([]models.Order, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.hasAll || c.expired(c.allExpires) {
		return nil, false, nil
	}
	return cloneOrders(c.all), true, nil
}

func (c *MemoryOrderCache) SetAll(ctx context.Context, orders []models.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.all = cloneOrders(orders)
	c.allExpires = c.expiry()
	c.hasAll = true
	return nil
}

func (c *MemoryOrderCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.all = nil
	c.hasAll = false
	return nil
}

func (c *MemoryOrderCache) Get(ctx context.Context, id string) (*models.Order, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.orders[id]
	if !ok || c.expired(entry.expires) {
		return nil, nil
	}
	order := cloneOrder(entry.order)
	return &order, nil
}

func (c *MemoryOrderCache) Set(ctx context.Context, order *models.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.orders[order.ID] = memoryEntry{order: cloneOrder(*order), expires: c.expiry()}
	return nil
}

func (c *MemoryOrderCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.orders, id)
	return nil
}

func cloneOrders(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, o := range orders {
		out[i] = cloneOrder(o)
	}
	return out
}

func cloneOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}
