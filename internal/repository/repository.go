// Package repository holds the order snapshot caches that sit in front of
// the remote orders API.
package repository

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

var (
	_ OrderCache = (*RedisOrderCache)(nil)
	_ OrderCache = (*MemoryOrderCache)(nil)
)

// OrderCache caches the full order list and individual orders.
type OrderCache interface {
	// GetAll returns the cached order list. ok is false on a miss.
	GetAll(ctx context.Context) (orders []models.Order, ok bool, err error)
	SetAll(ctx context.Context, orders []models.Order) error
	InvalidateAll(ctx context.Context) error

	// Get returns nil, nil on a miss.
	Get(ctx context.Context, id string) (*models.Order, error)
	Set(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
}

// NewOrderCache returns the cache named by cfg.Redis.Backend, or nil when
// list caching is disabled.
func NewOrderCache(cfg *config.Config, logger *logrus.Entry) (OrderCache, error) {
	if !cfg.Features.EnableListCaching {
		return nil, nil
	}

	switch cfg.Redis.Backend {
	case config.CacheBackendRedis, "":
		return NewRedisOrderCache(cfg.Redis, logger), nil
	case config.CacheBackendMemory:
		return NewMemoryOrderCache(cfg.Redis.TTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Redis.Backend)
	}
}
