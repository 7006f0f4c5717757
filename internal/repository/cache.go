package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/config"
	"github.com/tm-acme-shop/acme-shop-orders-admin/internal/models"
)

const (
	orderKeyPrefix  = "orders-admin:order:"
	allOrdersKey    = "orders-admin:orders:all"
	defaultCacheTTL = 30 * time.Second
)

// RedisOrderCache implements OrderCache using Redis.
type RedisOrderCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *logrus.Entry
}

// NewRedisOrderCache creates a new Redis-based order cache.
func NewRedisOrderCache(cfg config.RedisConfig, logger *logrus.Entry) *RedisOrderCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisOrderCacheWithClient(client, cfg.TTL, logger)
}

// NewRedisOrderCacheWithClient wraps an existing client.
func NewRedisOrderCacheWithClient(client redis.UniversalClient, ttl time.Duration, logger *logrus.Entry) *RedisOrderCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisOrderCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Ping checks the Redis connection.
func (c *RedisOrderCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *RedisOrderCache) Close() error {
	return c.client.Close()
}

func (c *RedisOrderCache) GetAll(ctx context.Context) ([]models.Order, bool, error) {
	var orders []models.Order
	hit, err := c.getJSON(ctx, allOrdersKey, &orders)
	if err != nil || !hit {
		return nil, false, err
	}

	c.logger.WithField("count", len(orders)).Debug("Order list cache hit")
	return orders, true, nil
}

func (c *RedisOrderCache) SetAll(ctx context.Context, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	return c.setJSON(ctx, allOrdersKey, orders)
}

func (c *RedisOrderCache) InvalidateAll(ctx context.Context) error {
	return c.del(ctx, allOrdersKey)
}

// Get retrieves an order from cache.
func (c *RedisOrderCache) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	hit, err := c.getJSON(ctx, orderKeyPrefix+id, &order)
	if err != nil || !hit {
		return nil, err
	}

	c.logger.WithField("order_id", id).Debug("Cache hit")
	return &order, nil
}

// Set stores an order in cache.
func (c *RedisOrderCache) Set(ctx context.Context, order *models.Order) error {
	return c.setJSON(ctx, orderKeyPrefix+order.ID, order)
}

// Delete removes an order from cache.
func (c *RedisOrderCache) Delete(ctx context.Context, id string) error {
	return c.del(ctx, orderKeyPrefix+id)
}

func (c *RedisOrderCache) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.WithField("key", key).Debug("Cache miss")
		return false, nil
	}
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Error("Cache get error")
		return false, err
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisOrderCache) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Error("Cache set error")
		return err
	}

	c.logger.WithFields(logrus.Fields{
		"key": key,
		"ttl": c.ttl.String(),
	}).Debug("Cached")
	return nil
}

func (c *RedisOrderCache) del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.WithFields(logrus.Fields{
			"key":   key,
			"error": err.Error(),
		}).Error("Cache delete error")
		return err
	}
	return nil
}
