// Package cache is a read-through cache of single products backed by Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/resale_market/internal/models"
)

func New(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

type ProductCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = TTLProduct
	}
	return &ProductCache{RDB: rdb, TTL: ttl}
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf(KeyProduct, id.String())
}

// Get reports a miss both when the key is absent and when Redis fails; the
// error is returned so callers can log it.
func (c *ProductCache) Get(ctx context.Context, id uuid.UUID) (*models.Product, bool, error) {
	raw, err := c.RDB.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *ProductCache) Set(ctx context.Context, p *models.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.RDB.Set(ctx, productKey(p.ID), raw, c.TTL).Err()
}

func (c *ProductCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.RDB.Del(ctx, productKey(id)).Err()
}
