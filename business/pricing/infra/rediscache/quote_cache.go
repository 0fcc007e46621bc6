// Package rediscache provides a Redis-backed quote cache for sharing fresh
// quotes across engine instances.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savexlabs/arb-engine/business/pricing/domain"
	"github.com/savexlabs/arb-engine/internal/apperror"
)

const keyPrefix = "arbengine:quote:"

// QuoteCache stores quotes in Redis with a TTL. Misses and expirations are
// reported as absent, not as errors.
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a QuoteCache with the given TTL.
func New(client *redis.Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{client: client, ttl: ttl}
}

// Get fetches the cached quote for symbol.
func (c *QuoteCache) Get(ctx context.Context, symbol string) (domain.ExternalPrice, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+symbol).Bytes()
	if err == redis.Nil {
		return domain.ExternalPrice{}, false, nil
	}
	if err != nil {
		return domain.ExternalPrice{}, false, apperror.External(apperror.CodePriceCacheMiss, symbol, err)
	}

	var price domain.ExternalPrice
	if err := json.Unmarshal(raw, &price); err != nil {
		return domain.ExternalPrice{}, false, apperror.External(apperror.CodePriceCacheMiss, symbol, err)
	}
	return price, true, nil
}

// Put stores a quote under its symbol with the configured TTL.
func (c *QuoteCache) Put(ctx context.Context, price domain.ExternalPrice) error {
	raw, err := json.Marshal(price)
	if err != nil {
		return fmt.Errorf("marshal quote %s: %w", price.Symbol, err)
	}
	if err := c.client.Set(ctx, keyPrefix+price.Symbol, raw, c.ttl).Err(); err != nil {
		return apperror.External(apperror.CodeStoreWriteFailed, price.Symbol, err)
	}
	return nil
}
