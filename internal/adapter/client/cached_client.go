package client

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/batchstock/internal/core/domain"
	"github.com/example/batchstock/internal/port"
)

// CachedAvailabilityClient wraps an inventory client with a short-TTL cache
// for the availability pre-check. The pre-check is best effort (stock can
// move between check and deduction anyway), so a slightly stale verdict is
// acceptable. Deductions always hit the peer.
type CachedAvailabilityClient struct {
	inner  port.InventoryClient
	cache  port.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedAvailabilityClient(inner port.InventoryClient, cache port.CacheRepository, ttl time.Duration, logger *zap.Logger) *CachedAvailabilityClient {
	return &CachedAvailabilityClient{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (c *CachedAvailabilityClient) CheckAvailability(ctx context.Context, productID string) error {
	available, found, err := c.cache.GetAvailability(ctx, productID)
	if err != nil {
		// Cache trouble never fails the check; fall through to the peer.
		c.logger.Warn("availability cache read failed", zap.String("product_id", productID), zap.Error(err))
	} else if found {
		if available {
			return nil
		}
		return fmt.Errorf("%w: product %s has no inventory (cached)", domain.ErrNotFound, productID)
	}

	checkErr := c.inner.CheckAvailability(ctx, productID)
	if err := c.cache.SetAvailability(ctx, productID, checkErr == nil, c.ttl); err != nil {
		c.logger.Warn("availability cache write failed", zap.String("product_id", productID), zap.Error(err))
	}
	return checkErr
}

func (c *CachedAvailabilityClient) DeductInventory(ctx context.Context, productID string, quantity int64) error {
	return c.inner.DeductInventory(ctx, productID, quantity)
}
