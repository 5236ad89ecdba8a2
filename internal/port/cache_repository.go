package port

import (
	"context"
	"time"
)

type CacheRepository interface {
	// GetAvailability returns the cached availability verdict for a
	// product. found is false on a cache miss.
	GetAvailability(ctx context.Context, productID string) (available bool, found bool, err error)

	// SetAvailability caches an availability verdict with a TTL.
	SetAvailability(ctx context.Context, productID string, available bool, ttl time.Duration) error
}
