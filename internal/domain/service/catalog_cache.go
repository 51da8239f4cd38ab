package service

import (
	"context"
	"time"
)

// CatalogCache is a read-through cache for shopper-facing catalog listings.
// Values are opaque encoded payloads; a miss returns found == false and no error.
type CatalogCache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate drops every cached catalog entry.
	Invalidate(ctx context.Context) error
}
