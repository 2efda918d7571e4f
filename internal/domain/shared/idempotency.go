package shared

import (
	"context"
	"time"
)

// IdempotencyStore records in-flight operation keys so that the same
// operation is not started twice while the first one is still running.
type IdempotencyStore interface {
	// MarkProcessed marks a key with a TTL.
	// Returns true if the key was newly marked, false if it already existed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key is currently marked
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release removes a key before its TTL expires
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for the upload guard
type IdempotencyConfig struct {
	// TTL bounds how long a key stays marked if the owner never releases it.
	// Default: 10 minutes
	TTL time.Duration

	// Enabled determines whether the guard is active
	// Default: true
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     10 * time.Minute,
		Enabled: true,
	}
}
