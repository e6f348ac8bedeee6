package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gigbay/marketplace-api/internal/api/metrics"
)

const defaultDedupTTL = 24 * time.Hour

// DedupChecker short-circuits redelivered payment confirmations using Redis.
// Key format: dedup:payment:<intent_ref>. Expiry is safe: after the key is
// gone, a redelivery falls through to the equality-guarded completion write,
// which is a no-op for an already-completed order.
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
// If ttl <= 0, defaultDedupTTL is used.
func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

// IsDuplicate reports whether this confirmation has already been applied.
func (d *DedupChecker) IsDuplicate(ctx context.Context, intentRef string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(intentRef)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	if n > 0 {
		metrics.ConfirmationsDedupTotal.WithLabelValues("hit").Inc()
		return true, nil
	}
	metrics.ConfirmationsDedupTotal.WithLabelValues("miss").Inc()
	return false, nil
}

// Mark records that this confirmation has been applied (expires after ttl).
func (d *DedupChecker) Mark(ctx context.Context, intentRef string) error {
	return d.client.Set(ctx, d.key(intentRef), "1", d.ttl).Err()
}

func (d *DedupChecker) key(intentRef string) string {
	return fmt.Sprintf("dedup:payment:%s", intentRef)
}
