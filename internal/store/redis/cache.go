package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/asiburr76-gif/Advanecd-AI-Powered-Link-Shotener-Tool/internal/enrich"
)

// DefaultEnrichmentTTL is how long a model answer is reused for the same URL.
const DefaultEnrichmentTTL = 24 * time.Hour

// EnrichmentCache remembers successful enrichments per URL.
type EnrichmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEnrichmentCache(client *redis.Client, ttl time.Duration) *EnrichmentCache {
	if ttl <= 0 {
		ttl = DefaultEnrichmentTTL
	}
	return &EnrichmentCache{client: client, ttl: ttl}
}

// Lookup returns the cached enrichment for url. A miss is (zero, false, nil).
func (c *EnrichmentCache) Lookup(ctx context.Context, url string) (enrich.Enrichment, bool, error) {
	data, err := c.client.Get(ctx, EnrichmentKey(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return enrich.Enrichment{}, false, nil // Cache miss
		}
		return enrich.Enrichment{}, false, fmt.Errorf("failed to get cached enrichment: %w", err)
	}

	var e enrich.Enrichment
	if err := json.Unmarshal(data, &e); err != nil {
		return enrich.Enrichment{}, false, fmt.Errorf("failed to unmarshal cached enrichment: %w", err)
	}
	return e, true, nil
}

func (c *EnrichmentCache) Remember(ctx context.Context, url string, e enrich.Enrichment) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal enrichment: %w", err)
	}
	if err := c.client.Set(ctx, EnrichmentKey(url), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache enrichment: %w", err)
	}
	return nil
}

// Flush removes every cached enrichment
func (c *EnrichmentCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, KeyPrefixEnrichment+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}
