// Package cache keeps a short-lived Redis copy of the active discount catalog
// per location, shared by API replicas.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/hotel-pricing/internal/model"
)

const (
	keyPrefix  = "pricing:catalog:"
	versionKey = keyPrefix + "version"
)

// RedisClient is the subset of redis.Cmdable used by the cache.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// CandidateLister loads the coarse-filtered discount candidates for a location.
type CandidateLister interface {
	ListCandidates(ctx context.Context, location model.Location) ([]model.Discount, error)
}

// CatalogCache is a read-through cache over a CandidateLister.
// Redis failures never fail a read; the source is queried instead.
//
// Entries are keyed by a generation counter that Invalidate bumps. A snapshot loaded
// before an invalidation is written under the old generation and never read again.
type CatalogCache struct {
	client RedisClient
	source CandidateLister
	ttl    time.Duration
}

// NewCatalogCache creates a CatalogCache. Entries live for ttl.
func NewCatalogCache(client RedisClient, source CandidateLister, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		source: source,
		ttl:    ttl,
	}
}

// Key returns the cache key of a location's catalog at a generation.
func Key(location model.Location, generation int64) string {
	return fmt.Sprintf("%s%s:v%d", keyPrefix, location, generation)
}

// ListCandidates returns the cached catalog for location, loading it from the source on a miss.
func (c *CatalogCache) ListCandidates(ctx context.Context, location model.Location) ([]model.Discount, error) {
	generation, err := c.generation(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog cache generation unavailable, using database")
		return c.source.ListCandidates(ctx, location)
	}
	key := Key(location, generation)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var discounts []model.Discount
		jsonErr := json.Unmarshal(raw, &discounts)
		if jsonErr == nil {
			return discounts, nil
		}
		log.Warn().Err(jsonErr).Str("key", key).Msg("discarding undecodable catalog cache entry")
	case errors.Is(err, redis.Nil):
	default:
		log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed, using database")
	}

	discounts, err := c.source.ListCandidates(ctx, location)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(discounts)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to encode catalog for cache")
		return discounts, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}

	return discounts, nil
}

// Invalidate retires every cached catalog. Called after any discount or usage change.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	previous, err := c.client.Incr(ctx, versionKey).Result()
	if err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
		return
	}
	previous--

	keys := []string{Key(model.LocationSiteA, previous), Key(model.LocationSiteB, previous)}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Debug().Err(err).Strs("keys", keys).Msg("retired catalog cache entries left to expire")
	}
}

func (c *CatalogCache) generation(ctx context.Context) (int64, error) {
	generation, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}
