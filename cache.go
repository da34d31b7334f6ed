// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package colormosaic

import (
	"context"
	"errors"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// TileCache caches resolved tiles by a key (usually the hex value of the
// color).
//
// Implementations must be safe for concurrent use.
type TileCache interface {
	// Get returns the tile and true if found. A miss is not an error.
	Get(ctx context.Context, key string) (ResolvedTile, bool, error)
	Set(ctx context.Context, key string, tile ResolvedTile) error
}

// MemoryTileCache is a TileCache backed by go-cache.
type MemoryTileCache struct {
	c *cache.Cache
}

// NewMemoryTileCache returns a new in memory cache. Entries expire after ttl,
// ttl ≤ 0 means they never expire.
func NewMemoryTileCache(ttl time.Duration) *MemoryTileCache {
	if ttl <= 0 {
		return &MemoryTileCache{c: cache.New(cache.NoExpiration, 0)}
	}
	return &MemoryTileCache{c: cache.New(ttl, 2*ttl)}
}

// Get implements TileCache.
func (m *MemoryTileCache) Get(ctx context.Context, key string) (ResolvedTile, bool, error) {
	val, found := m.c.Get(key)
	if !found {
		return "", false, nil
	}
	tile, ok := val.(ResolvedTile)
	if !ok {
		return "", false, fmt.Errorf("Invalid cache entry for %s: %T", key, val)
	}
	return tile, true, nil
}

// Set implements TileCache.
func (m *MemoryTileCache) Set(ctx context.Context, key string, tile ResolvedTile) error {
	m.c.Set(key, tile, cache.DefaultExpiration)
	return nil
}

// Len returns the number of entries in the cache, may include expired ones.
func (m *MemoryTileCache) Len() int {
	return m.c.ItemCount()
}

// RedisKeyPrefix is the prefix of all keys written by RedisTileCache.
const RedisKeyPrefix = "tile:"

// RedisTileCache is a TileCache backed by redis so that several processes can
// share resolved tiles.
type RedisTileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTileCache returns a new redis cache given the client options.
func NewRedisTileCache(opts *redis.Options, ttl time.Duration) *RedisTileCache {
	return &RedisTileCache{client: redis.NewClient(opts), ttl: ttl}
}

// Ping checks the connection to redis.
func (r *RedisTileCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get implements TileCache.
func (r *RedisTileCache) Get(ctx context.Context, key string) (ResolvedTile, bool, error) {
	val, err := r.client.Get(ctx, RedisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return ResolvedTile(val), true, nil
}

// Set implements TileCache.
func (r *RedisTileCache) Set(ctx context.Context, key string, tile ResolvedTile) error {
	return r.client.Set(ctx, RedisKeyPrefix+key, string(tile), r.ttl).Err()
}

// Close closes the redis client.
func (r *RedisTileCache) Close() error {
	return r.client.Close()
}

// CacheKeyFunc computes the cache key of a color.
type CacheKeyFunc func(c AverageColor) string

// HexKey uses the hex value and the alpha of the color as key.
func HexKey(c AverageColor) string {
	return fmt.Sprintf("%s%02x", c.Hex(), c.A)
}

// CachingResolver looks up colors in a cache first and resolves all misses in
// one call of Next. The order of the result is the order of the input.
type CachingResolver struct {
	Cache TileCache
	Next  ColorResolver
	Key   CacheKeyFunc
}

// NewCachingResolver returns a new caching resolver using HexKey.
func NewCachingResolver(c TileCache, next ColorResolver) *CachingResolver {
	return &CachingResolver{Cache: c, Next: next, Key: HexKey}
}

// Resolve implements ColorResolver.
func (resolver *CachingResolver) Resolve(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error) {
	res := make([]ResolvedTile, len(colors))
	// positions of each missing key in colors
	missing := make(map[string][]int)
	missColors := make([]AverageColor, 0)
	missKeys := make([]string, 0)
	for i, c := range colors {
		key := resolver.Key(c)
		if positions, has := missing[key]; has {
			missing[key] = append(positions, i)
			continue
		}
		tile, found, err := resolver.Cache.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if found {
			res[i] = tile
			continue
		}
		missing[key] = []int{i}
		missColors = append(missColors, c)
		missKeys = append(missKeys, key)
	}
	if len(missColors) == 0 {
		return res, nil
	}
	tiles, err := resolver.Next.Resolve(ctx, missColors)
	if err != nil {
		return nil, err
	}
	if len(tiles) != len(missColors) {
		return nil, fmt.Errorf("%w: requested %d colors, got %d tiles",
			ErrTileCountMismatch, len(missColors), len(tiles))
	}
	for j, key := range missKeys {
		for _, i := range missing[key] {
			res[i] = tiles[j]
		}
		if setErr := resolver.Cache.Set(ctx, key, tiles[j]); setErr != nil {
			// the tiles are resolved, a broken cache must not fail the mosaic
			log.WithError(setErr).WithField("key", key).Warn("Can't cache tile")
		}
	}
	return res, nil
}
