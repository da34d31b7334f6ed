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
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/FabianWe/colormosaic/config"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ConfigureLogging sets the level and formatter of the standard logger.
func ConfigureLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if cfg.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// localResolver returns one of the resolvers without latency by name.
func localResolver(name string, spec TileSpec) (ColorResolver, error) {
	switch strings.ToLower(name) {
	case "", "svg":
		return NewSVGResolver(spec), nil
	case "png":
		return NewPNGResolver(spec), nil
	case "ansi":
		return NewANSIResolver(), nil
	default:
		return nil, fmt.Errorf("Unknown local resolver %q", name)
	}
}

// NewTileCache creates the tile cache described by cfg. The result is nil if
// caching is disabled. The returned closer must be closed when the cache is
// no longer used.
func NewTileCache(ctx context.Context, cfg config.CacheConfig) (TileCache, io.Closer, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "none":
		return nil, nopCloser{}, nil
	case "memory":
		return NewMemoryTileCache(cfg.TTL), nopCloser{}, nil
	case "redis":
		c := NewRedisTileCache(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.TTL)
		if err := c.Ping(ctx); err != nil {
			c.Close()
			return nil, nil, fmt.Errorf("Can't connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("Unknown cache kind %q", cfg.Kind)
	}
}

// NewResolver creates the resolver described by cfg, wrapped in a
// CachingResolver if a cache is configured. The returned closer must be closed
// when the resolver is no longer used.
func NewResolver(ctx context.Context, cfg *config.Config) (ColorResolver, io.Closer, error) {
	spec := NewTileSpec(cfg.Tile.Width, cfg.Tile.Height)
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}
	rc := cfg.Resolver
	var resolver ColorResolver
	switch strings.ToLower(rc.Kind) {
	case "svg", "png", "ansi":
		local, err := localResolver(rc.Kind, spec)
		if err != nil {
			return nil, nil, err
		}
		resolver = local
	case "palette":
		palette := DefaultPalette
		if len(rc.Palette) > 0 {
			var err error
			if palette, err = ParsePalette(rc.Palette...); err != nil {
				return nil, nil, err
			}
		}
		metric, err := GetColorMetric(rc.Metric)
		if err != nil {
			return nil, nil, err
		}
		next, err := localResolver(rc.Render, spec)
		if err != nil {
			return nil, nil, err
		}
		resolver = NewPaletteResolver(palette, metric, next)
	case "http":
		var limiter *rate.Limiter
		if rc.RateInterval > 0 {
			burst := rc.Burst
			if burst <= 0 {
				burst = 1
			}
			limiter = rate.NewLimiter(rate.Every(rc.RateInterval), burst)
		}
		client := &http.Client{Timeout: rc.Timeout}
		resolver = NewHTTPResolver(rc.BaseURL, client, rc.Concurrency, limiter)
	case "remote":
		resolver = NewRemoteResolver(rc.BaseURL, &http.Client{Timeout: rc.Timeout})
	default:
		return nil, nil, fmt.Errorf("Unknown resolver kind %q", rc.Kind)
	}

	tileCache, closer, err := NewTileCache(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	if tileCache != nil {
		resolver = NewCachingResolver(tileCache, resolver)
	}
	return resolver, closer, nil
}

// NewConverterFromConfig creates a converter with the coordinator selected by
// DetectCoordinator. Closing the returned closer stops the coordinator and
// releases the cache.
func NewConverterFromConfig(ctx context.Context, cfg *config.Config) (*Converter, io.Closer, error) {
	resolver, resolverCloser, err := NewResolver(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	coordinator := DetectCoordinator(resolver, cfg.Worker.Enabled)
	converter := NewConverter(NewTileSpec(cfg.Tile.Width, cfg.Tile.Height), coordinator)
	if cfg.Worker.Routines > 0 {
		converter.NumRoutines = cfg.Worker.Routines
	}
	return converter, closers{coordinator, resolverCloser}, nil
}

type closers []io.Closer

func (cs closers) Close() error {
	var first error
	for _, c := range cs {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
