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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

var (
	// MaxTileBytes is the maximal size of a tile returned by a color service,
	// a larger response fails the resolution.
	MaxTileBytes int64 = 1 << 20

	// DefaultHTTPTimeout is the timeout of the http client created if no client
	// is given.
	DefaultHTTPTimeout = 30 * time.Second
)

func defaultClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: DefaultHTTPTimeout}
}

// HTTPResolver resolves colors with a color service: For each distinct color
// (ignoring alpha) a request GET BaseURL/color/rrggbb is made, the body of
// the response is the resolved tile.
//
// At most Concurrency requests run at the same time, if Limiter is not nil
// each request waits for the limiter first. Concurrent requests for the same
// color are merged.
type HTTPResolver struct {
	BaseURL     string
	Client      *http.Client
	Concurrency int
	Limiter     *rate.Limiter

	group singleflight.Group
}

// NewHTTPResolver returns a new http resolver. If client is nil a client with
// DefaultHTTPTimeout is used, limiter may be nil.
func NewHTTPResolver(baseURL string, client *http.Client, concurrency int, limiter *rate.Limiter) *HTTPResolver {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &HTTPResolver{
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		Client:      defaultClient(client),
		Concurrency: concurrency,
		Limiter:     limiter,
	}
}

// ColorURL returns the url for the color.
func (resolver *HTTPResolver) ColorURL(c AverageColor) string {
	return resolver.BaseURL + "/color/" + strings.TrimPrefix(c.Hex(), "#")
}

func (resolver *HTTPResolver) timeout() time.Duration {
	if resolver.Client.Timeout > 0 {
		return resolver.Client.Timeout
	}
	return DefaultHTTPTimeout
}

func (resolver *HTTPResolver) get(ctx context.Context, url string) (ResolvedTile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := resolver.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxTileBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > MaxTileBytes {
		return "", fmt.Errorf("GET %s: tile exceeds %d bytes", url, MaxTileBytes)
	}
	return ResolvedTile(body), nil
}

// fetch requests url once for all concurrent callers. The shared request is
// not bound to the cancellation of the caller that started it, only to the
// client timeout; each caller stops waiting when its own ctx is done.
func (resolver *HTTPResolver) fetch(ctx context.Context, url string) (ResolvedTile, error) {
	ch := resolver.group.DoChan(url, func() (interface{}, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), resolver.timeout())
		defer cancel()
		return resolver.get(sharedCtx, url)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		tile, ok := res.Val.(ResolvedTile)
		if !ok {
			return "", fmt.Errorf("unexpected return type from singleflight: %T", res.Val)
		}
		return tile, nil
	}
}

// Resolve implements ColorResolver.
func (resolver *HTTPResolver) Resolve(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error) {
	// each distinct url is requested only once
	urls := make([]string, len(colors))
	index := make(map[string]int, len(colors))
	distinct := make([]string, 0)
	for i, c := range colors {
		url := resolver.ColorURL(c)
		urls[i] = url
		if _, has := index[url]; !has {
			index[url] = len(distinct)
			distinct = append(distinct, url)
		}
	}

	fetched := make([]ResolvedTile, len(distinct))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(resolver.Concurrency)
	for i, url := range distinct {
		i, url := i, url
		eg.Go(func() error {
			if resolver.Limiter != nil {
				if err := resolver.Limiter.Wait(egCtx); err != nil {
					return err
				}
			}
			tile, err := resolver.fetch(egCtx, url)
			if err != nil {
				return err
			}
			fetched[i] = tile
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := make([]ResolvedTile, len(colors))
	for i, url := range urls {
		res[i] = fetched[index[url]]
	}
	return res, nil
}

// RemoteResolver sends all colors as one ResolveRequest to BaseURL/resolve and
// expects one ResolveReply with the resolved tiles.
type RemoteResolver struct {
	BaseURL string
	Client  *http.Client
}

// NewRemoteResolver returns a new remote resolver. If client is nil a client
// with DefaultHTTPTimeout is used.
func NewRemoteResolver(baseURL string, client *http.Client) *RemoteResolver {
	return &RemoteResolver{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  defaultClient(client),
	}
}

// Resolve implements ColorResolver.
func (resolver *RemoteResolver) Resolve(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error) {
	body, err := json.Marshal(ResolveRequest{Colors: colors})
	if err != nil {
		return nil, err
	}
	url := resolver.BaseURL + "/resolve"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := resolver.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var reply ResolveReply
	if decodeErr := json.NewDecoder(resp.Body).Decode(&reply); decodeErr != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("POST %s: unexpected status %s", url, resp.Status)
		}
		return nil, fmt.Errorf("POST %s: invalid reply: %w", url, decodeErr)
	}
	if reply.Error != "" {
		return nil, errors.New(reply.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("POST %s: unexpected status %s", url, resp.Status)
	}
	if len(reply.Tiles) != len(colors) {
		return nil, fmt.Errorf("%w: sent %d colors, got %d tiles",
			ErrTileCountMismatch, len(colors), len(reply.Tiles))
	}
	return reply.Tiles, nil
}
