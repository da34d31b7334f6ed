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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/time/rate"
)

// newColorServer returns a server answering /color/<hex> with "tile-<hex>".
func newColorServer(t *testing.T, calls *int64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		hex := strings.TrimPrefix(r.URL.Path, "/color/")
		if hex == "000000" {
			http.Error(w, "no black", http.StatusNotFound)
			return
		}
		w.Write([]byte("tile-" + hex))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHTTPResolver_Resolve(t *testing.T) {
	var calls int64
	server := newColorServer(t, &calls)
	resolver := NewHTTPResolver(server.URL+"/", server.Client(), 4, rate.NewLimiter(rate.Inf, 1))

	if got := resolver.ColorURL(red); got != server.URL+"/color/ff0000" {
		t.Errorf("ColorURL: got %s", got)
	}
	colors := []AverageColor{red, green, red, blue, green, red}
	tiles, err := resolver.Resolve(context.Background(), colors)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []ResolvedTile{"tile-ff0000", "tile-00ff00", "tile-ff0000", "tile-0000ff", "tile-00ff00", "tile-ff0000"}
	if diff := cmp.Diff(want, tiles); diff != "" {
		t.Errorf("tiles mismatch (-want +got):\n%s", diff)
	}
	if n := atomic.LoadInt64(&calls); n != 3 {
		t.Errorf("requests: got %d, want 3 (one per distinct color)", n)
	}
}

func TestHTTPResolver_Failure(t *testing.T) {
	var calls int64
	server := newColorServer(t, &calls)
	resolver := NewHTTPResolver(server.URL, server.Client(), 2, nil)
	tiles, err := resolver.Resolve(context.Background(), []AverageColor{red, {A: 255}, blue})
	if err == nil {
		t.Fatal("expected error for failing color")
	}
	if tiles != nil {
		t.Errorf("expected no partial result, got %v", tiles)
	}
}

func TestHTTPResolver_Empty(t *testing.T) {
	resolver := NewHTTPResolver("http://127.0.0.1:1", nil, 0, nil)
	tiles, err := resolver.Resolve(context.Background(), nil)
	if err != nil || len(tiles) != 0 {
		t.Errorf("got %v, %v", tiles, err)
	}
}

func TestHTTPResolver_TileTooLarge(t *testing.T) {
	defer func(old int64) { MaxTileBytes = old }(MaxTileBytes)
	MaxTileBytes = 16
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		size := 16
		if strings.HasSuffix(r.URL.Path, "ff0000") {
			size = 40
		}
		w.Write([]byte(strings.Repeat("x", size)))
	}))
	defer server.Close()
	resolver := NewHTTPResolver(server.URL, server.Client(), 2, nil)

	tiles, err := resolver.Resolve(context.Background(), []AverageColor{blue})
	if err != nil {
		t.Fatalf("tile of exactly MaxTileBytes: unexpected error %v", err)
	}
	if len(tiles[0]) != 16 {
		t.Errorf("tile length: got %d, want 16", len(tiles[0]))
	}

	tiles, err = resolver.Resolve(context.Background(), []AverageColor{blue, red})
	if err == nil {
		t.Errorf("expected error for oversized tile, got tiles of length %d and %d", len(tiles[0]), len(tiles[1]))
	}
	if tiles != nil {
		t.Errorf("expected no partial result, got %v", tiles)
	}
}

func TestHTTPResolver_SharedFetchOutlivesCanceledCaller(t *testing.T) {
	var calls int64
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			started <- struct{}{}
		}
		<-release
		w.Write([]byte("tile"))
	}))
	defer server.Close()
	var once sync.Once
	releaseAll := func() { once.Do(func() { close(release) }) }
	defer releaseAll()
	resolver := NewHTTPResolver(server.URL, server.Client(), 2, nil)

	// the first conversion starts the request and goes away
	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := resolver.Resolve(ctxA, []AverageColor{red})
		errA <- err
	}()
	<-started
	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("canceled conversion: expected context.Canceled, got %v", err)
	}

	// the second conversion joins the request that is still in flight
	time.AfterFunc(50*time.Millisecond, releaseAll)
	tiles, err := resolver.Resolve(context.Background(), []AverageColor{red})
	if err != nil {
		t.Fatalf("second conversion failed: %v", err)
	}
	if tiles[0] != "tile" {
		t.Errorf("got %q, want tile", tiles[0])
	}
	if n := atomic.LoadInt64(&calls); n != 1 {
		t.Errorf("requests: got %d, want 1", n)
	}
}

func newResolveServer(t *testing.T, handle func(req ResolveRequest) (int, ResolveReply)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resolve" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req ResolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status, reply := handle(req)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRemoteResolver_Resolve(t *testing.T) {
	server := newResolveServer(t, func(req ResolveRequest) (int, ResolveReply) {
		tiles, err := hexResolver.Resolve(context.Background(), req.Colors)
		return http.StatusOK, NewResolveReply(tiles, err)
	})
	resolver := NewRemoteResolver(server.URL, server.Client())
	tiles, err := resolver.Resolve(context.Background(), []AverageColor{blue, red})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if diff := cmp.Diff([]ResolvedTile{"#0000ff", "#ff0000"}, tiles); diff != "" {
		t.Errorf("tiles mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoteResolver_Errors(t *testing.T) {
	failing := newResolveServer(t, func(req ResolveRequest) (int, ResolveReply) {
		return http.StatusBadGateway, NewResolveReply(nil, errors.New("service down"))
	})
	_, err := NewRemoteResolver(failing.URL, failing.Client()).Resolve(context.Background(), []AverageColor{red})
	if err == nil || !strings.Contains(err.Error(), "service down") {
		t.Errorf("expected reply error, got %v", err)
	}

	short := newResolveServer(t, func(req ResolveRequest) (int, ResolveReply) {
		return http.StatusOK, NewResolveReply([]ResolvedTile{"x"}, nil)
	})
	_, err = NewRemoteResolver(short.URL, short.Client()).Resolve(context.Background(), []AverageColor{red, blue})
	if !errors.Is(err, ErrTileCountMismatch) {
		t.Errorf("expected ErrTileCountMismatch, got %v", err)
	}

	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()
	if _, err := NewRemoteResolver(notFound.URL, nil).Resolve(context.Background(), []AverageColor{red}); err == nil {
		t.Error("expected error for missing endpoint")
	}
}
