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
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ResolveRequest is the message sent to a resolver worker: all average colors
// of one conversion in row-major order.
type ResolveRequest struct {
	Colors []AverageColor `json:"colors"`
}

// ResolveReply is the message a resolver worker answers with. Tiles has the
// same length and order as the colors of the request, if Error is not empty
// the request failed and Tiles must be ignored.
type ResolveReply struct {
	Tiles []ResolvedTile `json:"tiles"`
	Error string         `json:"error,omitempty"`

	// err is the original error, it only survives in-process replies
	err error
}

// NewResolveReply creates the reply for the result of a resolver.
func NewResolveReply(tiles []ResolvedTile, err error) ResolveReply {
	if err != nil {
		return ResolveReply{Error: err.Error(), err: err}
	}
	return ResolveReply{Tiles: tiles}
}

// Err returns the error of the reply or nil.
func (reply ResolveReply) Err() error {
	switch {
	case reply.err != nil:
		return reply.err
	case reply.Error != "":
		return errors.New(reply.Error)
	default:
		return nil
	}
}

// Coordinator runs the color resolution of a conversion, either in place or
// on a worker.
//
// Run returns the resolved tiles in the order of colors. All errors of the
// resolver are returned wrapping ErrResolverFailure, a result of the wrong
// length is an error too.
type Coordinator interface {
	Run(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error)
	Close() error
}

// checkResolved wraps resolver errors and checks the length contract.
func checkResolved(numColors int, tiles []ResolvedTile, err error) ([]ResolvedTile, error) {
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolverFailure, err)
	}
	if len(tiles) != numColors {
		return nil, fmt.Errorf("%w: %w: resolved %d of %d colors",
			ErrResolverFailure, ErrTileCountMismatch, len(tiles), numColors)
	}
	return tiles, nil
}

// InlineCoordinator calls the resolver directly and waits for it.
type InlineCoordinator struct {
	Resolver ColorResolver
}

// NewInlineCoordinator returns a new inline coordinator.
func NewInlineCoordinator(resolver ColorResolver) *InlineCoordinator {
	return &InlineCoordinator{Resolver: resolver}
}

// Run implements Coordinator.
func (c *InlineCoordinator) Run(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error) {
	tiles, err := c.Resolver.Resolve(ctx, colors)
	return checkResolved(len(colors), tiles, err)
}

// Close does nothing.
func (c *InlineCoordinator) Close() error {
	return nil
}

type workerJob struct {
	ctx   context.Context
	req   ResolveRequest
	reply chan<- ResolveReply
}

// WorkerCoordinator runs the resolver on a dedicated goroutine. Each call of
// Run sends a single ResolveRequest to the worker and waits for the single
// ResolveReply. The worker handles one request at a time, further calls wait
// until the worker is free.
//
// Close must be called to stop the worker.
type WorkerCoordinator struct {
	resolver  ColorResolver
	jobs      chan workerJob
	done      chan struct{}
	closeOnce sync.Once
}

// NewWorkerCoordinator starts a worker for the resolver.
func NewWorkerCoordinator(resolver ColorResolver) *WorkerCoordinator {
	w := &WorkerCoordinator{
		resolver: resolver,
		jobs:     make(chan workerJob),
		done:     make(chan struct{}),
	}
	go w.work()
	return w
}

func (w *WorkerCoordinator) handle(job workerJob) (reply ResolveReply) {
	defer func() {
		if r := recover(); r != nil {
			reply = NewResolveReply(nil, fmt.Errorf("resolver panicked: %v", r))
		}
	}()
	tiles, err := w.resolver.Resolve(job.ctx, job.req.Colors)
	return NewResolveReply(tiles, err)
}

func (w *WorkerCoordinator) work() {
	for {
		select {
		case job := <-w.jobs:
			// reply is buffered, the worker never blocks on it
			job.reply <- w.handle(job)
		case <-w.done:
			return
		}
	}
}

// Run implements Coordinator.
func (w *WorkerCoordinator) Run(ctx context.Context, colors []AverageColor) ([]ResolvedTile, error) {
	select {
	case <-w.done:
		return nil, fmt.Errorf("%w: %w", ErrResolverFailure, ErrCoordinatorClosed)
	default:
	}
	// the worker gets its own copy of the colors
	msg := ResolveRequest{Colors: append([]AverageColor(nil), colors...)}
	reply := make(chan ResolveReply, 1)
	job := workerJob{ctx: ctx, req: msg, reply: reply}
	select {
	case w.jobs <- job:
	case <-w.done:
		return nil, fmt.Errorf("%w: %w", ErrResolverFailure, ErrCoordinatorClosed)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrResolverFailure, ctx.Err())
	}
	res := <-reply
	return checkResolved(len(colors), res.Tiles, res.Err())
}

// Close stops the worker. A request that is being processed is finished.
func (w *WorkerCoordinator) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
	})
	return nil
}

// DetectCoordinator selects the coordinator for this process: a worker if
// workers are enabled and more than one OS thread may run Go code, otherwise
// the resolver is called inline. It should be called once at startup.
func DetectCoordinator(resolver ColorResolver, workerEnabled bool) Coordinator {
	procs := runtime.GOMAXPROCS(0)
	if workerEnabled && procs > 1 {
		log.WithField("procs", procs).Debug("Using worker coordinator")
		return NewWorkerCoordinator(resolver)
	}
	log.WithField("procs", procs).Debug("Using inline coordinator")
	return NewInlineCoordinator(resolver)
}
