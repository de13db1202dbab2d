// Package lifecycle coordinates subsystem startup and shutdown for the application.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

type hook struct {
	name string
	fn   func(ctx context.Context) error
}

// Coordinator runs named startup hooks concurrently and shutdown hooks in
// reverse registration order. Its context is cancelled when shutdown begins
// or when any startup hook fails.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	group    *errgroup.Group
	mu       sync.Mutex
	shutdown []hook
	ready    atomic.Bool
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	base, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(base)
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		group:  group,
	}
}

// Context returns the coordinator's context. It is cancelled on shutdown
// and when any startup hook returns an error.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a named hook to run concurrently during startup.
func (c *Coordinator) OnStartup(name string, fn func(ctx context.Context) error) {
	c.group.Go(func() error {
		if err := fn(c.ctx); err != nil {
			return fmt.Errorf("%s startup: %w", name, err)
		}
		return nil
	})
}

// OnShutdown registers a named hook to run during Shutdown. Hooks run in
// reverse registration order, so subsystems registered last stop first.
func (c *Coordinator) OnShutdown(name string, fn func(ctx context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = append(c.shutdown, hook{name: name, fn: fn})
}

// Ready returns true once all startup hooks have completed without error.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks have completed. The ready
// flag is only set when every hook succeeded.
func (c *Coordinator) WaitForStartup() error {
	if err := c.group.Wait(); err != nil {
		return err
	}
	c.ready.Store(true)
	return nil
}

// Shutdown cancels the context and runs shutdown hooks LIFO, each bounded
// by the given timeout. Hook errors are collected rather than short-circuiting.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()
	c.ready.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c.mu.Lock()
	hooks := make([]hook, len(c.shutdown))
	copy(hooks, c.shutdown)
	c.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("shutdown timeout after %v", timeout))
			break
		}
		if err := hooks[i].fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s shutdown: %w", hooks[i].name, err))
		}
	}

	return errors.Join(errs...)
}
