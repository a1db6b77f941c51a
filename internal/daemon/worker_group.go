package daemon

import (
	"context"
	"sync"
	"sync/atomic"
)

// WorkerGroup runs tick handlers and tracks them so shutdown can wait for
// in-flight refresh tasks. It never calls WaitGroup.Add concurrently with Wait.
type WorkerGroup struct {
	mu       sync.Mutex
	wg       sync.WaitGroup
	stopping bool
	active   atomic.Int64
}

// Reset prepares the group for reuse after a full stop.
//
// This must only be called when all workers have already exited.
func (g *WorkerGroup) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopping = false
	g.wg = sync.WaitGroup{}
}

// Go starts a worker if the group is not stopping. It implements refresh.Dispatcher.
func (g *WorkerGroup) Go(fn func()) bool {
	if fn == nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopping {
		return false
	}

	g.wg.Add(1)
	g.active.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.active.Add(-1)
		fn()
	}()
	return true
}

// Active returns the number of workers currently running.
func (g *WorkerGroup) Active() int {
	return int(g.active.Load())
}

// StopAndWait prevents new workers from being started and waits for all current
// workers to exit, bounded by ctx.
func (g *WorkerGroup) StopAndWait(ctx context.Context) error {
	g.mu.Lock()
	g.stopping = true
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
