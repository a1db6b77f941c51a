package refresh

import (
	"context"
	"log/slog"
	"sync/atomic"

	"git.home.luguber.info/inful/refreshd/internal/logfields"
)

// Task is the body a Guard protects.
type Task func(ctx context.Context) error

// Guard ensures at most one invocation of its task is in flight.
type Guard struct {
	name    string
	task    Task
	obs     Observer
	running atomic.Bool
}

// NewGuard wraps task. Errors and panics from task are reported to obs at warn
// level and never returned to the caller.
func NewGuard(name string, task Task, obs Observer) *Guard {
	return &Guard{name: name, task: task, obs: observerOrDefault(obs)}
}

// Trigger runs the task unless it is already running, in which case it returns
// false immediately. The running flag is cleared on every exit path.
func (g *Guard) Trigger(ctx context.Context) (ran bool) {
	if !g.running.CompareAndSwap(false, true) {
		return false
	}
	defer g.running.Store(false)
	defer func() {
		if r := recover(); r != nil {
			g.obs.Warn("Refresh task panicked",
				logfields.Channel(g.name),
				slog.Any("panic", r))
		}
	}()

	ran = true
	if err := g.task(ctx); err != nil {
		g.obs.Warn("Refresh task failed",
			logfields.Channel(g.name),
			logfields.Error(err))
	}
	return ran
}

// Running reports whether an invocation is in flight.
func (g *Guard) Running() bool {
	return g.running.Load()
}
