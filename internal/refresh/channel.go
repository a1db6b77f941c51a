package refresh

import (
	"context"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
	"git.home.luguber.info/inful/refreshd/internal/metrics"
)

// ChannelConfig wires a Channel. Name, Interval and Task are required.
type ChannelConfig struct {
	Name     string
	Interval time.Duration
	Task     Task

	// Enabled is the scope predicate; nil means always in scope.
	Enabled func() bool
	// Pause, when set, suppresses the task while paused.
	Pause *PauseState

	Ticks    TickSource
	Dispatch Dispatcher
	Observer Observer
	Recorder metrics.Recorder
	Now      func() time.Time
}

// Channel is one independently timed, single-flight refresh task.
type Channel struct {
	cfg   ChannelConfig
	guard *Guard

	mu     sync.Mutex
	cancel func()
	gen    uint64
	stats  ChannelStatus
}

// ChannelStatus is a point-in-time view of a channel for status reporting.
type ChannelStatus struct {
	Name        string        `json:"name"`
	State       State         `json:"state"`
	Interval    time.Duration `json:"interval"`
	Runs        uint64        `json:"runs"`
	LastOutcome Outcome       `json:"last_outcome,omitempty"`
	LastRunAt   time.Time     `json:"last_run_at"`
}

// NewChannel validates cfg and returns a stopped channel.
func NewChannel(cfg ChannelConfig) (*Channel, error) {
	if cfg.Name == "" {
		return nil, ferrors.ValidationError("channel name is required").Build()
	}
	if cfg.Interval <= 0 {
		return nil, ferrors.ValidationError("channel interval must be > 0").
			WithContext("channel", cfg.Name).
			Build()
	}
	if cfg.Task == nil {
		return nil, ferrors.ValidationError("channel task is required").
			WithContext("channel", cfg.Name).
			Build()
	}
	if cfg.Ticks == nil {
		cfg.Ticks = ClockTicks{}
	}
	if cfg.Dispatch == nil {
		cfg.Dispatch = goDispatcher{}
	}
	cfg.Observer = observerOrDefault(cfg.Observer)
	cfg.Recorder = metrics.OrNoop(cfg.Recorder)
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	c := &Channel{cfg: cfg}
	c.stats.Name = cfg.Name
	c.stats.Interval = cfg.Interval
	c.guard = NewGuard(cfg.Name, c.timed(cfg.Task), cfg.Observer)
	return c, nil
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.cfg.Name }

// Start arms the recurring timer and dispatches one immediate tick. It is a
// no-op while the channel is already started.
func (c *Channel) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	cancel, err := c.cfg.Ticks.Every(c.cfg.Name, c.cfg.Interval, func() { c.dispatch(ctx, gen) })
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.cancel = cancel
	c.mu.Unlock()

	c.cfg.Observer.Debug("Refresh channel started",
		logfields.Channel(c.cfg.Name),
		logfields.Interval(c.cfg.Interval.String()))
	c.dispatch(ctx, gen)
	return nil
}

// Stop cancels the timer. Ticks already dispatched are discarded when they
// run; a task already in flight is left to finish.
func (c *Channel) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	c.cfg.Observer.Debug("Refresh channel stopped", logfields.Channel(c.cfg.Name))
}

// Live reports whether the channel has an armed timer.
func (c *Channel) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// RunNow triggers the task outside the schedule. Scope and pause are not
// consulted; single-flight still applies. It returns false when a run is in flight.
func (c *Channel) RunNow(ctx context.Context) bool {
	ran := c.guard.Trigger(ctx)
	outcome := OutcomeRan
	if !ran {
		outcome = OutcomeInFlight
	}
	c.record(outcome)
	return ran
}

// State derives the channel state from the timer, the guard and the pause flag.
func (c *Channel) State() State {
	if !c.Live() {
		return StateStopped
	}
	if c.guard.Running() {
		return StateRunning
	}
	if c.cfg.Pause != nil && c.cfg.Pause.Paused() {
		return StatePaused
	}
	return StateIdle
}

// Status returns the channel's current state and counters.
func (c *Channel) Status() ChannelStatus {
	state := c.State()
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stats
	st.State = state
	return st
}

func (c *Channel) dispatch(ctx context.Context, gen uint64) {
	if !c.cfg.Dispatch.Go(func() { c.tick(ctx, gen) }) {
		c.record(OutcomeStopped)
	}
}

func (c *Channel) tick(ctx context.Context, gen uint64) {
	outcome := decide(c.snapshot(ctx, gen))
	if outcome == OutcomeRan && !c.guard.Trigger(ctx) {
		outcome = OutcomeInFlight
	}
	c.record(outcome)
}

func (c *Channel) snapshot(ctx context.Context, gen uint64) tickSnapshot {
	c.mu.Lock()
	live := c.cancel != nil && c.gen == gen && ctx.Err() == nil
	c.mu.Unlock()

	s := tickSnapshot{live: live}
	if !live {
		return s
	}
	s.enabled = c.cfg.Enabled == nil || c.cfg.Enabled()
	if s.enabled && c.cfg.Pause != nil {
		s.paused = c.cfg.Pause.Paused()
	}
	return s
}

func (c *Channel) record(outcome Outcome) {
	c.cfg.Recorder.IncTickOutcome(c.cfg.Name, string(outcome))
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.LastOutcome = outcome
	if outcome == OutcomeRan {
		c.stats.Runs++
	}
}

func (c *Channel) timed(task Task) Task {
	return func(ctx context.Context) error {
		start := c.cfg.Now()
		c.mu.Lock()
		c.stats.LastRunAt = start
		c.mu.Unlock()
		err := task(ctx)
		c.cfg.Recorder.ObserveTaskDuration(c.cfg.Name, c.cfg.Now().Sub(start), err == nil)
		return err
	}
}
