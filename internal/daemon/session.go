package daemon

import (
	"context"
	"sync"

	"git.home.luguber.info/inful/refreshd/internal/logfields"
	"git.home.luguber.info/inful/refreshd/internal/refresh"
)

// View identifiers.
const (
	ViewOverview = "overview"
	ViewLogs     = "logs"
	ViewDebug    = "debug"
	ViewAgents   = "agents"
)

// Session starts and stops the view-bound polling channels in response to
// the client connecting, switching views and disconnecting.
type Session struct {
	view   *refresh.View
	nodes  *refresh.Channel
	logs   *refresh.Channel
	debug  *refresh.Channel
	config *refresh.Channel
	obs    refresh.Observer

	mu        sync.Mutex
	ctx       context.Context
	connected bool
}

// SessionChannels are the channels a Session drives.
type SessionChannels struct {
	Nodes  *refresh.Channel
	Logs   *refresh.Channel
	Debug  *refresh.Channel
	Config *refresh.Channel
}

// NewSession returns a disconnected session over the given channels.
func NewSession(view *refresh.View, ch SessionChannels, obs refresh.Observer) *Session {
	if obs == nil {
		obs = refresh.NewSlogObserver(nil)
	}
	return &Session{
		view:   view,
		nodes:  ch.Nodes,
		logs:   ch.Logs,
		debug:  ch.Debug,
		config: ch.Config,
		obs:    obs,
	}
}

// Connect starts node polling plus the channel of the current view.
// Calling it while connected is a no-op.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		return nil
	}
	s.ctx = ctx
	s.connected = true

	if err := s.nodes.Start(ctx); err != nil {
		return err
	}
	s.obs.Debug("Session connected", logfields.View(s.view.Current()))
	return s.enterLocked(s.view.Current())
}

// SetView switches the active view. Entering a view starts its channel;
// leaving agents stops config polling. Log and debug channels stay armed and
// are gated by their scope predicates.
func (s *Session) SetView(view string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.view.Set(view)
	if !s.connected || prev == view {
		return nil
	}
	s.obs.Debug("View changed", logfields.View(view), logfields.PreviousView(prev))
	if view != ViewAgents {
		s.config.Stop()
	}
	return s.enterLocked(view)
}

// Disconnect stops every channel the session started.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return
	}
	s.connected = false
	s.nodes.Stop()
	s.logs.Stop()
	s.config.Stop()
	s.debug.Stop()
	s.obs.Debug("Session disconnected")
}

// Connected reports whether the session is connected.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Session) enterLocked(view string) error {
	switch view {
	case ViewLogs:
		return s.logs.Start(s.ctx)
	case ViewDebug:
		return s.debug.Start(s.ctx)
	case ViewAgents:
		return s.config.Start(s.ctx)
	}
	return nil
}
