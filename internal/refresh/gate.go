package refresh

import (
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"git.home.luguber.info/inful/refreshd/internal/logfields"
)

// DefaultResumeDebounce is the quiet window after the last focus exit.
const DefaultResumeDebounce = 250 * time.Millisecond

// DefaultWatchedKinds are the element kinds that pause refresh while focused.
var DefaultWatchedKinds = []string{"select", "input", "textarea"}

// FocusGate pauses a channel while the user interacts with watched form
// elements and resumes it after a quiet window, unless edits are unsaved.
//
// At most one resume timer is pending. Each arm or cancel bumps a generation
// so an expiry from a replaced timer is a no-op.
type FocusGate struct {
	clock   clockwork.Clock
	quiet   time.Duration
	watched map[string]struct{}
	state   *PauseState
	obs     Observer

	mu    sync.Mutex
	timer clockwork.Timer
	gen   uint64
}

// GateConfig configures a FocusGate. Zero values take the defaults.
type GateConfig struct {
	Clock    clockwork.Clock
	Quiet    time.Duration
	Watched  []string
	State    *PauseState
	Observer Observer
}

// NewFocusGate returns a gate with defaults filled in for unset fields.
func NewFocusGate(cfg GateConfig) *FocusGate {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Quiet <= 0 {
		cfg.Quiet = DefaultResumeDebounce
	}
	if len(cfg.Watched) == 0 {
		cfg.Watched = DefaultWatchedKinds
	}
	if cfg.State == nil {
		cfg.State = &PauseState{}
	}
	watched := make(map[string]struct{}, len(cfg.Watched))
	for _, k := range cfg.Watched {
		watched[strings.ToLower(strings.TrimSpace(k))] = struct{}{}
	}
	return &FocusGate{
		clock:   cfg.Clock,
		quiet:   cfg.Quiet,
		watched: watched,
		state:   cfg.State,
		obs:     observerOrDefault(cfg.Observer),
	}
}

// State returns the pause state this gate drives.
func (g *FocusGate) State() *PauseState { return g.state }

// Watches reports whether kind is a watched element kind.
func (g *FocusGate) Watches(kind string) bool {
	_, ok := g.watched[strings.ToLower(strings.TrimSpace(kind))]
	return ok
}

// FocusIn pauses immediately and cancels any pending resume.
// It returns false for unwatched kinds.
func (g *FocusGate) FocusIn(kind string) bool {
	if !g.Watches(kind) {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelLocked()
	g.state.Pause()
	return true
}

// FocusOut arms the resume timer, replacing any pending one.
// It returns false for unwatched kinds.
func (g *FocusGate) FocusOut(kind string) bool {
	if !g.Watches(kind) {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelLocked()
	gen := g.gen
	g.timer = g.clock.AfterFunc(g.quiet, func() { g.expire(gen) })
	return true
}

// Resume cancels any pending timer and unpauses, regardless of dirty state.
// This is the explicit resume after a save or discard.
func (g *FocusGate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelLocked()
	g.state.Resume()
}

// ResumePending reports whether a resume timer is armed.
func (g *FocusGate) ResumePending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timer != nil
}

func (g *FocusGate) cancelLocked() {
	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *FocusGate) expire(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gen != g.gen {
		return
	}
	g.timer = nil
	if g.state.Dirty() {
		g.obs.Debug("Resume held for unsaved edits", logfields.Outcome("held"))
		return
	}
	g.state.Resume()
}
