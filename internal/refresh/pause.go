package refresh

import "sync"

// PauseState is the pause flag a channel consults on every tick, plus the
// dirty flag owned by whoever edits the form the channel would overwrite.
type PauseState struct {
	mu     sync.Mutex
	paused bool
	dirty  bool
}

// Paused reports whether ticks are currently skipped.
func (p *PauseState) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Pause makes the channel skip ticks until Resume.
func (p *PauseState) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume clears the pause flag. The dirty flag is left alone.
func (p *PauseState) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
}

// SetDirty records whether there are unsaved edits.
func (p *PauseState) SetDirty(dirty bool) {
	p.mu.Lock()
	p.dirty = dirty
	p.mu.Unlock()
}

// Dirty reports whether unsaved edits exist.
func (p *PauseState) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}
