package refresh

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
)

// TickSource creates recurring timers. fn must not block; channels only use
// it to hand the tick to a Dispatcher.
type TickSource interface {
	Every(name string, interval time.Duration, fn func()) (cancel func(), err error)
}

// ClockTicks is a TickSource driven by a clockwork.Clock.
type ClockTicks struct {
	Clock clockwork.Clock
}

func (t ClockTicks) Every(name string, interval time.Duration, fn func()) (func(), error) {
	if interval <= 0 {
		return nil, ferrors.SchedulerError("tick interval must be > 0").
			WithContext("channel", name).
			Build()
	}
	clock := t.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	ticker := clock.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.Chan():
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}, nil
}

// Dispatcher runs tick handlers off the timer goroutine.
type Dispatcher interface {
	Go(fn func()) bool
}

type goDispatcher struct{}

func (goDispatcher) Go(fn func()) bool {
	go fn()
	return true
}
