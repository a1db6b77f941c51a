package refresh

import (
	"log/slog"
	"sync"
	"time"
)

type recordedEvent struct {
	level string
	msg   string
	attrs []slog.Attr
}

type recordingObserver struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (o *recordingObserver) Debug(msg string, attrs ...slog.Attr) { o.add("debug", msg, attrs) }
func (o *recordingObserver) Warn(msg string, attrs ...slog.Attr)  { o.add("warn", msg, attrs) }

func (o *recordingObserver) add(level, msg string, attrs []slog.Attr) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, recordedEvent{level: level, msg: msg, attrs: attrs})
}

func (o *recordingObserver) warnings() []recordedEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []recordedEvent
	for _, e := range o.events {
		if e.level == "warn" {
			out = append(out, e)
		}
	}
	return out
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes map[string][]string
}

func newOutcomeRecorder() *outcomeRecorder {
	return &outcomeRecorder{outcomes: map[string][]string{}}
}

func (r *outcomeRecorder) IncTickOutcome(channel, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[channel] = append(r.outcomes[channel], outcome)
}

func (r *outcomeRecorder) count(channel, outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.outcomes[channel] {
		if o == outcome {
			n++
		}
	}
	return n
}

func (r *outcomeRecorder) ObserveTaskDuration(string, time.Duration, bool) {}
func (r *outcomeRecorder) IncDiscoveryResult(string)                       {}
func (r *outcomeRecorder) SetActiveTasks(int)                              {}
func (r *outcomeRecorder) IncGatewayFetch(string, bool)                    {}

const (
	waitFor   = 2 * time.Second
	pollEvery = 5 * time.Millisecond
)
