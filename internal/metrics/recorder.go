package metrics

import "time"

// Recorder captures scheduler and discovery metrics. Implementations must be
// safe for concurrent use.
type Recorder interface {
	// IncTickOutcome counts one tick of a channel by what it did (ran, paused, in_flight, ...).
	IncTickOutcome(channel, outcome string)
	// ObserveTaskDuration records how long one task body ran.
	ObserveTaskDuration(channel string, d time.Duration, success bool)
	// IncDiscoveryResult counts reconciliation runs by result.
	IncDiscoveryResult(result string)
	// SetActiveTasks reports the current number of busy agent tasks.
	SetActiveTasks(n int)
	// IncGatewayFetch counts gateway snapshot fetches.
	IncGatewayFetch(resource string, success bool)
}

// NoopRecorder is the default recorder.
type NoopRecorder struct{}

func (NoopRecorder) IncTickOutcome(string, string)                   {}
func (NoopRecorder) ObserveTaskDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncDiscoveryResult(string)                       {}
func (NoopRecorder) SetActiveTasks(int)                              {}
func (NoopRecorder) IncGatewayFetch(string, bool)                    {}

var _ Recorder = NoopRecorder{}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}

func successLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failed"
}
