package refresh

// State is the observable state of a channel.
type State string

const (
	StateStopped State = "stopped"
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// Outcome is what a single tick did.
type Outcome string

const (
	OutcomeRan        Outcome = "ran"
	OutcomeStopped    Outcome = "stopped"
	OutcomeOutOfScope Outcome = "out_of_scope"
	OutcomePaused     Outcome = "paused"
	OutcomeInFlight   Outcome = "in_flight"
)

// tickSnapshot is everything a tick reads before deciding. Each field is read
// once per tick.
type tickSnapshot struct {
	live    bool
	enabled bool
	paused  bool
}

// decide gates a tick. OutcomeRan means "trigger the guard"; the guard may
// still turn it into OutcomeInFlight.
func decide(s tickSnapshot) Outcome {
	switch {
	case !s.live:
		return OutcomeStopped
	case !s.enabled:
		return OutcomeOutOfScope
	case s.paused:
		return OutcomePaused
	default:
		return OutcomeRan
	}
}
