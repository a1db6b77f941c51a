package retry

import (
	"time"

	"git.home.luguber.info/inful/refreshd/internal/config"
)

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       config.RetryBackoffMode // fixed|linear|exponential
	Initial    time.Duration           // base delay
	Max        time.Duration           // cap for growth
	MaxRetries int                     // maximum retry attempts after the first failure
}

// DefaultPolicy returns the default fetch policy (linear, 250ms initial, 2s cap, 2 retries).
// Delays stay well under the discovery interval so a retried fetch still
// finishes before the next tick.
func DefaultPolicy() Policy {
	return Policy{Mode: config.RetryBackoffLinear, Initial: 250 * time.Millisecond, Max: 2 * time.Second, MaxRetries: 2}
}

// FromConfig builds a policy from the discovery retry section.
func FromConfig(rc config.RetryConfig) Policy {
	return NewPolicy(rc.Backoff, rc.InitialDelay, rc.MaxDelay, rc.MaxRetries)
}

// NewPolicy builds a policy from raw config fields; zero/invalid values fall back to defaults.
func NewPolicy(mode config.RetryBackoffMode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	if mode != "" {
		switch mode {
		case config.RetryBackoffFixed, config.RetryBackoffLinear, config.RetryBackoffExponential:
			p.Mode = mode
		default:
			// unknown -> keep default
		}
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the backoff delay for the given retry attempt number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case config.RetryBackoffFixed:
		return p.Initial
	case config.RetryBackoffExponential:
		d := p.Initial * (1 << (retryCount - 1))
		if d > p.Max {
			return p.Max
		}
		return d
	default: // linear
		d := time.Duration(retryCount) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}
