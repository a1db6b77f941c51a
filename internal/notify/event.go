package notify

import (
	"context"
	"time"
)

// ModelsChanged is published after a discovered model set has been persisted.
type ModelsChanged struct {
	RunID     string    `json:"run_id"`
	Provider  string    `json:"provider"`
	Previous  []string  `json:"previous"`
	Current   []string  `json:"current"`
	Added     []string  `json:"added"`
	Removed   []string  `json:"removed"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers change events.
type Publisher interface {
	PublishModelsChanged(ctx context.Context, event *ModelsChanged) error
	Close() error
}

// Nop discards events. It is used when no broker is configured.
type Nop struct{}

func (Nop) PublishModelsChanged(context.Context, *ModelsChanged) error { return nil }
func (Nop) Close() error                                               { return nil }
