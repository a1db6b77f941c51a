package gateway

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/refreshd/internal/logfields"
	"git.home.luguber.info/inful/refreshd/internal/metrics"
	"git.home.luguber.info/inful/refreshd/internal/refresh"
)

// Poller refreshes one resource into a Snapshots store. Its Task is run by a
// refresh channel; it is not safe to run concurrently with itself, which the
// channel's guard already rules out.
type Poller struct {
	client   *Client
	store    *Snapshots
	resource Resource
	recorder metrics.Recorder
	tail     bool
}

// NewPoller creates a poller for resource. The logs resource tails: each poll
// sends the cursor returned by the previous one.
func NewPoller(client *Client, store *Snapshots, resource Resource, recorder metrics.Recorder) *Poller {
	return &Poller{
		client:   client,
		store:    store,
		resource: resource,
		recorder: metrics.OrNoop(recorder),
		tail:     resource == ResourceLogs,
	}
}

// Task returns the refresh task body.
func (p *Poller) Task() refresh.Task {
	return p.poll
}

func (p *Poller) poll(ctx context.Context) error {
	if !p.client.Configured() {
		return nil
	}
	cursor := ""
	if p.tail {
		if prev, ok := p.store.Get(p.resource); ok {
			cursor = prev.Cursor
		}
	}
	snap, err := p.client.Fetch(ctx, p.resource, cursor)
	p.recorder.IncGatewayFetch(string(p.resource), err == nil)
	if err != nil {
		return err
	}
	if p.tail && snap.Cursor == "" {
		snap.Cursor = cursor
	}
	p.store.Put(snap)
	slog.Debug("Gateway snapshot refreshed",
		logfields.Resource(string(p.resource)),
		slog.Int("bytes", len(snap.Body)))
	return nil
}
