package notify

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
)

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes change events on a core NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
	now     func() time.Time
}

// NewNATSPublisher connects to serverURL and publishes on subject.
func NewNATSPublisher(serverURL, subject string) (*NATSPublisher, error) {
	if serverURL == "" {
		return nil, ferrors.ConfigError("nats url is required").Build()
	}
	if subject == "" {
		return nil, ferrors.ConfigError("nats subject is required").Build()
	}
	nc, err := nats.Connect(serverURL,
		nats.Name("refreshd"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", logfields.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("NATS reconnected", logfields.URL(c.ConnectedUrlRedacted()))
		}),
	)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", redactURL(serverURL)).
			Build()
	}

	slog.Info("NATS publisher initialized", logfields.URL(redactURL(serverURL)), slog.String("subject", subject))
	return newNATSPublisher(nc, subject), nil
}

// redactURL masks passwords in a comma-separated server list.
func redactURL(serverURL string) string {
	parts := strings.Split(serverURL, ",")
	for i, p := range parts {
		u, err := url.Parse(strings.TrimSpace(p))
		if err != nil {
			parts[i] = "<invalid url>"
			continue
		}
		if u.User != nil {
			if _, ok := u.User.Password(); !ok {
				u.User = url.User("xxxxx")
			}
		}
		parts[i] = u.Redacted()
	}
	return strings.Join(parts, ",")
}

func newNATSPublisher(c conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: c, subject: subject, now: time.Now}
}

// PublishModelsChanged encodes event as JSON and publishes it. The call
// returns after the server has acknowledged the flush or ctx is done.
func (p *NATSPublisher) PublishModelsChanged(ctx context.Context, event *ModelsChanged) error {
	if event == nil {
		return ferrors.ValidationError("event is required").Build()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal event").Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to publish event").
			WithContext("subject", p.subject).
			Build()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to flush event").
			WithContext("subject", p.subject).
			Build()
	}

	slog.Debug("Published models changed event",
		logfields.RunID(event.RunID),
		logfields.Provider(event.Provider),
		slog.Int("added", len(event.Added)),
		slog.Int("removed", len(event.Removed)))
	return nil
}

// Close drains nothing; pending messages were flushed per publish.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
