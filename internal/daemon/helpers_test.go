package daemon

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/refreshd/internal/config"
	"git.home.luguber.info/inful/refreshd/internal/discovery"
	"git.home.luguber.info/inful/refreshd/internal/notify"
	"git.home.luguber.info/inful/refreshd/internal/refresh"
)

const testConfigYAML = `
daemon:
  initial_view: overview
models:
  providers:
    lmstudio:
      base_url: http://127.0.0.1:1234/v1
      models:
        - id: a
        - id: b
`

const (
	waitFor   = 2 * time.Second
	pollEvery = 5 * time.Millisecond
)

type stubProvider struct {
	mu     sync.Mutex
	models []config.ModelDefinition
}

func (p *stubProvider) Discover(context.Context, discovery.Endpoint) ([]config.ModelDefinition, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]config.ModelDefinition(nil), p.models...), nil
}

type testDaemon struct {
	*Daemon
	clock    *clockwork.FakeClock
	provider *stubProvider
	path     string
}

func newTestDaemon(t *testing.T, ids ...string) *testDaemon {
	t.Helper()
	return newTestDaemonAt(t, "-", ids...)
}

// newTestDaemonAt builds a test daemon whose admin server binds addr.
func newTestDaemonAt(t *testing.T, addr string, ids ...string) *testDaemon {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refreshd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o600))

	provider := &stubProvider{}
	for _, id := range ids {
		provider.models = append(provider.models, config.ModelDefinition{ID: id})
	}
	clock := clockwork.NewFakeClock()
	d, err := New(Options{
		ConfigPath: path,
		AdminAddr:  addr,
		Clock:      clock,
		Ticks:      refresh.ClockTicks{Clock: clock},
		Provider:   provider,
		Publisher:  notify.Nop{},
		Registry:   prom.NewRegistry(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Stop(context.Background()) })
	return &testDaemon{Daemon: d, clock: clock, provider: provider, path: path}
}

func (td *testDaemon) channel(name string) *refresh.Channel {
	for _, ch := range td.channels {
		if ch.Name() == name {
			return ch
		}
	}
	return nil
}

func (td *testDaemon) modelIDs() []string {
	return discovery.IDs(td.Config().Provider(config.ProviderLMStudio).Models)
}
