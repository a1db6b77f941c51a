// Package daemon assembles the refresh channels into a long-running process
// with an admin HTTP API.
package daemon

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/refreshd/internal/config"
	"git.home.luguber.info/inful/refreshd/internal/discovery"
	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/gateway"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
	"git.home.luguber.info/inful/refreshd/internal/metrics"
	"git.home.luguber.info/inful/refreshd/internal/notify"
	"git.home.luguber.info/inful/refreshd/internal/refresh"
	"git.home.luguber.info/inful/refreshd/internal/retry"
)

// Status represents the current state of the daemon.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusStopping Status = "stopping"
	StatusError    Status = "error"
)

// Options customizes a Daemon. Only ConfigPath is required; every other
// field has a production default.
type Options struct {
	ConfigPath string

	// AdminAddr overrides daemon.admin_addr. "-" disables the admin server.
	AdminAddr string
	// WatchConfig reloads the config snapshot when the file changes.
	WatchConfig bool

	Clock      clockwork.Clock
	Ticks      refresh.TickSource
	Provider   discovery.Provider
	Publisher  notify.Publisher
	Registry   *prom.Registry
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Daemon owns every refresh channel and the state they share.
type Daemon struct {
	status    atomic.Value // Status
	startTime atomic.Int64 // unix nanos
	mu        sync.Mutex   // serializes Start and Stop

	store     *config.FileStore
	watcher   *config.Watcher
	scheduler *Scheduler
	workers   *WorkerGroup
	http      *HTTPServer
	publisher notify.Publisher
	registry  *prom.Registry
	obs       refresh.Observer
	watch     bool

	busy       *refresh.BusyCounter
	view       *refresh.View
	gate       *refresh.FocusGate
	snapshots  *gateway.Snapshots
	reconciler *discovery.Reconciler
	discovery  *refresh.Channel
	channels   []*refresh.Channel
	session    *Session
}

// New loads the configuration and wires the daemon. Nothing runs until Start.
func New(opts Options) (*Daemon, error) {
	if opts.ConfigPath == "" {
		return nil, ferrors.ConfigError("config path is required").Build()
	}
	store, err := config.OpenFileStore(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg := store.Load()

	d := &Daemon{
		store:     store,
		workers:   &WorkerGroup{},
		registry:  opts.Registry,
		obs:       refresh.NewSlogObserver(opts.Logger),
		watch:     opts.WatchConfig,
		snapshots: gateway.NewSnapshots(),
	}
	d.status.Store(StatusStopped)

	if d.registry == nil {
		d.registry = prom.NewRegistry()
	}
	recorder := metrics.NewPrometheusRecorder(d.registry)

	ticks := opts.Ticks
	if ticks == nil {
		sched, err := NewScheduler()
		if err != nil {
			return nil, err
		}
		d.scheduler = sched
		ticks = sched
	}

	d.busy = &refresh.BusyCounter{OnChange: recorder.SetActiveTasks}
	d.view = refresh.NewView(cfg.Daemon.InitialView)
	d.gate = refresh.NewFocusGate(refresh.GateConfig{Clock: opts.Clock, Observer: d.obs})

	d.publisher = opts.Publisher
	if d.publisher == nil {
		d.publisher = newPublisher(cfg.Notify)
	}

	provider := opts.Provider
	if provider == nil {
		provider = discovery.NewLMStudioClient(opts.HTTPClient, retry.FromConfig(cfg.Discovery.Retry))
	}
	d.reconciler, err = discovery.NewReconciler(discovery.ReconcilerConfig{
		Source:       store,
		Provider:     provider,
		Busy:         d.busy,
		ProviderName: cfg.Discovery.Provider,
		FetchTimeout: cfg.Discovery.FetchTimeout,
		Observer:     d.obs,
		Recorder:     recorder,
		Publisher:    d.publisher,
	})
	if err != nil {
		return nil, err
	}

	client := gateway.NewClient(cfg.Gateway, opts.HTTPClient)
	poll := func(r gateway.Resource) refresh.Task {
		return gateway.NewPoller(client, d.snapshots, r, recorder).Task()
	}

	configs := []refresh.ChannelConfig{
		{Name: ChannelDiscovery, Interval: DiscoveryInterval, Task: d.reconciler.Task()},
		{Name: ChannelNodes, Interval: NodesInterval, Task: poll(gateway.ResourceNodes)},
		{Name: ChannelLogs, Interval: LogsInterval, Task: poll(gateway.ResourceLogs), Enabled: d.view.When(ViewLogs)},
		{Name: ChannelDebug, Interval: DebugInterval, Task: poll(gateway.ResourceDebug), Enabled: d.view.When(ViewDebug)},
		{Name: ChannelConfig, Interval: ConfigInterval, Task: poll(gateway.ResourceConfig), Enabled: d.view.When(ViewAgents), Pause: d.gate.State()},
	}
	byName := make(map[string]*refresh.Channel, len(configs))
	for _, cc := range configs {
		cc.Ticks = ticks
		cc.Dispatch = d.workers
		cc.Observer = d.obs
		cc.Recorder = recorder
		ch, err := refresh.NewChannel(cc)
		if err != nil {
			return nil, err
		}
		d.channels = append(d.channels, ch)
		byName[cc.Name] = ch
	}
	d.discovery = byName[ChannelDiscovery]
	d.session = NewSession(d.view, SessionChannels{
		Nodes:  byName[ChannelNodes],
		Logs:   byName[ChannelLogs],
		Debug:  byName[ChannelDebug],
		Config: byName[ChannelConfig],
	}, d.obs)

	addr := cfg.Daemon.AdminAddr
	if opts.AdminAddr != "" {
		addr = opts.AdminAddr
	}
	if addr != "-" {
		d.http = NewHTTPServer(addr, d)
	}
	return d, nil
}

func newPublisher(cfg config.NotifyConfig) notify.Publisher {
	url := config.Expand(cfg.NATSURL)
	if url == "" {
		return notify.Nop{}
	}
	p, err := notify.NewNATSPublisher(url, cfg.Subject)
	if err != nil {
		slog.Warn("Change notifications disabled", logfields.Error(err))
		return notify.Nop{}
	}
	return p
}

// Start launches the scheduler, the discovery channel, the session channels
// and the admin server.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if s := d.GetStatus(); s != StatusStopped {
		return ferrors.SchedulerError("daemon is not stopped").
			WithContext("status", string(s)).
			Build()
	}
	d.status.Store(StatusStarting)
	d.startTime.Store(time.Now().UnixNano())
	d.workers.Reset()

	if err := d.start(ctx); err != nil {
		d.status.Store(StatusError)
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, terr := range d.teardown(stopCtx) {
			slog.Warn("Cleanup after failed start", logfields.Error(terr))
		}
		d.status.Store(StatusStopped)
		return err
	}

	d.status.Store(StatusRunning)
	slog.Info("Daemon started",
		logfields.View(d.view.Current()),
		logfields.Path(d.store.Path()))
	return nil
}

func (d *Daemon) start(ctx context.Context) error {
	if d.scheduler != nil {
		d.scheduler.Start()
	}
	if d.watch {
		w, err := config.NewWatcher(d.store, 0)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		d.watcher = w
	}
	if err := d.discovery.Start(ctx); err != nil {
		return err
	}
	if err := d.session.Connect(ctx); err != nil {
		return err
	}
	if d.http != nil {
		if err := d.http.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Stop halts all channels and waits, bounded by ctx, for in-flight tasks.
func (d *Daemon) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.GetStatus() == StatusStopped {
		return nil
	}
	d.status.Store(StatusStopping)
	slog.Info("Stopping daemon")

	errs := d.teardown(ctx)
	if d.scheduler != nil {
		if err := d.scheduler.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := d.publisher.Close(); err != nil {
		errs = append(errs, err)
	}

	d.status.Store(StatusStopped)
	if len(errs) > 0 {
		return ferrors.WrapError(stdErrors.Join(errs...), ferrors.CategoryRuntime, "daemon shutdown errors").Build()
	}
	slog.Info("Daemon stopped")
	return nil
}

// teardown stops whatever start armed. Every step is a no-op for a
// component that never started. The scheduler and publisher stay usable.
func (d *Daemon) teardown(ctx context.Context) []error {
	var errs []error
	d.session.Disconnect()
	d.discovery.Stop()
	if d.http != nil {
		if err := d.http.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			errs = append(errs, err)
		}
		d.watcher = nil
	}
	if d.scheduler != nil {
		if err := d.scheduler.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := d.workers.StopAndWait(ctx); err != nil {
		slog.Warn("Timed out waiting for refresh tasks", logfields.ActiveTasks(d.workers.Active()))
		errs = append(errs, err)
	}
	return errs
}

// Run starts the daemon, blocks until ctx is done, then stops it.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return d.Stop(stopCtx)
}

// GetStatus returns the daemon lifecycle status.
func (d *Daemon) GetStatus() Status {
	if s, ok := d.status.Load().(Status); ok {
		return s
	}
	return StatusStopped
}

// StartTime returns when the daemon was last started.
func (d *Daemon) StartTime() time.Time {
	if n := d.startTime.Load(); n != 0 {
		return time.Unix(0, n)
	}
	return time.Time{}
}

// Busy returns the counter the foreground executor reports into.
func (d *Daemon) Busy() *refresh.BusyCounter { return d.busy }

// Gate returns the focus gate that pauses config polling.
func (d *Daemon) Gate() *refresh.FocusGate { return d.gate }

// Session returns the view lifecycle session.
func (d *Daemon) Session() *Session { return d.session }

// Snapshots returns the gateway snapshot store.
func (d *Daemon) Snapshots() *gateway.Snapshots { return d.snapshots }

// Config returns the current configuration snapshot.
func (d *Daemon) Config() *config.Config { return d.store.Load() }

// TriggerDiscovery runs one reconciliation now. It returns false when a run
// is already in flight.
func (d *Daemon) TriggerDiscovery(ctx context.Context) (discovery.Report, bool) {
	if !d.discovery.RunNow(ctx) {
		return discovery.Report{}, false
	}
	return d.reconciler.LastReport(), true
}
