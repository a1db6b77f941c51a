package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/refreshd/internal/config"
	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
	"git.home.luguber.info/inful/refreshd/internal/metrics"
	"git.home.luguber.info/inful/refreshd/internal/notify"
	"git.home.luguber.info/inful/refreshd/internal/refresh"
)

// ConfigSource reads and durably replaces the configuration snapshot.
type ConfigSource interface {
	Load() *config.Config
	Persist(ctx context.Context, next *config.Config) error
}

// Endpoint identifies a provider API. Values are already trimmed and expanded.
type Endpoint struct {
	BaseURL string
	APIKey  string
}

// Provider enumerates the models an endpoint currently serves.
type Provider interface {
	Discover(ctx context.Context, ep Endpoint) ([]config.ModelDefinition, error)
}

// Result is the outcome of one reconciliation run.
type Result string

const (
	ResultUnconfigured Result = "unconfigured"
	ResultBusy         Result = "busy"
	ResultEmpty        Result = "empty"
	ResultUnchanged    Result = "unchanged"
	ResultPersisted    Result = "persisted"
	ResultFailed       Result = "failed"
)

// ReconcilerConfig wires a Reconciler. Source and Provider are required.
type ReconcilerConfig struct {
	Source   ConfigSource
	Provider Provider
	Busy     refresh.BusySignal

	// ProviderName is the key under models.providers; defaults to lmstudio.
	ProviderName string
	// FetchTimeout bounds a single Discover call, retries included.
	FetchTimeout time.Duration

	Observer  refresh.Observer
	Recorder  metrics.Recorder
	Publisher notify.Publisher

	NewRunID func() string
	Now      func() time.Time
}

// Report describes the most recent run.
type Report struct {
	RunID           string    `json:"run_id"`
	Result          Result    `json:"result"`
	PreviousCount   int       `json:"previous_count"`
	DiscoveredCount int       `json:"discovered_count"`
	Error           string    `json:"error,omitempty"`
	FinishedAt      time.Time `json:"finished_at"`
}

// Reconciler keeps the configured model list of one provider in line with
// what the provider reports. It is meant to run as the task of a refresh
// channel, whose guard provides single-flight.
type Reconciler struct {
	cfg ReconcilerConfig

	mu   sync.Mutex
	last Report
}

// NewReconciler requires a Source and a Provider; other fields default.
func NewReconciler(cfg ReconcilerConfig) (*Reconciler, error) {
	if cfg.Source == nil {
		return nil, ferrors.ValidationError("config source is required").Build()
	}
	if cfg.Provider == nil {
		return nil, ferrors.ValidationError("provider is required").Build()
	}
	if cfg.Busy == nil {
		cfg.Busy = refresh.BusyFunc(func() int { return 0 })
	}
	if cfg.ProviderName == "" {
		cfg.ProviderName = config.ProviderLMStudio
	}
	if cfg.Observer == nil {
		cfg.Observer = refresh.NewSlogObserver(nil)
	}
	cfg.Recorder = metrics.OrNoop(cfg.Recorder)
	if cfg.Publisher == nil {
		cfg.Publisher = notify.Nop{}
	}
	if cfg.NewRunID == nil {
		cfg.NewRunID = func() string { return uuid.NewString() }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Reconciler{cfg: cfg}, nil
}

// Task adapts Run to a refresh.Task.
func (r *Reconciler) Task() refresh.Task {
	return func(ctx context.Context) error {
		_, err := r.Run(ctx)
		return err
	}
}

// LastReport returns the report of the most recent run.
func (r *Reconciler) LastReport() Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Run performs one reconciliation. Skips (unconfigured, busy, empty,
// unchanged) are not errors. Fetch and persist failures are returned
// classified; the stored configuration is untouched in both cases.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	report := Report{RunID: r.cfg.NewRunID()}
	result, err := r.run(ctx, &report)

	report.Result = result
	if err != nil {
		report.Error = err.Error()
	}
	report.FinishedAt = r.cfg.Now()
	r.mu.Lock()
	r.last = report
	r.mu.Unlock()
	r.cfg.Recorder.IncDiscoveryResult(string(result))
	return result, err
}

func (r *Reconciler) run(ctx context.Context, report *Report) (Result, error) {
	name := r.cfg.ProviderName

	cfg := r.cfg.Source.Load()
	provider := cfg.Provider(name)
	if provider == nil {
		return ResultUnconfigured, nil
	}
	report.PreviousCount = len(idSet(provider.Models))

	active := r.cfg.Busy.ActiveTaskCount()
	r.cfg.Recorder.SetActiveTasks(active)
	if active > 0 {
		return ResultBusy, nil
	}

	fetchCtx := ctx
	if r.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, r.cfg.FetchTimeout)
		defer cancel()
	}
	discovered, err := r.cfg.Provider.Discover(fetchCtx, Endpoint{
		BaseURL: config.Expand(provider.BaseURL),
		APIKey:  config.Expand(provider.APIKey),
	})
	if err != nil {
		return ResultFailed, ferrors.WrapError(err, ferrors.GetCategory(err), "model discovery failed").
			Warning().
			NextTick().
			WithContext("provider", name).
			WithContext("run_id", report.RunID).
			Build()
	}
	report.DiscoveredCount = len(discovered)
	if len(discovered) == 0 {
		return ResultEmpty, nil
	}
	if SameIDs(provider.Models, discovered) {
		return ResultUnchanged, nil
	}

	next := cfg.WithProviderModels(name, discovered)
	if err := r.cfg.Source.Persist(ctx, next); err != nil {
		return ResultFailed, ferrors.WrapError(err, ferrors.CategoryPersist, "failed to persist discovered models").
			Warning().
			NextTick().
			WithContext("provider", name).
			WithContext("run_id", report.RunID).
			Build()
	}

	r.cfg.Observer.Debug("Discovered models changed",
		logfields.RunID(report.RunID),
		logfields.Provider(name),
		logfields.DiscoveredCount(len(discovered)),
		logfields.PreviousCount(report.PreviousCount))

	r.publish(ctx, report.RunID, name, provider.Models, discovered)
	return ResultPersisted, nil
}

func (r *Reconciler) publish(ctx context.Context, runID, name string, previous, current []config.ModelDefinition) {
	d := Compare(previous, current)
	err := r.cfg.Publisher.PublishModelsChanged(ctx, &notify.ModelsChanged{
		RunID:     runID,
		Provider:  name,
		Previous:  IDs(previous),
		Current:   IDs(current),
		Added:     d.Added,
		Removed:   d.Removed,
		Timestamp: r.cfg.Now(),
	})
	if err != nil {
		r.cfg.Observer.Warn("Failed to publish models changed event",
			logfields.RunID(runID),
			logfields.Provider(name),
			logfields.Error(err))
	}
}
