package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/logfields"
)

// Scheduler wraps a gocron scheduler and serves as the production
// refresh.TickSource: one duration job per started channel.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(opts ...gocron.SchedulerOption) (*Scheduler, error) {
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryScheduler, "failed to create gocron scheduler").Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop halts job execution. Registered jobs survive and Start may be called again.
func (s *Scheduler) Stop(ctx context.Context) error {
	slog.Info("Stopping scheduler")
	return waitCtx(ctx, s.scheduler.StopJobs)
}

// Shutdown stops the scheduler for good.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	return waitCtx(ctx, s.scheduler.Shutdown)
}

func waitCtx(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Every registers fn to run every interval and implements refresh.TickSource.
// The first run happens one interval after registration; cancel removes the job.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) (cancel func(), err error) {
	if interval <= 0 {
		return nil, ferrors.SchedulerError("interval must be > 0").
			WithContext("job", name).
			Build()
	}
	if fn == nil {
		return nil, ferrors.SchedulerError("job function is required").
			WithContext("job", name).
			Build()
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryScheduler, "failed to create periodic job").
			WithContext("job", name).
			Build()
	}

	id := job.ID()
	var once sync.Once
	return func() {
		once.Do(func() {
			if err := s.scheduler.RemoveJob(id); err != nil {
				slog.Warn("Failed to remove scheduled job",
					logfields.Channel(name),
					logfields.Error(err))
			}
		})
	}, nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.scheduler.Jobs())
}
