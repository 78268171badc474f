package application

import (
	"context"
	"sync"
	"time"

	"github.com/davarch/actions-dash/internal/domain"
	"go.uber.org/zap"
)

// Scheduler drives the two polling cadences: a slow full project refresh
// and a fast sweep for jobs of pipelines that are still running.
type Scheduler struct {
	fetcher *Fetcher
	bus     domain.Dispatcher
	log     *zap.Logger

	projectsInterval time.Duration
	jobsInterval     time.Duration

	wg sync.WaitGroup
}

func NewScheduler(fetcher *Fetcher, bus domain.Dispatcher, projectsInterval, jobsInterval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		fetcher:          fetcher,
		bus:              bus,
		log:              log,
		projectsInterval: projectsInterval,
		jobsInterval:     jobsInterval,
	}
}

// Start launches both ticker loops. They stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting scheduler",
		zap.Duration("projects_interval", s.projectsInterval),
		zap.Duration("jobs_interval", s.jobsInterval),
	)

	s.wg.Add(2)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.projectsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.fetcher.SpawnFetchProjects(ctx)
			}
		}
	}()

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.jobsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.bus.Dispatch(domain.JobsActiveFetch{})
			}
		}
	}()
}

// Wait blocks until both ticker loops have exited, with a small grace
// period so shutdown cannot hang on a stuck goroutine.
func (s *Scheduler) Wait() {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		s.log.Warn("scheduler shutdown grace period elapsed")
	}
	s.log.Info("scheduler stopped")
}
