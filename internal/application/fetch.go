package application

import (
	"context"
	"time"

	"github.com/davarch/actions-dash/internal/domain"
	"go.uber.org/zap"
)

// Fetcher wraps every remote operation with the same shape: short-circuit
// when the client is unconfigured, publish the result as a typed event on
// success, publish an AppError event on failure while still returning the
// error to the immediate caller. The Spawn variants are fire-and-forget
// for polling paths; their results arrive only through the bus.
type Fetcher struct {
	client domain.Client
	bus    domain.Dispatcher
	log    *zap.Logger
}

func NewFetcher(client domain.Client, bus domain.Dispatcher, log *zap.Logger) *Fetcher {
	return &Fetcher{client: client, bus: bus, log: log}
}

func (f *Fetcher) FetchProjects(ctx context.Context) error {
	if !f.client.Configured() {
		return nil
	}
	f.log.Info("fetching projects")
	projects, err := f.client.Projects(ctx)
	if err != nil {
		f.log.Error("project fetch failed", zap.Error(err))
		f.bus.Dispatch(domain.AppError{Err: domain.AsFailure(err)})
		return err
	}
	f.log.Debug("fetched projects", zap.Int("count", len(projects)))
	f.bus.Dispatch(domain.ProjectsLoaded{Projects: projects})
	return nil
}

func (f *Fetcher) FetchPipelines(ctx context.Context, project domain.ProjectID, updatedAfter *time.Time) error {
	if !f.client.Configured() {
		return nil
	}
	pipelines, err := f.client.Pipelines(ctx, project, updatedAfter)
	if err != nil {
		f.log.Error("pipeline fetch failed",
			zap.Stringer("project", project),
			zap.Error(err),
		)
		f.bus.Dispatch(domain.AppError{Err: domain.AsFailure(err)})
		return err
	}
	f.log.Debug("fetched pipelines",
		zap.Stringer("project", project),
		zap.Int("count", len(pipelines)),
	)
	f.bus.Dispatch(domain.PipelinesLoaded{Pipelines: pipelines})
	return nil
}

func (f *Fetcher) FetchJobs(ctx context.Context, project domain.ProjectID, pipeline domain.PipelineID) error {
	if !f.client.Configured() {
		return nil
	}
	jobs, err := f.client.Jobs(ctx, project, pipeline)
	if err != nil {
		f.log.Error("job fetch failed",
			zap.Stringer("project", project),
			zap.Stringer("pipeline", pipeline),
			zap.Error(err),
		)
		f.bus.Dispatch(domain.AppError{Err: domain.AsFailure(err)})
		return err
	}
	f.log.Debug("fetched jobs",
		zap.Stringer("project", project),
		zap.Stringer("pipeline", pipeline),
		zap.Int("count", len(jobs)),
	)
	f.bus.Dispatch(domain.JobsLoaded{Project: project, Pipeline: pipeline, Jobs: jobs})
	return nil
}

func (f *Fetcher) DownloadJobLog(ctx context.Context, project domain.ProjectID, job domain.JobID) error {
	if !f.client.Configured() {
		return nil
	}
	f.log.Info("downloading job log",
		zap.Stringer("project", project),
		zap.Stringer("job", job),
	)
	trace, err := f.client.JobLog(ctx, project, job)
	if err != nil {
		f.log.Error("job log download failed",
			zap.Stringer("project", project),
			zap.Stringer("job", job),
			zap.Error(err),
		)
		f.bus.Dispatch(domain.AppError{Err: domain.AsFailure(err)})
		return err
	}
	f.bus.Dispatch(domain.JobLogDownloaded{Project: project, Job: job, Log: trace})
	return nil
}

func (f *Fetcher) FetchStatistics(ctx context.Context, project domain.ProjectID) error {
	if !f.client.Configured() {
		return nil
	}
	f.log.Info("fetching repository statistics", zap.Stringer("project", project))
	stats, err := f.client.Statistics(ctx, project)
	if err != nil {
		f.log.Error("statistics fetch failed",
			zap.Stringer("project", project),
			zap.Error(err),
		)
		f.bus.Dispatch(domain.AppError{Err: domain.AsFailure(err)})
		return err
	}
	f.bus.Dispatch(domain.ProjectStatisticsLoaded{Project: project, Stats: stats})
	return nil
}

func (f *Fetcher) SpawnFetchProjects(ctx context.Context) {
	go func() {
		if err := f.FetchProjects(ctx); err != nil {
			f.log.Warn("background project fetch failed", zap.Error(err))
		}
	}()
}

func (f *Fetcher) SpawnFetchPipelines(ctx context.Context, project domain.ProjectID, updatedAfter *time.Time) {
	go func() {
		if err := f.FetchPipelines(ctx, project, updatedAfter); err != nil {
			f.log.Warn("background pipeline fetch failed", zap.Error(err))
		}
	}()
}

func (f *Fetcher) SpawnFetchJobs(ctx context.Context, project domain.ProjectID, pipeline domain.PipelineID) {
	go func() {
		if err := f.FetchJobs(ctx, project, pipeline); err != nil {
			f.log.Warn("background job fetch failed", zap.Error(err))
		}
	}()
}

func (f *Fetcher) SpawnDownloadJobLog(ctx context.Context, project domain.ProjectID, job domain.JobID) {
	go func() {
		if err := f.DownloadJobLog(ctx, project, job); err != nil {
			f.log.Warn("background job log download failed", zap.Error(err))
		}
	}()
}

func (f *Fetcher) SpawnFetchStatistics(ctx context.Context, project domain.ProjectID) {
	go func() {
		if err := f.FetchStatistics(ctx, project); err != nil {
			f.log.Warn("background statistics fetch failed", zap.Error(err))
		}
	}()
}
