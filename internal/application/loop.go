package application

import (
	"context"
	"time"

	"github.com/davarch/actions-dash/internal/domain"
	"go.uber.org/zap"
)

// Loop is the single consumer of the event bus and therefore the only
// goroutine that mutates the store, the notice queues and the input
// stack. Reactions that perform I/O are spawned; their results come back
// as new events.
type Loop struct {
	bus     *Bus
	store   *Store
	notices *Notices
	input   *InputStack
	fetcher *Fetcher
	client  domain.Client
	opener  domain.URLOpener
	log     *zap.Logger
}

func NewLoop(
	bus *Bus,
	store *Store,
	notices *Notices,
	input *InputStack,
	fetcher *Fetcher,
	client domain.Client,
	opener domain.URLOpener,
	log *zap.Logger,
) *Loop {
	return &Loop{
		bus:     bus,
		store:   store,
		notices: notices,
		input:   input,
		fetcher: fetcher,
		client:  client,
		opener:  opener,
		log:     log,
	}
}

func (l *Loop) Store() *Store { return l.store }

func (l *Loop) Notices() *Notices { return l.notices }

func (l *Loop) Input() *InputStack { return l.input }

// Run consumes events until the bus closes and drains. Cancelling ctx
// closes the bus; events already queued are still processed.
func (l *Loop) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		l.bus.Close()
	}()

	for {
		event, ok := l.bus.Next()
		if !ok {
			l.log.Info("event loop drained")
			return
		}
		l.logEvent(event)
		l.store.Apply(event)
		l.notices.Apply(event)
		l.input.Apply(event)
		l.react(ctx, event)
	}
}

func (l *Loop) react(ctx context.Context, event domain.Event) {
	switch e := event.(type) {
	case domain.AppExit:
		l.bus.Close()

	case domain.ProjectsFetch:
		l.fetcher.SpawnFetchProjects(ctx)

	case domain.PipelinesFetch:
		l.fetcher.SpawnFetchPipelines(ctx, e.Project, l.pipelinesUpdatedAfter(e.Project))

	case domain.JobsFetch:
		l.fetcher.SpawnFetchJobs(ctx, e.Project, e.Pipeline)

	case domain.JobsActiveFetch:
		for _, target := range l.store.ActiveJobTargets() {
			l.fetcher.SpawnFetchJobs(ctx, target.Project, target.Pipeline)
		}

	case domain.ProjectStatisticsFetch:
		l.fetcher.SpawnFetchStatistics(ctx, e.Project)

	case domain.JobLogFetch:
		l.fetchJobLog(ctx, e)

	case domain.ConfigUpdate:
		if err := l.client.UpdateSettings(e.Settings); err != nil {
			l.bus.Dispatch(domain.AppError{Err: domain.AsFailure(err)})
		}

	case domain.NotificationDismiss:
		l.notices.Pop()

	case domain.NotificationLast:
		if notice, ok := l.notices.LastNotification(); ok {
			l.notices.Push(notice)
		}

	case domain.ProjectOpenURL:
		if project := l.store.Find(e.Project); project != nil {
			l.openURL(ctx, project.URL)
		}

	case domain.PipelineOpenURL:
		if project := l.store.Find(e.Project); project != nil {
			if pipeline := project.Pipeline(e.Pipeline); pipeline != nil {
				l.openURL(ctx, pipeline.URL)
			}
		}

	case domain.JobOpenURL:
		if project := l.store.Find(e.Project); project != nil {
			if pipeline := project.Pipeline(e.Pipeline); pipeline != nil {
				if job := pipeline.Job(e.Job); job != nil {
					l.openURL(ctx, job.URL)
				}
			}
		}
	}
}

// pipelinesUpdatedAfter narrows a refresh to runs updated after the
// newest pipeline already held, or nothing for a first fetch.
func (l *Loop) pipelinesUpdatedAfter(id domain.ProjectID) *time.Time {
	project := l.store.Find(id)
	if project == nil || len(project.Pipelines) == 0 {
		return nil
	}
	latest := project.Pipelines[0].UpdatedAt
	for i := range project.Pipelines {
		if project.Pipelines[i].UpdatedAt.After(latest) {
			latest = project.Pipelines[i].UpdatedAt
		}
	}
	return &latest
}

// fetchJobLog picks which job's log the user meant: the failed job when
// one exists, the running one otherwise.
func (l *Loop) fetchJobLog(ctx context.Context, e domain.JobLogFetch) {
	project := l.store.Find(e.Project)
	if project == nil {
		return
	}
	pipeline := project.Pipeline(e.Pipeline)
	if pipeline == nil {
		return
	}
	job := pipeline.FailedJob()
	if job == nil {
		job = pipeline.ActiveJob()
	}
	if job == nil {
		l.log.Debug("no failed or active job to fetch log for",
			zap.Stringer("project", e.Project),
			zap.Stringer("pipeline", e.Pipeline),
		)
		return
	}
	l.fetcher.SpawnDownloadJobLog(ctx, e.Project, job.ID)
}

func (l *Loop) openURL(ctx context.Context, url string) {
	if l.opener == nil || url == "" {
		return
	}
	go func() {
		if err := l.opener.Open(ctx, url); err != nil {
			l.log.Warn("opening URL in browser failed", zap.String("url", url), zap.Error(err))
		}
	}()
}

// logEvent mirrors the event stream into the log at a level matching
// each variant's weight. LogEntry is skipped so log-driven events cannot
// feed back into the log.
func (l *Loop) logEvent(event domain.Event) {
	switch e := event.(type) {
	case domain.ProjectsFetch:
		l.log.Info("requesting all projects")
	case domain.ProjectsLoaded:
		l.log.Info("received projects", zap.Int("count", len(e.Projects)))
	case domain.JobsActiveFetch:
		l.log.Debug("requesting active job refresh for all projects")
	case domain.PipelinesFetch:
		l.log.Debug("requesting pipelines", zap.Stringer("project", e.Project))
	case domain.JobsFetch:
		l.log.Debug("requesting jobs",
			zap.Stringer("project", e.Project),
			zap.Stringer("pipeline", e.Pipeline),
		)
	case domain.ProjectStatisticsFetch:
		l.log.Debug("requesting repository statistics", zap.Stringer("project", e.Project))
	case domain.ProjectDetailsOpen:
		l.log.Debug("opening project details", zap.Stringer("project", e.Project))
	case domain.ProjectDetailsClose:
		l.log.Debug("closing project details")
	case domain.PipelineActionsOpen:
		l.log.Debug("opening pipeline actions",
			zap.Stringer("project", e.Project),
			zap.Stringer("pipeline", e.Pipeline),
		)
	case domain.ProjectSelected:
		l.log.Debug("selected project", zap.Stringer("project", e.Project))
	case domain.PipelineSelected:
		l.log.Debug("selected pipeline", zap.Stringer("pipeline", e.Pipeline))
	case domain.ProjectOpenURL:
		l.log.Info("opening project in browser", zap.Stringer("project", e.Project))
	case domain.PipelineOpenURL:
		l.log.Info("opening pipeline in browser",
			zap.Stringer("project", e.Project),
			zap.Stringer("pipeline", e.Pipeline),
		)
	case domain.JobOpenURL:
		l.log.Info("opening job in browser",
			zap.Stringer("project", e.Project),
			zap.Stringer("job", e.Job),
		)
	case domain.JobLogFetch:
		l.log.Info("requesting job log",
			zap.Stringer("project", e.Project),
			zap.Stringer("pipeline", e.Pipeline),
		)
	case domain.JobLogDownloaded:
		l.log.Info("job log downloaded",
			zap.Stringer("project", e.Project),
			zap.Stringer("job", e.Job),
			zap.Int("length", len(e.Log)),
		)
	case domain.ConfigOpen:
		l.log.Debug("displaying configuration")
	case domain.ConfigApply:
		l.log.Info("applying new configuration")
	case domain.ConfigUpdate:
		l.log.Debug("updating configuration")
	case domain.ApplyTemporaryFilter:
		l.log.Debug("applying temporary filter", zap.String("filter", e.Filter))
	case domain.FilterClear:
		l.log.Info("clearing project filter")
	case domain.AppExit:
		l.log.Info("application shutting down")
	case domain.AppError:
		l.log.Warn("application error", zap.String("error", e.Err.Error()))
	}
}
