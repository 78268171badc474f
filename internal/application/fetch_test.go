package application

import (
	"context"
	"testing"

	"github.com/davarch/actions-dash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFetcher(client *domain.MockClient) (*Fetcher, *domain.MockDispatcher) {
	bus := &domain.MockDispatcher{}
	return NewFetcher(client, bus, zap.NewNop()), bus
}

func TestFetcher_UnconfiguredClientShortCircuits(t *testing.T) {
	client := &domain.MockClient{Unconfigured: true}
	fetcher, bus := newTestFetcher(client)
	ctx := context.Background()

	require.NoError(t, fetcher.FetchProjects(ctx))
	require.NoError(t, fetcher.FetchPipelines(ctx, domain.NewProjectID("a/b"), nil))
	require.NoError(t, fetcher.FetchJobs(ctx, domain.NewProjectID("a/b"), domain.NewPipelineID(1)))
	require.NoError(t, fetcher.DownloadJobLog(ctx, domain.NewProjectID("a/b"), domain.NewJobID(1)))
	require.NoError(t, fetcher.FetchStatistics(ctx, domain.NewProjectID("a/b")))

	assert.Empty(t, client.Calls, "no remote call without credentials")
	assert.Empty(t, bus.Events, "no event without a result")
}

func TestFetcher_SuccessDispatchesLoadedEvents(t *testing.T) {
	client := &domain.MockClient{
		ProjectsResult:  []domain.ProjectDTO{{FullName: "acme/widgets"}},
		PipelinesResult: []domain.PipelineDTO{{ID: domain.NewPipelineID(1)}},
		JobsResult:      []domain.JobDTO{{ID: domain.NewJobID(10)}},
		JobLogResult:    "build ok",
		StatsResult:     domain.StatisticsDTO{CommitCount: 5},
	}
	fetcher, bus := newTestFetcher(client)
	ctx := context.Background()
	id := domain.NewProjectID("acme/widgets")

	require.NoError(t, fetcher.FetchProjects(ctx))
	require.NoError(t, fetcher.FetchPipelines(ctx, id, nil))
	require.NoError(t, fetcher.FetchJobs(ctx, id, domain.NewPipelineID(1)))
	require.NoError(t, fetcher.DownloadJobLog(ctx, id, domain.NewJobID(10)))
	require.NoError(t, fetcher.FetchStatistics(ctx, id))

	assert.Equal(t, []string{
		"ProjectsLoaded",
		"PipelinesLoaded",
		"JobsLoaded",
		"JobLogDownloaded",
		"ProjectStatisticsLoaded",
	}, bus.Names())

	jobs := bus.Events[2].(domain.JobsLoaded)
	assert.Equal(t, id, jobs.Project)
	assert.Equal(t, domain.NewPipelineID(1), jobs.Pipeline)

	log := bus.Events[3].(domain.JobLogDownloaded)
	assert.Equal(t, "build ok", log.Log)
}

func TestFetcher_FailureDispatchesAppErrorAndReturnsIt(t *testing.T) {
	client := &domain.MockClient{
		Err: &domain.APIError{Kind: domain.APIErrInvalidToken},
	}
	fetcher, bus := newTestFetcher(client)

	err := fetcher.FetchProjects(context.Background())
	require.Error(t, err)

	require.Len(t, bus.Events, 1)
	appErr, ok := bus.Events[0].(domain.AppError)
	require.True(t, ok)
	assert.Equal(t, domain.FailInvalidToken, appErr.Err.Kind)
}

func TestFetcher_PipelinesForwardProjectScope(t *testing.T) {
	client := &domain.MockClient{
		PipelinesResult: []domain.PipelineDTO{{ID: domain.NewPipelineID(1)}},
	}
	fetcher, bus := newTestFetcher(client)
	id := domain.NewProjectID("acme/widgets")

	require.NoError(t, fetcher.FetchPipelines(context.Background(), id, nil))

	loaded := bus.Events[0].(domain.PipelinesLoaded)
	require.Len(t, loaded.Pipelines, 1)
	assert.Equal(t, id, loaded.Pipelines[0].ProjectID)
}
