package github_http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/davarch/actions-dash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSettings(baseURL string) domain.Settings {
	return domain.Settings{
		BaseURL:    baseURL,
		Token:      "ghp_0123456789abcdefghij",
		PerPage:    100,
		Timeout:    5 * time.Second,
		MaxRetries: 0,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(testSettings(srv.URL), zap.NewNop()), srv
}

func TestProjects_PlainFilterUsesRepoListing(t *testing.T) {
	var gotPath, gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"full_name":"acme/widgets","default_branch":"main"}]`))
	})

	projects, err := client.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "acme/widgets", projects[0].FullName)
	assert.Equal(t, "/user/repos", gotPath)
	assert.Equal(t, "token ghp_0123456789abcdefghij", gotAuth)
}

func TestProjects_SearchSyntaxUsesSearchEndpoint(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"items":[{"full_name":"acme/widgets"}]}`))
	})

	s := client.current()
	s.SearchFilter = "language:go stars:>100"
	client.settings.Store(&s)

	projects, err := client.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "/search/repositories", gotPath)
	assert.Equal(t, "language:go stars:>100 user:@me", gotQuery, "filter is scoped to the authenticated user")
}

func TestPipelines_PerPageClampAndCreatedFilter(t *testing.T) {
	var gotQuery map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"workflow_runs":[{"id":1,"status":"completed"}]}`))
	})

	after := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	runs, err := client.Pipelines(context.Background(), domain.NewProjectID("acme/widgets"), &after)
	require.NoError(t, err)

	assert.Equal(t, []string{"60"}, gotQuery["per_page"], "workflow runs cap at 60 regardless of settings")
	assert.Equal(t, []string{">=2026-08-20T12:00:00Z"}, gotQuery["created"])

	require.Len(t, runs, 1)
	assert.Equal(t, domain.NewProjectID("acme/widgets"), runs[0].ProjectID, "repository id is back-filled")
}

func TestPipelines_NoUpdatedAfterOmitsCreated(t *testing.T) {
	var gotRaw string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRaw = r.URL.RawQuery
		w.Write([]byte(`{"workflow_runs":[]}`))
	})

	_, err := client.Pipelines(context.Background(), domain.NewProjectID("acme/widgets"), nil)
	require.NoError(t, err)
	assert.NotContains(t, gotRaw, "created")
}

func TestJobs_BackfillAndSortAscending(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/actions/runs/7/jobs", r.URL.Path)
		w.Write([]byte(`{"jobs":[{"id":30},{"id":10},{"id":20}]}`))
	})

	jobs, err := client.Jobs(context.Background(), domain.NewProjectID("acme/widgets"), domain.NewPipelineID(7))
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, domain.NewJobID(10), jobs[0].ID)
	assert.Equal(t, domain.NewJobID(20), jobs[1].ID)
	assert.Equal(t, domain.NewJobID(30), jobs[2].ID)
	for _, j := range jobs {
		assert.Equal(t, domain.NewPipelineID(7), j.PipelineID)
	}
}

func TestJobLog_ReturnsRawBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/actions/jobs/42/logs", r.URL.Path)
		w.Write([]byte("line one\nline two\n"))
	})

	log, err := client.JobLog(context.Background(), domain.NewProjectID("acme/widgets"), domain.NewJobID(42))
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", log)
}

func TestStatistics_CompositeFetch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/widgets":
			w.Write([]byte(`{"size":2048}`))
		case "/repos/acme/widgets/contributors":
			w.Write([]byte(`[{"contributions":100},{"contributions":34}]`))
		case "/repos/acme/widgets/actions/artifacts":
			w.Write([]byte(`{"artifacts":[{"size_in_bytes":1000},{"size_in_bytes":24}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	stats, err := client.Statistics(context.Background(), domain.NewProjectID("acme/widgets"))
	require.NoError(t, err)
	assert.Equal(t, 134, stats.CommitCount)
	assert.Equal(t, uint64(2048*1024), stats.RepositorySize, "wire size is KB, result is bytes")
	assert.Equal(t, uint64(1024), stats.JobArtifactsSize)
}

func TestStatistics_DegradesToCommitPageThenZero(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/acme/widgets":
			w.Write([]byte(`{"size":10}`))
		case "/repos/acme/widgets/commits":
			w.Write([]byte(`[{},{},{}]`))
		default:
			http.NotFound(w, r)
		}
	})

	stats, err := client.Statistics(context.Background(), domain.NewProjectID("acme/widgets"))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CommitCount, "one page of commits beats reporting zero")
	assert.Zero(t, stats.JobArtifactsSize, "artifacts listing failure is not fatal")
}

func TestStatistics_RequiredRepoFetchFails(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.Statistics(context.Background(), domain.NewProjectID("acme/widgets"))
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.APIErrNotFound, apiErr.Kind)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   domain.APIErrorKind
	}{
		{"invalid token", 401, `{"error":"invalid_token"}`, domain.APIErrInvalidToken},
		{"expired token", 401, `{"error":"expired_token"}`, domain.APIErrExpiredToken},
		{"expired by description", 401, `{"error":"bad","error_description":"token expiry reached"}`, domain.APIErrExpiredToken},
		{"plain unauthorized", 401, `{"message":"Requires authentication"}`, domain.APIErrAuthentication},
		{"not found", 404, `{"message":"Not Found"}`, domain.APIErrNotFound},
		{"unprocessable", 422, `{"message":"Validation Failed"}`, domain.APIErrGithubAPI},
		{"rate limited", 429, `{"message":"API rate limit exceeded"}`, domain.APIErrRateLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Projects(context.Background())
			var apiErr *domain.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.kind, apiErr.Kind)
		})
	}
}

func TestGetJSON_ParseErrorNamesEndpoint(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jobs": not json`))
	})

	_, err := client.Jobs(context.Background(), domain.NewProjectID("acme/widgets"), domain.NewPipelineID(1))
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.APIErrJSONParse, apiErr.Kind)
	assert.Equal(t, "/repos/acme/widgets/actions/runs/1/jobs", apiErr.Endpoint)
}

func TestUpdateSettings_RejectsInvalid(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	bad := testSettings(srv.URL + "/api/v3")
	bad.Token = "not-a-token"
	err := client.UpdateSettings(bad)
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.APIErrConfigValidation, apiErr.Kind)

	good := testSettings(srv.URL + "/api/v3")
	good.PerPage = 50
	require.NoError(t, client.UpdateSettings(good))
	assert.Equal(t, 50, client.current().PerPage)
}

func TestRetry_ServerErrorThenSuccess(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	s := testSettings(srv.URL)
	s.MaxRetries = 2
	client := New(s, zap.NewNop())

	_, err := client.Projects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetry_RateLimitIsRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"API rate limit exceeded"}`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	s := testSettings(srv.URL)
	s.MaxRetries = 2
	client := New(s, zap.NewNop())

	_, err := client.Projects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, attempts, "rate limiting is transient, unlike the other 4xx")
}

func TestRetry_ClientErrorIsNotRetried(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	t.Cleanup(srv.Close)

	s := testSettings(srv.URL)
	s.MaxRetries = 3
	client := New(s, zap.NewNop())

	_, err := client.Projects(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
