package github_http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/davarch/actions-dash/internal/domain"
	"go.uber.org/zap"
)

// pipelinesMaxPerPage is the stricter page-size cap the workflow runs
// endpoint enforces, regardless of the general per_page setting.
const pipelinesMaxPerPage = 60

// Client talks to the GitHub REST API. It holds no business state; every
// call is a function of the current settings snapshot and its arguments.
// Settings are hot-swapped atomically so in-flight requests finish with
// the snapshot they started with.
type Client struct {
	settings atomic.Pointer[domain.Settings]
	hc       *http.Client
	dump     *ResponseDump
	log      *zap.Logger
}

func New(settings domain.Settings, log *zap.Logger) *Client {
	tr := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
	}

	c := &Client{
		hc:   &http.Client{Transport: tr},
		dump: NewResponseDump(log),
		log:  log,
	}
	c.settings.Store(&settings)
	return c
}

// UpdateSettings validates and installs a new settings snapshot.
func (c *Client) UpdateSettings(s domain.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.settings.Store(&s)
	return nil
}

func (c *Client) Configured() bool {
	return c.current().Configured()
}

func (c *Client) current() domain.Settings {
	return *c.settings.Load()
}

func (c *Client) Projects(ctx context.Context) ([]domain.ProjectDTO, error) {
	s := c.current()
	u := projectsURL(s)

	if strings.Contains(u, "/search/repositories") {
		var envelope struct {
			Items []domain.ProjectDTO `json:"items"`
		}
		if err := c.getJSON(ctx, s, u, &envelope); err != nil {
			return nil, err
		}
		return envelope.Items, nil
	}

	var repos []domain.ProjectDTO
	if err := c.getJSON(ctx, s, u, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) Pipelines(ctx context.Context, project domain.ProjectID, updatedAfter *time.Time) ([]domain.PipelineDTO, error) {
	s := c.current()
	u := pipelinesURL(s, project, updatedAfter)

	var envelope struct {
		WorkflowRuns []domain.PipelineDTO `json:"workflow_runs"`
	}
	if err := c.getJSON(ctx, s, u, &envelope); err != nil {
		return nil, err
	}

	// The runs payload omits the repository id; carry it on every DTO.
	for i := range envelope.WorkflowRuns {
		envelope.WorkflowRuns[i].ProjectID = project
	}
	return envelope.WorkflowRuns, nil
}

func (c *Client) Jobs(ctx context.Context, project domain.ProjectID, pipeline domain.PipelineID) ([]domain.JobDTO, error) {
	s := c.current()
	u := fmt.Sprintf("%s/repos/%s/actions/runs/%s/jobs", baseURL(s), project, pipeline)

	var envelope struct {
		Jobs []domain.JobDTO `json:"jobs"`
	}
	if err := c.getJSON(ctx, s, u, &envelope); err != nil {
		return nil, err
	}

	jobs := envelope.Jobs
	for i := range jobs {
		jobs[i].PipelineID = pipeline
	}
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].ID.Less(jobs[j].ID) })
	c.log.Debug("fetched jobs", zap.Int("count", len(jobs)))
	return jobs, nil
}

func (c *Client) JobLog(ctx context.Context, project domain.ProjectID, job domain.JobID) (string, error) {
	s := c.current()
	u := fmt.Sprintf("%s/repos/%s/actions/jobs/%s/logs", baseURL(s), project, job)

	body, err := c.getBody(ctx, s, u)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Statistics is a composite fetch: repository metadata is required, the
// commit count and artifact total degrade to underestimates instead of
// failing the whole call.
func (c *Client) Statistics(ctx context.Context, project domain.ProjectID) (domain.StatisticsDTO, error) {
	s := c.current()

	var repo struct {
		Size uint64 `json:"size"` // KB
	}
	repoURL := fmt.Sprintf("%s/repos/%s", baseURL(s), project)
	if err := c.getJSON(ctx, s, repoURL, &repo); err != nil {
		return domain.StatisticsDTO{}, err
	}

	return domain.StatisticsDTO{
		CommitCount:      c.commitCount(ctx, s, project),
		RepositorySize:   repo.Size * 1024,
		JobArtifactsSize: c.artifactsSize(ctx, s, project),
	}, nil
}

func (c *Client) commitCount(ctx context.Context, s domain.Settings, project domain.ProjectID) int {
	var contributors []struct {
		Contributions int `json:"contributions"`
	}
	u := fmt.Sprintf("%s/repos/%s/contributors?per_page=100", baseURL(s), project)
	if err := c.getJSON(ctx, s, u, &contributors); err == nil {
		total := 0
		for _, contributor := range contributors {
			total += contributor.Contributions
		}
		return total
	}

	// Counting one page of recent commits underestimates large
	// repositories but beats reporting zero.
	var commits []json.RawMessage
	u = fmt.Sprintf("%s/repos/%s/commits?per_page=100", baseURL(s), project)
	if err := c.getJSON(ctx, s, u, &commits); err != nil {
		c.log.Debug("commit count unavailable", zap.Stringer("project", project), zap.Error(err))
		return 0
	}
	return len(commits)
}

func (c *Client) artifactsSize(ctx context.Context, s domain.Settings, project domain.ProjectID) uint64 {
	var envelope struct {
		Artifacts []struct {
			SizeInBytes uint64 `json:"size_in_bytes"`
		} `json:"artifacts"`
	}
	u := fmt.Sprintf("%s/repos/%s/actions/artifacts?per_page=100", baseURL(s), project)
	if err := c.getJSON(ctx, s, u, &envelope); err != nil {
		c.log.Debug("artifact sizes unavailable", zap.Stringer("project", project), zap.Error(err))
		return 0
	}
	var total uint64
	for _, artifact := range envelope.Artifacts {
		total += artifact.SizeInBytes
	}
	return total
}

// getJSON fetches and decodes one endpoint, retrying transient failures.
func (c *Client) getJSON(ctx context.Context, s domain.Settings, url string, out any) error {
	body, err := c.getBody(ctx, s, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.APIError{
			Kind:     domain.APIErrJSONParse,
			Endpoint: urlPath(url),
			Message:  err.Error() + "; body: " + truncate(string(body), 512),
			Cause:    err,
		}
	}
	return nil
}

func (c *Client) getBody(ctx context.Context, s domain.Settings, url string) ([]byte, error) {
	var body []byte

	op := func() error {
		var err error
		body, err = c.doOnce(ctx, s, url)
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 300 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	retry := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(s.MaxRetries)), ctx)

	if err := backoff.Retry(op, retry); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) doOnce(ctx context.Context, s domain.Settings, rawURL string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, backoff.Permanent(&domain.APIError{
			Kind:    domain.APIErrInvalidURL,
			Message: rawURL,
			Cause:   err,
		})
	}
	req.Header.Set("Authorization", "token "+s.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "actions-dash")

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.APIError{Kind: domain.APIErrTimeout, Message: rawURL, Cause: err}
		}
		return nil, &domain.APIError{Kind: domain.APIErrHTTP, Message: err.Error(), Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.APIError{Kind: domain.APIErrHTTP, Message: err.Error(), Cause: err}
	}

	if s.DumpResponses {
		c.dump.Write(s.DumpDir, urlPath(rawURL), body)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := classifyError(resp.StatusCode, body)
	if retryableStatus(resp.StatusCode) {
		return nil, apiErr
	}
	return nil, backoff.Permanent(apiErr)
}

func retryableStatus(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

func baseURL(s domain.Settings) string {
	return strings.TrimRight(s.BaseURL, "/")
}

// projectsURL picks the listing endpoint. Plain filters go to the
// reliable user repos listing; anything that looks like GitHub search
// syntax (a colon or a space) goes to the search endpoint scoped to the
// authenticated user.
func projectsURL(s domain.Settings) string {
	filter := s.SearchFilter
	if filter == "" || (!strings.Contains(filter, ":") && !strings.Contains(filter, " ")) {
		return fmt.Sprintf("%s/user/repos?type=all&sort=updated&direction=desc&per_page=%d",
			baseURL(s), s.PerPage)
	}
	q := url.QueryEscape(filter + " user:@me")
	return fmt.Sprintf("%s/search/repositories?q=%s&sort=updated&order=desc&per_page=%d",
		baseURL(s), q, s.PerPage)
}

func pipelinesURL(s domain.Settings, project domain.ProjectID, updatedAfter *time.Time) string {
	perPage := s.PerPage
	if perPage > pipelinesMaxPerPage {
		perPage = pipelinesMaxPerPage
	}
	u := fmt.Sprintf("%s/repos/%s/actions/runs?per_page=%d", baseURL(s), project, perPage)
	if updatedAfter != nil {
		u += "&created=" + url.QueryEscape(">="+updatedAfter.UTC().Format("2006-01-02T15:04:05Z"))
	}
	return u
}

func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Path
	}
	return rawURL
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
