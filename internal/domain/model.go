package domain

import (
	"sort"
	"strings"
	"time"
)

// Status is the state of a workflow run or a job.
type Status string

const (
	StatusQueued         Status = "queued"
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusActionRequired Status = "action_required"
	StatusCancelled      Status = "cancelled"
	StatusFailure        Status = "failure"
	StatusNeutral        Status = "neutral"
	StatusSkipped        Status = "skipped"
	StatusStale          Status = "stale"
	StatusSuccess        Status = "success"
	StatusTimedOut       Status = "timed_out"
	StatusUnknown        Status = "unknown"
)

// Active reports whether the status is non-terminal.
func (s Status) Active() bool {
	switch s {
	case StatusQueued, StatusInProgress, StatusActionRequired:
		return true
	}
	return false
}

func mapStatus(s string) Status {
	switch Status(s) {
	case StatusQueued, StatusInProgress, StatusCompleted, StatusActionRequired,
		StatusCancelled, StatusFailure, StatusNeutral, StatusSkipped,
		StatusStale, StatusSuccess, StatusTimedOut:
		return Status(s)
	case "":
		return StatusQueued
	}
	return StatusUnknown
}

func (s *Status) UnmarshalJSON(b []byte) error {
	*s = mapStatus(strings.Trim(string(b), `"`))
	return nil
}

// Source is the trigger kind of a workflow run.
type Source string

const (
	SourcePush             Source = "push"
	SourcePullRequest      Source = "pull_request"
	SourceRelease          Source = "release"
	SourceSchedule         Source = "schedule"
	SourceWorkflowDispatch Source = "workflow_dispatch"
	SourceUnknown          Source = "unknown"
)

var knownSources = map[Source]string{
	SourcePush:             "push",
	SourcePullRequest:      "pull request",
	SourceRelease:          "release",
	SourceSchedule:         "schedule",
	SourceWorkflowDispatch: "manual",
	"check_run":            "check run",
	"check_suite":          "check suite",
	"create":               "create",
	"delete":               "delete",
	"deployment":           "deployment",
	"deployment_status":    "deploy status",
	"fork":                 "fork",
	"gollum":               "wiki",
	"issue_comment":        "issue comment",
	"issues":               "issues",
	"label":                "label",
	"milestone":            "milestone",
	"page_build":           "pages",
	"public":               "public",
	"pull_request_review":  "pr review",
	"registry_package":     "package",
	"repository_dispatch":  "repo dispatch",
	"status":               "status",
	"watch":                "watch",
	"workflow_run":         "workflow",
	SourceUnknown:          "unknown",
}

// Interesting reports whether runs with this trigger are worth listing in
// compact views: pushes, PRs, schedules, manual dispatches and releases.
func (s Source) Interesting() bool {
	switch s {
	case SourcePush, SourcePullRequest, SourceSchedule, SourceWorkflowDispatch, SourceRelease:
		return true
	}
	return false
}

// Label returns the human-readable name of the trigger.
func (s Source) Label() string {
	if l, ok := knownSources[s]; ok {
		return l
	}
	return string(SourceUnknown)
}

func (s *Source) UnmarshalJSON(b []byte) error {
	v := Source(strings.Trim(string(b), `"`))
	if _, ok := knownSources[v]; !ok {
		v = SourceUnknown
	}
	*s = v
	return nil
}

// Project is the aggregate root: one repository and everything fetched
// about it so far. Pipelines is nil until the first fetch is requested and
// an empty non-nil slice while a fetch is in flight; once non-nil it is
// never reset to nil.
type Project struct {
	ID             ProjectID
	Path           string
	Description    string
	DefaultBranch  string
	SSHURL         string
	URL            string
	LastActivityAt time.Time

	Pipelines []Pipeline

	CommitCount       int
	RepoSizeKB        uint64
	ArtifactsSizeKB   uint64
	StatisticsLoading bool
}

// Pipeline is one workflow run. Jobs is nil until fetched; Commit is
// carried on job results and stashed here.
type Pipeline struct {
	ID        PipelineID
	ProjectID ProjectID
	Name      string
	Status    Status
	Source    Source
	Branch    string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time

	Jobs   []Job
	Commit *Commit
}

// Job is one unit of work within a workflow run.
type Job struct {
	ID         JobID
	Name       string
	Status     Status
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
	URL        string
}

// Commit is the minimal commit metadata shown next to a pipeline.
type Commit struct {
	Title      string
	AuthorName string
}

func (p *Project) LastActivity() time.Time { return p.LastActivityAt }

// Title is the repository name without its owner prefix.
func (p *Project) Title() string {
	if i := strings.LastIndexByte(p.Path, '/'); i >= 0 {
		return p.Path[i+1:]
	}
	return p.Path
}

// PathAndName splits "owner/name" into its owner prefix (with trailing
// slash) and name.
func (p *Project) PathAndName() (string, string) {
	if i := strings.LastIndexByte(p.Path, '/'); i >= 0 {
		return p.Path[:i+1], p.Path[i+1:]
	}
	return "", p.Path
}

// recentPipelineWindow bounds how many pipelines the details view eagerly
// loads jobs for.
const recentPipelineWindow = 8

// RecentPipelines returns the first few pipelines with an interesting
// trigger, in stored (most recently updated first) order.
func (p *Project) RecentPipelines() []*Pipeline {
	var out []*Pipeline
	for i := range p.Pipelines {
		if !p.Pipelines[i].Source.Interesting() {
			continue
		}
		out = append(out, &p.Pipelines[i])
		if len(out) == recentPipelineWindow {
			break
		}
	}
	return out
}

// FirstPipelinePerBranch returns up to count pipelines, one per branch,
// keeping those with an interesting trigger or matching the predicate.
func (p *Project) FirstPipelinePerBranch(count int, pred func(*Pipeline) bool) []*Pipeline {
	var out []*Pipeline
	seen := make(map[string]bool)
	for i := range p.Pipelines {
		pl := &p.Pipelines[i]
		if !pl.Source.Interesting() && !pred(pl) {
			continue
		}
		if seen[pl.Branch] {
			continue
		}
		seen[pl.Branch] = true
		out = append(out, pl)
		if len(out) == count {
			break
		}
	}
	return out
}

func (p *Project) HasActivePipelines() bool {
	for i := range p.Pipelines {
		if p.Pipelines[i].Status.Active() || p.Pipelines[i].HasActiveJobs() {
			return true
		}
	}
	return false
}

// Pipeline returns the pipeline with the given id, or nil.
func (p *Project) Pipeline(id PipelineID) *Pipeline {
	for i := range p.Pipelines {
		if p.Pipelines[i].ID == id {
			return &p.Pipelines[i]
		}
	}
	return nil
}

// UpdatePipelines merges incoming into the held list. A pipeline matched
// by id takes the incoming fields but keeps its Jobs and Commit; unmatched
// incoming pipelines are added; held pipelines absent from incoming stay
// untouched, so a refresh narrowed by an updated-after bound never drops
// history. The result is sorted most recently updated first and is always
// non-nil.
func (p *Project) UpdatePipelines(incoming []Pipeline) {
	merged := make([]Pipeline, 0, len(p.Pipelines)+len(incoming))
	merged = append(merged, p.Pipelines...)
	for _, in := range incoming {
		idx := -1
		for i := range merged {
			if merged[i].ID == in.ID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			in.Jobs = merged[idx].Jobs
			in.Commit = merged[idx].Commit
			merged[idx] = in
			continue
		}
		merged = append(merged, in)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].UpdatedAt.After(merged[j].UpdatedAt)
	})
	p.Pipelines = merged
}

// UpdateFrom copies the refreshable fields of incoming onto p, leaving
// pipelines, jobs and statistics untouched.
func (p *Project) UpdateFrom(incoming Project) {
	p.ID = incoming.ID
	p.Path = incoming.Path
	p.Description = incoming.Description
	p.DefaultBranch = incoming.DefaultBranch
	p.SSHURL = incoming.SSHURL
	p.URL = incoming.URL
	p.LastActivityAt = incoming.LastActivityAt
}

// UpdateJobs replaces the job list of the named pipeline.
func (p *Project) UpdateJobs(id PipelineID, jobs []Job) {
	if pl := p.Pipeline(id); pl != nil {
		pl.Jobs = jobs
	}
}

// UpdateCommit stashes commit metadata on the named pipeline.
func (p *Project) UpdateCommit(id PipelineID, commit Commit) {
	if pl := p.Pipeline(id); pl != nil {
		pl.Commit = &commit
	}
}

func (pl *Pipeline) HasActiveJobs() bool { return pl.ActiveJob() != nil }

func (pl *Pipeline) ActiveJob() *Job {
	for i := range pl.Jobs {
		if pl.Jobs[i].Status.Active() {
			return &pl.Jobs[i]
		}
	}
	return nil
}

func (pl *Pipeline) FailedJob() *Job {
	for i := range pl.Jobs {
		if pl.Jobs[i].Status == StatusFailure {
			return &pl.Jobs[i]
		}
	}
	return nil
}

// Job returns the job with the given id, or nil.
func (pl *Pipeline) Job(id JobID) *Job {
	for i := range pl.Jobs {
		if pl.Jobs[i].ID == id {
			return &pl.Jobs[i]
		}
	}
	return nil
}

// Duration measures from creation to the last job finish, or to now while
// the pipeline is still active.
func (pl *Pipeline) Duration() time.Duration {
	if end := pl.finishedAt(); end != nil {
		return end.Sub(pl.CreatedAt)
	}
	return time.Since(pl.CreatedAt)
}

func (pl *Pipeline) finishedAt() *time.Time {
	if pl.Status.Active() {
		return nil
	}
	var latest *time.Time
	for i := range pl.Jobs {
		if f := pl.Jobs[i].FinishedAt; f != nil && (latest == nil || f.After(*latest)) {
			latest = f
		}
	}
	return latest
}

// Duration is finished-started when both are known, now-started while
// running, and zero before the job starts.
func (j *Job) Duration() time.Duration {
	switch {
	case j.StartedAt != nil && j.FinishedAt != nil:
		return j.FinishedAt.Sub(*j.StartedAt)
	case j.StartedAt != nil:
		return time.Since(*j.StartedAt)
	}
	return 0
}
