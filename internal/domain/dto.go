package domain

import "time"

// DTOs are the wire shapes decoded straight from API responses. Fetch
// result events carry them; the store converts them to entities on merge.

type ProjectDTO struct {
	FullName      string    `json:"full_name"`
	Description   string    `json:"description"`
	DefaultBranch string    `json:"default_branch"`
	SSHURL        string    `json:"ssh_url"`
	HTMLURL       string    `json:"html_url"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (d ProjectDTO) Project() Project {
	return Project{
		ID:             NewProjectID(d.FullName),
		Path:           d.FullName,
		Description:    d.Description,
		DefaultBranch:  d.DefaultBranch,
		SSHURL:         d.SSHURL,
		URL:            d.HTMLURL,
		LastActivityAt: d.UpdatedAt,
	}
}

type PipelineDTO struct {
	ID PipelineID `json:"id"`
	// ProjectID is absent on the wire; the client back-fills it per request.
	ProjectID  ProjectID `json:"-"`
	Name       string    `json:"name"`
	Status     Status    `json:"status"`
	Event      Source    `json:"event"`
	HeadBranch string    `json:"head_branch"`
	HTMLURL    string    `json:"html_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (d PipelineDTO) Pipeline() Pipeline {
	branch := d.HeadBranch
	if branch == "" {
		branch = "unknown"
	}
	return Pipeline{
		ID:        d.ID,
		ProjectID: d.ProjectID,
		Name:      d.Name,
		Status:    d.Status,
		Source:    d.Event,
		Branch:    branch,
		URL:       d.HTMLURL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type JobDTO struct {
	ID JobID `json:"id"`
	// PipelineID is absent on the wire; the client back-fills it per request.
	PipelineID PipelineID `json:"-"`
	Name       string     `json:"name"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at"`
	// CompletedAt is the wire name for the finish timestamp.
	CompletedAt *time.Time `json:"completed_at"`
	HTMLURL     string     `json:"html_url"`
	// Commit is redundantly attached per job by some providers; only the
	// first copy in a batch is kept.
	Commit CommitDTO `json:"-"`
}

func (d JobDTO) Job() Job {
	return Job{
		ID:         d.ID,
		Name:       d.Name,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		StartedAt:  d.StartedAt,
		FinishedAt: d.CompletedAt,
		URL:        d.HTMLURL,
	}
}

type CommitDTO struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

func (d CommitDTO) Commit() Commit {
	return Commit{Title: d.Title, AuthorName: d.AuthorName}
}

// StatisticsDTO is the composite result of the repository statistics
// fetch. Sizes are bytes.
type StatisticsDTO struct {
	CommitCount      int    `json:"commit_count"`
	RepositorySize   uint64 `json:"repository_size"`
	JobArtifactsSize uint64 `json:"job_artifacts_size"`
}
