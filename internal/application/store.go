package application

import (
	"sort"
	"time"

	"github.com/davarch/actions-dash/internal/domain"
	"go.uber.org/zap"
)

// Store is the single writer of the project graph. It mutates state only
// from Apply, which the consumer loop calls sequentially; background
// fetches never touch it directly, they produce events that re-enter the
// same path. Projects are never deleted, only updated, so the id lookup
// stays consistent with the backing slice by construction.
type Store struct {
	bus domain.Dispatcher
	log *zap.Logger

	projects []domain.Project
	index    map[domain.ProjectID]int
	sorted   []domain.Project
}

func NewStore(bus domain.Dispatcher, log *zap.Logger) *Store {
	return &Store{
		bus:   bus,
		log:   log,
		index: make(map[domain.ProjectID]int),
	}
}

func (s *Store) Apply(event domain.Event) {
	switch e := event.(type) {
	case domain.ProjectsLoaded:
		s.applyProjectsLoaded(e)
	case domain.PipelinesLoaded:
		s.applyPipelinesLoaded(e)
	case domain.JobsLoaded:
		s.applyJobsLoaded(e)
	case domain.ProjectStatisticsLoaded:
		s.applyStatisticsLoaded(e)
	case domain.ProjectSelected:
		s.applyProjectSelected(e)
	case domain.ProjectDetailsOpen:
		s.applyProjectDetailsOpen(e)
	}
}

func (s *Store) applyProjectsLoaded(e domain.ProjectsLoaded) {
	s.log.Debug("processing received projects", zap.Int("count", len(e.Projects)))
	first := len(s.sorted) == 0
	for _, dto := range e.Projects {
		s.syncProject(dto.Project())
	}
	s.resort()
	if first && len(s.sorted) > 0 {
		s.bus.Dispatch(domain.ProjectSelected{Project: s.sorted[0].ID})
	}
}

// syncProject inserts an unseen project or refreshes a known one. Known
// projects keep their pipelines and always get a pipeline refresh; new
// projects are eagerly fetched only when active within the last week.
func (s *Store) syncProject(incoming domain.Project) {
	if existing := s.findMut(incoming.ID); existing != nil {
		s.bus.Dispatch(domain.PipelinesFetch{Project: incoming.ID})
		existing.UpdateFrom(incoming)
		s.emitUpdated(existing)
		return
	}
	s.index[incoming.ID] = len(s.projects)
	if !olderThan7d(incoming.LastActivity()) {
		s.bus.Dispatch(domain.PipelinesFetch{Project: incoming.ID})
		incoming.Pipelines = []domain.Pipeline{}
	}
	s.projects = append(s.projects, incoming)
	s.emitUpdated(&s.projects[len(s.projects)-1])
}

func (s *Store) applyPipelinesLoaded(e domain.PipelinesLoaded) {
	if len(e.Pipelines) == 0 {
		return
	}
	projectID := e.Pipelines[0].ProjectID
	s.log.Debug("processing received pipelines",
		zap.Stringer("project", projectID),
		zap.Int("count", len(e.Pipelines)),
	)
	project := s.findMut(projectID)
	if project == nil {
		s.log.Warn("pipelines for unknown project dropped", zap.Stringer("project", projectID))
		return
	}

	incoming := make([]domain.Pipeline, 0, len(e.Pipelines))
	for _, dto := range e.Pipelines {
		incoming = append(incoming, dto.Pipeline())
	}
	project.UpdatePipelines(incoming)

	// The merge runs first so preserved jobs count toward "has an active
	// job" when deciding which pipelines need a job refresh.
	for i := range project.Pipelines {
		pl := &project.Pipelines[i]
		if pl.Status.Active() || pl.HasActiveJobs() {
			s.bus.Dispatch(domain.JobsFetch{Project: projectID, Pipeline: pl.ID})
		}
	}
	s.emitUpdated(project)
	s.resort()
}

func (s *Store) applyJobsLoaded(e domain.JobsLoaded) {
	s.log.Debug("processing received jobs",
		zap.Stringer("project", e.Project),
		zap.Stringer("pipeline", e.Pipeline),
		zap.Int("count", len(e.Jobs)),
	)
	project := s.findMut(e.Project)
	if project == nil {
		s.log.Warn("jobs for unknown project dropped", zap.Stringer("project", e.Project))
		return
	}

	jobs := make([]domain.Job, 0, len(e.Jobs))
	for _, dto := range e.Jobs {
		jobs = append(jobs, dto.Job())
	}
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].ID.Less(jobs[j].ID) })
	project.UpdateJobs(e.Pipeline, jobs)

	// Every job row carries the same commit metadata; keep one copy on
	// the pipeline instead.
	if len(e.Jobs) > 0 {
		project.UpdateCommit(e.Pipeline, e.Jobs[0].Commit.Commit())
	}
	s.emitUpdated(project)
	s.resort()
}

func (s *Store) applyStatisticsLoaded(e domain.ProjectStatisticsLoaded) {
	s.log.Debug("processing received project statistics", zap.Stringer("project", e.Project))
	project := s.findMut(e.Project)
	if project == nil {
		return
	}
	project.CommitCount = e.Stats.CommitCount
	project.RepoSizeKB = e.Stats.RepositorySize / 1024
	project.ArtifactsSizeKB = e.Stats.JobArtifactsSize / 1024
	project.StatisticsLoading = false
	s.emitUpdated(project)
}

func (s *Store) applyProjectSelected(e domain.ProjectSelected) {
	project := s.findMut(e.Project)
	if project == nil || project.Pipelines != nil {
		return
	}
	project.Pipelines = []domain.Pipeline{}
	s.bus.Dispatch(domain.PipelinesFetch{Project: e.Project})
}

func (s *Store) applyProjectDetailsOpen(e domain.ProjectDetailsOpen) {
	s.log.Debug("opening project details, requesting missing jobs and statistics",
		zap.Stringer("project", e.Project),
	)
	project := s.findMut(e.Project)
	if project == nil {
		return
	}

	for _, pl := range project.RecentPipelines() {
		if pl.Jobs == nil {
			s.bus.Dispatch(domain.JobsFetch{Project: e.Project, Pipeline: pl.ID})
		}
	}

	if project.CommitCount == 0 && project.RepoSizeKB == 0 &&
		project.ArtifactsSizeKB == 0 && !project.StatisticsLoading {
		project.StatisticsLoading = true
		s.emitUpdated(project)
		s.bus.Dispatch(domain.ProjectStatisticsFetch{Project: e.Project})
	}
}

// ActiveJobTargets returns every (project, pipeline) pair with a
// non-terminal pipeline or job, for the periodic active-jobs sweep.
func (s *Store) ActiveJobTargets() []domain.JobsFetch {
	var targets []domain.JobsFetch
	for i := range s.projects {
		p := &s.projects[i]
		for j := range p.Pipelines {
			pl := &p.Pipelines[j]
			if pl.Status.Active() || pl.HasActiveJobs() {
				targets = append(targets, domain.JobsFetch{Project: p.ID, Pipeline: pl.ID})
			}
		}
	}
	return targets
}

// Find returns the project with the given id, or nil. The pointer is
// only valid until the next Apply.
func (s *Store) Find(id domain.ProjectID) *domain.Project {
	return s.findMut(id)
}

// Sorted is the read-only projection ordered by descending last activity,
// recomputed on every write.
func (s *Store) Sorted() []domain.Project {
	return s.sorted
}

func (s *Store) Len() int { return len(s.projects) }

func (s *Store) findMut(id domain.ProjectID) *domain.Project {
	if idx, ok := s.index[id]; ok {
		return &s.projects[idx]
	}
	return nil
}

func (s *Store) resort() {
	s.sorted = make([]domain.Project, len(s.projects))
	copy(s.sorted, s.projects)
	sort.SliceStable(s.sorted, func(i, j int) bool {
		return s.sorted[i].LastActivity().After(s.sorted[j].LastActivity())
	})
}

func (s *Store) emitUpdated(p *domain.Project) {
	snapshot := *p
	s.bus.Dispatch(domain.ProjectUpdated{Project: &snapshot})
}

// olderThan7d is a strict whole-day comparison: exactly 7 days ago is
// still recent, 8 days ago is not.
func olderThan7d(t time.Time) bool {
	return int(time.Since(t).Hours()/24) > 7
}
