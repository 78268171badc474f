package domain

// Event is the closed union every component communicates through. One
// struct per variant; Name returns a stable, payload-free identifier for
// logging. Adding a behavior means adding a variant here, never a side
// channel.
type Event interface {
	Name() string
	isEvent()
}

// Lifecycle.

type AppTick struct{}

type AppExit struct{}

type AppError struct{ Err Failure }

// Fetch requests.

type ProjectsFetch struct{}

type PipelinesFetch struct{ Project ProjectID }

type JobsFetch struct {
	Project  ProjectID
	Pipeline PipelineID
}

// JobsActiveFetch asks the store to refresh whichever jobs it considers
// active; the poller never decides that itself.
type JobsActiveFetch struct{}

type ProjectStatisticsFetch struct{ Project ProjectID }

type JobLogFetch struct {
	Project  ProjectID
	Pipeline PipelineID
}

// Fetch results.

type ProjectsLoaded struct{ Projects []ProjectDTO }

type PipelinesLoaded struct{ Pipelines []PipelineDTO }

type JobsLoaded struct {
	Project  ProjectID
	Pipeline PipelineID
	Jobs     []JobDTO
}

type ProjectStatisticsLoaded struct {
	Project ProjectID
	Stats   StatisticsDTO
}

type JobLogDownloaded struct {
	Project ProjectID
	Job     JobID
	Log     string
}

// Navigation and selection.

type ProjectSelected struct{ Project ProjectID }

type PipelineSelected struct{ Pipeline PipelineID }

type ProjectNext struct{}

type ProjectPrevious struct{}

// ProjectUpdated carries a fresh copy of a mutated project to the
// renderer.
type ProjectUpdated struct{ Project *Project }

type ProjectDetailsOpen struct{ Project ProjectID }

type ProjectDetailsClose struct{}

type PipelineActionsOpen struct {
	Project  ProjectID
	Pipeline PipelineID
}

type PipelineActionsClose struct{}

// Configuration.

type ConfigOpen struct{}

type ConfigClose struct{}

type ConfigApply struct{}

type ConfigUpdate struct{ Settings Settings }

// Filtering.

type FilterMenuShow struct{}

type FilterMenuClose struct{}

type FilterClear struct{}

type FilterInputChar struct{ Ch rune }

type FilterInputBackspace struct{}

// ApplyTemporaryFilter sets the project filter; an empty string clears it.
type ApplyTemporaryFilter struct{ Filter string }

// Notifications.

type NotificationDismiss struct{}

type NotificationLast struct{}

// Open-in-browser intents.

type ProjectOpenURL struct{ Project ProjectID }

type PipelineOpenURL struct {
	Project  ProjectID
	Pipeline PipelineID
}

type JobOpenURL struct {
	Project  ProjectID
	Pipeline PipelineID
	Job      JobID
}

// Observability.

type LogLevelChanged struct{ Level string }

type LogEntry struct{ Line string }

type ScreenCapture struct{}

type ScreenCaptureSaved struct{ Path string }

// Raw input.

type InputKey struct{ Key Key }

func (AppTick) Name() string                 { return "AppTick" }
func (AppExit) Name() string                 { return "AppExit" }
func (AppError) Name() string                { return "AppError" }
func (ProjectsFetch) Name() string           { return "ProjectsFetch" }
func (PipelinesFetch) Name() string          { return "PipelinesFetch" }
func (JobsFetch) Name() string               { return "JobsFetch" }
func (JobsActiveFetch) Name() string         { return "JobsActiveFetch" }
func (ProjectStatisticsFetch) Name() string  { return "ProjectStatisticsFetch" }
func (JobLogFetch) Name() string             { return "JobLogFetch" }
func (ProjectsLoaded) Name() string          { return "ProjectsLoaded" }
func (PipelinesLoaded) Name() string         { return "PipelinesLoaded" }
func (JobsLoaded) Name() string              { return "JobsLoaded" }
func (ProjectStatisticsLoaded) Name() string { return "ProjectStatisticsLoaded" }
func (JobLogDownloaded) Name() string        { return "JobLogDownloaded" }
func (ProjectSelected) Name() string         { return "ProjectSelected" }
func (PipelineSelected) Name() string        { return "PipelineSelected" }
func (ProjectNext) Name() string             { return "ProjectNext" }
func (ProjectPrevious) Name() string         { return "ProjectPrevious" }
func (ProjectUpdated) Name() string          { return "ProjectUpdated" }
func (ProjectDetailsOpen) Name() string      { return "ProjectDetailsOpen" }
func (ProjectDetailsClose) Name() string     { return "ProjectDetailsClose" }
func (PipelineActionsOpen) Name() string     { return "PipelineActionsOpen" }
func (PipelineActionsClose) Name() string    { return "PipelineActionsClose" }
func (ConfigOpen) Name() string              { return "ConfigOpen" }
func (ConfigClose) Name() string             { return "ConfigClose" }
func (ConfigApply) Name() string             { return "ConfigApply" }
func (ConfigUpdate) Name() string            { return "ConfigUpdate" }
func (FilterMenuShow) Name() string          { return "FilterMenuShow" }
func (FilterMenuClose) Name() string         { return "FilterMenuClose" }
func (FilterClear) Name() string             { return "FilterClear" }
func (FilterInputChar) Name() string         { return "FilterInputChar" }
func (FilterInputBackspace) Name() string    { return "FilterInputBackspace" }
func (ApplyTemporaryFilter) Name() string    { return "ApplyTemporaryFilter" }
func (NotificationDismiss) Name() string     { return "NotificationDismiss" }
func (NotificationLast) Name() string        { return "NotificationLast" }
func (ProjectOpenURL) Name() string          { return "ProjectOpenURL" }
func (PipelineOpenURL) Name() string         { return "PipelineOpenURL" }
func (JobOpenURL) Name() string              { return "JobOpenURL" }
func (LogLevelChanged) Name() string         { return "LogLevelChanged" }
func (LogEntry) Name() string                { return "LogEntry" }
func (ScreenCapture) Name() string           { return "ScreenCapture" }
func (ScreenCaptureSaved) Name() string      { return "ScreenCaptureSaved" }
func (InputKey) Name() string                { return "InputKey" }

func (AppTick) isEvent()                 {}
func (AppExit) isEvent()                 {}
func (AppError) isEvent()                {}
func (ProjectsFetch) isEvent()           {}
func (PipelinesFetch) isEvent()          {}
func (JobsFetch) isEvent()               {}
func (JobsActiveFetch) isEvent()         {}
func (ProjectStatisticsFetch) isEvent()  {}
func (JobLogFetch) isEvent()             {}
func (ProjectsLoaded) isEvent()          {}
func (PipelinesLoaded) isEvent()         {}
func (JobsLoaded) isEvent()              {}
func (ProjectStatisticsLoaded) isEvent() {}
func (JobLogDownloaded) isEvent()        {}
func (ProjectSelected) isEvent()         {}
func (PipelineSelected) isEvent()        {}
func (ProjectNext) isEvent()             {}
func (ProjectPrevious) isEvent()         {}
func (ProjectUpdated) isEvent()          {}
func (ProjectDetailsOpen) isEvent()      {}
func (ProjectDetailsClose) isEvent()     {}
func (PipelineActionsOpen) isEvent()     {}
func (PipelineActionsClose) isEvent()    {}
func (ConfigOpen) isEvent()              {}
func (ConfigClose) isEvent()             {}
func (ConfigApply) isEvent()             {}
func (ConfigUpdate) isEvent()            {}
func (FilterMenuShow) isEvent()          {}
func (FilterMenuClose) isEvent()         {}
func (FilterClear) isEvent()             {}
func (FilterInputChar) isEvent()         {}
func (FilterInputBackspace) isEvent()    {}
func (ApplyTemporaryFilter) isEvent()    {}
func (NotificationDismiss) isEvent()     {}
func (NotificationLast) isEvent()        {}
func (ProjectOpenURL) isEvent()          {}
func (PipelineOpenURL) isEvent()         {}
func (JobOpenURL) isEvent()              {}
func (LogLevelChanged) isEvent()         {}
func (LogEntry) isEvent()                {}
func (ScreenCapture) isEvent()           {}
func (ScreenCaptureSaved) isEvent()      {}
func (InputKey) isEvent()                {}
