package domain

import (
	"context"
	"time"
)

// MockClient is a hand-rolled Client for tests.
type MockClient struct {
	ProjectsResult  []ProjectDTO
	PipelinesResult []PipelineDTO
	JobsResult      []JobDTO
	JobLogResult    string
	StatsResult     StatisticsDTO
	Err             error

	Unconfigured bool
	Calls        []string
	Settings     Settings
}

func (m *MockClient) Projects(context.Context) ([]ProjectDTO, error) {
	m.Calls = append(m.Calls, "projects")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ProjectsResult, nil
}

func (m *MockClient) Pipelines(_ context.Context, project ProjectID, _ *time.Time) ([]PipelineDTO, error) {
	m.Calls = append(m.Calls, "pipelines:"+project.String())
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]PipelineDTO, len(m.PipelinesResult))
	copy(out, m.PipelinesResult)
	for i := range out {
		out[i].ProjectID = project
	}
	return out, nil
}

func (m *MockClient) Jobs(_ context.Context, project ProjectID, pipeline PipelineID) ([]JobDTO, error) {
	m.Calls = append(m.Calls, "jobs:"+project.String()+"/"+pipeline.String())
	if m.Err != nil {
		return nil, m.Err
	}
	return m.JobsResult, nil
}

func (m *MockClient) JobLog(_ context.Context, project ProjectID, job JobID) (string, error) {
	m.Calls = append(m.Calls, "joblog:"+project.String()+"/"+job.String())
	if m.Err != nil {
		return "", m.Err
	}
	return m.JobLogResult, nil
}

func (m *MockClient) Statistics(_ context.Context, project ProjectID) (StatisticsDTO, error) {
	m.Calls = append(m.Calls, "statistics:"+project.String())
	if m.Err != nil {
		return StatisticsDTO{}, m.Err
	}
	return m.StatsResult, nil
}

func (m *MockClient) Configured() bool { return !m.Unconfigured }

func (m *MockClient) UpdateSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.Settings = s
	return nil
}

// MockDispatcher records every dispatched event in order.
type MockDispatcher struct {
	Events []Event
}

func (d *MockDispatcher) Dispatch(e Event) { d.Events = append(d.Events, e) }

// Names returns the event names in dispatch order.
func (d *MockDispatcher) Names() []string {
	out := make([]string, len(d.Events))
	for i, e := range d.Events {
		out[i] = e.Name()
	}
	return out
}

// MockOpener records opened URLs.
type MockOpener struct {
	URLs []string
	Err  error
}

func (o *MockOpener) Open(_ context.Context, url string) error {
	o.URLs = append(o.URLs, url)
	return o.Err
}
