package application

import (
	"github.com/davarch/actions-dash/internal/domain"
	"go.uber.org/zap"
)

// Mode identifies which input handler is active. The set is closed:
// dispatch is a switch, not an interface, so every mode's key map is
// visible in one place.
type Mode int

const (
	ModeNormal Mode = iota
	ModeProjectDetails
	ModePipelineActions
	ModeConfig
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeProjectDetails:
		return "project_details"
	case ModePipelineActions:
		return "pipeline_actions"
	case ModeConfig:
		return "config"
	}
	return "unknown"
}

// frame is one entry of the handler stack. Each frame carries its own
// selection so closing a popup restores the previous selection intact.
type frame struct {
	mode     Mode
	project  domain.ProjectID
	pipeline domain.PipelineID
}

// InputStack routes raw key events to the top handler frame. Open and
// close events push and pop frames; everything else is interpreted by
// the top frame only. Reads the store for selection movement but never
// writes it.
type InputStack struct {
	bus   domain.Dispatcher
	store *Store
	log   *zap.Logger

	frames []frame

	filterActive bool
	filterText   []rune
}

func NewInputStack(bus domain.Dispatcher, store *Store, log *zap.Logger) *InputStack {
	return &InputStack{
		bus:    bus,
		store:  store,
		log:    log,
		frames: []frame{{mode: ModeNormal}},
	}
}

func (s *InputStack) Apply(event domain.Event) {
	switch e := event.(type) {
	case domain.ProjectDetailsOpen:
		s.push(frame{mode: ModeProjectDetails, project: e.Project})
	case domain.ProjectDetailsClose:
		s.pop()
	case domain.PipelineActionsOpen:
		s.push(frame{mode: ModePipelineActions, project: e.Project, pipeline: e.Pipeline})
	case domain.PipelineActionsClose:
		s.pop()
	case domain.ConfigOpen:
		s.push(frame{mode: ModeConfig})
	case domain.ConfigClose:
		s.pop()
	}

	top := s.top()
	switch top.mode {
	case ModeNormal:
		s.applyNormal(top, event)
	case ModeProjectDetails:
		s.applyProjectDetails(top, event)
	case ModePipelineActions:
		s.applyPipelineActions(top, event)
	case ModeConfig:
		s.applyConfig(event)
	}
}

func (s *InputStack) Mode() Mode { return s.top().mode }

func (s *InputStack) Depth() int { return len(s.frames) }

func (s *InputStack) FilterActive() bool { return s.filterActive }

func (s *InputStack) FilterText() string { return string(s.filterText) }

func (s *InputStack) SelectedProject() domain.ProjectID {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if !s.frames[i].project.IsZero() {
			return s.frames[i].project
		}
	}
	return domain.ProjectID{}
}

func (s *InputStack) push(f frame) {
	s.frames = append(s.frames, f)
	s.log.Debug("input mode pushed", zap.Stringer("mode", f.mode))
}

// pop removes the top frame; the base normal frame is never popped.
func (s *InputStack) pop() {
	if len(s.frames) <= 1 {
		return
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	s.log.Debug("input mode popped", zap.Stringer("mode", f.mode))
}

func (s *InputStack) top() *frame {
	return &s.frames[len(s.frames)-1]
}

func (s *InputStack) applyNormal(f *frame, event domain.Event) {
	switch e := event.(type) {
	case domain.ProjectSelected:
		f.project = e.Project
	case domain.ProjectNext:
		s.moveProjectSelection(f, 1)
	case domain.ProjectPrevious:
		s.moveProjectSelection(f, -1)
	case domain.FilterMenuShow:
		s.filterActive = true
	case domain.FilterMenuClose:
		s.filterActive = false
	case domain.FilterClear:
		s.filterText = nil
	case domain.InputKey:
		if s.filterActive {
			s.processFilterKey(e.Key)
		} else {
			s.processNormalKey(f, e.Key)
		}
	}
}

func (s *InputStack) processNormalKey(f *frame, key domain.Key) {
	switch key.Code {
	case domain.KeyEnter:
		if !f.project.IsZero() {
			s.bus.Dispatch(domain.ProjectDetailsOpen{Project: f.project})
		}
	case domain.KeyUp:
		s.bus.Dispatch(domain.ProjectPrevious{})
	case domain.KeyDown:
		s.bus.Dispatch(domain.ProjectNext{})
	case domain.KeyEsc:
		s.bus.Dispatch(domain.FilterClear{})
	case domain.KeyF12:
		s.bus.Dispatch(domain.ScreenCapture{})
	case domain.KeyRune:
		switch key.Rune {
		case 'o':
			if !f.project.IsZero() {
				s.bus.Dispatch(domain.ProjectDetailsOpen{Project: f.project})
			}
		case 'a':
			s.bus.Dispatch(domain.NotificationLast{})
		case 'c':
			s.bus.Dispatch(domain.ConfigOpen{})
		case 'f', '/':
			s.filterActive = true
			s.bus.Dispatch(domain.FilterMenuShow{})
		case 'p':
			if !f.project.IsZero() {
				s.bus.Dispatch(domain.PipelinesFetch{Project: f.project})
			}
		case 'q':
			s.bus.Dispatch(domain.AppExit{})
		case 'r':
			s.bus.Dispatch(domain.ProjectsFetch{})
		case 'w':
			if !f.project.IsZero() {
				s.bus.Dispatch(domain.ProjectOpenURL{Project: f.project})
			}
		case 'k':
			s.bus.Dispatch(domain.ProjectPrevious{})
		case 'j':
			s.bus.Dispatch(domain.ProjectNext{})
		}
	}
}

func (s *InputStack) processFilterKey(key domain.Key) {
	switch key.Code {
	case domain.KeyEnter:
		s.filterActive = false
		s.bus.Dispatch(domain.FilterMenuClose{})
	case domain.KeyEsc:
		s.filterActive = false
		s.filterText = nil
		s.bus.Dispatch(domain.ApplyTemporaryFilter{})
		s.bus.Dispatch(domain.FilterMenuClose{})
	case domain.KeyBackspace:
		if len(s.filterText) > 0 {
			s.filterText = s.filterText[:len(s.filterText)-1]
		}
		s.bus.Dispatch(domain.FilterInputBackspace{})
		s.bus.Dispatch(domain.ApplyTemporaryFilter{Filter: string(s.filterText)})
	case domain.KeyRune:
		s.filterText = append(s.filterText, key.Rune)
		s.bus.Dispatch(domain.FilterInputChar{Ch: key.Rune})
		s.bus.Dispatch(domain.ApplyTemporaryFilter{Filter: string(s.filterText)})
	}
}

func (s *InputStack) applyProjectDetails(f *frame, event domain.Event) {
	switch e := event.(type) {
	case domain.PipelineSelected:
		f.pipeline = e.Pipeline
	case domain.InputKey:
		s.processDetailsKey(f, e.Key)
	}
}

func (s *InputStack) processDetailsKey(f *frame, key domain.Key) {
	switch key.Code {
	case domain.KeyEsc:
		s.bus.Dispatch(domain.ProjectDetailsClose{})
	case domain.KeyUp:
		s.movePipelineSelection(f, -1)
	case domain.KeyDown:
		s.movePipelineSelection(f, 1)
	case domain.KeyEnter:
		if !f.pipeline.IsZero() {
			s.bus.Dispatch(domain.PipelineActionsOpen{Project: f.project, Pipeline: f.pipeline})
		}
	case domain.KeyF12:
		s.bus.Dispatch(domain.ScreenCapture{})
	case domain.KeyRune:
		switch key.Rune {
		case 'q':
			s.bus.Dispatch(domain.ProjectDetailsClose{})
		case 'k':
			s.movePipelineSelection(f, -1)
		case 'j':
			s.movePipelineSelection(f, 1)
		case 'o':
			if !f.pipeline.IsZero() {
				s.bus.Dispatch(domain.PipelineActionsOpen{Project: f.project, Pipeline: f.pipeline})
			}
		}
	}
}

func (s *InputStack) applyPipelineActions(f *frame, event domain.Event) {
	e, ok := event.(domain.InputKey)
	if !ok {
		return
	}
	switch e.Key.Code {
	case domain.KeyEsc:
		s.bus.Dispatch(domain.PipelineActionsClose{})
	case domain.KeyF12:
		s.bus.Dispatch(domain.ScreenCapture{})
	case domain.KeyRune:
		switch e.Key.Rune {
		case 'q':
			s.bus.Dispatch(domain.PipelineActionsClose{})
		case 'w':
			s.bus.Dispatch(domain.PipelineOpenURL{Project: f.project, Pipeline: f.pipeline})
		case 'l':
			s.bus.Dispatch(domain.JobLogFetch{Project: f.project, Pipeline: f.pipeline})
		}
	}
}

func (s *InputStack) applyConfig(event domain.Event) {
	e, ok := event.(domain.InputKey)
	if !ok {
		return
	}
	switch e.Key.Code {
	case domain.KeyEsc:
		s.bus.Dispatch(domain.ConfigClose{})
	case domain.KeyEnter:
		s.bus.Dispatch(domain.ConfigApply{})
	}
}

// moveProjectSelection walks the sorted projection; no selection yet
// means the first entry is taken regardless of direction.
func (s *InputStack) moveProjectSelection(f *frame, delta int) {
	sorted := s.store.Sorted()
	if len(sorted) == 0 {
		return
	}
	idx := -1
	for i := range sorted {
		if sorted[i].ID == f.project {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
	} else {
		idx += delta
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
	}
	if sorted[idx].ID != f.project {
		s.bus.Dispatch(domain.ProjectSelected{Project: sorted[idx].ID})
	}
}

func (s *InputStack) movePipelineSelection(f *frame, delta int) {
	project := s.store.Find(f.project)
	if project == nil {
		return
	}
	recent := project.RecentPipelines()
	if len(recent) == 0 {
		return
	}
	idx := -1
	for i, pl := range recent {
		if pl.ID == f.pipeline {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
	} else {
		idx += delta
		if idx < 0 {
			idx = 0
		}
		if idx >= len(recent) {
			idx = len(recent) - 1
		}
	}
	if recent[idx].ID != f.pipeline {
		s.bus.Dispatch(domain.PipelineSelected{Pipeline: recent[idx].ID})
	}
}
