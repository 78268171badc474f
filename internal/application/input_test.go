package application

import (
	"testing"
	"time"

	"github.com/davarch/actions-dash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestInput(t *testing.T) (*InputStack, *Store, *domain.MockDispatcher) {
	t.Helper()
	bus := &domain.MockDispatcher{}
	store := NewStore(bus, zap.NewNop())
	return NewInputStack(bus, store, zap.NewNop()), store, bus
}

func press(s *InputStack, key domain.Key) {
	s.Apply(domain.InputKey{Key: key})
}

func TestInputStack_StartsInNormalMode(t *testing.T) {
	s, _, _ := newTestInput(t)
	assert.Equal(t, ModeNormal, s.Mode())
	assert.Equal(t, 1, s.Depth())
}

func TestInputStack_OpenCloseEventsPushAndPop(t *testing.T) {
	s, _, _ := newTestInput(t)
	id := domain.NewProjectID("acme/widgets")

	s.Apply(domain.ProjectDetailsOpen{Project: id})
	assert.Equal(t, ModeProjectDetails, s.Mode())
	assert.Equal(t, 2, s.Depth())

	s.Apply(domain.PipelineActionsOpen{Project: id, Pipeline: domain.NewPipelineID(1)})
	assert.Equal(t, ModePipelineActions, s.Mode())
	assert.Equal(t, 3, s.Depth())

	s.Apply(domain.PipelineActionsClose{})
	assert.Equal(t, ModeProjectDetails, s.Mode())

	s.Apply(domain.ProjectDetailsClose{})
	assert.Equal(t, ModeNormal, s.Mode())
	assert.Equal(t, 1, s.Depth())
}

func TestInputStack_BaseFrameIsNeverPopped(t *testing.T) {
	s, _, _ := newTestInput(t)

	s.Apply(domain.ProjectDetailsClose{})
	s.Apply(domain.ConfigClose{})
	s.Apply(domain.PipelineActionsClose{})

	assert.Equal(t, ModeNormal, s.Mode())
	assert.Equal(t, 1, s.Depth())
}

func TestInputStack_NormalModeKeyMap(t *testing.T) {
	tests := []struct {
		name string
		key  domain.Key
		want string
	}{
		{"q exits", domain.RuneKey('q'), "AppExit"},
		{"r refreshes projects", domain.RuneKey('r'), "ProjectsFetch"},
		{"c opens config", domain.RuneKey('c'), "ConfigOpen"},
		{"a replays notification", domain.RuneKey('a'), "NotificationLast"},
		{"f shows filter", domain.RuneKey('f'), "FilterMenuShow"},
		{"slash shows filter", domain.RuneKey('/'), "FilterMenuShow"},
		{"esc clears filter", domain.CodeKey(domain.KeyEsc), "FilterClear"},
		{"up moves selection", domain.CodeKey(domain.KeyUp), "ProjectPrevious"},
		{"k moves selection", domain.RuneKey('k'), "ProjectPrevious"},
		{"down moves selection", domain.CodeKey(domain.KeyDown), "ProjectNext"},
		{"j moves selection", domain.RuneKey('j'), "ProjectNext"},
		{"f12 captures screen", domain.CodeKey(domain.KeyF12), "ScreenCapture"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, bus := newTestInput(t)
			press(s, tt.key)
			require.NotEmpty(t, bus.Events)
			assert.Equal(t, tt.want, bus.Events[0].Name())
		})
	}
}

func TestInputStack_SelectionBoundKeysNeedASelection(t *testing.T) {
	s, _, bus := newTestInput(t)

	press(s, domain.CodeKey(domain.KeyEnter))
	press(s, domain.RuneKey('o'))
	press(s, domain.RuneKey('p'))
	press(s, domain.RuneKey('w'))
	assert.Empty(t, bus.Events, "no project selected yet")

	id := domain.NewProjectID("acme/widgets")
	s.Apply(domain.ProjectSelected{Project: id})
	press(s, domain.CodeKey(domain.KeyEnter))

	require.Len(t, bus.Events, 1)
	assert.Equal(t, domain.ProjectDetailsOpen{Project: id}, bus.Events[0])
}

func TestInputStack_FilterInput(t *testing.T) {
	s, _, bus := newTestInput(t)

	press(s, domain.RuneKey('f'))
	require.True(t, s.FilterActive())

	press(s, domain.RuneKey('r'))
	press(s, domain.RuneKey('u'))
	press(s, domain.RuneKey('s'))
	assert.Equal(t, "rus", s.FilterText())

	press(s, domain.CodeKey(domain.KeyBackspace))
	assert.Equal(t, "ru", s.FilterText())

	names := bus.Names()
	assert.Contains(t, names, "FilterInputChar")
	assert.Contains(t, names, "FilterInputBackspace")
	assert.Contains(t, names, "ApplyTemporaryFilter")

	press(s, domain.CodeKey(domain.KeyEnter))
	assert.False(t, s.FilterActive())
	assert.Equal(t, "ru", s.FilterText(), "enter keeps the typed filter")
}

func TestInputStack_FilterEscResets(t *testing.T) {
	s, _, bus := newTestInput(t)

	press(s, domain.RuneKey('/'))
	press(s, domain.RuneKey('x'))
	bus.Events = nil

	press(s, domain.CodeKey(domain.KeyEsc))
	assert.False(t, s.FilterActive())
	assert.Empty(t, s.FilterText())

	names := bus.Names()
	assert.Contains(t, names, "ApplyTemporaryFilter")
	assert.Contains(t, names, "FilterMenuClose")
}

func TestInputStack_WhileFilteringRunesAreNotShortcuts(t *testing.T) {
	s, _, bus := newTestInput(t)

	press(s, domain.RuneKey('f'))
	bus.Events = nil

	press(s, domain.RuneKey('q'))
	for _, e := range bus.Events {
		assert.NotEqual(t, "AppExit", e.Name(), "q is filter text, not quit")
	}
	assert.Equal(t, "q", s.FilterText())
}

func TestInputStack_ProjectSelectionMovesThroughSortedStore(t *testing.T) {
	s, store, bus := newTestInput(t)

	store.Apply(domain.ProjectsLoaded{Projects: []domain.ProjectDTO{
		projectDTO("a/newest", time.Now().Add(-time.Minute)),
		projectDTO("a/older", time.Now().Add(-time.Hour)),
	}})
	s.Apply(domain.ProjectSelected{Project: domain.NewProjectID("a/newest")})
	bus.Events = nil

	s.Apply(domain.ProjectNext{})
	selections := eventsNamed(bus, "ProjectSelected")
	require.Len(t, selections, 1)
	assert.Equal(t, "a/older", selections[0].(domain.ProjectSelected).Project.String())

	// Consume the dispatched selection like the loop would.
	s.Apply(selections[0])
	bus.Events = nil

	s.Apply(domain.ProjectNext{})
	assert.Empty(t, eventsNamed(bus, "ProjectSelected"), "already at the bottom")

	s.Apply(domain.ProjectPrevious{})
	selections = eventsNamed(bus, "ProjectSelected")
	require.Len(t, selections, 1)
	assert.Equal(t, "a/newest", selections[0].(domain.ProjectSelected).Project.String())
}

func TestInputStack_DetailsModeKeyMap(t *testing.T) {
	s, store, bus := newTestInput(t)
	id := domain.NewProjectID("acme/widgets")

	store.Apply(domain.ProjectsLoaded{Projects: []domain.ProjectDTO{
		projectDTO("acme/widgets", time.Now()),
	}})
	store.Apply(domain.PipelinesLoaded{Pipelines: []domain.PipelineDTO{
		pipelineDTO(id, 2, domain.StatusSuccess, time.Now()),
		pipelineDTO(id, 1, domain.StatusSuccess, time.Now().Add(-time.Minute)),
	}})
	s.Apply(domain.ProjectSelected{Project: id})
	s.Apply(domain.ProjectDetailsOpen{Project: id})
	bus.Events = nil

	// First movement lands on the newest pipeline.
	press(s, domain.CodeKey(domain.KeyDown))
	selections := eventsNamed(bus, "PipelineSelected")
	require.Len(t, selections, 1)
	assert.Equal(t, domain.NewPipelineID(2), selections[0].(domain.PipelineSelected).Pipeline)
	s.Apply(selections[0])
	bus.Events = nil

	press(s, domain.CodeKey(domain.KeyEnter))
	opens := eventsNamed(bus, "PipelineActionsOpen")
	require.Len(t, opens, 1)
	assert.Equal(t, domain.NewPipelineID(2), opens[0].(domain.PipelineActionsOpen).Pipeline)
	bus.Events = nil

	press(s, domain.CodeKey(domain.KeyEsc))
	assert.Equal(t, []string{"ProjectDetailsClose"}, bus.Names())
}

func TestInputStack_PipelineActionsKeyMap(t *testing.T) {
	s, _, bus := newTestInput(t)
	id := domain.NewProjectID("acme/widgets")
	pl := domain.NewPipelineID(7)

	s.Apply(domain.ProjectDetailsOpen{Project: id})
	s.Apply(domain.PipelineActionsOpen{Project: id, Pipeline: pl})
	bus.Events = nil

	press(s, domain.RuneKey('w'))
	opens := eventsNamed(bus, "PipelineOpenURL")
	require.Len(t, opens, 1)
	assert.Equal(t, domain.PipelineOpenURL{Project: id, Pipeline: pl}, opens[0])

	press(s, domain.RuneKey('l'))
	logs := eventsNamed(bus, "JobLogFetch")
	require.Len(t, logs, 1)
	assert.Equal(t, domain.JobLogFetch{Project: id, Pipeline: pl}, logs[0])

	bus.Events = nil
	press(s, domain.RuneKey('q'))
	assert.Equal(t, []string{"PipelineActionsClose"}, bus.Names())
}

func TestInputStack_ConfigModeKeyMap(t *testing.T) {
	s, _, bus := newTestInput(t)

	s.Apply(domain.ConfigOpen{})
	require.Equal(t, ModeConfig, s.Mode())
	bus.Events = nil

	press(s, domain.RuneKey('q'))
	assert.Empty(t, bus.Events, "runes are config input, not shortcuts")

	press(s, domain.CodeKey(domain.KeyEnter))
	assert.Equal(t, []string{"ConfigApply"}, bus.Names())
	bus.Events = nil

	press(s, domain.CodeKey(domain.KeyEsc))
	assert.Equal(t, []string{"ConfigClose"}, bus.Names())
}
