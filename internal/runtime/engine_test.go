package runtime_test

import (
	"testing"

	"github.com/aretw0/funnelkit/internal/runtime"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_InsertUndoRemoveScenario(t *testing.T) {
	e := newEngine()

	created, err := e.InsertComponent("A", domain.Component{
		Kind:       domain.KindHeading,
		Properties: domain.Properties{"text": "hi"},
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", created.ID, "y"}, componentIDs(e.Document(), "A"))
	length, _ := e.History()
	assert.Equal(t, 2, length)
	assert.True(t, e.CanUndo())

	require.True(t, e.Undo())
	assert.Equal(t, []string{"x", "y"}, componentIDs(e.Document(), "A"))

	require.NoError(t, e.RemoveStep("B"))
	after := e.Document()

	err = e.RemoveStep("A")
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, after, e.Document())
}

func TestNewEngine_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  domain.Document
	}{
		{"no steps", domain.Document{ID: "d"}},
		{"duplicate component", domain.Document{ID: "d", Steps: []domain.Step{
			{ID: "a", Components: []domain.Component{{ID: "c", Kind: domain.KindSpacer}}},
			{ID: "b", Components: []domain.Component{{ID: "c", Kind: domain.KindSpacer}}},
		}}},
		{"component shares a step id", domain.Document{ID: "d", Steps: []domain.Step{
			{ID: "a", Components: []domain.Component{{ID: "b", Kind: domain.KindSpacer}}},
			{ID: "b"},
		}}},
		{"unknown kind", domain.Document{ID: "d", Steps: []domain.Step{
			{ID: "a", Components: []domain.Component{{ID: "c", Kind: "carousel"}}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runtime.NewEngine(tt.doc)
			assert.ErrorIs(t, err, domain.ErrInvalidDocument)
		})
	}
}

func TestEngine_DoesNotAliasCallerDocument(t *testing.T) {
	doc := sampleDoc()
	e, err := runtime.NewEngine(doc)
	require.NoError(t, err)

	doc.Steps[0].Components[0].Properties["text"] = "mutated"
	c, _, err := e.Store().LocateComponent("x")
	require.NoError(t, err)
	assert.Equal(t, "Find your style", c.Properties["text"])
}

func TestEngine_RejectLeavesStateUntouched(t *testing.T) {
	e := newEngine()
	require.NoError(t, e.SelectComponent("y"))
	require.NoError(t, e.UpdateComponent("x", domain.Properties{"text": "v2"}))

	docBefore := e.Document()
	selBefore := e.Selection()
	lenBefore, curBefore := e.History()

	rejects := []error{
		e.UpdateComponent("missing", domain.Properties{"text": "a"}),
		e.UpdateComponent("x", domain.Properties{"level": 99}),
		e.RemoveComponent("missing"),
		e.MoveComponent("x", "missing", 0),
		e.MoveStep("missing", 0),
		e.RenameStep("missing", "t"),
		e.SetStepFlag("A", "unknown", true),
	}
	_, err := e.InsertComponent("missing", domain.Component{Kind: domain.KindHeading}, 0)
	rejects = append(rejects, err)

	for i, err := range rejects {
		assert.Error(t, err, "call %d", i)
	}
	lenAfter, curAfter := e.History()
	assert.Equal(t, docBefore, e.Document())
	assert.Equal(t, selBefore, e.Selection())
	assert.Equal(t, lenBefore, lenAfter)
	assert.Equal(t, curBefore, curAfter)
}

func TestEngine_NoOpMoveStepRecordsNothing(t *testing.T) {
	e := newEngine()
	before := e.Document()

	require.NoError(t, e.MoveStep("A", 0))

	length, _ := e.History()
	assert.Equal(t, 1, length)
	assert.Equal(t, before, e.Document())
	assert.False(t, e.CanUndo())
}

func TestEngine_BranchTruncation(t *testing.T) {
	e := newEngine()
	require.NoError(t, e.RenameStep("A", "one"))
	require.NoError(t, e.RenameStep("A", "two"))
	require.True(t, e.Undo())
	require.True(t, e.CanRedo())

	require.NoError(t, e.RenameStep("A", "three"))

	assert.False(t, e.CanRedo())
	assert.False(t, e.Redo())
	step, _ := e.Document().FindStep("A")
	assert.Equal(t, "three", step.Title)
}

func TestEngine_UndoReconcilesSelection(t *testing.T) {
	e := newEngine()
	created, err := e.InsertComponent("B", domain.Component{Kind: domain.KindSpacer}, 0)
	require.NoError(t, err)
	require.NoError(t, e.SelectComponent(created.ID))

	require.True(t, e.Undo())
	assert.Equal(t, domain.Selection{ActiveStepID: "B"}, e.Selection())
}

func TestEngine_Observers(t *testing.T) {
	e := newEngine()
	var states []domain.EditorState
	cancel := e.Subscribe(func(s domain.EditorState) { states = append(states, s) })

	require.NoError(t, e.RenameStep("A", "Hello"))
	require.NoError(t, e.SelectStep("B"))
	e.Undo()

	require.Len(t, states, 3)
	assert.True(t, states[0].CanUndo)
	assert.Equal(t, "B", states[1].Selection.ActiveStepID)
	assert.False(t, states[2].CanUndo)
	assert.True(t, states[2].CanRedo)

	cancel()
	e.Redo()
	assert.Len(t, states, 3)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var edits, rejects, undos, redos []string
	hooks := domain.LifecycleHooks{
		OnEdit:   func(ev *domain.EditEvent) { edits = append(edits, ev.Op+":"+ev.TargetID) },
		OnReject: func(ev *domain.EditEvent) { rejects = append(rejects, ev.Op) },
		OnUndo:   func(ev *domain.EditEvent) { undos = append(undos, ev.Op) },
		OnRedo:   func(ev *domain.EditEvent) { redos = append(redos, ev.Op) },
	}
	e := newEngine(runtime.WithLifecycleHooks(hooks))

	require.NoError(t, e.RemoveComponent("x"))
	assert.Error(t, e.RemoveStep("Z"))
	e.Undo()
	e.Redo()

	assert.Equal(t, []string{"remove_component:x"}, edits)
	assert.Equal(t, []string{"remove_step"}, rejects)
	assert.Equal(t, []string{"undo"}, undos)
	assert.Equal(t, []string{"redo"}, redos)
}

func TestEngine_Reset(t *testing.T) {
	e := newEngine()
	require.NoError(t, e.RenameStep("A", "changed"))

	fresh := domain.Document{ID: "other", Steps: []domain.Step{{ID: "only"}}}
	require.NoError(t, e.Reset(fresh))

	assert.Equal(t, "other", e.Document().ID)
	assert.False(t, e.CanUndo())
	assert.Equal(t, "only", e.Selection().ActiveStepID)

	assert.ErrorIs(t, e.Reset(domain.Document{ID: "bad"}), domain.ErrInvalidDocument)
	assert.Equal(t, "other", e.Document().ID)
}

func TestEngine_PropertyFields(t *testing.T) {
	e := newEngine()

	_, _, err := e.PropertyFields()
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, e.SelectComponent("y"))
	c, fields, err := e.PropertyFields()
	require.NoError(t, err)
	assert.Equal(t, "y", c.ID)
	require.NotEmpty(t, fields)
	assert.Equal(t, "label", fields[0].Name)
}

func TestEngine_HistoryLimit(t *testing.T) {
	e := newEngine(runtime.WithHistoryLimit(3))
	for i := 0; i < 10; i++ {
		require.NoError(t, e.SetStepProgress("B", i*10+1))
	}

	length, cursor := e.History()
	assert.Equal(t, 3, length)
	assert.Equal(t, 2, cursor)

	assert.True(t, e.Undo())
	assert.True(t, e.Undo())
	assert.False(t, e.Undo())
	step, _ := e.Document().FindStep("B")
	assert.Equal(t, 71, step.ProgressPercent)
}

func TestEngine_UpdateStepRecordsOneEntry(t *testing.T) {
	e := newEngine()
	before := e.Document()

	err := e.UpdateStep("B", domain.StepPatch{
		Title:    ptr("Changed"),
		Settings: map[string]any{"bogus": 1},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, before, e.Document())
	assert.False(t, e.CanUndo())

	require.NoError(t, e.UpdateStep("B", domain.StepPatch{
		Title:    ptr("Changed"),
		Progress: ptr(30),
	}))
	length, _ := e.History()
	assert.Equal(t, 2, length)

	require.True(t, e.Undo())
	assert.Equal(t, before, e.Document())
}

func TestEngine_TypedPropertyValuesAreCopied(t *testing.T) {
	type badge struct {
		Name string
	}
	e := newEngine()
	badges := []badge{{Name: "sale"}}

	require.NoError(t, e.UpdateComponent("x", domain.Properties{"badges": badges}))
	badges[0].Name = "changed"

	c, err := e.Store().FindComponent("A", "x")
	require.NoError(t, err)
	assert.Equal(t, []badge{{Name: "sale"}}, c.Properties["badges"])

	require.True(t, e.Undo())
	require.True(t, e.Redo())
	c, err = e.Store().FindComponent("A", "x")
	require.NoError(t, err)
	assert.Equal(t, []badge{{Name: "sale"}}, c.Properties["badges"])
}
