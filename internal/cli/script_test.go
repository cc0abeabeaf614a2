package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `
funnel: style-quiz
ops:
  - op: insert_component
    step: intro
    kind: paragraph
    properties:
      text: Takes two minutes
    index: 0
  - op: update_component
    component: intro-2
    properties:
      level: 2
  - op: rename_step
    step: q1
    title: Wardrobe
  - op: set_flag
    step: q1
    flag: show_progress
    value: false
  - op: set_setting
    step: loading
    key: time_limit
    value: 5
  - op: set_progress
    step: q2
    value: "45"
  - op: move_step
    step: offer
    index: 0
  - op: undo
  - op: select_component
    component: q1-2
`

func newEditor(t *testing.T) *funnelkit.Editor {
	t.Helper()
	ed, err := funnelkit.NewDefault()
	require.NoError(t, err)
	return ed
}

func TestScript_Apply(t *testing.T) {
	s, err := ParseScript([]byte(sampleScript))
	require.NoError(t, err)
	assert.Equal(t, "style-quiz", s.Funnel)
	require.Len(t, s.Ops, 9)

	ed := newEditor(t)
	require.NoError(t, s.Apply(ed))
	doc := ed.Document()

	intro, _ := doc.FindStep("intro")
	assert.Equal(t, "Takes two minutes", intro.Components[0].Properties["text"])
	heading, _, ok := doc.FindComponent("intro-2")
	require.True(t, ok)
	assert.EqualValues(t, 2, heading.Properties["level"])

	q1, _ := doc.FindStep("q1")
	assert.Equal(t, "Wardrobe", q1.Title)
	assert.False(t, q1.Settings.ShowProgress)

	loading, _ := doc.FindStep("loading")
	assert.Equal(t, 5, loading.Settings.TimeLimitSeconds)

	q2, _ := doc.FindStep("q2")
	assert.Equal(t, 45, q2.ProgressPercent)

	assert.Equal(t, "intro", doc.Steps[0].ID, "move_step was undone")
	assert.Equal(t, "q1", ed.Selection().ActiveStepID)
	assert.Equal(t, "q1-2", ed.Selection().ActiveComponentID)
}

func TestScript_StopsAtFirstFailure(t *testing.T) {
	s, err := ParseScript([]byte(`
ops:
  - op: rename_step
    step: q1
    title: First
  - op: remove_component
    component: nope
  - op: rename_step
    step: q2
    title: Never
`))
	require.NoError(t, err)

	ed := newEditor(t)
	err = s.Apply(ed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorContains(t, err, "op 2 (remove_component)")

	q1, _ := ed.Document().FindStep("q1")
	q2, _ := ed.Document().FindStep("q2")
	assert.Equal(t, "First", q1.Title)
	assert.NotEqual(t, "Never", q2.Title)
}

func TestOp_Invalid(t *testing.T) {
	tests := []struct {
		name string
		op   Op
	}{
		{"unknown op", Op{Op: "explode"}},
		{"move without index", Op{Op: "move_step", Step: "q1"}},
		{"flag needs bool", Op{Op: "set_flag", Step: "q1", Flag: "show_header", Value: "yes"}},
		{"progress needs number", Op{Op: "set_progress", Step: "q1", Value: "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op.Apply(newEditor(t)), domain.ErrInvalidOperation)
		})
	}
}

func TestParseScript_Errors(t *testing.T) {
	_, err := ParseScript([]byte("ops:\n  - op: undo\n    stp: q1\n"))
	assert.ErrorContains(t, err, "op 1")

	_, err = ParseScript([]byte("ops:\n  - step: q1\n"))
	assert.ErrorContains(t, err, "missing op name")

	_, err = ParseScript([]byte("ops: ["))
	assert.Error(t, err)
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScript), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Len(t, s.Ops, 9)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
