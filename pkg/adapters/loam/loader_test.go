package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/ports/tests"
	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRepo writes files into a temp directory and opens a Loam repository on it.
func setupRepo(t *testing.T, files map[string]string) *Loader {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	repo, err := loam.Init(dir, loam.WithStrict(true))
	require.NoError(t, err, "Failed to init loam repo")
	return New(loam.NewTypedRepository[StepMetadata](repo), "default")
}

var quizFiles = map[string]string{
	"funnel.md": `---
id: style-quiz
kind: funnel
name: Style quiz
config:
  theme:
    primary: "#B89B7A"
---`,
	"02-question.md": `---
funnel: style-quiz
id: q1
title: Which outfit?
kind: question
order: 2
progress: 20
settings:
  show_progress: false
components:
  - id: q1-options
    kind: choice-group
    properties:
      selectionLimit: 3
      options:
        - id: a
          label: Classic
          style: classic
          points: 1
---`,
	"01-intro.md": `---
funnel: style-quiz
id: intro
title: Welcome
kind: intro
order: 1
components:
  - id: intro-title
    kind: heading
    properties:
      text: Discover your style
---
Answer a few questions.`,
	"orphan.md": `---
title: Belongs to the default funnel
---`,
}

func TestLoader_Contract(t *testing.T) {
	loader := setupRepo(t, quizFiles)

	want := map[string]domain.Document{
		"style-quiz": {
			ID:   "style-quiz",
			Name: "Style quiz",
			Steps: []domain.Step{
				{ID: "intro", Components: make([]domain.Component, 2)},
				{ID: "q1", Components: make([]domain.Component, 1)},
			},
		},
		"default": {
			ID:    "default",
			Name:  "default",
			Steps: []domain.Step{{ID: "orphan", Components: []domain.Component{}}},
		},
	}
	tests.DocumentLoaderContractTest(t, loader, want)
}

func TestLoader_Load_BuildsSteps(t *testing.T) {
	loader := setupRepo(t, quizFiles)

	doc, err := loader.Load(context.Background(), "style-quiz")
	require.NoError(t, err)

	assert.Equal(t, []string{"intro", "q1"}, doc.StepIDs(), "steps follow the order key")
	assert.Equal(t, map[string]any{"theme": map[string]any{"primary": "#B89B7A"}}, doc.Config)

	intro := doc.Steps[0]
	assert.Equal(t, domain.StepIntro, intro.Kind)
	assert.Equal(t, domain.DefaultStepSettings(), intro.Settings)
	require.Len(t, intro.Components, 2)
	assert.Equal(t, "Discover your style", intro.Components[0].Properties["text"])
	assert.Equal(t, domain.Component{
		ID:         "intro-body",
		Kind:       domain.KindParagraph,
		Properties: domain.Properties{"text": "Answer a few questions."},
	}, intro.Components[1])

	q1 := doc.Steps[1]
	assert.Equal(t, 20, q1.ProgressPercent)
	assert.True(t, q1.Settings.ShowHeader)
	assert.False(t, q1.Settings.ShowProgress)
	assert.Equal(t, float64(3), q1.Components[0].Properties["selectionLimit"])
	options := q1.Components[0].Properties["options"].([]any)
	assert.Equal(t, float64(1), options[0].(map[string]any)["points"])
}

func TestLoader_Load_RejectsInvalidFunnels(t *testing.T) {
	loader := setupRepo(t, map[string]string{
		"a.md": `---
funnel: broken
id: same
---`,
		"b.md": `---
funnel: broken
id: same
---`,
	})

	_, err := loader.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, domain.ErrInvalidDocument)
}

func TestLoader_Load_NotFound(t *testing.T) {
	loader := setupRepo(t, quizFiles)

	_, err := loader.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestLoader_List(t *testing.T) {
	loader := setupRepo(t, quizFiles)

	ids, err := loader.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "style-quiz"}, ids)
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"n":    3,
		"list": []any{int64(2), "x"},
		"nested": map[any]any{
			1: "one",
		},
	}
	want := map[string]any{
		"n":      float64(3),
		"list":   []any{float64(2), "x"},
		"nested": map[string]any{"1": "one"},
	}
	assert.Equal(t, want, normalize(in))
}
