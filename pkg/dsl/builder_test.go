package dsl

import (
	"errors"
	"testing"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleFunnel(t *testing.T) {
	b := New("quiz", "Quiz")

	b.Step("start").
		Kind(domain.StepIntro).
		Title("Hello").
		Heading("Hello, DSL!").
		Button("Go")

	b.Step("ask").
		Progress(50).
		Heading("Pick one").
		Choices(
			Option("a", "Alpha").Style("classic").Points(2),
			Option("b", "Beta").Style("natural"),
		)

	doc, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"start", "ask"}, doc.StepIDs())
	assert.Equal(t, []string{"start-1", "start-2", "ask-1", "ask-2"}, doc.ComponentIDs())

	start := doc.Steps[0]
	assert.Equal(t, domain.StepIntro, start.Kind)
	assert.Equal(t, "Hello", start.Title)
	assert.True(t, start.Settings.ShowHeader)
	assert.True(t, start.Settings.ShowProgress)

	heading := start.Components[0]
	assert.Equal(t, "Hello, DSL!", heading.Properties["text"])
	assert.Equal(t, 1, heading.Properties["level"], "registry default applied")

	ask := doc.Steps[1]
	assert.Equal(t, domain.StepQuestion, ask.Kind)
	assert.Equal(t, 50, ask.ProgressPercent)

	group, err := registry.DecodeChoiceGroup(ask.Components[1])
	require.NoError(t, err)
	require.Len(t, group.Options, 2)
	assert.Equal(t, "classic", group.Options[0].Style)
	require.NotNil(t, group.Options[0].Points)
	assert.Equal(t, 2, *group.Options[0].Points)
	assert.False(t, group.AllowMultiple)
}

func TestBuilder_StepIsIdempotent(t *testing.T) {
	b := New("quiz", "Quiz")
	b.Step("a").Heading("one")
	b.Step("a").Heading("two")

	doc, err := b.Build()
	require.NoError(t, err)
	require.Len(t, doc.Steps, 1)
	assert.Len(t, doc.Steps[0].Components, 2)
}

func TestBuilder_Settings(t *testing.T) {
	b := New("quiz", "Quiz")
	b.Step("load").
		Kind(domain.StepLoading).
		Background("#000").
		AutoAdvance(3).
		HideHeader().
		HideProgress()

	doc, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, domain.StepSettings{
		Background:       "#000",
		AutoAdvance:      true,
		TimeLimitSeconds: 3,
	}, doc.Steps[0].Settings)
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("no steps", func(t *testing.T) {
		_, err := New("quiz", "Quiz").Build()
		assert.True(t, errors.Is(err, domain.ErrInvalidDocument))
	})

	t.Run("unknown kind", func(t *testing.T) {
		b := New("quiz", "Quiz")
		b.Step("a").Add("marquee", nil)
		_, err := b.Build()
		assert.ErrorIs(t, err, registry.ErrUnknownKind)
	})

	t.Run("badly typed property", func(t *testing.T) {
		b := New("quiz", "Quiz")
		b.Step("a").Add(domain.KindSpacer, domain.Properties{"height": "tall"})
		_, err := b.Build()
		assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	})

	t.Run("duplicate component id", func(t *testing.T) {
		b := New("quiz", "Quiz")
		b.Step("a").AddWithID("x", domain.KindHeading, nil)
		b.Step("b").AddWithID("x", domain.KindHeading, nil)
		_, err := b.Build()
		assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	})

	t.Run("progress out of range", func(t *testing.T) {
		b := New("quiz", "Quiz")
		b.Step("a").Progress(120)
		_, err := b.Build()
		assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	})
}

func TestBuilder_BuildDoesNotAlias(t *testing.T) {
	b := New("quiz", "Quiz").Config("theme", map[string]any{"color": "red"})
	b.Step("a").Heading("x")

	first, err := b.Build()
	require.NoError(t, err)
	first.Steps[0].Components[0].Properties["text"] = "changed"
	first.Config["theme"].(map[string]any)["color"] = "blue"

	second, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "x", second.Steps[0].Components[0].Properties["text"])
	assert.Equal(t, "red", second.Config["theme"].(map[string]any)["color"])
}

func TestDefaultFunnel(t *testing.T) {
	doc := DefaultFunnel()

	require.NoError(t, domain.Validate(doc))
	require.NoError(t, registry.Default().ValidateDocument(doc))
	assert.Equal(t, DefaultFunnelID, doc.ID)
	assert.Equal(t,
		[]string{"intro", "q1", "q2", "q3", "strategic", "loading", "lead", "result", "offer"},
		doc.StepIDs())

	for _, s := range doc.Steps {
		assert.GreaterOrEqual(t, s.ProgressPercent, 0)
		assert.LessOrEqual(t, s.ProgressPercent, 100)
	}

	group, err := registry.DecodeChoiceGroup(doc.Steps[1].Components[1])
	require.NoError(t, err)
	assert.True(t, group.AllowMultiple)
	assert.Equal(t, 3, group.SelectionLimit)
	assert.Len(t, group.Options, 4)

	other := DefaultFunnelWithID("mine")
	assert.Equal(t, "mine", other.ID)
	assert.Equal(t, doc.ComponentIDs(), other.ComponentIDs())
}
