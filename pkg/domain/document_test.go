package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_CloneIsolation(t *testing.T) {
	orig := diffFixture()
	orig.Config = map[string]any{"theme": map[string]any{"primary": "#000"}}
	orig.Steps[0].Components[0].Properties["options"] = []any{
		map[string]any{"id": "o1", "label": "One"},
	}

	cp := orig.Clone()
	cp.Steps[0].Title = "changed"
	cp.Steps[0].Components[0].Properties["text"] = "changed"
	cp.Steps[0].Components[0].Properties["options"].([]any)[0].(map[string]any)["label"] = "changed"
	cp.Config["theme"].(map[string]any)["primary"] = "#fff"

	assert.Equal(t, "Intro", orig.Steps[0].Title)
	assert.Equal(t, "Hello", orig.Steps[0].Components[0].Properties["text"])
	assert.Equal(t, "One", orig.Steps[0].Components[0].Properties["options"].([]any)[0].(map[string]any)["label"])
	assert.Equal(t, "#000", orig.Config["theme"].(map[string]any)["primary"])
}

func TestDocument_Lookup(t *testing.T) {
	d := diffFixture()

	s, ok := d.FindStep("b")
	assert.True(t, ok)
	assert.Equal(t, "Q1", s.Title)

	_, ok = d.FindStep("missing")
	assert.False(t, ok)

	c, owner, ok := d.FindComponent("y")
	assert.True(t, ok)
	assert.Equal(t, "a", owner)
	assert.Equal(t, KindButton, c.Kind)

	assert.Equal(t, []string{"a", "b"}, d.StepIDs())
	assert.Equal(t, []string{"x", "y"}, d.ComponentIDs())
	assert.True(t, d.HasID("x"))
	assert.True(t, d.HasID("b"))
	assert.False(t, d.HasID("z"))
}

func TestProperties_Merge(t *testing.T) {
	base := Properties{"text": "a", "level": 1}
	merged := base.Merge(Properties{"text": "b", "align": "left"})

	assert.Equal(t, Properties{"text": "b", "level": 1, "align": "left"}, merged)
	assert.Equal(t, "a", base["text"], "merge must not mutate the receiver")
}

func TestProperties_CloneTypedValues(t *testing.T) {
	type option struct {
		ID   string
		Tags []string
		Meta map[string]any
	}
	opts := []option{{ID: "a", Tags: []string{"x"}, Meta: map[string]any{"n": 1}}}
	single := &option{ID: "p"}
	weights := map[string]int{"a": 1}
	props := Properties{"options": opts, "single": single, "weights": weights, "pair": [2]string{"l", "r"}}

	cloned := props.Clone()

	opts[0].ID = "changed"
	opts[0].Tags[0] = "y"
	opts[0].Meta["n"] = 2
	single.ID = "q"
	weights["a"] = 9

	got := cloned["options"].([]option)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, []string{"x"}, got[0].Tags)
	assert.Equal(t, 1, got[0].Meta["n"])
	assert.Equal(t, "p", cloned["single"].(*option).ID)
	assert.Equal(t, map[string]int{"a": 1}, cloned["weights"])
	assert.Equal(t, [2]string{"l", "r"}, cloned["pair"])
	assert.Nil(t, CloneValue(nil))
}
