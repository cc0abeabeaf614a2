package runtime_test

import (
	"slices"
	"testing"

	"github.com/aretw0/funnelkit/internal/runtime"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// edit is one randomly drawn engine mutation.
type edit struct {
	name string
	run  func(e *runtime.Engine) error
}

func drawEdit(t *rapid.T, e *runtime.Engine) edit {
	doc := e.Document()
	steps := doc.StepIDs()
	comps := doc.ComponentIDs()
	step := rapid.SampledFrom(steps).Draw(t, "step")
	index := rapid.IntRange(-1, 6).Draw(t, "index")

	choices := []edit{
		{"insert", func(e *runtime.Engine) error {
			_, err := e.InsertComponent(step, domain.Component{Kind: domain.KindParagraph}, index)
			return err
		}},
		{"insert_step", func(e *runtime.Engine) error {
			_, err := e.InsertStep(domain.Step{Title: "new"}, index)
			return err
		}},
		{"move_step", func(e *runtime.Engine) error { return e.MoveStep(step, index) }},
		{"rename", func(e *runtime.Engine) error { return e.RenameStep(step, rapid.StringN(0, 8, -1).Draw(t, "title")) }},
		{"progress", func(e *runtime.Engine) error { return e.SetStepProgress(step, index*20) }},
	}
	if len(comps) > 0 {
		comp := rapid.SampledFrom(comps).Draw(t, "component")
		choices = append(choices,
			edit{"update", func(e *runtime.Engine) error {
				return e.UpdateComponent(comp, domain.Properties{"text": rapid.StringN(0, 8, -1).Draw(t, "text")})
			}},
			edit{"move", func(e *runtime.Engine) error { return e.MoveComponent(comp, step, index) }},
			edit{"duplicate", func(e *runtime.Engine) error {
				_, err := e.DuplicateComponent(comp)
				return err
			}},
		)
	}
	return rapid.SampledFrom(choices).Draw(t, "edit")
}

// An edit that does not target a node never drops or renames other nodes.
func TestProperty_IdentityStability(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := newEngine()
		n := rapid.IntRange(1, 20).Draw(t, "n")
		for i := 0; i < n; i++ {
			before := e.Document()
			ed := drawEdit(t, e)
			if err := ed.run(e); err != nil {
				t.Fatalf("%s failed: %v", ed.name, err)
			}
			after := e.Document()
			for _, id := range before.StepIDs() {
				if !slices.Contains(after.StepIDs(), id) {
					t.Fatalf("%s dropped step %q", ed.name, id)
				}
			}
			for _, id := range before.ComponentIDs() {
				if !slices.Contains(after.ComponentIDs(), id) {
					t.Fatalf("%s dropped component %q", ed.name, id)
				}
			}
			if err := domain.Validate(after); err != nil {
				t.Fatalf("%s produced an invalid document: %v", ed.name, err)
			}
		}
	})
}

// Undoing every recorded edit restores the initial document; redoing them
// restores the final one.
func TestProperty_HistoryRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := newEngine()
		initial := e.Document()

		n := rapid.IntRange(1, 15).Draw(t, "n")
		for i := 0; i < n; i++ {
			if err := drawEdit(t, e).run(e); err != nil {
				t.Fatalf("edit failed: %v", err)
			}
		}
		final := e.Document()

		undos := 0
		for e.Undo() {
			undos++
		}
		require.Equal(t, initial, e.Document())

		for i := 0; i < undos; i++ {
			if !e.Redo() {
				t.Fatalf("redo %d of %d failed", i+1, undos)
			}
		}
		require.Equal(t, final, e.Document())
		require.False(t, e.CanRedo())
	})
}

// The history never grows beyond its limit and undo still reaches the
// oldest retained entry.
func TestProperty_BoundedHistory(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 8).Draw(t, "limit")
		e := newEngine(runtime.WithHistoryLimit(limit))

		n := rapid.IntRange(limit, limit*3).Draw(t, "n")
		for i := 0; i < n; i++ {
			if err := e.SetStepProgress("B", i%101); err != nil {
				t.Fatalf("edit failed: %v", err)
			}
			if length, _ := e.History(); length > limit {
				t.Fatalf("history length %d exceeds limit %d", length, limit)
			}
		}

		length, _ := e.History()
		undos := 0
		for e.Undo() {
			undos++
		}
		if undos != length-1 {
			t.Fatalf("undid %d entries, want %d", undos, length-1)
		}
	})
}

// Moving a step onto its own index is invisible to history.
func TestProperty_MoveStepOntoItselfIsNoOp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := newEngine()
		extra := rapid.IntRange(0, 5).Draw(t, "extra")
		for i := 0; i < extra; i++ {
			if _, err := e.InsertStep(domain.Step{}, runtime.End); err != nil {
				t.Fatalf("insert step: %v", err)
			}
		}
		doc := e.Document()
		lenBefore, curBefore := e.History()
		id := rapid.SampledFrom(doc.StepIDs()).Draw(t, "step")

		if err := e.MoveStep(id, doc.StepIndex(id)); err != nil {
			t.Fatalf("move step: %v", err)
		}

		lenAfter, curAfter := e.History()
		require.Equal(t, doc, e.Document())
		require.Equal(t, lenBefore, lenAfter)
		require.Equal(t, curBefore, curAfter)
	})
}
