package runtime

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/registry"
	"github.com/aretw0/funnelkit/pkg/schema"
)

// End is an insertion index meaning "after the last element".
const End = math.MaxInt

// Operations computes new documents from old ones plus an edit intent.
//
// Every method is a pure function of its arguments: the input document is
// never mutated, and untouched steps and components are shared with the
// result. Snapshots are therefore immutable by convention. Methods that may
// leave the document as it was report it through their changed result.
type Operations struct {
	kinds *registry.Registry
	ids   IDGenerator
}

// NewOperations creates an Operations using kinds for defaults and property
// checks, and ids for fresh identifiers.
func NewOperations(kinds *registry.Registry, ids IDGenerator) *Operations {
	if kinds == nil {
		kinds = registry.Default()
	}
	if ids == nil {
		ids = RandomIDs()
	}
	return &Operations{kinds: kinds, ids: ids}
}

func (o *Operations) pool(doc domain.Document) *idPool {
	return newIDPool(append(doc.StepIDs(), doc.ComponentIDs()...), o.ids)
}

// InsertComponent places c into the step at index at, clamped to the
// step's bounds. Registry defaults are applied beneath c.Properties. An
// empty c.ID is replaced by a fresh one; a supplied id must be unused.
func (o *Operations) InsertComponent(doc domain.Document, stepID string, c domain.Component, at int) (domain.Document, domain.Component, error) {
	const op = domain.OpInsertComponent
	si := doc.StepIndex(stepID)
	if si < 0 {
		return doc, domain.Component{}, domain.NotFound(op, stepID)
	}

	props, err := o.kinds.NewProperties(c.Kind, c.Properties)
	if err != nil {
		return doc, domain.Component{}, &domain.OpError{Op: op, ID: stepID, Err: err}
	}

	ids := o.pool(doc)
	created := domain.Component{ID: c.ID, Kind: c.Kind, Properties: props}
	if created.ID == "" {
		if created.ID, err = ids.fresh(); err != nil {
			return doc, domain.Component{}, domain.Invalid(op, stepID, err.Error())
		}
	} else if ids.has(created.ID) {
		return doc, domain.Component{}, domain.Invalid(op, created.ID, "id already in use")
	}

	next := withSteps(doc)
	step := next.Steps[si]
	step.Components = insertAt(step.Components, clamp(at, 0, len(step.Components)), created)
	next.Steps[si] = step
	return next, created, nil
}

// UpdateComponent merges patch into the component's properties. Keys of
// patch win; other keys are preserved. Id and kind never change.
func (o *Operations) UpdateComponent(doc domain.Document, componentID string, patch domain.Properties) (domain.Document, bool, error) {
	const op = domain.OpUpdateComponent
	si, ci, ok := doc.LocateComponent(componentID)
	if !ok {
		return doc, false, domain.NotFound(op, componentID)
	}
	current := doc.Steps[si].Components[ci]
	if err := o.kinds.ValidatePatch(current.Kind, patch); err != nil {
		return doc, false, &domain.OpError{Op: op, ID: componentID, Err: err}
	}
	if len(patch) == 0 {
		return doc, false, nil
	}

	merged := current.Properties.Merge(patch)
	if reflect.DeepEqual(merged, current.Properties) {
		return doc, false, nil
	}

	next := withSteps(doc)
	step := next.Steps[si]
	step.Components = append([]domain.Component(nil), step.Components...)
	step.Components[ci] = domain.Component{ID: current.ID, Kind: current.Kind, Properties: merged}
	next.Steps[si] = step
	return next, true, nil
}

// RemoveComponent deletes the component from whichever step holds it.
func (o *Operations) RemoveComponent(doc domain.Document, componentID string) (domain.Document, error) {
	si, ci, ok := doc.LocateComponent(componentID)
	if !ok {
		return doc, domain.NotFound(domain.OpRemoveComponent, componentID)
	}
	next := withSteps(doc)
	step := next.Steps[si]
	step.Components = removeAt(step.Components, ci)
	next.Steps[si] = step
	return next, nil
}

// MoveComponent relocates a component to toIndex within toStepID, which may
// be its current step. The index refers to the target step after the
// component has been taken out and is clamped to its bounds.
func (o *Operations) MoveComponent(doc domain.Document, componentID, toStepID string, toIndex int) (domain.Document, bool, error) {
	const op = domain.OpMoveComponent
	si, ci, ok := doc.LocateComponent(componentID)
	if !ok {
		return doc, false, domain.NotFound(op, componentID)
	}
	ti := doc.StepIndex(toStepID)
	if ti < 0 {
		return doc, false, domain.NotFound(op, toStepID)
	}

	moving := doc.Steps[si].Components[ci]
	next := withSteps(doc)

	source := next.Steps[si]
	source.Components = removeAt(source.Components, ci)
	next.Steps[si] = source

	target := next.Steps[ti]
	to := clamp(toIndex, 0, len(target.Components))
	if ti == si && to == ci {
		return doc, false, nil
	}
	target.Components = insertAt(target.Components, to, moving)
	next.Steps[ti] = target
	return next, true, nil
}

// DuplicateComponent inserts a deep copy of the component, with a fresh
// id, right after the original.
func (o *Operations) DuplicateComponent(doc domain.Document, componentID string) (domain.Document, domain.Component, error) {
	const op = domain.OpDuplicateComponent
	si, ci, ok := doc.LocateComponent(componentID)
	if !ok {
		return doc, domain.Component{}, domain.NotFound(op, componentID)
	}
	dup := doc.Steps[si].Components[ci].Clone()
	id, err := o.pool(doc).fresh()
	if err != nil {
		return doc, domain.Component{}, domain.Invalid(op, componentID, err.Error())
	}
	dup.ID = id

	next := withSteps(doc)
	step := next.Steps[si]
	step.Components = insertAt(step.Components, ci+1, dup)
	next.Steps[si] = step
	return next, dup, nil
}

// InsertStep places step at index at, clamped to the document bounds.
// Empty ids (of the step and its components) are filled with fresh ones, a
// zero Settings value becomes DefaultStepSettings, an empty kind becomes
// question, and the progress is clamped to 0..100.
func (o *Operations) InsertStep(doc domain.Document, step domain.Step, at int) (domain.Document, domain.Step, error) {
	const op = domain.OpInsertStep
	ids := o.pool(doc)

	created := step.Clone()
	if created.ID == "" {
		id, err := ids.fresh()
		if err != nil {
			return doc, domain.Step{}, domain.Invalid(op, "", err.Error())
		}
		created.ID = id
	} else if ids.has(created.ID) {
		return doc, domain.Step{}, domain.Invalid(op, created.ID, "id already in use")
	} else {
		ids.claim(created.ID)
	}
	if created.Kind == "" {
		created.Kind = domain.StepQuestion
	}
	if created.Settings == (domain.StepSettings{}) {
		created.Settings = domain.DefaultStepSettings()
	}
	created.ProgressPercent = clamp(created.ProgressPercent, 0, 100)

	for i, c := range created.Components {
		props, err := o.kinds.NewProperties(c.Kind, c.Properties)
		if err != nil {
			return doc, domain.Step{}, &domain.OpError{Op: op, ID: created.ID, Err: err}
		}
		c.Properties = props
		if c.ID == "" {
			if c.ID, err = ids.fresh(); err != nil {
				return doc, domain.Step{}, domain.Invalid(op, created.ID, err.Error())
			}
		} else if ids.has(c.ID) {
			return doc, domain.Step{}, domain.Invalid(op, c.ID, "id already in use")
		} else {
			ids.claim(c.ID)
		}
		created.Components[i] = c
	}
	if created.Components == nil {
		created.Components = []domain.Component{}
	}

	next := doc
	next.Steps = insertAt(doc.Steps, clamp(at, 0, len(doc.Steps)), created)
	return next, created, nil
}

// RemoveStep deletes a step and its components. The last remaining step
// cannot be removed.
func (o *Operations) RemoveStep(doc domain.Document, stepID string) (domain.Document, error) {
	const op = domain.OpRemoveStep
	si := doc.StepIndex(stepID)
	if si < 0 {
		return doc, domain.NotFound(op, stepID)
	}
	if len(doc.Steps) == 1 {
		return doc, domain.Invalid(op, stepID, "cannot remove the last step")
	}
	next := doc
	next.Steps = removeAt(doc.Steps, si)
	return next, nil
}

// MoveStep reorders a step to toIndex, clamped to the document bounds.
// Moving a step onto its own index leaves the document unchanged.
func (o *Operations) MoveStep(doc domain.Document, stepID string, toIndex int) (domain.Document, bool, error) {
	si := doc.StepIndex(stepID)
	if si < 0 {
		return doc, false, domain.NotFound(domain.OpMoveStep, stepID)
	}
	to := clamp(toIndex, 0, len(doc.Steps)-1)
	if to == si {
		return doc, false, nil
	}
	moving := doc.Steps[si]
	next := doc
	next.Steps = insertAt(removeAt(doc.Steps, si), to, moving)
	return next, true, nil
}

// DuplicateStep inserts a copy of the step right after it. The copy and
// each of its components get fresh ids.
func (o *Operations) DuplicateStep(doc domain.Document, stepID string) (domain.Document, domain.Step, error) {
	const op = domain.OpDuplicateStep
	si := doc.StepIndex(stepID)
	if si < 0 {
		return doc, domain.Step{}, domain.NotFound(op, stepID)
	}
	ids := o.pool(doc)
	dup := doc.Steps[si].Clone()
	var err error
	if dup.ID, err = ids.fresh(); err != nil {
		return doc, domain.Step{}, domain.Invalid(op, stepID, err.Error())
	}
	for i := range dup.Components {
		if dup.Components[i].ID, err = ids.fresh(); err != nil {
			return doc, domain.Step{}, domain.Invalid(op, stepID, err.Error())
		}
	}
	if dup.Title != "" {
		dup.Title += " (copy)"
	}

	next := doc
	next.Steps = insertAt(doc.Steps, si+1, dup)
	return next, dup, nil
}

// RenameStep sets the title of a step.
func (o *Operations) RenameStep(doc domain.Document, stepID, title string) (domain.Document, bool, error) {
	return updateStep(doc, domain.OpRenameStep, stepID, func(s *domain.Step) error {
		s.Title = title
		return nil
	})
}

// SetStepFlag toggles a display flag of a step.
func (o *Operations) SetStepFlag(doc domain.Document, stepID string, flag domain.StepFlag, on bool) (domain.Document, bool, error) {
	return updateStep(doc, domain.OpSetStepFlag, stepID, func(s *domain.Step) error {
		switch flag {
		case domain.FlagShowHeader:
			s.Settings.ShowHeader = on
		case domain.FlagShowProgress:
			s.Settings.ShowProgress = on
		default:
			return fmt.Errorf("unknown step flag %q", flag)
		}
		return nil
	})
}

var stepSettingTypes = schema.Schema{
	domain.SettingBackground:  schema.String(),
	domain.SettingAutoAdvance: schema.Bool(),
	domain.SettingTimeLimit:   schema.IntRange(0, 86400),
}

// SetStepSetting sets one presentation setting of a step. Values are
// type-checked against the setting.
func (o *Operations) SetStepSetting(doc domain.Document, stepID, key string, value any) (domain.Document, bool, error) {
	return updateStep(doc, domain.OpSetStepSetting, stepID, func(s *domain.Step) error {
		t, ok := stepSettingTypes[key]
		if !ok {
			return fmt.Errorf("unknown step setting %q", key)
		}
		if err := t.Validate(value); err != nil {
			return fmt.Errorf("setting %q: %w", key, err)
		}
		switch key {
		case domain.SettingBackground:
			s.Settings.Background = value.(string)
		case domain.SettingAutoAdvance:
			s.Settings.AutoAdvance = value.(bool)
		case domain.SettingTimeLimit:
			s.Settings.TimeLimitSeconds = toInt(value)
		}
		return nil
	})
}

// SetStepProgress sets the progress shown on a step, clamped to 0..100.
func (o *Operations) SetStepProgress(doc domain.Document, stepID string, percent int) (domain.Document, bool, error) {
	return updateStep(doc, domain.OpSetStepProgress, stepID, func(s *domain.Step) error {
		s.ProgressPercent = clamp(percent, 0, 100)
		return nil
	})
}

// UpdateStep applies every field of patch to a step as a single edit. Any
// invalid field rejects the whole patch and doc is returned unchanged.
func (o *Operations) UpdateStep(doc domain.Document, stepID string, patch domain.StepPatch) (domain.Document, bool, error) {
	if doc.StepIndex(stepID) < 0 {
		return doc, false, domain.NotFound(domain.OpUpdateStep, stepID)
	}
	next, changed := doc, false
	fold := func(d domain.Document, ch bool, err error) error {
		if err != nil {
			return err
		}
		next, changed = d, changed || ch
		return nil
	}
	var edits []func() error
	if patch.Title != nil {
		edits = append(edits, func() error { return fold(o.RenameStep(next, stepID, *patch.Title)) })
	}
	if patch.Progress != nil {
		edits = append(edits, func() error { return fold(o.SetStepProgress(next, stepID, *patch.Progress)) })
	}
	for _, flag := range slices.Sorted(maps.Keys(patch.Flags)) {
		edits = append(edits, func() error { return fold(o.SetStepFlag(next, stepID, flag, patch.Flags[flag])) })
	}
	for _, key := range slices.Sorted(maps.Keys(patch.Settings)) {
		edits = append(edits, func() error { return fold(o.SetStepSetting(next, stepID, key, patch.Settings[key])) })
	}
	for _, edit := range edits {
		if err := edit(); err != nil {
			return doc, false, err
		}
	}
	return next, changed, nil
}

// updateStep applies a single-field change to a copy of a step.
// Errors from fn are reported as invalid operations.
func updateStep(doc domain.Document, op, stepID string, fn func(*domain.Step) error) (domain.Document, bool, error) {
	si := doc.StepIndex(stepID)
	if si < 0 {
		return doc, false, domain.NotFound(op, stepID)
	}
	before := doc.Steps[si]
	after := before
	if err := fn(&after); err != nil {
		return doc, false, domain.Invalid(op, stepID, err.Error())
	}
	if after.Title == before.Title && after.Kind == before.Kind &&
		after.ProgressPercent == before.ProgressPercent && after.Settings == before.Settings {
		return doc, false, nil
	}
	next := withSteps(doc)
	next.Steps[si] = after
	return next, true, nil
}

// withSteps returns a shallow copy of doc owning a fresh step slice.
func withSteps(doc domain.Document) domain.Document {
	doc.Steps = append([]domain.Step(nil), doc.Steps...)
	return doc
}

func insertAt[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case int16:
		return int(n)
	case int8:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
