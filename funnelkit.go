package funnelkit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/funnelkit/internal/logging"
	"github.com/aretw0/funnelkit/internal/runtime"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/dsl"
	"github.com/aretw0/funnelkit/pkg/ports"
	"github.com/aretw0/funnelkit/pkg/registry"
)

// End is an insertion index meaning "append at the end".
const End = runtime.End

// Snapshot is the editor state handed to observers.
type Snapshot = domain.EditorState

// Editor is the high-level entry point for funnelkit.
// It wraps the internal runtime and exposes one editing session over a
// single funnel document.
//
// Editor is not safe for concurrent use. Use pkg/session to share editors
// between goroutines.
type Editor struct {
	runtime     *runtime.Engine
	runtimeOpts []runtime.Option
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithHistoryLimit caps the number of undo snapshots (default 50).
func WithHistoryLimit(n int) Option {
	return func(e *Editor) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithHistoryLimit(n))
	}
}

// WithIDGenerator replaces the UUID generator used for new steps and components.
func WithIDGenerator(gen func() string) Option {
	return func(e *Editor) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithIDGenerator(gen))
	}
}

// WithRegistry sets the component kind registry (default: the built-in kinds).
func WithRegistry(r *registry.Registry) Option {
	return func(e *Editor) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithRegistry(r))
	}
}

// WithClock sets the time source for history entries and events.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithClock(now))
	}
}

// New starts an editing session over a copy of doc.
// It returns an error matching domain.ErrInvalidDocument when doc is malformed.
func New(doc domain.Document, opts ...Option) (*Editor, error) {
	ed := &Editor{}
	for _, opt := range opts {
		opt(ed)
	}

	if ed.logger == nil {
		ed.logger = logging.NewNop()
	}
	if doc.ID != "" {
		ed.logger = ed.logger.With("funnel", doc.ID)
	}

	runtimeOpts := []runtime.Option{
		runtime.WithLifecycleHooks(ed.hooks),
		runtime.WithLogger(ed.logger),
	}
	runtimeOpts = append(runtimeOpts, ed.runtimeOpts...)

	eng, err := runtime.NewEngine(doc, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	ed.runtime = eng
	return ed, nil
}

// NewDefault starts an editing session over the starter quiz.
func NewDefault(opts ...Option) (*Editor, error) {
	return New(dsl.DefaultFunnel(), opts...)
}

// Open loads document id through loader and starts editing it.
func Open(ctx context.Context, loader ports.DocumentLoader, id string, opts ...Option) (*Editor, error) {
	doc, err := loader.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load funnel %q: %w", id, err)
	}
	return New(doc, opts...)
}

// Save writes the current document to store.
func (e *Editor) Save(ctx context.Context, store ports.DocumentStore) error {
	doc := e.runtime.Document()
	if err := store.Save(ctx, doc); err != nil {
		e.logger.Warn("failed to save funnel", "err", err)
		return fmt.Errorf("failed to save funnel %q: %w", doc.ID, err)
	}
	e.logger.Debug("funnel saved")
	return nil
}

// Document returns a copy of the current document.
func (e *Editor) Document() domain.Document {
	return e.runtime.Document().Clone()
}

// Selection returns the active step and component ids.
func (e *Editor) Selection() domain.Selection {
	return e.runtime.Selection()
}

// State returns a copy of the derived editor state.
func (e *Editor) State() Snapshot {
	s := e.runtime.State()
	s.Document = s.Document.Clone()
	return s
}

// CanUndo reports whether an earlier snapshot exists.
func (e *Editor) CanUndo() bool { return e.runtime.CanUndo() }

// CanRedo reports whether a later snapshot exists.
func (e *Editor) CanRedo() bool { return e.runtime.CanRedo() }

// History returns the number of retained snapshots and the cursor position.
func (e *Editor) History() (length, cursor int) { return e.runtime.History() }

// Registry returns the component kind registry in use.
func (e *Editor) Registry() *registry.Registry { return e.runtime.Registry() }

// Subscribe registers fn to be called with a fresh snapshot after every
// change. Call the returned function to unsubscribe.
func (e *Editor) Subscribe(fn func(Snapshot)) (cancel func()) {
	return e.runtime.Subscribe(func(s domain.EditorState) {
		s.Document = s.Document.Clone()
		fn(s)
	})
}

// CurrentStep returns the active step.
func (e *Editor) CurrentStep() (domain.Step, bool) {
	step, err := e.runtime.Store().FindStep(e.runtime.Selection().ActiveStepID)
	if err != nil {
		return domain.Step{}, false
	}
	return step.Clone(), true
}

// CurrentComponent returns the active component, if any.
func (e *Editor) CurrentComponent() (domain.Component, bool) {
	id := e.runtime.Selection().ActiveComponentID
	if id == "" {
		return domain.Component{}, false
	}
	c, _, err := e.runtime.Store().LocateComponent(id)
	if err != nil {
		return domain.Component{}, false
	}
	return c.Clone(), true
}

// PropertyFields describes the editable fields of the selected component.
func (e *Editor) PropertyFields() (domain.Component, []registry.FieldInfo, error) {
	c, fields, err := e.runtime.PropertyFields()
	return c.Clone(), fields, err
}

// InsertComponent adds c to step stepID at index at (End appends).
// An empty c.ID gets a generated one; omitted properties get kind defaults.
func (e *Editor) InsertComponent(stepID string, c domain.Component, at int) (domain.Component, error) {
	return e.runtime.InsertComponent(stepID, c, at)
}

// AddComponent appends a component of kind with the given property overrides.
func (e *Editor) AddComponent(stepID string, kind domain.Kind, props domain.Properties) (domain.Component, error) {
	return e.runtime.InsertComponent(stepID, domain.Component{Kind: kind, Properties: props}, End)
}

// UpdateComponent merges patch into the component's properties.
func (e *Editor) UpdateComponent(componentID string, patch domain.Properties) error {
	return e.runtime.UpdateComponent(componentID, patch)
}

// RemoveComponent deletes a component.
func (e *Editor) RemoveComponent(componentID string) error {
	return e.runtime.RemoveComponent(componentID)
}

// MoveComponent moves a component to index toIndex of step toStepID.
func (e *Editor) MoveComponent(componentID, toStepID string, toIndex int) error {
	return e.runtime.MoveComponent(componentID, toStepID, toIndex)
}

// DuplicateComponent copies a component right after itself.
func (e *Editor) DuplicateComponent(componentID string) (domain.Component, error) {
	return e.runtime.DuplicateComponent(componentID)
}

// InsertStep adds step at index at (End appends).
func (e *Editor) InsertStep(step domain.Step, at int) (domain.Step, error) {
	return e.runtime.InsertStep(step, at)
}

// AddStep appends an empty step of kind with title.
func (e *Editor) AddStep(kind domain.StepKind, title string) (domain.Step, error) {
	return e.runtime.InsertStep(domain.Step{Kind: kind, Title: title}, End)
}

// RemoveStep deletes a step. The last remaining step cannot be removed.
func (e *Editor) RemoveStep(stepID string) error {
	return e.runtime.RemoveStep(stepID)
}

// MoveStep moves a step to position toIndex.
func (e *Editor) MoveStep(stepID string, toIndex int) error {
	return e.runtime.MoveStep(stepID, toIndex)
}

// DuplicateStep copies a step and its components right after itself.
func (e *Editor) DuplicateStep(stepID string) (domain.Step, error) {
	return e.runtime.DuplicateStep(stepID)
}

// RenameStep sets the step title.
func (e *Editor) RenameStep(stepID, title string) error {
	return e.runtime.RenameStep(stepID, title)
}

// SetStepFlag toggles a display flag of a step.
func (e *Editor) SetStepFlag(stepID string, flag domain.StepFlag, on bool) error {
	return e.runtime.SetStepFlag(stepID, flag, on)
}

// SetStepSetting sets one of background, auto_advance or time_limit.
func (e *Editor) SetStepSetting(stepID, key string, value any) error {
	return e.runtime.SetStepSetting(stepID, key, value)
}

// SetStepProgress sets the progress shown on a step, clamped to 0..100.
func (e *Editor) SetStepProgress(stepID string, percent int) error {
	return e.runtime.SetStepProgress(stepID, percent)
}

// UpdateStep changes several fields of a step at once. Either every field
// of patch is applied or, when one is invalid, none is.
func (e *Editor) UpdateStep(stepID string, patch domain.StepPatch) error {
	return e.runtime.UpdateStep(stepID, patch)
}

// Undo steps back one snapshot. It reports false when there is nothing to undo.
func (e *Editor) Undo() bool { return e.runtime.Undo() }

// Redo steps forward one snapshot. It reports false when there is nothing to redo.
func (e *Editor) Redo() bool { return e.runtime.Redo() }

// Reset replaces the document and clears the history.
func (e *Editor) Reset(doc domain.Document) error { return e.runtime.Reset(doc) }

// SelectStep activates a step and clears the component selection.
func (e *Editor) SelectStep(stepID string) error { return e.runtime.SelectStep(stepID) }

// SelectComponent activates a component and the step that owns it.
func (e *Editor) SelectComponent(componentID string) error {
	return e.runtime.SelectComponent(componentID)
}

// ClearComponentSelection deselects the active component.
func (e *Editor) ClearComponentSelection() { e.runtime.ClearComponentSelection() }
