package runtime

import (
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/funnelkit/internal/logging"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/registry"
)

// Engine keeps a NodeStore, its History and the SelectionController in step.
//
// Every mutation follows the same protocol: the edit is computed by
// Operations; on success the snapshot is stored and recorded, the selection
// reconciled and observers notified. A failed edit leaves every piece of
// state untouched. Edits that change nothing are not recorded.
//
// Engine is not safe for concurrent use; callers serialise access.
type Engine struct {
	store     *NodeStore
	ops       *Operations
	history   *History
	selection *SelectionController

	kinds        *registry.Registry
	ids          IDGenerator
	historyLimit int
	now          func() time.Time
	logger       *slog.Logger
	hooks        domain.LifecycleHooks

	observers    map[int]func(domain.EditorState)
	nextObserver int
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistoryLimit caps the number of retained snapshots.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) { e.historyLimit = n }
}

// WithIDGenerator sets the source of fresh ids.
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithRegistry sets the component kind registry.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) { e.kinds = r }
}

// WithClock sets the time source used for history timestamps and events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = h }
}

// NewEngine validates doc and starts an editing session on a copy of it.
func NewEngine(doc domain.Document, opts ...Option) (*Engine, error) {
	e := &Engine{
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		logger:       logging.NewNop(),
		observers:    make(map[int]func(domain.EditorState)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.kinds == nil {
		e.kinds = registry.Default()
	}
	if e.ids == nil {
		e.ids = RandomIDs()
	}

	if err := e.validate(doc); err != nil {
		return nil, err
	}
	doc = doc.Clone()
	e.ops = NewOperations(e.kinds, e.ids)
	e.store = NewNodeStore(doc)
	e.history = NewHistory(doc, e.historyLimit, e.now)
	e.selection = NewSelectionController(doc)
	return e, nil
}

func (e *Engine) validate(doc domain.Document) error {
	if err := domain.Validate(doc); err != nil {
		return err
	}
	return e.kinds.ValidateDocument(doc)
}

// Store exposes read access to the current document.
func (e *Engine) Store() *NodeStore { return e.store }

// Registry returns the kind registry in use.
func (e *Engine) Registry() *registry.Registry { return e.kinds }

// Document returns the current snapshot. It must not be mutated.
func (e *Engine) Document() domain.Document { return e.store.Get() }

// Selection returns the current selection.
func (e *Engine) Selection() domain.Selection { return e.selection.Get() }

// CanUndo reports whether Undo would change the document.
func (e *Engine) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would change the document.
func (e *Engine) CanRedo() bool { return e.history.CanRedo() }

// History returns the number of retained snapshots and the cursor position.
func (e *Engine) History() (length, cursor int) {
	return e.history.Len(), e.history.Cursor()
}

// State returns the derived editor state.
func (e *Engine) State() domain.EditorState {
	return domain.EditorState{
		Document:  e.store.Get(),
		Selection: e.selection.Get(),
		CanUndo:   e.history.CanUndo(),
		CanRedo:   e.history.CanRedo(),
	}
}

// Subscribe registers fn to receive the editor state after every change.
// The returned function removes the subscription.
func (e *Engine) Subscribe(fn func(domain.EditorState)) (cancel func()) {
	id := e.nextObserver
	e.nextObserver++
	e.observers[id] = fn
	return func() { delete(e.observers, id) }
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	ids := make([]int, 0, len(e.observers))
	for id := range e.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	state := e.State()
	for _, id := range ids {
		if fn, ok := e.observers[id]; ok {
			fn(state)
		}
	}
}

func (e *Engine) emit(hook func(*domain.EditEvent), op, target string, err error) {
	if hook == nil {
		return
	}
	hook(&domain.EditEvent{
		Timestamp:  e.now(),
		DocumentID: e.store.Get().ID,
		Op:         op,
		TargetID:   target,
		HistoryLen: e.history.Len(),
		Cursor:     e.history.Cursor(),
		Err:        err,
	})
}

// apply runs one edit through the mutation protocol.
func (e *Engine) apply(op, target string, edit func(domain.Document) (domain.Document, bool, error)) error {
	next, changed, err := edit(e.store.Get())
	if err != nil {
		e.logger.Debug("edit rejected", "op", op, "target", target, "err", err)
		e.emit(e.hooks.OnReject, op, target, err)
		return err
	}
	if !changed {
		e.logger.Debug("edit left document unchanged", "op", op, "target", target)
		return nil
	}
	e.store.set(next)
	e.history.Record(next)
	e.selection.Reconcile(next)
	e.logger.Debug("edit applied", "op", op, "target", target, "history_len", e.history.Len())
	e.emit(e.hooks.OnEdit, op, target, nil)
	e.notify()
	return nil
}

// InsertComponent adds a component to a step. See Operations.InsertComponent.
func (e *Engine) InsertComponent(stepID string, c domain.Component, at int) (domain.Component, error) {
	var created domain.Component
	err := e.apply(domain.OpInsertComponent, stepID, func(doc domain.Document) (domain.Document, bool, error) {
		next, c, err := e.ops.InsertComponent(doc, stepID, c, at)
		created = c.Clone()
		return next, err == nil, err
	})
	return created, err
}

// UpdateComponent merges patch into a component's properties.
func (e *Engine) UpdateComponent(componentID string, patch domain.Properties) error {
	return e.apply(domain.OpUpdateComponent, componentID, func(doc domain.Document) (domain.Document, bool, error) {
		return e.ops.UpdateComponent(doc, componentID, patch)
	})
}

// RemoveComponent deletes a component.
func (e *Engine) RemoveComponent(componentID string) error {
	return e.apply(domain.OpRemoveComponent, componentID, func(doc domain.Document) (domain.Document, bool, error) {
		next, err := e.ops.RemoveComponent(doc, componentID)
		return next, err == nil, err
	})
}

// MoveComponent relocates a component, possibly to another step.
func (e *Engine) MoveComponent(componentID, toStepID string, toIndex int) error {
	return e.apply(domain.OpMoveComponent, componentID, func(doc domain.Document) (domain.Document, bool, error) {
		return e.ops.MoveComponent(doc, componentID, toStepID, toIndex)
	})
}

// DuplicateComponent copies a component right after itself.
func (e *Engine) DuplicateComponent(componentID string) (domain.Component, error) {
	var created domain.Component
	err := e.apply(domain.OpDuplicateComponent, componentID, func(doc domain.Document) (domain.Document, bool, error) {
		next, c, err := e.ops.DuplicateComponent(doc, componentID)
		created = c.Clone()
		return next, err == nil, err
	})
	return created, err
}

// InsertStep adds a step. See Operations.InsertStep.
func (e *Engine) InsertStep(step domain.Step, at int) (domain.Step, error) {
	var created domain.Step
	err := e.apply(domain.OpInsertStep, step.ID, func(doc domain.Document) (domain.Document, bool, error) {
		next, s, err := e.ops.InsertStep(doc, step, at)
		created = s.Clone()
		return next, err == nil, err
	})
	return created, err
}

// RemoveStep deletes a step. The last step cannot be removed.
func (e *Engine) RemoveStep(stepID string) error {
	return e.apply(domain.OpRemoveStep, stepID, func(doc domain.Document) (domain.Document, bool, error) {
		next, err := e.ops.RemoveStep(doc, stepID)
		return next, err == nil, err
	})
}

// MoveStep reorders a step.
func (e *Engine) MoveStep(stepID string, toIndex int) error {
	return e.apply(domain.OpMoveStep, stepID, func(doc domain.Document) (domain.Document, bool, error) {
		return e.ops.MoveStep(doc, stepID, toIndex)
	})
}

// DuplicateStep copies a step right after itself.
func (e *Engine) DuplicateStep(stepID string) (domain.Step, error) {
	var created domain.Step
	err := e.apply(domain.OpDuplicateStep, stepID, func(doc domain.Document) (domain.Document, bool, error) {
		next, s, err := e.ops.DuplicateStep(doc, stepID)
		created = s.Clone()
		return next, err == nil, err
	})
	return created, err
}

// RenameStep sets a step title.
func (e *Engine) RenameStep(stepID, title string) error {
	return e.apply(domain.OpRenameStep, stepID, func(doc domain.Document) (domain.Document, bool, error) {
		return e.ops.RenameStep(doc, stepID, title)
	})
}

// SetStepFlag toggles a step display flag.
func (e *Engine) SetStepFlag(stepID string, flag domain.StepFlag, on bool) error {
	return e.apply(domain.OpSetStepFlag, stepID, func(doc domain.Document) (domain.Document, bool, error) {
		return e.ops.SetStepFlag(doc, stepID, flag, on)
	})
}

// SetStepSetting sets a step presentation setting.
func (e *Engine) SetStepSetting(stepID, key string, value any) error {
	return e.apply(domain.OpSetStepSetting, stepID, func(doc domain.Document) (domain.Document, bool, error) {
		return e.ops.SetStepSetting(doc, stepID, key, value)
	})
}

// SetStepProgress sets a step progress percentage.
func (e *Engine) SetStepProgress(stepID string, percent int) error {
	return e.apply(domain.OpSetStepProgress, stepID, func(doc domain.Document) (domain.Document, bool, error) {
		return e.ops.SetStepProgress(doc, stepID, percent)
	})
}

// UpdateStep applies a multi-field step patch as one history entry.
func (e *Engine) UpdateStep(stepID string, patch domain.StepPatch) error {
	return e.apply(domain.OpUpdateStep, stepID, func(doc domain.Document) (domain.Document, bool, error) {
		return e.ops.UpdateStep(doc, stepID, patch)
	})
}

// Undo restores the previous snapshot. It reports false when there is none.
func (e *Engine) Undo() bool {
	doc, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.replay(doc)
	e.emit(e.hooks.OnUndo, domain.OpUndo, "", nil)
	e.notify()
	return true
}

// Redo reapplies the next snapshot. It reports false when there is none.
func (e *Engine) Redo() bool {
	doc, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.replay(doc)
	e.emit(e.hooks.OnRedo, domain.OpRedo, "", nil)
	e.notify()
	return true
}

func (e *Engine) replay(doc domain.Document) {
	e.store.set(doc)
	e.selection.Reconcile(doc)
	e.logger.Debug("history replayed", "cursor", e.history.Cursor(), "history_len", e.history.Len())
}

// Reset replaces the document with a validated copy of doc and clears
// the history.
func (e *Engine) Reset(doc domain.Document) error {
	if err := e.validate(doc); err != nil {
		e.emit(e.hooks.OnReject, domain.OpReset, doc.ID, err)
		return err
	}
	doc = doc.Clone()
	e.store.set(doc)
	e.history.Reset(doc)
	e.selection = NewSelectionController(doc)
	e.emit(e.hooks.OnEdit, domain.OpReset, doc.ID, nil)
	e.notify()
	return nil
}

// SelectStep activates a step.
func (e *Engine) SelectStep(stepID string) error {
	if err := e.selection.SelectStep(e.store.Get(), stepID); err != nil {
		return err
	}
	e.notify()
	return nil
}

// SelectComponent activates a component and its step.
func (e *Engine) SelectComponent(componentID string) error {
	if err := e.selection.SelectComponent(e.store.Get(), componentID); err != nil {
		return err
	}
	e.notify()
	return nil
}

// ClearComponentSelection deselects the active component.
func (e *Engine) ClearComponentSelection() {
	e.selection.ClearComponent()
	e.notify()
}

// PropertyFields describes the editable fields of the selected component,
// or returns ErrNotFound when no component is selected.
func (e *Engine) PropertyFields() (domain.Component, []registry.FieldInfo, error) {
	id := e.selection.Get().ActiveComponentID
	if id == "" {
		return domain.Component{}, nil, domain.NotFound("property_fields", "")
	}
	c, _, err := e.store.LocateComponent(id)
	if err != nil {
		return domain.Component{}, nil, err
	}
	spec, ok := e.kinds.Lookup(c.Kind)
	if !ok {
		return c, nil, domain.NotFound("property_fields", string(c.Kind))
	}
	return c, spec.Describe(), nil
}
