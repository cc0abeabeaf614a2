package domain

import "time"

// Operation names reported in events and errors.
const (
	OpInsertComponent    = "insert_component"
	OpUpdateComponent    = "update_component"
	OpRemoveComponent    = "remove_component"
	OpMoveComponent      = "move_component"
	OpDuplicateComponent = "duplicate_component"
	OpInsertStep         = "insert_step"
	OpRemoveStep         = "remove_step"
	OpMoveStep           = "move_step"
	OpDuplicateStep      = "duplicate_step"
	OpRenameStep         = "rename_step"
	OpSetStepFlag        = "set_step_flag"
	OpSetStepSetting     = "set_step_setting"
	OpSetStepProgress    = "set_step_progress"
	OpUpdateStep         = "update_step"
	OpUndo               = "undo"
	OpRedo               = "redo"
	OpReset              = "reset"
)

// EditEvent describes one editor transition.
type EditEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	DocumentID string    `json:"document_id"`
	Op         string    `json:"op"`
	TargetID   string    `json:"target_id,omitempty"`
	// HistoryLen and Cursor describe the history after the event.
	HistoryLen int   `json:"history_len"`
	Cursor     int   `json:"cursor"`
	Err        error `json:"-"`
}

// LifecycleHooks defines callbacks for editor observability.
// Every hook is optional.
type LifecycleHooks struct {
	OnEdit   func(*EditEvent) // a mutation was applied and recorded
	OnReject func(*EditEvent) // a mutation failed; Err is set
	OnUndo   func(*EditEvent)
	OnRedo   func(*EditEvent)
}
