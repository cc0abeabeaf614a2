package domain

import "time"

// Selection is the ephemeral editor cursor: the active step and, within it,
// the active component (empty when none). It only holds ids.
type Selection struct {
	ActiveStepID      string `json:"active_step_id"`
	ActiveComponentID string `json:"active_component_id,omitempty"`
}

// HistoryEntry is one recorded document snapshot.
type HistoryEntry struct {
	Document  Document  `json:"document"`
	Timestamp time.Time `json:"timestamp"`
}

// EditorState is the derived state presentation layers re-read after every
// change.
type EditorState struct {
	Document  Document  `json:"document"`
	Selection Selection `json:"selection"`
	CanUndo   bool      `json:"can_undo"`
	CanRedo   bool      `json:"can_redo"`
}
