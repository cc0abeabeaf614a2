package domain

import (
	"reflect"
	"slices"
)

// DocumentDiff represents the changes between two document snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type DocumentDiff struct {
	// DocumentID is always present to identify the target.
	DocumentID string `json:"document_id"`

	Name *string `json:"name,omitempty"`

	// StepOrder carries the full step id sequence whenever steps were added,
	// removed or reordered.
	StepOrder []string `json:"step_order,omitempty"`

	// StepsChanged lists steps present in the new snapshot whose fields or
	// component list differ from the old one (new steps included).
	StepsChanged []string `json:"steps_changed,omitempty"`
	StepsRemoved []string `json:"steps_removed,omitempty"`

	// ComponentsChanged lists components that are new, edited or moved to
	// another step.
	ComponentsChanged []string `json:"components_changed,omitempty"`
	ComponentsRemoved []string `json:"components_removed,omitempty"`

	ConfigChanged bool `json:"config_changed,omitempty"`
}

// Diff calculates the difference between oldDoc and newDoc.
// If oldDoc is nil, it returns a diff representing the entire newDoc (initial load).
// It returns nil when nothing changed.
func Diff(oldDoc, newDoc *Document) *DocumentDiff {
	if newDoc == nil {
		return nil
	}

	diff := &DocumentDiff{DocumentID: newDoc.ID}

	if oldDoc == nil || oldDoc.Name != newDoc.Name {
		diff.Name = &newDoc.Name
	}

	newOrder := newDoc.StepIDs()
	if oldDoc == nil || !slices.Equal(oldDoc.StepIDs(), newOrder) {
		diff.StepOrder = newOrder
	}

	diffSteps(oldDoc, newDoc, diff)
	diffComponents(oldDoc, newDoc, diff)

	if oldDoc == nil {
		diff.ConfigChanged = len(newDoc.Config) > 0
	} else {
		diff.ConfigChanged = !reflect.DeepEqual(oldDoc.Config, newDoc.Config)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffSteps(oldDoc, newDoc *Document, diff *DocumentDiff) {
	for _, s := range newDoc.Steps {
		if oldDoc == nil {
			diff.StepsChanged = append(diff.StepsChanged, s.ID)
			continue
		}
		prev, ok := oldDoc.FindStep(s.ID)
		if !ok || !stepEqual(prev, s) {
			diff.StepsChanged = append(diff.StepsChanged, s.ID)
		}
	}
	if oldDoc == nil {
		return
	}
	for _, s := range oldDoc.Steps {
		if newDoc.StepIndex(s.ID) < 0 {
			diff.StepsRemoved = append(diff.StepsRemoved, s.ID)
		}
	}
}

func diffComponents(oldDoc, newDoc *Document, diff *DocumentDiff) {
	for _, s := range newDoc.Steps {
		for _, c := range s.Components {
			if oldDoc == nil {
				diff.ComponentsChanged = append(diff.ComponentsChanged, c.ID)
				continue
			}
			prev, owner, ok := oldDoc.FindComponent(c.ID)
			if !ok || owner != s.ID || !reflect.DeepEqual(prev, c) {
				diff.ComponentsChanged = append(diff.ComponentsChanged, c.ID)
			}
		}
	}
	if oldDoc == nil {
		return
	}
	for _, id := range oldDoc.ComponentIDs() {
		if _, _, ok := newDoc.LocateComponent(id); !ok {
			diff.ComponentsRemoved = append(diff.ComponentsRemoved, id)
		}
	}
}

// stepEqual compares step fields and component order, but not component
// contents (those are reported per component).
func stepEqual(a, b Step) bool {
	if a.Title != b.Title || a.Kind != b.Kind || a.ProgressPercent != b.ProgressPercent || a.Settings != b.Settings {
		return false
	}
	if len(a.Components) != len(b.Components) {
		return false
	}
	for i := range a.Components {
		if a.Components[i].ID != b.Components[i].ID {
			return false
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *DocumentDiff) IsEmpty() bool {
	return d.Name == nil &&
		d.StepOrder == nil &&
		len(d.StepsChanged) == 0 &&
		len(d.StepsRemoved) == 0 &&
		len(d.ComponentsChanged) == 0 &&
		len(d.ComponentsRemoved) == 0 &&
		!d.ConfigChanged
}
