package domain

// Document is the aggregate root of a funnel: an ordered sequence of steps
// plus document-level configuration. Config is opaque to the editing engine
// and is passed through untouched.
type Document struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Steps  []Step         `json:"steps" yaml:"steps"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d.Steps != nil {
		steps := make([]Step, len(d.Steps))
		for i, s := range d.Steps {
			steps[i] = s.Clone()
		}
		d.Steps = steps
	}
	if d.Config != nil {
		d.Config = CloneValue(d.Config).(map[string]any)
	}
	return d
}

// StepIndex returns the position of the step, or -1.
func (d Document) StepIndex(stepID string) int {
	for i, s := range d.Steps {
		if s.ID == stepID {
			return i
		}
	}
	return -1
}

// FindStep looks a step up by id.
func (d Document) FindStep(stepID string) (Step, bool) {
	if i := d.StepIndex(stepID); i >= 0 {
		return d.Steps[i], true
	}
	return Step{}, false
}

// LocateComponent returns the step and component positions of a component
// anywhere in the document.
func (d Document) LocateComponent(componentID string) (stepIdx, compIdx int, ok bool) {
	for si, s := range d.Steps {
		if ci := s.ComponentIndex(componentID); ci >= 0 {
			return si, ci, true
		}
	}
	return -1, -1, false
}

// FindComponent looks a component up by id, returning it with the id of the
// step that owns it.
func (d Document) FindComponent(componentID string) (Component, string, bool) {
	si, ci, ok := d.LocateComponent(componentID)
	if !ok {
		return Component{}, "", false
	}
	return d.Steps[si].Components[ci], d.Steps[si].ID, true
}

// StepIDs returns step ids in navigation order.
func (d Document) StepIDs() []string {
	ids := make([]string, len(d.Steps))
	for i, s := range d.Steps {
		ids[i] = s.ID
	}
	return ids
}

// ComponentIDs returns every component id in document order.
func (d Document) ComponentIDs() []string {
	var ids []string
	for _, s := range d.Steps {
		for _, c := range s.Components {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// HasID reports whether any step or component uses id.
func (d Document) HasID(id string) bool {
	if d.StepIndex(id) >= 0 {
		return true
	}
	_, _, ok := d.LocateComponent(id)
	return ok
}
