package runtime

import "github.com/aretw0/funnelkit/pkg/domain"

// NodeStore holds the current document and answers lookups against it.
// The returned values share memory with the stored snapshot and must be
// treated as read-only.
type NodeStore struct {
	doc domain.Document
}

// NewNodeStore creates a store holding doc.
func NewNodeStore(doc domain.Document) *NodeStore {
	return &NodeStore{doc: doc}
}

// Get returns the current snapshot.
func (s *NodeStore) Get() domain.Document {
	return s.doc
}

// FindStep returns the step with the given id.
func (s *NodeStore) FindStep(stepID string) (domain.Step, error) {
	step, ok := s.doc.FindStep(stepID)
	if !ok {
		return domain.Step{}, domain.NotFound("find_step", stepID)
	}
	return step, nil
}

// FindComponent returns a component of the given step.
func (s *NodeStore) FindComponent(stepID, componentID string) (domain.Component, error) {
	step, err := s.FindStep(stepID)
	if err != nil {
		return domain.Component{}, err
	}
	i := step.ComponentIndex(componentID)
	if i < 0 {
		return domain.Component{}, domain.NotFound("find_component", componentID)
	}
	return step.Components[i], nil
}

// LocateComponent finds a component anywhere in the document and reports
// the id of the step that owns it.
func (s *NodeStore) LocateComponent(componentID string) (domain.Component, string, error) {
	c, stepID, ok := s.doc.FindComponent(componentID)
	if !ok {
		return domain.Component{}, "", domain.NotFound("find_component", componentID)
	}
	return c, stepID, nil
}

func (s *NodeStore) set(doc domain.Document) {
	s.doc = doc
}
