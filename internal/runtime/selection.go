package runtime

import "github.com/aretw0/funnelkit/pkg/domain"

// SelectionController tracks the active step and component by id only, so
// it never holds references into snapshots.
type SelectionController struct {
	sel domain.Selection
}

// NewSelectionController selects the first step of doc.
func NewSelectionController(doc domain.Document) *SelectionController {
	c := &SelectionController{}
	c.Reconcile(doc)
	return c
}

// Get returns the current selection.
func (c *SelectionController) Get() domain.Selection { return c.sel }

// SelectStep activates a step and clears the component selection.
func (c *SelectionController) SelectStep(doc domain.Document, stepID string) error {
	if doc.StepIndex(stepID) < 0 {
		return domain.NotFound("select_step", stepID)
	}
	c.sel = domain.Selection{ActiveStepID: stepID}
	return nil
}

// SelectComponent activates a component and the step that owns it.
func (c *SelectionController) SelectComponent(doc domain.Document, componentID string) error {
	_, owner, ok := doc.FindComponent(componentID)
	if !ok {
		return domain.NotFound("select_component", componentID)
	}
	c.sel = domain.Selection{ActiveStepID: owner, ActiveComponentID: componentID}
	return nil
}

// ClearComponent deselects the active component, keeping the step.
func (c *SelectionController) ClearComponent() {
	c.sel.ActiveComponentID = ""
}

// Reconcile repairs the selection against doc: a vanished component is
// deselected, a component moved to another step drags the step selection
// along, and a vanished step falls back to the first step.
func (c *SelectionController) Reconcile(doc domain.Document) {
	if c.sel.ActiveComponentID != "" {
		if _, owner, ok := doc.FindComponent(c.sel.ActiveComponentID); ok {
			c.sel.ActiveStepID = owner
			return
		}
		c.sel.ActiveComponentID = ""
	}
	if doc.StepIndex(c.sel.ActiveStepID) < 0 {
		c.sel.ActiveStepID = ""
		if len(doc.Steps) > 0 {
			c.sel.ActiveStepID = doc.Steps[0].ID
		}
	}
}
