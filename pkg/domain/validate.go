package domain

import "fmt"

// Validate checks the structural invariants a document must satisfy before
// the engine accepts it: an id, at least one step, non-empty unique step
// ids, non-empty component ids unique across the whole document, a kind on
// every component and progress within 0..100.
//
// It returns a *ValidationError (matching ErrInvalidDocument) listing every
// issue found, or nil. Malformed documents are rejected, never repaired.
func Validate(doc Document) error {
	var issues []string
	add := func(format string, args ...any) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	if doc.ID == "" {
		add("document id is empty")
	}
	if len(doc.Steps) == 0 {
		add("document has no steps")
	}

	steps := make(map[string]int, len(doc.Steps))
	components := make(map[string]string)
	for i, s := range doc.Steps {
		switch {
		case s.ID == "":
			add("step %d has an empty id", i)
		default:
			if prev, dup := steps[s.ID]; dup {
				add("step id %q is used by steps %d and %d", s.ID, prev, i)
			} else {
				steps[s.ID] = i
			}
		}
		if s.ProgressPercent < 0 || s.ProgressPercent > 100 {
			add("step %q progress %d is outside 0..100", s.ID, s.ProgressPercent)
		}
		for j, c := range s.Components {
			if c.ID == "" {
				add("component %d of step %q has an empty id", j, s.ID)
				continue
			}
			if owner, dup := components[c.ID]; dup {
				add("component id %q is used in steps %q and %q", c.ID, owner, s.ID)
			} else {
				components[c.ID] = s.ID
			}
			if c.Kind == "" {
				add("component %q has no kind", c.ID)
			}
		}
	}
	// Steps and components share one id namespace.
	for _, s := range doc.Steps {
		for _, c := range s.Components {
			if _, clash := steps[c.ID]; clash {
				add("component id %q in step %q is also a step id", c.ID, s.ID)
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
