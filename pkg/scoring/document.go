package scoring

import (
	"fmt"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/registry"
)

// FromDocument extracts a Quiz from the choice-group components of doc.
// Each choice group becomes a question keyed by the component id. An option
// that does not set points is worth one point; an explicit zero stays zero.
func FromDocument(doc domain.Document) (Quiz, error) {
	quiz := Quiz{ID: doc.ID}
	for _, step := range doc.Steps {
		for _, c := range step.Components {
			if c.Kind != domain.KindChoiceGroup {
				continue
			}
			group, err := registry.DecodeChoiceGroup(c)
			if err != nil {
				return Quiz{}, fmt.Errorf("step %q: %w", step.ID, err)
			}
			q := Question{ID: c.ID, MaxSelections: 1}
			if group.AllowMultiple {
				q.MaxSelections = group.SelectionLimit
			}
			for _, o := range group.Options {
				pts := 1
				if o.Points != nil {
					pts = *o.Points
				}
				q.Options = append(q.Options, Option{ID: o.ID, Style: o.Style, Points: pts})
			}
			quiz.Questions = append(quiz.Questions, q)
		}
	}
	return quiz, nil
}
