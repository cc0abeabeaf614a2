package dsl

import (
	"fmt"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/registry"
)

// Builder manages the document construction.
type Builder struct {
	doc   domain.Document
	steps []*StepBuilder
	index map[string]*StepBuilder
}

// New creates a new document builder.
func New(id, name string) *Builder {
	return &Builder{
		doc:   domain.Document{ID: id, Name: name},
		index: make(map[string]*StepBuilder),
	}
}

// Config sets a document-level configuration entry.
func (b *Builder) Config(key string, value any) *Builder {
	if b.doc.Config == nil {
		b.doc.Config = make(map[string]any)
	}
	b.doc.Config[key] = value
	return b
}

// Step appends a new step to the document.
// If the step already exists, it returns the existing builder.
func (b *Builder) Step(id string) *StepBuilder {
	if sb, ok := b.index[id]; ok {
		return sb
	}
	sb := &StepBuilder{
		step: domain.Step{
			ID:         id,
			Kind:       domain.StepQuestion,
			Components: []domain.Component{},
			Settings:   domain.DefaultStepSettings(),
		},
		builder: b,
	}
	b.steps = append(b.steps, sb)
	b.index[id] = sb
	return sb
}

// Build assembles the document using the built-in kind registry.
func (b *Builder) Build() (domain.Document, error) {
	return b.BuildWith(registry.Default())
}

// BuildWith assembles the document, applies kind defaults from kinds and
// validates the result.
func (b *Builder) BuildWith(kinds *registry.Registry) (domain.Document, error) {
	doc := b.doc.Clone()
	doc.Steps = make([]domain.Step, 0, len(b.steps))

	for _, sb := range b.steps {
		step := sb.step.Clone()
		for i, c := range step.Components {
			props, err := kinds.NewProperties(c.Kind, c.Properties)
			if err != nil {
				return domain.Document{}, fmt.Errorf("step %q component %q: %w", step.ID, c.ID, err)
			}
			if c.ID == "" {
				c.ID = fmt.Sprintf("%s-%d", step.ID, i+1)
			}
			c.Properties = props
			step.Components[i] = c
		}
		doc.Steps = append(doc.Steps, step)
	}

	if err := domain.Validate(doc); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// MustBuild is like Build but panics on error. It is meant for static templates.
func (b *Builder) MustBuild() domain.Document {
	doc, err := b.Build()
	if err != nil {
		panic(err)
	}
	return doc
}
