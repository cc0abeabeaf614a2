// Package registry describes the component kinds a funnel can contain.
//
// Each kind declares its editable fields with a schema type, a label for
// property panels and a default value. The editing engine consults the
// registry to seed new components and to type-check property patches.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/schema"
)

// ErrUnknownKind is returned when a component kind has not been registered.
var ErrUnknownKind = errors.New("unknown component kind")

// Field describes one editable property of a component kind.
type Field struct {
	Name     string
	Label    string
	Type     schema.Type
	Default  any
	Required bool
}

// FieldInfo is the serializable view of a Field.
type FieldInfo struct {
	Name     string `json:"name" yaml:"name"`
	Label    string `json:"label" yaml:"label"`
	Type     string `json:"type" yaml:"type"`
	Default  any    `json:"default,omitempty" yaml:"default,omitempty"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// KindSpec declares a component kind.
type KindSpec struct {
	Kind     domain.Kind
	Label    string
	Category string
	Fields   []Field
}

// Schema returns the property schema of the kind.
func (k KindSpec) Schema() schema.Schema {
	s := make(schema.Schema, len(k.Fields))
	for _, f := range k.Fields {
		s[f.Name] = f.Type
	}
	return s
}

// Defaults returns a fresh copy of the default properties.
func (k KindSpec) Defaults() domain.Properties {
	p := make(domain.Properties, len(k.Fields))
	for _, f := range k.Fields {
		if f.Default != nil {
			p[f.Name] = domain.CloneValue(f.Default)
		}
	}
	return p
}

// Describe returns serializable field descriptors in declaration order.
func (k KindSpec) Describe() []FieldInfo {
	out := make([]FieldInfo, len(k.Fields))
	for i, f := range k.Fields {
		out[i] = FieldInfo{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type.Name(),
			Default:  domain.CloneValue(f.Default),
			Required: f.Required,
		}
	}
	return out
}

func (k KindSpec) required() []string {
	var names []string
	for _, f := range k.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Registry holds the known component kinds.
type Registry struct {
	mu    sync.RWMutex
	kinds map[domain.Kind]KindSpec
	order []domain.Kind
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		kinds: make(map[domain.Kind]KindSpec),
	}
}

// Default returns a new registry populated with the built-in kinds.
func Default() *Registry {
	r := New()
	for _, spec := range Builtins() {
		_ = r.Register(spec)
	}
	return r
}

// Register adds a kind. Registering an existing kind replaces its spec but
// keeps its position in Kinds.
func (r *Registry) Register(spec KindSpec) error {
	if spec.Kind == "" {
		return errors.New("kind spec has no kind")
	}
	seen := make(map[string]bool, len(spec.Fields))
	for _, f := range spec.Fields {
		if f.Name == "" || f.Type == nil {
			return fmt.Errorf("kind %q: field %q needs a name and a type", spec.Kind, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("kind %q: duplicate field %q", spec.Kind, f.Name)
		}
		seen[f.Name] = true
		if f.Default != nil {
			if err := f.Type.Validate(f.Default); err != nil {
				return fmt.Errorf("kind %q: default for %q: %w", spec.Kind, f.Name, err)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.kinds[spec.Kind]; !ok {
		r.order = append(r.order, spec.Kind)
	}
	r.kinds[spec.Kind] = spec
	return nil
}

// Lookup returns the spec for kind.
func (r *Registry) Lookup(kind domain.Kind) (KindSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.kinds[kind]
	return spec, ok
}

// Kinds lists registered kinds in registration order.
func (r *Registry) Kinds() []KindSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]KindSpec, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.kinds[k])
	}
	return out
}

func (r *Registry) spec(kind domain.Kind) (KindSpec, error) {
	spec, ok := r.Lookup(kind)
	if !ok {
		return KindSpec{}, fmt.Errorf("%w %q: %w", ErrUnknownKind, kind, domain.ErrInvalidOperation)
	}
	return spec, nil
}

// NewProperties returns the defaults of kind with overrides applied on top.
// Overrides are type-checked; unknown keys pass through untouched.
func (r *Registry) NewProperties(kind domain.Kind, overrides domain.Properties) (domain.Properties, error) {
	spec, err := r.spec(kind)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(spec.Schema(), overrides); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidOperation, err)
	}
	props := spec.Defaults().Merge(overrides)
	if err := schema.Require(spec.Schema(), props, spec.required()...); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidOperation, err)
	}
	return props, nil
}

// ValidatePatch type-checks a property patch for kind.
func (r *Registry) ValidatePatch(kind domain.Kind, patch domain.Properties) error {
	spec, err := r.spec(kind)
	if err != nil {
		return err
	}
	if err := schema.Validate(spec.Schema(), patch); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidOperation, err)
	}
	return nil
}

// ValidateDocument checks that every component of doc has a registered kind
// and well-typed properties.
func (r *Registry) ValidateDocument(doc domain.Document) error {
	var issues []string
	for _, step := range doc.Steps {
		for _, c := range step.Components {
			spec, ok := r.Lookup(c.Kind)
			if !ok {
				issues = append(issues, fmt.Sprintf("component %q has unknown kind %q", c.ID, c.Kind))
				continue
			}
			if err := schema.Validate(spec.Schema(), c.Properties); err != nil {
				issues = append(issues, fmt.Sprintf("component %q: %v", c.ID, err))
			}
		}
	}
	if len(issues) > 0 {
		return &domain.ValidationError{Issues: issues}
	}
	return nil
}
