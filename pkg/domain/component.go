package domain

import "reflect"

// Kind identifies a component variant. The set of valid kinds is owned by
// the kind registry (see pkg/registry).
type Kind string

// Built-in component kinds.
const (
	KindHeading     Kind = "heading"
	KindParagraph   Kind = "paragraph"
	KindImage       Kind = "image"
	KindButton      Kind = "button"
	KindTextInput   Kind = "text-input"
	KindChoiceGroup Kind = "choice-group"
	KindSpacer      Kind = "spacer"
	KindEmbed       Kind = "embed"
	KindPrice       Kind = "price"
	KindCountdown   Kind = "countdown"
	KindTestimonial Kind = "testimonial"
	KindGuarantee   Kind = "guarantee"
	KindFAQ         Kind = "faq"
	KindSocialProof Kind = "social-proof"
)

// Properties maps a property name to its value. Valid keys depend on the
// component kind. Values are normally JSON shaped; typed slices, maps and
// pointers are deep copied too, so snapshots never share them.
type Properties map[string]any

// Clone returns a deep copy of the properties.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = CloneValue(v)
	}
	return out
}

// Merge returns a copy of p with every key of patch applied on top.
// Keys absent from patch are preserved.
func (p Properties) Merge(patch Properties) Properties {
	out := make(Properties, len(p)+len(patch))
	for k, v := range p {
		out[k] = CloneValue(v)
	}
	for k, v := range patch {
		out[k] = CloneValue(v)
	}
	return out
}

// String returns the string value stored under key, or "".
func (p Properties) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Component is a leaf content unit placed inside a step.
type Component struct {
	ID         string     `json:"id" yaml:"id"`
	Kind       Kind       `json:"kind" yaml:"kind"`
	Properties Properties `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	c.Properties = c.Properties.Clone()
	return c
}

// CloneValue deep copies v. The container shapes produced by JSON and YAML
// decoding take a fast path; other slices, maps, arrays, pointers and
// structs are copied by reflection. Scalars are returned as is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = CloneValue(e)
		}
		return out
	case Properties:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e).(map[string]any)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case []int:
		return append([]int(nil), t...)
	case nil, string, bool, int, int64, float64:
		return v
	default:
		return cloneReflect(reflect.ValueOf(v)).Interface()
	}
}

// cloneReflect copies v recursively. Unexported struct fields are copied
// shallowly. Cyclic values are not supported.
func cloneReflect(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(cloneReflect(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneReflect(iter.Value()))
		}
		return out
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(cloneReflect(v.Elem()))
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(cloneReflect(v.Elem()))
		return out
	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if out.Field(i).CanSet() {
				out.Field(i).Set(cloneReflect(v.Field(i)))
			}
		}
		return out
	default:
		return v
	}
}
