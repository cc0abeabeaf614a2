package schema

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	// Property panels use it to pick an input widget.
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

type intType struct {
	min, max  int
	hasBounds bool
}

func (t intType) Name() string {
	if t.hasBounds {
		return fmt.Sprintf("int[%d..%d]", t.min, t.max)
	}
	return "int"
}

func (t intType) Validate(value any) error {
	n, err := asInt(value)
	if err != nil {
		return err
	}
	if t.hasBounds && (n < t.min || n > t.max) {
		return fmt.Errorf("expected int in %d..%d, got %d", t.min, t.max, n)
	}
	return nil
}

func asInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		// Whole floats come from JSON unmarshaling.
		if v == float64(int64(v)) {
			return int(v), nil
		}
		return 0, fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return 0, fmt.Errorf("expected int, got %T", value)
	}
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Validate(value any) error {
	switch value.(type) {
	case float32, float64, int, int8, int16, int32, int64:
		return nil
	default:
		return fmt.Errorf("expected float, got %T", value)
	}
}

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

type enumType struct {
	values []string
}

func (t enumType) Name() string { return "enum(" + strings.Join(t.values, "|") + ")" }

func (t enumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if !slices.Contains(t.values, s) {
		return fmt.Errorf("expected one of %s, got %q", strings.Join(t.values, ", "), s)
	}
	return nil
}

type sliceType struct {
	elem Type
}

func (t sliceType) Name() string { return "[" + t.elem.Name() + "]" }

func (t sliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected list, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elem.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

type objectType struct {
	fields Schema
}

func (t objectType) Name() string { return "object" }

func (t objectType) Validate(value any) error {
	var m map[string]any
	switch v := value.(type) {
	case map[string]any:
		m = v
	case nil:
		return fmt.Errorf("expected object, got nil")
	default:
		return fmt.Errorf("expected object, got %T", value)
	}
	return Validate(t.fields, m)
}

type customType struct {
	name     string
	validate func(any) error
}

func (t customType) Name() string { return t.name }

func (t customType) Validate(value any) error { return t.validate(value) }

// String creates a string type validator.
func String() Type { return stringType{} }

// Int creates an integer type validator.
func Int() Type { return intType{} }

// IntRange creates an integer validator bounded to [min, max].
func IntRange(min, max int) Type { return intType{min: min, max: max, hasBounds: true} }

// Float creates a float type validator.
func Float() Type { return floatType{} }

// Bool creates a boolean type validator.
func Bool() Type { return boolType{} }

// Enum creates a validator accepting only the given strings.
func Enum(values ...string) Type { return enumType{values: values} }

// Slice creates a list validator for elements of the given type.
func Slice(elem Type) Type { return sliceType{elem: elem} }

// Object creates a validator for nested maps whose present keys follow fields.
func Object(fields Schema) Type { return objectType{fields: fields} }

// Custom creates a custom type validator with a user-defined function.
func Custom(name string, validate func(any) error) Type {
	return customType{name: name, validate: validate}
}
