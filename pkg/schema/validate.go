package schema

import "sort"

// Schema is a map of field names to their expected types.
type Schema map[string]Type

// Validate checks every key of data that the schema declares.
// Keys missing from data and keys unknown to the schema are ignored.
// All failures are returned together as an *AggregateError.
func Validate(s Schema, data map[string]any) error {
	var errs []error
	for _, key := range sortedKeys(data) {
		t, ok := s[key]
		if !ok {
			continue
		}
		if err := t.Validate(data[key]); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: data[key]})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Require checks that each of fields is present in data and valid.
func Require(s Schema, data map[string]any, fields ...string) error {
	var errs []error
	for _, name := range fields {
		t, declared := s[name]
		if !declared {
			errs = append(errs, &ValidationError{Key: name, Reason: "not defined in schema"})
			continue
		}
		value, present := data[name]
		if !present {
			errs = append(errs, &ValidationError{Key: name, Reason: "required"})
			continue
		}
		if err := t.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: value})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
