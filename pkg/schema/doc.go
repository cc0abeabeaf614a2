// Package schema provides the small type system used to describe component
// properties.
//
// A Schema maps property names to Types. The kind registry builds one Schema
// per component kind and validates property patches against it before an
// edit is applied:
//
//	props := schema.Schema{
//	    "text":     schema.String(),
//	    "level":    schema.IntRange(1, 6),
//	    "align":    schema.Enum("left", "center", "right"),
//	    "options":  schema.Slice(schema.Object(schema.Schema{"id": schema.String()})),
//	}
//
//	if err := schema.Validate(props, patch); err != nil {
//	    // reject the patch
//	}
//
// Validate only checks keys that are both present in the data and declared
// in the schema, so partial patches validate naturally. Use Require to assert
// that specific keys are present.
//
// Numeric types accept whole float64 values so that data decoded from JSON
// validates the same way as data decoded from YAML.
package schema
