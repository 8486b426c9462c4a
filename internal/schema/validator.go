package schema

import (
	"fmt"
	"strings"
)

// Result holds the outcome of validating one schema. Errors make the
// schema invalid; warnings are advisory and never affect validity.
type Result struct {
	// Errors are the validation failures, in traversal order
	Errors []string

	// Warnings are advisory diagnostics, in traversal order
	Warnings []string
}

// Valid reports whether the schema passed validation.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validator checks schemas against a field type vocabulary.
// The vocabulary is fixed at construction so validation results are
// stable for the life of the validator.
type Validator struct {
	vocab Vocabulary
}

// NewValidator creates a validator for the given vocabulary.
func NewValidator(vocab Vocabulary) *Validator {
	return &Validator{vocab: vocab}
}

// Validate checks the schema and, recursively, every nested repeater
// schema. Errors accumulate across fields; validation never stops at the
// first problem. Each message carries the dotted path of the offending
// field from the root schema.
func (v *Validator) Validate(s Schema) *Result {
	result := &Result{}
	v.validateSchema(s, "", result)
	return result
}

func (v *Validator) validateSchema(s Schema, prefix string, result *Result) {
	seen := make(map[string]bool)

	for i := range s {
		field := &s[i]
		path := field.Key
		if prefix != "" {
			path = prefix + "." + field.Key
		}

		if seen[field.Key] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("field %q: duplicate key in schema", path))
		}
		seen[field.Key] = true

		v.validateField(field, path, result)
	}
}

func (v *Validator) validateField(field *Field, path string, result *Result) {
	if !v.vocab.Contains(field.Type) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("field %q: invalid type %q (valid types: %s)",
				path, field.Type, strings.Join(v.vocab, ", ")))
	}

	switch field.Type {
	case TypeSelect:
		if len(field.Options) == 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("field %q: select field must declare at least one option", path))
		}

	case TypeRepeater:
		if len(field.Nested) == 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("field %q: repeater field must declare a non-empty nested schema", path))
		}
		if field.MinItems != nil && *field.MinItems < 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("field %q: min_items must be >= 0, got %d", path, *field.MinItems))
		}
		if field.MaxItems != nil && *field.MaxItems < 1 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("field %q: max_items must be >= 1, got %d", path, *field.MaxItems))
		}
		if field.MinItems != nil && field.MaxItems != nil && *field.MinItems > *field.MaxItems {
			result.Errors = append(result.Errors,
				fmt.Sprintf("field %q: min_items (%d) must not exceed max_items (%d)",
					path, *field.MinItems, *field.MaxItems))
		}
		if len(field.Nested) > 0 {
			v.validateSchema(field.Nested, path, result)
		}
	}

	// A required field with a default is contradictory: the default can
	// never be observed. Advisory only.
	if field.Required && field.HasDefault() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("field %q: required field declares a default value that can never apply", path))
	}
}
