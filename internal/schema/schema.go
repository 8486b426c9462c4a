// Package schema defines the content schema model for stencil resources.
// A schema declares the editable content fields of a block or template:
// a flat, ordered list of fields whose repeater entries nest a schema of
// their own.
package schema

// Field type identifiers understood by the default vocabulary.
const (
	TypeSingleLine  = "singleLine"
	TypeMultiLine   = "multiLine"
	TypeRichText    = "richText"
	TypeNumber      = "number"
	TypeBoolean     = "boolean"
	TypeSelect      = "select"
	TypeMultiSelect = "multiSelect"
	TypeImage       = "image"
	TypeLink        = "link"
	TypeColor       = "color"
	TypeDate        = "date"
	TypeRepeater    = "repeater"
)

// Field is one entry in a schema. The Type discriminant decides which of
// the kind-specific attributes are meaningful: Options applies to select
// fields only, Nested/MinItems/MaxItems to repeater fields only.
type Field struct {
	// Key is the content key, unique within its schema
	Key string

	// Type is the field type discriminant (see the vocabulary)
	Type string

	// Label is the human-readable editor label
	Label string

	// Required marks the field as mandatory in the editor
	Required bool

	// Placeholder is optional editor placeholder text
	Placeholder string

	// HelpText is optional editor help text
	HelpText string

	// Default is the optional default content value
	Default any

	// Options lists the selectable values for select fields
	Options []string

	// MinItems is the optional lower bound for repeater items
	MinItems *int

	// MaxItems is the optional upper bound for repeater items
	MaxItems *int

	// Nested is the item schema for repeater fields
	Nested Schema
}

// HasDefault reports whether the field declares a default value.
func (f *Field) HasDefault() bool {
	return f.Default != nil
}

// Schema is an ordered list of fields. Declaration order is preserved so
// validation output and generated configuration are deterministic.
type Schema []Field

// Get returns the field with the given key, or nil if absent.
func (s Schema) Get(key string) *Field {
	for i := range s {
		if s[i].Key == key {
			return &s[i]
		}
	}
	return nil
}

// Keys returns the field keys in declaration order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for i := range s {
		keys = append(keys, s[i].Key)
	}
	return keys
}
