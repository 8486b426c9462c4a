// Package legacy converts between the current schema model and the
// superseded flat schema representation embedded in package.json.
//
// Migration is one-way: legacy metadata is upgraded to a resource.hcl
// declaration and removed from the manifest. The reverse direction exists
// only to derive the manifest metadata section that pre-migration
// consumers still read; it never feeds back into migration.
package legacy

import (
	"github.com/stencil-tools/stencil/internal/schema"
)

// Metadata is the legacy schema representation: a flat, ordered field
// list plus a separate default-content map. It lives in package.json
// under the "stencil" key.
type Metadata struct {
	// SchemaFields is the ordered list of flat field descriptors
	SchemaFields []Field `json:"schemaFields"`

	// DefaultContent maps field keys to default values
	DefaultContent map[string]any `json:"defaultContent,omitempty"`
}

// Field is one legacy flat field descriptor.
type Field struct {
	Key         string      `json:"key"`
	Type        string      `json:"type"`
	Label       string      `json:"label,omitempty"`
	Required    bool        `json:"required,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	HelpText    string      `json:"helpText,omitempty"`
	Options     []string    `json:"options,omitempty"`
	MinItems    *int        `json:"minItems,omitempty"`
	MaxItems    *int        `json:"maxItems,omitempty"`
	ItemSchema  *ItemSchema `json:"itemSchema,omitempty"`
}

// ItemSchema wraps the nested field list of a legacy repeater field.
type ItemSchema struct {
	Fields []Field `json:"fields"`
}

// typeAliases canonicalizes legacy type names to current ones. The
// mapping is many-to-one, so a round trip cannot recover which alias a
// legacy schema originally used. Unknown names pass through unchanged.
var typeAliases = map[string]string{
	"text":       schema.TypeSingleLine,
	"string":     schema.TypeSingleLine,
	"textarea":   schema.TypeMultiLine,
	"wysiwyg":    schema.TypeRichText,
	"html":       schema.TypeRichText,
	"dropdown":   schema.TypeSelect,
	"checkbox":   schema.TypeBoolean,
	"toggle":     schema.TypeBoolean,
	"int":        schema.TypeNumber,
	"integer":    schema.TypeNumber,
	"img":        schema.TypeImage,
	"url":        schema.TypeLink,
	"repeatable": schema.TypeRepeater,
}

// CanonicalType maps a legacy type name to its current equivalent.
// Names that are not aliases pass through unchanged.
func CanonicalType(legacyType string) string {
	if canonical, ok := typeAliases[legacyType]; ok {
		return canonical
	}
	return legacyType
}

// ToSchema converts legacy metadata to a current schema. Field order is
// preserved, type names are canonicalized, repeater item schemas convert
// recursively, and default content entries merge into their matching
// field's default value. Defaults for keys with no matching field are
// dropped, as are defaults on required fields (they could never be
// observed; the validator warns if one is authored directly).
func ToSchema(meta *Metadata) schema.Schema {
	s := convertFields(meta.SchemaFields)

	for key, value := range meta.DefaultContent {
		field := s.Get(key)
		if field == nil || field.Required {
			continue
		}
		field.Default = value
	}

	return s
}

func convertFields(fields []Field) schema.Schema {
	s := make(schema.Schema, 0, len(fields))

	for _, lf := range fields {
		field := schema.Field{
			Key:         lf.Key,
			Type:        CanonicalType(lf.Type),
			Label:       lf.Label,
			Required:    lf.Required,
			Placeholder: lf.Placeholder,
			HelpText:    lf.HelpText,
		}

		switch field.Type {
		case schema.TypeSelect:
			field.Options = lf.Options
		case schema.TypeRepeater:
			field.MinItems = lf.MinItems
			field.MaxItems = lf.MaxItems
			// An absent item schema still yields a (empty) nested schema;
			// the validator flags it downstream.
			field.Nested = schema.Schema{}
			if lf.ItemSchema != nil {
				field.Nested = convertFields(lf.ItemSchema.Fields)
			}
		}

		s = append(s, field)
	}

	return s
}

// FromSchema flattens a current schema to the legacy field list. Type
// names are carried over unchanged; there is no reverse canonicalization.
func FromSchema(s schema.Schema) []Field {
	fields := make([]Field, 0, len(s))

	for i := range s {
		f := &s[i]
		lf := Field{
			Key:         f.Key,
			Type:        f.Type,
			Label:       f.Label,
			Required:    f.Required,
			Placeholder: f.Placeholder,
			HelpText:    f.HelpText,
		}

		switch f.Type {
		case schema.TypeSelect:
			lf.Options = f.Options
		case schema.TypeRepeater:
			lf.MinItems = f.MinItems
			lf.MaxItems = f.MaxItems
			lf.ItemSchema = &ItemSchema{Fields: FromSchema(f.Nested)}
		}

		fields = append(fields, lf)
	}

	return fields
}

// ExtractDefaultContent builds the legacy default-content map: one entry
// per field with a declared default, plus an empty-list entry for every
// repeater without one. Fields of other types with no default are absent.
func ExtractDefaultContent(s schema.Schema) map[string]any {
	defaults := make(map[string]any)

	for i := range s {
		f := &s[i]
		switch {
		case f.HasDefault():
			defaults[f.Key] = f.Default
		case f.Type == schema.TypeRepeater:
			defaults[f.Key] = []any{}
		}
	}

	return defaults
}

// NewMetadata derives the full legacy metadata section for a schema.
// Build output embeds this in the emitted package.json so consumers that
// predate resource.hcl keep working.
func NewMetadata(s schema.Schema) *Metadata {
	return &Metadata{
		SchemaFields:   FromSchema(s),
		DefaultContent: ExtractDefaultContent(s),
	}
}
