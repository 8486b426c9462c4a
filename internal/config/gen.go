package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/stencil-tools/stencil/internal/schema"
)

// Generate renders a ResourceConfig as resource.hcl source. The output
// is the canonical declaration style for the given kind ("block" or
// "template"): one declaration block labelled by slug, one field block
// per schema field in declaration order, repeater item schemas nested
// recursively. The result is formatted, escaped, human-editable HCL.
func Generate(kind string, cfg *ResourceConfig) ([]byte, error) {
	if kind != KindBlock && kind != KindTemplate {
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}

	f := hclwrite.NewEmptyFile()
	decl := f.Body().AppendNewBlock(kind, []string{cfg.Slug})
	body := decl.Body()

	if cfg.Name != "" {
		body.SetAttributeValue("name", cty.StringVal(cfg.Name))
	}
	if cfg.Description != "" {
		body.SetAttributeValue("description", cty.StringVal(cfg.Description))
	}
	if cfg.LongDescription != "" {
		body.SetAttributeValue("long_description", cty.StringVal(cfg.LongDescription))
	}
	if cfg.Category != "" {
		body.SetAttributeValue("category", cty.StringVal(cfg.Category))
	}
	if len(cfg.Tags) > 0 {
		body.SetAttributeValue("tags", stringTuple(cfg.Tags))
	}

	if cfg.Pricing != DefaultPricing() && cfg.Pricing.Model != "" {
		pricing := body.AppendNewBlock("pricing", nil).Body()
		pricing.SetAttributeValue("model", cty.StringVal(cfg.Pricing.Model))
		if cfg.Pricing.Price != 0 {
			pricing.SetAttributeValue("price", cty.NumberFloatVal(cfg.Pricing.Price))
		}
		if cfg.Pricing.Currency != "" {
			pricing.SetAttributeValue("currency", cty.StringVal(cfg.Pricing.Currency))
		}
	}

	if err := appendFields(body, cfg.Schema); err != nil {
		return nil, err
	}

	return f.Bytes(), nil
}

func appendFields(body *hclwrite.Body, s schema.Schema) error {
	for i := range s {
		field := &s[i]

		body.AppendNewline()
		fb := body.AppendNewBlock("field", []string{field.Key}).Body()

		fb.SetAttributeValue("type", cty.StringVal(field.Type))
		if field.Label != "" {
			fb.SetAttributeValue("label", cty.StringVal(field.Label))
		}
		if field.Required {
			fb.SetAttributeValue("required", cty.True)
		}
		if field.Placeholder != "" {
			fb.SetAttributeValue("placeholder", cty.StringVal(field.Placeholder))
		}
		if field.HelpText != "" {
			fb.SetAttributeValue("help_text", cty.StringVal(field.HelpText))
		}
		if field.HasDefault() {
			value, err := toCty(field.Default)
			if err != nil {
				return fmt.Errorf("field %q: %w", field.Key, err)
			}
			fb.SetAttributeValue("default", value)
		}

		switch field.Type {
		case schema.TypeSelect:
			if len(field.Options) > 0 {
				fb.SetAttributeValue("options", stringTuple(field.Options))
			}
		case schema.TypeRepeater:
			if field.MinItems != nil {
				fb.SetAttributeValue("min_items", cty.NumberIntVal(int64(*field.MinItems)))
			}
			if field.MaxItems != nil {
				fb.SetAttributeValue("max_items", cty.NumberIntVal(int64(*field.MaxItems)))
			}
			if err := appendFields(fb, field.Nested); err != nil {
				return err
			}
		}
	}

	return nil
}

func stringTuple(values []string) cty.Value {
	if len(values) == 0 {
		return cty.EmptyTupleVal
	}
	items := make([]cty.Value, 0, len(values))
	for _, s := range values {
		items = append(items, cty.StringVal(s))
	}
	return cty.TupleVal(items)
}
