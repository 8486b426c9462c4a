package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/stencil-tools/stencil/internal/errors"
	"github.com/stencil-tools/stencil/internal/schema"
)

// FileName is the current-format configuration file within a resource
// directory.
const FileName = "resource.hcl"

// Resource kinds, matching the declaration block type in resource.hcl.
const (
	KindBlock    = "block"
	KindTemplate = "template"
)

// Pricing is a resource's licensing descriptor.
type Pricing struct {
	// Model is the licensing model: "free" or "paid"
	Model string

	// Price is the price for paid resources
	Price float64

	// Currency is the ISO currency code for paid resources
	Currency string
}

// DefaultPricing returns the free/unlicensed tier applied when a
// resource declares no pricing block.
func DefaultPricing() Pricing {
	return Pricing{Model: "free"}
}

// ResourceConfig is the declared content contract for one resource,
// decoded from its resource.hcl declaration.
type ResourceConfig struct {
	// Slug is the declaration label (should match the directory name)
	Slug string

	// Name is the display name
	Name string

	// Description is a short description
	Description string

	// LongDescription is optional extended copy
	LongDescription string

	// Category groups resources in pickers
	Category string

	// Tags is the set of search tags
	Tags []string

	// Pricing is the licensing descriptor
	Pricing Pricing

	// Schema is the declared content schema
	Schema schema.Schema
}

// resourceFile is the gohcl shape of a resource.hcl file. A file declares
// exactly one block or template.
type resourceFile struct {
	Blocks    []resourceBlock `hcl:"block,block"`
	Templates []resourceBlock `hcl:"template,block"`
}

type resourceBlock struct {
	Slug            string        `hcl:"slug,label"`
	Name            string        `hcl:"name,optional"`
	Description     string        `hcl:"description,optional"`
	LongDescription string        `hcl:"long_description,optional"`
	Category        string        `hcl:"category,optional"`
	Tags            []string      `hcl:"tags,optional"`
	Pricing         *pricingBlock `hcl:"pricing,block"`
	Fields          []fieldBlock  `hcl:"field,block"`
}

type pricingBlock struct {
	Model    string  `hcl:"model,attr"`
	Price    float64 `hcl:"price,optional"`
	Currency string  `hcl:"currency,optional"`
}

// fieldBlock nests recursively: a repeater field declares its item
// schema as field blocks of its own.
type fieldBlock struct {
	Key         string       `hcl:"key,label"`
	Type        string       `hcl:"type,attr"`
	Label       string       `hcl:"label,optional"`
	Required    bool         `hcl:"required,optional"`
	Placeholder string       `hcl:"placeholder,optional"`
	HelpText    string       `hcl:"help_text,optional"`
	Default     cty.Value    `hcl:"default,optional"`
	Options     []string     `hcl:"options,optional"`
	MinItems    *int         `hcl:"min_items,optional"`
	MaxItems    *int         `hcl:"max_items,optional"`
	Fields      []fieldBlock `hcl:"field,block"`
}

// LoadResource loads resource.hcl from a resource directory. The kind
// selects which declaration block type is expected (block or template).
// The returned error satisfies errors.Is(err, os.ErrNotExist) when no
// configuration file is present.
func LoadResource(dir, kind string) (*ResourceConfig, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	parser := NewParser()
	file, diags := parser.ParseFile(path)
	if diags.HasErrors() {
		return nil, diagError(path, "failed to parse configuration", diags)
	}

	ctx := NewResourceEvalContext(dir)

	var rf resourceFile
	diags = DecodeBody(file.Body, ctx, &rf)
	if diags.HasErrors() {
		return nil, diagError(path, "failed to decode configuration", diags)
	}

	var decls []resourceBlock
	switch kind {
	case KindBlock:
		decls = rf.Blocks
	case KindTemplate:
		decls = rf.Templates
	default:
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}

	if len(decls) == 0 {
		return nil, errors.NewConfigError(path, 0, 0,
			fmt.Sprintf("no %s declaration found", kind), nil)
	}
	if len(decls) > 1 {
		return nil, errors.NewConfigError(path, 0, 0,
			fmt.Sprintf("expected exactly one %s declaration, found %d", kind, len(decls)), nil)
	}

	return newResourceConfig(&decls[0], path)
}

func newResourceConfig(decl *resourceBlock, path string) (*ResourceConfig, error) {
	cfg := &ResourceConfig{
		Slug:            decl.Slug,
		Name:            decl.Name,
		Description:     decl.Description,
		LongDescription: decl.LongDescription,
		Category:        decl.Category,
		Tags:            decl.Tags,
		Pricing:         DefaultPricing(),
	}

	if decl.Pricing != nil {
		cfg.Pricing = Pricing{
			Model:    decl.Pricing.Model,
			Price:    decl.Pricing.Price,
			Currency: decl.Pricing.Currency,
		}
	}

	s, err := newSchema(decl.Fields)
	if err != nil {
		return nil, errors.NewConfigError(path, 0, 0, "invalid field declaration", err)
	}
	cfg.Schema = s

	return cfg, nil
}

func newSchema(fields []fieldBlock) (schema.Schema, error) {
	s := make(schema.Schema, 0, len(fields))

	for _, fb := range fields {
		field := schema.Field{
			Key:         fb.Key,
			Type:        fb.Type,
			Label:       fb.Label,
			Required:    fb.Required,
			Placeholder: fb.Placeholder,
			HelpText:    fb.HelpText,
			Options:     fb.Options,
			MinItems:    fb.MinItems,
			MaxItems:    fb.MaxItems,
		}

		def, err := fromCty(fb.Default)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fb.Key, err)
		}
		field.Default = def

		if fb.Type == schema.TypeRepeater {
			nested, err := newSchema(fb.Fields)
			if err != nil {
				return nil, err
			}
			field.Nested = nested
		}

		s = append(s, field)
	}

	return s, nil
}

// diagError converts HCL diagnostics to a ConfigError carrying the first
// diagnostic's source location.
func diagError(path, message string, diags hcl.Diagnostics) error {
	line, col := 0, 0
	if len(diags) > 0 && diags[0].Subject != nil {
		line = diags[0].Subject.Start.Line
		col = diags[0].Subject.Start.Column
	}
	return errors.NewConfigError(path, line, col, message, fmt.Errorf("%s", diags.Error()))
}
