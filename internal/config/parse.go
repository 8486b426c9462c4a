// Package config provides HCL configuration parsing for stencil resource
// and workspace files. It handles loading resource.hcl (per-resource
// content configuration) and stencil.hcl (workspace configuration) using
// the HashiCorp HCL v2 library, and generates resource.hcl source from a
// schema during migration.
//
// resource.hcl is declarative: it is decoded into plain data and never
// evaluated as code, so discovery can safely read configuration authored
// by anyone.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Parser wraps HCL parsing functionality and provides a reusable parser
// instance.
type Parser struct {
	parser *hclparse.Parser
}

// NewParser creates a new HCL parser instance.
func NewParser() *Parser {
	return &Parser{
		parser: hclparse.NewParser(),
	}
}

// ParseFile parses an HCL file and returns the parsed file and any diagnostics.
func (p *Parser) ParseFile(filename string) (*hcl.File, hcl.Diagnostics) {
	return p.parser.ParseHCLFile(filename)
}

// DecodeBody decodes an HCL body into the target struct using gohcl.
// The ctx parameter provides the evaluation context for expressions,
// and target should be a pointer to the struct to decode into.
func DecodeBody(body hcl.Body, ctx *hcl.EvalContext, target interface{}) hcl.Diagnostics {
	return gohcl.DecodeBody(body, ctx, target)
}

// NewEvalContext creates an HCL evaluation context with built-in functions.
// Currently provides the env() function for reading environment variables.
func NewEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunction(),
		},
	}
}

// NewResourceEvalContext creates an HCL evaluation context for
// resource.hcl files. It includes the env() and file() functions so long
// descriptions and defaults can be kept in separate files.
func NewResourceEvalContext(resourceDir string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env":  envFunction(),
			"file": fileFunction(resourceDir),
		},
	}
}

// fileFunction returns an HCL function that reads file contents.
// Usage in HCL: file("relative/path/to/file.md")
// Paths are resolved relative to the resource directory.
func fileFunction(baseDir string) function.Function {
	return function.New(&function.Spec{
		Description: "Reads the contents of a file relative to the resource directory",
		Params: []function.Parameter{
			{
				Name:        "path",
				Type:        cty.String,
				Description: "The relative path to the file to read",
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			relPath := args[0].AsString()
			fullPath := filepath.Join(baseDir, relPath)

			content, err := os.ReadFile(fullPath)
			if err != nil {
				return cty.StringVal(""), fmt.Errorf("failed to read file %s: %w", relPath, err)
			}

			return cty.StringVal(string(content)), nil
		},
	})
}

// envFunction returns an HCL function that reads environment variables.
// Usage in HCL: env("VAR_NAME") or env("VAR_NAME", "default_value")
// If the variable is not set and no default is provided, returns an
// empty string.
func envFunction() function.Function {
	return function.New(&function.Spec{
		Description: "Reads an environment variable, with an optional default value",
		Params: []function.Parameter{
			{
				Name:        "name",
				Type:        cty.String,
				Description: "The name of the environment variable to read",
			},
		},
		VarParam: &function.Parameter{
			Name:        "default",
			Type:        cty.String,
			Description: "Optional default value if the environment variable is not set",
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			envName := args[0].AsString()
			value := os.Getenv(envName)

			if value == "" && len(args) > 1 {
				value = args[1].AsString()
			}

			return cty.StringVal(value), nil
		},
	})
}
