// Package scaffold generates the starter files for a new resource:
// resource.hcl, package.json, a source entry point, and a preview page.
package scaffold

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/stencil-tools/stencil/internal/config"
	"github.com/stencil-tools/stencil/internal/manifest"
	"github.com/stencil-tools/stencil/internal/scanner"
	"github.com/stencil-tools/stencil/internal/schema"
)

// Options describes the resource to scaffold.
type Options struct {
	// WorkDir is the workspace root containing the collection directories
	WorkDir string

	// Type selects the collection (block or template)
	Type scanner.ResourceType

	// Name is the resource slug, used as the directory name
	Name string

	// DisplayName is the human-readable name; defaults to Name
	DisplayName string

	// Description is an optional short description
	Description string
}

// Result lists the files that were created.
type Result struct {
	// Dir is the resource directory
	Dir string

	// Files are the created file paths, relative to Dir
	Files []string
}

// Scaffold creates a new resource directory with starter files.
// It refuses to overwrite an existing resource.
func Scaffold(opts Options) (*Result, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("resource name is required")
	}
	if opts.DisplayName == "" {
		opts.DisplayName = opts.Name
	}

	dir := filepath.Join(opts.WorkDir, opts.Type.Collection(), opts.Name)
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%s already exists", dir)
	}

	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create resource directory: %w", err)
	}

	result := &Result{Dir: dir}

	cfg := &config.ResourceConfig{
		Slug:        opts.Name,
		Name:        opts.DisplayName,
		Description: opts.Description,
		Pricing:     config.DefaultPricing(),
		Schema:      starterSchema(),
	}

	src, err := config.Generate(string(opts.Type), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", config.FileName, err)
	}
	if err := writeFile(result, dir, config.FileName, src); err != nil {
		return nil, err
	}

	man := manifest.New(opts.Name, "0.1.0", opts.Description)
	if err := man.SaveTo(filepath.Join(dir, manifest.Filename)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", manifest.Filename, err)
	}
	result.Files = append(result.Files, manifest.Filename)

	data := templateData{
		Name:        opts.Name,
		DisplayName: opts.DisplayName,
		Description: opts.Description,
	}

	entry, err := render(entryPointTemplate, data)
	if err != nil {
		return nil, err
	}
	if err := writeFile(result, dir, filepath.Join("src", "index.ts"), entry); err != nil {
		return nil, err
	}

	preview, err := render(previewTemplate, data)
	if err != nil {
		return nil, err
	}
	if err := writeFile(result, dir, scanner.PreviewFileName, preview); err != nil {
		return nil, err
	}

	return result, nil
}

// starterSchema returns the default schema for a new resource.
func starterSchema() schema.Schema {
	return schema.Schema{
		{
			Key:      "title",
			Type:     schema.TypeSingleLine,
			Label:    "Title",
			Required: true,
		},
	}
}

type templateData struct {
	Name        string
	DisplayName string
	Description string
}

func render(tmpl string, data templateData) ([]byte, error) {
	t, err := template.New("scaffold").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return buf.Bytes(), nil
}

func writeFile(result *Result, dir, name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	result.Files = append(result.Files, name)
	return nil
}

const entryPointTemplate = `// {{ .DisplayName }}
{{- if .Description }}
// {{ .Description }}
{{- end }}

export interface Content {
  title: string;
}

export function render(content: Content): string {
  return ` + "`<div class=\"{{ .Name }}\"><h2>${content.title}</h2></div>`" + `;
}
`

const previewTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ .DisplayName }}</title>
</head>
<body>
  <div id="preview" class="{{ .Name }}">
    <h2>{{ .DisplayName }}</h2>
{{- if .Description }}
    <p>{{ .Description }}</p>
{{- end }}
  </div>
</body>
</html>
`
