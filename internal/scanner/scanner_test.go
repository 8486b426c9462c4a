package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencil-tools/stencil/internal/errors"
)

const validConfig = `
block "hero" {
  name        = "Hero Banner"
  description = "A full-width hero"
  category    = "headers"

  field "title" {
    type     = "singleLine"
    required = true
  }
}
`

const validManifest = `{
  "name": "hero",
  "version": "1.2.0",
  "description": "A hero banner"
}`

// writeResource creates a resource directory with the given files under a
// collection of the workspace root.
func writeResource(t *testing.T, root, collection, name string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(root, collection, name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	for fname, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fname), []byte(content), 0644))
	}
	return dir
}

// silentScanner collects warnings instead of printing them.
func silentScanner(opts Options) (*Scanner, *[]string) {
	var warnings []string
	s := New(opts).WithWarnf(func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	})
	return s, &warnings
}

func TestScan_DiscoversResources(t *testing.T) {
	root := t.TempDir()
	writeResource(t, root, "blocks", "hero", map[string]string{
		"resource.hcl": validConfig,
		"package.json": validManifest,
	})
	writeResource(t, root, "templates", "landing", map[string]string{
		"resource.hcl": `template "landing" { name = "Landing Page" }`,
		"package.json": `{"name": "landing", "version": "0.1.0"}`,
	})

	s, _ := silentScanner(DefaultOptions(root))
	resources, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, resources, 2)

	// Blocks always come before templates.
	assert.Equal(t, "block/hero", resources[0].ID())
	assert.Equal(t, "Hero Banner", resources[0].DisplayName)
	assert.Equal(t, "A full-width hero", resources[0].Description)
	assert.Equal(t, "headers", resources[0].Category)
	require.NotNil(t, resources[0].Manifest)
	assert.Equal(t, "1.2.0", resources[0].Manifest.Version)

	assert.Equal(t, "template/landing", resources[1].ID())
	assert.Equal(t, "Landing Page", resources[1].DisplayName)
}

func TestScan_EmptyWorkspace(t *testing.T) {
	s, warnings := silentScanner(DefaultOptions(t.TempDir()))
	resources, err := s.Scan()
	require.NoError(t, err)
	assert.Empty(t, resources)
	assert.Empty(t, *warnings)
}

func TestScan_IgnoresPlainFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blocks"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocks", "README.md"), []byte("docs"), 0644))

	s, _ := silentScanner(DefaultOptions(root))
	resources, err := s.Scan()
	require.NoError(t, err)
	assert.Empty(t, resources)
}

func TestScan_StrictInvalidManifest(t *testing.T) {
	root := t.TempDir()
	writeResource(t, root, "blocks", "hero", map[string]string{
		"resource.hcl": validConfig,
		"package.json": `{"name": "hero"}`,
	})

	opts := DefaultOptions(root)
	opts.Strict = true
	s, _ := silentScanner(opts)

	_, err := s.Scan()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version is required")
}

func TestScan_LenientSkipsInvalidManifest(t *testing.T) {
	root := t.TempDir()
	writeResource(t, root, "blocks", "hero", map[string]string{
		"resource.hcl": validConfig,
		"package.json": `{"name": "hero"}`,
	})
	writeResource(t, root, "blocks", "ok", map[string]string{
		"resource.hcl": `block "ok" {}`,
		"package.json": `{"name": "ok", "version": "1.0.0"}`,
	})

	s, warnings := silentScanner(DefaultOptions(root))
	resources, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "block/ok", resources[0].ID())
	require.Len(t, *warnings, 1)
	assert.Contains(t, (*warnings)[0], "skipping")
}

func TestScan_StrictInvalidSchema(t *testing.T) {
	root := t.TempDir()
	writeResource(t, root, "blocks", "hero", map[string]string{
		"resource.hcl": `
block "hero" {
  field "title" {
    type = "bogus"
  }
}
`,
		"package.json": validManifest,
	})

	opts := DefaultOptions(root)
	opts.Strict = true
	s, _ := silentScanner(opts)

	_, err := s.Scan()
	require.Error(t, err)

	var schemaErr *errors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "block/hero", schemaErr.Resource)
	require.Len(t, schemaErr.Errors, 1)
	assert.Contains(t, schemaErr.Errors[0], `invalid type "bogus"`)
}

func TestScan_LegacyMetadataStrict(t *testing.T) {
	root := t.TempDir()
	writeResource(t, root, "blocks", "old-hero", map[string]string{
		"package.json": `{
  "name": "old-hero",
  "version": "0.9.0",
  "stencil": {
    "schemaFields": [{"key": "title", "type": "text"}]
  }
}`,
	})

	opts := DefaultOptions(root)
	opts.Strict = true
	s, _ := silentScanner(opts)

	_, err := s.Scan()
	require.Error(t, err)

	var migErr *errors.MigrationRequiredError
	require.True(t, errors.As(err, &migErr))
	assert.Equal(t, "block/old-hero", migErr.Resource)
	assert.Contains(t, err.Error(), "stencil migrate")
}

func TestScan_LegacyMetadataLenient(t *testing.T) {
	root := t.TempDir()
	writeResource(t, root, "blocks", "old-hero", map[string]string{
		"package.json": `{
  "name": "old-hero",
  "version": "0.9.0",
  "stencil": {
    "schemaFields": [{"key": "title", "type": "text"}]
  }
}`,
	})

	s, warnings := silentScanner(DefaultOptions(root))
	resources, err := s.Scan()

	// No record and no error: the resource is skipped with a warning
	// telling the user to migrate.
	require.NoError(t, err)
	assert.Empty(t, resources)
	require.Len(t, *warnings, 1)
	assert.Contains(t, (*warnings)[0], "migrate")
}

func TestScan_UnconfiguredWithoutLegacy(t *testing.T) {
	root := t.TempDir()
	writeResource(t, root, "blocks", "stray", map[string]string{
		"package.json": `{"name": "stray", "version": "1.0.0"}`,
	})

	// Never fatal, even in strict mode.
	opts := DefaultOptions(root)
	opts.Strict = true
	s, warnings := silentScanner(opts)

	resources, err := s.Scan()
	require.NoError(t, err)
	assert.Empty(t, resources)
	require.Len(t, *warnings, 1)
	assert.Contains(t, (*warnings)[0], "no resource.hcl found")
}

func TestScan_ManifestOnlyMode(t *testing.T) {
	root := t.TempDir()
	writeResource(t, root, "blocks", "hero", map[string]string{
		"package.json": validManifest,
	})

	// With config loading off, a directory with only a manifest is a
	// valid resource.
	opts := Options{
		WorkDir:            root,
		LoadConfig:         false,
		RequirePackageJSON: true,
	}
	s, _ := silentScanner(opts)

	resources, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Nil(t, resources[0].Config)
	assert.Equal(t, "hero", resources[0].DisplayName)
	assert.Equal(t, "A hero banner", resources[0].Description)
}

func TestScan_LoadPreview(t *testing.T) {
	root := t.TempDir()
	writeResource(t, root, "blocks", "hero", map[string]string{
		"resource.hcl": validConfig,
		"package.json": validManifest,
		"preview.html": "<h1>Hero</h1>",
	})

	opts := DefaultOptions(root)
	opts.LoadPreview = true
	s, _ := silentScanner(opts)

	resources, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "<h1>Hero</h1>", resources[0].Preview)
}

func TestSelect(t *testing.T) {
	hero := &Resource{Type: TypeBlock, Name: "hero"}
	pricing := &Resource{Type: TypeBlock, Name: "pricing-table"}
	landing := &Resource{Type: TypeTemplate, Name: "landing"}
	all := []*Resource{hero, pricing, landing}

	selected, err := Select(all, []string{"landing", "hero"})
	require.NoError(t, err)
	// Requested order, not discovery order.
	require.Len(t, selected, 2)
	assert.Same(t, landing, selected[0])
	assert.Same(t, hero, selected[1])
}

func TestSelect_NormalizedMatching(t *testing.T) {
	all := []*Resource{{Type: TypeBlock, Name: "pricing-table"}}

	selected, err := Select(all, []string{"Pricing_Table"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "pricing-table", selected[0].Name)
}

func TestSelect_UnknownNameFailsFast(t *testing.T) {
	all := []*Resource{
		{Type: TypeBlock, Name: "hero"},
	}

	selected, err := Select(all, []string{"hero", "nope"})
	require.Error(t, err)
	assert.Nil(t, selected)

	var nf *errors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nope", nf.Name)
}
