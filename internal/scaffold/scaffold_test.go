package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencil-tools/stencil/internal/config"
	"github.com/stencil-tools/stencil/internal/manifest"
	"github.com/stencil-tools/stencil/internal/scanner"
	"github.com/stencil-tools/stencil/internal/schema"
)

func TestScaffold_Block(t *testing.T) {
	root := t.TempDir()

	result, err := Scaffold(Options{
		WorkDir:     root,
		Type:        scanner.TypeBlock,
		Name:        "hero",
		DisplayName: "Hero Banner",
		Description: "A full-width hero",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "blocks", "hero"), result.Dir)

	// The generated configuration loads and validates.
	cfg, err := config.LoadResource(result.Dir, config.KindBlock)
	require.NoError(t, err)
	assert.Equal(t, "hero", cfg.Slug)
	assert.Equal(t, "Hero Banner", cfg.Name)
	assert.Equal(t, "A full-width hero", cfg.Description)
	require.Len(t, cfg.Schema, 1)
	assert.Equal(t, schema.TypeSingleLine, cfg.Schema[0].Type)
	assert.True(t, cfg.Schema[0].Required)

	// The manifest is valid out of the box.
	man, err := manifest.Load(result.Dir)
	require.NoError(t, err)
	require.NoError(t, man.Validate())
	assert.Equal(t, "hero", man.Name)
	assert.Equal(t, "0.1.0", man.Version)

	// Entry point and preview exist.
	_, err = os.Stat(filepath.Join(result.Dir, "src", "index.ts"))
	require.NoError(t, err)
	preview, err := os.ReadFile(filepath.Join(result.Dir, scanner.PreviewFileName))
	require.NoError(t, err)
	assert.Contains(t, string(preview), "Hero Banner")
}

func TestScaffold_Template(t *testing.T) {
	root := t.TempDir()

	result, err := Scaffold(Options{
		WorkDir: root,
		Type:    scanner.TypeTemplate,
		Name:    "landing",
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "templates", "landing"), result.Dir)

	cfg, err := config.LoadResource(result.Dir, config.KindTemplate)
	require.NoError(t, err)
	// Display name defaults to the slug.
	assert.Equal(t, "landing", cfg.Name)
}

func TestScaffold_DiscoverableByScanner(t *testing.T) {
	root := t.TempDir()

	_, err := Scaffold(Options{WorkDir: root, Type: scanner.TypeBlock, Name: "hero"})
	require.NoError(t, err)

	opts := scanner.DefaultOptions(root)
	opts.Strict = true
	resources, err := scanner.New(opts).Scan()
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "block/hero", resources[0].ID())
}

func TestScaffold_RefusesExisting(t *testing.T) {
	root := t.TempDir()

	_, err := Scaffold(Options{WorkDir: root, Type: scanner.TypeBlock, Name: "hero"})
	require.NoError(t, err)

	_, err = Scaffold(Options{WorkDir: root, Type: scanner.TypeBlock, Name: "hero"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestScaffold_RequiresName(t *testing.T) {
	_, err := Scaffold(Options{WorkDir: t.TempDir(), Type: scanner.TypeBlock})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}
