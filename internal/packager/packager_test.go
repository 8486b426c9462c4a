package packager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencil-tools/stencil/internal/errors"
	"github.com/stencil-tools/stencil/internal/manifest"
	"github.com/stencil-tools/stencil/internal/scanner"
)

func newResource(t *testing.T, root, name, version string) *scanner.Resource {
	t.Helper()
	dir := filepath.Join(root, "blocks", name)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))

	manContent := `{"name": "` + name + `", "version": "` + version + `"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manContent), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "index.ts"), []byte("export {}"), 0644))

	man, err := manifest.Load(dir)
	require.NoError(t, err)

	return &scanner.Resource{
		Type:     scanner.TypeBlock,
		Name:     name,
		Path:     dir,
		Manifest: man,
	}
}

func TestPackage_Success(t *testing.T) {
	root := t.TempDir()
	outDir := filepath.Join(root, "out")
	resources := []*scanner.Resource{
		newResource(t, root, "hero", "1.2.0"),
		newResource(t, root, "cta", "0.3.1"),
	}

	summary := New(outDir).Package(resources)

	require.Empty(t, summary.Failed)
	require.Len(t, summary.Succeeded, 2)

	assert.Equal(t, filepath.Join(outDir, "hero-1.2.0.tar.gz"), summary.Succeeded[0].Path)
	assert.Equal(t, filepath.Join(outDir, "cta-0.3.1.tar.gz"), summary.Succeeded[1].Path)

	for _, r := range summary.Succeeded {
		info, err := os.Stat(r.Path)
		require.NoError(t, err)
		assert.Equal(t, info.Size(), r.Size)
		assert.Contains(t, r.Integrity, "sha256-")
	}
}

func TestPackage_PartialFailure(t *testing.T) {
	root := t.TempDir()
	outDir := filepath.Join(root, "out")

	good := newResource(t, root, "hero", "1.0.0")
	bad := &scanner.Resource{
		Type: scanner.TypeBlock,
		Name: "broken",
		Path: filepath.Join(root, "blocks", "broken"),
		// No manifest: packaging cannot name the archive.
	}

	summary := New(outDir).Package([]*scanner.Resource{good, bad})

	require.Len(t, summary.Succeeded, 1)
	require.Len(t, summary.Failed, 1)

	// The archive produced before the failure stays on disk.
	_, err := os.Stat(summary.Succeeded[0].Path)
	require.NoError(t, err)

	var packErr *errors.PackError
	require.True(t, errors.As(summary.Failed[0].Err, &packErr))
	assert.Equal(t, "block/broken", packErr.Resource)
	assert.Equal(t, "read", packErr.Phase)
}

func TestPackage_MissingSourceDir(t *testing.T) {
	root := t.TempDir()
	res := newResource(t, root, "hero", "1.0.0")
	require.NoError(t, os.RemoveAll(res.Path))

	summary := New(filepath.Join(root, "out")).Package([]*scanner.Resource{res})

	require.Empty(t, summary.Succeeded)
	require.Len(t, summary.Failed, 1)

	var packErr *errors.PackError
	require.True(t, errors.As(summary.Failed[0].Err, &packErr))
	assert.Equal(t, "archive", packErr.Phase)
}
