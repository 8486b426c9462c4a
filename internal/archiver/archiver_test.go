package archiver

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readArchive returns a map of entry name to content for regular files
// in a tar.gz archive.
func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gzr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gzr.Close()

	entries := make(map[string]string)
	tr := tar.NewReader(gzr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		if header.Typeflag == tar.TypeReg {
			data, err := io.ReadAll(tr)
			require.NoError(t, err)
			entries[header.Name] = string(data)
		} else {
			entries[header.Name] = ""
		}
	}
	return entries
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestArchive_AddDirectory(t *testing.T) {
	srcDir := t.TempDir()
	writeTree(t, srcDir, map[string]string{
		"package.json":   `{"name": "hero"}`,
		"src/index.ts":   "export {}",
		"preview.html":   "<h1>Hero</h1>",
		".git/config":    "should be excluded",
		".env":           "SECRET=1",
		"debug.swp":      "swap file",
		"node_modules/x": "dep",
	})

	outPath := filepath.Join(t.TempDir(), "hero-1.0.0.tar.gz")
	arch, err := Create(outPath)
	require.NoError(t, err)

	require.NoError(t, arch.AddDirectory(srcDir, "hero-1.0.0"))
	size, err := arch.Finalize()
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	entries := readArchive(t, outPath)

	assert.Contains(t, entries, "hero-1.0.0/package.json")
	assert.Contains(t, entries, "hero-1.0.0/src/index.ts")
	assert.Contains(t, entries, "hero-1.0.0/preview.html")
	assert.Equal(t, "export {}", entries["hero-1.0.0/src/index.ts"])

	for name := range entries {
		assert.NotContains(t, name, ".git")
		assert.NotContains(t, name, ".env")
		assert.NotContains(t, name, "node_modules")
		assert.NotContains(t, name, ".swp")
		// Everything lives under the single top-level directory.
		assert.True(t, strings.HasPrefix(name, "hero-1.0.0/"), "entry %s", name)
	}
}

func TestArchive_Integrity(t *testing.T) {
	srcDir := t.TempDir()
	writeTree(t, srcDir, map[string]string{"file.txt": "content"})

	outPath := filepath.Join(t.TempDir(), "pkg-1.0.0.tar.gz")
	arch, err := Create(outPath)
	require.NoError(t, err)
	require.NoError(t, arch.AddDirectory(srcDir, "pkg-1.0.0"))
	_, err = arch.Finalize()
	require.NoError(t, err)

	integrity := arch.Integrity()
	assert.True(t, strings.HasPrefix(integrity, "sha256-"))
	// sha256 hex digest is 64 characters
	assert.Len(t, integrity, len("sha256-")+64)
}

func TestArchive_AddFile(t *testing.T) {
	srcDir := t.TempDir()
	writeTree(t, srcDir, map[string]string{"extra.txt": "extra"})

	outPath := filepath.Join(t.TempDir(), "pkg-1.0.0.tar.gz")
	arch, err := Create(outPath)
	require.NoError(t, err)
	require.NoError(t, arch.AddFile(filepath.Join(srcDir, "extra.txt"), "pkg-1.0.0/extra.txt"))
	_, err = arch.Finalize()
	require.NoError(t, err)

	entries := readArchive(t, outPath)
	assert.Equal(t, "extra", entries["pkg-1.0.0/extra.txt"])
}

func TestArchive_Abort(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "pkg-1.0.0.tar.gz")
	arch, err := Create(outPath)
	require.NoError(t, err)

	arch.Abort()

	_, err = os.Stat(outPath)
	assert.True(t, os.IsNotExist(err))
}

func TestArchive_DoubleFinalize(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "pkg-1.0.0.tar.gz")
	arch, err := Create(outPath)
	require.NoError(t, err)

	_, err = arch.Finalize()
	require.NoError(t, err)

	_, err = arch.Finalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already finalized")
}

func TestShouldExclude(t *testing.T) {
	arch := &Archive{excludes: DefaultExcludes}

	tests := []struct {
		path string
		want bool
	}{
		{"src/index.ts", false},
		{".git", true},
		{"nested/.git/config", true},
		{"node_modules", true},
		{"src/node_modules/pkg/file.js", true},
		{"main.pyc", true},
		{"src/main.pyc", true},
		{"dist", true},
		{"README.md", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, arch.shouldExclude(tt.path), "shouldExclude(%q)", tt.path)
	}
}
