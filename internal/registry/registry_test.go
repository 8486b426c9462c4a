package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArchiveFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantName    string
		wantVersion string
	}{
		{"hero-1.0.0.tar.gz", "hero", "1.0.0"},
		{"hero-v1.0.0.tar.gz", "hero", "1.0.0"},
		{"hero_1.0.0.tar.gz", "hero", "1.0.0"},
		{"hero-1.0.0.tgz", "hero", "1.0.0"},
		{"pricing-table-2.3.4.tar.gz", "pricing-table", "2.3.4"},
		{"hero-1.0.0-beta.1.tar.gz", "hero", "1.0.0-beta.1"},
		{"hero-1.0.0+build.5.tar.gz", "hero", "1.0.0+build.5"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			info := ParseArchiveFilename(tt.filename)
			require.NotNil(t, info)
			assert.Equal(t, tt.wantName, info.Name)
			assert.Equal(t, tt.wantVersion, info.Version)
		})
	}
}

func TestParseArchiveFilename_Invalid(t *testing.T) {
	for _, filename := range []string{
		"hero.tar.gz",
		"hero-1.0.tar.gz",
		"hero-1.0.0.zip",
		"",
	} {
		assert.Nil(t, ParseArchiveFilename(filename), "filename %q", filename)
	}
}

func TestNamesMatch(t *testing.T) {
	assert.True(t, NamesMatch("hero-banner", "hero_banner"))
	assert.True(t, NamesMatch("Hero-Banner", "hero-banner"))
	assert.True(t, NamesMatch("hero", "HERO"))
	assert.False(t, NamesMatch("hero", "hero-banner"))
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		source       string
		wantProtocol string
		wantPath     string
	}{
		{"file:./registry", "file", "./registry"},
		{"file:///abs/registry", "file", "/abs/registry"},
		{"https://example.com/reg", "https", "https://example.com/reg"},
		{"http://example.com/reg", "http", "http://example.com/reg"},
		{"s3://bucket/prefix", "s3", "bucket/prefix"},
		{"az://account/container", "az", "account/container"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			protocol, path, err := ParseSource(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.wantProtocol, protocol)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestParseSource_Invalid(t *testing.T) {
	_, _, err := ParseSource("")
	require.Error(t, err)

	_, _, err = ParseSource("ftp://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported source URL format")
}
