package errors

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError_Locations(t *testing.T) {
	e := NewConfigError("resource.hcl", 3, 7, "failed to parse", nil)
	assert.Equal(t, "config error at resource.hcl:3:7: failed to parse", e.Error())

	e = NewConfigError("resource.hcl", 3, 0, "failed to parse", nil)
	assert.Equal(t, "config error at resource.hcl:3: failed to parse", e.Error())

	e = NewConfigError("resource.hcl", 0, 0, "failed to parse", nil)
	assert.Equal(t, "config error at resource.hcl: failed to parse", e.Error())
}

func TestConfigError_Unwrap(t *testing.T) {
	e := NewConfigError("resource.hcl", 0, 0, "read failed", os.ErrNotExist)
	assert.True(t, Is(e, os.ErrNotExist))
}

func TestSchemaError_ListsEveryProblem(t *testing.T) {
	e := NewSchemaError("block/hero", []string{
		`field "title": invalid type "bogus"`,
		`field "theme": select field must declare at least one option`,
	})

	msg := e.Error()
	assert.Contains(t, msg, "invalid schema for block/hero:")
	assert.Contains(t, msg, `  - field "title"`)
	assert.Contains(t, msg, `  - field "theme"`)
}

func TestValidationError(t *testing.T) {
	e := NewValidationError("block/hero", "version", "manifest version is required")
	assert.Equal(t, `validation error for block/hero: field "version": manifest version is required`, e.Error())

	e = NewValidationError("block/hero", "", "missing package.json")
	assert.Equal(t, "validation error for block/hero: missing package.json", e.Error())
}

func TestMigrationRequiredError(t *testing.T) {
	e := NewMigrationRequiredError("block/old-hero")
	assert.Contains(t, e.Error(), "block/old-hero uses legacy manifest metadata")
	assert.Contains(t, e.Error(), "stencil migrate")
}

func TestWorkflowErrors_UnwrapChain(t *testing.T) {
	cause := New("disk full")

	var buildErr *BuildError
	err := Wrap(NewBuildError("block/hero", "write", cause), "build batch")
	require.True(t, As(err, &buildErr))
	assert.Equal(t, "write", buildErr.Phase)
	assert.True(t, Is(err, cause))

	var packErr *PackError
	require.True(t, As(NewPackError("block/hero", "finalize", cause), &packErr))
	assert.True(t, Is(packErr, cause))

	var pubErr *PublishError
	require.True(t, As(NewPublishError("hero", "s3://b", "upload", cause), &pubErr))
	assert.Contains(t, pubErr.Error(), "publish error for hero to s3://b during upload")
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
}
