// Package errors provides custom error types for stencil operations.
//
// This package defines domain-specific error types that provide rich
// context for debugging and user-friendly error messages. All error types
// that wrap underlying errors implement the Unwrap method for use with
// errors.Is and errors.As from the standard library.
//
// Error types include:
//   - ConfigError: Configuration file parsing errors with location info
//   - SchemaError: Schema validation failures with the full error list
//   - ValidationError: Resource/manifest validation failures
//   - MigrationRequiredError: Legacy metadata found where current config is required
//   - NotFoundError: Resource not found errors
//   - BuildError, PackError, PublishError, MigrateError: per-resource workflow failures
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError represents an error in configuration parsing.
// It includes file location information to help users identify
// the exact location of the problem.
type ConfigError struct {
	File    string // Path to the config file
	Line    int    // Line number (0 if unknown)
	Column  int    // Column number (0 if unknown)
	Message string // Error description
	Err     error  // Underlying error
}

// Error returns a human-readable error message with file location.
func (e *ConfigError) Error() string {
	var location string
	if e.Line > 0 {
		if e.Column > 0 {
			location = fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
		} else {
			location = fmt.Sprintf("%s:%d", e.File, e.Line)
		}
	} else {
		location = e.File
	}

	if e.Err != nil {
		return fmt.Sprintf("config error at %s: %s: %v", location, e.Message, e.Err)
	}
	return fmt.Sprintf("config error at %s: %s", location, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SchemaError represents a failed schema validation for a resource.
// It carries the full validator error list so every problem surfaces in
// one pass.
type SchemaError struct {
	Resource string   // Resource identifier (e.g., "block/hero-banner")
	Errors   []string // Validator error messages, in traversal order
}

// Error returns a human-readable message including every validation error.
func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid schema for %s:", e.Resource))
	for _, msg := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(msg)
	}
	return sb.String()
}

// ValidationError represents a validation error for a resource or manifest.
type ValidationError struct {
	Resource string // Resource type and name (e.g., "block/hero-banner")
	Field    string // Field that failed validation
	Message  string // Validation error message
}

// Error returns a human-readable error message describing the validation failure.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for %s: field %q: %s", e.Resource, e.Field, e.Message)
	}
	return fmt.Sprintf("validation error for %s: %s", e.Resource, e.Message)
}

// MigrationRequiredError indicates a resource that still uses legacy
// manifest metadata and has no current configuration.
type MigrationRequiredError struct {
	Resource string // Resource identifier
}

// Error returns a human-readable message pointing the user at migrate.
func (e *MigrationRequiredError) Error() string {
	return fmt.Sprintf("%s uses legacy manifest metadata: run 'stencil migrate' to upgrade", e.Resource)
}

// NotFoundError represents a not found error.
// It is used when a requested resource (block, template, file, etc.)
// cannot be found.
type NotFoundError struct {
	What string // What wasn't found (e.g., "block", "template", "file")
	Name string // Name of the thing
}

// Error returns a human-readable error message describing what was not found.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.What, e.Name)
}

// BuildError represents an error while building one resource.
type BuildError struct {
	Resource string // Resource identifier
	Phase    string // Phase: "entry", "bundle", "write", "manifest"
	Err      error  // Underlying error
}

// Error returns a human-readable error message describing the build failure.
func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("build error for %s during %s: %v", e.Resource, e.Phase, e.Err)
	}
	return fmt.Sprintf("build error for %s during %s", e.Resource, e.Phase)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// PackError represents an error while archiving one resource.
type PackError struct {
	Resource string // Resource identifier or directory
	Phase    string // Phase: "read", "archive", "finalize"
	Err      error  // Underlying error
}

// Error returns a human-readable error message describing the packaging failure.
func (e *PackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pack error for %s during %s: %v", e.Resource, e.Phase, e.Err)
	}
	return fmt.Sprintf("pack error for %s during %s", e.Resource, e.Phase)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *PackError) Unwrap() error {
	return e.Err
}

// PublishError represents an error with a publish operation.
type PublishError struct {
	Package  string // Package name (may be empty before parsing)
	Registry string // Registry URL
	Phase    string // Phase: "connect", "validate", "upload", "index"
	Err      error  // Underlying error
}

// Error returns a human-readable error message describing the publish failure.
func (e *PublishError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("publish error for %s to %s during %s: %v", e.Package, e.Registry, e.Phase, e.Err)
	}
	return fmt.Sprintf("publish error to %s during %s: %v", e.Registry, e.Phase, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *PublishError) Unwrap() error {
	return e.Err
}

// MigrateError represents an error while migrating one resource.
type MigrateError struct {
	Resource string // Resource identifier
	Phase    string // Phase: "read", "convert", "generate", "manifest"
	Err      error  // Underlying error
}

// Error returns a human-readable error message describing the migration failure.
func (e *MigrateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("migrate error for %s during %s: %v", e.Resource, e.Phase, e.Err)
	}
	return fmt.Sprintf("migrate error for %s during %s", e.Resource, e.Phase)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *MigrateError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError with the given parameters.
// Use line=0 and col=0 if the location is unknown.
func NewConfigError(file string, line, col int, msg string, err error) *ConfigError {
	return &ConfigError{
		File:    file,
		Line:    line,
		Column:  col,
		Message: msg,
		Err:     err,
	}
}

// NewSchemaError creates a new SchemaError for a resource with the
// validator's accumulated error list.
func NewSchemaError(resource string, errs []string) *SchemaError {
	return &SchemaError{
		Resource: resource,
		Errors:   errs,
	}
}

// NewValidationError creates a new ValidationError with the given parameters.
// Use an empty field string if the error applies to the resource as a whole.
func NewValidationError(resource, field, message string) *ValidationError {
	return &ValidationError{
		Resource: resource,
		Field:    field,
		Message:  message,
	}
}

// NewMigrationRequiredError creates a new MigrationRequiredError.
func NewMigrationRequiredError(resource string) *MigrationRequiredError {
	return &MigrationRequiredError{Resource: resource}
}

// NewNotFoundError creates a new NotFoundError with the given parameters.
// Common values for what: "block", "template", "resource", "file".
func NewNotFoundError(what, name string) *NotFoundError {
	return &NotFoundError{
		What: what,
		Name: name,
	}
}

// NewBuildError creates a new BuildError with the given parameters.
// Common phases are: "entry", "bundle", "write", "manifest".
func NewBuildError(resource, phase string, err error) *BuildError {
	return &BuildError{
		Resource: resource,
		Phase:    phase,
		Err:      err,
	}
}

// NewPackError creates a new PackError with the given parameters.
// Common phases are: "read", "archive", "finalize".
func NewPackError(resource, phase string, err error) *PackError {
	return &PackError{
		Resource: resource,
		Phase:    phase,
		Err:      err,
	}
}

// NewPublishError creates a new PublishError with the given parameters.
// Common phases are: "connect", "validate", "upload", "index".
func NewPublishError(pkg, registry, phase string, err error) *PublishError {
	return &PublishError{
		Package:  pkg,
		Registry: registry,
		Phase:    phase,
		Err:      err,
	}
}

// NewMigrateError creates a new MigrateError with the given parameters.
// Common phases are: "read", "convert", "generate", "manifest".
func NewMigrateError(resource, phase string, err error) *MigrateError {
	return &MigrateError{
		Resource: resource,
		Phase:    phase,
		Err:      err,
	}
}

// Re-export standard library error functions for convenience.
// This allows callers to use errors.Is, errors.As, etc. without
// importing both this package and the standard errors package.
var (
	// Is reports whether any error in err's tree matches target.
	Is = errors.Is
	// As finds the first error in err's tree that matches target.
	As = errors.As
	// New returns an error that formats as the given text.
	New = errors.New
	// Join returns an error that wraps the given errors.
	Join = errors.Join
	// Unwrap returns the result of calling the Unwrap method on err.
	Unwrap = errors.Unwrap
)

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
