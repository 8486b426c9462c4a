package cli

import (
	"errors"
	"fmt"
)

// Process exit codes. Partial is distinct so batch callers can tell
// "some resources failed" from a hard failure.
const (
	ExitOK      = 0
	ExitError   = 1
	ExitPartial = 3
)

// exitCodeError wraps an error with an explicit process exit code.
type exitCodeError struct {
	code int
	err  error
}

func newExitCodeError(code int, err error) *exitCodeError {
	return &exitCodeError{code: code, err: err}
}

func (e *exitCodeError) Error() string {
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}

// mapExitCode resolves an error to its process exit code.
func mapExitCode(err error) int {
	var codeErr *exitCodeError
	if errors.As(err, &codeErr) {
		return codeErr.code
	}
	return ExitError
}

// partialErr builds the batch result error for a run where some
// resources succeeded and some failed.
func partialErr(succeeded, failed int) error {
	return newExitCodeError(ExitPartial,
		fmt.Errorf("%d of %d resources failed", failed, succeeded+failed))
}
