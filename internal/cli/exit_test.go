package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExitCode(t *testing.T) {
	assert.Equal(t, ExitError, mapExitCode(fmt.Errorf("plain failure")))
	assert.Equal(t, ExitPartial, mapExitCode(partialErr(2, 1)))
	assert.Equal(t, ExitPartial, mapExitCode(fmt.Errorf("wrapped: %w", partialErr(1, 1))))
}

func TestPartialErr_Message(t *testing.T) {
	err := partialErr(3, 2)
	assert.Equal(t, "2 of 5 resources failed", err.Error())
}
