package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junioryono/advice"
)

// AssertPhases checks the exact sequence of hook phases.
func AssertPhases(t *testing.T, hooks *RecordingHooks, expected ...advice.Phase) {
	t.Helper()
	assert.Equal(t, expected, hooks.Phases())
}

// AssertPanicsWithError checks that f panics with an error matching expected.
func AssertPanicsWithError(t *testing.T, expected error, f func(), msgAndArgs ...interface{}) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			assert.Fail(t, "function did not panic", msgAndArgs...)
			return
		}

		err, ok := r.(error)
		if !ok {
			assert.Fail(t, "panic value is not an error", msgAndArgs...)
			return
		}

		assert.ErrorIs(t, err, expected, msgAndArgs...)
	}()
	f()
}

// AssertErrorType checks if an error is of a specific type
func AssertErrorType[T error](t *testing.T, err error, msgAndArgs ...interface{}) T {
	t.Helper()
	var target T
	assert.ErrorAs(t, err, &target, msgAndArgs...)
	return target
}

// AssertConfigurationError checks that err is a binding configuration error wrapping cause.
func AssertConfigurationError(t *testing.T, err error, cause error) {
	t.Helper()
	assert.Error(t, err)
	assert.True(t, advice.IsConfigurationError(err), "expected configuration error, got: %v", err)
	assert.ErrorIs(t, err, cause)
}
