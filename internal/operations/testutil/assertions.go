package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcellcli/internal/operations"
)

// AssertStepStatus verifies a step has the expected status
func AssertStepStatus(t *testing.T, result *operations.Result, step string, expected operations.StepStatus) {
	t.Helper()
	require.NotNil(t, result)
	state := result.Step(step)
	require.NotNil(t, state, "step %s not run", step)
	status, msg := state.Snapshot()
	assert.Equal(t, expected, status, "step %s: %s", step, msg)
}

// AssertStepOrder verifies the steps ran in the given order and no others
func AssertStepOrder(t *testing.T, result *operations.Result, steps ...string) {
	t.Helper()
	require.NotNil(t, result)
	names := make([]string, 0, len(result.Steps))
	for _, s := range result.Steps {
		names = append(names, s.Name)
	}
	assert.Equal(t, steps, names)
}
