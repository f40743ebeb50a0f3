package operations_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowcellcli/internal/operations"
	"flowcellcli/internal/operations/testutil"
	"flowcellcli/internal/plotting"
	"flowcellcli/pkg/contracts/domain"
)

func TestFilePlots(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.FilePlots(context.Background(), f.session(domain.SelectionFiles))
	require.NoError(t, err)

	testutil.AssertStepOrder(t, result, operations.StepSelection, operations.StepLoadSamples, operations.StepPlot)
	require.Len(t, f.renderer.Series, 1)
	assert.Len(t, f.renderer.Series[0], 2)
	assert.Equal(t, "sample1", f.renderer.Series[0][0].Name)
	assert.Equal(t, []string{"sample1", "sample2"}, f.renderer.Snaps)

	assert.Equal(t, []string{
		filepath.Join(f.layout.FiguresDir, plotting.CycleAverageFlowName),
		filepath.Join(f.layout.FiguresDir, plotting.CycleAverageCurrentName),
		filepath.Join(f.layout.FiguresDir, "snapshot sample1.png"),
		filepath.Join(f.layout.FiguresDir, "snapshot sample2.png"),
	}, result.Artifacts)
	assert.Equal(t, 4, result.Rows)
}

func TestFilePlots_RendererFailure(t *testing.T) {
	f := newFixture(t)
	f.renderer.Err = errors.New("no font")

	result, err := f.svc.FilePlots(context.Background(), f.session(domain.SelectionFolder))
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeExecution, operations.GetErrorType(err))
	testutil.AssertStepStatus(t, result, operations.StepPlot, operations.StepStatusFailed)
}
