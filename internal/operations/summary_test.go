package operations_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "flowcellcli/internal/errors"
	"flowcellcli/internal/operations"
	"flowcellcli/internal/operations/testutil"
	"flowcellcli/pkg/contracts/domain"
)

func TestFileSummary_TwoExperiments(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.FileSummary(context.Background(), f.session(domain.SelectionFiles))
	require.NoError(t, err)

	testutil.AssertStepOrder(t, result,
		operations.StepSelection, operations.StepCalculate, operations.StepAggregate, operations.StepExport)
	assert.True(t, result.Succeeded())
	assert.Equal(t, 2, result.Experiments)
	assert.Equal(t, 18, result.Rows)

	path := f.layout.FileSummaryPath("sample2")
	assert.Equal(t, []string{path}, result.Artifacts)

	summary := f.writer.Summaries[path]
	require.Len(t, summary, 3)
	for _, category := range domain.SheetOrder {
		table := summary[category]
		require.Equal(t, 6, table.Len(), category)
		assert.Equal(t, domain.FileColumn, table.Columns[0])
		for i, want := range []string{"sample1", "sample1", "sample1", "sample2", "sample2", "sample2"} {
			got, _ := table.Value(i, domain.FileColumn)
			assert.Equal(t, want, got)
		}
	}

	assert.Equal(t, []string{
		"mean_flow sample1", "eo_flow sample1", "figure_of_merit sample1",
		"mean_flow sample2", "eo_flow sample2", "figure_of_merit sample2",
	}, f.calc.Calls)
}

func TestFolderSummary_WritesFolderWorkbook(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.FolderSummary(context.Background(), f.session(domain.SelectionFolder))
	require.NoError(t, err)
	assert.Equal(t, []string{f.layout.FolderSummaryPath()}, result.Artifacts)
	assert.Contains(t, f.writer.Summaries, f.layout.FolderSummaryPath())
}

func TestSummary_RecomputesEveryRun(t *testing.T) {
	f := newFixture(t)
	sess := f.session(domain.SelectionFolder)

	_, err := f.svc.FolderSummary(context.Background(), sess)
	require.NoError(t, err)
	_, err = f.svc.FolderSummary(context.Background(), sess)
	require.NoError(t, err)

	assert.Len(t, f.calc.Calls, 12)
}

func TestSummary_Failures(t *testing.T) {
	mismatched := testutil.FlowTables(3)
	mismatched[domain.CategoryFlowPower] = domain.NewTable("cycle", "mean flow")

	tests := []struct {
		name     string
		setup    func(f *fixture, sess *testutil.StaticSession)
		ctx      func() context.Context
		kind     domain.SelectionKind
		step     string
		wantType operations.ErrorType
		wantIs   error
	}{
		{
			name:     "no selection",
			setup:    func(_ *fixture, s *testutil.StaticSession) { s.SelErr = apperrors.NewSelectionError("none", apperrors.ErrNoSelection) },
			step:     operations.StepSelection,
			wantType: operations.ErrorTypeValidation,
			wantIs:   apperrors.ErrNoSelection,
		},
		{
			name:     "no output folder",
			setup:    func(_ *fixture, s *testutil.StaticSession) { s.LayoutErr = apperrors.NewSelectionError("none", apperrors.ErrNoOutputFolder) },
			step:     operations.StepSelection,
			wantType: operations.ErrorTypeValidation,
			wantIs:   apperrors.ErrNoOutputFolder,
		},
		{
			name:     "folder selection for file summary",
			kind:     domain.SelectionFolder,
			step:     operations.StepSelection,
			wantType: operations.ErrorTypeValidation,
			wantIs:   apperrors.ErrSelectionKind,
		},
		{
			name: "calculator failure",
			setup: func(f *fixture, _ *testutil.StaticSession) {
				f.calc.Fail = map[string]error{"sample2": apperrors.NewParsingError("bad row", nil)}
			},
			step:     operations.StepCalculate,
			wantType: operations.ErrorTypeValidation,
		},
		{
			name: "column mismatch",
			setup: func(f *fixture, _ *testutil.StaticSession) {
				f.calc.Tables = map[string]domain.MetricSet{"sample2": mismatched}
			},
			step:     operations.StepAggregate,
			wantType: operations.ErrorTypeValidation,
			wantIs:   apperrors.ErrColumnMismatch,
		},
		{
			name: "write failure",
			setup: func(f *fixture, _ *testutil.StaticSession) {
				f.writer.Err = apperrors.NewStorageError("disk full", nil)
			},
			step:     operations.StepExport,
			wantType: operations.ErrorTypeStorage,
		},
		{
			name: "cancelled",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			step:     operations.StepSelection,
			wantType: operations.ErrorTypeCancellation,
			wantIs:   context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			kind := tt.kind
			if kind == "" {
				kind = domain.SelectionFiles
			}
			sess := f.session(kind)
			if tt.setup != nil {
				tt.setup(f, sess)
			}
			ctx := context.Background()
			if tt.ctx != nil {
				ctx = tt.ctx()
			}

			result, err := f.svc.FileSummary(ctx, sess)
			require.Error(t, err)

			var opErr *operations.OperationError
			require.True(t, errors.As(err, &opErr))
			assert.Equal(t, tt.wantType, opErr.Type)
			assert.Equal(t, tt.step, opErr.Step)
			if tt.wantIs != nil {
				assert.True(t, errors.Is(err, tt.wantIs))
			}

			testutil.AssertStepStatus(t, result, tt.step, operations.StepStatusFailed)
			assert.False(t, result.Succeeded())
			assert.Empty(t, f.writer.Summaries)
		})
	}
}

func TestFolderSummary_FilesSelection(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.FolderSummary(context.Background(), f.session(domain.SelectionFiles))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSelectionKind)
	assert.NotErrorIs(t, err, apperrors.ErrNoSelection)
	assert.Contains(t, err.Error(), "needs a folder selection, have files")
	assert.NotContains(t, err.Error(), "no files or folder selected")
}
