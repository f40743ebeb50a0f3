package operations_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "flowcellcli/internal/errors"
	"flowcellcli/internal/operations"
)

func TestWrapStepError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want operations.ErrorType
	}{
		{"selection", apperrors.NewSelectionError("none", apperrors.ErrNoSelection), operations.ErrorTypeValidation},
		{"schema", apperrors.NewSchemaError("columns", apperrors.ErrColumnMismatch), operations.ErrorTypeValidation},
		{"parsing", apperrors.NewParsingError("bad row", nil), operations.ErrorTypeValidation},
		{"storage", apperrors.NewStorageError("disk full", nil), operations.ErrorTypeStorage},
		{"prompt cancelled", apperrors.NewPromptError("eof", apperrors.ErrPromptCancelled), operations.ErrorTypeCancellation},
		{"context", fmt.Errorf("calc: %w", context.Canceled), operations.ErrorTypeCancellation},
		{"plain", errors.New("boom"), operations.ErrorTypeExecution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opErr := operations.WrapStepError(tt.err, operations.OperationBoxplot, operations.StepRender)
			assert.Equal(t, tt.want, opErr.Type)
			assert.Equal(t, operations.StepRender, opErr.Step)
			assert.True(t, errors.Is(opErr, tt.err))
			assert.Equal(t, tt.want, operations.GetErrorType(fmt.Errorf("wrapped: %w", opErr)))
		})
	}
}

func TestWrapStepError_KeepsOperationError(t *testing.T) {
	orig := operations.NewExecutionError(operations.OperationFilePlots, operations.StepPlot, errors.New("x"))
	assert.Same(t, orig, operations.WrapStepError(orig, operations.OperationBoxplot, operations.StepRender))
	assert.Nil(t, operations.WrapStepError(nil, "", ""))
}

func TestOperationError_Error(t *testing.T) {
	err := operations.NewValidationError(operations.OperationFileSummary, operations.StepSelection, "invalid input", errors.New("no files"))
	assert.Equal(t, "[validation] file summary/selection: invalid input: no files", err.Error())

	var nilErr *operations.OperationError
	assert.Equal(t, "unknown operation error", nilErr.Error())
	assert.Equal(t, operations.ErrorType(""), operations.GetErrorType(nil))
}
