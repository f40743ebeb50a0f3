package operations

import (
	"context"
	"errors"
	"fmt"

	apperrors "flowcellcli/internal/errors"
)

// ErrorType represents the type of operation error
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeStorage      ErrorType = "storage"
	ErrorTypeCancellation ErrorType = "cancellation"
)

// OperationError is the failure of one step of an operation
type OperationError struct {
	Type      ErrorType              `json:"type"`
	Operation string                 `json:"operation"`
	Step      string                 `json:"step,omitempty"`
	Message   string                 `json:"message"`
	Cause     error                  `json:"cause,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s/%s: %s", e.Type, e.Operation, e.Step, msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Operation, msg)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(operation, step, message string, cause error) *OperationError {
	return &OperationError{
		Type:      ErrorTypeValidation,
		Operation: operation,
		Step:      step,
		Message:   message,
		Cause:     cause,
	}
}

// NewExecutionError creates a new execution error
func NewExecutionError(operation, step string, cause error) *OperationError {
	return &OperationError{
		Type:      ErrorTypeExecution,
		Operation: operation,
		Step:      step,
		Message:   "step execution failed",
		Cause:     cause,
	}
}

// NewCancellationError creates a new cancellation error
func NewCancellationError(operation, step string, cause error) *OperationError {
	return &OperationError{
		Type:      ErrorTypeCancellation,
		Operation: operation,
		Step:      step,
		Message:   "operation was cancelled",
		Cause:     cause,
	}
}

// WrapStepError classifies err and attaches the operation and step it came
// from. Errors that already are an OperationError are returned unchanged.
func WrapStepError(err error, operation, step string) *OperationError {
	if err == nil {
		return nil
	}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, apperrors.ErrPromptCancelled):
		return NewCancellationError(operation, step, err)
	}

	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeSelection, apperrors.ErrTypeValidation, apperrors.ErrTypeSchema,
		apperrors.ErrTypeParsing, apperrors.ErrTypeConfig:
		return NewValidationError(operation, step, "invalid input", err)
	case apperrors.ErrTypeStorage:
		return &OperationError{
			Type:      ErrorTypeStorage,
			Operation: operation,
			Step:      step,
			Message:   "failed to write artifact",
			Cause:     err,
		}
	}
	return NewExecutionError(operation, step, err)
}

// GetErrorType returns the type of the error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ErrorTypeExecution
}
