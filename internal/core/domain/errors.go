package domain

import (
	"errors"
	"fmt"
)

// Domain errors - used across all layers
var (
	// ErrInvalidInput indicates empty or unsupported input, rejected before
	// any stage runs
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable indicates an embedding/NER backend is missing
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrReasoningProvider indicates the external reasoning call failed;
	// always recoverable via the fallback template
	ErrReasoningProvider = errors.New("reasoning provider error")

	// ErrReportWrite indicates a report artifact could not be written;
	// always fatal
	ErrReportWrite = errors.New("report write error")

	// ErrUnsupportedFile indicates the text extractor cannot handle a file
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")
)

// Error kinds of the uniform failure contract.
const (
	KindInvalidInput        = "invalid_input"
	KindProviderUnavailable = "provider_unavailable"
	KindReasoningProvider   = "reasoning_provider"
	KindReportWrite         = "report_write"
	KindPipelineStage       = "pipeline_stage"
)

// ErrorKind maps an error to the uniform error_kind string.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedFile):
		return KindInvalidInput
	case errors.Is(err, ErrProviderUnavailable):
		return KindProviderUnavailable
	case errors.Is(err, ErrReasoningProvider):
		return KindReasoningProvider
	case errors.Is(err, ErrReportWrite):
		return KindReportWrite
	default:
		return KindPipelineStage
	}
}

// StageError tags a fatal failure with the stage it occurred in and the
// run's correlation id. It is the only error shape the orchestrator returns.
type StageError struct {
	Stage         Stage
	CorrelationID string
	Err           error
}

// NewStageError wraps err with stage and correlation metadata.
func NewStageError(stage Stage, correlationID string, err error) *StageError {
	return &StageError{Stage: stage, CorrelationID: correlationID, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Kind returns the uniform error_kind for the wrapped cause.
func (e *StageError) Kind() string {
	return ErrorKind(e.Err)
}
