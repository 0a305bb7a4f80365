package llm

import (
	"errors"
	"fmt"
)

// Pipeline stages that parse generation output.
const (
	StageIntent     = "intent"
	StageStrategy   = "strategy"
	StageEvaluation = "evaluation"
)

// ParseError indicates generation output that could not be parsed into the
// structure a stage requires. Fatal for the request; there is no retry.
type ParseError struct {
	Stage string // intent, strategy, evaluation
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: failed to parse generation output: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("%s: failed to parse generation output", e.Stage)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is matches any ParseError regardless of stage.
func (e *ParseError) Is(target error) bool {
	var t *ParseError
	return errors.As(target, &t)
}

// ServiceError indicates the generation backend is unreachable or the
// configured model is not available. The message carries remediation
// guidance for the operator.
type ServiceError struct {
	Remediation string
	Cause       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	msg := "generation service unavailable"
	if e.Remediation != "" {
		msg += ": " + e.Remediation
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// IsParseError reports whether err is a stage parse failure.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsServiceError reports whether err is a backend availability failure.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
