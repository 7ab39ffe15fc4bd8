package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for dashboard operations.
type ErrorCode string

const (
	// ErrCodeDataAccess indicates a statistics query against the store failed.
	ErrCodeDataAccess ErrorCode = "DATA_ACCESS"
	// ErrCodeAgentOutput indicates an insight agent's output could not be parsed.
	ErrCodeAgentOutput ErrorCode = "AGENT_OUTPUT"
	// ErrCodeGenerationBackend indicates the narrative backend is unreachable or errored.
	ErrCodeGenerationBackend ErrorCode = "GENERATION_BACKEND"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeServiceUnavailable indicates the service is not available.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// DashboardError represents a structured error for dashboard operations.
type DashboardError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *DashboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DashboardError) Unwrap() error {
	return e.Cause
}

// GetCode returns the error code.
func (e *DashboardError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// DataAccess creates a data access error wrapping the failed query's cause.
func DataAccess(msg string, cause error) *DashboardError {
	return &DashboardError{Code: ErrCodeDataAccess, Message: msg, Cause: cause}
}

// AgentOutput creates an agent output parse error.
func AgentOutput(msg string, cause error) *DashboardError {
	return &DashboardError{Code: ErrCodeAgentOutput, Message: msg, Cause: cause}
}

// GenerationBackend creates a narrative backend failure error.
func GenerationBackend(msg string, cause error) *DashboardError {
	return &DashboardError{Code: ErrCodeGenerationBackend, Message: msg, Cause: cause}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *DashboardError {
	return &DashboardError{Code: ErrCodeInvalidArgument, Message: msg}
}

// ServiceUnavailable creates a service unavailable error.
func ServiceUnavailable(msg string) *DashboardError {
	return &DashboardError{Code: ErrCodeServiceUnavailable, Message: msg}
}

// Timeout creates a timeout error.
func Timeout(msg string) *DashboardError {
	return &DashboardError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *DashboardError {
	return &DashboardError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if dErr, ok := err.(*DashboardError); ok {
		return dErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a DashboardError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if dErr, ok := err.(*DashboardError); ok {
		return dErr.Code
	}
	return defaultCode
}
