package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// BackendUnavailable indicates the remote backend is not reachable
	BackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
	// QuerySkipped indicates a coalesced query was superseded before running
	QuerySkipped ErrorCode = "QUERY_SKIPPED"
	// ResolutionFailed indicates content resolution failed for one item
	ResolutionFailed ErrorCode = "RESOLUTION_FAILED"
	// ProviderUnconfigured indicates no mention/annotation provider is set up
	ProviderUnconfigured ErrorCode = "PROVIDER_UNCONFIGURED"
	// MentionMetadataMissing indicates a provider item lacks mention metadata
	MentionMetadataMissing ErrorCode = "MENTION_METADATA_MISSING"
	// FileTooLarge indicates a file exceeds the eligibility byte ceiling
	FileTooLarge ErrorCode = "FILE_TOO_LARGE"
	// NotRegularFile indicates the referenced resource is not a plain file
	NotRegularFile ErrorCode = "NOT_REGULAR_FILE"
	// Timeout indicates an operation timed out
	Timeout ErrorCode = "TIMEOUT"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrSkipped is the sentinel returned by the debouncer when a pending call
// is abandoned without executing (for example on shutdown). Callers map it
// to an empty result, never to a failure.
var ErrSkipped = &CodyError{Code: QuerySkipped, Message: "query skipped"}

// CodyError represents a retrieval-engine error with a stable code
type CodyError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new CodyError
func New(code ErrorCode, message string, cause error) *CodyError {
	return &CodyError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *CodyError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *CodyError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *CodyError) WithDetails(details interface{}) *CodyError {
	e.Details = details
	return e
}

// IsSkipped reports whether err is (or wraps) the skipped sentinel.
func IsSkipped(err error) bool {
	var ce *CodyError
	return errors.As(err, &ce) && ce.Code == QuerySkipped
}

// CodeOf extracts the stable code from an error chain, or InternalError.
func CodeOf(err error) ErrorCode {
	var ce *CodyError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return InternalError
}
