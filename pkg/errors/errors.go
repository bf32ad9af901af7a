package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration initialisation errors. These are always fatal to the
	// configuration being loaded.
	ErrInitialisation ErrorCode = "INITIALISATION"
	ErrSelfParent     ErrorCode = "SELF_PARENT"
	ErrParentNotReady ErrorCode = "PARENT_NOT_READY"
	ErrParentMissing  ErrorCode = "PARENT_MISSING"
	ErrParentCycle    ErrorCode = "PARENT_CYCLE"
	ErrCompatibility  ErrorCode = "COMPATIBILITY"
	ErrVersionGate    ErrorCode = "VERSION_GATE"

	// Document errors
	ErrDocumentLoad  ErrorCode = "DOCUMENT_LOAD"
	ErrDocumentParse ErrorCode = "DOCUMENT_PARSE"
	ErrDocumentValid ErrorCode = "DOCUMENT_INVALID"

	// Injection point errors. Registration failures are skip-and-log at the
	// configuration level, never fatal.
	ErrPointNotFound ErrorCode = "POINT_NOT_FOUND"
	ErrPointInvalid  ErrorCode = "POINT_INVALID"

	// Unit errors. Skip-and-log unless the owning configuration is required.
	ErrUnitInvalid    ErrorCode = "UNIT_INVALID"
	ErrUnitTargets    ErrorCode = "UNIT_TARGETS"
	ErrUnitValidation ErrorCode = "UNIT_VALIDATION"
)

// WeftError represents a structured error with code and details
type WeftError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *WeftError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *WeftError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *WeftError) Is(target error) bool {
	var targetErr *WeftError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new WeftError with the given code and message
func New(code ErrorCode, message string) *WeftError {
	return &WeftError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new WeftError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *WeftError {
	return &WeftError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a WeftError
func Wrap(err error, code ErrorCode, message string) *WeftError {
	if err == nil {
		return nil
	}
	return &WeftError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *WeftError {
	if err == nil {
		return nil
	}
	return &WeftError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *WeftError) WithDetail(key string, value interface{}) *WeftError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var weftErr *WeftError
	if errors.As(err, &weftErr) {
		return weftErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a WeftError
func GetErrorCode(err error) ErrorCode {
	var weftErr *WeftError
	if errors.As(err, &weftErr) {
		return weftErr.Code
	}
	return ErrUnknown
}

// IsFatal reports whether an error belongs to the fatal/initialisation
// category, i.e. it must abort loading of the owning configuration rather
// than being skipped and logged.
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrInitialisation, ErrSelfParent, ErrParentNotReady, ErrParentMissing,
		ErrParentCycle, ErrCompatibility, ErrVersionGate:
		return true
	}
	return false
}
