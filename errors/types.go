package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Validation errors: user-correctable, never retried
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
	ErrCodeEmptyKey     ErrorCode = "EMPTY_KEY"
	ErrCodeInvalidShape ErrorCode = "INVALID_SHAPE"
	ErrCodeInvalidJSON  ErrorCode = "INVALID_JSON"

	// Precondition errors
	ErrCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrCodeNoSelection ErrorCode = "NO_SELECTION"
	ErrCodeNoTarget    ErrorCode = "NO_TARGET"

	// File system errors
	ErrCodeReadFailed  ErrorCode = "READ_FAILED"
	ErrCodeWriteFailed ErrorCode = "WRITE_FAILED"
	ErrCodeTargetWrite ErrorCode = "TARGET_WRITE"

	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// General errors
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Kind groups error codes by how a caller is expected to react.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindIO         Kind = "io"
	KindConfig     Kind = "config"
	KindInternal   Kind = "internal"
)

var codeKinds = map[ErrorCode]Kind{
	ErrCodeDuplicateKey:   KindValidation,
	ErrCodeEmptyKey:       KindValidation,
	ErrCodeInvalidShape:   KindValidation,
	ErrCodeInvalidJSON:    KindValidation,
	ErrCodeNotFound:       KindNotFound,
	ErrCodeNoSelection:    KindNotFound,
	ErrCodeNoTarget:       KindNotFound,
	ErrCodeReadFailed:     KindIO,
	ErrCodeWriteFailed:    KindIO,
	ErrCodeTargetWrite:    KindIO,
	ErrCodeConfigNotFound: KindConfig,
	ErrCodeConfigInvalid:  KindConfig,
	ErrCodeInternal:       KindInternal,
}

// Kind returns the group the code belongs to.
func (c ErrorCode) Kind() Kind {
	if k, ok := codeKinds[c]; ok {
		return k
	}
	return KindInternal
}

// PresetError represents a structured error with context
type PresetError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *PresetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PresetError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *PresetError) WithDetail(key string, value interface{}) *PresetError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *PresetError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new PresetError
func New(code ErrorCode, message string) *PresetError {
	return &PresetError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a PresetError
func Wrap(err error, code ErrorCode, message string) *PresetError {
	return &PresetError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the first PresetError in err's chain.
func As(err error) (*PresetError, bool) {
	for err != nil {
		if pe, ok := err.(*PresetError); ok {
			return pe, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Is checks if an error is a specific PresetError code
func Is(err error, code ErrorCode) bool {
	pe, ok := As(err)
	return ok && pe.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if pe, ok := As(err); ok {
		return pe.Code
	}
	return ""
}

// KindOf reports the kind of err. Errors that carry no code are internal.
func KindOf(err error) Kind {
	return GetCode(err).Kind()
}
