package errors

import (
	"errors"
	"fmt"
)

// Code categorizes an engine error so the hosting layer can map it to a
// user-facing message deterministically.
type Code string

const (
	// CodeUnknown indicates an unclassified error
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument indicates the caller supplied an invalid argument
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound indicates a requested aggregate or entity was not found
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists indicates an attempt to create an aggregate that already exists
	CodeAlreadyExists Code = "already_exists"

	// CodeInternal indicates an internal engine error
	CodeInternal Code = "internal"

	// CodeInsufficientResource indicates no action, bonus action, reaction,
	// or movement remains for the requested act
	CodeInsufficientResource Code = "insufficient_resource"

	// CodeNoSlotAvailable indicates every spell slot at the requested level is spent
	CodeNoSlotAvailable Code = "no_slot_available"

	// CodeAlreadyMaxLevel indicates the character is at the level cap
	CodeAlreadyMaxLevel Code = "already_max_level"

	// CodeInvalidAbilityChoice indicates an ability-score-improvement choice
	// that the class schedule or score caps do not allow
	CodeInvalidAbilityChoice Code = "invalid_ability_choice"

	// CodeUnknownClassTable indicates no progression table exists for the class
	CodeUnknownClassTable Code = "unknown_class_table"

	// CodeInvariantViolation indicates corrupted input state (for example
	// used > total slots, or a turn index out of range). This is a bug in the
	// calling layer and should abort the request rather than reach a player.
	CodeInvariantViolation Code = "invariant_violation"
)

// Error is the engine's error type, carrying a code and optional metadata.
type Error struct {
	// Code is the error code
	Code Code

	// Message is the error message
	Message string

	// Cause is the wrapped error
	Cause error

	// Meta contains additional context
	Meta map[string]any
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta adds metadata to the error (builder pattern)
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates a new error with the given code and message
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new error with formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context, preserving the code of an
// already-typed error.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var engineErr *Error
	if errors.As(err, &engineErr) {
		return &Error{
			Code:    engineErr.Code,
			Message: message,
			Cause:   err,
			Meta:    copyMeta(engineErr.Meta),
		}
	}

	return &Error{
		Code:    CodeUnknown,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps an error with a specific code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

// Helper constructors for common error types

// NotFound creates a not found error
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// NotFoundf creates a formatted not found error
func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

// AlreadyExists creates an already exists error
func AlreadyExists(message string) *Error {
	return New(CodeAlreadyExists, message)
}

// AlreadyExistsf creates a formatted already exists error
func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid argument error
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// Internal creates an internal error
func Internal(message string) *Error {
	return New(CodeInternal, message)
}

// Internalf creates a formatted internal error
func Internalf(format string, args ...any) *Error {
	return Newf(CodeInternal, format, args...)
}

// InsufficientResource creates an insufficient resource error
func InsufficientResource(message string) *Error {
	return New(CodeInsufficientResource, message)
}

// InsufficientResourcef creates a formatted insufficient resource error
func InsufficientResourcef(format string, args ...any) *Error {
	return Newf(CodeInsufficientResource, format, args...)
}

// NoSlotAvailablef creates a formatted no-slot-available error
func NoSlotAvailablef(format string, args ...any) *Error {
	return Newf(CodeNoSlotAvailable, format, args...)
}

// InvariantViolationf creates a formatted invariant violation error
func InvariantViolationf(format string, args ...any) *Error {
	return Newf(CodeInvariantViolation, format, args...)
}

// Error checking functions

// Is checks if the error is of a specific code
func Is(err error, code Code) bool {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return Is(err, CodeNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return Is(err, CodeAlreadyExists)
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return Is(err, CodeInvalidArgument)
}

// IsInsufficientResource checks if the error signals a spent resource
func IsInsufficientResource(err error) bool {
	return Is(err, CodeInsufficientResource)
}

// IsNoSlotAvailable checks if the error signals an exhausted spell slot level
func IsNoSlotAvailable(err error) bool {
	return Is(err, CodeNoSlotAvailable)
}

// IsInvariantViolation checks if the error signals corrupted caller state
func IsInvariantViolation(err error) bool {
	return Is(err, CodeInvariantViolation)
}

// GetCode returns the error code
func GetCode(err error) Code {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Code
	}
	return CodeUnknown
}

// GetMeta returns the error metadata
func GetMeta(err error) map[string]any {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Meta
	}
	return nil
}

// copyMeta creates a copy of the metadata map
func copyMeta(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}

	copied := make(map[string]any, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return copied
}
