package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Assessment specific errors
	CodeUnknownQuestion ErrorCode = "UNKNOWN_QUESTION"
	CodeInvalidAnswer   ErrorCode = "INVALID_ANSWER"
	CodeMissingAnswer   ErrorCode = "MISSING_ANSWER"
	CodeSessionFinished ErrorCode = "SESSION_FINISHED"
	CodeInvalidBank     ErrorCode = "INVALID_QUESTION_BANK"
	CodeInvalidResult   ErrorCode = "INVALID_RESULT"
	CodeResultNotFound  ErrorCode = "RESULT_NOT_FOUND"
	CodeRecordFailed    ErrorCode = "RECORD_FAILED"
)

// ErrTerminal is returned by flow operations once the session has finished.
var ErrTerminal = errors.New("assessment session already finished")

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is / errors.As
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a key/value detail to the error and returns it
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidBankError(message string, cause error) *DomainError {
	return NewError(CodeInvalidBank, message, cause)
}

func NewInvalidResultError(message string) *DomainError {
	return NewError(CodeInvalidResult, message, nil)
}

func NewResultNotFoundError(resultID string) *DomainError {
	return NewError(CodeResultNotFound, fmt.Sprintf("Pending assessment result not found with ID: %s", resultID), nil).
		WithContext("result_id", resultID)
}

func NewRecordFailedError(resultID string, cause error) *DomainError {
	return NewError(CodeRecordFailed, "Failed to record assessment result", cause).
		WithContext("result_id", resultID)
}

// ValidationError describes a single failed check on an input field.
type ValidationError struct {
	Field   string    `json:"field"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every failed check of one request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	switch len(v) {
	case 0:
		return "validation failed"
	case 1:
		return v[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", v[0].Error(), len(v)-1)
	}
}

func NewValidationError(message string) ValidationError {
	return ValidationError{Code: CodeValidation, Message: message}
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: "field is required"}
}

func NewInvalidFormatError(field, value string) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: fmt.Sprintf("invalid format: %q", value)}
}

func NewOutOfRangeError(field string, value, min, max int) ValidationError {
	return ValidationError{Field: field, Code: CodeOutOfRange, Message: fmt.Sprintf("value %d out of range [%d, %d]", value, min, max)}
}

func NewUnknownQuestionError(questionID string) ValidationError {
	return ValidationError{Field: questionID, Code: CodeUnknownQuestion, Message: "question does not exist in the bank"}
}

func NewInvalidAnswerError(questionID, message string) ValidationError {
	return ValidationError{Field: questionID, Code: CodeInvalidAnswer, Message: message}
}

func NewMissingAnswerError(questionID string) ValidationError {
	return ValidationError{Field: questionID, Code: CodeMissingAnswer, Message: "current question has no answer"}
}
