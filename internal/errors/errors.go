// Package errors provides unified error handling across memory-bank.
//
// SYSTEM ARCHITECTURE ROLE:
// This module is the shared error vocabulary for every interface (HTTP API, CLI,
// terminal browser). It standardizes how failures are identified, categorized
// and reported so that each interface can format them consistently.
//
// KEY RESPONSIBILITIES:
// - Define the error codes exposed in API envelopes (TEMPLATE_NOT_FOUND, ...)
// - Provide the structured AppError type with severity, category and context
// - Separate expected absence (not found) from unexpected failures
//
// INTEGRATION POINTS:
// - internal/service/service.go: service operations return AppErrors
// - internal/api/server.go: HTTPErrorHandler maps AppErrors to status codes and envelopes
// - internal/cli/cli.go: CLIErrorHandler formats AppErrors for terminal display
// - internal/validation/validator.go: validation failures become VALIDATION_ERROR
//
// USAGE PATTERNS:
// - Create errors: TemplateNotFound(), DomainNotFound(), ValidationError()
// - Wrap errors: Wrap() keeps the cause for logs while the message stays generic
// - Check types: IsNotFound() and GetAppError() for type-safe handling
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Resource errors
	ErrCodeTemplateNotFound  ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrCodeDomainNotFound    ErrorCode = "DOMAIN_NOT_FOUND"
	ErrCodeGuideStepNotFound ErrorCode = "GUIDE_STEP_NOT_FOUND"

	// Fetch errors
	ErrCodeTemplatesFetchFailed ErrorCode = "TEMPLATES_FETCH_FAILED"
	ErrCodeTemplateFetchFailed  ErrorCode = "TEMPLATE_FETCH_FAILED"
	ErrCodeBanksFetchFailed     ErrorCode = "BANKS_FETCH_FAILED"
	ErrCodeGuideFetchFailed     ErrorCode = "GUIDE_FETCH_FAILED"
	ErrCodeExportFailed         ErrorCode = "EXPORT_FAILED"

	// Request errors
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeRouteNotFound    ErrorCode = "ROUTE_NOT_FOUND"

	// System errors
	ErrCodeInternalError        ErrorCode = "INTERNAL_ERROR"
	ErrCodeClipboardUnavailable ErrorCode = "CLIPBOARD_UNAVAILABLE"
	ErrCodeConfigInvalid        ErrorCode = "CONFIG_INVALID"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryStorage    ErrorCategory = "storage"
	CategoryValidation ErrorCategory = "validation"
	CategoryRequest    ErrorCategory = "request"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeTemplateNotFound, ErrCodeDomainNotFound, ErrCodeGuideStepNotFound, ErrCodeRouteNotFound:
		return CategoryNotFound, SeverityInfo

	case ErrCodeTemplatesFetchFailed, ErrCodeTemplateFetchFailed, ErrCodeBanksFetchFailed,
		ErrCodeGuideFetchFailed, ErrCodeExportFailed:
		return CategoryStorage, SeverityError

	case ErrCodeValidation, ErrCodeConfigInvalid:
		return CategoryValidation, SeverityWarning

	case ErrCodeMethodNotAllowed:
		return CategoryRequest, SeverityWarning

	case ErrCodeClipboardUnavailable:
		return CategorySystem, SeverityWarning

	case ErrCodeInternalError:
		return CategorySystem, SeverityCritical

	default:
		return CategorySystem, SeverityError
	}
}

// IsNotFound reports whether err is an expected-absence error
func IsNotFound(err error) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Category == CategoryNotFound
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred.")
}

// Common error constructors for frequently used errors

func TemplateNotFound(slug string) *AppError {
	return NewAppError(ErrCodeTemplateNotFound, fmt.Sprintf("No template found for slug '%s'.", slug)).
		WithContext("slug", slug)
}

func DomainTemplateNotFound(domain, slug string) *AppError {
	return NewAppError(ErrCodeTemplateNotFound, fmt.Sprintf("No template found for slug '%s' in domain '%s'.", slug, domain)).
		WithContext("domain", domain).
		WithContext("slug", slug)
}

func DomainNotFound(domain string) *AppError {
	return NewAppError(ErrCodeDomainNotFound, fmt.Sprintf("Memory Bank '%s' not found.", domain)).
		WithContext("domain", domain)
}

func GuideStepNotFound(step string) *AppError {
	return NewAppError(ErrCodeGuideStepNotFound, fmt.Sprintf("No guide step found for '%s'.", step)).
		WithContext("step", step)
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}
