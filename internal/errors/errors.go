// Package errors provides a lightweight structured error type (ThemeError)
// for category-based classification in the plugin runtime, validator, and CLI.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a theme-layer error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Plugin execution errors
	CategoryPlugin    ErrorCategory = "plugin"
	CategoryInvariant ErrorCategory = "invariant"
	CategoryConflict  ErrorCategory = "conflict"

	// Environment and infrastructure errors
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// ThemeError is a structured error with category, severity, and context
type ThemeError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ThemeError
type ContextFields map[string]any

// Error implements the error interface
func (e *ThemeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ThemeError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *ThemeError) WithContext(key string, value any) *ThemeError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ThemeError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ThemeError {
	return &ThemeError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ThemeError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ThemeError {
	return &ThemeError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error (or any error it wraps) belongs to a category
func IsCategory(err error, category ErrorCategory) bool {
	var te *ThemeError
	if errors.As(err, &te) {
		return te.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal
// if no ThemeError is found in the chain
func GetCategory(err error) ErrorCategory {
	var te *ThemeError
	if errors.As(err, &te) {
		return te.Category
	}
	return CategoryInternal
}

// AsThemeError returns the ThemeError in err's chain, if any
func AsThemeError(err error) (*ThemeError, bool) {
	var te *ThemeError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
