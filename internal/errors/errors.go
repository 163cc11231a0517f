// Package errors provides centralized error definitions and error handling
// utilities for the fauxforce codebase. It defines the refresh pipeline's
// error taxonomy, constructors with context wrapping, and classification
// helpers.
//
// The taxonomy mirrors the pipeline's failure modes:
//   - ProjectError: the target directory is not a recognizable project
//   - DescribeError: the org listing or batch describe call failed
//   - CacheWriteError: the stub cache directory could not be reconciled
//   - FieldIssue: a single field could not be rendered (warning, non-fatal)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrProjectNotFound) { ... }
//
//	var de *errors.DescribeError
//	if errors.As(err, &de) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityWarning is for conditions that are reported but do not fail a run.
	SeverityWarning Severity = iota
	// SeverityError is for conditions that fail the current invocation.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrProjectNotFound indicates that the project marker file is missing.
	ErrProjectNotFound = New("not in a project directory")
	// ErrDescribeFailed indicates that a describe call to the org failed.
	ErrDescribeFailed = New("describe request failed")
	// ErrCacheWrite indicates that the stub cache could not be written.
	ErrCacheWrite = New("cache write failed")
	// ErrMalformedResponse indicates that the org returned an unparseable payload.
	ErrMalformedResponse = New("malformed describe response")
	// ErrAuthFailed indicates that the org rejected the access token.
	ErrAuthFailed = New("authentication failed")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all typed errors.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain Errors
// -----------------------------------------------------------------------------

// ProjectError represents a failure to resolve or validate a project root.
//
// Example:
//
//	err := errors.NewProjectError("missing project marker", errors.ErrProjectNotFound).
//		WithRoot("/work/demo")
type ProjectError struct {
	baseError
	Root string
}

// NewProjectError creates a new ProjectError.
func NewProjectError(message string, cause error) *ProjectError {
	return &ProjectError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithRoot adds the offending project root to the error context.
func (e *ProjectError) WithRoot(root string) *ProjectError {
	e.Root = root
	return e
}

// Error returns the formatted error message.
func (e *ProjectError) Error() string {
	prefix := "project error"
	if e.Root != "" {
		prefix = fmt.Sprintf("project error [root=%s]", e.Root)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ProjectError) Is(target error) bool {
	if _, ok := target.(*ProjectError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// DescribeError represents a failed org describe call: auth failure,
// network failure, or a malformed payload. Describe failures are terminal
// for the invocation; there is no retry.
type DescribeError struct {
	baseError
	Operation  string // "list" or "batch"
	StatusCode int    // HTTP status, 0 when the request never completed
}

// NewDescribeError creates a new DescribeError.
func NewDescribeError(message string, cause error) *DescribeError {
	return &DescribeError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithOperation names the describe operation that failed.
func (e *DescribeError) WithOperation(op string) *DescribeError {
	e.Operation = op
	return e
}

// WithStatusCode records the HTTP status of the failed call.
func (e *DescribeError) WithStatusCode(code int) *DescribeError {
	e.StatusCode = code
	return e
}

// Error returns the formatted error message.
func (e *DescribeError) Error() string {
	var parts []string
	if e.Operation != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Operation))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	prefix := "describe error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("describe error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *DescribeError) Is(target error) bool {
	if _, ok := target.(*DescribeError); ok {
		return true
	}
	if errors.Is(target, ErrDescribeFailed) {
		return true
	}
	return e.baseError.Is(target)
}

// CacheWriteError represents a failure to create, write, or delete within
// a stub cache directory. It aborts the remainder of that directory's
// reconciliation; already-completed directories are not rolled back.
type CacheWriteError struct {
	baseError
	Directory string
	File      string
}

// NewCacheWriteError creates a new CacheWriteError.
func NewCacheWriteError(message string, cause error) *CacheWriteError {
	return &CacheWriteError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithDirectory adds the target directory to the error context.
func (e *CacheWriteError) WithDirectory(dir string) *CacheWriteError {
	e.Directory = dir
	return e
}

// WithFile adds the offending file name to the error context.
func (e *CacheWriteError) WithFile(name string) *CacheWriteError {
	e.File = name
	return e
}

// Error returns the formatted error message.
func (e *CacheWriteError) Error() string {
	var parts []string
	if e.Directory != "" {
		parts = append(parts, fmt.Sprintf("dir=%s", e.Directory))
	}
	if e.File != "" {
		parts = append(parts, fmt.Sprintf("file=%s", e.File))
	}

	prefix := "cache write error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("cache write error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *CacheWriteError) Is(target error) bool {
	if _, ok := target.(*CacheWriteError); ok {
		return true
	}
	if errors.Is(target, ErrCacheWrite) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Field Issues
// -----------------------------------------------------------------------------

// FieldIssue records a single field that could not be rendered into a stub.
// It is a warning, never an error: the field is skipped and the rest of the
// object's stub proceeds.
type FieldIssue struct {
	Object string
	Field  string
	Reason string
}

// Error implements the error interface so issues can flow through logging
// helpers, but a FieldIssue never fails a run.
func (e FieldIssue) Error() string {
	field := e.Field
	if field == "" {
		field = "(unnamed)"
	}
	return fmt.Sprintf("field issue [object=%s, field=%s]: %s", e.Object, field, e.Reason)
}

// Severity returns SeverityWarning; field issues are always non-fatal.
func (e FieldIssue) Severity() Severity { return SeverityWarning }

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// classified is implemented by all typed errors in this package.
type classified interface {
	error
	Severity() Severity
	IsUserFacing() bool
}

// GetSeverity returns the severity level of the error.
// Unknown errors default to SeverityError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityWarning
	}
	var ce classified
	if As(err, &ce) {
		return ce.Severity()
	}
	var fi FieldIssue
	if As(err, &fi) {
		return SeverityWarning
	}
	return SeverityError
}

// IsUserFacing returns true if the error message is safe to display to end
// users. All pipeline errors are user-facing; wrapped system errors are not.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var ce classified
	if As(err, &ce) {
		return ce.IsUserFacing()
	}
	return false
}

// IsFatal reports whether the error aborts the current invocation.
// Field issues are the only non-fatal errors in the taxonomy.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return GetSeverity(err) >= SeverityError
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
