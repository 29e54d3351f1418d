// Package errors defines the error taxonomy for upstream API failures.
// Tool handlers convert every one of these to advisory text; none escapes
// to the MCP caller as a protocol error.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError indicates invalid tool input before any request is made.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("validation failed for %s=%q: %s", e.Field, e.Value, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// NotFoundError indicates an entity the API does not know.
type NotFoundError struct {
	Target     string
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found (target %s): %s", e.Target, e.Identifier)
}

// APIError carries the upstream resultCode/resultMsg error convention.
type APIError struct {
	Target     string
	StatusCode int
	ResultCode string
	Message    string
}

func (e *APIError) Error() string {
	if e.ResultCode != "" {
		return fmt.Sprintf("API error (target %s, code %s): %s", e.Target, e.ResultCode, e.Message)
	}
	return fmt.Sprintf("API error (target %s, HTTP %d): %s", e.Target, e.StatusCode, e.Message)
}

// AuthError indicates the OC code was rejected. The API reports this as an
// HTML page, not an HTTP status.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed, check the LEGISLATION_API_KEY (OC) value: %s", e.Detail)
}

// HTMLOnlyError indicates the endpoint returned HTML where JSON was
// requested. Some detail endpoints never serve JSON; callers fall back to
// linking the website.
type HTMLOnlyError struct {
	Target string
	Body   string
}

func (e *HTMLOnlyError) Error() string {
	return fmt.Sprintf("target %s returned HTML instead of JSON", e.Target)
}

// EmptyResponseError indicates a 200 with no body at all.
type EmptyResponseError struct {
	Target string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("target %s returned an empty response", e.Target)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// IsHTMLOnly reports whether err is an HTMLOnlyError, and returns it.
func IsHTMLOnly(err error) (*HTMLOnlyError, bool) {
	var h *HTMLOnlyError
	if errors.As(err, &h) {
		return h, true
	}
	return nil, false
}

// IsAuth reports whether err is an AuthError.
func IsAuth(err error) bool {
	var a *AuthError
	return errors.As(err, &a)
}
