// Package apperr provides the standardized error taxonomy shared by every
// tool surface (MCP, HTTP). All failures a caller can observe are one of the
// codes below; anything else is a bug.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Code is a semantic error code, stable across protocol surfaces.
type Code string

const (
	// CodeUnknownTool signals a tool name outside the closed registry.
	CodeUnknownTool Code = "UNKNOWN_TOOL"

	// CodeInvalidArgument signals a schema violation in the arguments.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeNotFound signals a valid lookup that matched no entity. Multi-row
	// searches never produce it; an empty result set is a valid answer.
	CodeNotFound Code = "NOT_FOUND"

	// CodeBackendUnavailable signals a transient graph connectivity failure
	// that survived the bounded retry budget.
	CodeBackendUnavailable Code = "BACKEND_UNAVAILABLE"

	// CodeQueryFailed signals a query the backend rejected. Never retried:
	// it points at a defect in the query library, not at the backend.
	CodeQueryFailed Code = "QUERY_FAILED"

	// CodeRateLimited signals an exhausted token bucket for an external
	// data source.
	CodeRateLimited Code = "RATE_LIMITED"
)

// Error is the unified error value surfaced to callers. Tool carries the
// tool name the failure belongs to so clients never have to guess.
type Error struct {
	Code    Code        `json:"code"`
	Tool    string      `json:"tool,omitempty"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("%s: %s: %s", e.Tool, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithTool returns a copy of the error tagged with the tool name. Errors
// built deep in the stack get tagged once they cross the dispatcher.
func (e *Error) WithTool(tool string) *Error {
	clone := *e
	clone.Tool = tool
	return &clone
}

// ArgumentDetail names the offending field of an InvalidArgument error.
type ArgumentDetail struct {
	Field  string      `json:"field"`
	Reason string      `json:"reason"`
	Value  interface{} `json:"value,omitempty"`
}

// RateLimitDetail carries retry guidance for a RateLimited error.
type RateLimitDetail struct {
	Source     string        `json:"source"`
	RetryAfter time.Duration `json:"retry_after"`
}

// NewUnknownTool builds an UnknownTool error for the given name.
func NewUnknownTool(name string) *Error {
	return &Error{
		Code:    CodeUnknownTool,
		Tool:    name,
		Message: fmt.Sprintf("tool %q is not registered", name),
	}
}

// NewInvalidArgument builds an InvalidArgument error naming the field.
func NewInvalidArgument(field, reason string, value interface{}) *Error {
	return &Error{
		Code:    CodeInvalidArgument,
		Message: fmt.Sprintf("invalid argument %q: %s", field, reason),
		Details: ArgumentDetail{Field: field, Reason: reason, Value: value},
	}
}

// NewNotFound builds a NotFound error for a single-entity lookup.
func NewNotFound(entity, name string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %q not found", entity, name),
	}
}

// NewBackendUnavailable wraps a connectivity failure that exhausted retries.
func NewBackendUnavailable(attempts int, cause error) *Error {
	return &Error{
		Code:    CodeBackendUnavailable,
		Message: fmt.Sprintf("graph backend unreachable after %d attempts: %v", attempts, cause),
		cause:   cause,
	}
}

// NewQueryFailed wraps a backend-rejected query.
func NewQueryFailed(cause error) *Error {
	return &Error{
		Code:    CodeQueryFailed,
		Message: fmt.Sprintf("query rejected by backend: %v", cause),
		cause:   cause,
	}
}

// NewRateLimited builds a RateLimited error with positive retry guidance.
func NewRateLimited(source string, retryAfter time.Duration) *Error {
	if retryAfter <= 0 {
		retryAfter = time.Second
	}
	return &Error{
		Code:    CodeRateLimited,
		Message: fmt.Sprintf("rate limit exceeded for source %q, retry after %s", source, retryAfter),
		Details: RateLimitDetail{Source: source, RetryAfter: retryAfter},
	}
}

// CodeOf extracts the taxonomy code from any error chain. Unrecognized
// errors map to QueryFailed so nothing ambiguous leaks to callers.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeQueryFailed
}

// IsNotFound reports whether err is a NotFound taxonomy error.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// IsRetryable reports whether err may be retried. Only transient backend
// connectivity failures qualify.
func IsRetryable(err error) bool {
	return CodeOf(err) == CodeBackendUnavailable
}
