package regulatory

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCategory normalizes the failure taxonomy shared by every regulatory
// source. Evaluators branch on the category, never on source-specific errors.
type ErrorCategory string

const (
	// ErrorNotFound indicates the queried record does not exist.
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates the source rejected the call for quota
	// reasons; RetryAfter may carry a server-provided hint.
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorUnavailable indicates the source is unreachable, timed out, or
	// returned an unusable response.
	ErrorUnavailable ErrorCategory = "unavailable"
)

// LookupError wraps regulatory source failures with normalized categorization.
type LookupError struct {
	Category   ErrorCategory
	Source     Source
	Message    string
	Underlying error

	// RetryAfter is a server-provided backoff hint for rate-limited
	// failures; zero when the server gave none.
	RetryAfter time.Duration
}

func (e *LookupError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("source %s [%s]: %s: %v", e.Source, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("source %s [%s]: %s", e.Source, e.Category, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Underlying
}

// NewLookupError creates a normalized lookup error.
func NewLookupError(category ErrorCategory, source Source, message string, underlying error) *LookupError {
	return &LookupError{
		Category:   category,
		Source:     source,
		Message:    message,
		Underlying: underlying,
	}
}

// NewRateLimited creates a rate-limited lookup error carrying the server's
// retry hint.
func NewRateLimited(source Source, retryAfter time.Duration) *LookupError {
	return &LookupError{
		Category:   ErrorRateLimited,
		Source:     source,
		Message:    "rate limited",
		RetryAfter: retryAfter,
	}
}

// CategoryOf extracts the error category; unrecognized errors (including
// context cancellation surfaced by a source client) count as unavailable.
func CategoryOf(err error) ErrorCategory {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Category
	}
	return ErrorUnavailable
}

// IsNotFound reports whether err is a not-found lookup failure.
func IsNotFound(err error) bool {
	return CategoryOf(err) == ErrorNotFound
}

// RetryAfterHint extracts the server-provided retry delay, if any.
func RetryAfterHint(err error) time.Duration {
	var le *LookupError
	if errors.As(err, &le) {
		return le.RetryAfter
	}
	return 0
}
