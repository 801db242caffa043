package engine

import (
	"errors"
	"fmt"
)

// Terminal lookup failures, surfaced to callers as 404s. Never retried.
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrChapterNotFound = errors.New("chapter not found in course")
	ErrQuizNotFound    = errors.New("quiz not found in course")
)

// ValidationError marks a malformed quiz submission. The submission is
// rejected wholesale before any state is touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + e.Reason
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a submission validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TransientError wraps a store failure that is safe to retry with
// backoff; no partial state was committed.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "progress store unavailable: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable store failure.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
