package translate

import (
	"errors"
	"fmt"
)

// Common translation errors
var (
	// ErrMissingAPIKey is returned when no Google API key is configured.
	ErrMissingAPIKey = errors.New("missing Google API key: set GOOGLE_API_KEY environment variable")

	// ErrBackend is returned when the translation backend returns an
	// error or non-success status.
	ErrBackend = errors.New("translation backend request failed")

	// ErrEmptyResponse is returned when the backend reports success but
	// carries no translation results.
	ErrEmptyResponse = errors.New("translation backend returned no results")
)

// TranslationError wraps errors with additional context about the
// translation failure.
type TranslationError struct {
	// Op is the operation that failed (e.g., "Translate").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("translate: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("translate: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *TranslationError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapTranslationError wraps an error as a TranslationError if it isn't
// already one.
func WrapTranslationError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var translationErr *TranslationError
	if errors.As(err, &translationErr) {
		return err // Already wrapped
	}

	return &TranslationError{Op: op, Err: err, Details: details}
}
