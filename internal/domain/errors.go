package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMovieNotFound is returned when a referenced movie does not exist
	ErrMovieNotFound = errors.New("movie not found")

	// ErrReviewNotFound is returned when a review does not exist or does not
	// belong to the claimed movie
	ErrReviewNotFound = errors.New("review not found")

	// ErrInvalidReviewData is returned when review content fails validation
	ErrInvalidReviewData = errors.New("invalid review data")

	// ErrInvalidMovieData is returned when movie content fails validation
	ErrInvalidMovieData = errors.New("invalid movie data")

	// ErrInvalidSearchParameter is returned when a search or pagination input
	// fails validation
	ErrInvalidSearchParameter = errors.New("invalid search parameter")

	// ErrConflict is returned on an optimistic locking conflict
	ErrConflict = errors.New("conflict occurred")
)

// FieldError carries the offending field and a human-readable reason for a
// validation failure. It wraps one of the sentinel errors above so callers
// can still branch with errors.Is.
type FieldError struct {
	Field  string
	Reason string
	err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.err.Error(), e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.err
}

// InvalidSearchParameter builds a FieldError wrapping ErrInvalidSearchParameter.
func InvalidSearchParameter(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, err: ErrInvalidSearchParameter}
}

// InvalidReviewData builds a FieldError wrapping ErrInvalidReviewData.
func InvalidReviewData(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, err: ErrInvalidReviewData}
}

// InvalidMovieData builds a FieldError wrapping ErrInvalidMovieData.
func InvalidMovieData(field, reason string) error {
	return &FieldError{Field: field, Reason: reason, err: ErrInvalidMovieData}
}
