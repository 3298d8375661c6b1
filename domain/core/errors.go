package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Lookup errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Shape errors
	ErrLengthMismatch  = errors.New("column length mismatch")
	ErrEmptyTable      = errors.New("table has no header row")
	ErrUnsupportedFile = errors.New("unsupported file type")

	// Type errors
	ErrNotNumeric     = errors.New("column is not numeric")
	ErrNotCategorical = errors.New("column is not categorical")

	// Modelling errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrLabelCount       = errors.New("target must have exactly two labels")
	ErrFeatureMismatch  = errors.New("feature count mismatch")
)

// NewColumnNotFoundError reports a column a check or stage expected to be present
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w %q", ErrColumnNotFound, column)
}

// NewLengthMismatchError reports a column whose length differs from the table's
func NewLengthMismatchError(column string, got, want int) error {
	return fmt.Errorf("%w: column %q has %d rows, expected %d", ErrLengthMismatch, column, got, want)
}

// NewTypeError reports a column with the wrong storage type
func NewTypeError(column string, want error) error {
	return fmt.Errorf("%w: %s", want, column)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsShapeError(err error) bool {
	return errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrEmptyTable)
}

func IsTypeError(err error) bool {
	return errors.Is(err, ErrNotNumeric) ||
		errors.Is(err, ErrNotCategorical)
}
