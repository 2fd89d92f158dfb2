package analysis

import (
	"errors"
	"fmt"
)

// ErrNoDataset is returned by session operations invoked before a successful load.
var ErrNoDataset = errors.New("no dataset loaded")

// ParseError indicates malformed tabular input. It is fatal to the whole load.
type ParseError struct {
	Line int // 1-based line in the input; 0 when not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ColumnNotFoundError indicates the requested column does not exist in the dataset.
type ColumnNotFoundError struct{ Column string }

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// WrongColumnTypeError indicates the column's type does not suit the requested operation.
type WrongColumnTypeError struct {
	Column string
	Want   ColumnType
	Got    ColumnType
}

func (e *WrongColumnTypeError) Error() string {
	return fmt.Sprintf("column %q is %s, want %s", e.Column, e.Got, e.Want)
}

// EmptyColumnError indicates a column with zero non-missing values.
type EmptyColumnError struct{ Column string }

func (e *EmptyColumnError) Error() string {
	return fmt.Sprintf("column %q has no non-missing values", e.Column)
}

// InsufficientColumnsError indicates fewer than two numeric columns for correlation.
type InsufficientColumnsError struct{ Found int }

func (e *InsufficientColumnsError) Error() string {
	return fmt.Sprintf("correlation needs at least 2 numeric columns, found %d", e.Found)
}

// NonFiniteError indicates a statistic that cannot be represented as a finite
// float64, such as the spread of values near the float64 limit.
type NonFiniteError struct {
	Column string
	Stat   string
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("%s of column %q is not finite", e.Stat, e.Column)
}

// IsRecoverable reports whether err is scoped to a single column or pair, so a
// batch request may continue past it.
func IsRecoverable(err error) bool {
	var (
		empty    *EmptyColumnError
		notFound *ColumnNotFoundError
		wrong    *WrongColumnTypeError
		insuff   *InsufficientColumnsError
		nonFin   *NonFiniteError
	)
	return errors.As(err, &empty) || errors.As(err, &notFound) ||
		errors.As(err, &wrong) || errors.As(err, &insuff) || errors.As(err, &nonFin)
}
