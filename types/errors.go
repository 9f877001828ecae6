package types

import (
	"fmt"
)

// Error taxonomy shared by every layer. Each kind is its own type so callers
// can pick them apart with errors.As.

type SchemaCountMismatchError struct {
	Expected int
	Actual   int
}

func (self *SchemaCountMismatchError) Error() string {
	return fmt.Sprintf(
		"schema count mismatch: schema has %d fields but %d columns were given",
		self.Expected,
		self.Actual,
	)
}

type ColumnLengthMismatchError struct {
	ColumnIndex    int
	ExpectedLength int
	ActualLength   int
}

func (self *ColumnLengthMismatchError) Error() string {
	return fmt.Sprintf(
		"column length mismatch: column %d has %d values, expected %d",
		self.ColumnIndex,
		self.ActualLength,
		self.ExpectedLength,
	)
}

type TypeMismatchError struct {
	Column   string
	Expected string
	Actual   string
}

func (self *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"type mismatch in column %q: expected %s, got %s",
		self.Column,
		self.Expected,
		self.Actual,
	)
}

// DataSourceError covers file I/O, path validation and malformed rows.
type DataSourceError struct {
	Message string
	Err     error
}

func (self *DataSourceError) Error() string {
	if self.Err != nil {
		return fmt.Sprintf("data source: %s: %s", self.Message, self.Err)
	}
	return fmt.Sprintf("data source: %s", self.Message)
}

func (self *DataSourceError) Unwrap() error { return self.Err }

// ValidationError covers plan, expression and catalog validation.
type ValidationError struct {
	Message string
}

func (self *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", self.Message)
}

func DataSourceErrorf(f string, args ...interface{}) error {
	return &DataSourceError{Message: fmt.Sprintf(f, args...)}
}

func WrapDataSourceError(err error, f string, args ...interface{}) error {
	return &DataSourceError{Message: fmt.Sprintf(f, args...), Err: err}
}

func ValidationErrorf(f string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(f, args...)}
}
