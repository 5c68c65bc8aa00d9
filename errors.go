package csvresult

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when a Dialect field is given a disallowed value.
	ErrInvalidConfiguration = errors.New("csvresult: invalid configuration")
	// ErrMissingField is returned when a dynamic record lacks a column discovered on the first record.
	ErrMissingField = errors.New("csvresult: missing field")
	// ErrUnsupportedShape is returned when a record is neither a struct nor a dynamic record.
	ErrUnsupportedShape = errors.New("csvresult: unsupported record shape")
)

// ConfigError names the Dialect field that rejected a value.
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

// Error formats the field, the rejected value and the reason.
func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("csvresult: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidConfiguration so ConfigError matches it with errors.Is.
func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrInvalidConfiguration
}

// RecordError contains the position of a record that could not be encoded.
// Row is the zero-based index into the input slice.
type RecordError struct {
	Row    int
	Column string
	Err    error
}

// Error formats the record error with the stored Row, Column and Err values.
func (e *RecordError) Error() string {
	if e == nil {
		return ""
	}
	if e.Column == "" {
		return fmt.Sprintf("csvresult: record %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("csvresult: record %d, column %q: %v", e.Row, e.Column, e.Err)
}

// Unwrap returns the underlying Err so RecordError participates in errors.Unwrap.
func (e *RecordError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
