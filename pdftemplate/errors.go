package pdftemplate

import "fmt"

// ConfigurationError reports a missing or malformed configuration entry.
type ConfigurationError struct {
	Key   string
	Value string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("configuration %s = %q: %s", e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("configuration %s: %s", e.Key, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// StyleResolutionError reports a field that names an unknown text style.
type StyleResolutionError struct {
	Field string // configuration key of the field
	Style string
}

func (e *StyleResolutionError) Error() string {
	return fmt.Sprintf("field %s: text style %q is not defined", e.Field, e.Style)
}

// FormatError reports a value that does not fit a field's format pattern.
type FormatError struct {
	Pattern string
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %q: %s", e.Pattern, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
