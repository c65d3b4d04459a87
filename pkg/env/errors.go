package env

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrMissingOrInvalidKey is matched by every *KeyError.
var ErrMissingOrInvalidKey = errors.New("missing or invalid environment variable")

const redacted = "[redacted]"

// Diagnostic describes one variable that failed validation.
type Diagnostic struct {
	Field   string
	Message string
	// Value is the offending raw value. It is empty when the variable was not
	// set and "[redacted]" for secret fields.
	Value string
	Set   bool
	// Defaulted is true when Value is the field's declared default.
	Defaulted bool
}

func (d Diagnostic) String() string {
	if !d.Set {
		return fmt.Sprintf("%s %s", d.Field, d.Message)
	}
	return fmt.Sprintf("%s %s (got %q)", d.Field, d.Message, d.Value)
}

// ValidationError is returned by Validate when one or more variables are
// invalid and ThrowOnError is enabled. Diagnostics follow schema order.
type ValidationError struct {
	Diagnostics []Diagnostic
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = d.String()
	}
	return "invalid environment variables: " + strings.Join(parts, "; ")
}

// Fields returns the names of the invalid variables.
func (e *ValidationError) Fields() []string {
	return fieldsOf(e.Diagnostics)
}

// KeyError is returned by the single-key accessors when the requested
// variable is undeclared, unset or invalid.
type KeyError struct {
	Key    string
	Reason string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid value for environment variable %s: %s", e.Key, e.Reason)
}

func (e *KeyError) Unwrap() error { return ErrMissingOrInvalidKey }

func fieldsOf(diags []Diagnostic) []string {
	names := make([]string, len(diags))
	for i, d := range diags {
		names[i] = d.Field
	}
	return names
}
