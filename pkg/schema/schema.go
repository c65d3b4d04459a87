// Package schema describes the environment variables an application expects.
// A Schema is an ordered, immutable set of Fields; each Field carries a Kind
// (string, number, boolean or enum) with its own constraints. Schemas are
// plain data: validating an environment against one is the job of package env.
package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Schema is an ordered set of uniquely named fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

// DefinitionError reports a malformed schema. It is raised when the schema is
// built, never during validation.
type DefinitionError struct {
	Field  string
	Reason string
}

func (e *DefinitionError) Error() string {
	if e.Field == "" {
		return "invalid schema definition: " + e.Reason
	}
	return fmt.Sprintf("invalid schema definition for %s: %s", e.Field, e.Reason)
}

var durationPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ErrDurationRange is matched by ParseDuration errors for values that do not
// fit in a time.Duration.
var ErrDurationRange = errors.New("duration out of range")

// New builds a schema from fields in declaration order. Every field is checked
// up front so that a broken schema fails at startup.
func New(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		checked, err := check(f)
		if err != nil {
			return nil, err
		}
		if _, dup := s.index[f.name]; dup {
			return nil, &DefinitionError{Field: f.name, Reason: "declared more than once"}
		}
		s.index[f.name] = len(s.fields)
		s.fields = append(s.fields, checked)
	}
	return s, nil
}

// MustNew is like New but panics on a malformed schema. Meant for
// package-level schemas such as presets.
func MustNew(fields ...Field) *Schema {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func check(f Field) (Field, error) {
	if f.name == "" {
		return f, &DefinitionError{Reason: "field name is empty"}
	}
	if f.err != nil {
		return f, &DefinitionError{Field: f.name, Reason: f.err.Error()}
	}

	f.kind = cloneKind(f.kind)
	switch k := f.kind.(type) {
	case StringKind:
		if k.MinLength < 0 {
			return f, &DefinitionError{Field: f.name, Reason: "min length must be non-negative"}
		}
		switch k.Format {
		case FormatNone, FormatURL, FormatDuration:
		default:
			return f, &DefinitionError{Field: f.name, Reason: fmt.Sprintf("unsupported string format %q", k.Format)}
		}
		k.re = nil
		if k.Pattern != "" {
			re, err := regexp.Compile(k.Pattern)
			if err != nil {
				return f, &DefinitionError{Field: f.name, Reason: errors.Wrap(err, "invalid pattern").Error()}
			}
			k.re = re
		}
		f.kind = k
	case NumberKind:
		if (k.Min != nil && math.IsNaN(*k.Min)) || (k.Max != nil && math.IsNaN(*k.Max)) {
			return f, &DefinitionError{Field: f.name, Reason: "min and max must be numbers"}
		}
		if k.Min != nil && k.Max != nil && *k.Min > *k.Max {
			return f, &DefinitionError{Field: f.name, Reason: fmt.Sprintf("min %v is greater than max %v", *k.Min, *k.Max)}
		}
	case BoolKind:
	case EnumKind:
		if len(k.Values) == 0 {
			return f, &DefinitionError{Field: f.name, Reason: "enum requires at least one value"}
		}
		if def, ok := f.DefaultValue(); ok && !k.Contains(def) {
			return f, &DefinitionError{Field: f.name, Reason: fmt.Sprintf("default %q is not one of the enum values", def)}
		}
	default:
		return f, &DefinitionError{Field: f.name, Reason: fmt.Sprintf("unsupported kind %T", f.kind)}
	}
	return f, nil
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.name
	}
	return names
}

// Fields returns a copy of the fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Merge unions the fields of the given schemas. When a name is declared more
// than once the last declaration wins but keeps the position of the first one.
// The redeclared names are returned in the order they were overridden.
func Merge(schemas ...*Schema) (*Schema, []string) {
	out := &Schema{index: make(map[string]int)}
	var overridden []string
	for _, s := range schemas {
		if s == nil {
			continue
		}
		for _, f := range s.fields {
			if i, ok := out.index[f.name]; ok {
				out.fields[i] = f
				overridden = append(overridden, f.name)
				continue
			}
			out.index[f.name] = len(out.fields)
			out.fields = append(out.fields, f)
		}
	}
	return out, overridden
}

// ParseDuration parses the values accepted by Field.Duration. The unit d is 24 hours.
func ParseDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.Errorf("invalid duration %q: expected an integer followed by s, m, h or d", s)
	}
	unit := map[string]time.Duration{
		"s": time.Second,
		"m": time.Minute,
		"h": time.Hour,
		"d": 24 * time.Hour,
	}[m[2]]
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n > math.MaxInt64/int64(unit) {
		return 0, errors.Wrapf(ErrDurationRange, "invalid duration %q", s)
	}
	return time.Duration(n) * unit, nil
}

// IsDuration reports whether s is accepted by ParseDuration.
func IsDuration(s string) bool {
	_, err := ParseDuration(s)
	return err == nil
}
