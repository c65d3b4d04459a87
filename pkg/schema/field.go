package schema

import (
	"slices"

	"github.com/pkg/errors"
)

// Field declares a single environment variable: its name, kind, optionality,
// default and constraints. Fields are values; every builder method returns a
// modified copy, so a Field can be shared between schemas safely.
//
//	schema.Enum("NODE_ENV", "development", "production", "test").Default("development")
//	schema.Number("PORT").Positive()
//	schema.String("JWT_SECRET").MinLength(32).Secret()
//
// Misusing a builder (e.g. Positive on a string field) is recorded on the
// field and reported by New as a DefinitionError.
type Field struct {
	name     string
	kind     Kind
	optional bool
	def      *string
	secret   bool
	err      error
}

// String declares a string field.
func String(name string) Field { return Field{name: name, kind: StringKind{}} }

// Number declares a numeric field. Values are coerced to float64.
func Number(name string) Field { return Field{name: name, kind: NumberKind{}} }

// Bool declares a boolean field.
func Bool(name string) Field { return Field{name: name, kind: BoolKind{}} }

// Enum declares a field restricted to the given values.
func Enum(name string, values ...string) Field {
	return Field{name: name, kind: EnumKind{Values: slices.Clone(values)}}
}

// Of declares a field with an explicit kind.
func Of(name string, kind Kind) Field { return Field{name: name, kind: kind} }

func (f Field) Name() string { return f.name }
func (f Field) Kind() Kind { return cloneKind(f.kind) }
func (f Field) IsOptional() bool { return f.optional }
func (f Field) IsSecret() bool { return f.secret }

// DefaultValue returns the raw default and whether one was declared.
func (f Field) DefaultValue() (string, bool) {
	if f.def == nil {
		return "", false
	}
	return *f.def, true
}

// Optional marks the field as allowed to be absent.
func (f Field) Optional() Field {
	f.optional = true
	return f
}

// Default sets the raw value used when the variable is absent. Defaults go
// through the same coercion and checks as real values.
func (f Field) Default(raw string) Field {
	f.def = &raw
	return f
}

// Secret hides the field's value in diagnostics and logs.
func (f Field) Secret() Field {
	f.secret = true
	return f
}

// MinLength requires at least n characters.
func (f Field) MinLength(n int) Field {
	return f.withString("min length", func(k *StringKind) { k.MinLength = n })
}

// NonEmpty is MinLength(1).
func (f Field) NonEmpty() Field { return f.MinLength(1) }

// Pattern requires a match of the regular expression expr.
func (f Field) Pattern(expr string) Field {
	return f.withString("pattern", func(k *StringKind) { k.Pattern = expr })
}

// URL requires an absolute URL.
func (f Field) URL() Field {
	return f.withString("url format", func(k *StringKind) { k.Format = FormatURL })
}

// Duration requires an integer followed by one of the units s, m, h or d ("15m", "7d").
func (f Field) Duration() Field {
	return f.withString("duration format", func(k *StringKind) { k.Format = FormatDuration })
}

// Positive requires a number strictly greater than zero.
func (f Field) Positive() Field {
	return f.withNumber("positive", func(k *NumberKind) { k.Positive = true })
}

// Integer requires a number without a fractional part.
func (f Field) Integer() Field {
	return f.withNumber("integer", func(k *NumberKind) { k.Integer = true })
}

// Min requires a number greater than or equal to v.
func (f Field) Min(v float64) Field {
	return f.withNumber("min", func(k *NumberKind) { k.Min = &v })
}

// Max requires a number less than or equal to v.
func (f Field) Max(v float64) Field {
	return f.withNumber("max", func(k *NumberKind) { k.Max = &v })
}

func (f Field) withString(constraint string, apply func(*StringKind)) Field {
	k, ok := f.kind.(StringKind)
	if !ok {
		return f.fail(constraint)
	}
	apply(&k)
	f.kind = k
	return f
}

func (f Field) withNumber(constraint string, apply func(*NumberKind)) Field {
	k, ok := f.kind.(NumberKind)
	if !ok {
		return f.fail(constraint)
	}
	apply(&k)
	f.kind = k
	return f
}

func (f Field) fail(constraint string) Field {
	if f.err == nil {
		name := "<nil>"
		if f.kind != nil {
			name = f.kind.KindName()
		}
		f.err = errors.Errorf("%s does not apply to %s fields", constraint, name)
	}
	return f
}
