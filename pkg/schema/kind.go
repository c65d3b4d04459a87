package schema

import (
	"regexp"
	"slices"
)

// Kind is the closed set of value kinds a Field can declare.
// The implementations are StringKind, NumberKind, BoolKind and EnumKind.
type Kind interface {
	// KindName returns the name used for the kind in schema files and messages.
	KindName() string
	sealed()
}

// Format is an optional well-known shape a string value must have.
type Format string

const (
	FormatNone     Format = ""
	FormatURL      Format = "url"
	FormatDuration Format = "duration"
)

type (
	// StringKind accepts the raw value as-is, subject to its constraints.
	StringKind struct {
		MinLength int
		Pattern   string
		Format    Format

		re *regexp.Regexp
	}

	// NumberKind parses the raw value as a finite float64.
	NumberKind struct {
		Positive bool
		Integer  bool
		Min      *float64
		Max      *float64
	}

	// BoolKind parses the raw value with a truthy/falsy vocabulary.
	BoolKind struct{}

	// EnumKind accepts only one of Values, compared exactly.
	EnumKind struct {
		Values []string
	}
)

func (StringKind) KindName() string { return "string" }
func (NumberKind) KindName() string { return "number" }
func (BoolKind) KindName() string { return "boolean" }
func (EnumKind) KindName() string { return "enum" }

func (StringKind) sealed() {}
func (NumberKind) sealed() {}
func (BoolKind) sealed() {}
func (EnumKind) sealed() {}

// MatchesPattern reports whether s satisfies the compiled Pattern.
// A kind without a pattern matches everything.
func (k StringKind) MatchesPattern(s string) bool {
	if k.re == nil {
		return true
	}
	return k.re.MatchString(s)
}

// Contains reports whether v is one of the allowed values.
func (k EnumKind) Contains(v string) bool {
	return slices.Contains(k.Values, v)
}

// cloneKind copies the slices and pointers held by k so that a schema never
// shares them with its callers.
func cloneKind(k Kind) Kind {
	switch k := k.(type) {
	case NumberKind:
		k.Min, k.Max = clonePtr(k.Min), clonePtr(k.Max)
		return k
	case EnumKind:
		k.Values = slices.Clone(k.Values)
		return k
	default:
		return k
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
