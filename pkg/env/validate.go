// Package env validates environment variables against a schema.Schema and
// coerces them into typed values: strings stay strings, numbers become
// float64 and booleans become bool.
//
// Validate checks a whole schema and reports every invalid variable at once;
// Get and Lookup check a single key with exactly the same rules.
package env

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/animalet/sargantana-env/internal/validation"
	"github.com/animalet/sargantana-env/pkg/schema"
	"github.com/pkg/errors"
)

// Result is the outcome of Validate.
type Result struct {
	// Values holds the coerced value of every set field. It is nil when
	// validation failed.
	Values map[string]any
	// Diagnostics lists every invalid field in schema order.
	Diagnostics []Diagnostic

	raw Snapshot
}

// OK reports whether validation succeeded.
func (r *Result) OK() bool { return len(r.Diagnostics) == 0 }

// Fallback returns a copy of the raw, uncoerced snapshot the validation ran
// against. Callers that disabled ThrowOnError can use it as a best-effort
// configuration.
func (r *Result) Fallback() map[string]string {
	return maps.Clone(map[string]string(r.raw))
}

// Validate checks snap against s. A nil snap reads the process environment.
//
// Every field is checked and every failure recorded before deciding the
// outcome. On failure the diagnostics are logged (LogErrors) and returned as a
// *ValidationError (ThrowOnError); with ThrowOnError disabled a failed Result
// is returned with a nil error.
func Validate(s *schema.Schema, snap Snapshot, opts ...Option) (*Result, error) {
	if s == nil {
		return nil, &schema.DefinitionError{Reason: "schema is nil"}
	}
	if snap == nil {
		snap = Process()
	}
	o := newOptions(opts)

	values := make(map[string]any, s.Len())
	var diags []Diagnostic
	for _, f := range s.Fields() {
		out := evaluate(f, snap, o.useDefaults)
		if out.reason != "" {
			diags = append(diags, out.diagnostic(f))
			continue
		}
		if out.set {
			values[f.Name()] = out.value
		}
	}

	if len(diags) == 0 {
		return &Result{Values: values, raw: snap.clone()}, nil
	}

	if o.logErrors {
		l := o.log()
		for _, d := range diags {
			l.Error().
				Str("env_var", d.Field).
				Str("value", d.Value).
				Bool("set", d.Set).
				Bool("defaulted", d.Defaulted).
				Msg(d.Message)
		}
		l.Error().
			Strs("env_vars", fieldsOf(diags)).
			Msg("Invalid environment variables")
	}
	if o.throwOnError {
		return nil, &ValidationError{Diagnostics: diags}
	}
	return &Result{Diagnostics: diags, raw: snap.clone()}, nil
}

// Get validates and returns the single variable key. It applies defaults and
// coercion exactly like Validate, so both paths agree on every value.
// Failures are always returned as *KeyError.
func Get(s *schema.Schema, snap Snapshot, key string) (any, error) {
	if s == nil {
		return nil, &KeyError{Key: key, Reason: "schema is nil"}
	}
	f, ok := s.Field(key)
	if !ok {
		return nil, &KeyError{Key: key, Reason: "is not declared in the schema"}
	}
	if snap == nil {
		snap = Process()
	}
	out := evaluate(f, snap, true)
	if out.reason != "" {
		return nil, &KeyError{Key: key, Reason: out.reason}
	}
	if !out.set {
		return nil, &KeyError{Key: key, Reason: "is not set"}
	}
	return out.value, nil
}

// Lookup is Get with a typed result. T must match the kind of the field:
// string for string and enum fields, float64 for numbers and bool for booleans.
func Lookup[T any](s *schema.Schema, snap Snapshot, key string) (T, error) {
	var zero T
	v, err := Get(s, snap, key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, &KeyError{Key: key, Reason: fmt.Sprintf("has type %T, not %T", v, zero)}
	}
	return t, nil
}

type outcome struct {
	value     any
	raw       string
	set       bool
	defaulted bool
	reason    string
}

func (o outcome) diagnostic(f schema.Field) Diagnostic {
	d := Diagnostic{Field: f.Name(), Message: o.reason, Value: o.raw, Set: o.set, Defaulted: o.defaulted}
	if f.IsSecret() && (o.set || o.defaulted) {
		d.Value = redacted
	}
	return d
}

func evaluate(f schema.Field, snap Snapshot, useDefaults bool) outcome {
	raw, set := snap.Lookup(f.Name())
	defaulted := false
	if !set && useDefaults {
		raw, defaulted = f.DefaultValue()
	}
	if !set && !defaulted {
		if f.IsOptional() {
			return outcome{}
		}
		return outcome{reason: "is required but not set"}
	}
	value, err := Coerce(f.Kind(), raw)
	if err != nil {
		reason := err.Error()
		if defaulted {
			shown := raw
			if f.IsSecret() {
				shown = redacted
			}
			reason = fmt.Sprintf("default %q is invalid: %s", shown, reason)
		}
		return outcome{value: value, raw: raw, set: set, defaulted: defaulted, reason: reason}
	}
	return outcome{value: value, raw: raw, set: true, defaulted: defaulted}
}

// Coerce converts raw to the Go value of kind k and checks k's constraints.
// On error the returned value is raw unchanged.
func Coerce(k schema.Kind, raw string) (any, error) {
	switch k := k.(type) {
	case schema.StringKind:
		return raw, checkString(k, raw)
	case schema.NumberKind:
		n, err := parseNumber(k, raw)
		if err != nil {
			return raw, err
		}
		return n, nil
	case schema.BoolKind:
		b, err := parseBool(raw)
		if err != nil {
			return raw, err
		}
		return b, nil
	case schema.EnumKind:
		if !k.Contains(raw) {
			return raw, errors.Errorf("must be one of: %s", strings.Join(k.Values, ", "))
		}
		return raw, nil
	default:
		return raw, errors.Errorf("has unsupported kind %T", k)
	}
}

func checkString(k schema.StringKind, raw string) error {
	if k.MinLength > 0 {
		if err := validation.Var(raw, fmt.Sprintf("min=%d", k.MinLength)); err != nil {
			return err
		}
	}
	if !k.MatchesPattern(raw) {
		return errors.Errorf("must match pattern %s", k.Pattern)
	}
	switch k.Format {
	case schema.FormatURL:
		return validation.Var(raw, "url")
	case schema.FormatDuration:
		if _, err := schema.ParseDuration(raw); err != nil {
			if errors.Is(err, schema.ErrDurationRange) {
				return errors.New("is too long for a duration")
			}
			return errors.New("must be a duration such as 15m or 7d")
		}
	}
	return nil
}

func parseNumber(k schema.NumberKind, raw string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, errors.New("expected a number")
	}
	if k.Integer && n != math.Trunc(n) {
		return 0, errors.New("must be an integer")
	}
	if err := validation.Var(n, numberTag(k)); err != nil {
		return 0, err
	}
	return n, nil
}

// numberTag renders the bounds of k as validator tags, e.g. "gt=0,lte=65535".
func numberTag(k schema.NumberKind) string {
	var tags []string
	if k.Positive {
		tags = append(tags, "gt=0")
	}
	if k.Min != nil {
		tags = append(tags, "gte="+strconv.FormatFloat(*k.Min, 'g', -1, 64))
	}
	if k.Max != nil {
		tags = append(tags, "lte="+strconv.FormatFloat(*k.Max, 'g', -1, 64))
	}
	return strings.Join(tags, ",")
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, errors.New("expected a boolean (true/false, 1/0, yes/no, on/off)")
	}
}
