// Package config exposes a validated environment as an immutable, typed
// configuration object.
//
// A Config is built once at process start with New or Load and then passed to
// whatever needs it. There is no package-level instance:
//
//	s := preset.Compose(preset.Common, preset.Database)
//	cfg, err := config.Load(s)
//	if err != nil {
//	    log.Fatal().Err(err).Msg("invalid configuration")
//	}
//	db, err := config.Bind[preset.DatabaseSettings](cfg)
package config

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/animalet/sargantana-env/internal/snapshot"
	"github.com/animalet/sargantana-env/pkg/env"
	"github.com/animalet/sargantana-env/pkg/schema"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Validatable is implemented by settings structs that can check themselves
// after being bound.
type Validatable interface {
	Validate() error
}

// Config holds the coerced values of a successfully validated environment.
// It is safe for concurrent use; none of its methods mutate it.
type Config struct {
	schema *schema.Schema
	values map[string]any
}

// New validates snap against s and returns the resulting configuration. A
// nil snap reads the process environment. Validation failures are always
// returned as errors (wrapping *env.ValidationError), whatever the options say.
func New(s *schema.Schema, snap env.Snapshot, opts ...env.Option) (*Config, error) {
	opts = append(slices.Clone(opts), env.ThrowOnError(true))
	res, err := env.Validate(s, snap, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "environment configuration is invalid")
	}
	return &Config{schema: s, values: snapshot.Values(res.Values)}, nil
}

// Load is New with the current process environment.
func Load(s *schema.Schema, opts ...env.Option) (*Config, error) {
	return New(s, env.Process(), opts...)
}

// Schema returns the schema the configuration was validated against.
func (c *Config) Schema() *schema.Schema { return c.schema }

// Has reports whether key has a value. Optional variables that were not set
// have none.
func (c *Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Keys returns the keys that have a value, in schema order.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for _, name := range c.schema.Names() {
		if _, ok := c.values[name]; ok {
			keys = append(keys, name)
		}
	}
	return keys
}

// Value returns the coerced value of key.
func (c *Config) Value(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Values returns a copy of all coerced values.
func (c *Config) Values() map[string]any {
	return snapshot.Values(c.values)
}

// Get returns the value of key as T.
func Get[T any](c *Config, key string) (T, error) {
	var zero T
	v, ok := c.values[key]
	if !ok {
		if _, declared := c.schema.Field(key); !declared {
			return zero, &env.KeyError{Key: key, Reason: "is not declared in the schema"}
		}
		return zero, &env.KeyError{Key: key, Reason: "is not set"}
	}
	t, ok := v.(T)
	if !ok {
		return zero, &env.KeyError{Key: key, Reason: fmt.Sprintf("has type %T, not %T", v, zero)}
	}
	return t, nil
}

// String returns a string or enum value.
func (c *Config) String(key string) (string, error) {
	return Get[string](c, key)
}

// Float returns a number value.
func (c *Config) Float(key string) (float64, error) {
	return Get[float64](c, key)
}

// Int returns a number value that has no fractional part.
func (c *Config) Int(key string) (int, error) {
	f, err := Get[float64](c, key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, &env.KeyError{Key: key, Reason: fmt.Sprintf("value %v is not an integer", f)}
	}
	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold.
	if f >= math.MaxInt || f < math.MinInt {
		return 0, &env.KeyError{Key: key, Reason: fmt.Sprintf("value %v is out of range for int", f)}
	}
	return int(f), nil
}

// Bool returns a boolean value.
func (c *Config) Bool(key string) (bool, error) {
	return Get[bool](c, key)
}

// Duration returns a duration string value ("15m", "7d") as a time.Duration.
func (c *Config) Duration(key string) (time.Duration, error) {
	s, err := Get[string](c, key)
	if err != nil {
		return 0, err
	}
	d, err := schema.ParseDuration(s)
	if err != nil {
		return 0, &env.KeyError{Key: key, Reason: err.Error()}
	}
	return d, nil
}

// Bind maps the configuration onto a new T. Fields of T are matched by their
// yaml tag, which must be the variable name:
//
//	type Settings struct {
//	    Port int `yaml:"PORT"`
//	}
//
// Variables missing from T are ignored. The bound value is validated before
// it is returned.
func Bind[T Validatable](c *Config) (*T, error) {
	data, err := yaml.Marshal(c.values)
	if err != nil {
		return nil, errors.Wrap(err, "error marshalling configuration to YAML")
	}

	var out T
	if err = yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrapf(err, "error binding configuration to %T", out)
	}
	if err = out.Validate(); err != nil {
		return nil, errors.Wrapf(err, "bound configuration %T is invalid", out)
	}
	return &out, nil
}
