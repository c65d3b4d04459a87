// Package preset provides reusable schema fragments for common configuration
// groups and a registry to select them by name.
//
// Presets are combined with Compose. When two presets declare the same
// variable the later declaration wins (it keeps the position of the first
// one) and a warning is logged for each redeclared variable.
package preset

import (
	"github.com/animalet/sargantana-env/pkg/schema"
	"github.com/rs/zerolog/log"
)

// Preset is a named, immutable schema fragment.
type Preset struct {
	Name   string
	Schema *schema.Schema
}

// New builds a preset. It panics if the fields do not form a valid schema,
// since presets are declared at package level.
func New(name string, fields ...schema.Field) Preset {
	return Preset{Name: name, Schema: schema.MustNew(fields...)}
}

// Names returns the variable names declared by the preset.
func (p Preset) Names() []string {
	if p.Schema == nil {
		return nil
	}
	return p.Schema.Names()
}

var (
	// Common covers runtime settings: environment name, listen port and log level.
	Common = New("common",
		schema.Enum("NODE_ENV", "development", "production", "test").Default("development"),
		schema.Number("PORT").Positive(),
		schema.Enum("LOG_LEVEL", "error", "warn", "info", "debug").Default("info"),
	)

	// Database covers a datastore connection URL and whether to use TLS.
	Database = New("database",
		schema.String("DATABASE_URL").URL(),
		schema.Bool("DATABASE_SSL").Default("false"),
	)

	// AWS covers static AWS credentials and region.
	AWS = New("aws",
		schema.String("AWS_ACCESS_KEY_ID").NonEmpty(),
		schema.String("AWS_SECRET_ACCESS_KEY").NonEmpty().Secret(),
		schema.String("AWS_REGION").NonEmpty(),
	)

	// Auth covers the signing secret and lifetime of issued tokens.
	Auth = New("auth",
		schema.String("JWT_SECRET").MinLength(32).Secret(),
		schema.String("JWT_EXPIRATION").Duration(),
	)
)

// Compose merges the presets into one schema by key union. No validation of
// values happens here.
func Compose(presets ...Preset) *schema.Schema {
	schemas := make([]*schema.Schema, len(presets))
	names := make([]string, len(presets))
	for i, p := range presets {
		schemas[i] = p.Schema
		names[i] = p.Name
	}
	merged, overridden := schema.Merge(schemas...)
	for _, name := range overridden {
		log.Warn().
			Str("env_var", name).
			Strs("presets", names).
			Msg("Variable declared by more than one preset, the last declaration wins")
	}
	return merged
}
