package preset

import (
	"net/url"
	"time"

	"github.com/animalet/sargantana-env/internal/validation"
	"github.com/animalet/sargantana-env/pkg/schema"
)

type (
	// CommonSettings is the typed form of the Common preset.
	CommonSettings struct {
		Environment string `yaml:"NODE_ENV" validate:"oneof=development production test"`
		Port        int    `yaml:"PORT" validate:"gt=0"`
		LogLevel    string `yaml:"LOG_LEVEL" validate:"oneof=error warn info debug"`
	}

	// DatabaseSettings is the typed form of the Database preset.
	DatabaseSettings struct {
		URL string `yaml:"DATABASE_URL" validate:"required,url"`
		SSL bool   `yaml:"DATABASE_SSL"`
	}

	// AWSSettings is the typed form of the AWS preset.
	AWSSettings struct {
		AccessKeyID     string `yaml:"AWS_ACCESS_KEY_ID" validate:"required"`
		SecretAccessKey string `yaml:"AWS_SECRET_ACCESS_KEY" validate:"required"`
		Region          string `yaml:"AWS_REGION" validate:"required"`
	}

	// AuthSettings is the typed form of the Auth preset.
	AuthSettings struct {
		Secret     string `yaml:"JWT_SECRET" validate:"min=32"`
		Expiration string `yaml:"JWT_EXPIRATION" validate:"duration"`
	}
)

// Validate checks the settings independently of how they were loaded.
func (c CommonSettings) Validate() error {
	return validation.Struct(c)
}

func (c CommonSettings) IsDevelopment() bool { return c.Environment == "development" }
func (c CommonSettings) IsProduction() bool { return c.Environment == "production" }

// Validate checks the settings independently of how they were loaded.
func (d DatabaseSettings) Validate() error {
	return validation.Struct(d)
}

// Scheme returns the lower-cased URL scheme, or "" if the URL cannot be parsed.
func (d DatabaseSettings) Scheme() string {
	u, err := url.Parse(d.URL)
	if err != nil {
		return ""
	}
	return u.Scheme
}

// Validate checks the settings independently of how they were loaded.
func (a AWSSettings) Validate() error {
	return validation.Struct(a)
}

// Validate checks the settings independently of how they were loaded.
func (a AuthSettings) Validate() error {
	return validation.Struct(a)
}

// TTL returns the parsed Expiration.
func (a AuthSettings) TTL() (time.Duration, error) {
	return schema.ParseDuration(a.Expiration)
}
