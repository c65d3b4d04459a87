package config_test

import (
	"math"
	"strings"
	"time"

	"github.com/animalet/sargantana-env/pkg/config"
	"github.com/animalet/sargantana-env/pkg/env"
	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/animalet/sargantana-env/pkg/schema"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
)

var secret = strings.Repeat("x", 32)

func validSnapshot() env.Snapshot {
	return env.Snapshot{
		"NODE_ENV":       "production",
		"PORT":           "8080",
		"DATABASE_URL":   "postgres://app:pw@db:5432/app",
		"DATABASE_SSL":   "yes",
		"JWT_SECRET":     secret,
		"JWT_EXPIRATION": "15m",
	}
}

var _ = Describe("Config", func() {
	var s *schema.Schema

	BeforeEach(func() {
		s = preset.Compose(preset.Common, preset.Database, preset.Auth)
	})

	Context("New", func() {
		It("should build a configuration from a valid snapshot", func() {
			cfg, err := config.New(s, validSnapshot(), env.LogErrors(false))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Schema()).To(BeIdenticalTo(s))
			Expect(cfg.Keys()).To(Equal(s.Names()))
		})

		It("should fail even when ThrowOnError is disabled", func() {
			snap := validSnapshot()
			snap["PORT"] = "-8080"

			cfg, err := config.New(s, snap, env.LogErrors(false), env.ThrowOnError(false))
			Expect(cfg).To(BeNil())
			Expect(err).To(MatchError(ContainSubstring("environment configuration is invalid")))

			var validationErr *env.ValidationError
			Expect(errors.As(err, &validationErr)).To(BeTrue())
			Expect(validationErr.Fields()).To(Equal([]string{"PORT"}))
		})

		It("should read the process environment in Load", func() {
			GinkgoT().Setenv("APP_NAME", "lagartija")

			cfg, err := config.Load(schema.MustNew(schema.String("APP_NAME")), env.LogErrors(false))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.String("APP_NAME")).To(Equal("lagartija"))
		})
	})

	Context("accessors", func() {
		var cfg *config.Config

		BeforeEach(func() {
			withOptional := schema.MustNew(
				append(s.Fields(), schema.String("FEATURE").Optional(), schema.Number("RATIO").Default("0.5"))...,
			)
			var err error
			cfg, err = config.New(withOptional, validSnapshot(), env.LogErrors(false))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return typed values", func() {
			Expect(cfg.String("NODE_ENV")).To(Equal("production"))
			Expect(cfg.Int("PORT")).To(Equal(8080))
			Expect(cfg.Float("RATIO")).To(Equal(0.5))
			Expect(cfg.Bool("DATABASE_SSL")).To(BeTrue())
			Expect(cfg.Duration("JWT_EXPIRATION")).To(Equal(15 * time.Minute))

			port, err := config.Get[float64](cfg, "PORT")
			Expect(err).NotTo(HaveOccurred())
			Expect(port).To(Equal(8080.0))
		})

		It("should distinguish unset optional values from undeclared keys", func() {
			Expect(cfg.Has("FEATURE")).To(BeFalse())
			Expect(cfg.Keys()).NotTo(ContainElement("FEATURE"))

			_, err := cfg.String("FEATURE")
			Expect(err).To(MatchError(env.ErrMissingOrInvalidKey))
			Expect(err.Error()).To(ContainSubstring("is not set"))

			_, err = cfg.String("UNKNOWN")
			Expect(err).To(MatchError(env.ErrMissingOrInvalidKey))
			Expect(err.Error()).To(ContainSubstring("is not declared in the schema"))
		})

		It("should reject a mismatched type", func() {
			_, err := cfg.Bool("PORT")
			Expect(err).To(MatchError(env.ErrMissingOrInvalidKey))
			Expect(err.Error()).To(ContainSubstring("has type float64, not bool"))
		})

		It("should reject fractional values in Int", func() {
			_, err := cfg.Int("RATIO")
			Expect(err).To(MatchError(ContainSubstring("value 0.5 is not an integer")))
		})

		It("should reject integers that do not fit in an int", func() {
			limits := schema.MustNew(schema.Number("MAX"), schema.Number("MIN"))
			c, err := config.New(limits, env.Snapshot{
				"MAX": "9223372036854775808",
				"MIN": "-9223372036854775808",
			}, env.LogErrors(false))
			Expect(err).NotTo(HaveOccurred())

			_, err = c.Int("MAX")
			Expect(err).To(MatchError(env.ErrMissingOrInvalidKey))
			Expect(err.Error()).To(ContainSubstring("is out of range for int"))

			Expect(c.Int("MIN")).To(Equal(math.MinInt))
		})

		It("should reject non-duration strings in Duration", func() {
			_, err := cfg.Duration("NODE_ENV")
			Expect(err).To(MatchError(env.ErrMissingOrInvalidKey))
		})

		It("should expose raw coerced values", func() {
			v, ok := cfg.Value("DATABASE_SSL")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(true))

			_, ok = cfg.Value("FEATURE")
			Expect(ok).To(BeFalse())
		})
	})

	Context("Bind", func() {
		var cfg *config.Config

		BeforeEach(func() {
			var err error
			cfg, err = config.New(s, validSnapshot(), env.LogErrors(false))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should bind preset settings", func() {
			common, err := config.Bind[preset.CommonSettings](cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(*common).To(Equal(preset.CommonSettings{Environment: "production", Port: 8080, LogLevel: "info"}))

			db, err := config.Bind[preset.DatabaseSettings](cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(*db).To(Equal(preset.DatabaseSettings{URL: "postgres://app:pw@db:5432/app", SSL: true}))

			auth, err := config.Bind[preset.AuthSettings](cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(auth.Secret).To(Equal(secret))
			Expect(auth.TTL()).To(Equal(15 * time.Minute))
		})

		It("should validate the bound settings", func() {
			_, err := config.Bind[preset.AWSSettings](cfg)
			Expect(err).To(MatchError(ContainSubstring("bound configuration preset.AWSSettings is invalid")))
		})

		It("should fail when a value does not fit the target type", func() {
			textual, err := config.New(
				schema.MustNew(
					schema.Enum("NODE_ENV", "test"),
					schema.String("PORT"),
					schema.Enum("LOG_LEVEL", "info"),
				),
				env.Snapshot{"NODE_ENV": "test", "PORT": "eighty", "LOG_LEVEL": "info"},
				env.LogErrors(false),
			)
			Expect(err).NotTo(HaveOccurred())

			_, err = config.Bind[preset.CommonSettings](textual)
			Expect(err).To(MatchError(ContainSubstring("error binding configuration")))
		})
	})
})
