package preset_test

import (
	"strings"
	"time"

	"github.com/animalet/sargantana-env/pkg/env"
	"github.com/animalet/sargantana-env/pkg/preset"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Settings", func() {
	DescribeTable("CommonSettings.Validate",
		func(s preset.CommonSettings, message string) {
			err := s.Validate()
			if message == "" {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(ContainSubstring(message)))
		},
		Entry("valid", preset.CommonSettings{Environment: "production", Port: 80, LogLevel: "warn"}, ""),
		Entry("unknown environment", preset.CommonSettings{Environment: "staging", Port: 80, LogLevel: "info"}, "NODE_ENV must be one of: development, production, test"),
		Entry("zero port", preset.CommonSettings{Environment: "test", LogLevel: "info"}, "PORT must be a positive number"),
		Entry("unknown log level", preset.CommonSettings{Environment: "test", Port: 80, LogLevel: "trace"}, "LOG_LEVEL must be one of: error, warn, info, debug"),
	)

	It("should report the environment", func() {
		Expect(preset.CommonSettings{Environment: "development"}.IsDevelopment()).To(BeTrue())
		Expect(preset.CommonSettings{Environment: "production"}.IsProduction()).To(BeTrue())
		Expect(preset.CommonSettings{Environment: "test"}.IsDevelopment()).To(BeFalse())
	})

	DescribeTable("DatabaseSettings.Validate",
		func(s preset.DatabaseSettings, message string) {
			err := s.Validate()
			if message == "" {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(ContainSubstring(message)))
		},
		Entry("valid", preset.DatabaseSettings{URL: "postgres://localhost/app"}, ""),
		Entry("multiple hosts", preset.DatabaseSettings{URL: "mongodb://mongo-1:27017,mongo-2:27017/app"}, ""),
		Entry("empty", preset.DatabaseSettings{}, "DATABASE_URL is required"),
		Entry("no scheme", preset.DatabaseSettings{URL: "localhost/app"}, "DATABASE_URL must be a valid URL"),
		Entry("unparsable", preset.DatabaseSettings{URL: "postgres://[::1"}, "DATABASE_URL must be a valid URL"),
	)

	It("should expose the database scheme", func() {
		Expect(preset.DatabaseSettings{URL: "REDIS://cache:6379"}.Scheme()).To(Equal("redis"))
		Expect(preset.DatabaseSettings{URL: "postgres://[::1"}.Scheme()).To(BeEmpty())
	})

	DescribeTable("AWSSettings.Validate",
		func(s preset.AWSSettings, message string) {
			err := s.Validate()
			if message == "" {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(message))
		},
		Entry("valid", preset.AWSSettings{AccessKeyID: "AKIA", SecretAccessKey: "secret", Region: "eu-west-1"}, ""),
		Entry("no key", preset.AWSSettings{SecretAccessKey: "secret", Region: "eu-west-1"}, "AWS_ACCESS_KEY_ID is required"),
		Entry("no secret", preset.AWSSettings{AccessKeyID: "AKIA", Region: "eu-west-1"}, "AWS_SECRET_ACCESS_KEY is required"),
		Entry("no region", preset.AWSSettings{AccessKeyID: "AKIA", SecretAccessKey: "secret"}, "AWS_REGION is required"),
	)

	It("should validate auth settings", func() {
		secret := strings.Repeat("k", 32)

		s := preset.AuthSettings{Secret: secret, Expiration: "7d"}
		Expect(s.Validate()).To(Succeed())
		ttl, err := s.TTL()
		Expect(err).NotTo(HaveOccurred())
		Expect(ttl).To(Equal(7 * 24 * time.Hour))

		Expect(preset.AuthSettings{Secret: "short", Expiration: "7d"}.Validate()).To(MatchError("JWT_SECRET must be at least 32 characters long"))
		Expect(preset.AuthSettings{Secret: secret, Expiration: "soon"}.Validate()).To(MatchError("JWT_EXPIRATION must be a duration such as 15m or 7d"))
		Expect(preset.AuthSettings{Secret: secret, Expiration: "200000000d"}.Validate()).To(MatchError("JWT_EXPIRATION must be a duration such as 15m or 7d"))
	})

	It("should count secret length in characters like the JWT_SECRET field", func() {
		secret := strings.Repeat("ñ", 31)
		Expect(len(secret)).To(BeNumerically(">=", 32))
		Expect(preset.AuthSettings{Secret: secret, Expiration: "15m"}.Validate()).To(MatchError(ContainSubstring("JWT_SECRET")))

		_, err := env.Get(preset.Auth.Schema, env.Snapshot{"JWT_SECRET": secret}, "JWT_SECRET")
		Expect(err).To(MatchError(ContainSubstring("at least 32 characters")))

		Expect(preset.AuthSettings{Secret: strings.Repeat("ñ", 32), Expiration: "15m"}.Validate()).To(Succeed())
	})

	It("should report every invalid setting at once", func() {
		err := preset.CommonSettings{Environment: "staging", LogLevel: "trace"}.Validate()
		Expect(err).To(MatchError("NODE_ENV must be one of: development, production, test; " +
			"PORT must be a positive number; LOG_LEVEL must be one of: error, warn, info, debug"))
	})
})
