package preset_test

import (
	"bytes"
	"strings"
	"sync"

	"github.com/animalet/sargantana-env/pkg/env"
	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/animalet/sargantana-env/pkg/schema"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// captureLog redirects the global logger to a buffer for the current spec.
func captureLog() *bytes.Buffer {
	buf := &bytes.Buffer{}
	previous := log.Logger
	log.Logger = zerolog.New(buf)
	DeferCleanup(func() { log.Logger = previous })
	return buf
}

var _ = Describe("Presets", func() {
	It("should declare the common variables", func() {
		Expect(preset.Common.Names()).To(Equal([]string{"NODE_ENV", "PORT", "LOG_LEVEL"}))

		f, _ := preset.Common.Schema.Field("LOG_LEVEL")
		def, ok := f.DefaultValue()
		Expect(ok).To(BeTrue())
		Expect(def).To(Equal("info"))
	})

	It("should mark credentials as secret", func() {
		for _, p := range []preset.Preset{preset.AWS, preset.Auth} {
			for _, f := range p.Schema.Fields() {
				secret := strings.Contains(f.Name(), "SECRET")
				Expect(f.IsSecret()).To(Equal(secret), f.Name())
			}
		}
	})

	It("should return no names for an empty preset", func() {
		Expect(preset.Preset{Name: "empty"}.Names()).To(BeNil())
	})

	It("should panic on a malformed preset", func() {
		Expect(func() { preset.New("broken", schema.String("A"), schema.String("A")) }).To(Panic())
	})

	Context("Compose", func() {
		It("should union the common and database presets", func() {
			s := preset.Compose(preset.Common, preset.Database)
			Expect(s.Names()).To(ConsistOf("NODE_ENV", "PORT", "LOG_LEVEL", "DATABASE_URL", "DATABASE_SSL"))
			Expect(s.Len()).To(Equal(5))
		})

		It("should leave disjoint fields unchanged", func() {
			s := preset.Compose(preset.Common, preset.Database, preset.AWS, preset.Auth)
			for _, p := range []preset.Preset{preset.Common, preset.Database, preset.AWS, preset.Auth} {
				for _, want := range p.Schema.Fields() {
					got, ok := s.Field(want.Name())
					Expect(ok).To(BeTrue())
					Expect(got).To(Equal(want))
				}
			}
		})

		It("should not log when presets are disjoint", func() {
			buf := captureLog()
			preset.Compose(preset.Common, preset.Database)
			Expect(buf.Len()).To(BeZero())
		})

		It("should let the later preset win and warn about it", func() {
			buf := captureLog()
			custom := preset.New("custom", schema.Number("PORT").Default("8080"))

			s := preset.Compose(preset.Common, custom)
			Expect(s.Names()).To(Equal([]string{"NODE_ENV", "PORT", "LOG_LEVEL"}))

			port, _ := s.Field("PORT")
			def, ok := port.DefaultValue()
			Expect(ok).To(BeTrue())
			Expect(def).To(Equal("8080"))

			Expect(buf.String()).To(ContainSubstring(`"level":"warn"`))
			Expect(buf.String()).To(ContainSubstring(`"env_var":"PORT"`))
			Expect(buf.String()).To(ContainSubstring(`"presets":["common","custom"]`))
		})

		It("should produce a schema Validate accepts", func() {
			s := preset.Compose(preset.Common, preset.Database)
			res, err := env.Validate(s, env.Snapshot{
				"PORT":         "3000",
				"DATABASE_URL": "postgres://localhost:5432/app",
			}, env.LogErrors(false))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Values).To(Equal(map[string]any{
				"NODE_ENV":     "development",
				"PORT":         float64(3000),
				"LOG_LEVEL":    "info",
				"DATABASE_URL": "postgres://localhost:5432/app",
				"DATABASE_SSL": false,
			}))
		})
	})
})

var _ = Describe("Registry", func() {
	It("should list the standard presets", func() {
		Expect(preset.Standard().Names()).To(Equal([]string{"auth", "aws", "common", "database"}))
	})

	It("should compose presets by name", func() {
		s, err := preset.Standard().Compose("common", "auth")
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Names()).To(Equal([]string{"NODE_ENV", "PORT", "LOG_LEVEL", "JWT_SECRET", "JWT_EXPIRATION"}))
	})

	It("should fail on an unknown preset", func() {
		_, err := preset.Standard().Compose("common", "queue")
		Expect(err).To(MatchError(ContainSubstring(`no preset registered as "queue"`)))
	})

	It("should override and warn on re-registration", func() {
		buf := captureLog()
		r := preset.NewRegistry(preset.Common)
		replacement := preset.New("common", schema.String("APP_NAME"))

		r.Register(replacement)

		p, ok := r.Lookup("common")
		Expect(ok).To(BeTrue())
		Expect(p.Names()).To(Equal([]string{"APP_NAME"}))
		Expect(buf.String()).To(ContainSubstring("Overriding existing preset"))
	})

	It("should be safe for concurrent use", func() {
		r := preset.NewRegistry()
		var wg sync.WaitGroup
		for _, name := range []string{"a", "b", "c", "d"} {
			name := name
			wg.Add(2)
			go func() {
				defer wg.Done()
				r.Register(preset.New(name, schema.Bool(strings.ToUpper(name))))
			}()
			go func() {
				defer wg.Done()
				r.Lookup(name)
				r.Names()
			}()
		}
		wg.Wait()
		Expect(r.Names()).To(Equal([]string{"a", "b", "c", "d"}))
	})
})
