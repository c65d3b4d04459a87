package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/animalet/sargantana-env/pkg/env"
	"github.com/animalet/sargantana-env/pkg/preset"
	"github.com/animalet/sargantana-env/pkg/schema"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version information set during build
var (
	version = "dev"
)

const (
	exitSuccess = 0
	exitError   = 1
	exitInvalid = 2
)

type options struct {
	schemaPath  string
	presets     []string
	printFormat string
	debug       bool
	showVersion bool
	showHelp    bool
}

func main() {
	os.Exit(runWithArgs(os.Args[1:]))
}

func runWithArgs(args []string) int {
	return run(args, os.Environ(), os.Stdout, os.Stderr)
}

func run(args, environ []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr)
		return exitError
	}
	if opts.showHelp {
		printUsage(stdout)
		return exitSuccess
	}
	if opts.showVersion {
		_, _ = fmt.Fprintf(stdout, "envcheck version %s\n", version)
		return exitSuccess
	}

	setupLogging(opts.debug, stderr)

	s, err := buildSchema(opts, preset.Standard())
	if err != nil {
		log.Error().Err(err).Msg("Unable to build schema")
		return exitError
	}

	if opts.printFormat != "" {
		data, err := schema.Marshal(s, schema.Syntax(opts.printFormat))
		if err != nil {
			log.Error().Err(err).Msg("Unable to print schema")
			return exitError
		}
		_, _ = stdout.Write(data)
		return exitSuccess
	}

	log.Debug().Strs("env_vars", s.Names()).Msg("Validating environment")
	res, err := env.Validate(s, env.FromEnviron(environ), env.ThrowOnError(false))
	if err != nil {
		log.Error().Err(err).Msg("Unable to validate environment")
		return exitError
	}
	if !res.OK() {
		return exitInvalid
	}
	report(stdout, s, res)
	return exitSuccess
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("envcheck", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	opts := &options{}
	var presets string
	fs.StringVar(&opts.schemaPath, "schema", "", "Path to a schema file (.yaml, .toml or .json)")
	fs.StringVar(&presets, "preset", "", "Comma separated presets to compose")
	fs.StringVar(&opts.printFormat, "print", "", "Print the composed schema as yaml, toml or json and exit")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.showHelp, "help", false, "Show this help message")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			opts.showHelp = true
			return opts, nil
		}
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	for _, name := range strings.Split(presets, ",") {
		if name = strings.TrimSpace(name); name != "" {
			opts.presets = append(opts.presets, name)
		}
	}
	switch opts.printFormat {
	case "", string(schema.SyntaxYAML), string(schema.SyntaxTOML), string(schema.SyntaxJSON):
	default:
		return nil, errors.Errorf("unsupported print format %q", opts.printFormat)
	}
	return opts, nil
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, `Usage: envcheck [options]

Validates the current environment variables against presets and/or a schema
file. Every invalid variable is reported before exiting.

Options:
  --schema <path>      Schema file (.yaml, .yml, .toml or .json)
  --preset <names>     Comma separated presets: %s
  --print <format>     Print the composed schema as yaml, toml or json and exit
  --debug              Enable debug logging
  --version            Show version information
  --help, -h           Show this help message

Exit codes:
  0  environment is valid
  1  usage or schema error
  2  one or more variables are invalid

Examples:
  envcheck --preset common,database
  envcheck --preset common --schema env.yaml
  envcheck --preset common,auth --print yaml

For more information, visit: https://github.com/animalet/sargantana-env
`, strings.Join(preset.Standard().Names(), ", "))
}

func setupLogging(debug bool, w io.Writer) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: "2006-01-02 15:04:05",
	})
}

// buildSchema composes the selected presets and the schema file, in that
// order, so the file can redeclare preset variables.
func buildSchema(opts *options, registry *preset.Registry) (*schema.Schema, error) {
	if opts.schemaPath == "" && len(opts.presets) == 0 {
		return nil, errors.New("--schema or --preset is required")
	}

	var schemas []*schema.Schema
	if len(opts.presets) > 0 {
		s, err := registry.Compose(opts.presets...)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	if opts.schemaPath != "" {
		s, err := schema.Load(opts.schemaPath)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}

	merged, overridden := schema.Merge(schemas...)
	for _, name := range overridden {
		log.Warn().Str("env_var", name).Msg("Schema file redeclares a preset variable")
	}
	return merged, nil
}

func report(w io.Writer, s *schema.Schema, res *env.Result) {
	for _, f := range s.Fields() {
		v, ok := res.Values[f.Name()]
		switch {
		case !ok:
			_, _ = fmt.Fprintf(w, "%s (unset)\n", f.Name())
		case f.IsSecret():
			_, _ = fmt.Fprintf(w, "%s=[redacted]\n", f.Name())
		default:
			_, _ = fmt.Fprintf(w, "%s=%v\n", f.Name(), v)
		}
	}
}
