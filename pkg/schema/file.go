package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Syntax is the file syntax of a schema definition.
type Syntax string

const (
	SyntaxYAML Syntax = "yaml"
	SyntaxTOML Syntax = "toml"
	SyntaxJSON Syntax = "json"
)

type (
	// document is the on-disk layout of a schema definition.
	//
	//	fields:
	//	  - name: NODE_ENV
	//	    type: enum
	//	    values: [development, production, test]
	//	    default: development
	//	  - name: PORT
	//	    type: number
	//	    positive: true
	document struct {
		Fields []fieldDocument `yaml:"fields" toml:"fields" json:"fields"`
	}

	fieldDocument struct {
		Name      string   `yaml:"name" toml:"name" json:"name"`
		Type      string   `yaml:"type" toml:"type" json:"type"`
		Optional  bool     `yaml:"optional,omitempty" toml:"optional,omitempty" json:"optional,omitempty"`
		Default   any      `yaml:"default,omitempty" toml:"default,omitempty" json:"default,omitempty"`
		Secret    bool     `yaml:"secret,omitempty" toml:"secret,omitempty" json:"secret,omitempty"`
		Values    []string `yaml:"values,omitempty" toml:"values,omitempty" json:"values,omitempty"`
		MinLength int      `yaml:"min_length,omitempty" toml:"min_length,omitempty" json:"min_length,omitempty"`
		Pattern   string   `yaml:"pattern,omitempty" toml:"pattern,omitempty" json:"pattern,omitempty"`
		Format    string   `yaml:"format,omitempty" toml:"format,omitempty" json:"format,omitempty"`
		Positive  bool     `yaml:"positive,omitempty" toml:"positive,omitempty" json:"positive,omitempty"`
		Integer   bool     `yaml:"integer,omitempty" toml:"integer,omitempty" json:"integer,omitempty"`
		Min       *float64 `yaml:"min,omitempty" toml:"min,omitempty" json:"min,omitempty"`
		Max       *float64 `yaml:"max,omitempty" toml:"max,omitempty" json:"max,omitempty"`
	}
)

// Load reads a schema definition file. The syntax is chosen from the file
// extension: .yaml/.yml, .toml or .json.
func Load(path string) (*Schema, error) {
	syntax, err := syntaxOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path is provided by the application
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read schema file %q", path)
	}
	s, err := Parse(data, syntax)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load schema file %q", path)
	}
	return s, nil
}

// Parse decodes a schema definition. Malformed fields, including an unknown
// type, are reported as *DefinitionError.
func Parse(data []byte, syntax Syntax) (*Schema, error) {
	var doc document
	var err error
	switch syntax {
	case SyntaxYAML:
		err = yaml.Unmarshal(data, &doc)
	case SyntaxTOML:
		err = toml.Unmarshal(data, &doc)
	case SyntaxJSON:
		err = json.Unmarshal(data, &doc)
	default:
		return nil, errors.Errorf("unsupported schema syntax %q", syntax)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s schema", syntax)
	}

	fields := make([]Field, 0, len(doc.Fields))
	for i, fd := range doc.Fields {
		f, err := fd.field()
		if err != nil {
			var defErr *DefinitionError
			if errors.As(err, &defErr) && defErr.Field == "" {
				defErr.Reason = fmt.Sprintf("field at index %d: %s", i, defErr.Reason)
			}
			return nil, err
		}
		fields = append(fields, f)
	}
	return New(fields...)
}

// Marshal encodes s in the given syntax. The output is accepted by Parse.
func Marshal(s *Schema, syntax Syntax) ([]byte, error) {
	doc := document{Fields: make([]fieldDocument, 0, s.Len())}
	for _, f := range s.fields {
		doc.Fields = append(doc.Fields, documentOf(f))
	}
	switch syntax {
	case SyntaxYAML:
		return yaml.Marshal(&doc)
	case SyntaxTOML:
		return toml.Marshal(&doc)
	case SyntaxJSON:
		return json.MarshalIndent(&doc, "", "  ")
	default:
		return nil, errors.Errorf("unsupported schema syntax %q", syntax)
	}
}

func syntaxOf(path string) (Syntax, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SyntaxYAML, nil
	case ".toml":
		return SyntaxTOML, nil
	case ".json":
		return SyntaxJSON, nil
	default:
		return "", errors.Errorf("cannot infer schema syntax from %q", path)
	}
}

func (fd fieldDocument) field() (Field, error) {
	if fd.Name == "" {
		return Field{}, &DefinitionError{Reason: "missing required key 'name'"}
	}

	var f Field
	switch fd.Type {
	case "string":
		f = Of(fd.Name, StringKind{MinLength: fd.MinLength, Pattern: fd.Pattern, Format: Format(fd.Format)})
	case "number":
		f = Number(fd.Name)
		if fd.Positive {
			f = f.Positive()
		}
		if fd.Integer {
			f = f.Integer()
		}
		if fd.Min != nil {
			f = f.Min(*fd.Min)
		}
		if fd.Max != nil {
			f = f.Max(*fd.Max)
		}
	case "boolean", "bool":
		f = Bool(fd.Name)
	case "enum":
		f = Enum(fd.Name, fd.Values...)
	default:
		return Field{}, &DefinitionError{Field: fd.Name, Reason: fmt.Sprintf("unknown type %q", fd.Type)}
	}

	if fd.Type != "enum" && len(fd.Values) > 0 {
		return Field{}, &DefinitionError{Field: fd.Name, Reason: "values only apply to enum fields"}
	}
	if fd.Type != "string" && (fd.MinLength != 0 || fd.Pattern != "" || fd.Format != "") {
		return Field{}, &DefinitionError{Field: fd.Name, Reason: "min_length, pattern and format only apply to string fields"}
	}
	if fd.Type != "number" && (fd.Positive || fd.Integer || fd.Min != nil || fd.Max != nil) {
		return Field{}, &DefinitionError{Field: fd.Name, Reason: "positive, integer, min and max only apply to number fields"}
	}

	if fd.Optional {
		f = f.Optional()
	}
	if fd.Secret {
		f = f.Secret()
	}
	if fd.Default != nil {
		raw, err := rawDefault(fd.Default)
		if err != nil {
			return Field{}, &DefinitionError{Field: fd.Name, Reason: err.Error()}
		}
		f = f.Default(raw)
	}
	return f, nil
}

// rawDefault turns a decoded scalar back into the raw string form an
// environment variable would have.
func rawDefault(v any) (string, error) {
	switch d := v.(type) {
	case string:
		return d, nil
	case bool:
		return strconv.FormatBool(d), nil
	case int:
		return strconv.Itoa(d), nil
	case int64:
		return strconv.FormatInt(d, 10), nil
	case uint64:
		return strconv.FormatUint(d, 10), nil
	case float64:
		return strconv.FormatFloat(d, 'f', -1, 64), nil
	default:
		return "", errors.Errorf("default must be a scalar, got %T", v)
	}
}

func documentOf(f Field) fieldDocument {
	fd := fieldDocument{
		Name:     f.name,
		Optional: f.optional,
		Secret:   f.secret,
	}
	if def, ok := f.DefaultValue(); ok {
		fd.Default = def
	}
	switch k := cloneKind(f.kind).(type) {
	case StringKind:
		fd.Type = k.KindName()
		fd.MinLength = k.MinLength
		fd.Pattern = k.Pattern
		fd.Format = string(k.Format)
	case NumberKind:
		fd.Type = k.KindName()
		fd.Positive = k.Positive
		fd.Integer = k.Integer
		fd.Min = k.Min
		fd.Max = k.Max
	case BoolKind:
		fd.Type = k.KindName()
	case EnumKind:
		fd.Type = k.KindName()
		fd.Values = k.Values
	}
	return fd
}
