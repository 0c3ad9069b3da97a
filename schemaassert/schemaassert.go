// Package schemaassert validates decoded JSON values against JSON Schema documents and reports
// every violation at once in a readable form.
//
// Validation is deliberately lenient about shape: properties that a schema does not declare are
// allowed, because the upstream service may add fields. Format keywords such as "email" and "uri"
// are asserted. A schema without "$schema" is treated as draft-07.
package schemaassert

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RootLocation is reported for a violation that has neither an instance nor a keyword location.
const RootLocation = "<root>"

const resourceURLPrefix = "mem://schemas/"

// Default is the process-wide validator used by AssertSchema and RequireSchema.
var Default = NewValidator()

// AssertSchema validates data against schema using the Default validator. It returns nil if data is
// valid, and a *SchemaValidationError listing all violations if it is not. Any other error means
// that schema or data could not be processed at all.
func AssertSchema(data, schema interface{}) error {
	return Default.Validate(data, schema)
}

// RequireSchema fails the test immediately if data does not match schema.
func RequireSchema(t require.TestingT, data, schema interface{}, msgAndArgs ...interface{}) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.NoError(t, AssertSchema(data, schema), msgAndArgs...)
}

// Validator compiles schemas and validates values against them. Compiled schemas are cached by
// content, and a Validator is safe for concurrent use.
type Validator struct {
	defaultDraft *jsonschema.Draft
	assertFormat bool
	printer      *message.Printer
	compiled     map[string]*jsonschema.Schema
	lock         sync.Mutex
}

// Option configures a Validator.
type Option func(*Validator)

// WithDefaultDraft sets the draft used for schemas that do not declare "$schema".
func WithDefaultDraft(draft *jsonschema.Draft) Option {
	return func(v *Validator) { v.defaultDraft = draft }
}

// WithoutFormatAssertions makes "format" an annotation only, for every draft. The "regex" format is
// always checked by the engine.
func WithoutFormatAssertions() Option {
	return func(v *Validator) { v.assertFormat = false }
}

func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		defaultDraft: jsonschema.Draft7,
		assertFormat: true,
		printer:      message.NewPrinter(language.English),
		compiled:     make(map[string]*jsonschema.Schema),
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

var knownFormats = []string{
	"date", "date-time", "duration", "email", "hostname", "idn-email", "idn-hostname",
	"ipv4", "ipv6", "iri", "iri-reference", "json-pointer", "period",
	"relative-json-pointer", "semver", "time", "uri", "uri-reference", "uri-template", "uuid",
}

func acceptAnyValue(interface{}) error { return nil }

// Compile returns the compiled form of a schema document. The document can be raw JSON ([]byte or
// json.RawMessage) or any value that encoding/json can marshal.
func (v *Validator) Compile(schema interface{}) (*jsonschema.Schema, error) {
	doc, raw, err := toJSONValue(schema)
	if err != nil {
		return nil, fmt.Errorf("invalid schema document: %w", err)
	}
	sum := sha256.Sum256(raw)
	key := hex.EncodeToString(sum[:])

	v.lock.Lock()
	defer v.lock.Unlock()
	if compiled, ok := v.compiled[key]; ok {
		return compiled, nil
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(v.defaultDraft)
	if v.assertFormat {
		c.AssertFormat()
	} else {
		// Drafts before 2019-09 always assert formats, so replace the checks instead.
		for _, name := range knownFormats {
			c.RegisterFormat(&jsonschema.Format{Name: name, Validate: acceptAnyValue})
		}
	}
	url := resourceURLPrefix + key + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	v.compiled[key] = compiled
	return compiled, nil
}

// Validate checks data against schema. See AssertSchema.
func (v *Validator) Validate(data, schema interface{}) error {
	compiled, err := v.Compile(schema)
	if err != nil {
		return err
	}
	instance, _, err := toJSONValue(data)
	if err != nil {
		return fmt.Errorf("data is not a JSON value: %w", err)
	}
	err = compiled.Validate(instance)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return &SchemaValidationError{Records: v.records(verr)}
}

// The engine reports a tree of errors; the leaves are the individual violations.
func (v *Validator) records(root *jsonschema.ValidationError) []ErrorRecord {
	var out []ErrorRecord
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, ErrorRecord{
				Location: location(e),
				Message:  e.ErrorKind.LocalizedString(v.printer),
				Params:   params(e.ErrorKind),
			})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(root)
	return out
}

func location(e *jsonschema.ValidationError) string {
	if len(e.InstanceLocation) > 0 {
		return instancePointer(e.InstanceLocation)
	}
	if kw := keywordLocation(e); kw != "" {
		return kw
	}
	return RootLocation
}

func instancePointer(tokens []string) string {
	var b strings.Builder
	for _, tok := range tokens {
		tok = strings.ReplaceAll(tok, "~", "~0")
		tok = strings.ReplaceAll(tok, "/", "~1")
		b.WriteString("/")
		b.WriteString(tok)
	}
	return b.String()
}

func keywordLocation(e *jsonschema.ValidationError) string {
	var fragment string
	if i := strings.IndexByte(e.SchemaURL, '#'); i >= 0 {
		fragment = e.SchemaURL[i+1:]
	}
	path := fragment
	if kp := e.ErrorKind.KeywordPath(); len(kp) > 0 {
		path += "/" + strings.Join(kp, "/")
	}
	if path == "" {
		return ""
	}
	return "#" + path
}

func params(k jsonschema.ErrorKind) map[string]interface{} {
	out := map[string]interface{}{}
	data, err := json.Marshal(k)
	if err != nil {
		return out
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return out
	}
	for name, value := range fields {
		out[lowerFirst(name)] = value
	}
	return out
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func toJSONValue(x interface{}) (interface{}, []byte, error) {
	var raw []byte
	switch d := x.(type) {
	case []byte:
		raw = d
	case json.RawMessage:
		raw = d
	default:
		encoded, err := json.Marshal(x)
		if err != nil {
			return nil, nil, err
		}
		raw = encoded
	}
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, err
	}
	return value, raw, nil
}
