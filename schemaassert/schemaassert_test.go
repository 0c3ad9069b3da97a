package schemaassert

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"id", "userId", "title", "body"},
	"properties": map[string]interface{}{
		"id":     map[string]interface{}{"type": "integer", "minimum": 1},
		"userId": map[string]interface{}{"type": "integer", "minimum": 1},
		"title":  map[string]interface{}{"type": "string"},
		"body":   map[string]interface{}{"type": "string"},
	},
}

const userSchema2020 = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["email", "address"],
  "properties": {
    "email": {"type": "string", "format": "email"},
    "address": {
      "type": "object",
      "properties": {"geo": {"$ref": "#/$defs/geo"}}
    }
  },
  "$defs": {
    "geo": {
      "type": "object",
      "required": ["lat", "lng"],
      "properties": {"lat": {"type": "string"}, "lng": {"type": "string"}}
    }
  }
}`

func requireValidationError(t *testing.T, err error) *SchemaValidationError {
	t.Helper()
	require.Error(t, err)
	var verr *SchemaValidationError
	require.True(t, errors.As(err, &verr), "expected *SchemaValidationError, got %T: %s", err, err)
	return verr
}

func TestValidDataPasses(t *testing.T) {
	post := map[string]interface{}{"id": 1, "userId": 1, "title": "t", "body": "b"}
	assert.NoError(t, AssertSchema(post, postSchema))
}

func TestUndeclaredPropertiesAreAllowed(t *testing.T) {
	post := map[string]interface{}{"id": 1, "userId": 1, "title": "t", "body": "b", "extra": []int{1}}
	assert.NoError(t, AssertSchema(post, postSchema))
}

func TestAllViolationsAreReportedTogether(t *testing.T) {
	post := map[string]interface{}{"id": 1, "userId": "one", "title": 123, "body": true}
	verr := requireValidationError(t, AssertSchema(post, postSchema))

	assert.ElementsMatch(t, []string{"/userId", "/title", "/body"}, verr.Locations())
	for _, r := range verr.Records {
		assert.NotEmpty(t, r.Message)
		assert.NotNil(t, r.Params)
	}
}

func TestErrorReportFormat(t *testing.T) {
	post := map[string]interface{}{"id": 1, "userId": 1, "title": 123, "body": "b"}
	verr := requireValidationError(t, AssertSchema(post, postSchema))
	require.Len(t, verr.Records, 1)

	lines := strings.Split(verr.Error(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "schema validation failed:", lines[0])
	r := verr.Records[0]
	assert.True(t, strings.HasPrefix(lines[1], "/title — "+r.Message+" ("), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], ")"), lines[1])
}

func TestMissingRequiredPropertyUsesKeywordLocation(t *testing.T) {
	post := map[string]interface{}{"userId": 1, "title": "t", "body": "b"}
	verr := requireValidationError(t, AssertSchema(post, postSchema))
	require.Len(t, verr.Records, 1)
	assert.Equal(t, "#/required", verr.Records[0].Location)
	assert.Contains(t, verr.Records[0].Message, "id")
}

func TestTypeMismatchOfWholeValue(t *testing.T) {
	verr := requireValidationError(t, AssertSchema("not an object", postSchema))
	require.Len(t, verr.Records, 1)
	assert.Equal(t, "#/type", verr.Records[0].Location)
}

func TestFalseSchemaReportsRootLocation(t *testing.T) {
	verr := requireValidationError(t, AssertSchema(1, false))
	require.Len(t, verr.Records, 1)
	assert.Equal(t, RootLocation, verr.Records[0].Location)
}

func TestFormatsAreAsserted(t *testing.T) {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"email": map[string]interface{}{"type": "string", "format": "email"}},
	}
	verr := requireValidationError(t, AssertSchema(map[string]interface{}{"email": "not-an-email"}, schema))
	assert.Equal(t, []string{"/email"}, verr.Locations())

	lenient := NewValidator(WithoutFormatAssertions())
	assert.NoError(t, lenient.Validate(map[string]interface{}{"email": "not-an-email"}, schema))
}

func TestFormatsAreAnnotationsWhenDisabledForEveryDraft(t *testing.T) {
	lenient := NewValidator(WithoutFormatAssertions())
	data := map[string]interface{}{"email": "not-an-email", "site": "::", "when": "yesterday"}
	props := map[string]interface{}{
		"email": map[string]interface{}{"type": "string", "format": "email"},
		"site":  map[string]interface{}{"type": "string", "format": "uri"},
		"when":  map[string]interface{}{"type": "string", "format": "date-time"},
	}
	for _, draft := range []string{
		"",
		"http://json-schema.org/draft-04/schema#",
		"http://json-schema.org/draft-07/schema#",
		"https://json-schema.org/draft/2020-12/schema",
	} {
		schema := map[string]interface{}{"type": "object", "properties": props}
		if draft != "" {
			schema["$schema"] = draft
		}
		assert.NoError(t, lenient.Validate(data, schema), draft)
		verr := requireValidationError(t, AssertSchema(data, schema))
		assert.Len(t, verr.Records, 3, draft)
	}

	typeStillChecked := requireValidationError(t, lenient.Validate(map[string]interface{}{"email": 1}, map[string]interface{}{
		"type": "object", "properties": props,
	}))
	assert.Equal(t, []string{"/email"}, typeStillChecked.Locations())
}

func TestDraft2020SchemaWithRefs(t *testing.T) {
	valid := `{"email": "a@b.example", "address": {"geo": {"lat": "1.5", "lng": "-2"}}}`
	assert.NoError(t, AssertSchema([]byte(valid), []byte(userSchema2020)))

	invalid := `{"email": "a@b.example", "address": {"geo": {"lat": 1.5, "lng": "-2"}}}`
	verr := requireValidationError(t, AssertSchema([]byte(invalid), []byte(userSchema2020)))
	assert.Equal(t, []string{"/address/geo/lat"}, verr.Locations())
}

func TestPointerTokensAreEscaped(t *testing.T) {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"a/b~c": map[string]interface{}{"type": "string"}},
	}
	verr := requireValidationError(t, AssertSchema(map[string]interface{}{"a/b~c": 1}, schema))
	assert.Equal(t, []string{"/a~1b~0c"}, verr.Locations())
}

func TestArrayItemsAreLocatedByIndex(t *testing.T) {
	schema := map[string]interface{}{"type": "array", "items": postSchema}
	posts := []interface{}{
		map[string]interface{}{"id": 1, "userId": 1, "title": "t", "body": "b"},
		map[string]interface{}{"id": 2, "userId": 1, "title": "t", "body": 2},
	}
	verr := requireValidationError(t, AssertSchema(posts, schema))
	assert.Equal(t, []string{"/1/body"}, verr.Locations())
}

func TestStructDataIsAccepted(t *testing.T) {
	type post struct {
		ID     int    `json:"id"`
		UserID int    `json:"userId"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	}
	assert.NoError(t, AssertSchema(post{ID: 1, UserID: 2, Title: "x", Body: "y"}, postSchema))
	verr := requireValidationError(t, AssertSchema(post{ID: 0, UserID: 2}, postSchema))
	assert.Equal(t, []string{"/id"}, verr.Locations())
}

func TestInvalidSchemaIsAnOrdinaryError(t *testing.T) {
	err := AssertSchema(map[string]interface{}{}, map[string]interface{}{"type": 12})
	require.Error(t, err)
	var verr *SchemaValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestUnencodableDataIsAnOrdinaryError(t *testing.T) {
	err := AssertSchema(map[string]interface{}{"f": func() {}}, postSchema)
	require.Error(t, err)
	var verr *SchemaValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestMalformedRawJSONIsAnOrdinaryError(t *testing.T) {
	err := AssertSchema([]byte(`{"id":`), postSchema)
	require.Error(t, err)
	var verr *SchemaValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestCompiledSchemasAreCached(t *testing.T) {
	v := NewValidator()
	s1, err := v.Compile(postSchema)
	require.NoError(t, err)
	s2, err := v.Compile(map[string]interface{}{
		"required":   []interface{}{"id", "userId", "title", "body"},
		"type":       "object",
		"properties": postSchema["properties"],
	})
	require.NoError(t, err)
	assert.Same(t, s1, s2)
	assert.Len(t, v.compiled, 1)
}

func TestDefaultDraftOption(t *testing.T) {
	// In draft-04 exclusiveMinimum is a boolean modifier; in draft-07 it must be a number.
	schema := map[string]interface{}{"type": "integer", "minimum": 1, "exclusiveMinimum": true}
	_, err := NewValidator().Compile(schema)
	assert.Error(t, err)

	v := NewValidator(WithDefaultDraft(jsonschema.Draft4))
	require.NoError(t, v.Validate(2, schema))
	verr := requireValidationError(t, v.Validate(1, schema))
	assert.Len(t, verr.Records, 1)
}

func TestConcurrentValidation(t *testing.T) {
	v := NewValidator()
	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := 0; i < len(errs); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			post := map[string]interface{}{"id": i + 1, "userId": 1, "title": fmt.Sprint(i), "body": "b"}
			errs[i] = v.Validate(post, postSchema)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

type fakeTestingT struct {
	errors []string
	failed bool
}

func (f *fakeTestingT) Errorf(format string, args ...interface{}) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *fakeTestingT) FailNow() { f.failed = true }

func TestRequireSchema(t *testing.T) {
	ok := &fakeTestingT{}
	RequireSchema(ok, map[string]interface{}{"id": 1, "userId": 1, "title": "t", "body": "b"}, postSchema)
	assert.False(t, ok.failed)
	assert.Empty(t, ok.errors)

	bad := &fakeTestingT{}
	RequireSchema(bad, map[string]interface{}{"id": 1}, postSchema, "post %d", 1)
	assert.True(t, bad.failed)
	require.Len(t, bad.errors, 1)
	assert.Contains(t, bad.errors[0], "schema validation failed:")
	assert.Contains(t, bad.errors[0], "post 1")
}
