package apitests

import (
	"errors"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonplaceholder-qa/api-contract-tests/client"
	"github.com/jsonplaceholder-qa/api-contract-tests/schemaassert"
	"github.com/jsonplaceholder-qa/api-contract-tests/schemas"
)

// RequireStatus fails the test immediately unless the response has the given status.
func (t *T) RequireStatus(resp *client.Response, status int) {
	require.Equal(t, status, resp.StatusCode, "status of response: %s", abbreviated(resp))
}

// RequireSuccess fails the test immediately unless the status is 2xx.
func (t *T) RequireSuccess(resp *client.Response) {
	require.True(t, resp.IsSuccess(), "expected 2xx status but got %d: %s", resp.StatusCode, abbreviated(resp))
}

// AssertJSONContentType checks that the Content-Type header mentions application/json.
func (t *T) AssertJSONContentType(resp *client.Response) {
	assert.Contains(t, resp.ContentType(), "application/json", "Content-Type")
}

// RequireArray decodes the body as a JSON array.
func (t *T) RequireArray(resp *client.Response) []map[string]interface{} {
	var items []map[string]interface{}
	require.NoError(t, resp.JSON(&items), "expected a JSON array of objects")
	require.NotNil(t, items, "expected a JSON array of objects but got null")
	return items
}

// RequireObject decodes the body as a JSON object.
func (t *T) RequireObject(resp *client.Response) map[string]interface{} {
	var obj map[string]interface{}
	require.NoError(t, resp.JSON(&obj), "expected a JSON object")
	require.NotNil(t, obj, "expected a JSON object but got null")
	return obj
}

// RequireSchema fails the test immediately if value does not match the named embedded schema.
func (t *T) RequireSchema(value interface{}, schemaName string) {
	schemaassert.RequireSchema(t, value, schemas.MustLoad(schemaName), "%s", schemaName)
}

// RequireSchemaViolation fails the test immediately unless value is checked against the named
// embedded schema and found not to match it. A schema that cannot be compiled, or a value that
// cannot be encoded, is a failure too.
func (t *T) RequireSchemaViolation(value interface{}, schemaName string) *schemaassert.SchemaValidationError {
	err := schemaassert.AssertSchema(value, schemas.MustLoad(schemaName))
	require.Error(t, err, "expected value not to match %s: %v", schemaName, value)
	var verr *schemaassert.SchemaValidationError
	require.True(t, errors.As(err, &verr), "expected a %s violation but validation failed with: %s", schemaName, err)
	return verr
}

// RequireEachMatches validates every item against the named schema, and also checks that
// property key has the value want, unless key is empty.
func (t *T) RequireEachMatches(items []map[string]interface{}, schemaName, key string, want interface{}) {
	for _, item := range items {
		t.RequireSchema(item, schemaName)
		if key != "" {
			require.EqualValues(t, want, item[key], "%s of item %v", key, item["id"])
		}
	}
}

func abbreviated(resp *client.Response) string {
	const maxLen = 300
	text := strings.TrimSpace(resp.Text())
	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}
