package schemas

import (
	"encoding/json"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonplaceholder-qa/api-contract-tests/schemaassert"
)

var allSchemas = []string{Post, Comment, User, UserFull, Todo, Album, Photo}

func TestEmbeddedSchemasAreValidJSONObjects(t *testing.T) {
	entries, err := fs.ReadDir(FS, ".")
	require.NoError(t, err)

	count := 0
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".schema.json") {
			continue
		}
		count++
		t.Run(entry.Name(), func(t *testing.T) {
			data, err := FS.ReadFile(entry.Name())
			require.NoError(t, err)
			var doc map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &doc))
			assert.Contains(t, doc, "$schema")
			assert.Equal(t, "object", doc["type"])
		})
	}
	assert.Equal(t, len(allSchemas), count)
}

func TestEmbeddedSchemasCompile(t *testing.T) {
	for _, name := range allSchemas {
		t.Run(name, func(t *testing.T) {
			_, err := schemaassert.NewValidator().Compile(MustLoad(name))
			assert.NoError(t, err)
		})
	}
}

func TestLoadUnknownSchema(t *testing.T) {
	_, err := Load("nope.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.schema.json")
	assert.Panics(t, func() { MustLoad("nope.schema.json") })
}

func TestFullUserSchema(t *testing.T) {
	user := map[string]interface{}{
		"id":       1,
		"name":     "Leanne Graham",
		"username": "Bret",
		"email":    "Sincere@april.biz",
		"address": map[string]interface{}{
			"street":  "Kulas Light",
			"suite":   "Apt. 556",
			"city":    "Gwenborough",
			"zipcode": "92998-3874",
			"geo":     map[string]interface{}{"lat": "-37.3159", "lng": "81.1496"},
		},
		"phone":   "1-770-736-8031 x56442",
		"website": "hildegard.org",
		"company": map[string]interface{}{
			"name":        "Romaguera-Crona",
			"catchPhrase": "Multi-layered client-server neural-net",
			"bs":          "harness real-time e-markets",
		},
	}
	require.NoError(t, schemaassert.AssertSchema(user, MustLoad(UserFull)))

	user["address"].(map[string]interface{})["geo"] = map[string]interface{}{"lat": -37.3159, "lng": "x"}
	err := schemaassert.AssertSchema(user, MustLoad(UserFull))
	require.Error(t, err)
	verr, ok := err.(*schemaassert.SchemaValidationError)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"/address/geo/lat", "/address/geo/lng"}, verr.Locations())
}
