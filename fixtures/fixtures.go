// Package fixtures provides the embedded test-data documents used by the scenario suite. Documents
// may contain payload templates, which are expanded when they are loaded.
package fixtures

import (
	"embed"
	"fmt"

	"github.com/jsonplaceholder-qa/api-contract-tests/payload"
	"github.com/jsonplaceholder-qa/api-contract-tests/servicedef"
	"github.com/jsonplaceholder-qa/api-contract-tests/shape"
)

const (
	ValidPostsFile       = "data/posts.valid.json"
	PatchPayloadsFile    = "data/posts.patch.valid.json"
	InvalidTypePostsFile = "data/posts.invalid-types.json"
)

// LargePostTemplateFiles are expanded into LargePost values.
var LargePostTemplateFiles = []string{
	"data/posts.large.template.json",
	"data/posts.large.template.yaml",
}

//go:embed data
var FS embed.FS

// LargePost is a post payload together with the lengths its title and body are expected to have
// after a round trip through the API.
type LargePost struct {
	Payload  servicedef.NewPost
	Expected shape.ExpectedLengths
}

// ValidPosts returns well-formed post payloads. The second one contains non-ASCII text.
func ValidPosts() ([]servicedef.NewPost, error) {
	var ret []servicedef.NewPost
	if err := payload.LoadInto(FS, ValidPostsFile, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// PatchPayloads returns partial post updates.
func PatchPayloads() ([]map[string]interface{}, error) {
	return loadObjects(PatchPayloadsFile)
}

// InvalidTypePosts returns post payloads whose properties have the wrong JSON types.
func InvalidTypePosts() ([]map[string]interface{}, error) {
	return loadObjects(InvalidTypePostsFile)
}

// LargePosts expands every large-post template.
func LargePosts() ([]LargePost, error) {
	var ret []LargePost
	for _, name := range LargePostTemplateFiles {
		doc, err := payload.Load(FS, name)
		if err != nil {
			return nil, err
		}
		items, ok := doc.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: expected an array of templates", name)
		}
		for i, item := range items {
			var p servicedef.NewPost
			if err := payload.ExpandInto(item, &p); err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			ret = append(ret, LargePost{Payload: p, Expected: shape.PickExpectedLengths(item)})
		}
	}
	return ret, nil
}

func loadObjects(name string) ([]map[string]interface{}, error) {
	var ret []map[string]interface{}
	if err := payload.LoadInto(FS, name, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}
