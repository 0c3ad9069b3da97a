// Package schemas provides the embedded JSON Schema documents that describe the upstream resources.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
)

// Names of the embedded schema documents.
const (
	Post     = "post.schema.json"
	Comment  = "comment.schema.json"
	User     = "user.schema.json"
	UserFull = "user.full.schema.json"
	Todo     = "todo.schema.json"
	Album    = "album.schema.json"
	Photo    = "photo.schema.json"
)

// FS contains the embedded schema files.
//
//go:embed *.schema.json
var FS embed.FS

// Load returns the raw JSON of an embedded schema.
func Load(name string) (json.RawMessage, error) {
	data, err := FS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read schema %q: %w", name, err)
	}
	return json.RawMessage(data), nil
}

// MustLoad is like Load but panics if the schema does not exist. It is meant for package-level
// variables and test setup, where a missing schema is a programming error.
func MustLoad(name string) json.RawMessage {
	data, err := Load(name)
	if err != nil {
		panic(err)
	}
	return data
}
