package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the syntax of a test-data document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks a Format from a file name extension. Anything other than .yaml or .yml is JSON.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a document into plain Go values: map[string]interface{}, []interface{}, string,
// float64 or int, bool, and nil. Templates are not expanded.
func Decode(data []byte, format Format) (interface{}, error) {
	var v interface{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		return normalizeYAML(v), nil
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if dec.More() {
			return nil, fmt.Errorf("invalid JSON: unexpected data after top-level value")
		}
		return v, nil
	}
}

// yaml.v3 produces map[interface{}]interface{} for mappings whose keys are not all strings.
func normalizeYAML(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, item := range x {
			out[k] = normalizeYAML(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, item := range x {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}

// Load reads a document from fsys and returns it with templates expanded.
func Load(fsys fs.FS, name string) (interface{}, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	v, err := Decode(data, FormatOf(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return Expand(v), nil
}

// LoadFile reads a document from disk and returns it with templates expanded.
func LoadFile(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Decode(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Expand(v), nil
}

// LoadInto reads a document from fsys, expands it, and decodes it into out.
func LoadInto(fsys fs.FS, name string, out interface{}) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	v, err := Decode(data, FormatOf(name))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := ExpandInto(v, out); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
