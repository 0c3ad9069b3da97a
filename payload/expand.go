// Package payload loads test-data documents and expands the compact templates they may contain.
//
// A template is an ordinary JSON value in which any object of the form
//
//	{"repeat": {"unit": "ab", "times": 3}}
//
// stands for the string "ababab". This keeps large request bodies out of the fixture files.
package payload

import (
	"encoding/json"
	"math"
	"strings"
)

// RepeatKey is the reserved object key that marks a repeat directive.
const RepeatKey = "repeat"

// MaxRepeatLength is the largest string, in bytes, that a single repeat directive may produce.
// Directives that would exceed it expand to "".
const MaxRepeatLength = 64 << 20

// Expand returns a copy of v with every repeat directive replaced by the string it describes.
// Arrays and objects are copied, never modified in place. Other values are returned unchanged.
//
// An object containing RepeatKey becomes a single string even if it has other keys. A unit that is
// not a string counts as "", and a count that is not a number counts as 0. A directive whose result
// would be longer than MaxRepeatLength also expands to "".
func Expand(v interface{}) interface{} {
	switch x := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, item := range x {
			out[i] = Expand(item)
		}
		return out
	case map[string]interface{}:
		if rep, ok := x[RepeatKey]; ok {
			return expandRepeat(rep)
		}
		out := make(map[string]interface{}, len(x))
		for k, item := range x {
			out[k] = Expand(item)
		}
		return out
	default:
		return v
	}
}

func expandRepeat(directive interface{}) string {
	fields, _ := directive.(map[string]interface{})
	unit, _ := fields["unit"].(string)
	count := repeatCount(fields["times"])
	if unit == "" || count == 0 || count > MaxRepeatLength/len(unit) {
		return ""
	}
	return strings.Repeat(unit, count)
}

func repeatCount(v interface{}) int {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 || f > MaxRepeatLength {
		return 0
	}
	return int(f)
}

// ExpandInto expands v and decodes the result into out, which must be a pointer.
func ExpandInto(v interface{}, out interface{}) error {
	data, err := json.Marshal(Expand(v))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
