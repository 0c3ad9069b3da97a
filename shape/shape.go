// Package shape contains small total helpers for inspecting decoded JSON values. None of them can
// fail, so tests can use their results directly in assertions without branching.
package shape

import (
	"encoding/json"
	"reflect"
	"strings"
	"unicode/utf8"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ExpectedLengths are the expected title and body lengths declared by a test payload.
type ExpectedLengths struct {
	TitleLength int `json:"titleLength"`
	BodyLength  int `json:"bodyLength"`
}

type malformed struct{}

func (malformed) String() string { return "<malformed JSON>" }

// Malformed is returned by SafeParseJSON for text that is not valid JSON. It is distinct from nil,
// which is what the JSON literal null decodes to.
var Malformed interface{} = malformed{}

// StrLen returns the number of Unicode code points in v if it is a string, or 0 otherwise.
func StrLen(v interface{}) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	return utf8.RuneCountInString(s)
}

// PickExpectedLengths reads expect.titleLength and expect.bodyLength from any JSON-like value.
// Missing or non-numeric fields are 0.
func PickExpectedLengths(input interface{}) ExpectedLengths {
	expect := toValue(input).GetByKey("expect")
	return ExpectedLengths{
		TitleLength: intOrZero(expect.GetByKey("titleLength")),
		BodyLength:  intOrZero(expect.GetByKey("bodyLength")),
	}
}

func intOrZero(v ldvalue.Value) int {
	if !v.IsNumber() {
		return 0
	}
	return v.IntValue()
}

func toValue(input interface{}) ldvalue.Value {
	if v, ok := input.(ldvalue.Value); ok {
		return v
	}
	return ldvalue.CopyArbitraryValue(input)
}

// IsPlainEmptyObject returns true if v is a JSON object with no properties. Arrays, nil, scalars,
// and non-empty objects are not.
func IsPlainEmptyObject(v interface{}) bool {
	switch o := v.(type) {
	case nil:
		return false
	case map[string]interface{}:
		return o != nil && len(o) == 0
	case ldvalue.Value:
		return o.Type() == ldvalue.ObjectType && o.Count() == 0
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Map && !rv.IsNil() && rv.Len() == 0
}

// SafeParseJSON decodes text as JSON. Empty or whitespace-only text is treated as an empty object,
// and invalid JSON yields Malformed.
func SafeParseJSON(text string) interface{} {
	if strings.TrimSpace(text) == "" {
		return map[string]interface{}{}
	}
	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return Malformed
	}
	return v
}

// IsMalformed returns true if v is the Malformed value returned by SafeParseJSON.
func IsMalformed(v interface{}) bool {
	_, ok := v.(malformed)
	return ok
}
