// Package curl renders HTTP request descriptions as single-line curl commands, so that a failed
// request can be replayed by hand from a test report.
package curl

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// Method is an HTTP method supported by the upstream API.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Header is a single request header. Headers are kept in a slice rather than a map so that the
// rendered command lists them in a predictable order.
type Header struct {
	Name  string
	Value string
}

// Input describes the request to reproduce.
//
// Data is the request body. A nil Data means there is no body. Strings and byte slices are used
// as-is; any other value is serialized as JSON.
type Input struct {
	Method  Method
	URL     string
	Headers []Header
	Data    interface{}
}

// HeadersFromMap converts a header map into a slice sorted by header name.
func HeadersFromMap(m map[string]string) []Header {
	ret := make([]Header, 0, len(m))
	for k, v := range m {
		ret = append(ret, Header{Name: k, Value: v})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

// ToCurl builds a portable curl command line for the request. Every argument that can contain
// arbitrary text is double-quoted, which both POSIX shells and Windows shells accept.
func ToCurl(in Input) string {
	parts := []string{"curl", "-i", "-X", string(in.Method)}
	for _, h := range in.Headers {
		parts = append(parts, "-H", quote(h.Name+": "+h.Value))
	}
	if in.Data != nil {
		parts = append(parts, "--data", quote(bodyText(in.Data)))
	}
	parts = append(parts, quote(in.URL))
	return strings.Join(parts, " ")
}

func bodyText(data interface{}) string {
	switch d := data.(type) {
	case string:
		return d
	case []byte:
		return string(d)
	case json.RawMessage:
		return string(d)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Backslashes must be escaped before quotes, or the backslash added in front of each quote
// would itself be doubled.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
