package client

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/jsonplaceholder-qa/api-contract-tests/shape"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body into out.
func (r *Response) JSON(out interface{}) error {
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("response body is not valid JSON (%w): %s", err, abbreviate(r.Body))
	}
	return nil
}

// Parsed decodes the body without failing; see shape.SafeParseJSON.
func (r *Response) Parsed() interface{} {
	return shape.SafeParseJSON(r.Text())
}

// ContentType returns the Content-Type header, or "" if there is none.
func (r *Response) ContentType() string {
	return r.Headers.Get(headerContentType)
}

// MediaType returns the lowercased media type of the Content-Type header without parameters.
func (r *Response) MediaType() string {
	ct := r.ContentType()
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
}

// IsSuccess is true for any 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
