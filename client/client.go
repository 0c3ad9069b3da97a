// Package client sends requests to the API under test and describes them as curl commands.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jsonplaceholder-qa/api-contract-tests/config"
	"github.com/jsonplaceholder-qa/api-contract-tests/curl"
	"github.com/jsonplaceholder-qa/api-contract-tests/logging"
)

const (
	headerContentType = "Content-Type"
	jsonContentType   = "application/json"
)

// Request describes one API call. Path is relative to the base URL.
//
// Body is sent as-is if it is a string or []byte. Any other non-nil value is encoded as JSON, and
// Content-Type is set to application/json unless Headers already sets it.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
}

// APIClient makes requests against one base URL with a set of default headers.
type APIClient struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	logger     logging.Logger
}

func New(cfg config.Config, logger logging.Logger) *APIClient {
	if logger == nil {
		logger = logging.NullLogger()
	}
	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &APIClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers:    headers,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

// WithLogger returns a copy of the client that logs to a different destination, such as the debug
// output of a single test.
func (c *APIClient) WithLogger(logger logging.Logger) *APIClient {
	ret := *c
	if logger == nil {
		logger = logging.NullLogger()
	}
	ret.logger = logger
	return &ret
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// URL returns the absolute URL that a request is sent to.
func (c *APIClient) URL(req Request) string {
	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

type preparedRequest struct {
	method  string
	url     string
	headers []curl.Header
	body    []byte
	hasBody bool
}

func (c *APIClient) prepare(req Request) (preparedRequest, error) {
	p := preparedRequest{method: methodOf(req), url: c.URL(req)}

	encoded := false
	switch b := req.Body.(type) {
	case nil:
	case string:
		p.body, p.hasBody = []byte(b), true
	case []byte:
		p.body, p.hasBody = b, true
	case json.RawMessage:
		p.body, p.hasBody = b, true
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return p, fmt.Errorf("cannot encode request body as JSON: %w", err)
		}
		p.body, p.hasBody, encoded = data, true, true
	}

	for _, h := range curl.HeadersFromMap(c.headers) {
		if _, overridden := lookupHeader(req.Headers, h.Name); !overridden {
			p.headers = append(p.headers, h)
		}
	}
	p.headers = append(p.headers, curl.HeadersFromMap(req.Headers)...)
	if encoded {
		if _, ok := lookupHeader(req.Headers, headerContentType); !ok {
			p.headers = append(p.headers, curl.Header{Name: headerContentType, Value: jsonContentType})
		}
	}
	return p, nil
}

// CurlInput describes req exactly as Do would send it.
func (c *APIClient) CurlInput(req Request) curl.Input {
	p, err := c.prepare(req)
	in := curl.Input{Method: curl.Method(p.method), URL: p.url, Headers: p.headers}
	switch {
	case err != nil:
		in.Data = req.Body
	case p.hasBody:
		in.Data = string(p.body)
	}
	return in
}

// Do sends a request and reads the whole response. Any HTTP status is a successful result; an
// error means that no response was received.
func (c *APIClient) Do(ctx context.Context, req Request) (*Response, error) {
	p, err := c.prepare(req)
	if err != nil {
		return nil, err
	}
	var body io.Reader
	if p.hasBody {
		body = bytes.NewReader(p.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, p.method, p.url, body)
	if err != nil {
		return nil, err
	}
	for _, h := range p.headers {
		httpReq.Header.Set(h.Name, h.Value)
	}

	c.logger.Printf("Request: %s %s", p.method, p.url)
	if p.hasBody {
		c.logger.Printf("Request body: %s", abbreviate(p.body))
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Printf("Request failed: %s", err)
		return nil, fmt.Errorf("%s %s: %w", p.method, p.url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body from %s %s: %w", p.method, p.url, err)
	}
	c.logger.Printf("Response: status %d, %s, %d bytes", resp.StatusCode, resp.Header.Get(headerContentType), len(data))
	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}

func methodOf(req Request) string {
	if req.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(req.Method)
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

const maxLoggedBody = 500

func abbreviate(data []byte) string {
	if len(data) <= maxLoggedBody {
		return string(data)
	}
	return fmt.Sprintf("%s... (%d bytes)", data[:maxLoggedBody], len(data))
}
