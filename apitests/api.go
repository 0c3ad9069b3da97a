package apitests

import (
	"context"
	"net/url"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jsonplaceholder-qa/api-contract-tests/client"
	"github.com/jsonplaceholder-qa/api-contract-tests/framework"
	"github.com/jsonplaceholder-qa/api-contract-tests/repro"
)

// JSONUTF8 is the Content-Type that write requests declare.
const JSONUTF8 = "application/json; charset=UTF-8"

// Env is what every test in the suite shares.
type Env struct {
	Client *client.APIClient
	// AssertionTimeout bounds each call to T.Do or T.DoAll, including reading the response.
	// Zero means only the test's own deadline applies.
	AssertionTimeout time.Duration
}

// T represents a test or subtest in the API test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner. To make assertions, pass the *T to the assert and require packages
// as if it were a *testing.T.
//
// Every request made through a T is remembered as a curl command. If the test does not pass, the
// command for its last request is attached to the test result.
type T struct {
	context  *framework.Context
	env      *Env
	client   *client.APIClient
	recorder *repro.Recorder
}

func newTestScope(context *framework.Context, env *Env) *T {
	t := &T{
		context:  context,
		env:      env,
		client:   env.Client.WithLogger(context.DebugLogger()),
		recorder: &repro.Recorder{},
	}
	context.Defer(func() { t.recorder.Finish(context) })
	return t
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest with its own T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

func (t *T) Skip(reason string) {
	t.context.SkipWithReason(reason)
}

// Do records req as the test's reproduction command and sends it. The test fails immediately if no
// response is received.
func (t *T) Do(req client.Request) *client.Response {
	t.recorder.RecordCurl(t.client.CurlInput(req))
	ctx, cancel := t.stepContext()
	defer cancel()
	resp, err := t.client.Do(ctx, req)
	require.NoError(t, err)
	return resp
}

func (t *T) stepContext() (context.Context, context.CancelFunc) {
	if t.env.AssertionTimeout > 0 {
		return context.WithTimeout(t.context.Ctx(), t.env.AssertionTimeout)
	}
	return context.WithCancel(t.context.Ctx())
}

func (t *T) Get(path string) *client.Response {
	return t.Do(client.Request{Method: "GET", Path: path})
}

func (t *T) GetWithQuery(path string, query url.Values) *client.Response {
	return t.Do(client.Request{Method: "GET", Path: path, Query: query})
}

// SendJSON sends body as JSON with an explicit UTF-8 content type.
func (t *T) SendJSON(method, path string, body interface{}) *client.Response {
	return t.Do(client.Request{
		Method:  method,
		Path:    path,
		Headers: map[string]string{"Content-Type": JSONUTF8},
		Body:    body,
	})
}

func (t *T) Delete(path string) *client.Response {
	return t.Do(client.Request{Method: "DELETE", Path: path})
}

// DoAll sends all requests concurrently and returns the responses in the same order. The requests
// are recorded in order before any is sent, so the attached command is for the last one.
func (t *T) DoAll(reqs ...client.Request) []*client.Response {
	for _, req := range reqs {
		t.recorder.RecordCurl(t.client.CurlInput(req))
	}
	responses := make([]*client.Response, len(reqs))
	stepCtx, cancel := t.stepContext()
	defer cancel()
	g, ctx := errgroup.WithContext(stepCtx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			resp, err := t.client.Do(ctx, req)
			responses[i] = resp
			return err
		})
	}
	require.NoError(t, g.Wait())
	return responses
}
