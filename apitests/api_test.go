package apitests

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonplaceholder-qa/api-contract-tests/client"
	"github.com/jsonplaceholder-qa/api-contract-tests/framework"
	"github.com/jsonplaceholder-qa/api-contract-tests/schemas"
)

func runScenario(env Env, action func(*T)) framework.Results {
	return framework.Run(nil, nil, framework.Options{TestTimeout: time.Minute}, func(c *framework.Context) {
		newTestScope(c, &env).Run("scenario", action)
	})
}

func clientGet(path string) client.Request {
	return client.Request{Method: "GET", Path: path}
}

func slowHandler(delay time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
			w.WriteHeader(200)
		case <-r.Context().Done():
		}
	})
}

func TestAssertionTimeoutBoundsEachRequest(t *testing.T) {
	httphelpers.WithServer(slowHandler(time.Second*2), func(server *httptest.Server) {
		env := envFor(server.URL)
		env.AssertionTimeout = time.Millisecond * 50

		start := time.Now()
		results := runScenario(env, func(t *T) { t.Get("/posts") })
		assert.Less(t, int64(time.Since(start)), int64(time.Second))

		require.Len(t, results.Failures, 1)
		require.NotEmpty(t, results.Failures[0].Errors)
		assert.Contains(t, results.Failures[0].Errors[0].Error(), "deadline exceeded")
	})
}

func TestAssertionTimeoutBoundsParallelRequests(t *testing.T) {
	httphelpers.WithServer(slowHandler(time.Second*2), func(server *httptest.Server) {
		env := envFor(server.URL)
		env.AssertionTimeout = time.Millisecond * 50

		results := runScenario(env, func(t *T) {
			t.DoAll(clientGet("/posts"), clientGet("/users"))
		})
		require.Len(t, results.Failures, 1)
		assert.Contains(t, results.Failures[0].Errors[0].Error(), "deadline exceeded")
	})
}

func TestZeroAssertionTimeoutLeavesRequestsUnbounded(t *testing.T) {
	httphelpers.WithServer(slowHandler(time.Millisecond*100), func(server *httptest.Server) {
		results := runScenario(envFor(server.URL), func(t *T) {
			t.RequireStatus(t.Get("/posts"), 200)
		})
		assert.True(t, results.OK())
	})
}

func TestRequireSchemaViolation(t *testing.T) {
	env := envFor("http://localhost:1")
	var records int
	results := runScenario(env, func(t *T) {
		verr := t.RequireSchemaViolation(map[string]interface{}{"id": 1, "title": 123, "body": "b", "userId": 1}, schemas.Post)
		records = len(verr.Records)
	})
	assert.True(t, results.OK())
	assert.Equal(t, 1, records)

	validPost := map[string]interface{}{"id": 1, "title": "t", "body": "b", "userId": 1}
	results = runScenario(env, func(t *T) { t.RequireSchemaViolation(validPost, schemas.Post) })
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "expected value not to match")

	unencodable := map[string]interface{}{"title": func() {}}
	results = runScenario(env, func(t *T) { t.RequireSchemaViolation(unencodable, schemas.Post) })
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "violation but validation failed")
}
