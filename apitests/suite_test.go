package apitests

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonplaceholder-qa/api-contract-tests/client"
	"github.com/jsonplaceholder-qa/api-contract-tests/config"
	"github.com/jsonplaceholder-qa/api-contract-tests/framework"
	"github.com/jsonplaceholder-qa/api-contract-tests/mockapi"
	"github.com/jsonplaceholder-qa/api-contract-tests/repro"
)

const expectedTestCount = 27

func envFor(baseURL string) Env {
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.RequestTimeout = time.Second * 10
	return Env{Client: client.New(cfg, nil)}
}

func runAgainst(t *testing.T, handler http.Handler, filter framework.Filter) framework.Results {
	server := httptest.NewServer(handler)
	defer server.Close()
	return RunTestSuite(envFor(server.URL), filter, nil, framework.Options{TestTimeout: time.Minute})
}

func describeFailures(results framework.Results) string {
	var b strings.Builder
	for _, f := range results.Failures {
		b.WriteString(f.TestID.String())
		for _, err := range f.Errors {
			b.WriteString("\n  ")
			b.WriteString(err.Error())
		}
		b.WriteString("\n")
	}
	return b.String()
}

func TestSuitePassesAgainstMock(t *testing.T) {
	results := runAgainst(t, mockapi.NewRouter(mockapi.NewStore(), nil), nil)

	require.True(t, results.OK(), describeFailures(results))
	passed, failed, skipped := results.Counts()
	assert.Equal(t, expectedTestCount, passed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 0, skipped)
	for _, r := range results.Tests {
		assert.Empty(t, r.Attachments, r.TestID.String())
	}
}

func TestFailingTestsCarryCurlRepro(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(503, http.Header{"Content-Type": {"text/html"}}, []byte("<html>down</html>"))
	results := runAgainst(t, handler, nil)

	require.False(t, results.OK())
	for _, f := range results.Failures {
		require.Len(t, f.Attachments, 1, f.TestID.String())
		a := f.Attachments[0]
		assert.Equal(t, repro.AttachmentName, a.Name)
		assert.Equal(t, "text/plain", a.ContentType)
		assert.True(t, strings.HasPrefix(string(a.Body), "curl -i -X "), string(a.Body))
	}
}

func TestReproIsTheLastRequest(t *testing.T) {
	handler := httphelpers.HandlerWithStatus(500)
	filter := framework.RegexFilters{}
	require.NoError(t, filter.MustMatch.Set(framework.ExactTestPattern(framework.TestID{Path: []string{"posts", "create echoes payload with new id"}})))
	results := runAgainst(t, handler, filter.AsFilter)

	require.Len(t, results.Failures, 1)
	f := results.Failures[0]
	require.Len(t, f.Attachments, 1)
	cmd := string(f.Attachments[0].Body)
	assert.Contains(t, cmd, "-X POST")
	assert.Contains(t, cmd, `-H "Content-Type: application/json; charset=UTF-8"`)
	assert.Contains(t, cmd, `--data "{\"title\":\"Contract test post\"`)
	assert.True(t, strings.HasSuffix(cmd, `/posts"`), cmd)
}

func TestFilterSelectsGroup(t *testing.T) {
	filter := framework.RegexFilters{}
	require.NoError(t, filter.MustMatch.Set("^nested/"))
	results := runAgainst(t, mockapi.NewRouter(mockapi.NewStore(), nil), filter.AsFilter)

	require.True(t, results.OK(), describeFailures(results))
	passed, _, _ := results.Counts()
	assert.Equal(t, 2, passed)
}

func TestWrongTypeScenarioFailsWhenEchoMatchesContract(t *testing.T) {
	validPost := map[string]interface{}{"id": 1, "title": "t", "body": "b", "userId": 1}
	handler := httphelpers.HandlerWithJSONResponse(validPost, nil)
	filter := framework.RegexFilters{}
	require.NoError(t, filter.MustMatch.Set("^negative/PUT with wrong types"))
	results := runAgainst(t, handler, filter.AsFilter)

	require.Len(t, results.Failures, 1, describeFailures(results))
	assert.Contains(t, describeFailures(results), "expected value not to match")
}
