package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonplaceholder-qa/api-contract-tests/framework"
	"github.com/jsonplaceholder-qa/api-contract-tests/logging"
)

func init() {
	color.NoColor = true
}

func sampleResults() framework.Results {
	failed := framework.TestResult{
		TestID:   framework.TestID{Path: []string{"posts", "get by id"}},
		Errors:   []error{errors.New("status 500")},
		Attempts: 2,
		Attachments: []framework.Attachment{
			{Name: "cURL repro", ContentType: "text/plain", Body: []byte(`curl -i -X GET "http://x/posts/1"`)},
		},
	}
	return framework.Results{
		Tests: []framework.TestResult{
			{TestID: framework.TestID{Path: []string{"posts", "list returns minimal contract"}}, Attempts: 1},
			failed,
			{TestID: framework.TestID{Path: []string{"edge", "x"}}, Skipped: true, SkipReason: "excluded"},
		},
		Failures: []framework.TestResult{failed},
	}
}

func TestParamsDefaults(t *testing.T) {
	var p commandParams
	require.True(t, p.Read([]string{"contract-tests"}))
	assert.Equal(t, "", p.overrides.BaseURL)
	assert.False(t, p.overrides.Retries.IsDefined())
	assert.False(t, p.useMock)
}

func TestParamsFlags(t *testing.T) {
	var p commandParams
	require.True(t, p.Read([]string{"contract-tests", "-url", "http://localhost:3000", "-retries", "0",
		"-timeout", "5s", "-run", "^posts/", "-report", "out.json", "-debug"}))
	assert.Equal(t, "http://localhost:3000", p.overrides.BaseURL)
	assert.True(t, p.overrides.Retries.IsDefined())
	assert.Equal(t, 0, p.overrides.Retries.IntValue())
	assert.Equal(t, "5s", p.overrides.RequestTimeout.String())
	assert.True(t, p.filters.MustMatch.IsDefined())
	assert.Equal(t, "out.json", p.reportFile)
	assert.True(t, p.debug)
}

func TestParamsRejectsURLWithMock(t *testing.T) {
	var p commandParams
	assert.False(t, p.Read([]string{"contract-tests", "-mock", "-url", "http://x"}))
	assert.False(t, p.Read([]string{"contract-tests", "-run", "("}))
}

func TestRerunCommand(t *testing.T) {
	p := commandParams{programName: "./contract-tests", configFile: "my config.yaml"}
	id := framework.TestID{Path: []string{"posts", "get by id"}}
	assert.Equal(t,
		`./contract-tests -url https://api.example -config 'my config.yaml' -run 'posts/get by id$'`,
		p.rerunCommand("https://api.example", id))

	p = commandParams{programName: "contract-tests", useMock: true, debug: true}
	assert.Equal(t, `contract-tests -mock -run 'posts/get by id$' -debug`, p.rerunCommand("http://127.0.0.1:1234", id))
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	PrintResults(&buf, sampleResults(), func(id framework.TestID) string { return "rerun " + id.String() })
	assert.Equal(t, "FAILED TESTS (1 failed, 1 passed, 1 skipped):\n"+
		"  * posts/get by id\n"+
		"      rerun: rerun posts/get by id\n", buf.String())

	buf.Reset()
	PrintResults(&buf, framework.Results{}, nil)
	assert.Equal(t, "All tests passed (0 passed, 0 skipped)\n", buf.String())
}

func TestConsoleTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := &ConsoleTestLogger{Out: &buf, DebugOutputOnFailure: true}
	id := framework.TestID{Path: []string{"posts", "get by id"}}

	logger.TestStarted(id)
	logger.TestError(id, errors.New("first\nsecond"))
	logger.TestRetrying(id, 2)
	var debug logging.CapturingLogger
	debug.Printf("hello")
	logger.TestFinished(sampleResults().Failures[0], debug.Output())

	out := buf.String()
	assert.Contains(t, out, "[posts/get by id]\n  first\n  second\n")
	assert.Contains(t, out, "  RETRYING: posts/get by id (attempt 2)\n")
	assert.Contains(t, out, "  FAILED: posts/get by id\n  cURL repro:\n    curl -i -X GET \"http://x/posts/1\"\n")
	assert.Contains(t, out, "    DEBUG ")
	assert.Contains(t, out, "hello")
}

func TestConsoleTestLoggerHidesDebugOutputOfPassingTest(t *testing.T) {
	var buf bytes.Buffer
	logger := &ConsoleTestLogger{Out: &buf, DebugOutputOnFailure: true}
	var debug logging.CapturingLogger
	debug.Printf("hello")
	logger.TestFinished(sampleResults().Tests[0], debug.Output())
	assert.Equal(t, "", buf.String())
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, writeReport(path, "https://api.example", sampleResults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var r report
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, "https://api.example", r.BaseURL)
	assert.Equal(t, 1, r.Passed)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.Skipped)
	require.Len(t, r.Tests, 3)
	assert.Equal(t, framework.StatusFailed, r.Tests[1].Status)
	assert.Equal(t, []string{"status 500"}, r.Tests[1].Errors)
	assert.Equal(t, "cURL repro", r.Tests[1].Attachments[0].Name)
	assert.Equal(t, "excluded", r.Tests[2].SkipReason)
}
