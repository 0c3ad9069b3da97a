// Package repro keeps the most recent request of a test as a curl command and attaches it to the
// test's report if the test does not pass.
package repro

import (
	"testing"

	"github.com/jsonplaceholder-qa/api-contract-tests/curl"
)

// AttachmentName is the name of the artifact added to a test that did not pass.
const AttachmentName = "cURL repro"

const attachmentContentType = "text/plain"

// Reporter is the part of a test context that a Recorder needs at teardown.
type Reporter interface {
	Passed() bool
	Attach(name, contentType string, body []byte)
}

// Recorder remembers the reproduction command for the last request of one test invocation. A
// Recorder must not be shared between tests.
type Recorder struct {
	last string
}

// RecordCurl replaces the remembered command with one for the given request. It has no other
// effect until Finish is called.
func (r *Recorder) RecordCurl(in curl.Input) {
	r.last = curl.ToCurl(in)
}

// Last returns the remembered command, or "" if nothing was recorded.
func (r *Recorder) Last() string {
	return r.last
}

// Finish attaches the remembered command to the report, if the test did not pass and a command was
// recorded.
func (r *Recorder) Finish(reporter Reporter) {
	if reporter.Passed() || r.last == "" {
		return
	}
	reporter.Attach(AttachmentName, attachmentContentType, []byte(r.last))
}

// ForTest returns a Recorder bound to a Go test. When the test ends without passing, the last
// recorded command is written to the test log.
func ForTest(t testing.TB) *Recorder {
	r := &Recorder{}
	t.Cleanup(func() {
		r.Finish(testingReporter{t})
	})
	return r
}

type testingReporter struct {
	t testing.TB
}

func (tr testingReporter) Passed() bool {
	return !tr.t.Failed() && !tr.t.Skipped()
}

func (tr testingReporter) Attach(name, contentType string, body []byte) {
	tr.t.Logf("%s (%s):\n%s", name, contentType, body)
}
