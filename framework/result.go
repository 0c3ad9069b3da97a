package framework

import (
	"fmt"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

// Attachment is a named artifact added to a test result, such as a command for reproducing the
// last request of a failed test.
type Attachment struct {
	Name        string
	ContentType string
	Body        []byte
}

type TestResult struct {
	TestID      TestID
	Errors      []error
	Skipped     bool
	SkipReason  string
	Attachments []Attachment
	Attempts    int
}

// Status describes the outcome of a test.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

func (r TestResult) Status() Status {
	switch {
	case r.Skipped:
		return StatusSkipped
	case len(r.Errors) > 0:
		return StatusFailed
	default:
		return StatusPassed
	}
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Counts returns the number of passed, failed, and skipped tests.
func (r Results) Counts() (passed, failed, skipped int) {
	for _, t := range r.Tests {
		switch t.Status() {
		case StatusPassed:
			passed++
		case StatusSkipped:
			skipped++
		}
	}
	return passed, len(r.Failures), skipped
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
