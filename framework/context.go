package framework

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/jsonplaceholder-qa/api-contract-tests/logging"
)

// Options controls how tests are executed.
type Options struct {
	// Retries is the number of times a failed test is run again before it is reported as failed.
	// Only tests without subtests are retried.
	Retries int

	// TestTimeout sets the deadline of the Context returned by Ctx. Zero means no deadline.
	TestTimeout time.Duration
}

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
	options    Options
}

// Context is the state of one test invocation. It is similar to Go's *testing.T, but works outside
// of the Go test runner.
type Context struct {
	env         *environment
	id          TestID
	ctx         context.Context
	cancel      context.CancelFunc
	debugLogger logging.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	attachments []Attachment
	deferred    []func()
	hasSubtests bool
}

func Run(
	filter Filter,
	testLogger TestLogger,
	options Options,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
		options:    options,
	}
	c := env.newContext(TestID{})
	c.run(action)
	if c.failed {
		result := c.result(1)
		env.results.Tests = append(env.results.Tests, result)
		env.results.Failures = append(env.results.Failures, result)
	}
	return env.results
}

func (env *environment) newContext(id TestID) *Context {
	c := &Context{env: env, id: id}
	if env.options.TestTimeout > 0 {
		c.ctx, c.cancel = context.WithTimeout(context.Background(), env.options.TestTimeout)
	} else {
		c.ctx, c.cancel = context.WithCancel(context.Background())
	}
	return c
}

func (c *Context) run(action func(*Context)) {
	c.protect(func() { action(c) })
	for len(c.deferred) > 0 {
		last := len(c.deferred) - 1
		fn := c.deferred[last]
		c.deferred = c.deferred[:last]
		c.protect(fn)
	}
	c.cancel()
}

func (c *Context) protect(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
	}()
	fn()
}

func (c *Context) result(attempts int) TestResult {
	return TestResult{
		TestID:      c.id,
		Errors:      c.errors,
		Skipped:     c.skipped,
		SkipReason:  c.skipReason,
		Attachments: c.attachments,
		Attempts:    attempts,
	}
}

func (c *Context) ID() TestID {
	return c.id
}

// Ctx returns a Context that is cancelled when the test ends or its timeout elapses.
func (c *Context) Ctx() context.Context {
	return c.ctx
}

// Run runs a subtest. A subtest that fails is run again, up to Options.Retries more times, as
// long as it did not start subtests of its own.
func (c *Context) Run(name string, action func(*Context)) {
	c.hasSubtests = true
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}

	var c1 *Context
	attempts := 0
	for {
		attempts++
		c1 = c.env.newContext(id)
		c1.run(action)
		if !c1.failed || c1.hasSubtests || attempts > c.env.options.Retries {
			break
		}
		c.env.testLogger.TestRetrying(id, attempts+1)
	}

	result := c1.result(attempts)
	if c1.skipped {
		c.env.results.Tests = append(c.env.results.Tests, result)
		c.env.testLogger.TestSkipped(id, c1.skipReason)
		return
	}
	if !c1.hasSubtests || c1.failed {
		c.env.results.Tests = append(c.env.results.Tests, result)
	}
	if c1.failed {
		c.env.results.Failures = append(c.env.results.Failures, result)
	}
	c.env.testLogger.TestFinished(result, c1.debugLogger.Output())
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := reformatError(fmt.Errorf(format, args...))
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Failed reports whether the test has failed so far.
func (c *Context) Failed() bool {
	return c.failed
}

// Passed reports whether the test has neither failed nor been skipped so far. Functions passed to
// Defer see the final outcome.
func (c *Context) Passed() bool {
	return !c.failed && !c.skipped
}

// Defer schedules a function to run after the test action returns or exits, in last-in-first-out
// order. A deferred function can still fail the test.
func (c *Context) Defer(fn func()) {
	c.deferred = append(c.deferred, fn)
}

// Attach adds a named artifact to the test result.
func (c *Context) Attach(name, contentType string, body []byte) {
	c.attachments = append(c.attachments, Attachment{
		Name:        name,
		ContentType: contentType,
		Body:        append([]byte(nil), body...),
	})
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() logging.Logger {
	return &c.debugLogger
}

var labeledLine = regexp.MustCompile(`^[A-Z][A-Za-z ]*:\s`)

// reformatError drops the "Error Trace" block that testify adds to assertion messages. Outside of
// the Go test runner those stack frames point into the framework rather than the test.
func reformatError(err error) error {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	out := make([]string, 0, len(lines))
	inTrace := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Error Trace:") {
			inTrace = true
			continue
		}
		if inTrace && !labeledLine.MatchString(trimmed) {
			continue
		}
		inTrace = false
		out = append(out, strings.TrimRight(line, " \t"))
	}
	return errors.New(strings.TrimSpace(strings.Join(out, "\n")))
}
