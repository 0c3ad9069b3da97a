// Package framework contains the test harness infrastructure that is not specific to any one API:
// a test context similar to Go's *testing.T, result collection, retries, and test selection.
//
// The general model is:
//
// 1. A test suite is a tree of named tests. Each test receives a *Context, which implements
// require.TestingT so that the assert and require packages can be used with it.
//
// 2. A test can register teardown functions with Defer. They run after the test body, and can
// inspect the test's outcome with Passed.
//
// 3. A test can attach named artifacts to its result with Attach. Test loggers and reports show
// them next to the test's errors.
//
// The domain-specific code that knows what is being tested is responsible for building a
// domain-specific test API on top of the test context.
package framework
