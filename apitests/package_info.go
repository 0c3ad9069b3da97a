// Package apitests contains the API contract tests themselves and their supporting API.
//
// Infrastructure that is not specific to the API under test, such as running a tree of tests
// with retries and collecting results, is in the lower-level framework package.
package apitests
