package framework

import "github.com/jsonplaceholder-qa/api-contract-tests/logging"

type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestRetrying(id TestID, attempt int)
	TestFinished(result TestResult, debugOutput logging.CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                              {}
func (n nullTestLogger) TestError(TestID, error)                         {}
func (n nullTestLogger) TestRetrying(TestID, int)                        {}
func (n nullTestLogger) TestFinished(TestResult, logging.CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                      {}
