package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jsonplaceholder-qa/api-contract-tests/framework"
	"github.com/jsonplaceholder-qa/api-contract-tests/logging"
)

var (
	failedColor     = color.New(color.FgRed, color.Bold)
	passedColor     = color.New(color.FgGreen)
	skippedColor    = color.New(color.FgYellow)
	attachmentColor = color.New(color.FgCyan)
)

// ConsoleTestLogger prints test progress as it happens.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	printIndented(c.Out, "  ", err.Error())
}

func (c *ConsoleTestLogger) TestRetrying(id framework.TestID, attempt int) {
	skippedColor.Fprintf(c.Out, "  RETRYING: %s (attempt %d)\n", id, attempt)
}

func (c *ConsoleTestLogger) TestFinished(result framework.TestResult, debugOutput logging.CapturedOutput) {
	failed := result.Status() == framework.StatusFailed
	if failed {
		failedColor.Fprintf(c.Out, "  FAILED: %s\n", result.TestID)
		for _, a := range result.Attachments {
			attachmentColor.Fprintf(c.Out, "  %s:\n", a.Name)
			printIndented(c.Out, "    ", string(a.Body))
		}
	} else if result.Attempts > 1 {
		passedColor.Fprintf(c.Out, "  passed after %d attempts\n", result.Attempts)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.Out, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s\n", id)
	} else {
		skippedColor.Fprintf(c.Out, "  SKIPPED: %s (%s)\n", id, reason)
	}
}

func printIndented(out io.Writer, indent, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(out, "%s%s\n", indent, line)
	}
}
