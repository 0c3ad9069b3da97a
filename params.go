package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alessio/shellescape"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/jsonplaceholder-qa/api-contract-tests/config"
	"github.com/jsonplaceholder-qa/api-contract-tests/framework"
)

type commandParams struct {
	programName string
	configFile  string
	overrides   config.Overrides
	filters     framework.RegexFilters
	useMock     bool
	reportFile  string
	debug       bool
	debugAll    bool
}

func (c *commandParams) Read(args []string) bool {
	c.programName = args[0]
	var retries int

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&c.overrides.BaseURL, "url", "", "base URL of the API under test (default from config file, $BASE_URL, or "+config.DefaultBaseURL+")")
	fs.StringVar(&c.configFile, "config", "", "YAML configuration file")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.IntVar(&retries, "retries", 0, "number of times to retry a failed test")
	fs.DurationVar(&c.overrides.RequestTimeout, "timeout", 0, "timeout for each HTTP request")
	fs.StringVar(&c.reportFile, "report", "", "write a JSON report of all results to this file")
	fs.BoolVar(&c.useMock, "mock", false, "run against a built-in mock of the API instead of a real service")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "retries" {
			c.overrides.Retries = ldvalue.NewOptionalInt(retries)
		}
	})
	if c.useMock && c.overrides.BaseURL != "" {
		fmt.Fprintln(os.Stderr, "-url and -mock cannot be used together")
		fs.Usage()
		return false
	}
	return true
}

// rerunCommand returns a command line that runs only the given test again with the same target.
func (c *commandParams) rerunCommand(baseURL string, id framework.TestID) string {
	var b commandBuilder
	b.add(c.programName)
	if c.useMock {
		b.add("-mock")
	} else {
		b.add("-url", baseURL)
	}
	if c.configFile != "" {
		b.add("-config", c.configFile)
	}
	b.add("-run", framework.ExactTestPattern(id))
	if c.debug || c.debugAll {
		b.add("-debug")
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
