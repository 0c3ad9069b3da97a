package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jsonplaceholder-qa/api-contract-tests/apitests"
	"github.com/jsonplaceholder-qa/api-contract-tests/client"
	"github.com/jsonplaceholder-qa/api-contract-tests/config"
	"github.com/jsonplaceholder-qa/api-contract-tests/framework"
	"github.com/jsonplaceholder-qa/api-contract-tests/logging"
	"github.com/jsonplaceholder-qa/api-contract-tests/mockapi"
)

const statusQueryTimeout = time.Second * 10

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args) {
		return 1
	}

	mainDebugLogger := logging.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	cfg, err := resolveConfig(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		return 1
	}

	if params.useMock {
		server, err := mockapi.Start(mockapi.NewRouter(mockapi.NewStore(), mainDebugLogger))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not start mock API: %s\n", err)
			return 1
		}
		defer server.Close()
		cfg.BaseURL = server.URL
	}

	if err := client.Probe(context.Background(), cfg.BaseURL, statusQueryTimeout, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "API error: %s\n", err)
		return 1
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	env := apitests.Env{
		Client:           client.New(cfg, mainDebugLogger),
		AssertionTimeout: cfg.AssertionTimeout,
	}
	options := framework.Options{Retries: cfg.Retries, TestTimeout: cfg.TestTimeout}

	results := apitests.RunTestSuite(env, params.filters.AsFilter, testLogger, options)

	fmt.Println()
	PrintResults(os.Stdout, results, func(id framework.TestID) string {
		return params.rerunCommand(cfg.BaseURL, id)
	})

	if params.reportFile != "" {
		if err := writeReport(params.reportFile, cfg.BaseURL, results); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Report written to %s\n", params.reportFile)
	}
	if !results.OK() {
		return 1
	}
	return 0
}

func resolveConfig(params commandParams) (config.Config, error) {
	cfg := config.Default()
	if params.configFile != "" {
		var err error
		if cfg, err = cfg.LoadFile(params.configFile); err != nil {
			return cfg, err
		}
	}
	cfg = cfg.ApplyEnv(os.LookupEnv).ApplyOverrides(params.overrides)
	if params.useMock {
		// replaced once the mock is listening
		cfg.BaseURL = "http://127.0.0.1"
	}
	return cfg, cfg.Validate()
}
