package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jsonplaceholder-qa/api-contract-tests/framework"
)

// PrintResults prints a summary, followed by each failed test and a command to run it again.
func PrintResults(out io.Writer, results framework.Results, rerun func(framework.TestID) string) {
	passed, failed, skipped := results.Counts()
	if results.OK() {
		passedColor.Fprintf(out, "All tests passed (%d passed, %d skipped)\n", passed, skipped)
		return
	}
	failedColor.Fprintf(out, "FAILED TESTS (%d failed, %d passed, %d skipped):\n", failed, passed, skipped)
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  * %s\n", f.TestID)
		if rerun != nil {
			fmt.Fprintf(out, "      rerun: %s\n", rerun(f.TestID))
		}
	}
}

type report struct {
	BaseURL string       `json:"baseUrl"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Skipped int          `json:"skipped"`
	Tests   []reportTest `json:"tests"`
}

type reportTest struct {
	ID          string             `json:"id"`
	Status      framework.Status   `json:"status"`
	Attempts    int                `json:"attempts,omitempty"`
	SkipReason  string             `json:"skipReason,omitempty"`
	Errors      []string           `json:"errors,omitempty"`
	Attachments []reportAttachment `json:"attachments,omitempty"`
}

type reportAttachment struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Body        string `json:"body"`
}

func makeReport(baseURL string, results framework.Results) report {
	r := report{BaseURL: baseURL, Tests: make([]reportTest, 0, len(results.Tests))}
	r.Passed, r.Failed, r.Skipped = results.Counts()
	for _, t := range results.Tests {
		rt := reportTest{
			ID:         t.TestID.String(),
			Status:     t.Status(),
			Attempts:   t.Attempts,
			SkipReason: t.SkipReason,
		}
		for _, err := range t.Errors {
			rt.Errors = append(rt.Errors, err.Error())
		}
		for _, a := range t.Attachments {
			rt.Attachments = append(rt.Attachments, reportAttachment{Name: a.Name, ContentType: a.ContentType, Body: string(a.Body)})
		}
		r.Tests = append(r.Tests, rt)
	}
	return r
}

func writeReport(path, baseURL string, results framework.Results) error {
	data, err := json.MarshalIndent(makeReport(baseURL, results), "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}
