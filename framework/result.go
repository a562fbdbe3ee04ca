package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Passed counts the tests that ran to completion without a failure.
func (r Results) Passed() int {
	n := 0
	for _, t := range r.Tests {
		if !t.Skipped && len(t.Errors) == 0 {
			n++
		}
	}
	return n - r.failedWithoutErrors()
}

// Skipped counts the tests that were skipped from inside the test.
func (r Results) Skipped() int {
	n := 0
	for _, t := range r.Tests {
		if t.Skipped {
			n++
		}
	}
	return n
}

func (r Results) failedWithoutErrors() int {
	n := 0
	for _, f := range r.Failures {
		if len(f.Errors) == 0 {
			n++
		}
	}
	return n
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// PrintResults writes a summary of the test run. Each failed test is listed with the errors
// that were recorded for it.
func PrintResults(w io.Writer, results Results) {
	if results.OK() {
		fmt.Fprintln(w, color.GreenString("All tests passed (%d passed, %d skipped)",
			results.Passed(), results.Skipped()))
		return
	}
	fmt.Fprintln(w, color.RedString("FAILED TESTS (%d):", len(results.Failures)))
	for _, f := range results.Failures {
		fmt.Fprintf(w, "  * %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(w, "      %s\n", line)
			}
		}
	}
}
