package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dayax/webtest/framework"
)

var (
	failedColor  = color.New(color.FgRed, color.Bold)
	skippedColor = color.New(color.FgYellow)
	passedColor  = color.New(color.FgGreen)
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Fprintf(c.Out, "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		failedColor.Fprintf(c.Out, "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	if failed {
		failedColor.Fprintf(c.Out, "  FAILED: %s\n", id)
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

// PrintResults writes the summary of a test run.
func PrintResults(out io.Writer, results framework.Results) {
	if results.OK() {
		passedColor.Fprintf(out, "All tests passed (%d run, %d skipped)\n", len(results.Tests), len(results.Skipped))
		return
	}
	failedColor.Fprintf(out, "FAILED TESTS (%d of %d):\n", len(results.Failures), len(results.Tests))
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  * %s\n", f.TestID)
		for _, err := range f.Errors {
			for _, line := range strings.Split(err.Error(), "\n") {
				fmt.Fprintf(out, "      %s\n", line)
			}
		}
	}
}
