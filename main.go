package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/dayax/webtest/report"
	"github.com/dayax/webtest/suite"
	"github.com/dayax/webtest/suitedef"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	var params commandParams
	if !params.Read(args, errOut) {
		return 2
	}
	if params.noColor {
		color.NoColor = true
	}

	s, err := suitedef.Load(params.suitePath)
	if err != nil {
		fmt.Fprintf(errOut, "Invalid suite: %s\n", err)
		return 1
	}

	fmt.Fprintln(out)
	params.filters.Describe(out)
	fmt.Fprintf(out, "Running suite %q\n", s.Name)

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	started := time.Now()
	results, err := suite.Run(s, suite.Config{BaseURL: params.baseURL}, params.filters.AsFilter, testLogger)
	if err != nil {
		fmt.Fprintf(errOut, "Unable to run suite: %s\n", err)
		return 1
	}
	elapsed := time.Since(started)

	fmt.Fprintln(out)
	PrintResults(out, results)

	if params.xlsxPath != "" {
		if err := report.Save(params.xlsxPath, results, elapsed); err != nil {
			fmt.Fprintf(errOut, "Unable to write report: %s\n", err)
			return 1
		}
		fmt.Fprintf(out, "Report written to %s\n", params.xlsxPath)
	}

	if !results.OK() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To run only the failed tests again:")
		fmt.Fprintf(out, "  %s\n", params.rerunCommand(args[0], results.Failures))
		return 1
	}
	return 0
}
