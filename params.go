package main

import (
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/dayax/webtest/framework"
)

type commandParams struct {
	suitePath string
	baseURL   string
	filters   framework.RegexFilters
	xlsxPath  string
	debug     bool
	debugAll  bool
	noColor   bool
}

func (c *commandParams) Read(args []string, errOut io.Writer) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&c.suitePath, "suite", "", "path of the JSON suite definition")
	fs.StringVar(&c.baseURL, "url", "", "base URL of the application under test (overrides the suite's baseUrl)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.xlsxPath, "xlsx", "", "write an Excel report of the results to this file")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if c.suitePath == "" {
		fmt.Fprintln(errOut, "-suite is required")
		fs.Usage()
		return false
	}
	return true
}

// rerunCommand returns a command line that runs only the given tests again.
func (c *commandParams) rerunCommand(program string, failures []framework.TestResult) string {
	var b commandBuilder
	b.add(program, "-suite", c.suitePath)
	if c.baseURL != "" {
		b.add("-url", c.baseURL)
	}
	for _, f := range failures {
		if f.Failed() {
			b.add("-run", regexp.QuoteMeta(f.TestID.String())+"$")
		}
	}
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
