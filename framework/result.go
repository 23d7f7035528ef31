package framework

import (
	"fmt"
	"strings"
	"time"
)

// Results is the outcome of a test run.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Skipped  []TestResult
}

// TestResult is the outcome of one test.
type TestResult struct {
	TestID   TestID
	Errors   []error
	Skipped  bool
	Duration time.Duration
}

// OK reports whether no test failed.
func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Failed reports whether the test had errors.
func (r TestResult) Failed() bool {
	return len(r.Errors) != 0
}

// TestID identifies a test by the names of its ancestors and its own name.
type TestID struct {
	Path []string
}

// Plus returns the ID of a subtest.
func (t TestID) Plus(name string) TestID {
	return TestID{Path: append(append([]string(nil), t.Path...), name)}
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// TestFailure is an error attributed to a test.
type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
