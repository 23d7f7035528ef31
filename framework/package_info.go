// Package framework contains a small test runner that works outside of "go test", so that
// the same assertions can be run against a live service from a command line tool.
//
// The general model is:
//
// 1. A Context is similar to Go's *testing.T. It implements the Errorf/FailNow contract
// expected by testify's require package and by webtest.Case, and has a Run method for
// subtests identified by a TestID path.
//
// 2. Each test accumulates errors and debug output. A TestLogger is notified as tests start,
// fail, finish or are skipped; Run returns the aggregated Results.
//
// 3. RegexFilters select which tests to run, based on the test ID.
package framework
