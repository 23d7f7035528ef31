package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the state of one test or subtest.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
}

// Run runs the top-level test action and returns the results of it and of all its subtests.
// A nil filter runs everything.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				c.runCleanups()
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		c.runCleanups()
		if c.skipped || len(c.id.Path) == 0 {
			return
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Duration: time.Since(started)}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}

// ID returns the identifier of this test.
func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest. Subtests excluded by the filter are reported as skipped.
func (c *Context) Run(name string, action func(*Context)) {
	id := c.id.Plus(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.results.Skipped = append(c.env.results.Skipped, TestResult{TestID: id, Skipped: true})
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.results.Skipped = append(c.env.results.Skipped, TestResult{TestID: id, Skipped: true})
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
	if c1.failed {
		c.failed = true
	}
}

// Errorf records a failure without stopping the test.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// Fatalf records a failure and stops the test.
func (c *Context) Fatalf(format string, args ...interface{}) {
	c.Errorf(format, args...)
	c.FailNow()
}

// FailNow stops the test. It must be called from the goroutine running the test.
func (c *Context) FailNow() {
	panic(c)
}

// Failed reports whether the test has failed.
func (c *Context) Failed() bool {
	return c.failed
}

// Helper is a no-op; it lets a Context stand in for *testing.T.
func (c *Context) Helper() {}

// Skip stops the test and reports it as skipped.
func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

// SkipWithReason is Skip with a reason for the test logger.
func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer registers a function to run when the test finishes, in last-in first-out order.
func (c *Context) Defer(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

// Debug adds a line of debug output. The output is passed to the test logger when the
// test finishes.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

// DebugLogger returns the logger collecting this test's debug output.
func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
