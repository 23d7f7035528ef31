package webtest

import (
	"fmt"
	"strconv"
)

// Assertion describes one guarded assertion of a Case. Arity is the number of arguments
// it takes.
type Assertion struct {
	Name  string
	Arity int
	check func(c *Case, args []string) error
}

func noArgs(f func(*Case) error) func(*Case, []string) error {
	return func(c *Case, _ []string) error { return f(c) }
}

func oneString(f func(*Case, string) error) func(*Case, []string) error {
	return func(c *Case, args []string) error { return f(c, args[0]) }
}

func twoStrings(f func(*Case, string, string) error) func(*Case, []string) error {
	return func(c *Case, args []string) error { return f(c, args[0], args[1]) }
}

func oneInt(f func(*Case, int) error) func(*Case, []string) error {
	return func(c *Case, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid integer argument %q: %w", args[0], err)
		}
		return f(c, n)
	}
}

func stringAndInt(f func(*Case, string, int) error) func(*Case, []string) error {
	return func(c *Case, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid integer argument %q: %w", args[1], err)
		}
		return f(c, args[0], n)
	}
}

// Assertions lists every guarded assertion. Keep it in sync with the Assert methods.
var Assertions = []Assertion{
	{"AssertResponseStatus", 1, oneInt((*Case).checkResponseStatus)},
	{"AssertNotResponseStatus", 1, oneInt((*Case).checkNotResponseStatus)},
	{"AssertHasResponseHeader", 1, oneString((*Case).checkHasResponseHeader)},
	{"AssertNotHasResponseHeader", 1, oneString((*Case).checkNotHasResponseHeader)},
	{"AssertResponseHeaderContains", 2, twoStrings((*Case).checkResponseHeaderContains)},
	{"AssertNotResponseHeaderContains", 2, twoStrings((*Case).checkNotResponseHeaderContains)},
	{"AssertResponseHeaderRegex", 2, twoStrings((*Case).checkResponseHeaderRegex)},
	{"AssertNotResponseHeaderRegex", 2, twoStrings((*Case).checkNotResponseHeaderRegex)},
	{"AssertRedirect", 0, noArgs((*Case).checkRedirect)},
	{"AssertNotRedirect", 0, noArgs((*Case).checkNotRedirect)},
	{"AssertRedirectTo", 1, oneString((*Case).checkRedirectTo)},
	{"AssertNotRedirectTo", 1, oneString((*Case).checkNotRedirectTo)},
	{"AssertRedirectRegex", 1, oneString((*Case).checkRedirectRegex)},
	{"AssertNotRedirectRegex", 1, oneString((*Case).checkNotRedirectRegex)},
	{"AssertHasElement", 1, oneString((*Case).checkHasElement)},
	{"AssertNotHasElement", 1, oneString((*Case).checkNotHasElement)},
	{"AssertElementCount", 2, stringAndInt((*Case).checkElementCount)},
	{"AssertNotElementCount", 2, stringAndInt((*Case).checkNotElementCount)},
	{"AssertElementContains", 2, twoStrings((*Case).checkElementContains)},
	{"AssertNotElementContains", 2, twoStrings((*Case).checkNotElementContains)},
	{"AssertElementContentRegex", 2, twoStrings((*Case).checkElementContentRegex)},
	{"AssertNotElementContentRegex", 2, twoStrings((*Case).checkNotElementContentRegex)},
	{"AssertController", 1, oneString((*Case).checkController)},
	{"AssertAction", 1, oneString((*Case).checkAction)},
}

// LookupAssertion finds an assertion by name.
func LookupAssertion(name string) (Assertion, bool) {
	for _, a := range Assertions {
		if a.Name == name {
			return a, true
		}
	}
	return Assertion{}, false
}

// Check runs the named assertion and returns its failure instead of reporting it. An
// unknown name or a wrong number of arguments is also an error.
func (c *Case) Check(name string, args ...string) error {
	a, ok := LookupAssertion(name)
	if !ok {
		return fmt.Errorf("unknown assertion %q", name)
	}
	if len(args) != a.Arity {
		return fmt.Errorf("assertion %s takes %d argument(s), got %d", name, a.Arity, len(args))
	}
	return a.check(c, args)
}

// Invoke runs the named assertion and reports its failure like the Assert methods do.
func (c *Case) Invoke(name string, args ...string) {
	c.helper()
	c.report(c.Check(name, args...))
}
