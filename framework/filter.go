package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests by matching their full ID against patterns.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

// AsFilter runs a test if it matches any MustMatch pattern (or there are none) and no
// MustNotMatch pattern. A parent of a test that would match MustMatch also runs, so that
// the subtest can be reached.
func (r RegexFilters) AsFilter(id TestID) bool {
	name := id.String()
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(name) || r.MustMatch.AnyMatchPrefixOf(name)) &&
		!r.MustNotMatch.AnyMatch(name)
}

// Describe writes a human-readable description of the filters, or nothing if there are none.
func (r RegexFilters) Describe(out io.Writer) {
	if !r.MustMatch.IsDefined() && !r.MustNotMatch.IsDefined() {
		return
	}
	fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
	if r.MustMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any not matching %s\n", r.MustMatch)
	}
	if r.MustNotMatch.IsDefined() {
		fmt.Fprintf(out, "  skip any matching %s\n", r.MustNotMatch)
	}
	fmt.Fprintln(out)
}

// RegexList is a list of patterns usable as a repeatable flag.
type RegexList struct {
	patterns []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	rx, err := regexp.Compile(value)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	r.patterns = append(r.patterns, rx)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) AnyMatch(s string) bool {
	for _, p := range r.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// AnyMatchPrefixOf reports whether a pattern matches a path that starts with s followed by
// a separator. Only literal patterns are considered.
func (r RegexList) AnyMatchPrefixOf(s string) bool {
	for _, p := range r.patterns {
		literal, _ := p.LiteralPrefix()
		literal = strings.TrimPrefix(literal, "^")
		if strings.HasPrefix(literal, s+"/") {
			return true
		}
	}
	return false
}
