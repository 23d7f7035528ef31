package webtest

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertHasResponseHeader(t *testing.T) {
	c, rt := openCase(t, "/")

	passes(t, rt, func() { c.AssertHasResponseHeader("Content-Type") })
	passes(t, rt, func() { c.AssertHasResponseHeader("content-type") })
	assert.Equal(t,
		`Failed asserting response header "Unknown-Header" found`,
		failureOf(t, rt, func() { c.AssertHasResponseHeader("Unknown-Header") }))
}

func TestAssertNotHasResponseHeader(t *testing.T) {
	c, rt := openCase(t, "/")

	passes(t, rt, func() { c.AssertNotHasResponseHeader("Unknown-Header") })
	assert.Equal(t,
		`Failed asserting that response header "Content-Type" was not found`,
		failureOf(t, rt, func() { c.AssertNotHasResponseHeader("Content-Type") }))
}

func TestAssertResponseHeaderContainsComparesWholeValue(t *testing.T) {
	c, rt := openCase(t, "/")

	passes(t, rt, func() { c.AssertResponseHeaderContains("Content-Type", "text/html; charset=UTF-8") })
	assert.Equal(t,
		`Failed asserting that response header for "Content-Type" contains "text/json". Actual content is "text/html; charset=UTF-8"`,
		failureOf(t, rt, func() { c.AssertResponseHeaderContains("Content-Type", "text/json") }))
	assert.Error(t, c.Check("AssertResponseHeaderContains", "Content-Type", "text/html"))
}

func TestAssertNotResponseHeaderContains(t *testing.T) {
	c, rt := openCase(t, "/")

	passes(t, rt, func() { c.AssertNotResponseHeaderContains("Content-Type", "text/json") })
	assert.Equal(t,
		`Failed asserting response header "Content-Type" does not contain "text/html; charset=UTF-8"`,
		failureOf(t, rt, func() { c.AssertNotResponseHeaderContains("Content-Type", "text/html; charset=UTF-8") }))
}

func TestAssertResponseHeaderRegex(t *testing.T) {
	c, rt := openCase(t, "/")

	for _, pattern := range []string{"charset", "text", "html", `^text/html;`} {
		passes(t, rt, func() { c.AssertResponseHeaderRegex("Content-Type", pattern) })
	}
	assert.Equal(t,
		`Failed asserting response header "Content-Type" exists and matches regex "json", actual content is "text/html; charset=UTF-8"`,
		failureOf(t, rt, func() { c.AssertResponseHeaderRegex("Content-Type", "json") }))
}

func TestAssertNotResponseHeaderRegex(t *testing.T) {
	c, rt := openCase(t, "/")

	passes(t, rt, func() { c.AssertNotResponseHeaderRegex("Content-Type", "json") })
	assert.Equal(t,
		`Failed asserting response header "Content-Type" does not match regex "html"`,
		failureOf(t, rt, func() { c.AssertNotResponseHeaderRegex("Content-Type", "html") }))
}

func TestHeaderValueAssertionsFailWhenHeaderIsMissing(t *testing.T) {
	c, rt := openCase(t, "/")

	for _, name := range []string{
		"AssertResponseHeaderContains",
		"AssertNotResponseHeaderContains",
		"AssertResponseHeaderRegex",
		"AssertNotResponseHeaderRegex",
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t,
				`Failed asserting response header, header "foo-bar" do not exists`,
				failureOf(t, rt, func() { c.Invoke(name, "foo-bar", "x") }))
		})
	}
}

func TestEmptyHeaderCountsAsMissingForValueAssertions(t *testing.T) {
	c, rt := newCaseFor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Empty", "")
	}))
	c.Open("/")

	passes(t, rt, func() { c.AssertHasResponseHeader("X-Empty") })
	assert.Equal(t,
		`Failed asserting response header, header "X-Empty" do not exists`,
		failureOf(t, rt, func() { c.AssertResponseHeaderContains("X-Empty", "") }))
}

func TestInvalidHeaderRegexIsReportedAsIs(t *testing.T) {
	c, _ := openCase(t, "/")

	err := c.Check("AssertResponseHeaderRegex", "Content-Type", "(")
	require.Error(t, err)
	var ae *AssertionError
	assert.False(t, errors.As(err, &ae))
	assert.Contains(t, err.Error(), "missing closing )")
}
