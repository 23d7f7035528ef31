package webtest

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayax/webtest/client"
	"github.com/dayax/webtest/internal/demo"
)

// recordingT stands in for *testing.T. Like framework.Context, it stops the test by panicking
// in FailNow.
type recordingT struct {
	errors []string
}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingT) FailNow() {
	panic(r)
}

func newCase(opts ...Option) (*Case, *recordingT) {
	return newCaseFor(demo.NewApp(), opts...)
}

func newCaseFor(h http.Handler, opts ...Option) (*Case, *recordingT) {
	rt := &recordingT{}
	return New(rt, client.NewForHandler(h), opts...), rt
}

func newClientForDemo() *client.Client {
	return client.NewForHandler(demo.NewApp())
}

func openCase(t *testing.T, uri string, opts ...Option) (*Case, *recordingT) {
	c, rt := newCase(opts...)
	c.Open(uri)
	require.Empty(t, rt.errors)
	return c, rt
}

// failureOf runs action, which must fail the test, and returns the reported message.
func failureOf(t *testing.T, rt *recordingT, action func()) (message string) {
	t.Helper()
	before := len(rt.errors)
	defer func() {
		r := recover()
		require.Equal(t, rt, r, "expected the assertion to fail")
		require.Len(t, rt.errors, before+1)
		message = rt.errors[before]
	}()
	action()
	return ""
}

func passes(t *testing.T, rt *recordingT, action func()) {
	t.Helper()
	before := len(rt.errors)
	action()
	assert.Len(t, rt.errors, before)
}
