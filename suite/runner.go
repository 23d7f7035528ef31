// Package suite runs declarative smoke suites against a running application. Every case of
// a suitedef.Suite becomes a test: its request is opened with a webtest.Case and its checks
// are run through the assertion registry, so that a failed check is reported with the same
// message as the corresponding Assert method.
package suite

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stretchr/testify/require"

	"github.com/dayax/webtest/client"
	"github.com/dayax/webtest/framework"
	"github.com/dayax/webtest/suitedef"
	"github.com/dayax/webtest/webtest"
)

// Config controls how a suite is run.
type Config struct {
	// BaseURL overrides the base URL of the suite definition.
	BaseURL string
	// Transport replaces the default network transport, for instance with
	// client.HandlerTransport to run a suite in-process.
	Transport http.RoundTripper
	Context   context.Context
}

// Run runs every case of the suite and returns the results. The test IDs are the suite name
// followed by the case name. An error is returned only if the suite cannot be run at all.
func Run(
	s *suitedef.Suite,
	config Config,
	filter framework.Filter,
	testLogger framework.TestLogger,
) (framework.Results, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = s.BaseURL
	}
	if baseURL == "" {
		return framework.Results{}, errors.New("no base URL was given for the suite")
	}
	if _, err := client.NewForURL(baseURL); err != nil {
		return framework.Results{}, err
	}
	ctx := config.Context
	if ctx == nil {
		ctx = context.Background()
	}

	r := &runner{suite: s, config: config, baseURL: baseURL, ctx: ctx}
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		c.Run(s.Name, func(c *framework.Context) {
			for _, sc := range s.Cases {
				sc := sc
				c.Run(sc.Name, func(c *framework.Context) { r.runCase(c, sc) })
			}
		})
	}), nil
}

type runner struct {
	suite   *suitedef.Suite
	config  Config
	baseURL string
	ctx     context.Context
}

func (r *runner) newClient(c *framework.Context, req suitedef.Request) (*client.Client, error) {
	headers := make(http.Header)
	for k, v := range r.suite.Headers {
		headers.Set(k, v)
	}
	opts := []client.Option{
		client.WithLogger(framework.PrefixedLogger(c.DebugLogger(), "[client] ")),
		client.WithDefaultHeaders(headers),
		client.WithFollowRedirects(req.FollowRedirects),
	}
	if req.MaxRedirects.IsDefined() {
		opts = append(opts, client.WithMaxRedirects(req.MaxRedirects.IntValue()))
	}
	if r.config.Transport != nil {
		opts = append(opts, client.WithTransport(r.config.Transport))
	}
	return client.NewForURL(r.baseURL, opts...)
}

func (r *runner) runCase(c *framework.Context, sc suitedef.Case) {
	cl, err := r.newClient(c, sc.Request)
	require.NoError(c, err)

	wc := webtest.New(c, cl, webtest.WithContext(r.ctx), webtest.WithLogger(c.DebugLogger()))
	if auth := sc.Request.BasicAuth; auth != nil {
		wc.LogIn(auth.Username, auth.Password)
	}
	wc.Open(sc.Request.Path, openOptions(sc.Request)...)

	if sc.Status.IsDefined() {
		if err := wc.Check("AssertResponseStatus", strconv.Itoa(sc.Status.IntValue())); err != nil {
			c.Errorf("%s", err)
		}
	}
	for _, check := range sc.Checks {
		if err := wc.Check(check.Assert, check.Arguments()...); err != nil {
			c.Errorf("%s", err)
		}
	}
}

func openOptions(req suitedef.Request) []webtest.OpenOption {
	var opts []webtest.OpenOption
	if req.Method != "" {
		opts = append(opts, webtest.WithMethod(req.Method))
	}
	if len(req.Params) > 0 {
		params := make(url.Values)
		for k, v := range req.Params {
			params.Set(k, v)
		}
		opts = append(opts, webtest.WithParams(params))
	}
	if len(req.Headers) > 0 {
		h := make(http.Header)
		for k, v := range req.Headers {
			h.Set(k, v)
		}
		opts = append(opts, webtest.WithHeaders(h))
	}
	if req.Body != "" {
		opts = append(opts, webtest.WithBody([]byte(req.Body)))
	}
	return opts
}
