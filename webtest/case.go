package webtest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dayax/webtest/client"
	"github.com/dayax/webtest/dom"
	"github.com/dayax/webtest/framework"
	"github.com/dayax/webtest/persistence"
	"github.com/dayax/webtest/routing"
)

// TestingT is the part of *testing.T that a Case reports failures through. It is also
// satisfied by testify's require.TestingT and by *framework.Context.
type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
}

type tHelper interface {
	Helper()
}

// URLGenerator turns a route name back into a URL. It is satisfied by *routing.Router.
type URLGenerator interface {
	GenerateURL(name string, params map[string]string, ref routing.ReferenceType) (string, error)
}

// Case is the state of one web test: the client and whether a request has been opened.
// A Case belongs to a single test and is not safe for concurrent use.
type Case struct {
	t        TestingT
	ctx      context.Context
	client   *client.Client
	urls     URLGenerator
	entities persistence.EntityManager
	logger   framework.Logger
	open     bool
}

// Option configures a Case.
type Option func(*Case)

// WithContext sets the context used for dispatching requests.
func WithContext(ctx context.Context) Option {
	return func(c *Case) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithLogger sets a logger that receives a line for every request and failed assertion.
func WithLogger(logger framework.Logger) Option {
	return func(c *Case) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithURLGenerator sets the generator used by GenerateURL.
func WithURLGenerator(g URLGenerator) Option {
	return func(c *Case) { c.urls = g }
}

// WithEntityManager sets the entity manager used by RemoveEntity.
func WithEntityManager(em persistence.EntityManager) Option {
	return func(c *Case) { c.entities = em }
}

// New creates a Case that has not been opened yet.
func New(t TestingT, cl *client.Client, opts ...Option) *Case {
	c := &Case{
		t:      t,
		ctx:    context.Background(),
		client: cl,
		logger: framework.NullLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// OpenOption customizes the request sent by Open.
type OpenOption func(*client.RequestParams)

// WithMethod sets the request method. The default is GET.
func WithMethod(method string) OpenOption {
	return func(p *client.RequestParams) { p.Method = method }
}

// WithParams sets the request parameters: the query string for GET and HEAD, the form body
// otherwise.
func WithParams(params url.Values) OpenOption {
	return func(p *client.RequestParams) { p.Params = params }
}

// WithFiles adds uploaded files, which makes the body multipart.
func WithFiles(files ...client.File) OpenOption {
	return func(p *client.RequestParams) { p.Files = append(p.Files, files...) }
}

// WithHeaders adds request headers.
func WithHeaders(h http.Header) OpenOption {
	return func(p *client.RequestParams) {
		if p.Headers == nil {
			p.Headers = make(http.Header)
		}
		for k, vs := range h {
			for _, v := range vs {
				p.Headers.Add(k, v)
			}
		}
	}
}

// WithBody sets a raw request body, which takes precedence over parameters.
func WithBody(body []byte) OpenOption {
	return func(p *client.RequestParams) { p.Body = body }
}

// WithoutHistory keeps the request out of the client history.
func WithoutHistory() OpenOption {
	return func(p *client.RequestParams) { p.SkipHistory = true }
}

// Open dispatches a request to uri and marks the Case as open. A dispatch error fails the
// test.
func (c *Case) Open(uri string, opts ...OpenOption) {
	c.helper()
	p := client.RequestParams{Method: http.MethodGet, URI: uri}
	for _, o := range opts {
		o(&p)
	}
	c.dispatch(p)
}

func (c *Case) dispatch(p client.RequestParams) {
	c.helper()
	resp, err := c.client.Request(c.ctx, p)
	if err != nil {
		c.report(err)
		return
	}
	c.logger.Printf("%s %s -> %d", p.Method, p.URI, resp.StatusCode)
	c.open = true
}

// FollowRedirect follows the redirect of the last response.
func (c *Case) FollowRedirect() {
	c.helper()
	if err := c.requireOpen("FollowRedirect"); err != nil {
		c.report(err)
		return
	}
	if _, err := c.client.FollowRedirect(c.ctx); err != nil {
		c.report(err)
	}
}

// Reset restarts the client, discarding history, cookies and credentials, and closes the
// Case: assertions fail until the next Open.
func (c *Case) Reset() {
	c.client.Restart()
	c.open = false
}

// IsOpen reports whether a request has been opened since the Case was created or reset.
func (c *Case) IsOpen() bool {
	return c.open
}

// Client returns the underlying client.
func (c *Case) Client() *client.Client {
	return c.client
}

// Response returns the last response, or nil if there is none.
func (c *Case) Response() *client.Response {
	return c.client.LastResponse()
}

// Crawler returns the parsed document of the last response.
func (c *Case) Crawler() *dom.Crawler {
	c.helper()
	crawler, err := c.crawler("Crawler")
	if err != nil {
		c.report(err)
		return nil
	}
	return crawler
}

func (c *Case) requireOpen(caller string) error {
	if !c.open {
		return &PreconditionError{Method: caller}
	}
	return nil
}

func (c *Case) response(caller string) (*client.Response, error) {
	if err := c.requireOpen(caller); err != nil {
		return nil, err
	}
	return c.client.LastResponse(), nil
}

func (c *Case) crawler(caller string) (*dom.Crawler, error) {
	if err := c.requireOpen(caller); err != nil {
		return nil, err
	}
	return c.client.Crawler()
}

// report fails the test with err. A nil error is a no-op.
func (c *Case) report(err error) {
	if err == nil {
		return
	}
	c.helper()
	c.logger.Printf("%s", err)
	c.t.Errorf("%s", err)
	c.t.FailNow()
}

func (c *Case) helper() {
	if h, ok := c.t.(tHelper); ok {
		h.Helper()
	}
}
