// Package client simulates a browser for tests: it dispatches requests either in-process to
// an http.Handler or over the network to a base URL, and keeps the last request and
// response, a history, cookies and HTTP basic credentials between requests.
package client

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/dayax/webtest/attributes"
	"github.com/dayax/webtest/dom"
	"github.com/dayax/webtest/framework"
)

const (
	defaultBaseURL      = "http://localhost/"
	defaultMaxRedirects = 10
)

// Client simulates a browser. It is not safe for concurrent use by multiple requests, but
// its accessors may be called from other goroutines.
type Client struct {
	transport       http.RoundTripper
	baseURL         *url.URL
	defaultHeaders  http.Header
	followRedirects bool
	maxRedirects    int
	logger          framework.Logger

	jar          *cookiejar.Jar
	history      History
	auth         *basicAuth
	lastParams   *RequestParams
	lastRequest  *Request
	lastResponse *Response
	crawler      *dom.Crawler
	redirects    int
	lock         sync.Mutex
}

type basicAuth struct {
	username string
	password string
}

// Option configures a Client.
type Option func(*Client)

// WithFollowRedirects makes the client follow redirect responses automatically. By default
// redirects are not followed, so that tests can assert on them; see FollowRedirect.
func WithFollowRedirects(follow bool) Option {
	return func(c *Client) { c.followRedirects = follow }
}

// WithMaxRedirects limits the number of redirects followed in a row.
func WithMaxRedirects(n int) Option {
	return func(c *Client) { c.maxRedirects = n }
}

// WithLogger sets the logger that receives one line per dispatched request.
func WithLogger(logger framework.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefaultHeaders sets headers sent with every request.
func WithDefaultHeaders(h http.Header) Option {
	return func(c *Client) { c.defaultHeaders = h.Clone() }
}

// WithTransport replaces the transport used to dispatch requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// NewForHandler creates a Client that dispatches requests in-process to h. Relative URIs are
// resolved against http://localhost/.
func NewForHandler(h http.Handler, opts ...Option) *Client {
	base, _ := url.Parse(defaultBaseURL)
	return newClient(HandlerTransport(h), base, opts)
}

// NewForURL creates a Client that sends requests over the network. Relative URIs are
// resolved against baseURL.
func NewForURL(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	return newClient(http.DefaultTransport, base, opts), nil
}

func newClient(rt http.RoundTripper, base *url.URL, opts []Option) *Client {
	c := &Client{
		transport:    rt,
		baseURL:      base,
		maxRedirects: defaultMaxRedirects,
		logger:       framework.NullLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	c.jar = newJar()
	return c
}

func newJar() *cookiejar.Jar {
	jar, _ := cookiejar.New(nil) // only fails for a bad public suffix list option
	return jar
}

// BaseURL returns the URL that relative request URIs are resolved against.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// SetBasicAuth makes every subsequent request carry HTTP basic credentials.
func (c *Client) SetBasicAuth(username, password string) {
	c.lock.Lock()
	c.auth = &basicAuth{username: username, password: password}
	c.lock.Unlock()
}

// Request dispatches a request and returns the response, after following redirects if the
// client was configured to do so. Transport errors are returned unchanged.
func (c *Client) Request(ctx context.Context, p RequestParams) (*Response, error) {
	c.lock.Lock()
	c.redirects = 0
	c.lock.Unlock()
	return c.request(ctx, p)
}

func (c *Client) request(ctx context.Context, p RequestParams) (*Response, error) {
	target, err := c.baseURL.Parse(p.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid request URI %q: %w", p.URI, err)
	}
	p.URI = target.String()
	if p.Method == "" {
		p.Method = http.MethodGet
	}

	c.lock.Lock()
	jar, auth := c.jar, c.auth
	c.lock.Unlock()

	httpReq, err := c.buildRequest(ctx, p, target, jar, auth)
	if err != nil {
		return nil, err
	}
	bag := attributes.FromContext(httpReq.Context())

	httpResp, err := c.transport.RoundTrip(httpReq)
	if err != nil {
		c.logger.Printf("%s %s failed: %s", p.Method, p.URI, err)
		return nil, err
	}
	body, err := ioutil.ReadAll(httpResp.Body)
	_ = httpResp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("error reading response body from %s: %w", p.URI, err)
	}
	jar.SetCookies(target, httpResp.Cookies())
	for key, header := range attributes.Headers {
		if _, ok := bag.Get(key); !ok {
			if v := httpResp.Header.Get(header); v != "" {
				bag.Set(key, v)
			}
		}
	}

	req := &Request{
		Method:     p.Method,
		URL:        target,
		Header:     httpReq.Header.Clone(),
		Attributes: bag,
	}
	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}
	c.logger.Printf("%s %s -> %d", p.Method, p.URI, resp.StatusCode)

	c.lock.Lock()
	c.lastParams = &p
	c.lastRequest = req
	c.lastResponse = resp
	c.crawler = nil
	if !p.SkipHistory {
		c.history.Add(p)
	}
	c.lock.Unlock()

	if c.followRedirects && resp.IsRedirect() {
		return c.FollowRedirect(ctx)
	}
	return resp, nil
}

func (c *Client) buildRequest(
	ctx context.Context,
	p RequestParams,
	target *url.URL,
	jar *cookiejar.Jar,
	auth *basicAuth,
) (*http.Request, error) {
	body, contentType, err := p.encode(target)
	if err != nil {
		return nil, err
	}
	ctx = attributes.NewContext(ctx, &attributes.Bag{})
	httpReq, err := http.NewRequestWithContext(ctx, p.Method, target.String(), body)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.defaultHeaders {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range p.Headers {
		httpReq.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if auth != nil {
		httpReq.SetBasicAuth(auth.username, auth.password)
	}
	for _, cookie := range jar.Cookies(target) {
		httpReq.AddCookie(cookie)
	}
	return httpReq, nil
}

// FollowRedirect dispatches a request to the Location of the last response. A 303 response,
// or a 301/302 response to a non-GET request, is followed with a GET without body.
func (c *Client) FollowRedirect(ctx context.Context) (*Response, error) {
	c.lock.Lock()
	resp, params := c.lastResponse, c.lastParams
	c.redirects++
	count := c.redirects
	c.lock.Unlock()

	if resp == nil || !resp.IsRedirect() {
		return nil, errors.New("the last request was not redirected")
	}
	if count > c.maxRedirects {
		return nil, fmt.Errorf("the maximum number (%d) of redirects was reached", c.maxRedirects)
	}
	location, _ := resp.HeaderValue("Location")
	next := RequestParams{
		Method:  params.Method,
		URI:     location,
		Headers: params.Headers,
	}
	switch resp.StatusCode {
	case http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		next.Params, next.Files, next.Body = params.Params, params.Files, params.Body
	case http.StatusSeeOther:
		next.Method = http.MethodGet
	default:
		if next.Method != http.MethodGet && next.Method != http.MethodHead {
			next.Method = http.MethodGet
		}
	}
	if resolved, err := url.Parse(params.URI); err == nil {
		if ref, err := resolved.Parse(location); err == nil {
			next.URI = ref.String()
		}
	}
	return c.request(ctx, next)
}

// Back replays the previous request in the history.
func (c *Client) Back(ctx context.Context) (*Response, error) {
	c.lock.Lock()
	p, err := c.history.Back()
	c.lock.Unlock()
	if err != nil {
		return nil, err
	}
	return c.replay(ctx, p)
}

// Forward replays the next request in the history.
func (c *Client) Forward(ctx context.Context) (*Response, error) {
	c.lock.Lock()
	p, err := c.history.Forward()
	c.lock.Unlock()
	if err != nil {
		return nil, err
	}
	return c.replay(ctx, p)
}

// Reload replays the current request in the history.
func (c *Client) Reload(ctx context.Context) (*Response, error) {
	c.lock.Lock()
	p, err := c.history.Current()
	c.lock.Unlock()
	if err != nil {
		return nil, err
	}
	return c.replay(ctx, p)
}

func (c *Client) replay(ctx context.Context, p RequestParams) (*Response, error) {
	p.SkipHistory = true
	return c.Request(ctx, p)
}

// LastRequest returns the last dispatched request, or nil.
func (c *Client) LastRequest() *Request {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lastRequest
}

// LastResponse returns the last received response, or nil.
func (c *Client) LastResponse() *Response {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lastResponse
}

// History returns a copy of the request history.
func (c *Client) History() History {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.history.clone()
}

// Crawler returns the parsed body of the last response.
func (c *Client) Crawler() (*dom.Crawler, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.lastResponse == nil {
		return nil, errors.New("no request has been made yet")
	}
	if c.crawler == nil {
		crawler, err := dom.Parse(c.lastResponse.Body, c.lastRequest.URL.String())
		if err != nil {
			return nil, err
		}
		c.crawler = crawler
	}
	return c.crawler, nil
}

// Restart discards all browsing state: history, cookies, credentials and the last
// request/response. Configuration passed as options is kept.
func (c *Client) Restart() {
	c.lock.Lock()
	c.jar = newJar()
	c.history.Clear()
	c.auth = nil
	c.lastParams = nil
	c.lastRequest = nil
	c.lastResponse = nil
	c.crawler = nil
	c.redirects = 0
	c.lock.Unlock()
}
