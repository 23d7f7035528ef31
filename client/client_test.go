package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayax/webtest/attributes"
	"github.com/dayax/webtest/framework"
)

func redirectHandler(status int, location string) http.Handler {
	headers := make(http.Header)
	headers.Set("Location", location)
	return httphelpers.HandlerWithResponse(status, headers, nil)
}

func htmlHandler(body string) http.Handler {
	headers := make(http.Header)
	headers.Set("Content-Type", "text/html; charset=UTF-8")
	return httphelpers.HandlerWithResponse(http.StatusOK, headers, []byte(body))
}

func TestRequestInProcess(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(htmlHandler("<h1>hello</h1>"))
	c := NewForHandler(handler)

	resp, err := c.Request(context.Background(), RequestParams{
		URI:     "/search?lang=en",
		Params:  url.Values{"q": {"go"}},
		Headers: http.Header{"x-custom": {"1"}},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>hello</h1>", string(resp.Body))
	ct, ok := resp.HeaderValue("content-type")
	assert.True(t, ok)
	assert.Equal(t, "text/html; charset=UTF-8", ct)
	_, ok = resp.HeaderValue("Unknown-Header")
	assert.False(t, ok)

	received := <-requestsCh
	assert.Equal(t, "GET", received.Request.Method)
	assert.Equal(t, "/search", received.Request.URL.Path)
	assert.Equal(t, "go", received.Request.URL.Query().Get("q"))
	assert.Equal(t, "en", received.Request.URL.Query().Get("lang"))
	assert.Equal(t, "1", received.Request.Header.Get("X-Custom"))

	last := c.LastRequest()
	require.NotNil(t, last)
	assert.Equal(t, "http://localhost/search?lang=en&q=go", last.URL.String())
	assert.Equal(t, resp, c.LastResponse())
}

func TestPostBodies(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(http.StatusCreated))
	c := NewForHandler(handler)

	_, err := c.Request(context.Background(), RequestParams{
		Method: "POST",
		URI:    "/product",
		Params: url.Values{"title": {"Widget"}},
	})
	require.NoError(t, err)
	form := <-requestsCh
	assert.Equal(t, "application/x-www-form-urlencoded", form.Request.Header.Get("Content-Type"))
	assert.Equal(t, "title=Widget", string(form.Body))

	_, err = c.Request(context.Background(), RequestParams{
		Method:  "PUT",
		URI:     "/product/1",
		Params:  url.Values{"ignored": {"x"}},
		Headers: http.Header{"Content-Type": {"application/json"}},
		Body:    []byte(`{"title":"Gadget"}`),
	})
	require.NoError(t, err)
	raw := <-requestsCh
	assert.Equal(t, "application/json", raw.Request.Header.Get("Content-Type"))
	assert.Equal(t, `{"title":"Gadget"}`, string(raw.Body))

	_, err = c.Request(context.Background(), RequestParams{
		Method: "POST",
		URI:    "/upload",
		Params: url.Values{"title": {"Widget"}},
		Files:  []File{{Field: "picture", Filename: "a.png", Content: []byte("PNG")}},
	})
	require.NoError(t, err)
	upload := <-requestsCh
	assert.True(t, strings.HasPrefix(upload.Request.Header.Get("Content-Type"), "multipart/form-data; boundary="))
	assert.Contains(t, string(upload.Body), `name="picture"; filename="a.png"`)
	assert.Contains(t, string(upload.Body), "PNG")
	assert.Contains(t, string(upload.Body), `name="title"`)
}

func TestBasicAuthAndDefaultHeaders(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(http.StatusOK))
	c := NewForHandler(handler, WithDefaultHeaders(http.Header{"Accept-Language": {"fr"}}))

	c.SetBasicAuth("admin", "secret")
	_, err := c.Request(context.Background(), RequestParams{URI: "/admin"})
	require.NoError(t, err)

	received := <-requestsCh
	user, pass, ok := received.Request.BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "secret", pass)
	assert.Equal(t, "fr", received.Request.Header.Get("Accept-Language"))

	c.Restart()
	_, err = c.Request(context.Background(), RequestParams{URI: "/admin"})
	require.NoError(t, err)
	received = <-requestsCh
	_, _, ok = received.Request.BasicAuth()
	assert.False(t, ok)
	assert.Equal(t, "fr", received.Request.Header.Get("Accept-Language"))
}

func TestCookiesArePersistedUntilRestart(t *testing.T) {
	setCookie := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
	})
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("session"); err == nil {
			_, _ = w.Write([]byte(cookie.Value))
		}
	})
	c := NewForHandler(httphelpers.HandlerForPath("/login", setCookie, echo))

	_, err := c.Request(context.Background(), RequestParams{URI: "/login"})
	require.NoError(t, err)
	resp, err := c.Request(context.Background(), RequestParams{URI: "/whoami"})
	require.NoError(t, err)
	assert.Equal(t, "abc", string(resp.Body))

	c.Restart()
	resp, err = c.Request(context.Background(), RequestParams{URI: "/whoami"})
	require.NoError(t, err)
	assert.Equal(t, "", string(resp.Body))
}

func TestRedirectsAreNotFollowedByDefault(t *testing.T) {
	handler := httphelpers.HandlerForPath("/old", redirectHandler(http.StatusFound, "/new"), htmlHandler("new"))
	c := NewForHandler(handler)

	resp, err := c.Request(context.Background(), RequestParams{URI: "/old"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, resp.IsRedirect())

	resp, err = c.FollowRedirect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", string(resp.Body))
	assert.Equal(t, "http://localhost/new", c.LastRequest().URL.String())

	_, err = c.FollowRedirect(context.Background())
	assert.Error(t, err)
}

func TestFollowRedirects(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(
		httphelpers.HandlerForPath("/form", redirectHandler(http.StatusSeeOther, "/done"), htmlHandler("done")))
	c := NewForHandler(handler, WithFollowRedirects(true))

	resp, err := c.Request(context.Background(), RequestParams{Method: "POST", URI: "/form", Params: url.Values{"a": {"b"}}})
	require.NoError(t, err)
	assert.Equal(t, "done", string(resp.Body))

	first, second := <-requestsCh, <-requestsCh
	assert.Equal(t, "POST", first.Request.Method)
	assert.Equal(t, "GET", second.Request.Method)
	assert.Empty(t, second.Body)
}

func TestMaxRedirects(t *testing.T) {
	c := NewForHandler(redirectHandler(http.StatusFound, "/loop"), WithFollowRedirects(true), WithMaxRedirects(3))

	_, err := c.Request(context.Background(), RequestParams{URI: "/loop"})
	assert.EqualError(t, err, "the maximum number (3) of redirects was reached")
}

func TestHistory(t *testing.T) {
	echoPath := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})
	c := NewForHandler(echoPath)
	ctx := context.Background()

	for _, p := range []string{"/a", "/b", "/c"} {
		_, err := c.Request(ctx, RequestParams{URI: p})
		require.NoError(t, err)
	}
	_, err := c.Request(ctx, RequestParams{URI: "/hidden", SkipHistory: true})
	require.NoError(t, err)
	{
		h := c.History()
		assert.Equal(t, 3, h.Len())
	}

	resp, err := c.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/b", string(resp.Body))
	resp, err = c.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/a", string(resp.Body))
	_, err = c.Back(ctx)
	assert.Error(t, err)

	resp, err = c.Forward(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/b", string(resp.Body))
	resp, err = c.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/b", string(resp.Body))

	c.Restart()
	{
		h := c.History()
		assert.Equal(t, 0, h.Len())
	}
	assert.Nil(t, c.LastRequest())
	assert.Nil(t, c.LastResponse())
	_, err = c.Reload(ctx)
	assert.Error(t, err)
}

func TestCrawler(t *testing.T) {
	c := NewForHandler(htmlHandler(`<h1>Header h1</h1><form action="save"><input name="a" value="b"></form>`))

	_, err := c.Crawler()
	assert.Error(t, err)

	_, err = c.Request(context.Background(), RequestParams{URI: "/products/"})
	require.NoError(t, err)
	crawler, err := c.Crawler()
	require.NoError(t, err)
	h1, err := crawler.Filter("h1")
	require.NoError(t, err)
	assert.Equal(t, "Header h1", h1.Text())

	forms, err := crawler.Filter("form")
	require.NoError(t, err)
	form, err := forms.Form()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost/products/save?a=b", form.URI())
}

func TestRequestAttributes(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attributes.FromContext(r.Context()).Set(attributes.Controller, "demo/DefaultController::IndexAction")
	})
	c := NewForHandler(handler)

	_, err := c.Request(context.Background(), RequestParams{URI: "/"})
	require.NoError(t, err)
	id, ok := c.LastRequest().Attribute(attributes.Controller)
	assert.True(t, ok)
	assert.Equal(t, "demo/DefaultController::IndexAction", id)
}

func TestHandlerPanicIsAnError(t *testing.T) {
	c := NewForHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("Hello World")
	}))

	_, err := c.Request(context.Background(), RequestParams{URI: "/error_page"})
	assert.EqualError(t, err, "handler for GET http://localhost/error_page panicked: Hello World")
	assert.Nil(t, c.LastResponse())
}

func TestRequestOverNetwork(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(htmlHandler("remote"))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var logger framework.CapturingLogger
		c, err := NewForURL(server.URL+"/app/", WithLogger(&logger))
		require.NoError(t, err)

		resp, err := c.Request(context.Background(), RequestParams{URI: "page"})
		require.NoError(t, err)
		assert.Equal(t, "remote", string(resp.Body))
		assert.Equal(t, "/app/page", (<-requestsCh).Request.URL.Path)

		output := logger.Output()
		require.Len(t, output, 1)
		assert.Equal(t, fmt.Sprintf("GET %s/app/page -> 200", server.URL), output[0].Message)

		_, ok := c.LastRequest().Attribute(attributes.Controller)
		assert.False(t, ok)
	})
}

func TestAttributesFromDebugHeadersOverNetwork(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(http.StatusOK, http.Header{
		attributes.ControllerHeader: {"demo/DefaultController::IndexAction"},
		attributes.RouteHeader:      {"homepage"},
	}, nil)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c, err := NewForURL(server.URL)
		require.NoError(t, err)

		_, err = c.Request(context.Background(), RequestParams{URI: "/"})
		require.NoError(t, err)
		id, _ := c.LastRequest().Attribute(attributes.Controller)
		assert.Equal(t, "demo/DefaultController::IndexAction", id)
		route, _ := c.LastRequest().Attribute(attributes.Route)
		assert.Equal(t, "homepage", route)
	})
}

func TestNewForURLRequiresAbsoluteURL(t *testing.T) {
	_, err := NewForURL("/relative")
	assert.Error(t, err)
	_, err = NewForURL("http://[::1")
	assert.Error(t, err)
}
