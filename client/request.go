package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"

	"github.com/dayax/webtest/attributes"
)

// RequestParams describes a request to dispatch.
type RequestParams struct {
	// Method defaults to GET.
	Method string
	// URI is resolved against the client's base URL.
	URI string
	// Params are sent in the query string for GET and HEAD requests, and otherwise as an
	// application/x-www-form-urlencoded body (or as multipart fields if Files is set).
	Params url.Values
	// Files are uploaded as a multipart/form-data body.
	Files []File
	// Headers are added to the client's default headers.
	Headers http.Header
	// Body is sent as is. It takes precedence over Params for methods other than GET/HEAD.
	Body []byte
	// SkipHistory leaves the history untouched.
	SkipHistory bool
}

// File is a file upload.
type File struct {
	Field    string
	Filename string
	Content  []byte
}

func (p RequestParams) encode(target *url.URL) (io.Reader, string, error) {
	if p.Method == http.MethodGet || p.Method == http.MethodHead {
		if len(p.Params) > 0 {
			q := target.Query()
			for k, vs := range p.Params {
				q[k] = append(q[k], vs...)
			}
			target.RawQuery = q.Encode()
		}
		if p.Body != nil {
			return bytes.NewReader(p.Body), "", nil
		}
		return http.NoBody, "", nil
	}
	switch {
	case p.Body != nil:
		return bytes.NewReader(p.Body), "", nil
	case len(p.Files) > 0:
		return encodeMultipart(p.Params, p.Files)
	case len(p.Params) > 0:
		return bytes.NewBufferString(p.Params.Encode()), "application/x-www-form-urlencoded", nil
	default:
		return http.NoBody, "", nil
	}
}

func encodeMultipart(params url.Values, files []File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range params[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", err
			}
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("unable to add file %q: %w", f.Filename, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// Request is a dispatched request as the client sent it.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	// Attributes are the attributes the application stored while handling the request. They
	// are only available for in-process dispatch.
	Attributes *attributes.Bag
}

// Attribute returns a request attribute.
func (r *Request) Attribute(key string) (string, bool) {
	return r.Attributes.Get(key)
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// HeaderValue returns the first value of a header, and false if the header is absent.
func (r *Response) HeaderValue(name string) (string, bool) {
	values := r.Header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// IsRedirect reports whether the response is a redirect with a Location.
func (r *Response) IsRedirect() bool {
	switch r.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		location, _ := r.HeaderValue("Location")
		return location != ""
	}
	return false
}
