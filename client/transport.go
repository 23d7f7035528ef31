package client

import (
	"fmt"
	"net/http"
	"net/http/httptest"
)

type handlerTransport struct {
	handler http.Handler
}

// HandlerTransport returns an http.RoundTripper that serves requests in-process with h. A
// panic in the handler is returned as an error, much as a network client would see a
// broken connection.
func HandlerTransport(h http.Handler) http.RoundTripper {
	return handlerTransport{handler: h}
}

func (t handlerTransport) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	serverReq := req.Clone(req.Context())
	serverReq.RequestURI = req.URL.RequestURI()
	serverReq.RemoteAddr = "127.0.0.1:1234"
	serverReq.Host = req.URL.Host
	if serverReq.Body == nil {
		serverReq.Body = http.NoBody
	}

	defer func() {
		if r := recover(); r != nil {
			resp, err = nil, fmt.Errorf("handler for %s %s panicked: %v", req.Method, req.URL, r)
		}
	}()

	rec := httptest.NewRecorder()
	t.handler.ServeHTTP(rec, serverReq)
	resp = rec.Result()
	resp.Request = req
	return resp, nil
}
