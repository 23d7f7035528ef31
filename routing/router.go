// Package routing provides named routes for the application under test. Every route records
// the identifier of its controller action in the request attributes, so that tests can
// assert which controller handled a request, and routes can be turned back into URLs by name.
package routing

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dayax/webtest/attributes"
)

// ReferenceType selects the form of a generated URL.
type ReferenceType int

const (
	// AbsolutePath is a path starting with a slash, e.g. "/product/5".
	AbsolutePath ReferenceType = iota
	// AbsoluteURL includes scheme and host, e.g. "http://localhost/product/5".
	AbsoluteURL
	// RelativePath is relative to the base URL path, e.g. "../product/5".
	RelativePath
	// NetworkPath is scheme-relative, e.g. "//localhost/product/5".
	NetworkPath
)

const defaultBaseURL = "http://localhost/"

// RouteNotFoundError is returned when generating a URL for an unknown route name.
type RouteNotFoundError struct {
	Name string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("route %q does not exist", e.Name)
}

// Router is an http.Handler dispatching to named routes.
type Router struct {
	mux          *mux.Router
	baseURL      *url.URL
	debugHeaders bool
}

// Option configures a Router.
type Option func(*Router)

// WithBaseURL sets the scheme, host and base path used for AbsoluteURL, NetworkPath and
// RelativePath references. The default is http://localhost/.
func WithBaseURL(u *url.URL) Option {
	return func(r *Router) {
		if u != nil {
			copied := *u
			r.baseURL = &copied
		}
	}
}

// WithDebugHeaders makes every route also send its name and identifier as response headers,
// so that a client dispatching over the network can still tell which controller handled the
// request. See attributes.Headers.
func WithDebugHeaders() Option {
	return func(r *Router) { r.debugHeaders = true }
}

// New creates an empty Router.
func New(opts ...Option) *Router {
	base, _ := url.Parse(defaultBaseURL)
	r := &Router{mux: mux.NewRouter(), baseURL: base}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Handle registers a route whose identifier is derived from the handler function with
// IdentifierFor. Pass a method value such as ctrl.IndexAction to get a controller::action
// identifier.
func (r *Router) Handle(name, pattern string, h http.HandlerFunc, methods ...string) {
	r.HandleAction(name, pattern, IdentifierFor(h), h, methods...)
}

// HandleAction registers a route with an explicit identifier.
func (r *Router) HandleAction(name, pattern, id string, h http.Handler, methods ...string) {
	route := r.mux.Handle(pattern, r.withRouteAttributes(name, id, h)).Name(name)
	if len(methods) > 0 {
		route.Methods(methods...)
	}
}

// ServeHTTP dispatches the request to the matching route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Vars returns the route variables of the current request.
func Vars(req *http.Request) map[string]string {
	return mux.Vars(req)
}

// GenerateURL builds the URL of a named route. Parameters matching route variables fill the
// pattern; the others are added as a query string.
func (r *Router) GenerateURL(name string, params map[string]string, ref ReferenceType) (string, error) {
	route := r.mux.Get(name)
	if route == nil {
		return "", &RouteNotFoundError{Name: name}
	}
	varNames, err := route.GetVarNames()
	if err != nil {
		return "", err
	}
	isVar := make(map[string]bool, len(varNames))
	for _, v := range varNames {
		isVar[v] = true
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var pairs []string
	query := make(url.Values)
	for _, k := range keys {
		if isVar[k] {
			pairs = append(pairs, k, params[k])
		} else {
			query.Set(k, params[k])
		}
	}

	u, err := route.URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("unable to generate URL for route %q: %w", name, err)
	}
	u.RawQuery = query.Encode()

	switch ref {
	case AbsoluteURL:
		u.Scheme, u.Host = r.baseURL.Scheme, r.baseURL.Host
	case NetworkPath:
		u.Host = r.baseURL.Host
	case RelativePath:
		rel := relativePath(r.baseURL.Path, u.Path)
		if u.RawQuery != "" {
			rel += "?" + u.RawQuery
		}
		return rel, nil
	}
	return u.String(), nil
}

func relativePath(basePath, targetPath string) string {
	if basePath == targetPath {
		return ""
	}
	sourceDirs := strings.Split(strings.TrimPrefix(basePath, "/"), "/")
	targetDirs := strings.Split(strings.TrimPrefix(targetPath, "/"), "/")
	sourceDirs = sourceDirs[:len(sourceDirs)-1]
	targetFile := targetDirs[len(targetDirs)-1]
	targetDirs = targetDirs[:len(targetDirs)-1]

	common := 0
	for common < len(sourceDirs) && common < len(targetDirs) && sourceDirs[common] == targetDirs[common] {
		common++
	}
	path := strings.Repeat("../", len(sourceDirs)-common) +
		strings.Join(append(targetDirs[common:], targetFile), "/")

	colon := strings.Index(path, ":")
	slash := strings.Index(path, "/")
	if path == "" || path[0] == '/' || (colon >= 0 && (slash < 0 || colon < slash)) {
		return "./" + path
	}
	return path
}

func (r *Router) withRouteAttributes(name, id string, h http.Handler) http.Handler {
	debug := r.debugHeaders
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		attrs := attributes.FromContext(req.Context())
		attrs.Set(attributes.Route, name)
		attrs.Set(attributes.Controller, id)
		if debug {
			w.Header().Set(attributes.RouteHeader, name)
			w.Header().Set(attributes.ControllerHeader, id)
		}
		h.ServeHTTP(w, req)
	})
}
