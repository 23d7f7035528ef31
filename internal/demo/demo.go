// Package demo is a small web application used as a fixture by the tests of the webtest
// and suite packages.
package demo

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/dayax/webtest/routing"
)

// IndexController is the identifier of the home page route. It is given explicitly, in the
// backslash-separated form used by some frameworks, so that both separators are exercised.
const IndexController = `Demo\Controller\DefaultController`

// Username and Password are the credentials accepted by the admin page.
const (
	Username = "admin"
	Password = "admin"
)

const (
	indexPage = `<!DOCTYPE html>
<html>
<head><title>Demo</title></head>
<body>
<h1>Header h1</h1>
<h2>Header h2</h2>
<p class="lead">Welcome to the demo application.</p>
<ul id="items"><li>first</li><li>second</li><li>third</li></ul>
<a href="/product/5">Product 5</a>
</body>
</html>`

	formPage = `<!DOCTYPE html>
<html>
<body>
<form name="form" method="post" action="/form">
<input type="text" name="form[text]" value="some text">
<textarea name="form[textarea]">some textarea</textarea>
<input type="email" name="form[email]" value="">
<button type="submit" id="form_save">Save</button>
</form>
<form name="search" method="get" action="/search">
<input type="text" name="q" value="">
<input type="submit" value="Search">
</form>
</body>
</html>`
)

// DefaultController serves the pages of the demo application.
type DefaultController struct{}

// IndexAction renders the home page.
func (c *DefaultController) IndexAction(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, indexPage)
}

// ErrorAction always fails.
func (c *DefaultController) ErrorAction(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusInternalServerError, "<h1>Hello World</h1>")
}

// RedirectAction redirects to an external site.
func (c *DefaultController) RedirectAction(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Location", "http://www.example.com")
	w.WriteHeader(http.StatusFound)
}

// FormAction renders the forms on GET and echoes the submitted values otherwise.
func (c *DefaultController) FormAction(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		writeHTML(w, http.StatusOK, formPage)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeHTML(w, http.StatusBadRequest, "<h1>Bad form</h1>")
		return
	}
	var b strings.Builder
	b.WriteString("<h1>Submitted</h1><dl>")
	for _, name := range []string{"form[text]", "form[textarea]", "form[email]"} {
		fmt.Fprintf(&b, `<dt>%s</dt><dd class="value">%s</dd>`, html.EscapeString(name), html.EscapeString(r.PostForm.Get(name)))
	}
	b.WriteString("</dl>")
	writeHTML(w, http.StatusOK, b.String())
}

// SearchAction echoes the query.
func (c *DefaultController) SearchAction(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, "<h1>Results for "+html.EscapeString(r.URL.Query().Get("q"))+"</h1>")
}

// AdminAction requires HTTP basic authentication.
func (c *DefaultController) AdminAction(w http.ResponseWriter, r *http.Request) {
	user, pass, ok := r.BasicAuth()
	if !ok || user != Username || pass != Password {
		w.Header().Set("WWW-Authenticate", `Basic realm="demo"`)
		writeHTML(w, http.StatusUnauthorized, "<h1>Access denied</h1>")
		return
	}
	writeHTML(w, http.StatusOK, "<h1>Hello "+html.EscapeString(user)+"</h1>")
}

// ShowAction renders a product.
func (c *DefaultController) ShowAction(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, `<h1 class="product">Product `+html.EscapeString(routing.Vars(r)["id"])+"</h1>")
}

// NewApp returns the router of the demo application.
func NewApp(opts ...routing.Option) *routing.Router {
	c := &DefaultController{}
	r := routing.New(opts...)
	r.HandleAction("homepage", "/", IndexController+routing.Separator+"IndexAction", http.HandlerFunc(c.IndexAction), http.MethodGet)
	r.Handle("error_page", "/error_page", c.ErrorAction)
	r.Handle("redirect", "/redirect", c.RedirectAction)
	r.Handle("form", "/form", c.FormAction, http.MethodGet, http.MethodPost)
	r.Handle("search", "/search", c.SearchAction, http.MethodGet)
	r.Handle("admin", "/admin", c.AdminAction)
	r.Handle("product_show", "/product/{id:[0-9]+}", c.ShowAction, http.MethodGet)
	return r
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
