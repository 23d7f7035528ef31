package webtest

import (
	"fmt"
	"net/http"

	"github.com/dayax/webtest/client"
	"github.com/dayax/webtest/dom"
)

// GetForm finds a form in the last response. The selector is tried as the label, value, id
// or name of a submit button, then as a CSS selector for a form or a control inside one,
// and finally as the name of a form.
func (c *Case) GetForm(selector string) (*dom.Form, error) {
	c.helper()
	crawler, err := c.crawler("GetForm")
	if err != nil {
		c.report(err)
		return nil, err
	}
	if form, err := crawler.SelectButton(selector).Form(); err == nil {
		return form, nil
	}
	if nodes, err := crawler.Filter(selector); err == nil && nodes.Count() >= 1 {
		if form, err := nodes.Form(); err == nil {
			return form, nil
		}
	}
	if nodes, err := crawler.Filter(fmt.Sprintf(`form[name="%s"]`, selector)); err == nil && nodes.Count() >= 1 {
		return nodes.Form()
	}
	return nil, fmt.Errorf(`Can not find form with "%s"`, selector)
}

// SubmitForm sends the form values to the form URI with the given method, POST if empty.
// The response replaces the last one.
func (c *Case) SubmitForm(form *dom.Form, method string) {
	c.helper()
	if method == "" {
		method = http.MethodPost
	}
	p := client.RequestParams{Method: method, URI: form.URI()}
	// The URI of a GET form already carries its values.
	if method != http.MethodGet || form.Method() != http.MethodGet {
		p.Params = form.Values()
	}
	c.dispatch(p)
}
