package webtest

import (
	"strings"

	"github.com/dayax/webtest/attributes"
	"github.com/dayax/webtest/routing"
)

const (
	controllerSuffix = "Controller"
	actionSuffix     = "Action"
)

// AssertController fails unless the last request was handled by the named controller. The
// "Controller" suffix is optional. A name containing a slash or backslash is compared with
// the fully qualified controller name, any other name with its last segment. Both
// comparisons ignore case.
func (c *Case) AssertController(name string) {
	c.helper()
	c.report(c.checkController(name))
}

// AssertAction fails unless the last request was handled by the named action. The "Action"
// suffix is optional and case is ignored, so "index", "indexAction" and "IndexAction" are
// equivalent.
func (c *Case) AssertAction(name string) {
	c.helper()
	c.report(c.checkAction(name))
}

// Route returns the controller and action that handled the last request.
func (c *Case) Route() routing.Descriptor {
	c.helper()
	d, err := c.route("Route")
	if err != nil {
		c.report(err)
	}
	return d
}

func (c *Case) route(caller string) (routing.Descriptor, error) {
	if err := c.requireOpen(caller); err != nil {
		return routing.Descriptor{}, err
	}
	var id string
	if req := c.client.LastRequest(); req != nil {
		id, _ = req.Attribute(attributes.Controller)
	}
	return routing.ParseIdentifier(id)
}

func normalizeNamespace(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}

func (c *Case) checkController(name string) error {
	d, err := c.route("AssertController")
	if err != nil {
		return err
	}
	expected := name
	if !strings.Contains(expected, controllerSuffix) {
		expected += controllerSuffix
	}
	if strings.ContainsAny(expected, `/\`) {
		if !strings.EqualFold(normalizeNamespace(expected), normalizeNamespace(d.Controller)) {
			return fail("AssertController", expected, d.Controller,
				`Failed asserting that controller is "%s", actual controller is "%s"`, expected, d.Controller)
		}
		return nil
	}
	if actual := d.ShortController(); !strings.EqualFold(expected, actual) {
		return fail("AssertController", expected, actual,
			`Failed asserting that controller is "%s", actual controller is "%s"`, expected, actual)
	}
	return nil
}

func (c *Case) checkAction(name string) error {
	d, err := c.route("AssertAction")
	if err != nil {
		return err
	}
	expected := name
	if !strings.Contains(expected, actionSuffix) {
		expected += actionSuffix
	}
	actual := d.Action
	var short string
	if i := strings.Index(actual, actionSuffix); i >= 0 {
		short = actual[:i]
	}
	if !strings.EqualFold(expected, short) && !strings.EqualFold(expected, actual) {
		return fail("AssertAction", expected, actual,
			`Failed asserting that action is "%s", actual action is "%s"`, expected, actual)
	}
	return nil
}
