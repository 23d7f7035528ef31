package webtest

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayax/webtest/internal/demo"
	"github.com/dayax/webtest/routing"
)

func TestAssertController(t *testing.T) {
	c, rt := openCase(t, "/")

	for _, name := range []string{
		"DefaultController",
		"Default",
		"defaultcontroller",
		`Demo\Controller\DefaultController`,
		"Demo/Controller/DefaultController",
		`demo\controller\default`,
	} {
		passes(t, rt, func() { c.AssertController(name) })
	}
	assert.Equal(t,
		`Failed asserting that controller is "FooController", actual controller is "DefaultController"`,
		failureOf(t, rt, func() { c.AssertController("FooController") }))
	assert.Equal(t,
		`Failed asserting that controller is "FooController", actual controller is "DefaultController"`,
		failureOf(t, rt, func() { c.AssertController("Foo") }))
}

func TestAssertControllerWithNamespace(t *testing.T) {
	c, rt := openCase(t, "/")

	passes(t, rt, func() { c.AssertController(demo.IndexController) })
	assert.Equal(t,
		`Failed asserting that controller is "Demo\Controller\FooController", actual controller is "Demo\Controller\DefaultController"`,
		failureOf(t, rt, func() { c.AssertController(`Demo\Controller\FooController`) }))
}

func TestAssertAction(t *testing.T) {
	c, rt := openCase(t, "/")

	passes(t, rt, func() { c.AssertAction("indexAction") })
	passes(t, rt, func() { c.AssertAction("index") })
	passes(t, rt, func() { c.AssertAction("IndexAction") })
	assert.Equal(t,
		`Failed asserting that action is "FooAction", actual action is "IndexAction"`,
		failureOf(t, rt, func() { c.AssertAction("FooAction") }))
}

func TestRouteDerivedFromMethodValue(t *testing.T) {
	c, rt := openCase(t, "/product/5")

	d := c.Route()
	assert.Equal(t, routing.Descriptor{
		Controller: "github.com/dayax/webtest/internal/demo/DefaultController",
		Action:     "ShowAction",
	}, d)
	passes(t, rt, func() { c.AssertController("DefaultController") })
	passes(t, rt, func() { c.AssertController("github.com/dayax/webtest/internal/demo/DefaultController") })
	passes(t, rt, func() { c.AssertAction("show") })
	assert.Equal(t,
		`Failed asserting that controller is "github.com/dayax/webtest/internal/FooController", `+
			`actual controller is "github.com/dayax/webtest/internal/demo/DefaultController"`,
		failureOf(t, rt, func() { c.AssertController("github.com/dayax/webtest/internal/Foo") }))
}

func TestRouteWithoutControllerAttribute(t *testing.T) {
	c, _ := newCaseFor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c.Open("/")

	var me *routing.MalformedRouteError
	assert.True(t, errors.As(c.Check("AssertController", "Default"), &me))
	require.True(t, errors.As(c.Check("AssertAction", "index"), &me))
	assert.Equal(t, "", me.Identifier)
}
