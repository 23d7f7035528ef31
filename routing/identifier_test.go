package routing

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type demoController struct{}

func (c *demoController) IndexAction(w http.ResponseWriter, r *http.Request) {}

type listController struct{}

func (c listController) ShowAction(w http.ResponseWriter, r *http.Request) {}

func healthCheck(w http.ResponseWriter, r *http.Request) {}

func TestParseIdentifier(t *testing.T) {
	d, err := ParseIdentifier(`Demo\Controller\DefaultController::indexAction`)
	require.NoError(t, err)
	assert.Equal(t, `Demo\Controller\DefaultController`, d.Controller)
	assert.Equal(t, "indexAction", d.Action)
	assert.Equal(t, "DefaultController", d.ShortController())

	d, err = ParseIdentifier("demo/controller/DefaultController::IndexAction")
	require.NoError(t, err)
	assert.Equal(t, "DefaultController", d.ShortController())
	assert.Equal(t, "demo/controller/DefaultController::IndexAction", d.String())
}

func TestParseIdentifierWithoutSeparator(t *testing.T) {
	_, err := ParseIdentifier("DefaultController")
	var malformed *MalformedRouteError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "DefaultController", malformed.Identifier)
	assert.EqualError(t, err, `malformed route identifier "DefaultController": missing "::" separator`)
}

func TestParseIdentifierRoundTrip(t *testing.T) {
	segment := rapid.StringMatching(`[A-Za-z_][A-Za-z0-9_]{0,12}`)
	rapid.Check(t, func(t *rapid.T) {
		namespace := rapid.SliceOfN(segment, 0, 4).Draw(t, "namespace")
		class := segment.Draw(t, "class")
		action := segment.Draw(t, "action")

		controller := class
		for i := len(namespace) - 1; i >= 0; i-- {
			controller = namespace[i] + "/" + controller
		}
		d, err := ParseIdentifier(controller + Separator + action)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if d.Controller != controller || d.Action != action {
			t.Fatalf("got %+v from %q", d, controller+Separator+action)
		}
		if d.ShortController() != class {
			t.Fatalf("short controller %q, want %q", d.ShortController(), class)
		}
	})
}

func TestIdentifierFor(t *testing.T) {
	const pkg = "github.com/dayax/webtest/routing"

	assert.Equal(t, pkg+"/demoController::IndexAction", IdentifierFor((&demoController{}).IndexAction))
	assert.Equal(t, pkg+"/listController::ShowAction", IdentifierFor(listController{}.ShowAction))
	assert.Equal(t, pkg+"::healthCheck", IdentifierFor(healthCheck))
	assert.Equal(t, "", IdentifierFor("not a function"))
	assert.Equal(t, "", IdentifierFor((http.HandlerFunc)(nil)))
}

func TestIdentifierFromSymbolUnescapesPackageName(t *testing.T) {
	assert.Equal(t, "gopkg.in/yaml.v3/Decoder::Decode", identifierFromSymbol("gopkg.in/yaml%2ev3.(*Decoder).Decode"))
	assert.Equal(t, "main::run", identifierFromSymbol("main.run"))
}
