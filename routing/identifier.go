package routing

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Separator separates the controller from the action in a route identifier.
const Separator = "::"

// Descriptor is the logical target of a request: the controller that handled it and the
// action (method) that was invoked.
type Descriptor struct {
	// Controller is the fully qualified controller name, for instance
	// "github.com/acme/shop/controller/DefaultController".
	Controller string
	// Action is the name of the method, for instance "IndexAction".
	Action string
}

// ShortController returns the last segment of the controller name.
func (d Descriptor) ShortController() string {
	if i := strings.LastIndexAny(d.Controller, `/\`); i >= 0 {
		return d.Controller[i+1:]
	}
	return d.Controller
}

// String returns the identifier that ParseIdentifier accepts.
func (d Descriptor) String() string {
	return d.Controller + Separator + d.Action
}

// MalformedRouteError is returned by ParseIdentifier when the identifier has no separator.
type MalformedRouteError struct {
	Identifier string
}

func (e *MalformedRouteError) Error() string {
	return fmt.Sprintf("malformed route identifier %q: missing %q separator", e.Identifier, Separator)
}

// ParseIdentifier splits an identifier of the form "Namespace/Class::Method".
func ParseIdentifier(id string) (Descriptor, error) {
	i := strings.Index(id, Separator)
	if i < 0 {
		return Descriptor{}, &MalformedRouteError{Identifier: id}
	}
	return Descriptor{Controller: id[:i], Action: id[i+len(Separator):]}, nil
}

// IdentifierFor derives a route identifier from a handler function. For a method value such
// as (*DefaultController).IndexAction declared in package example.com/demo/controller it
// returns "example.com/demo/controller/DefaultController::IndexAction". For a plain
// function the package plays the role of the controller. It returns "" if h is not a
// function.
func IdentifierFor(h interface{}) string {
	v := reflect.ValueOf(h)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return ""
	}
	return identifierFromSymbol(fn.Name())
}

func identifierFromSymbol(symbol string) string {
	symbol = strings.TrimSuffix(symbol, "-fm")
	dir, rest := "", symbol
	if i := strings.LastIndex(symbol, "/"); i >= 0 {
		dir, rest = symbol[:i+1], symbol[i+1:]
	}
	parts := strings.Split(rest, ".")
	pkg := strings.ReplaceAll(parts[0], "%2e", ".")
	switch len(parts) {
	case 1:
		return dir + pkg
	case 2:
		return dir + pkg + Separator + parts[1]
	default:
		typ := strings.TrimSuffix(strings.TrimPrefix(parts[1], "(*"), ")")
		return dir + pkg + "/" + typ + Separator + parts[2]
	}
}
