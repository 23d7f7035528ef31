// Package attributes carries server-side request attributes, such as the identifier of the
// controller that handled a request, back to the client that dispatched it.
//
// The client puts a Bag into the request context before dispatching; handlers (typically
// routing middleware) write into it with FromContext.
package attributes

import (
	"context"
	"sync"
)

// Controller is the attribute key under which routing stores the handler identifier.
const Controller = "_controller"

// Route is the attribute key under which routing stores the matched route name.
const Route = "_route"

// Attributes do not cross the network. A router configured to do so also sends them as
// these response headers, and the client copies them into the bag it dispatched with.
const (
	ControllerHeader = "X-Debug-Controller"
	RouteHeader      = "X-Debug-Route"
)

// Headers maps attribute keys to the response headers that carry them.
var Headers = map[string]string{
	Controller: ControllerHeader,
	Route:      RouteHeader,
}

type contextKey struct{}

// Bag is a set of string attributes. The zero value is ready to use.
type Bag struct {
	values map[string]string
	lock   sync.Mutex
}

// Set stores a value.
func (b *Bag) Set(key, value string) {
	if b == nil {
		return
	}
	b.lock.Lock()
	if b.values == nil {
		b.values = make(map[string]string)
	}
	b.values[key] = value
	b.lock.Unlock()
}

// Get returns the value for key and whether it was set.
func (b *Bag) Get(key string) (string, bool) {
	if b == nil {
		return "", false
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	v, ok := b.values[key]
	return v, ok
}

// All returns a copy of all attributes.
func (b *Bag) All() map[string]string {
	ret := make(map[string]string)
	if b == nil {
		return ret
	}
	b.lock.Lock()
	for k, v := range b.values {
		ret[k] = v
	}
	b.lock.Unlock()
	return ret
}

// NewContext returns a copy of ctx that carries b.
func NewContext(ctx context.Context, b *Bag) context.Context {
	return context.WithValue(ctx, contextKey{}, b)
}

// FromContext returns the Bag carried by ctx, or nil. A nil *Bag is safe to use; writes to
// it are discarded.
func FromContext(ctx context.Context) *Bag {
	b, _ := ctx.Value(contextKey{}).(*Bag)
	return b
}
