package attributes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBagRoundTripThroughContext(t *testing.T) {
	b := &Bag{}
	ctx := NewContext(context.Background(), b)

	FromContext(ctx).Set(Controller, "demo/controller/DefaultController::IndexAction")

	v, ok := b.Get(Controller)
	assert.True(t, ok)
	assert.Equal(t, "demo/controller/DefaultController::IndexAction", v)
	assert.Equal(t, map[string]string{Controller: v}, b.All())
}

func TestMissingBagDiscardsWrites(t *testing.T) {
	b := FromContext(context.Background())
	assert.Nil(t, b)

	b.Set("a", "b")
	_, ok := b.Get("a")
	assert.False(t, ok)
	assert.Empty(t, b.All())
}
