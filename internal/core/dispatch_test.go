package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRegistrationOrder(t *testing.T) {
	d := NewDispatcher[string]()

	var got []string
	d.Subscribe("media", func(ev string) { got = append(got, "first:"+ev) })
	d.Subscribe("media", func(ev string) { got = append(got, "second:"+ev) })

	d.Dispatch("media", "a")
	d.Dispatch("media", "b")

	assert.Equal(t, []string{"first:a", "second:a", "first:b", "second:b"}, got)
}

func TestDispatcherIgnoresUnmatchedKinds(t *testing.T) {
	d := NewDispatcher[int]()

	called := 0
	d.Subscribe("start", func(int) { called++ })

	d.Dispatch("mark", 1)
	d.Dispatch("dtmf", 2)

	assert.Zero(t, called)
}

func TestDispatcherNoHandlersIsNoOp(t *testing.T) {
	d := NewDispatcher[struct{}]()
	assert.NotPanics(t, func() { d.Dispatch("anything", struct{}{}) })
}
