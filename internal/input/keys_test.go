package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.Subscribe(KeyDown, func(KeyEvent) { got = append(got, "first") })
	d.Subscribe(KeyDown, func(KeyEvent) { got = append(got, "second") })
	d.Subscribe(KeyUp, func(KeyEvent) { got = append(got, "up") })

	d.Dispatch(KeyDown, KeyEvent{Key: KeyShift, Shift: true})
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestDispatcherUnsubscribe(t *testing.T) {
	d := NewDispatcher()
	calls := 0
	off := d.Subscribe(KeyDown, func(KeyEvent) { calls++ })
	assert.Equal(t, 1, d.Count())

	off()
	off()
	d.Dispatch(KeyDown, KeyEvent{Key: KeyDelete})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, d.Count())
}
