package worklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorklist(t *testing.T) {
	var w Worklist[int]
	assert.True(t, w.Empty())

	w.Push(1)
	assert.False(t, w.Empty())
	assert.Equal(t, w.Pop(), 1)
	assert.True(t, w.Empty())

	w.Push(2)
	w.Push(3)
	w.Push(2) // already pending, dropped

	assert.Equal(t, w.Pop(), 2)
	assert.Equal(t, w.Pop(), 3)
	assert.True(t, w.Empty())

	// Popped elements may be pushed again.
	w.Push(2)
	assert.Equal(t, w.Pop(), 2)
	assert.True(t, w.Empty())

	assert.Panics(t, func() { w.Pop() })
}
