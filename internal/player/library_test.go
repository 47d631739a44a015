package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLibrary_SetAndGet(t *testing.T) {
	l := NewLibrary()
	_, ok := l.Get(1)
	assert.False(t, ok)

	l.Set(1, []int16{1, 2})
	c, ok := l.Get(1)
	assert.True(t, ok)
	assert.Equal(t, uint16(1), c.Slot)
	assert.Equal(t, []int16{1, 2}, c.Samples)
}

func TestLibrary_SetIsCopyOnWrite(t *testing.T) {
	l := NewLibrary()
	l.Set(1, []int16{1})
	before, _ := l.Get(1)

	l.Set(1, []int16{2})
	l.Set(5, []int16{5})

	after, _ := l.Get(1)
	assert.Equal(t, []int16{1}, before.Samples)
	assert.Equal(t, []int16{2}, after.Samples)
	assert.Equal(t, []uint16{1, 5}, l.Slots())
}

func TestLibrary_Replace(t *testing.T) {
	l := NewLibrary()
	l.Set(1, []int16{1})

	l.Replace(map[uint16][]int16{4: {4}, 2: {2}})

	_, ok := l.Get(1)
	assert.False(t, ok)
	assert.Equal(t, []uint16{2, 4}, l.Slots())
}
