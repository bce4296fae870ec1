package physics

import (
	"testing"

	"physbridge/internal/engine"
	"physbridge/internal/solver"

	"github.com/stretchr/testify/assert"
)

func bh(i, gen uint32) solver.BodyHandle {
	return solver.BodyHandle(solver.Handle{Index: i, Generation: gen})
}

func TestEntityBodyHandleMapStaysBijective(t *testing.T) {
	m := NewEntityBodyHandleMap()
	m.Insert(engine.Entity(1), bh(0, 0))
	m.Insert(engine.Entity(2), bh(1, 0))

	h, ok := m.Handle(1)
	assert.True(t, ok)
	assert.Equal(t, bh(0, 0), h)
	e, ok := m.Entity(bh(1, 0))
	assert.True(t, ok)
	assert.Equal(t, engine.Entity(2), e)

	// re-inserting either side replaces the old pair
	m.Insert(engine.Entity(1), bh(2, 0))
	m.Insert(engine.Entity(3), bh(1, 0))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, m.Len(), m.ReverseLen())
	_, ok = m.Entity(bh(0, 0))
	assert.False(t, ok)
	_, ok = m.Handle(2)
	assert.False(t, ok)
	assert.Equal(t, []engine.Entity{1, 3}, m.Entities())

	removed, ok := m.Remove(1)
	assert.True(t, ok)
	assert.Equal(t, bh(2, 0), removed)
	_, ok = m.Remove(1)
	assert.False(t, ok)
	assert.Equal(t, 1, m.ReverseLen())

	// a reused slot with a new generation is a different handle
	_, ok = m.Entity(bh(1, 1))
	assert.False(t, ok)
}
