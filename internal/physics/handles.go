package physics

import (
	"slices"

	"physbridge/internal/engine"
	"physbridge/internal/solver"
)

// EntityBodyHandleMap is the two-way index between entities and the solver
// bodies the registry created for them.
type EntityBodyHandleMap struct {
	toHandle map[engine.Entity]solver.BodyHandle
	toEntity map[solver.BodyHandle]engine.Entity
}

// NewEntityBodyHandleMap returns an empty map.
func NewEntityBodyHandleMap() *EntityBodyHandleMap {
	return &EntityBodyHandleMap{
		toHandle: make(map[engine.Entity]solver.BodyHandle),
		toEntity: make(map[solver.BodyHandle]engine.Entity),
	}
}

// Insert records the pair, replacing any previous mapping of either side.
func (m *EntityBodyHandleMap) Insert(e engine.Entity, h solver.BodyHandle) {
	m.Remove(e)
	if old, ok := m.toEntity[h]; ok {
		delete(m.toHandle, old)
	}
	m.toHandle[e] = h
	m.toEntity[h] = e
}

func (m *EntityBodyHandleMap) Handle(e engine.Entity) (solver.BodyHandle, bool) {
	h, ok := m.toHandle[e]
	return h, ok
}

func (m *EntityBodyHandleMap) Entity(h solver.BodyHandle) (engine.Entity, bool) {
	e, ok := m.toEntity[h]
	return e, ok
}

// Remove drops both directions for e.
func (m *EntityBodyHandleMap) Remove(e engine.Entity) (solver.BodyHandle, bool) {
	h, ok := m.toHandle[e]
	if !ok {
		return solver.BodyHandle{}, false
	}
	delete(m.toHandle, e)
	delete(m.toEntity, h)
	return h, true
}

func (m *EntityBodyHandleMap) Len() int { return len(m.toHandle) }

// ReverseLen is the size of the handle to entity direction. It always equals
// Len; tests use it to check for stale entries.
func (m *EntityBodyHandleMap) ReverseLen() int { return len(m.toEntity) }

// Entities returns the mapped entities in ascending order.
func (m *EntityBodyHandleMap) Entities() []engine.Entity {
	out := make([]engine.Entity, 0, len(m.toHandle))
	for e := range m.toHandle {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}
