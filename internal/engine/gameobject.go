package engine

import (
	"reflect"
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Entity is the host-side identifier of a simulated object. 0 means none.
type Entity uint64

var nextUID atomic.Uint64

// Transform is the engine-side pose: position plus an (x, y, z, w) rotation quaternion.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
}

// IdentityTransform returns a transform at the origin with no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{
		Position: rl.Vector3{},
		Rotation: rl.QuaternionIdentity(),
		Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
	}
}

// NewTransform returns a unit-scale transform at pos with rotation rot.
func NewTransform(pos rl.Vector3, rot rl.Quaternion) Transform {
	t := IdentityTransform()
	t.Position = pos
	t.Rotation = rot
	return t
}

type GameObject struct {
	UID        Entity
	Name       string
	Tags       []string
	Transform  Transform
	Scene      *Scene
	components []Component
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:        Entity(nextUID.Add(1)),
		Name:       name,
		Transform:  IdentityTransform(),
		components: make([]Component, 0),
	}
}

// AddComponent attaches c. An existing component of the same concrete type is
// replaced, so every GameObject holds at most one component per type.
func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	t := reflect.TypeOf(c)
	for i, existing := range g.components {
		if reflect.TypeOf(existing) == t {
			existing.SetGameObject(nil)
			g.components[i] = c
			return
		}
	}
	g.components = append(g.components, c)
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T Component](g *GameObject) T {
	c, _ := TryGetComponent[T](g)
	return c
}

// TryGetComponent returns the first component of type T and whether it was found.
func TryGetComponent[T Component](g *GameObject) (T, bool) {
	var zero T
	if g == nil {
		return zero, false
	}
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}
	return zero, false
}

// HasComponent reports whether g carries a component of type T.
func HasComponent[T Component](g *GameObject) bool {
	_, ok := TryGetComponent[T](g)
	return ok
}

// RemoveComponent detaches the first component of type T. It returns false if
// there was none.
func RemoveComponent[T Component](g *GameObject) bool {
	for i, c := range g.components {
		if _, ok := c.(T); ok {
			c.SetGameObject(nil)
			g.components = append(g.components[:i], g.components[i+1:]...)
			return true
		}
	}
	return false
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
