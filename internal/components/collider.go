package components

import (
	"fmt"

	"physbridge/internal/engine"
	"physbridge/internal/solver"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type ShapeKind uint8

const (
	Sphere ShapeKind = iota
	Cuboid
	Capsule
)

func (k ShapeKind) String() string {
	switch k {
	case Sphere:
		return "sphere"
	case Cuboid:
		return "cuboid"
	case Capsule:
		return "capsule"
	}
	return fmt.Sprintf("ShapeKind(%d)", uint8(k))
}

// ParseShapeKind accepts "box" as an alias of cuboid.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch s {
	case "sphere", "ball":
		return Sphere, nil
	case "cuboid", "box":
		return Cuboid, nil
	case "capsule":
		return Capsule, nil
	}
	return Sphere, fmt.Errorf("unknown shape %q", s)
}

// Shape is collision geometry. Capsules are aligned with the local Y axis.
type Shape struct {
	Kind        ShapeKind
	Radius      float32
	HalfExtents rl.Vector3
	HalfHeight  float32
	// Offset is the collider position relative to the body origin.
	Offset rl.Vector3
}

// ColliderShape gives a body collision geometry.
type ColliderShape struct {
	engine.BaseComponent
	Shape
}

func NewSphereShape(radius float32) *ColliderShape {
	return &ColliderShape{Shape: Shape{Kind: Sphere, Radius: radius}}
}

func NewCuboidShape(halfExtents rl.Vector3) *ColliderShape {
	return &ColliderShape{Shape: Shape{Kind: Cuboid, HalfExtents: halfExtents}}
}

func NewCapsuleShape(halfHeight, radius float32) *ColliderShape {
	return &ColliderShape{Shape: Shape{Kind: Capsule, HalfHeight: halfHeight, Radius: radius}}
}

type Material struct {
	Restitution float32
	Friction    float32
	Density     float32
	// Sensor colliders report collisions without pushing back.
	Sensor bool
}

// ColliderPhysicalProperties is the collider material.
type ColliderPhysicalProperties struct {
	engine.BaseComponent
	Material
}

func DefaultMaterial() Material {
	return Material{Friction: 0.5, Density: 1}
}

func DefaultPhysicalProperties() *ColliderPhysicalProperties {
	return &ColliderPhysicalProperties{Material: DefaultMaterial()}
}

// ColliderHandle links an entity to its solver collider, together with the
// shape and material the collider was built from.
type ColliderHandle struct {
	engine.BaseComponent
	Handle   solver.ColliderHandle
	Shape    Shape
	Material Material
}
