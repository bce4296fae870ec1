package components

import (
	"fmt"

	"physbridge/internal/engine"
	"physbridge/internal/solver"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// BodyType tags an entity for the body registry.
type BodyType uint8

const (
	Fixed BodyType = iota
	Dynamic
)

func (t BodyType) String() string {
	switch t {
	case Fixed:
		return "fixed"
	case Dynamic:
		return "dynamic"
	}
	return fmt.Sprintf("BodyType(%d)", uint8(t))
}

// ParseBodyType accepts the names produced by String.
func ParseBodyType(s string) (BodyType, error) {
	switch s {
	case "fixed", "static":
		return Fixed, nil
	case "dynamic", "":
		return Dynamic, nil
	}
	return Dynamic, fmt.Errorf("unknown body type %q", s)
}

// RigidBody asks the registry to create a solver body for this entity. It
// stays on the entity for its whole life.
type RigidBody struct {
	engine.BaseComponent
	Type           BodyType
	LinearDamping  float32
	AngularDamping float32
}

func NewRigidBody(t BodyType) *RigidBody {
	return &RigidBody{Type: t}
}

// RigidBodyHandle links an entity to its solver body. Only the registry
// attaches it.
type RigidBodyHandle struct {
	engine.BaseComponent
	Handle solver.BodyHandle
}

// Velocity is written back after every step for dynamic bodies.
type Velocity struct {
	engine.BaseComponent
	Linear  rl.Vector3
	Angular rl.Vector3
}
