package components

import "physbridge/internal/engine"

// MultibodyRoot marks the root of a jointed structure. Joints maps the name
// of every link in the structure to its entity.
type MultibodyRoot struct {
	engine.BaseComponent
	Name   string
	Joints map[string]engine.Entity
}

// MultiBodyChild marks a non-root link. Joints is the same map the root holds.
type MultiBodyChild struct {
	engine.BaseComponent
	Root   engine.Entity
	Joints map[string]engine.Entity
}

// Mass is the mass of a single body as computed by the solver.
type Mass struct {
	engine.BaseComponent
	Value float32
}

// MultibodyMass is the summed mass of every body reachable through joints.
type MultibodyMass struct {
	engine.BaseComponent
	Value float32
}
