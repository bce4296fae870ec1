package components

import "physbridge/internal/engine"

// BodyBundle groups the components a spawner attaches to make an entity a
// physics body. Nil members are skipped.
type BodyBundle struct {
	Body         *RigidBody
	Shape        *ColliderShape
	Material     *ColliderPhysicalProperties
	GravityScale *GravityScale
	Joint        *Joint
}

func (b BodyBundle) Components() []engine.Component {
	out := make([]engine.Component, 0, 5)
	if b.Body != nil {
		out = append(out, b.Body)
	}
	out = append(out, ColliderBundle{Shape: b.Shape, Material: b.Material}.Components()...)
	if b.GravityScale != nil {
		out = append(out, b.GravityScale)
	}
	if b.Joint != nil {
		out = append(out, b.Joint)
	}
	return out
}

// Insert attaches the bundle to g.
func (b BodyBundle) Insert(g *engine.GameObject) {
	for _, c := range b.Components() {
		g.AddComponent(c)
	}
}

// ColliderBundle is a shape plus its material. A shape without a material
// gets the default material.
type ColliderBundle struct {
	Shape    *ColliderShape
	Material *ColliderPhysicalProperties
}

func (b ColliderBundle) Components() []engine.Component {
	if b.Shape == nil {
		return nil
	}
	m := b.Material
	if m == nil {
		m = DefaultPhysicalProperties()
	}
	return []engine.Component{b.Shape, m}
}
