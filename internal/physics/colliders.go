package physics

import (
	"fmt"

	"physbridge/internal/components"
	"physbridge/internal/conv"
	"physbridge/internal/engine"
	"physbridge/internal/solver"
)

type rejectedShape struct {
	shape    components.Shape
	material components.Material
}

// ShapeToSolver converts a shape component to a solver shape and its local
// offset. The result is validated by the caller.
func ShapeToSolver(s components.Shape) (solver.Shape, solver.Isometry) {
	offset := solver.IdentityIsometry()
	offset.Translation = conv.PointToSolver(s.Offset)
	switch s.Kind {
	case components.Cuboid:
		return solver.Cuboid(float64(s.HalfExtents.X), float64(s.HalfExtents.Y), float64(s.HalfExtents.Z)), offset
	case components.Capsule:
		return solver.Capsule(float64(s.HalfHeight), float64(s.Radius)), offset
	case components.Sphere:
		return solver.Ball(float64(s.Radius)), offset
	}
	return solver.Shape{Kind: solver.ShapeKind(255)}, offset
}

// AttachColliders gives every body with a ColliderShape exactly one solver
// collider. When the shape or material component changes after attaching,
// the collider is rebuilt and the body's mass components are dropped so they
// are recomputed. Removing the ColliderShape removes the collider.
func (w *PhysicsWorld) AttachColliders() []error {
	for _, g := range w.entities() {
		hc, hasBody := engine.TryGetComponent[*components.RigidBodyHandle](g)
		shape, hasShape := engine.TryGetComponent[*components.ColliderShape](g)
		attached, hasCollider := engine.TryGetComponent[*components.ColliderHandle](g)

		switch {
		case !hasBody:
			continue
		case !hasShape && hasCollider:
			w.detachCollider(g, attached)
		case hasShape && !hasCollider:
			w.attachCollider(g, hc.Handle, shape, nil)
		case hasShape && hasCollider:
			mat := materialOf(g)
			if shape.Shape == attached.Shape && mat == attached.Material {
				continue
			}
			w.attachCollider(g, hc.Handle, shape, attached)
		}
	}
	return w.takeErrors()
}

func materialOf(g *engine.GameObject) components.Material {
	if p, ok := engine.TryGetComponent[*components.ColliderPhysicalProperties](g); ok {
		return p.Material
	}
	return components.DefaultMaterial()
}

func (w *PhysicsWorld) attachCollider(g *engine.GameObject, body solver.BodyHandle, shape *components.ColliderShape, previous *components.ColliderHandle) {
	mat := materialOf(g)
	if r, ok := w.rejectedShapes[g.UID]; ok && r.shape == shape.Shape && r.material == mat {
		return
	}

	s, offset := ShapeToSolver(shape.Shape)
	if err := s.Validate(); err != nil {
		w.rejectedShapes[g.UID] = rejectedShape{shape: shape.Shape, material: mat}
		w.configuration(configErr(g.UID, "attach collider", err))
		return
	}
	if mat.Density < 0 || mat.Friction < 0 {
		w.rejectedShapes[g.UID] = rejectedShape{shape: shape.Shape, material: mat}
		w.configuration(configErr(g.UID, "attach collider",
			fmt.Errorf("%w: negative density or friction", ErrInvalidShape)))
		return
	}
	delete(w.rejectedShapes, g.UID)

	if previous != nil {
		w.detachCollider(g, previous)
		w.log.Info("collider rebuilt after shape change", "entity", g.UID)
	}

	c := solver.NewCollider(s)
	c.Offset = offset
	c.Restitution = float64(mat.Restitution)
	c.Friction = float64(mat.Friction)
	c.Density = float64(mat.Density)
	c.Sensor = mat.Sensor
	c.UserData = uint64(g.UID)

	ch, err := w.solver.InsertCollider(c, body)
	if err != nil {
		w.configuration(configErr(g.UID, "attach collider", fmt.Errorf("%w: %w", ErrMissingBody, err)))
		return
	}
	w.colliders[g.UID] = ch
	w.colliderEntity[ch] = g.UID
	g.AddComponent(&components.ColliderHandle{Handle: ch, Shape: shape.Shape, Material: mat})
	w.log.Debug("collider attached", "entity", g.UID, "handle", ch, "shape", shape.Kind)
}

func (w *PhysicsWorld) detachCollider(g *engine.GameObject, attached *components.ColliderHandle) {
	w.solver.RemoveCollider(attached.Handle)
	delete(w.colliders, g.UID)
	delete(w.colliderEntity, attached.Handle)
	w.colliderGraveyard[attached.Handle] = g.UID
	engine.RemoveComponent[*components.ColliderHandle](g)
	// mass changed; let AggregateMass recompute this body
	engine.RemoveComponent[*components.Mass](g)
	engine.RemoveComponent[*components.MultibodyMass](g)
}
