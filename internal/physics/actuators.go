package physics

import (
	"physbridge/internal/components"
	"physbridge/internal/conv"
	"physbridge/internal/engine"
	"physbridge/internal/solver"
)

// bodyOf resolves the solver body of g, logging handles that do not resolve.
func (w *PhysicsWorld) bodyOf(g *engine.GameObject) (*solver.RigidBody, bool) {
	hc, ok := engine.TryGetComponent[*components.RigidBodyHandle](g)
	if !ok {
		return nil, false
	}
	body, ok := w.solver.Body(hc.Handle)
	if !ok {
		w.consistency(&ConsistencyError{Entity: g.UID, Handle: solver.Handle(hc.Handle), Reason: "handle does not resolve"})
	}
	return body, ok
}

// ApplyGravityScales copies changed GravityScale components to their bodies.
func (w *PhysicsWorld) ApplyGravityScales() {
	for _, g := range w.entities() {
		gs, ok := engine.TryGetComponent[*components.GravityScale](g)
		if !ok || !gs.Changed() {
			continue
		}
		if body, ok := w.bodyOf(g); ok {
			gs.Consume()
			body.GravityScale = float64(gs.Value)
		}
	}
}

// ApplyForces adds changed Force components to their bodies. With
// ResetForces set the body's accumulated force and torque are cleared first.
func (w *PhysicsWorld) ApplyForces() {
	for _, g := range w.entities() {
		f, ok := engine.TryGetComponent[*components.Force](g)
		if !ok || !f.Changed() {
			continue
		}
		body, ok := w.bodyOf(g)
		if !ok {
			continue
		}
		f.Consume()
		if f.ResetForces {
			body.ResetForces()
			body.ResetTorques()
		}
		body.AddForce(conv.Vec3ToSolver(f.Vec))
		body.AddTorque(conv.Vec3ToSolver(f.Torque))
	}
}

// ApplyImpulses applies each changed Impulse once.
func (w *PhysicsWorld) ApplyImpulses() {
	for _, g := range w.entities() {
		imp, ok := engine.TryGetComponent[*components.Impulse](g)
		if !ok || !imp.Changed() {
			continue
		}
		body, ok := w.bodyOf(g)
		if !ok {
			continue
		}
		imp.Consume()
		body.ApplyImpulse(conv.Vec3ToSolver(imp.Vec))
		body.ApplyTorqueImpulse(conv.Vec3ToSolver(imp.TorqueImpulse))
	}
}
