package physics

import (
	"fmt"
	"slices"

	"physbridge/internal/components"
	"physbridge/internal/conv"
	"physbridge/internal/engine"
	"physbridge/internal/solver"
)

// SyncNewBodies creates a solver body for every entity that has a RigidBody
// but no RigidBodyHandle yet, seeded from the entity's transform. Entities
// with a non-finite transform are rejected once and never inserted.
// Calling it again without new entities does nothing.
func (w *PhysicsWorld) SyncNewBodies() []error {
	for _, g := range w.entities() {
		rb, ok := engine.TryGetComponent[*components.RigidBody](g)
		if !ok || engine.HasComponent[*components.RigidBodyHandle](g) || w.rejectedBodies[g.UID] {
			continue
		}
		w.insertBody(g, rb)
	}
	return w.takeErrors()
}

func (w *PhysicsWorld) insertBody(g *engine.GameObject, rb *components.RigidBody) {
	tr := g.Transform
	if !conv.IsFiniteTransform(tr.Position, tr.Rotation) {
		w.rejectedBodies[g.UID] = true
		w.configuration(configErr(g.UID, "sync body",
			fmt.Errorf("%w: position %v rotation %v", ErrNonFiniteTransform, tr.Position, tr.Rotation)))
		return
	}

	pose := conv.TransformToIsometry(tr.Position, tr.Rotation)
	pose.Rotation = pose.Rotation.Normalize()

	bodyType := solver.BodyDynamic
	if rb.Type == components.Fixed {
		bodyType = solver.BodyFixed
	}
	body := solver.NewRigidBody(bodyType, pose)
	body.LinearDamping = float64(rb.LinearDamping)
	body.AngularDamping = float64(rb.AngularDamping)
	body.UserData = uint64(g.UID)
	if gs, ok := engine.TryGetComponent[*components.GravityScale](g); ok {
		body.GravityScale = float64(gs.Value)
		gs.Consume()
	}

	h := w.solver.InsertBody(body)
	w.bodies.Insert(g.UID, h)
	g.AddComponent(&components.RigidBodyHandle{Handle: h})
	if bodyType == solver.BodyDynamic && !engine.HasComponent[*components.Velocity](g) {
		g.AddComponent(&components.Velocity{})
	}

	w.log.Debug("rigid body created", "entity", g.UID, "name", g.Name, "handle", h, "type", rb.Type)
	w.respond(Response{Kind: KindRigidBodySpawned, Body: &RigidBodySpawned{
		ID:     g.UID,
		Name:   g.Name,
		Handle: h.ID(),
	}})
}

// writeBackPoses copies solver poses and velocities of dynamic bodies into
// entity transforms. Scale is left untouched.
func (w *PhysicsWorld) writeBackPoses() {
	for _, g := range w.entities() {
		hc, ok := engine.TryGetComponent[*components.RigidBodyHandle](g)
		if !ok {
			continue
		}
		body, ok := w.solver.Body(hc.Handle)
		if !ok {
			w.consistency(&ConsistencyError{Entity: g.UID, Handle: solver.Handle(hc.Handle), Reason: "handle does not resolve"})
			continue
		}
		if !body.IsDynamic() {
			continue
		}
		pos, rot := conv.IsometryToTransform(body.Position)
		if !conv.IsFiniteTransform(pos, rot) {
			w.consistency(&ConsistencyError{Entity: g.UID, Handle: solver.Handle(hc.Handle), Reason: "solver pose is not finite"})
			continue
		}
		g.Transform.Position = pos
		g.Transform.Rotation = rot
		if v, ok := engine.TryGetComponent[*components.Velocity](g); ok {
			v.Linear = conv.Vec3ToEngine(body.LinVel)
			v.Angular = conv.Vec3ToEngine(body.AngVel)
		}
	}
}

// DespawnMultibody asks the next tick to remove every multibody whose root
// carries Name.
type DespawnMultibody struct {
	Name string
}

// RequestDespawn queues a DespawnMultibody for the next tick.
func (w *PhysicsWorld) RequestDespawn(name string) {
	w.despawns.Send(DespawnMultibody{Name: name})
}

// processDespawns resolves all queued names first, then removes the whole
// set, so later systems in the tick never see a partial multibody.
func (w *PhysicsWorld) processDespawns() {
	requests := w.despawns.Drain()
	if len(requests) == 0 {
		return
	}
	var targets []engine.Entity
	for _, req := range requests {
		found := false
		for _, g := range w.entities() {
			root, ok := engine.TryGetComponent[*components.MultibodyRoot](g)
			if !ok || root.Name != req.Name {
				continue
			}
			found = true
			targets = append(targets, w.cascade(g)...)
		}
		if !found {
			w.log.Warn("despawn request matched no multibody", "name", req.Name)
		}
	}
	w.despawnAll(targets)
}

// Despawn removes the entity's body, collider and joints from the solver and
// strips its physics components. Despawning a multibody root also despawns
// every link in its joint map. It returns the number of entities despawned.
func (w *PhysicsWorld) Despawn(e engine.Entity) int {
	g := w.scene.FindByUID(e)
	if g == nil {
		return 0
	}
	return w.despawnAll(w.cascade(g))
}

// cascade lists g and, for a multibody root, every link it names.
func (w *PhysicsWorld) cascade(g *engine.GameObject) []engine.Entity {
	out := []engine.Entity{g.UID}
	if root, ok := engine.TryGetComponent[*components.MultibodyRoot](g); ok {
		for _, e := range root.Joints {
			if e != g.UID {
				out = append(out, e)
			}
		}
	}
	return out
}

func (w *PhysicsWorld) despawnAll(targets []engine.Entity) int {
	slices.Sort(targets)
	targets = slices.Compact(targets)
	doomed := make(map[engine.Entity]bool, len(targets))
	for _, e := range targets {
		doomed[e] = true
	}

	n := 0
	for _, e := range targets {
		g := w.scene.FindByUID(e)
		if g == nil {
			continue
		}
		w.detachChildren(e, doomed)
		w.removeFromSolver(e)
		stripPhysics(g)
		w.respond(Response{Kind: KindDespawned, Despawned: &Despawned{ID: e, Name: g.Name}})
		if w.opts.DespawnEntities {
			w.scene.Despawn(e)
		}
		n++
	}
	if n > 0 {
		w.log.Info("despawned entities", "count", n)
	}
	return n
}

// detachChildren severs joints from e to children that survive the despawn.
// The orphaned child keeps its body but loses its Joint, so it is not
// reconnected on a later tick.
func (w *PhysicsWorld) detachChildren(e engine.Entity, doomed map[engine.Entity]bool) {
	h, ok := w.bodies.Handle(e)
	if !ok {
		return
	}
	joints := w.solver.Joints()
	for _, other := range joints.AttachedBodies(h) {
		child, ok := w.bodies.Entity(other)
		if !ok || doomed[child] {
			continue
		}
		if jh, ok := joints.ParentJoint(other); !ok || w.jointEntity[jh] != child {
			continue
		}
		if g := w.scene.FindByUID(child); g != nil {
			engine.RemoveComponent[*components.Joint](g)
			engine.RemoveComponent[*components.JointHandle](g)
		}
		w.forgetJoint(child)
	}
}

func (w *PhysicsWorld) removeFromSolver(e engine.Entity) {
	w.forgetJoint(e)
	if ch, ok := w.colliders[e]; ok {
		delete(w.colliders, e)
		delete(w.colliderEntity, ch)
		w.colliderGraveyard[ch] = e
	}
	if h, ok := w.bodies.Remove(e); ok {
		w.solver.RemoveBody(h)
	}
	delete(w.rejectedBodies, e)
	delete(w.rejectedShapes, e)
	delete(w.rejectedJoints, e)
}

func (w *PhysicsWorld) forgetJoint(e engine.Entity) {
	if jh, ok := w.joints[e]; ok {
		delete(w.joints, e)
		delete(w.jointEntity, jh)
	}
}

func stripPhysics(g *engine.GameObject) {
	engine.RemoveComponent[*components.RigidBody](g)
	engine.RemoveComponent[*components.RigidBodyHandle](g)
	engine.RemoveComponent[*components.ColliderShape](g)
	engine.RemoveComponent[*components.ColliderPhysicalProperties](g)
	engine.RemoveComponent[*components.ColliderHandle](g)
	engine.RemoveComponent[*components.Joint](g)
	engine.RemoveComponent[*components.JointHandle](g)
	engine.RemoveComponent[*components.MultibodyRoot](g)
	engine.RemoveComponent[*components.MultiBodyChild](g)
	engine.RemoveComponent[*components.Mass](g)
	engine.RemoveComponent[*components.MultibodyMass](g)
	engine.RemoveComponent[*components.GravityScale](g)
	engine.RemoveComponent[*components.Force](g)
	engine.RemoveComponent[*components.Impulse](g)
	engine.RemoveComponent[*components.Velocity](g)
}
