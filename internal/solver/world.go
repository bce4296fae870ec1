package solver

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

// IntegrationParameters control a simulation step.
type IntegrationParameters struct {
	Dt float64
	// Iterations is the number of velocity solver passes per step.
	Iterations int
	// PositionIterations is the number of joint drift correction passes
	// after position integration.
	PositionIterations int
	// Baumgarte is the fraction of the position error fed back per step.
	Baumgarte            float64
	AllowedPenetration   float64
	RestitutionThreshold float64
}

func DefaultIntegrationParameters() IntegrationParameters {
	return IntegrationParameters{
		Dt:                   1.0 / 60.0,
		Iterations:           8,
		PositionIterations:   2,
		Baumgarte:            0.2,
		AllowedPenetration:   0.005,
		RestitutionThreshold: 1.0,
	}
}

// World owns bodies, colliders and joints and advances them in time.
type World struct {
	Gravity mgl64.Vec3
	Params  IntegrationParameters

	bodies    Arena[RigidBody]
	colliders Arena[Collider]
	joints    JointSet
	broad     *broadPhase

	// pairs touching at the end of the last step
	activePairs   map[colliderPair]CollisionEventFlags
	removedActive map[ColliderHandle]bool
	events        []CollisionEvent

	log *slog.Logger
}

func NewWorld(gravity mgl64.Vec3, params IntegrationParameters, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	return &World{
		Gravity:       gravity,
		Params:        params,
		joints:        newJointSet(),
		broad:         newBroadPhase(),
		activePairs:   make(map[colliderPair]CollisionEventFlags),
		removedActive: make(map[ColliderHandle]bool),
		log:           logger,
	}
}

// InsertBody adds a body and returns its handle.
func (w *World) InsertBody(rb RigidBody) BodyHandle {
	rb.colliders = nil
	rb.recomputeMass(nil)
	return BodyHandle(w.bodies.Insert(rb))
}

// Body returns the body for h, or false if the handle is stale.
func (w *World) Body(h BodyHandle) (*RigidBody, bool) {
	return w.bodies.Get(Handle(h))
}

func (w *World) BodyCount() int { return w.bodies.Len() }

// BodyHandles returns all live body handles in index order.
func (w *World) BodyHandles() []BodyHandle {
	hs := w.bodies.Handles()
	out := make([]BodyHandle, len(hs))
	for i, h := range hs {
		out[i] = BodyHandle(h)
	}
	return out
}

// RemoveBody deletes a body together with its colliders and every joint
// attached to it. Removing a multibody link splits the multibody.
func (w *World) RemoveBody(h BodyHandle) bool {
	rb, ok := w.bodies.Get(Handle(h))
	if !ok {
		return false
	}
	for _, ch := range append([]ColliderHandle(nil), rb.colliders...) {
		w.removeCollider(ch, false)
	}
	for _, jh := range w.joints.removeBody(h) {
		w.log.Debug("joint removed with body", "joint", jh, "body", h)
	}
	w.bodies.Remove(Handle(h))
	return true
}

// InsertCollider attaches c to parent and updates the parent's mass.
func (w *World) InsertCollider(c Collider, parent BodyHandle) (ColliderHandle, error) {
	if err := c.Shape.Validate(); err != nil {
		return ColliderHandle{}, err
	}
	rb, ok := w.bodies.Get(Handle(parent))
	if !ok {
		return ColliderHandle{}, fmt.Errorf("%w: %v", ErrUnknownBody, parent)
	}
	c.parent = parent
	ch := ColliderHandle(w.colliders.Insert(c))
	rb.colliders = append(rb.colliders, ch)
	w.updateMass(rb)
	return ch, nil
}

func (w *World) Collider(h ColliderHandle) (*Collider, bool) {
	return w.colliders.Get(Handle(h))
}

func (w *World) ColliderCount() int { return w.colliders.Len() }

// RemoveCollider detaches a collider and ends its active contacts.
func (w *World) RemoveCollider(h ColliderHandle) bool {
	return w.removeCollider(h, true)
}

func (w *World) removeCollider(h ColliderHandle, updateParent bool) bool {
	c, ok := w.colliders.Get(Handle(h))
	if !ok {
		return false
	}
	parent := c.parent
	w.removedActive[h] = c.ActiveEvents
	w.colliders.Remove(Handle(h))
	w.stopPairsOf(h)
	delete(w.removedActive, h)

	if rb, ok := w.bodies.Get(Handle(parent)); ok {
		for i, other := range rb.colliders {
			if other == h {
				rb.colliders = append(rb.colliders[:i], rb.colliders[i+1:]...)
				break
			}
		}
		if updateParent {
			w.updateMass(rb)
		}
	}
	return true
}

// RecomputeMass refreshes a body's mass properties after its colliders or
// AdditionalMass changed.
func (w *World) RecomputeMass(h BodyHandle) bool {
	rb, ok := w.bodies.Get(Handle(h))
	if !ok {
		return false
	}
	w.updateMass(rb)
	return true
}

func (w *World) updateMass(rb *RigidBody) {
	cs := make([]*Collider, 0, len(rb.colliders))
	for _, ch := range rb.colliders {
		if c, ok := w.colliders.Get(Handle(ch)); ok {
			cs = append(cs, c)
		}
	}
	rb.recomputeMass(cs)
}

// InsertJoint links child under parent.
func (w *World) InsertJoint(parent, child BodyHandle, j GenericJoint) (JointHandle, error) {
	if !w.bodies.Contains(Handle(parent)) {
		return JointHandle{}, fmt.Errorf("%w: parent %v", ErrUnknownBody, parent)
	}
	if !w.bodies.Contains(Handle(child)) {
		return JointHandle{}, fmt.Errorf("%w: child %v", ErrUnknownBody, child)
	}
	return w.joints.insert(parent, child, j)
}

func (w *World) RemoveJoint(h JointHandle) bool {
	return w.joints.remove(h)
}

// Joints exposes the joint graph for queries.
func (w *World) Joints() *JointSet { return &w.joints }

// contactPoint is a narrow-phase result waiting for the velocity solver.
type contactPoint struct {
	b1, b2      *RigidBody
	point       manifoldPoint
	friction    float64
	restitution float64
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	p := w.Params
	p.Dt = dt

	w.bodies.Each(func(_ Handle, rb *RigidBody) {
		rb.integrateVelocity(w.Gravity, dt)
	})

	touching, contacts := w.detectCollisions()

	var rows []velocityRow
	w.joints.Each(func(_ JointHandle, parent, child BodyHandle, j *GenericJoint) {
		b1, ok1 := w.bodies.Get(Handle(parent))
		b2, ok2 := w.bodies.Get(Handle(child))
		if !ok1 || !ok2 {
			return
		}
		rows = append(rows, jointRows(j, b1, b2, p)...)
	})
	constraints := make([]contactConstraint, 0, len(contacts))
	for _, c := range contacts {
		constraints = append(constraints, newContactConstraint(c.b1, c.b2, c.point, c.friction, c.restitution, p))
	}

	for it := 0; it < p.Iterations; it++ {
		for i := range rows {
			rows[i].solve()
		}
		for i := range constraints {
			constraints[i].solve()
		}
	}

	w.bodies.Each(func(_ Handle, rb *RigidBody) {
		rb.integratePosition(dt)
	})
	for it := 0; it < p.PositionIterations; it++ {
		w.correctJointDrift()
	}

	w.dispatchCollisionEvents(touching)
}

// detectCollisions runs the broad and narrow phase. It returns every
// touching pair with its event flags and the contact points to solve.
func (w *World) detectCollisions() (map[colliderPair]CollisionEventFlags, []contactPoint) {
	w.broad.rebuild(w)
	touching := make(map[colliderPair]CollisionEventFlags)
	var contacts []contactPoint

	for _, pair := range w.broad.pairs() {
		c1, _ := w.colliders.Get(Handle(pair.A))
		c2, _ := w.colliders.Get(Handle(pair.B))
		if c1.parent == c2.parent {
			continue
		}
		b1, _ := w.bodies.Get(Handle(c1.parent))
		b2, _ := w.bodies.Get(Handle(c2.parent))
		if !b1.IsDynamic() && !b2.IsDynamic() {
			continue
		}
		if jh, linked := w.joints.Linked(c1.parent, c2.parent); linked {
			if j, _, _, ok := w.joints.Get(jh); ok && !j.ContactsEnabled {
				continue
			}
		}

		points := collide(c1.Shape, b1.Position.Mul(c1.Offset), c2.Shape, b2.Position.Mul(c2.Offset))
		if len(points) == 0 {
			continue
		}
		var flags CollisionEventFlags
		if c1.Sensor || c2.Sensor {
			flags |= FlagSensor
		}
		touching[pair] = flags
		if flags.Has(FlagSensor) {
			continue
		}
		friction := (c1.Friction + c2.Friction) / 2
		restitution := max(c1.Restitution, c2.Restitution)
		for _, mp := range points {
			contacts = append(contacts, contactPoint{b1: b1, b2: b2, point: mp, friction: friction, restitution: restitution})
		}
	}
	return touching, contacts
}

// correctJointDrift moves dynamic bodies so the anchors of locked linear
// axes coincide again, splitting the correction by inverse mass.
func (w *World) correctJointDrift() {
	w.joints.Each(func(_ JointHandle, parent, child BodyHandle, j *GenericJoint) {
		if j.Locked&MaskLinAxes == 0 {
			return
		}
		b1, ok1 := w.bodies.Get(Handle(parent))
		b2, ok2 := w.bodies.Get(Handle(child))
		if !ok1 || !ok2 {
			return
		}
		total := b1.invMass + b2.invMass
		if total == 0 {
			return
		}
		f1 := b1.Position.Mul(j.LocalFrame1)
		coords := j.Coordinates(b1.Position, b2.Position)
		var local mgl64.Vec3
		for a := LinX; a <= LinZ; a++ {
			if j.Locked.Has(a) {
				local[a] = coords[a]
			}
		}
		err := f1.TransformVector(local)
		if err.Len() < 1e-9 {
			return
		}
		if b1.IsDynamic() {
			b1.Position.Translation = b1.Position.Translation.Add(err.Mul(b1.invMass / total))
		}
		if b2.IsDynamic() {
			b2.Position.Translation = b2.Position.Translation.Sub(err.Mul(b2.invMass / total))
		}
	})
}
