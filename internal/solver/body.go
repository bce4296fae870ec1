package solver

import (
	"github.com/go-gl/mathgl/mgl64"
)

type BodyType uint8

const (
	// BodyFixed never moves and has infinite mass.
	BodyFixed BodyType = iota
	// BodyDynamic integrates forces and responds to contacts and joints.
	BodyDynamic
	// BodyKinematic moves with its velocity but is not pushed by anything.
	BodyKinematic
)

func (t BodyType) String() string {
	switch t {
	case BodyFixed:
		return "fixed"
	case BodyDynamic:
		return "dynamic"
	case BodyKinematic:
		return "kinematic"
	}
	return "unknown"
}

// BodyHandle addresses a RigidBody in a World.
type BodyHandle Handle

func (h BodyHandle) String() string { return Handle(h).String() }
func (h BodyHandle) ID() uint64     { return Handle(h).ID() }

type RigidBody struct {
	Type     BodyType
	Position Isometry
	LinVel   mgl64.Vec3
	AngVel   mgl64.Vec3

	GravityScale   float64
	LinearDamping  float64
	AngularDamping float64
	// AdditionalMass is added to the mass computed from colliders.
	AdditionalMass float64

	// UserData is an opaque tag for the owner; the bridge stores the entity id.
	UserData uint64

	// user force and torque persist across steps until reset
	force  mgl64.Vec3
	torque mgl64.Vec3

	mass            float64
	invMass         float64
	invInertiaLocal mgl64.Vec3
	colliders       []ColliderHandle
}

// NewRigidBody returns a body of the given type at pose, with unit gravity scale.
func NewRigidBody(t BodyType, pose Isometry) RigidBody {
	rb := RigidBody{
		Type:         t,
		Position:     pose,
		GravityScale: 1,
	}
	rb.recomputeMass(nil)
	return rb
}

func (rb *RigidBody) IsDynamic() bool { return rb.Type == BodyDynamic }
func (rb *RigidBody) IsFixed() bool   { return rb.Type == BodyFixed }

// Mass returns the body's total mass. A dynamic body without mass reports the
// unit mass it is simulated with. Fixed and kinematic bodies report the mass
// of their colliders even though they behave as infinitely heavy.
func (rb *RigidBody) Mass() float64 { return rb.mass }

func (rb *RigidBody) InvMass() float64 { return rb.invMass }

func (rb *RigidBody) Translation() mgl64.Vec3 { return rb.Position.Translation }
func (rb *RigidBody) Rotation() mgl64.Quat    { return rb.Position.Rotation }

// Colliders returns the handles of attached colliders.
func (rb *RigidBody) Colliders() []ColliderHandle { return rb.colliders }

// UserForce returns the accumulated user force.
func (rb *RigidBody) UserForce() mgl64.Vec3 { return rb.force }

// UserTorque returns the accumulated user torque.
func (rb *RigidBody) UserTorque() mgl64.Vec3 { return rb.torque }

// AddForce adds to the force applied on every following step.
func (rb *RigidBody) AddForce(f mgl64.Vec3) { rb.force = rb.force.Add(f) }

// ResetForces zeroes the accumulated user force.
func (rb *RigidBody) ResetForces() { rb.force = mgl64.Vec3{} }

func (rb *RigidBody) AddTorque(t mgl64.Vec3) { rb.torque = rb.torque.Add(t) }
func (rb *RigidBody) ResetTorques()          { rb.torque = mgl64.Vec3{} }

// ApplyImpulse changes linear velocity immediately.
func (rb *RigidBody) ApplyImpulse(j mgl64.Vec3) {
	if !rb.IsDynamic() {
		return
	}
	rb.LinVel = rb.LinVel.Add(j.Mul(rb.invMass))
}

// ApplyTorqueImpulse changes angular velocity immediately.
func (rb *RigidBody) ApplyTorqueImpulse(j mgl64.Vec3) {
	if !rb.IsDynamic() {
		return
	}
	rb.AngVel = rb.AngVel.Add(rb.invInertiaWorld().Mul3x1(j))
}

// invInertiaWorld rotates the local diagonal inverse inertia into world space.
func (rb *RigidBody) invInertiaWorld() mgl64.Mat3 {
	if !rb.IsDynamic() {
		return mgl64.Mat3{}
	}
	r := rb.Position.Rotation.Mat4().Mat3()
	return r.Mul3(mgl64.Diag3(rb.invInertiaLocal)).Mul3(r.Transpose())
}

// velocityAt returns the velocity of a world point rigidly attached to the body.
func (rb *RigidBody) velocityAt(r mgl64.Vec3) mgl64.Vec3 {
	return rb.LinVel.Add(rb.AngVel.Cross(r))
}

// applyImpulseAt applies an impulse at offset r from the body origin.
func (rb *RigidBody) applyImpulseAt(j, r mgl64.Vec3) {
	if !rb.IsDynamic() {
		return
	}
	rb.LinVel = rb.LinVel.Add(j.Mul(rb.invMass))
	rb.AngVel = rb.AngVel.Add(rb.invInertiaWorld().Mul3x1(r.Cross(j)))
}

// recomputeMass sums collider mass properties around the body origin. A
// dynamic body without mass falls back to unit mass and inertia so it still
// integrates gravity.
func (rb *RigidBody) recomputeMass(colliders []*Collider) {
	mass := rb.AdditionalMass
	var inertia mgl64.Vec3
	if rb.AdditionalMass > 0 {
		inertia = mgl64.Vec3{rb.AdditionalMass, rb.AdditionalMass, rb.AdditionalMass}.Mul(0.4)
	}
	for _, c := range colliders {
		if c.Sensor {
			continue
		}
		m, local := c.Shape.MassProperties(c.Density)
		d := c.Offset.Translation
		// parallel axis, diagonal terms only
		inertia = inertia.Add(local).Add(mgl64.Vec3{
			m * (d[1]*d[1] + d[2]*d[2]),
			m * (d[0]*d[0] + d[2]*d[2]),
			m * (d[0]*d[0] + d[1]*d[1]),
		})
		mass += m
	}
	rb.mass = mass

	if !rb.IsDynamic() {
		rb.invMass = 0
		rb.invInertiaLocal = mgl64.Vec3{}
		return
	}
	if mass <= 0 {
		rb.mass = 1
		rb.invMass = 1
		rb.invInertiaLocal = mgl64.Vec3{1, 1, 1}
		return
	}
	rb.invMass = 1 / mass
	for i := 0; i < 3; i++ {
		if inertia[i] > 0 {
			rb.invInertiaLocal[i] = 1 / inertia[i]
		} else {
			rb.invInertiaLocal[i] = 1
		}
	}
}

// integrateVelocity applies gravity, user force and damping for one step.
func (rb *RigidBody) integrateVelocity(gravity mgl64.Vec3, dt float64) {
	if !rb.IsDynamic() {
		return
	}
	acc := gravity.Mul(rb.GravityScale).Add(rb.force.Mul(rb.invMass))
	rb.LinVel = rb.LinVel.Add(acc.Mul(dt))
	rb.AngVel = rb.AngVel.Add(rb.invInertiaWorld().Mul3x1(rb.torque).Mul(dt))

	if rb.LinearDamping > 0 {
		rb.LinVel = rb.LinVel.Mul(1 / (1 + dt*rb.LinearDamping))
	}
	if rb.AngularDamping > 0 {
		rb.AngVel = rb.AngVel.Mul(1 / (1 + dt*rb.AngularDamping))
	}
}

// integratePosition advances the pose by the current velocities.
func (rb *RigidBody) integratePosition(dt float64) {
	if rb.IsFixed() {
		return
	}
	rb.Position.Translation = rb.Position.Translation.Add(rb.LinVel.Mul(dt))

	w := rb.AngVel
	if w.Len() == 0 {
		return
	}
	q := rb.Position.Rotation
	spin := mgl64.Quat{W: 0, V: w}.Mul(q)
	q = q.Add(spin.Scale(0.5 * dt))
	rb.Position.Rotation = q.Normalize()
}
