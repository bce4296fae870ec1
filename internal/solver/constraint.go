package solver

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// velocityRow is one scalar velocity constraint between two bodies, solved
// with sequential impulses. The impulse along the row is accumulated and
// clamped to [lo, hi].
type velocityRow struct {
	b1, b2     *RigidBody
	lin1, ang1 mgl64.Vec3
	lin2, ang2 mgl64.Vec3
	// inverse inertia times the angular jacobian, cached per step
	dw1, dw2 mgl64.Vec3

	invK  float64
	bias  float64
	gamma float64
	lo    float64
	hi    float64
	acc   float64
}

func newRow(b1, b2 *RigidBody, lin1, ang1, lin2, ang2 mgl64.Vec3) velocityRow {
	r := velocityRow{
		b1: b1, b2: b2,
		lin1: lin1, ang1: ang1, lin2: lin2, ang2: ang2,
		lo: math.Inf(-1), hi: math.Inf(1),
	}
	r.dw1 = b1.invInertiaWorld().Mul3x1(ang1)
	r.dw2 = b2.invInertiaWorld().Mul3x1(ang2)
	k := b1.invMass*lin1.Dot(lin1) + ang1.Dot(r.dw1) +
		b2.invMass*lin2.Dot(lin2) + ang2.Dot(r.dw2)
	if k > 0 {
		r.invK = 1 / k
	}
	return r
}

// soften turns the row into a spring with the given stiffness and damping
// (soft constraint formulation).
func (r *velocityRow) soften(stiffness, damping, dt float64) {
	g := dt * (damping + dt*stiffness)
	if g <= 0 {
		return
	}
	r.gamma = 1 / g
	k := 0.0
	if r.invK > 0 {
		k = 1 / r.invK
	}
	r.invK = 1 / (k + r.gamma)
}

func (r *velocityRow) velocity() float64 {
	return r.lin1.Dot(r.b1.LinVel) + r.ang1.Dot(r.b1.AngVel) +
		r.lin2.Dot(r.b2.LinVel) + r.ang2.Dot(r.b2.AngVel)
}

func (r *velocityRow) solve() {
	if r.invK == 0 {
		return
	}
	delta := -r.invK * (r.velocity() + r.bias + r.gamma*r.acc)
	next := clamp(r.acc+delta, r.lo, r.hi)
	delta = next - r.acc
	r.acc = next
	r.apply(delta)
}

func (r *velocityRow) apply(lambda float64) {
	if r.b1.IsDynamic() {
		r.b1.LinVel = r.b1.LinVel.Add(r.lin1.Mul(lambda * r.b1.invMass))
		r.b1.AngVel = r.b1.AngVel.Add(r.dw1.Mul(lambda))
	}
	if r.b2.IsDynamic() {
		r.b2.LinVel = r.b2.LinVel.Add(r.lin2.Mul(lambda * r.b2.invMass))
		r.b2.AngVel = r.b2.AngVel.Add(r.dw2.Mul(lambda))
	}
}

var unitAxes = [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// jointRows builds the rows for one joint: equality rows for locked axes,
// one-sided rows for violated limits and soft rows for motors.
func jointRows(j *GenericJoint, b1, b2 *RigidBody, p IntegrationParameters) []velocityRow {
	f1 := b1.Position.Mul(j.LocalFrame1)
	f2 := b2.Position.Mul(j.LocalFrame2)
	anchor := f2.Translation
	r1 := anchor.Sub(b1.Position.Translation)
	r2 := anchor.Sub(b2.Position.Translation)
	coords := j.Coordinates(b1.Position, b2.Position)
	erp := p.Baumgarte / p.Dt

	rows := make([]velocityRow, 0, 6)
	for a := LinX; a <= AngZ; a++ {
		axis := f1.Rotation.Rotate(unitAxes[a%3])
		mk := func() velocityRow {
			if a.IsAngular() {
				return newRow(b1, b2, mgl64.Vec3{}, axis.Mul(-1), mgl64.Vec3{}, axis)
			}
			return newRow(b1, b2, axis.Mul(-1), r1.Cross(axis).Mul(-1), axis, r2.Cross(axis))
		}
		pos := coords[a]

		if j.Locked.Has(a) {
			row := mk()
			row.bias = erp * pos
			rows = append(rows, row)
			continue
		}
		if lim, ok := j.Limits(a); ok {
			switch {
			case pos < lim.Min:
				row := mk()
				row.bias = erp * (pos - lim.Min)
				row.lo, row.hi = 0, math.Inf(1)
				rows = append(rows, row)
			case pos > lim.Max:
				row := mk()
				row.bias = erp * (pos - lim.Max)
				row.lo, row.hi = math.Inf(-1), 0
				rows = append(rows, row)
			}
		}
		if m, ok := j.Motor(a); ok && m.active() {
			row := mk()
			row.soften(m.Stiffness, m.Damping, p.Dt)
			row.bias = (pos-m.TargetPos)*p.Dt*m.Stiffness*row.gamma - m.TargetVel
			maxImpulse := m.MaxForce * p.Dt
			row.lo, row.hi = -maxImpulse, maxImpulse
			rows = append(rows, row)
		}
	}
	return rows
}

// contactConstraint is a non-penetration row plus two friction rows.
type contactConstraint struct {
	normal   velocityRow
	tangents [2]velocityRow
	friction float64
}

func tangentBasis(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var t1 mgl64.Vec3
	if math.Abs(n[0]) > 0.57735 {
		t1 = mgl64.Vec3{n[1], -n[0], 0}
	} else {
		t1 = mgl64.Vec3{0, n[2], -n[1]}
	}
	t1 = t1.Normalize()
	return t1, n.Cross(t1)
}

func newContactConstraint(b1, b2 *RigidBody, mp manifoldPoint, friction, restitution float64, p IntegrationParameters) contactConstraint {
	r1 := mp.Point.Sub(b1.Position.Translation)
	r2 := mp.Point.Sub(b2.Position.Translation)
	n := mp.Normal

	mk := func(dir mgl64.Vec3) velocityRow {
		return newRow(b1, b2, dir.Mul(-1), r1.Cross(dir).Mul(-1), dir, r2.Cross(dir))
	}

	c := contactConstraint{normal: mk(n), friction: friction}
	c.normal.lo, c.normal.hi = 0, math.Inf(1)

	bias := -p.Baumgarte / p.Dt * math.Max(mp.Depth-p.AllowedPenetration, 0)
	if vn := c.normal.velocity(); vn < -p.RestitutionThreshold {
		bias = math.Min(bias, restitution*vn)
	}
	c.normal.bias = bias

	t1, t2 := tangentBasis(n)
	c.tangents[0] = mk(t1)
	c.tangents[1] = mk(t2)
	return c
}

func (c *contactConstraint) solve() {
	limit := c.friction * c.normal.acc
	for i := range c.tangents {
		c.tangents[i].lo, c.tangents[i].hi = -limit, limit
		c.tangents[i].solve()
	}
	c.normal.solve()
}
