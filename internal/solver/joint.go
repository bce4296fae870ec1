package solver

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// JointAxis indexes one of the six degrees of freedom of a GenericJoint,
// expressed in the joint frame attached to the first body.
type JointAxis uint8

const (
	LinX JointAxis = iota
	LinY
	LinZ
	AngX
	AngY
	AngZ
)

func (a JointAxis) String() string {
	return [...]string{"lin_x", "lin_y", "lin_z", "ang_x", "ang_y", "ang_z"}[a]
}

// IsAngular reports whether a is a rotational axis.
func (a JointAxis) IsAngular() bool { return a >= AngX }

// JointAxesMask is a bit set over JointAxis.
type JointAxesMask uint8

const (
	MaskLinX JointAxesMask = 1 << iota
	MaskLinY
	MaskLinZ
	MaskAngX
	MaskAngY
	MaskAngZ

	MaskLinAxes = MaskLinX | MaskLinY | MaskLinZ
	MaskAngAxes = MaskAngX | MaskAngY | MaskAngZ
	MaskAll     = MaskLinAxes | MaskAngAxes
)

func (m JointAxesMask) Has(a JointAxis) bool { return m&(1<<a) != 0 }

func maskOf(a JointAxis) JointAxesMask { return 1 << a }

// Limit bounds the coordinate of a free axis.
type Limit struct {
	Min, Max float64
}

// Motor drives a free axis towards a target position and velocity. The drive
// is a spring with the given stiffness and damping, capped at MaxForce
// (force for linear axes, torque for angular ones).
type Motor struct {
	TargetPos float64
	TargetVel float64
	Stiffness float64
	Damping   float64
	MaxForce  float64
}

// NewMotor returns an uncapped motor.
func NewMotor() Motor {
	return Motor{MaxForce: math.Inf(1)}
}

func (m Motor) active() bool {
	return m.Stiffness > 0 || m.Damping > 0
}

// GenericJoint constrains the relative motion of two bodies on up to six axes.
// Axes in Locked are held at zero; every other axis is free, optionally
// limited and motorized.
type GenericJoint struct {
	LocalFrame1 Isometry
	LocalFrame2 Isometry
	Locked      JointAxesMask
	// ContactsEnabled lets the two bodies collide with each other.
	ContactsEnabled bool

	limited JointAxesMask
	limits  [6]Limit
	motored JointAxesMask
	motors  [6]Motor
}

// NewGenericJoint returns a joint with identity frames and the given locked axes.
func NewGenericJoint(locked JointAxesMask) GenericJoint {
	return GenericJoint{
		LocalFrame1: IdentityIsometry(),
		LocalFrame2: IdentityIsometry(),
		Locked:      locked,
	}
}

// FreeAxes returns the axes that are not locked.
func (j *GenericJoint) FreeAxes() JointAxesMask {
	return MaskAll &^ j.Locked
}

// SetLimits bounds axis a to [min, max].
func (j *GenericJoint) SetLimits(a JointAxis, min, max float64) {
	j.limited |= maskOf(a)
	j.limits[a] = Limit{Min: min, Max: max}
}

// ClearLimits removes the bound on axis a.
func (j *GenericJoint) ClearLimits(a JointAxis) {
	j.limited &^= maskOf(a)
	j.limits[a] = Limit{}
}

// Limits returns the bound on axis a, if any.
func (j *GenericJoint) Limits(a JointAxis) (Limit, bool) {
	if !j.limited.Has(a) {
		return Limit{}, false
	}
	return j.limits[a], true
}

// LimitedAxes returns the mask of axes that carry limits.
func (j *GenericJoint) LimitedAxes() JointAxesMask { return j.limited }

// SetMotor installs a motor on axis a.
func (j *GenericJoint) SetMotor(a JointAxis, m Motor) {
	j.motored |= maskOf(a)
	j.motors[a] = m
}

// ClearMotor removes the motor on axis a.
func (j *GenericJoint) ClearMotor(a JointAxis) {
	j.motored &^= maskOf(a)
	j.motors[a] = Motor{}
}

// Motor returns the motor on axis a, if any.
func (j *GenericJoint) Motor(a JointAxis) (Motor, bool) {
	if !j.motored.Has(a) {
		return Motor{}, false
	}
	return j.motors[a], true
}

// MotorizedAxes returns the mask of axes that carry motors.
func (j *GenericJoint) MotorizedAxes() JointAxesMask { return j.motored }

// Coordinates returns the current value of every axis: the relative
// translation of frame 2 in frame 1, and the relative rotation angle about
// each frame 1 axis.
func (j *GenericJoint) Coordinates(pose1, pose2 Isometry) [6]float64 {
	f1 := pose1.Mul(j.LocalFrame1)
	f2 := pose2.Mul(j.LocalFrame2)
	var out [6]float64
	d := f1.InverseTransformPoint(f2.Translation)
	out[LinX], out[LinY], out[LinZ] = d[0], d[1], d[2]
	ang := relativeAngles(f1.Rotation, f2.Rotation)
	out[AngX], out[AngY], out[AngZ] = ang[0], ang[1], ang[2]
	return out
}

// relativeAngles returns the angle of the rotation from q1 to q2 about each
// axis of q1's frame. Exact for rotation about a single axis and a small-angle
// approximation otherwise.
func relativeAngles(q1, q2 mgl64.Quat) mgl64.Vec3 {
	rel := q1.Conjugate().Mul(q2)
	if rel.W < 0 {
		rel = rel.Scale(-1)
	}
	return mgl64.Vec3{
		2 * math.Atan2(rel.V[0], rel.W),
		2 * math.Atan2(rel.V[1], rel.W),
		2 * math.Atan2(rel.V[2], rel.W),
	}
}
