package components

import (
	"fmt"

	"physbridge/internal/engine"
	"physbridge/internal/solver"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type JointKind uint8

const (
	FixedJoint JointKind = iota
	RevoluteJoint
	PrismaticJoint
	SphericalJoint
)

func (k JointKind) String() string {
	switch k {
	case FixedJoint:
		return "fixed"
	case RevoluteJoint:
		return "revolute"
	case PrismaticJoint:
		return "prismatic"
	case SphericalJoint:
		return "spherical"
	}
	return fmt.Sprintf("JointKind(%d)", uint8(k))
}

func ParseJointKind(s string) (JointKind, error) {
	switch s {
	case "fixed":
		return FixedJoint, nil
	case "revolute", "hinge":
		return RevoluteJoint, nil
	case "prismatic", "slider":
		return PrismaticJoint, nil
	case "spherical", "ball":
		return SphericalJoint, nil
	}
	return FixedJoint, fmt.Errorf("unknown joint kind %q", s)
}

// HasAxis reports whether the kind moves along or about a single axis.
func (k JointKind) HasAxis() bool {
	return k == RevoluteJoint || k == PrismaticJoint
}

// Anchor is a joint frame relative to its body's origin.
type Anchor struct {
	Position rl.Vector3
	Rotation rl.Quaternion
}

// AnchorAt returns an unrotated anchor at pos.
func AnchorAt(pos rl.Vector3) Anchor {
	return Anchor{Position: pos, Rotation: rl.QuaternionIdentity()}
}

// Limits bound a joint coordinate: radians for revolute, units for prismatic.
type Limits struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

// Motor drives the free axis of a revolute or prismatic joint toward a target
// position and velocity. MaxForce 0 means no force cap.
type Motor struct {
	TargetPos float32
	TargetVel float32
	Stiffness float32
	Damping   float32
	MaxForce  float32
}

// Joint lives on the child entity and names its parent weakly.
type Joint struct {
	engine.BaseComponent
	Kind         JointKind
	Parent       engine.GameObjectRef
	ParentAnchor Anchor
	ChildAnchor  Anchor
	// Axis is the free axis in the joint frame; ignored by fixed and spherical joints.
	Axis rl.Vector3
	// Limits is nil when the coordinate is unbounded.
	Limits *Limits
	Motor  *Motor
	// ContactsEnabled lets the two bodies collide with each other.
	ContactsEnabled bool
}

func newJoint(kind JointKind, parent *engine.GameObject, parentAnchor, childAnchor Anchor) *Joint {
	return &Joint{
		Kind:         kind,
		Parent:       engine.RefTo(parent),
		ParentAnchor: parentAnchor,
		ChildAnchor:  childAnchor,
	}
}

func NewFixedJoint(parent *engine.GameObject, parentAnchor, childAnchor Anchor) *Joint {
	return newJoint(FixedJoint, parent, parentAnchor, childAnchor)
}

func NewRevoluteJoint(parent *engine.GameObject, parentAnchor, childAnchor Anchor, axis rl.Vector3) *Joint {
	j := newJoint(RevoluteJoint, parent, parentAnchor, childAnchor)
	j.Axis = axis
	return j
}

func NewPrismaticJoint(parent *engine.GameObject, parentAnchor, childAnchor Anchor, axis rl.Vector3) *Joint {
	j := newJoint(PrismaticJoint, parent, parentAnchor, childAnchor)
	j.Axis = axis
	return j
}

func NewSphericalJoint(parent *engine.GameObject, parentAnchor, childAnchor Anchor) *Joint {
	return newJoint(SphericalJoint, parent, parentAnchor, childAnchor)
}

// WithLimits sets the coordinate limits and returns j.
func (j *Joint) WithLimits(min, max float32) *Joint {
	j.Limits = &Limits{Min: min, Max: max}
	return j
}

// WithMotor sets the motor and returns j.
func (j *Joint) WithMotor(m Motor) *Joint {
	j.Motor = &m
	return j
}

// JointHandle links the child entity of a joint to the solver joint.
type JointHandle struct {
	engine.BaseComponent
	Handle solver.JointHandle
}
