package physics

import (
	"errors"
	"fmt"
	"math"

	"physbridge/internal/components"
	"physbridge/internal/conv"
	"physbridge/internal/engine"
	"physbridge/internal/solver"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidLimits = errors.New("joint limits have min greater than max")

// Default motor gains used when a command leaves them unset.
const (
	DefaultMotorStiffness = 100.0
	DefaultMotorDamping   = 10.0
)

// Every kind with a single free axis maps it onto the X axis of the joint
// frames; the anchor rotations are corrected so that frame X lines up with
// the component's axis.
const (
	revoluteAxis  = solver.AngX
	prismaticAxis = solver.LinX
)

func anchorToSolver(a components.Anchor) solver.Isometry {
	rot := conv.QuatToSolver(a.Rotation)
	switch l := rot.Len(); {
	case l == 0:
		rot = mgl64.QuatIdent()
	case math.Abs(l-1) > 1e-6:
		rot = rot.Normalize()
	}
	return solver.Isometry{Translation: conv.PointToSolver(a.Position), Rotation: rot}
}

func anchorToEngine(iso solver.Isometry) components.Anchor {
	pos, rot := conv.IsometryToTransform(iso)
	return components.Anchor{Position: pos, Rotation: rot}
}

// alignX returns the rotation taking +X onto axis, which must be unit length.
func alignX(axis mgl64.Vec3) mgl64.Quat {
	x := mgl64.Vec3{1, 0, 0}
	c := x.Dot(axis)
	switch {
	case c > 1-1e-12:
		return mgl64.QuatIdent()
	case c < -1+1e-12:
		return mgl64.QuatRotate(math.Pi, mgl64.Vec3{0, 1, 0})
	}
	return mgl64.QuatRotate(math.Acos(c), x.Cross(axis).Normalize())
}

func motorToSolver(m components.Motor) solver.Motor {
	out := solver.Motor{
		TargetPos: float64(m.TargetPos),
		TargetVel: float64(m.TargetVel),
		Stiffness: float64(m.Stiffness),
		Damping:   float64(m.Damping),
		MaxForce:  float64(m.MaxForce),
	}
	if m.MaxForce <= 0 {
		out.MaxForce = math.Inf(1)
	}
	return out
}

func motorToEngine(m solver.Motor) components.Motor {
	out := components.Motor{
		TargetPos: float32(m.TargetPos),
		TargetVel: float32(m.TargetVel),
		Stiffness: float32(m.Stiffness),
		Damping:   float32(m.Damping),
	}
	if !math.IsInf(m.MaxForce, 1) {
		out.MaxForce = float32(m.MaxForce)
	}
	return out
}

// JointToGeneric converts a joint component into the solver's six-axis joint.
func JointToGeneric(j *components.Joint) (solver.GenericJoint, error) {
	f1 := anchorToSolver(j.ParentAnchor)
	f2 := anchorToSolver(j.ChildAnchor)

	if j.Limits != nil && j.Limits.Min > j.Limits.Max {
		return solver.GenericJoint{}, fmt.Errorf("%w: [%v, %v]", ErrInvalidLimits, j.Limits.Min, j.Limits.Max)
	}
	if j.Motor != nil && !j.Kind.HasAxis() {
		return solver.GenericJoint{}, fmt.Errorf("%w: %s", ErrNotMotorized, j.Kind)
	}

	var g solver.GenericJoint
	var free solver.JointAxis
	switch j.Kind {
	case components.FixedJoint:
		g = solver.NewGenericJoint(solver.MaskAll)
	case components.SphericalJoint:
		g = solver.NewGenericJoint(solver.MaskLinAxes)
		if j.Limits != nil {
			for a := solver.AngX; a <= solver.AngZ; a++ {
				g.SetLimits(a, float64(j.Limits.Min), float64(j.Limits.Max))
			}
		}
	case components.RevoluteJoint, components.PrismaticJoint:
		axis, ok := conv.AxisToSolver(j.Axis)
		if !ok {
			return solver.GenericJoint{}, fmt.Errorf("%w: %s joint", ErrInvalidAxis, j.Kind)
		}
		free = revoluteAxis
		if j.Kind == components.PrismaticJoint {
			free = prismaticAxis
		}
		g = solver.NewGenericJoint(solver.MaskAll &^ (1 << free))
		align := alignX(axis)
		f1.Rotation = f1.Rotation.Mul(align)
		f2.Rotation = f2.Rotation.Mul(align)
		if j.Limits != nil {
			g.SetLimits(free, float64(j.Limits.Min), float64(j.Limits.Max))
		}
		if j.Motor != nil {
			g.SetMotor(free, motorToSolver(*j.Motor))
		}
	default:
		return solver.GenericJoint{}, fmt.Errorf("unknown joint kind %d", j.Kind)
	}
	g.LocalFrame1 = f1
	g.LocalFrame2 = f2
	g.ContactsEnabled = j.ContactsEnabled
	return g, nil
}

// GenericToJoint converts a solver joint back into a component. The free
// axis comes back as +X with the alignment folded into the anchor rotations,
// which describes the same constraint. The Parent reference is left empty.
func GenericToJoint(g *solver.GenericJoint) (components.Joint, error) {
	j := components.Joint{
		ParentAnchor:    anchorToEngine(g.LocalFrame1),
		ChildAnchor:     anchorToEngine(g.LocalFrame2),
		ContactsEnabled: g.ContactsEnabled,
	}
	var free solver.JointAxis
	switch g.Locked {
	case solver.MaskAll:
		j.Kind = components.FixedJoint
		return j, nil
	case solver.MaskLinAxes:
		j.Kind = components.SphericalJoint
		if l, ok := g.Limits(solver.AngX); ok {
			j.Limits = &components.Limits{Min: float32(l.Min), Max: float32(l.Max)}
		}
		return j, nil
	case solver.MaskAll &^ (1 << revoluteAxis):
		j.Kind = components.RevoluteJoint
		free = revoluteAxis
	case solver.MaskAll &^ (1 << prismaticAxis):
		j.Kind = components.PrismaticJoint
		free = prismaticAxis
	default:
		return j, fmt.Errorf("locked axes %06b match no joint kind", g.Locked)
	}
	j.Axis = conv.AxisToEngine(mgl64.Vec3{1, 0, 0})
	if l, ok := g.Limits(free); ok {
		j.Limits = &components.Limits{Min: float32(l.Min), Max: float32(l.Max)}
	}
	if m, ok := g.Motor(free); ok {
		em := motorToEngine(m)
		j.Motor = &em
	}
	return j, nil
}

// SyncJoints inserts a solver joint for every Joint component whose child
// and parent bodies both exist. Joints wait while either body is still
// pending and are rejected once when a body can never appear or the joint
// would close a cycle.
func (w *PhysicsWorld) SyncJoints() []error {
	for _, g := range w.entities() {
		jc, ok := engine.TryGetComponent[*components.Joint](g)
		if !ok || engine.HasComponent[*components.JointHandle](g) || w.rejectedJoints[g.UID] {
			continue
		}
		child, ready, err := w.jointBody(g)
		if err == nil && ready {
			parent := jc.Parent.Get(w.scene)
			if parent == nil {
				err = fmt.Errorf("%w: parent entity %d not found", ErrMissingBody, jc.Parent.UID)
			} else {
				var parentBody solver.BodyHandle
				parentBody, ready, err = w.jointBody(parent)
				if err == nil && ready {
					err = w.insertJoint(g, jc, parentBody, child)
				}
			}
		}
		if err != nil {
			w.rejectedJoints[g.UID] = true
			w.configuration(configErr(g.UID, "sync joint", err))
		}
	}
	return w.takeErrors()
}

// jointBody returns the body of g, or ready=false when g will get one later.
func (w *PhysicsWorld) jointBody(g *engine.GameObject) (solver.BodyHandle, bool, error) {
	if hc, ok := engine.TryGetComponent[*components.RigidBodyHandle](g); ok {
		return hc.Handle, true, nil
	}
	if !engine.HasComponent[*components.RigidBody](g) || w.rejectedBodies[g.UID] {
		return solver.BodyHandle{}, false, fmt.Errorf("%w: entity %d has no body", ErrMissingBody, g.UID)
	}
	return solver.BodyHandle{}, false, nil
}

func (w *PhysicsWorld) insertJoint(g *engine.GameObject, jc *components.Joint, parent, child solver.BodyHandle) error {
	generic, err := JointToGeneric(jc)
	if err != nil {
		return err
	}
	jh, err := w.solver.InsertJoint(parent, child, generic)
	if err != nil {
		return err
	}
	w.joints[g.UID] = jh
	w.jointEntity[jh] = g.UID
	g.AddComponent(&components.JointHandle{Handle: jh})
	w.log.Debug("joint created", "entity", g.UID, "parent", jc.Parent.UID, "kind", jc.Kind, "handle", jh)
	return nil
}

type MotorMode uint8

const (
	MotorVelocity MotorMode = iota
	MotorPosition
)

func (m MotorMode) String() string {
	if m == MotorPosition {
		return "position"
	}
	return "velocity"
}

func (m MotorMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// MotorCommand retargets the motor of a revolute or prismatic joint. Velocity
// mode drops the stiffness term and uses Stiffness as given. Otherwise a zero
// gain keeps the joint's current gain, or the default if it has none.
// MaxForce 0 removes the force cap.
type MotorCommand struct {
	Joint     engine.Entity
	Mode      MotorMode
	Target    float32
	MaxForce  float32
	Stiffness float32
	Damping   float32
}

// SendMotorCommand queues cmd for the next tick.
func (w *PhysicsWorld) SendMotorCommand(cmd MotorCommand) {
	w.motors.Send(cmd)
}

// ApplyMotorCommands applies every pending motor command to its joint.
func (w *PhysicsWorld) ApplyMotorCommands() []error {
	for _, cmd := range w.motors.Drain() {
		if err := w.applyMotor(cmd); err != nil {
			w.configuration(configErr(cmd.Joint, "motor command", err))
		}
	}
	return w.takeErrors()
}

func (w *PhysicsWorld) applyMotor(cmd MotorCommand) error {
	g := w.scene.FindByUID(cmd.Joint)
	if g == nil {
		return fmt.Errorf("%w: entity not found", ErrMissingBody)
	}
	jc, ok := engine.TryGetComponent[*components.Joint](g)
	jh, created := w.joints[cmd.Joint]
	if !ok || !created {
		return fmt.Errorf("%w: entity has no joint in the solver", ErrMissingBody)
	}
	var axis solver.JointAxis
	switch jc.Kind {
	case components.RevoluteJoint:
		axis = revoluteAxis
	case components.PrismaticJoint:
		axis = prismaticAxis
	default:
		return fmt.Errorf("%w: %s", ErrNotMotorized, jc.Kind)
	}
	generic, _, _, ok := w.solver.Joints().Get(jh)
	if !ok {
		return &ConsistencyError{Entity: cmd.Joint, Handle: solver.Handle(jh), Reason: "joint handle does not resolve"}
	}

	m := components.Motor{}
	if jc.Motor != nil {
		m = *jc.Motor
	}
	pick := func(cmdGain, current, def float32) float32 {
		switch {
		case cmdGain > 0:
			return cmdGain
		case current > 0:
			return current
		}
		return def
	}
	switch cmd.Mode {
	case MotorVelocity:
		m.TargetVel = cmd.Target
		m.Stiffness = cmd.Stiffness
		m.Damping = pick(cmd.Damping, m.Damping, DefaultMotorDamping)
	case MotorPosition:
		m.TargetPos = cmd.Target
		m.TargetVel = 0
		m.Stiffness = pick(cmd.Stiffness, m.Stiffness, DefaultMotorStiffness)
		m.Damping = pick(cmd.Damping, m.Damping, DefaultMotorDamping)
	}
	m.MaxForce = cmd.MaxForce

	jc.Motor = &m
	generic.SetMotor(axis, motorToSolver(m))
	w.respond(Response{Kind: KindJointMotor, Motor: &JointMotorEvent{
		Joint:    cmd.Joint,
		Mode:     cmd.Mode,
		Target:   cmd.Target,
		MaxForce: cmd.MaxForce,
	}})
	return nil
}
