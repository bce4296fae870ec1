package physics

import (
	"math"
	"testing"

	"physbridge/internal/components"
	"physbridge/internal/conv"
	"physbridge/internal/engine"
	"physbridge/internal/solver"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedJointPreservesAnchors(t *testing.T) {
	parent := engine.NewGameObject("parent")
	pa := components.Anchor{
		Position: rl.Vector3{X: 0.25, Y: -1.5, Z: 3},
		Rotation: rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, 0.7),
	}
	ca := components.AnchorAt(rl.Vector3{X: -0.125})

	g, err := JointToGeneric(components.NewFixedJoint(parent, pa, ca))
	require.NoError(t, err)

	assert.Equal(t, solver.MaskAll, g.Locked)
	assert.Equal(t, conv.TransformToIsometry(pa.Position, pa.Rotation), g.LocalFrame1)
	assert.Equal(t, conv.TransformToIsometry(ca.Position, ca.Rotation), g.LocalFrame2)
	assert.Zero(t, g.LimitedAxes())
	assert.Zero(t, g.MotorizedAxes())
}

func TestRevoluteLimitRoundTrip(t *testing.T) {
	parent := engine.NewGameObject("parent")
	j := components.NewRevoluteJoint(parent, components.AnchorAt(rl.Vector3{}), components.AnchorAt(rl.Vector3{}), rl.Vector3{X: 1}).
		WithLimits(-1, 1)

	g, err := JointToGeneric(j)
	require.NoError(t, err)

	lim, ok := g.Limits(solver.AngX)
	require.True(t, ok)
	assert.Equal(t, solver.Limit{Min: -1, Max: 1}, lim)
	for a := solver.LinX; a <= solver.AngZ; a++ {
		if a == solver.AngX {
			continue
		}
		_, ok := g.Limits(a)
		assert.False(t, ok, "axis %v should have no limit", a)
	}
	assert.Equal(t, solver.MaskAngX, g.FreeAxes())
	assert.Equal(t, mgl64.QuatIdent(), g.LocalFrame1.Rotation, "axis X needs no correction")

	back, err := GenericToJoint(&g)
	require.NoError(t, err)
	assert.Equal(t, components.RevoluteJoint, back.Kind)
	assert.Equal(t, &components.Limits{Min: -1, Max: 1}, back.Limits)
}

func TestAxisAlignment(t *testing.T) {
	parent := engine.NewGameObject("parent")
	for _, axis := range []rl.Vector3{{Z: 1}, {Y: 1}, {X: -1}, {X: 1, Y: 1}} {
		j := components.NewPrismaticJoint(parent, components.AnchorAt(rl.Vector3{}), components.AnchorAt(rl.Vector3{}), axis)
		g, err := JointToGeneric(j)
		require.NoError(t, err)
		assert.Equal(t, solver.MaskLinX, g.FreeAxes())

		want, _ := conv.AxisToSolver(axis)
		got := g.LocalFrame1.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
		assertVecNear(t, want, got, 1e-9, "axis %v: frame X is %v", axis, got)
	}
}

func TestRevoluteAnchorRotationCorrection(t *testing.T) {
	parent := engine.NewGameObject("parent")
	// anchor rotated 90 degrees about Y turns the joint-frame Z axis into world X
	rot := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, math.Pi/2)
	j := components.NewRevoluteJoint(parent,
		components.Anchor{Position: rl.Vector3{X: 1}, Rotation: rot},
		components.AnchorAt(rl.Vector3{}),
		rl.Vector3{Z: 1})

	g, err := JointToGeneric(j)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, g.LocalFrame1.Translation)
	free := g.LocalFrame1.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
	assertVecNear(t, mgl64.Vec3{1, 0, 0}, free, 1e-6, "free axis in body frame %v", free)
}

func TestSphericalAndPrismaticConversion(t *testing.T) {
	parent := engine.NewGameObject("parent")

	s, err := JointToGeneric(components.NewSphericalJoint(parent, components.AnchorAt(rl.Vector3{Y: 1}), components.AnchorAt(rl.Vector3{Y: -1})))
	require.NoError(t, err)
	assert.Equal(t, solver.MaskLinAxes, s.Locked)
	back, err := GenericToJoint(&s)
	require.NoError(t, err)
	assert.Equal(t, components.SphericalJoint, back.Kind)
	assert.Equal(t, rl.Vector3{Y: 1}, back.ParentAnchor.Position)
	assert.Nil(t, back.Limits)

	p := components.NewPrismaticJoint(parent, components.AnchorAt(rl.Vector3{}), components.AnchorAt(rl.Vector3{}), rl.Vector3{X: 1}).
		WithLimits(0, 2).
		WithMotor(components.Motor{TargetPos: 1, Stiffness: 50, Damping: 5})
	g, err := JointToGeneric(p)
	require.NoError(t, err)
	m, ok := g.Motor(solver.LinX)
	require.True(t, ok)
	assert.True(t, math.IsInf(m.MaxForce, 1), "zero max force means uncapped")

	back, err = GenericToJoint(&g)
	require.NoError(t, err)
	assert.Equal(t, components.PrismaticJoint, back.Kind)
	require.NotNil(t, back.Motor)
	assert.Equal(t, *p.Motor, *back.Motor)
	assert.Equal(t, *p.Limits, *back.Limits)
}

func TestJointConversionErrors(t *testing.T) {
	parent := engine.NewGameObject("parent")

	_, err := JointToGeneric(components.NewRevoluteJoint(parent, components.Anchor{}, components.Anchor{}, rl.Vector3{}))
	assert.ErrorIs(t, err, ErrInvalidAxis)

	_, err = JointToGeneric(components.NewPrismaticJoint(parent, components.Anchor{}, components.Anchor{}, rl.Vector3{X: 1}).WithLimits(2, 1))
	assert.ErrorIs(t, err, ErrInvalidLimits)

	_, err = JointToGeneric(components.NewFixedJoint(parent, components.Anchor{}, components.Anchor{}).WithMotor(components.Motor{}))
	assert.ErrorIs(t, err, ErrNotMotorized)

	odd := solver.NewGenericJoint(solver.MaskLinX)
	_, err = GenericToJoint(&odd)
	assert.Error(t, err)
}

func assertVecNear(t *testing.T, want, got mgl64.Vec3, tol float64, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, msgAndArgs...)
	}
}
