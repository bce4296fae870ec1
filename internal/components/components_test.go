package components

import (
	"encoding/json"
	"testing"

	"physbridge/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGravityScaleResetRestoresInitial(t *testing.T) {
	g := NewGravityScale(0.25)
	g.Set(3)
	if g.Value != 3 {
		t.Errorf("expected 3, got %v", g.Value)
	}
	g.Reset()
	if g.Value != 0.25 {
		t.Errorf("Reset should restore the creation value 0.25, got %v", g.Value)
	}
}

func TestChangeFlag(t *testing.T) {
	f := NewForce(rl.Vector3{X: 1}, true)
	assert.True(t, f.Changed(), "new components start changed")
	assert.True(t, f.Consume())
	assert.False(t, f.Consume(), "consumed once")

	f.Set(rl.Vector3{Y: 2}, rl.Vector3{})
	assert.True(t, f.Consume())

	i := NewImpulse(rl.Vector3{Z: 1})
	i.Consume()
	i.Vec.Z = 5
	assert.False(t, i.Changed(), "direct writes are not tracked")
	i.MarkChanged()
	assert.True(t, i.Changed())
}

func TestBodyBundleComponents(t *testing.T) {
	b := BodyBundle{
		Body:  NewRigidBody(Dynamic),
		Shape: NewSphereShape(0.5),
	}
	cs := b.Components()
	require.Len(t, cs, 3, "shape without material gets the default material")

	g := engine.NewGameObject("ball")
	b.Insert(g)
	assert.True(t, engine.HasComponent[*RigidBody](g))
	m := engine.GetComponent[*ColliderPhysicalProperties](g)
	require.NotNil(t, m)
	assert.Equal(t, DefaultMaterial(), m.Material)

	assert.Len(t, BodyBundle{Body: NewRigidBody(Fixed)}.Components(), 1)
}

func TestJointBuilders(t *testing.T) {
	parent := engine.NewGameObject("parent")
	j := NewRevoluteJoint(parent, AnchorAt(rl.Vector3{}), AnchorAt(rl.Vector3{X: -1}), rl.Vector3{Z: 1}).
		WithLimits(-1, 1).
		WithMotor(Motor{TargetVel: 2, Damping: 10})

	assert.Equal(t, parent.UID, j.Parent.UID)
	assert.Equal(t, Limits{Min: -1, Max: 1}, *j.Limits)
	assert.Equal(t, float32(2), j.Motor.TargetVel)
	assert.True(t, j.Kind.HasAxis())
	assert.False(t, NewSphericalJoint(parent, Anchor{}, Anchor{}).Kind.HasAxis())
}

func TestParseNames(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want JointKind
	}{
		{"fixed", FixedJoint},
		{"hinge", RevoluteJoint},
		{"prismatic", PrismaticJoint},
		{"ball", SphericalJoint},
	} {
		got, err := ParseJointKind(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	_, err := ParseJointKind("weld")
	assert.Error(t, err)

	k, err := ParseShapeKind("box")
	require.NoError(t, err)
	assert.Equal(t, Cuboid, k)

	bt, err := ParseBodyType("static")
	require.NoError(t, err)
	assert.Equal(t, Fixed, bt)
}

func TestRegisteredFactories(t *testing.T) {
	c, err := engine.CreateComponent("Collider", map[string]any{
		"shape":        "box",
		"half_extents": []any{1, 2.5, 3},
	})
	require.NoError(t, err)
	shape := c.(*ColliderShape)
	assert.Equal(t, Cuboid, shape.Kind)
	assert.Equal(t, rl.Vector3{X: 1, Y: 2.5, Z: 3}, shape.HalfExtents)

	c, err = engine.CreateComponent("GravityScale", map[string]any{"value": 0.5})
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), c.(*GravityScale).Initial())

	c, err = engine.CreateComponent("Force", map[string]any{"vec": []any{0, 10, 0}})
	require.NoError(t, err)
	f := c.(*Force)
	assert.True(t, f.ResetForces)
	assert.Equal(t, float32(10), f.Vec.Y)

	_, err = engine.CreateComponent("RigidBody", map[string]any{"type": "floating"})
	assert.Error(t, err)
	_, err = engine.CreateComponent("PhysicalProperties", map[string]any{"sensor": "yes"})
	assert.Error(t, err)
}

func TestLimitsJSONIsSnakeCase(t *testing.T) {
	data, err := json.Marshal(Limits{Min: -1, Max: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"min":-1,"max":1}`, string(data))
}
