package scene

import (
	"math"
	"path/filepath"
	"testing"

	"physbridge/internal/components"
	"physbridge/internal/engine"
	"physbridge/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const armScene = `
objects:
  - name: arm
    position: [1, 2, 0]
    body: {type: dynamic, linear_damping: 0.1}
    collider: {shape: sphere, radius: 0.1}
    gravity_scale: 0.5
    joint:
      kind: revolute
      parent: base
      parent_anchor: {position: [0, 0, 0]}
      child_anchor: {position: [-1, 0, 0]}
      axis: [0, 0, 1]
      limits: [-1.5, 1.5]
      motor: {target_vel: 2, damping: 5}
  - name: base
    tags: [anchor]
    position: [0, 2, 0]
    body: {type: fixed}
    collider: {shape: cuboid, half_extents: [0.2, 0.2, 0.2]}
    material: {friction: 0.9, restitution: 0.1}
    components:
      - type: Force
        props: {vec: [1, 0, 0], reset: false}
`

func TestDecodeResolvesParentsAfterBuilding(t *testing.T) {
	s := engine.NewScene("test")
	objs, err := Decode(s, []byte(armScene))
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, 2, s.Len())

	arm, base := s.FindByName("arm"), s.FindByName("base")
	require.NotNil(t, arm)
	require.NotNil(t, base)
	assert.True(t, base.HasTag("anchor"))
	assert.Equal(t, rl.QuaternionIdentity(), arm.Transform.Rotation)

	rb := engine.GetComponent[*components.RigidBody](arm)
	require.NotNil(t, rb)
	assert.Equal(t, components.Dynamic, rb.Type)
	assert.InDelta(t, 0.1, rb.LinearDamping, 1e-6)
	assert.Equal(t, components.Fixed, engine.GetComponent[*components.RigidBody](base).Type)

	shape := engine.GetComponent[*components.ColliderShape](base)
	require.NotNil(t, shape)
	assert.Equal(t, components.Cuboid, shape.Kind)
	assert.Equal(t, rl.Vector3{X: 0.2, Y: 0.2, Z: 0.2}, shape.HalfExtents)
	assert.InDelta(t, 0.9, engine.GetComponent[*components.ColliderPhysicalProperties](base).Friction, 1e-6)
	// a collider without a material gets the default one
	assert.Equal(t, components.DefaultMaterial(), engine.GetComponent[*components.ColliderPhysicalProperties](arm).Material)

	assert.InDelta(t, 0.5, engine.GetComponent[*components.GravityScale](arm).Value, 1e-6)
	f := engine.GetComponent[*components.Force](base)
	require.NotNil(t, f)
	assert.False(t, f.ResetForces)

	j := engine.GetComponent[*components.Joint](arm)
	require.NotNil(t, j)
	assert.Equal(t, components.RevoluteJoint, j.Kind)
	assert.Equal(t, base.UID, j.Parent.UID)
	assert.Equal(t, rl.Vector3{X: -1}, j.ChildAnchor.Position)
	assert.Equal(t, &components.Limits{Min: -1.5, Max: 1.5}, j.Limits)
	require.NotNil(t, j.Motor)
	assert.Equal(t, float32(2), j.Motor.TargetVel)
}

func TestDecodeIsAllOrNothing(t *testing.T) {
	cases := map[string]string{
		"missing parent": `
objects:
  - name: a
    body: {type: dynamic}
    joint: {kind: fixed, parent: nobody}
`,
		"duplicate name": `
objects:
  - name: a
  - name: a
`,
		"bad shape": `
objects:
  - name: a
    body: {type: dynamic}
    collider: {shape: torus}
`,
		"bad joint kind": `
objects:
  - name: a
  - name: b
    joint: {kind: hinge-ish, parent: a}
`,
		"unknown component": `
objects:
  - name: a
    components: [{type: Teleporter}]
`,
		"not yaml": "objects: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			s := engine.NewScene("test")
			_, err := Decode(s, []byte(src))
			assert.Error(t, err)
			assert.Zero(t, s.Len())
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	src := engine.NewScene("src")
	_, err := Decode(src, []byte(armScene))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, Save(src, path))

	dst := engine.NewScene("dst")
	_, err = Load(dst, path)
	require.NoError(t, err)
	require.Equal(t, src.Len(), dst.Len())

	a, b := src.FindByName("arm"), dst.FindByName("arm")
	assert.Equal(t, a.Transform.Position, b.Transform.Position)
	ja, jb := engine.GetComponent[*components.Joint](a), engine.GetComponent[*components.Joint](b)
	assert.Equal(t, ja.Kind, jb.Kind)
	assert.Equal(t, ja.Limits, jb.Limits)
	assert.Equal(t, ja.Motor, jb.Motor)
	assert.Equal(t, dst.FindByName("base").UID, jb.Parent.UID)
	assert.Equal(t,
		engine.GetComponent[*components.ColliderShape](src.FindByName("base")).Shape,
		engine.GetComponent[*components.ColliderShape](dst.FindByName("base")).Shape)
}

func tickOnce(t *testing.T, s *engine.Scene) *physics.PhysicsWorld {
	t.Helper()
	w := physics.NewPhysicsWorld(s, physics.DefaultOptions())
	report := w.Tick(1.0 / 60)
	require.Empty(t, report.Errors)
	return w
}

func TestPendulumBuilder(t *testing.T) {
	s := engine.NewScene("test")
	pivot, arm := Pendulum(s, rl.Vector3{Y: 3}, 1.5)
	tickOnce(t, s)

	root := engine.GetComponent[*components.MultibodyRoot](pivot)
	require.NotNil(t, root)
	assert.Len(t, root.Joints, 2)
	child := engine.GetComponent[*components.MultiBodyChild](arm)
	require.NotNil(t, child)
	assert.Equal(t, pivot.UID, child.Root)
	assert.Equal(t, rl.Vector3{X: 1.5, Y: 3}, arm.Transform.Position, "stopped world does not move bodies")
}

func TestSnakeBuilder(t *testing.T) {
	s := engine.NewScene("test")
	segs := Snake(s, "snake", rl.Vector3{Y: 1}, 4)
	require.Len(t, segs, 4)
	assert.Equal(t, "snake", segs[0].Name)
	assert.Equal(t, "snake_3", segs[3].Name)
	assert.Empty(t, Snake(s, "none", rl.Vector3{}, 0))

	tickOnce(t, s)
	root := engine.GetComponent[*components.MultibodyRoot](segs[0])
	require.NotNil(t, root)
	assert.Len(t, root.Joints, 4)

	segMass := float32(0.6 * 0.3 * 0.3)
	for _, g := range segs {
		m := engine.GetComponent[*components.MultibodyMass](g)
		require.NotNil(t, m, g.Name)
		assert.InDelta(t, 4*segMass, m.Value, 1e-4)
	}
}

func TestSpiderBuilder(t *testing.T) {
	s := engine.NewScene("test")
	body, legs := Spider(s, "spider", rl.Vector3{Y: 2}, 6)
	require.Len(t, legs, 6)

	for i, leg := range legs {
		j := engine.GetComponent[*components.Joint](leg)
		require.NotNil(t, j)
		assert.Equal(t, body.UID, j.Parent.UID)
		require.NotNil(t, j.Motor)

		// the child anchor lands on the hip in world space
		hip := rl.Vector3Add(body.Transform.Position, j.ParentAnchor.Position)
		anchor := rl.Vector3Add(leg.Transform.Position,
			rl.Vector3RotateByQuaternion(j.ChildAnchor.Position, leg.Transform.Rotation))
		assert.InDelta(t, 0, rl.Vector3Distance(hip, anchor), 1e-5, "leg %d", i)
		assert.InDelta(t, 0.5, math.Hypot(float64(j.ParentAnchor.Position.X), float64(j.ParentAnchor.Position.Z)), 1e-5)
	}

	tickOnce(t, s)
	root := engine.GetComponent[*components.MultibodyRoot](body)
	require.NotNil(t, root)
	assert.Len(t, root.Joints, 7)
}

func TestSampleSceneLoads(t *testing.T) {
	s := engine.NewScene("sample")
	objs, err := Load(s, filepath.Join("..", "..", "configs", "arm.yaml"))
	require.NoError(t, err)
	require.Len(t, objs, 5)

	w := tickOnce(t, s)
	root := engine.GetComponent[*components.MultibodyRoot](s.FindByName("base"))
	require.NotNil(t, root)
	assert.Len(t, root.Joints, 3)
	assert.Equal(t, 5, w.BodyCount())
}
