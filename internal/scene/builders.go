package scene

import (
	"fmt"
	"math"

	"physbridge/internal/components"
	"physbridge/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func spawn(s *engine.Scene, name string, pos rl.Vector3, b components.BodyBundle) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform = engine.NewTransform(pos, rl.QuaternionIdentity())
	b.Insert(g)
	s.AddGameObject(g)
	return g
}

// Pendulum spawns a fixed pivot at origin and an arm hanging off it by a
// revolute joint about Z. The arm starts horizontal, length units along +X.
func Pendulum(s *engine.Scene, origin rl.Vector3, length float32) (pivot, arm *engine.GameObject) {
	pivot = spawn(s, "pivot", origin, components.BodyBundle{
		Body: components.NewRigidBody(components.Fixed),
	})
	arm = spawn(s, "arm", rl.Vector3Add(origin, rl.Vector3{X: length}), components.BodyBundle{
		Body:  components.NewRigidBody(components.Dynamic),
		Shape: components.NewSphereShape(0.1),
		Joint: components.NewRevoluteJoint(pivot,
			components.AnchorAt(rl.Vector3{}),
			components.AnchorAt(rl.Vector3{X: -length}),
			rl.Vector3{Z: 1}),
	})
	return pivot, arm
}

// Snake spawns n box segments along +X from origin, each joined to the
// previous one by a spherical joint with a cone limit. The head is the
// multibody root.
func Snake(s *engine.Scene, name string, origin rl.Vector3, n int) []*engine.GameObject {
	const segLen, thickness = 0.6, 0.15
	segments := make([]*engine.GameObject, 0, max(n, 0))
	for i := 0; i < n; i++ {
		b := components.BodyBundle{
			Body:  components.NewRigidBody(components.Dynamic),
			Shape: components.NewCuboidShape(rl.Vector3{X: segLen / 2, Y: thickness, Z: thickness}),
		}
		segName := name
		if i > 0 {
			segName = fmt.Sprintf("%s_%d", name, i)
			b.Joint = components.NewSphericalJoint(segments[i-1],
				components.AnchorAt(rl.Vector3{X: segLen / 2}),
				components.AnchorAt(rl.Vector3{X: -segLen / 2})).
				WithLimits(-math.Pi/4, math.Pi/4)
		}
		segments = append(segments, spawn(s, segName, rl.Vector3Add(origin, rl.Vector3{X: float32(i) * segLen}), b))
	}
	return segments
}

// Spider spawns a cuboid body with legs evenly spaced around it. Each leg is
// a revolute joint about the horizontal axis tangent to the body, driven by
// a position motor holding it at rest.
func Spider(s *engine.Scene, name string, origin rl.Vector3, legs int) (body *engine.GameObject, legObjs []*engine.GameObject) {
	body = spawn(s, name, origin, components.BodyBundle{
		Body:  components.NewRigidBody(components.Dynamic),
		Shape: components.NewCuboidShape(rl.Vector3{X: 0.5, Y: 0.2, Z: 0.5}),
	})
	const legLen = 0.8
	for i := 0; i < legs; i++ {
		angle := 2 * math.Pi * float64(i) / float64(legs)
		dir := rl.Vector3{X: float32(math.Cos(angle)), Z: float32(math.Sin(angle))}
		hip := rl.Vector3Scale(dir, 0.5)
		tangent := rl.Vector3CrossProduct(rl.Vector3{Y: 1}, dir)
		// yaw the leg so its local +X points outward
		yaw := rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, float32(-angle))

		leg := spawn(s, fmt.Sprintf("%s_leg_%d", name, i),
			rl.Vector3Add(origin, rl.Vector3Add(hip, rl.Vector3Scale(dir, legLen/2))),
			components.BodyBundle{
				Body:  components.NewRigidBody(components.Dynamic),
				Shape: components.NewCuboidShape(rl.Vector3{X: legLen / 2, Y: 0.05, Z: 0.05}),
				Joint: components.NewRevoluteJoint(body,
					components.AnchorAt(hip),
					components.Anchor{Position: rl.Vector3{X: -legLen / 2}, Rotation: rl.QuaternionInvert(yaw)},
					tangent).
					WithLimits(-math.Pi/3, math.Pi/3).
					WithMotor(components.Motor{Stiffness: 200, Damping: 20}),
			})
		leg.Transform.Rotation = yaw
		legObjs = append(legObjs, leg)
	}
	return body, legObjs
}
