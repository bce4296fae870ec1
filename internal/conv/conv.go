// Package conv converts between the engine's math types (raylib, float32,
// quaternions stored x, y, z, w) and the solver's (mathgl, float64,
// quaternions stored w then x, y, z).
//
// Every function is pure and total. Non-finite input is passed through
// unchanged; callers that need a guarantee use IsFiniteTransform first.
package conv

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"physbridge/internal/solver"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Vec3ToSolver widens an engine vector.
func Vec3ToSolver(v rl.Vector3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
}

// Vec3ToEngine narrows a solver vector.
func Vec3ToEngine(v mgl64.Vec3) rl.Vector3 {
	return rl.Vector3{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2])}
}

// PointToSolver converts a position. Points and vectors share a
// representation on both sides; the separate name documents intent at call sites.
func PointToSolver(p rl.Vector3) mgl64.Vec3 {
	return Vec3ToSolver(p)
}

func PointToEngine(p mgl64.Vec3) rl.Vector3 {
	return Vec3ToEngine(p)
}

// AxisToSolver converts a direction and normalizes it. ok is false for a
// zero-length axis, which has no direction to preserve.
func AxisToSolver(a rl.Vector3) (axis mgl64.Vec3, ok bool) {
	v := Vec3ToSolver(a)
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// AxisToEngine converts a solver unit axis back to engine space.
func AxisToEngine(a mgl64.Vec3) rl.Vector3 {
	return Vec3ToEngine(a)
}

// QuatToSolver reorders (x, y, z, w) into (w, x, y, z).
func QuatToSolver(q rl.Quaternion) mgl64.Quat {
	return mgl64.Quat{
		W: float64(q.W),
		V: mgl64.Vec3{float64(q.X), float64(q.Y), float64(q.Z)},
	}
}

// QuatToEngine reorders (w, x, y, z) into (x, y, z, w).
func QuatToEngine(q mgl64.Quat) rl.Quaternion {
	return rl.Quaternion{
		X: float32(q.V[0]),
		Y: float32(q.V[1]),
		Z: float32(q.V[2]),
		W: float32(q.W),
	}
}

// TransformToIsometry converts an engine pose. Scale has no solver
// equivalent and is dropped.
func TransformToIsometry(pos rl.Vector3, rot rl.Quaternion) solver.Isometry {
	return solver.Isometry{
		Translation: PointToSolver(pos),
		Rotation:    QuatToSolver(rot),
	}
}

// IsometryToTransform converts a solver pose to engine position and rotation.
func IsometryToTransform(iso solver.Isometry) (rl.Vector3, rl.Quaternion) {
	return PointToEngine(iso.Translation), QuatToEngine(iso.Rotation)
}

// QuatEqual compares rotations, treating q and -q as the same rotation.
func QuatEqual(a, b mgl64.Quat, eps float64) bool {
	same := math.Abs(a.W-b.W) <= eps &&
		math.Abs(a.V[0]-b.V[0]) <= eps &&
		math.Abs(a.V[1]-b.V[1]) <= eps &&
		math.Abs(a.V[2]-b.V[2]) <= eps
	if same {
		return true
	}
	return math.Abs(a.W+b.W) <= eps &&
		math.Abs(a.V[0]+b.V[0]) <= eps &&
		math.Abs(a.V[1]+b.V[1]) <= eps &&
		math.Abs(a.V[2]+b.V[2]) <= eps
}

// IsFiniteTransform reports whether every component of the pose is finite
// and the rotation is not the zero quaternion.
func IsFiniteTransform(pos rl.Vector3, rot rl.Quaternion) bool {
	for _, f := range [...]float32{pos.X, pos.Y, pos.Z, rot.X, rot.Y, rot.Z, rot.W} {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return rot.X != 0 || rot.Y != 0 || rot.Z != 0 || rot.W != 0
}
