package solver

import "github.com/go-gl/mathgl/mgl64"

// Isometry is a rigid transform: rotation then translation.
type Isometry struct {
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
}

// IdentityIsometry returns the isometry that leaves points unchanged.
func IdentityIsometry() Isometry {
	return Isometry{Rotation: mgl64.QuatIdent()}
}

// Translation returns a pure translation.
func Translation(x, y, z float64) Isometry {
	return Isometry{Translation: mgl64.Vec3{x, y, z}, Rotation: mgl64.QuatIdent()}
}

// Mul composes two isometries: the result applies b first, then a.
func (a Isometry) Mul(b Isometry) Isometry {
	return Isometry{
		Translation: a.Translation.Add(a.Rotation.Rotate(b.Translation)),
		Rotation:    a.Rotation.Mul(b.Rotation).Normalize(),
	}
}

// Inverse returns the isometry that undoes a.
func (a Isometry) Inverse() Isometry {
	inv := a.Rotation.Conjugate()
	return Isometry{
		Translation: inv.Rotate(a.Translation).Mul(-1),
		Rotation:    inv,
	}
}

// TransformPoint maps a local point into the parent space.
func (a Isometry) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return a.Translation.Add(a.Rotation.Rotate(p))
}

// TransformVector rotates a local direction; translation does not apply.
func (a Isometry) TransformVector(v mgl64.Vec3) mgl64.Vec3 {
	return a.Rotation.Rotate(v)
}

// InverseTransformPoint maps a parent-space point into local space.
func (a Isometry) InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return a.Rotation.Conjugate().Rotate(p.Sub(a.Translation))
}
