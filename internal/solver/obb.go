package solver

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   mgl64.Vec3    // World-space center
	HalfSize mgl64.Vec3    // Half-extents along local axes
	Axes     [3]mgl64.Vec3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB from a cuboid's half extents at the given pose.
func NewOBB(pose Isometry, half mgl64.Vec3) OBB {
	return OBB{
		Center:   pose.Translation,
		HalfSize: half,
		Axes: [3]mgl64.Vec3{
			pose.Rotation.Rotate(mgl64.Vec3{1, 0, 0}),
			pose.Rotation.Rotate(mgl64.Vec3{0, 1, 0}),
			pose.Rotation.Rotate(mgl64.Vec3{0, 0, 1}),
		},
	}
}

// projectedRadius is the half-length of the box's shadow on axis.
func (o OBB) projectedRadius(axis mgl64.Vec3) float64 {
	return o.HalfSize[0]*math.Abs(o.Axes[0].Dot(axis)) +
		o.HalfSize[1]*math.Abs(o.Axes[1].Dot(axis)) +
		o.HalfSize[2]*math.Abs(o.Axes[2].Dot(axis))
}

// Vertices returns the eight corners in world space.
func (o OBB) Vertices() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := 0; i < 8; i++ {
		v := o.Center
		for k := 0; k < 3; k++ {
			s := 1.0
			if i&(1<<k) != 0 {
				s = -1
			}
			v = v.Add(o.Axes[k].Mul(s * o.HalfSize[k]))
		}
		out[i] = v
	}
	return out
}

// ContainsPoint reports whether p lies inside the box grown by margin.
func (o OBB) ContainsPoint(p mgl64.Vec3, margin float64) bool {
	d := p.Sub(o.Center)
	for k := 0; k < 3; k++ {
		if math.Abs(d.Dot(o.Axes[k])) > o.HalfSize[k]+margin {
			return false
		}
	}
	return true
}

// ClosestPoint returns the point of the box nearest to p.
func (o OBB) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(o.Center)
	out := o.Center
	for k := 0; k < 3; k++ {
		dist := clamp(d.Dot(o.Axes[k]), -o.HalfSize[k], o.HalfSize[k])
		out = out.Add(o.Axes[k].Mul(dist))
	}
	return out
}

// SeparatingAxis runs the 15-axis SAT test. When the boxes overlap it returns
// the axis of least penetration, oriented from a towards b, and the depth.
func (a OBB) SeparatingAxis(b OBB) (normal mgl64.Vec3, depth float64, overlap bool) {
	t := b.Center.Sub(a.Center)
	depth = math.MaxFloat64

	testAxis := func(axis mgl64.Vec3, bias float64) bool {
		l := axis.Len()
		if l < 1e-6 {
			return true
		}
		axis = axis.Mul(1 / l)
		dist := t.Dot(axis)
		penetration := a.projectedRadius(axis) + b.projectedRadius(axis) - math.Abs(dist)
		if penetration < 0 {
			return false
		}
		// edge axes must beat face axes by a margin to avoid flip-flopping
		if penetration+bias < depth {
			depth = penetration
			if dist < 0 {
				normal = axis.Mul(-1)
			} else {
				normal = axis
			}
		}
		return true
	}

	for i := 0; i < 3; i++ {
		if !testAxis(a.Axes[i], 0) {
			return mgl64.Vec3{}, 0, false
		}
	}
	for i := 0; i < 3; i++ {
		if !testAxis(b.Axes[i], 0) {
			return mgl64.Vec3{}, 0, false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !testAxis(a.Axes[i].Cross(b.Axes[j]), 1e-4) {
				return mgl64.Vec3{}, 0, false
			}
		}
	}
	return normal, depth, true
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
