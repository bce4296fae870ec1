package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidShape is returned for shapes with non-positive or non-finite dimensions.
var ErrInvalidShape = errors.New("invalid shape")

type ShapeKind uint8

const (
	ShapeBall ShapeKind = iota
	ShapeCuboid
	// ShapeCapsule is aligned with the local Y axis.
	ShapeCapsule
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBall:
		return "ball"
	case ShapeCuboid:
		return "cuboid"
	case ShapeCapsule:
		return "capsule"
	}
	return "unknown"
}

type Shape struct {
	Kind        ShapeKind
	Radius      float64
	HalfExtents mgl64.Vec3
	HalfHeight  float64
}

func Ball(radius float64) Shape {
	return Shape{Kind: ShapeBall, Radius: radius}
}

func Cuboid(hx, hy, hz float64) Shape {
	return Shape{Kind: ShapeCuboid, HalfExtents: mgl64.Vec3{hx, hy, hz}}
}

func Capsule(halfHeight, radius float64) Shape {
	return Shape{Kind: ShapeCapsule, HalfHeight: halfHeight, Radius: radius}
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Validate rejects shapes the narrow phase cannot handle.
func (s Shape) Validate() error {
	switch s.Kind {
	case ShapeBall:
		if !positiveFinite(s.Radius) {
			return fmt.Errorf("%w: ball radius %v", ErrInvalidShape, s.Radius)
		}
	case ShapeCuboid:
		for i, h := range s.HalfExtents {
			if !positiveFinite(h) {
				return fmt.Errorf("%w: cuboid half extent %d is %v", ErrInvalidShape, i, h)
			}
		}
	case ShapeCapsule:
		if !positiveFinite(s.Radius) {
			return fmt.Errorf("%w: capsule radius %v", ErrInvalidShape, s.Radius)
		}
		if s.HalfHeight < 0 || math.IsInf(s.HalfHeight, 0) || math.IsNaN(s.HalfHeight) {
			return fmt.Errorf("%w: capsule half height %v", ErrInvalidShape, s.HalfHeight)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidShape, s.Kind)
	}
	return nil
}

// Volume returns the enclosed volume.
func (s Shape) Volume() float64 {
	switch s.Kind {
	case ShapeBall:
		return 4.0 / 3.0 * math.Pi * s.Radius * s.Radius * s.Radius
	case ShapeCuboid:
		return 8 * s.HalfExtents[0] * s.HalfExtents[1] * s.HalfExtents[2]
	case ShapeCapsule:
		r := s.Radius
		return math.Pi*r*r*2*s.HalfHeight + 4.0/3.0*math.Pi*r*r*r
	}
	return 0
}

// MassProperties returns mass and the diagonal of the inertia tensor about
// the shape's own origin.
func (s Shape) MassProperties(density float64) (float64, mgl64.Vec3) {
	m := density * s.Volume()
	switch s.Kind {
	case ShapeBall:
		i := 0.4 * m * s.Radius * s.Radius
		return m, mgl64.Vec3{i, i, i}
	case ShapeCuboid:
		h := s.HalfExtents
		return m, mgl64.Vec3{
			m / 3 * (h[1]*h[1] + h[2]*h[2]),
			m / 3 * (h[0]*h[0] + h[2]*h[2]),
			m / 3 * (h[0]*h[0] + h[1]*h[1]),
		}
	case ShapeCapsule:
		r, hh := s.Radius, s.HalfHeight
		cyl := density * math.Pi * r * r * 2 * hh
		caps := m - cyl
		axial := 0.5*cyl*r*r + 0.4*caps*r*r
		lateral := cyl*(3*r*r+4*hh*hh)/12 + caps*(0.4*r*r+hh*hh+0.75*hh*r)
		return m, mgl64.Vec3{lateral, axial, lateral}
	}
	return m, mgl64.Vec3{}
}

// aabb returns world-space bounds of the shape at pose.
func (s Shape) aabb(pose Isometry) AABB {
	var half mgl64.Vec3
	switch s.Kind {
	case ShapeBall:
		half = mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	case ShapeCuboid:
		r := pose.Rotation.Mat4().Mat3()
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				half[i] += math.Abs(r.At(i, j)) * s.HalfExtents[j]
			}
		}
	case ShapeCapsule:
		axis := pose.Rotation.Rotate(mgl64.Vec3{0, s.HalfHeight, 0})
		for i := 0; i < 3; i++ {
			half[i] = math.Abs(axis[i]) + s.Radius
		}
	}
	return AABB{Min: pose.Translation.Sub(half), Max: pose.Translation.Add(half)}
}
