package solver

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type RayHit struct {
	Collider ColliderHandle
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// CastRay returns the closest collider hit within maxDistance. Sensors are
// skipped. Direction need not be normalized.
func (w *World) CastRay(origin, direction mgl64.Vec3, maxDistance float64) (RayHit, bool) {
	if direction.Len() == 0 {
		return RayHit{}, false
	}
	direction = direction.Normalize()
	closest := RayHit{Distance: maxDistance}
	hit := false

	w.colliders.Each(func(h Handle, c *Collider) {
		if c.Sensor {
			return
		}
		body, ok := w.bodies.Get(Handle(c.parent))
		if !ok {
			return
		}
		pose := body.Position.Mul(c.Offset)
		// work in the collider frame so boxes become axis aligned
		o := pose.InverseTransformPoint(origin)
		d := pose.Rotation.Conjugate().Rotate(direction)

		var t float64
		var n mgl64.Vec3
		switch c.Shape.Kind {
		case ShapeBall:
			t, n, ok = raySphere(o, d, mgl64.Vec3{}, c.Shape.Radius)
		case ShapeCuboid:
			t, n, ok = rayBox(o, d, c.Shape.HalfExtents)
		case ShapeCapsule:
			t, n, ok = rayCapsule(o, d, c.Shape.HalfHeight, c.Shape.Radius)
		}
		if !ok || t > closest.Distance {
			return
		}
		closest = RayHit{
			Collider: ColliderHandle(h),
			Point:    origin.Add(direction.Mul(t)),
			Normal:   pose.Rotation.Rotate(n),
			Distance: t,
		}
		hit = true
	})
	return closest, hit
}

// rayBox intersects a unit-direction ray with an axis-aligned box centered
// at the origin using the slab method.
func rayBox(o, d, half mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	enterAxis, exitAxis := -1, -1
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if o[i] < -half[i] || o[i] > half[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		t1 := (-half[i] - o[i]) / d[i]
		t2 := (half[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin, enterAxis = t1, i
		}
		if t2 < tmax {
			tmax, exitAxis = t2, i
		}
	}
	if tmin > tmax || tmax < 0 {
		return 0, mgl64.Vec3{}, false
	}

	t, axis := tmin, enterAxis
	if t < 0 {
		// origin inside the box
		t, axis = tmax, exitAxis
	}
	var n mgl64.Vec3
	if axis >= 0 {
		p := o.Add(d.Mul(t))
		n[axis] = math.Copysign(1, p[axis])
	}
	return t, n, true
}

func raySphere(o, d, center mgl64.Vec3, radius float64) (float64, mgl64.Vec3, bool) {
	oc := o.Sub(center)
	b := oc.Dot(d)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, mgl64.Vec3{}, false
	}
	n := o.Add(d.Mul(t)).Sub(center).Normalize()
	return t, n, true
}

// rayCapsule tests the two end spheres and the Y-aligned cylinder between them.
func rayCapsule(o, d mgl64.Vec3, halfHeight, radius float64) (float64, mgl64.Vec3, bool) {
	best, bestN, found := math.Inf(1), mgl64.Vec3{}, false
	for _, y := range [...]float64{-halfHeight, halfHeight} {
		if t, n, ok := raySphere(o, d, mgl64.Vec3{0, y, 0}, radius); ok && t < best {
			best, bestN, found = t, n, true
		}
	}

	// infinite cylinder x^2 + z^2 = r^2, clipped to the segment
	a := d[0]*d[0] + d[2]*d[2]
	if a > 1e-12 {
		b := o[0]*d[0] + o[2]*d[2]
		c := o[0]*o[0] + o[2]*o[2] - radius*radius
		disc := b*b - a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [...]float64{(-b - sq) / a, (-b + sq) / a} {
				if t < 0 || t >= best {
					continue
				}
				p := o.Add(d.Mul(t))
				if math.Abs(p[1]) <= halfHeight {
					best, bestN, found = t, mgl64.Vec3{p[0], 0, p[2]}.Normalize(), true
					break
				}
			}
		}
	}
	return best, bestN, found
}
