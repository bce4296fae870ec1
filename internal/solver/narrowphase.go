package solver

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// manifoldPoint is one contact between two shapes. Normal points from the
// first shape to the second; Depth is positive when they overlap.
type manifoldPoint struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
}

const maxManifoldPoints = 4

var up = mgl64.Vec3{0, 1, 0}

// collide dispatches on the shape pair.
func collide(s1 Shape, p1 Isometry, s2 Shape, p2 Isometry) []manifoldPoint {
	switch {
	case s1.Kind == ShapeBall && s2.Kind == ShapeBall:
		return ballBall(p1.Translation, s1.Radius, p2.Translation, s2.Radius)
	case s1.Kind == ShapeBall && s2.Kind == ShapeCuboid:
		return ballCuboid(p1.Translation, s1.Radius, NewOBB(p2, s2.HalfExtents))
	case s1.Kind == ShapeCuboid && s2.Kind == ShapeBall:
		return flip(ballCuboid(p2.Translation, s2.Radius, NewOBB(p1, s1.HalfExtents)))
	case s1.Kind == ShapeCuboid && s2.Kind == ShapeCuboid:
		return cuboidCuboid(NewOBB(p1, s1.HalfExtents), NewOBB(p2, s2.HalfExtents))
	case s1.Kind == ShapeCapsule:
		return capsuleVs(s1, p1, s2, p2)
	case s2.Kind == ShapeCapsule:
		return flip(capsuleVs(s2, p2, s1, p1))
	}
	return nil
}

func flip(points []manifoldPoint) []manifoldPoint {
	for i := range points {
		points[i].Normal = points[i].Normal.Mul(-1)
	}
	return points
}

func ballBall(c1 mgl64.Vec3, r1 float64, c2 mgl64.Vec3, r2 float64) []manifoldPoint {
	d := c2.Sub(c1)
	dist := d.Len()
	if dist >= r1+r2 {
		return nil
	}
	n := up
	if dist > 1e-9 {
		n = d.Mul(1 / dist)
	}
	depth := r1 + r2 - dist
	return []manifoldPoint{{
		Point:  c1.Add(n.Mul(r1 - depth/2)),
		Normal: n,
		Depth:  depth,
	}}
}

// ballCuboid returns contacts with the normal pointing from the ball to the box.
func ballCuboid(center mgl64.Vec3, radius float64, box OBB) []manifoldPoint {
	closest := box.ClosestPoint(center)
	diff := center.Sub(closest)
	dist := diff.Len()

	if dist > 1e-9 {
		if dist >= radius {
			return nil
		}
		toBall := diff.Mul(1 / dist)
		return []manifoldPoint{{
			Point:  closest,
			Normal: toBall.Mul(-1),
			Depth:  radius - dist,
		}}
	}

	// center inside the box: push out through the nearest face
	local := center.Sub(box.Center)
	best, bestAxis, sign := math.MaxFloat64, 0, 1.0
	for k := 0; k < 3; k++ {
		proj := local.Dot(box.Axes[k])
		faceDist := box.HalfSize[k] - math.Abs(proj)
		if faceDist < best {
			best, bestAxis = faceDist, k
			sign = 1
			if proj < 0 {
				sign = -1
			}
		}
	}
	toBall := box.Axes[bestAxis].Mul(sign)
	return []manifoldPoint{{
		Point:  center.Add(toBall.Mul(best)),
		Normal: toBall.Mul(-1),
		Depth:  radius + best,
	}}
}

func cuboidCuboid(a, b OBB) []manifoldPoint {
	n, depth, overlap := a.SeparatingAxis(b)
	if !overlap {
		return nil
	}
	const margin = 1e-3

	var points []manifoldPoint
	topA := a.Center.Dot(n) + a.projectedRadius(n)
	for _, v := range b.Vertices() {
		if d := topA - v.Dot(n); d > 0 && a.ContainsPoint(v, margin) {
			points = append(points, manifoldPoint{Point: v, Normal: n, Depth: math.Min(d, depth)})
		}
	}
	bottomB := b.Center.Dot(n) - b.projectedRadius(n)
	for _, v := range a.Vertices() {
		if d := v.Dot(n) - bottomB; d > 0 && b.ContainsPoint(v, margin) {
			points = append(points, manifoldPoint{Point: v, Normal: n, Depth: math.Min(d, depth)})
		}
	}

	if len(points) == 0 {
		mid := a.Center.Add(b.Center).Mul(0.5)
		return []manifoldPoint{{Point: mid, Normal: n, Depth: depth}}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Depth > points[j].Depth })
	if len(points) > maxManifoldPoints {
		points = points[:maxManifoldPoints]
	}
	return points
}

// capsuleSegment returns the world endpoints of the capsule's core segment.
func capsuleSegment(s Shape, p Isometry) (mgl64.Vec3, mgl64.Vec3) {
	h := p.Rotation.Rotate(mgl64.Vec3{0, s.HalfHeight, 0})
	return p.Translation.Sub(h), p.Translation.Add(h)
}

func capsuleVs(capsule Shape, p1 Isometry, other Shape, p2 Isometry) []manifoldPoint {
	a0, a1 := capsuleSegment(capsule, p1)
	switch other.Kind {
	case ShapeBall:
		c := closestOnSegment(a0, a1, p2.Translation)
		return ballBall(c, capsule.Radius, p2.Translation, other.Radius)
	case ShapeCapsule:
		b0, b1 := capsuleSegment(other, p2)
		c1, c2 := closestBetweenSegments(a0, a1, b0, b1)
		return ballBall(c1, capsule.Radius, c2, other.Radius)
	case ShapeCuboid:
		box := NewOBB(p2, other.HalfExtents)
		var out []manifoldPoint
		for _, c := range [...]mgl64.Vec3{a0, a0.Add(a1).Mul(0.5), a1} {
			out = append(out, ballCuboid(c, capsule.Radius, box)...)
		}
		return out
	}
	return nil
}

func closestOnSegment(a, b, p mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-12 {
		return a
	}
	t := clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return a.Add(ab.Mul(t))
}

// closestBetweenSegments returns the closest points on segments p1q1 and p2q2.
func closestBetweenSegments(p1, q1, p2, q2 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a < 1e-12 && e < 1e-12:
		return p1, p2
	case a < 1e-12:
		t = clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e < 1e-12 {
			s = clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > 1e-12 {
				s = clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clamp((b-c)/a, 0, 1)
			}
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}
