package solver

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size mgl64.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

// CellSize is the edge length of a broad-phase grid cell.
const CellSize = 5.0

// maxCellsPerCollider bounds grid insertion; larger colliders (ground planes)
// are tested against everything instead.
const maxCellsPerCollider = 64

type cellKey struct {
	X, Y, Z int
}

func toCell(v float64) int {
	return int(math.Floor(v / CellSize))
}

type broadPhase struct {
	grid  map[cellKey][]ColliderHandle
	large []ColliderHandle
	boxes map[ColliderHandle]AABB
}

func newBroadPhase() *broadPhase {
	return &broadPhase{
		grid:  make(map[cellKey][]ColliderHandle),
		boxes: make(map[ColliderHandle]AABB),
	}
}

// rebuild clears and repopulates the spatial hash grid
func (bp *broadPhase) rebuild(w *World) {
	for k := range bp.grid {
		delete(bp.grid, k)
	}
	for k := range bp.boxes {
		delete(bp.boxes, k)
	}
	bp.large = bp.large[:0]

	w.colliders.Each(func(h Handle, c *Collider) {
		body, ok := w.bodies.Get(Handle(c.parent))
		if !ok {
			return
		}
		ch := ColliderHandle(h)
		box := c.Shape.aabb(body.Position.Mul(c.Offset))
		bp.boxes[ch] = box

		x0, y0, z0 := toCell(box.Min[0]), toCell(box.Min[1]), toCell(box.Min[2])
		x1, y1, z1 := toCell(box.Max[0]), toCell(box.Max[1]), toCell(box.Max[2])
		if (x1-x0+1)*(y1-y0+1)*(z1-z0+1) > maxCellsPerCollider {
			bp.large = append(bp.large, ch)
			return
		}
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				for z := z0; z <= z1; z++ {
					key := cellKey{x, y, z}
					bp.grid[key] = append(bp.grid[key], ch)
				}
			}
		}
	})
}

// pairs returns every collider pair whose bounds overlap, each once, in a
// deterministic order.
func (bp *broadPhase) pairs() []colliderPair {
	seen := make(map[colliderPair]bool)
	var out []colliderPair
	add := func(a, b ColliderHandle) {
		if a == b {
			return
		}
		p := makeColliderPair(a, b)
		if seen[p] {
			return
		}
		seen[p] = true
		if bp.boxes[a].Intersects(bp.boxes[b]) {
			out = append(out, p)
		}
	}
	for _, cell := range bp.grid {
		for i := 0; i < len(cell); i++ {
			for j := i + 1; j < len(cell); j++ {
				add(cell[i], cell[j])
			}
		}
	}
	for _, big := range bp.large {
		for other := range bp.boxes {
			add(big, other)
		}
	}
	sortPairs(out)
	return out
}
