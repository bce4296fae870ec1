package solver

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestIsometryComposeInverse(t *testing.T) {
	a := Isometry{
		Translation: mgl64.Vec3{1, 2, 3},
		Rotation:    mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
	}
	p := mgl64.Vec3{1, 0, 0}

	moved := a.TransformPoint(p)
	assertVecNear(t, mgl64.Vec3{1, 3, 3}, moved, 1e-9, "got %v", moved)

	back := a.InverseTransformPoint(moved)
	assertVecNear(t, p, back, 1e-9, "got %v", back)

	id := a.Mul(a.Inverse())
	assertVecNear(t, mgl64.Vec3{}, id.Translation, 1e-9)
	assert.InDelta(t, 1.0, math.Abs(id.Rotation.W), 1e-9)
}

func TestArenaGenerations(t *testing.T) {
	var a Arena[int]
	h1 := a.Insert(10)
	h2 := a.Insert(20)

	v, ok := a.Get(h1)
	assert.True(t, ok)
	assert.Equal(t, 10, *v)

	_, ok = a.Remove(h1)
	assert.True(t, ok)
	assert.False(t, a.Contains(h1))
	assert.Equal(t, 1, a.Len())

	h3 := a.Insert(30)
	assert.Equal(t, h1.Index, h3.Index, "free slot is reused")
	assert.NotEqual(t, h1.Generation, h3.Generation)

	_, ok = a.Get(h1)
	assert.False(t, ok, "stale handle must not resolve to the new value")

	assert.Equal(t, []Handle{h3, h2}, a.Handles())
	assert.NotEqual(t, h1.ID(), h3.ID())

	_, ok = a.Remove(Handle{Index: 99})
	assert.False(t, ok)
}

func assertVecNear(t *testing.T, want, got mgl64.Vec3, tol float64, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, msgAndArgs...)
	}
}
