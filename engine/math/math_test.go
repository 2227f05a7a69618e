package math

import (
	stdmath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransformWorldComposesParents(t *testing.T) {
	parent := TransformFromPosition(Vec3{10, 0, 0})
	parent.SetScale(Vec3{2, 2, 2})
	child := TransformFromPosition(Vec3{1, 0, 0})
	child.Parent = parent

	p := mgl32.TransformCoordinate(Vec3{0, 0, 0}, child.GetWorld())
	assert.InDelta(t, 12, p.X(), 1e-5)

	parent.SetRotation(NewQuatFromAxisAngle(NewVec3Up(), stdmath.Pi/2))
	p = mgl32.TransformCoordinate(Vec3{0, 0, 0}, child.GetWorld())
	assert.InDelta(t, 10, p.X(), 1e-5)
	assert.InDelta(t, -2, p.Z(), 1e-5)
}

func TestTransformFromMatrixRoundTrip(t *testing.T) {
	src := TransformFromPositionRotationScale(
		Vec3{1, 2, 3},
		NewQuatFromAxisAngle(Vec3{0, 0, 1}, 0.5),
		Vec3{2, 3, 4},
	)
	got := TransformFromMatrix(src.GetLocal())
	assert.True(t, got.Position.ApproxEqualThreshold(src.Position, 1e-5))
	assert.True(t, got.Scale.ApproxEqualThreshold(src.Scale, 1e-5))
	assert.True(t, got.GetLocal().ApproxEqualThreshold(src.GetLocal(), 1e-5))
}

func TestRayIntersectBox(t *testing.T) {
	box := Extents3D{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}

	d, ok := NewRay(Vec3{0, 0, 5}, Vec3{0, 0, -1}).IntersectBox(box)
	assert.True(t, ok)
	assert.InDelta(t, 4, d, 1e-6)

	_, ok = NewRay(Vec3{0, 3, 5}, Vec3{0, 0, -1}).IntersectBox(box)
	assert.False(t, ok)

	_, ok = NewRay(Vec3{0, 0, 5}, Vec3{0, 0, 1}).IntersectBox(box)
	assert.False(t, ok, "box behind the origin")

	d, ok = NewRay(Vec3{0, 0, 0}, Vec3{1, 0, 0}).IntersectBox(box)
	assert.True(t, ok)
	assert.Zero(t, d)

	_, ok = NewRay(Vec3{0, 0, 5}, Vec3{0, 0, -1}).IntersectBox(NewExtentsEmpty())
	assert.False(t, ok)
}

func TestRayIntersectTriangle(t *testing.T) {
	// counter-clockwise seen from +Z
	a, b, c := Vec3{-1, -1, 0}, Vec3{1, -1, 0}, Vec3{0, 1, 0}

	front := NewRay(Vec3{0, 0, 3}, Vec3{0, 0, -1})
	d, ok := front.IntersectTriangle(a, b, c, true)
	assert.True(t, ok)
	assert.InDelta(t, 3, d, 1e-6)

	back := NewRay(Vec3{0, 0, -3}, Vec3{0, 0, 1})
	_, ok = back.IntersectTriangle(a, b, c, true)
	assert.False(t, ok, "back face culled")
	_, ok = back.IntersectTriangle(a, b, c, false)
	assert.True(t, ok)

	miss := NewRay(Vec3{5, 5, 3}, Vec3{0, 0, -1})
	_, ok = miss.IntersectTriangle(a, b, c, false)
	assert.False(t, ok)
}

func TestExtentsApplyMat4(t *testing.T) {
	e := Extents3D{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	m := mgl32.Translate3D(5, 0, 0).Mul4(mgl32.Scale3D(2, 1, 1))
	out := e.ApplyMat4(m)
	assert.InDelta(t, 3, out.Min.X(), 1e-6)
	assert.InDelta(t, 7, out.Max.X(), 1e-6)
	assert.Equal(t, Vec3{5, 0, 0}, out.Center())
	assert.True(t, NewExtentsEmpty().Union(e) == e)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(5, -1, 1))
	assert.Equal(t, float32(-1), Clamp(float32(-3), -1, 1))
	assert.InDelta(t, 0.5, Lerp(0.0, 1.0, 0.5), 1e-9)
	assert.InDelta(t, 90, RadToDeg(DegToRad(90)), 1e-4)
}
