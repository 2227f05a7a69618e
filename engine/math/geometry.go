package math

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half line starting at Origin. Direction is kept normalized.
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ApplyMat4 transforms the ray by m. The direction is renormalized, so
// distances along the transformed ray are in the target space.
func (r Ray) ApplyMat4(m Mat4) Ray {
	origin := mgl32.TransformCoordinate(r.Origin, m)
	direction := mgl32.TransformNormal(r.Direction, m)
	return NewRay(origin, direction)
}

// NewExtentsEmpty returns inverted extents that any point expands.
func NewExtentsEmpty() Extents3D {
	inf := float32(stdmath.Inf(1))
	return Extents3D{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

func (e Extents3D) IsEmpty() bool {
	return e.Max.X() < e.Min.X() || e.Max.Y() < e.Min.Y() || e.Max.Z() < e.Min.Z()
}

func (e Extents3D) ExpandByPoint(p Vec3) Extents3D {
	for i := 0; i < 3; i++ {
		e.Min[i] = min(e.Min[i], p[i])
		e.Max[i] = max(e.Max[i], p[i])
	}
	return e
}

func (e Extents3D) Union(o Extents3D) Extents3D {
	if o.IsEmpty() {
		return e
	}
	return e.ExpandByPoint(o.Min).ExpandByPoint(o.Max)
}

func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).Mul(0.5)
}

func (e Extents3D) Size() Vec3 {
	if e.IsEmpty() {
		return NewVec3Zero()
	}
	return e.Max.Sub(e.Min)
}

// ApplyMat4 returns the extents enclosing the eight transformed corners.
func (e Extents3D) ApplyMat4(m Mat4) Extents3D {
	if e.IsEmpty() {
		return e
	}
	out := NewExtentsEmpty()
	for i := 0; i < 8; i++ {
		c := Vec3{e.Min.X(), e.Min.Y(), e.Min.Z()}
		if i&1 != 0 {
			c[0] = e.Max.X()
		}
		if i&2 != 0 {
			c[1] = e.Max.Y()
		}
		if i&4 != 0 {
			c[2] = e.Max.Z()
		}
		out = out.ExpandByPoint(mgl32.TransformCoordinate(c, m))
	}
	return out
}

// IntersectBox returns the distance to the first point where the ray
// enters the box, or 0 when the origin is inside it.
func (r Ray) IntersectBox(e Extents3D) (float32, bool) {
	if e.IsEmpty() {
		return 0, false
	}
	tmin := float32(stdmath.Inf(-1))
	tmax := float32(stdmath.Inf(1))
	for i := 0; i < 3; i++ {
		o, d := r.Origin[i], r.Direction[i]
		if d == 0 {
			if o < e.Min[i] || o > e.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d
		t1 := (e.Min[i] - o) * inv
		t2 := (e.Max[i] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}

// IntersectTriangle implements Möller–Trumbore. With cullBack set,
// triangles whose counter-clockwise front faces away from the ray are
// skipped.
func (r Ray) IntersectTriangle(a, b, c Vec3, cullBack bool) (float32, bool) {
	const eps = 1e-8
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	pvec := r.Direction.Cross(edge2)
	det := edge1.Dot(pvec)
	if cullBack {
		if det < eps {
			return 0, false
		}
	} else if det > -eps && det < eps {
		return 0, false
	}
	invDet := 1 / det
	tvec := r.Origin.Sub(a)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := tvec.Cross(edge1)
	v := r.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := edge2.Dot(qvec) * invDet
	if t < 0 {
		return 0, false
	}
	return t, true
}

// GenerateFlatNormals assigns each triangle's face normal to its three
// vertices. Shared vertices end up with the normal of the last face.
func GenerateFlatNormals(positions []Vec3, indices []uint32) []Vec3 {
	normals := make([]Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		edge1 := positions[i1].Sub(positions[i0])
		edge2 := positions[i2].Sub(positions[i0])
		n := edge1.Cross(edge2)
		if n.Len() > 0 {
			n = n.Normalize()
		}
		normals[i0] = n
		normals[i1] = n
		normals[i2] = n
	}
	return normals
}
