package scene

import "github.com/spaghettifunk/houseview/engine/math"

type boxFace struct {
	normal, u, v math.Vec3
}

// u × v == normal for every face, so the corner order below is
// counter-clockwise when seen from outside.
var boxFaces = [6]boxFace{
	{math.Vec3{1, 0, 0}, math.Vec3{0, 1, 0}, math.Vec3{0, 0, 1}},
	{math.Vec3{-1, 0, 0}, math.Vec3{0, 0, 1}, math.Vec3{0, 1, 0}},
	{math.Vec3{0, 1, 0}, math.Vec3{0, 0, 1}, math.Vec3{1, 0, 0}},
	{math.Vec3{0, -1, 0}, math.Vec3{1, 0, 0}, math.Vec3{0, 0, 1}},
	{math.Vec3{0, 0, 1}, math.Vec3{1, 0, 0}, math.Vec3{0, 1, 0}},
	{math.Vec3{0, 0, -1}, math.Vec3{0, 1, 0}, math.Vec3{1, 0, 0}},
}

// NewBoxGeometry builds an axis aligned box centered on the origin with
// 24 vertices so every face has its own normal.
func NewBoxGeometry(width, height, depth float32, material *Material) *Primitive {
	half := math.Vec3{width / 2, height / 2, depth / 2}
	scale := func(v math.Vec3) math.Vec3 {
		return math.Vec3{v[0] * half[0], v[1] * half[1], v[2] * half[2]}
	}

	p := &Primitive{
		Positions: make([]math.Vec3, 0, 24),
		Normals:   make([]math.Vec3, 0, 24),
		Indices:   make([]uint32, 0, 36),
		Material:  material,
	}
	for _, f := range boxFaces {
		c := scale(f.normal)
		u := scale(f.u)
		v := scale(f.v)
		base := uint32(len(p.Positions))
		p.Positions = append(p.Positions,
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		)
		p.Normals = append(p.Normals, f.normal, f.normal, f.normal, f.normal)
		p.Indices = append(p.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return p
}

// NewBoxMesh returns a node holding a single box primitive.
func NewBoxMesh(name string, width, height, depth float32, material *Material) *Node {
	return NewMeshNode(NewMesh(name, NewBoxGeometry(width, height, depth, material)))
}
