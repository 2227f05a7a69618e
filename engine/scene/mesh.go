package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/houseview/engine/math"
)

// Primitive is an indexed triangle list drawn with a single material.
type Primitive struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Indices   []uint32
	Material  *Material
}

// TriangleCount returns the number of whole triangles in the index list.
func (p *Primitive) TriangleCount() int {
	return len(p.Indices) / 3
}

type Mesh struct {
	UniqueID   uuid.UUID
	Name       string
	Primitives []*Primitive
	// Node is the scene node that owns this mesh; set by Node.SetMesh.
	Node *Node

	bounds      math.Extents3D
	boundsValid bool
}

func NewMesh(name string, primitives ...*Primitive) *Mesh {
	return &Mesh{
		UniqueID:   uuid.New(),
		Name:       name,
		Primitives: primitives,
	}
}

// Materials returns the distinct materials of the mesh in primitive order.
func (m *Mesh) Materials() []*Material {
	var out []*Material
	seen := make(map[*Material]bool, len(m.Primitives))
	for _, p := range m.Primitives {
		if p.Material == nil || seen[p.Material] {
			continue
		}
		seen[p.Material] = true
		out = append(out, p.Material)
	}
	return out
}

// HasMaterialNamed reports whether any primitive uses a material for which
// match returns true.
func (m *Mesh) HasMaterialNamed(match func(name string) bool) bool {
	for _, mat := range m.Materials() {
		if match(mat.Name) {
			return true
		}
	}
	return false
}

// LocalBounds returns the mesh-space bounding box, computed once.
func (m *Mesh) LocalBounds() math.Extents3D {
	if !m.boundsValid {
		b := math.NewExtentsEmpty()
		for _, p := range m.Primitives {
			for _, pos := range p.Positions {
				b = b.ExpandByPoint(pos)
			}
		}
		m.bounds = b
		m.boundsValid = true
	}
	return m.bounds
}

// World returns the world matrix of the owning node.
func (m *Mesh) World() math.Mat4 {
	if m.Node == nil {
		return math.NewMat4Identity()
	}
	return m.Node.World()
}
