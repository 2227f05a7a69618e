package scene

import (
	"sort"

	"github.com/spaghettifunk/houseview/engine/components"
	"github.com/spaghettifunk/houseview/engine/math"
)

// Intersection is a single ray hit on a mesh triangle.
type Intersection struct {
	// Distance from the ray origin to Point, in world units.
	Distance  float32
	Point     math.Vec3
	Mesh      *Mesh
	Primitive *Primitive
	// Face is the index of the triangle inside Primitive.
	Face int
}

// Raycaster casts world-space rays against meshes. Hits closer than Near or
// farther than Far are ignored.
type Raycaster struct {
	Ray  math.Ray
	Near float32
	Far  float32
}

func NewRaycaster() *Raycaster {
	return &Raycaster{
		Ray:  math.NewRay(math.NewVec3Zero(), math.Vec3{0, 0, -1}),
		Near: 0,
		Far:  float32(1e30),
	}
}

// SetFromCamera points the ray from the camera through ndc, given in
// normalized device coordinates ([-1,1] on both axes, +Y up).
func (r *Raycaster) SetFromCamera(ndc math.Vec2, cam *components.Camera) {
	near := cam.Unproject(math.Vec3{ndc.X(), ndc.Y(), -1})
	far := cam.Unproject(math.Vec3{ndc.X(), ndc.Y(), 1})
	r.Ray = math.NewRay(near, far.Sub(near))
	r.Near = 0
	r.Far = cam.Far - cam.Near
}

// IntersectObject appends the hits of the ray on mesh to hits.
func (r *Raycaster) IntersectObject(mesh *Mesh, hits []Intersection) []Intersection {
	if mesh == nil || (mesh.Node != nil && !mesh.Node.Visible) {
		return hits
	}
	world := mesh.World()
	if world.Det() == 0 {
		return hits
	}
	local := r.Ray.ApplyMat4(world.Inv())
	if _, ok := local.IntersectBox(mesh.LocalBounds()); !ok {
		return hits
	}

	for _, prim := range mesh.Primitives {
		cull := prim.Material == nil || !prim.Material.DoubleSided
		first := len(hits)
		for f := 0; f < prim.TriangleCount(); f++ {
			a := prim.Positions[prim.Indices[f*3]]
			b := prim.Positions[prim.Indices[f*3+1]]
			c := prim.Positions[prim.Indices[f*3+2]]
			t, ok := local.IntersectTriangle(a, b, c, cull)
			if !ok {
				continue
			}
			point := world.Mul4x1(local.At(t).Vec4(1)).Vec3()
			dist := point.Sub(r.Ray.Origin).Len()
			if dist < r.Near || dist > r.Far {
				continue
			}
			if hitsPoint(hits[first:], point) {
				// the ray crossed an edge shared by two triangles
				continue
			}
			hits = append(hits, Intersection{
				Distance:  dist,
				Point:     point,
				Mesh:      mesh,
				Primitive: prim,
				Face:      f,
			})
		}
	}
	return hits
}

func hitsPoint(hits []Intersection, p math.Vec3) bool {
	const eps = 1e-4
	for _, h := range hits {
		if h.Point.ApproxEqualThreshold(p, eps) {
			return true
		}
	}
	return false
}

// IntersectObjects tests every mesh and returns the hits nearest first.
func (r *Raycaster) IntersectObjects(meshes []*Mesh) []Intersection {
	var hits []Intersection
	for _, m := range meshes {
		hits = r.IntersectObject(m, hits)
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}
