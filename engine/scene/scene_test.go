package scene

import (
	stdmath "math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/spaghettifunk/houseview/engine/components"
	"github.com/spaghettifunk/houseview/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCamera() *components.Camera {
	cam := components.NewCamera(45, 1, 0.1, 1000)
	cam.SetPosition(math.Vec3{0, 0, 10})
	cam.LookAt(math.Vec3{0, 0, 0})
	return cam
}

func TestMaterialSetHexColor(t *testing.T) {
	m := NewMaterial("Roof", colorful.Color{R: 1, G: 1, B: 1})
	require.NoError(t, m.SetHexColor("#8B0000"))
	assert.Equal(t, "#8b0000", m.Color.Hex())
	assert.Equal(t, uint32(1), m.Generation)

	assert.Error(t, m.SetHexColor("not-a-color"))
	assert.Equal(t, uint32(1), m.Generation)
}

func TestMeshMaterialsAreDistinct(t *testing.T) {
	a := NewMaterial("Window", colorful.Color{})
	b := NewMaterial("Door", colorful.Color{})
	mesh := NewMesh("m", &Primitive{Material: a}, &Primitive{Material: b}, &Primitive{Material: a})

	mats := mesh.Materials()
	require.Len(t, mats, 2)
	assert.Same(t, a, mats[0])
	assert.Same(t, b, mats[1])
	assert.True(t, mesh.HasMaterialNamed(func(n string) bool { return n == "Door" }))
	assert.False(t, mesh.HasMaterialNamed(func(n string) bool { return n == "Roof" }))
}

func TestNodeHierarchy(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewBoxMesh("b", 1, 1, 1, NewMaterial(DefaultMaterialName, colorful.Color{}))
	root.Add(a)
	a.Add(b)

	a.Transform.SetPosition(math.Vec3{1, 2, 3})
	b.Transform.SetPosition(math.Vec3{1, 0, 0})
	pos := b.World().Col(3).Vec3()
	assert.InDelta(t, 2, pos.X(), 1e-5)
	assert.InDelta(t, 2, pos.Y(), 1e-5)
	assert.InDelta(t, 3, pos.Z(), 1e-5)

	assert.Same(t, b, root.Find("b"))
	assert.Len(t, root.Meshes(), 1)

	bounds := root.WorldBounds()
	assert.InDelta(t, 1.5, bounds.Min.X(), 1e-5)
	assert.InDelta(t, 2.5, bounds.Max.X(), 1e-5)

	// reparenting detaches from the old parent
	root.Add(b)
	assert.Empty(t, a.Children())
	assert.Same(t, root, b.Parent())
}

func TestBoxFacesPointOutwards(t *testing.T) {
	p := NewBoxGeometry(2, 2, 2, nil)
	require.Len(t, p.Positions, 24)
	require.Equal(t, 12, p.TriangleCount())
	for f := 0; f < p.TriangleCount(); f++ {
		a := p.Positions[p.Indices[f*3]]
		b := p.Positions[p.Indices[f*3+1]]
		c := p.Positions[p.Indices[f*3+2]]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		center := a.Add(b).Add(c).Mul(1.0 / 3)
		assert.Greater(t, n.Dot(center), float32(0), "face %d", f)
		assert.InDelta(t, 1, n.Dot(p.Normals[p.Indices[f*3]]), 1e-5)
	}
}

func TestRaycasterNearestHitFirst(t *testing.T) {
	s := NewScene()
	front := NewBoxMesh("front", 1, 1, 1, NewMaterial("Window", colorful.Color{}))
	front.Transform.SetPosition(math.Vec3{0, 0, 2})
	back := NewBoxMesh("back", 1, 1, 1, NewMaterial("Door", colorful.Color{}))
	back.Transform.SetPosition(math.Vec3{0, 0, -2})
	s.Add(back)
	s.Add(front)

	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{0.01, 0.02}, testCamera())
	hits := rc.IntersectObjects(s.Meshes())

	// back faces are culled: one hit per box
	require.Len(t, hits, 2)
	assert.Same(t, front.Mesh, hits[0].Mesh)
	assert.Same(t, back.Mesh, hits[1].Mesh)
	assert.InDelta(t, 7.4, hits[0].Distance, 1e-3)
	assert.InDelta(t, 2.5, hits[0].Point.Z(), 1e-4)
}

func TestRaycasterDoubleSidedHitsBackFaces(t *testing.T) {
	mat := NewMaterial("Roof", colorful.Color{})
	mat.DoubleSided = true
	box := NewBoxMesh("roof", 1, 1, 1, mat)

	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{0.01, 0.02}, testCamera())
	hits := rc.IntersectObjects([]*Mesh{box.Mesh})
	require.Len(t, hits, 2)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
}

func TestRaycasterSharedEdgeHitOnce(t *testing.T) {
	// the center ray runs along the diagonal shared by both triangles of
	// each box face
	single := NewBoxMesh("door", 1, 1, 1, NewMaterial("Door", colorful.Color{}))
	mat := NewMaterial("Roof", colorful.Color{})
	mat.DoubleSided = true
	double := NewBoxMesh("roof", 1, 1, 1, mat)
	double.Transform.SetPosition(math.Vec3{0, 0, -4})

	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{0, 0}, testCamera())
	hits := rc.IntersectObjects([]*Mesh{single.Mesh, double.Mesh})
	require.Len(t, hits, 3)
	assert.Same(t, single.Mesh, hits[0].Mesh)
	assert.InDelta(t, 0.5, hits[0].Point.Z(), 1e-4)
	assert.InDelta(t, -3.5, hits[1].Point.Z(), 1e-4)
	assert.InDelta(t, -4.5, hits[2].Point.Z(), 1e-4)
}

func TestRaycasterMiss(t *testing.T) {
	box := NewBoxMesh("box", 1, 1, 1, NewMaterial("Roof", colorful.Color{}))
	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{0.9, 0.9}, testCamera())
	assert.Empty(t, rc.IntersectObjects([]*Mesh{box.Mesh}))
}

func TestRaycasterScaledMesh(t *testing.T) {
	box := NewBoxMesh("box", 1, 1, 1, NewMaterial("Roof", colorful.Color{}))
	box.Transform.SetScale(math.Vec3{4, 4, 4})

	rc := NewRaycaster()
	rc.SetFromCamera(math.Vec2{0.01, 0.02}, testCamera())
	hits := rc.IntersectObjects([]*Mesh{box.Mesh})
	require.Len(t, hits, 1)
	assert.InDelta(t, 2, hits[0].Point.Z(), 1e-4)
}

func TestEnvironmentConstantRadiance(t *testing.T) {
	const w, h = 64, 32
	pixels := make([]float32, w*h*3)
	for i := 0; i < len(pixels); i += 3 {
		pixels[i], pixels[i+1], pixels[i+2] = 0.5, 0.25, 1
	}
	env, err := NewEnvironmentFromEquirect(w, h, pixels)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, env.Mean.X(), 1e-4)
	for _, n := range []math.Vec3{{0, 1, 0}, {0, -1, 0}, {1, 0, 0}, {0.3, -0.2, 0.9}} {
		irr := env.Irradiance(n)
		assert.InDelta(t, 0.5, irr.X(), 0.01, "normal %v", n)
		assert.InDelta(t, 0.25, irr.Y(), 0.01, "normal %v", n)
		assert.InDelta(t, 1, irr.Z(), 0.02, "normal %v", n)
	}
}

func TestEnvironmentSkyBrighterFromAbove(t *testing.T) {
	const w, h = 32, 16
	pixels := make([]float32, w*h*3)
	for py := 0; py < h/2; py++ {
		for px := 0; px < w; px++ {
			i := (py*w + px) * 3
			pixels[i], pixels[i+1], pixels[i+2] = 1, 1, 1
		}
	}
	env, err := NewEnvironmentFromEquirect(w, h, pixels)
	require.NoError(t, err)
	up := env.Irradiance(math.Vec3{0, 1, 0})
	down := env.Irradiance(math.Vec3{0, -1, 0})
	assert.Greater(t, up.X(), down.X())
}

func TestEnvironmentRejectsEmpty(t *testing.T) {
	_, err := NewEnvironmentFromEquirect(0, 0, nil)
	assert.Error(t, err)
}

func TestEquirectDirectionPoles(t *testing.T) {
	top := EquirectDirection(0, 0, 4, 1000)
	assert.Greater(t, top.Y(), float32(0.99))
	assert.InDelta(t, 1, float64(top.Len()), 1e-5)
	assert.False(t, stdmath.IsNaN(float64(top.X())))
}

func TestDirectionalLightDirection(t *testing.T) {
	l := DirectionalLight{Position: math.Vec3{0, 10, 0}}
	assert.InDelta(t, -1, l.Direction().Y(), 1e-6)
	assert.Len(t, DefaultLightingRig().Directional, 2)
}
