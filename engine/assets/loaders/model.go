package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/spaghettifunk/houseview/engine/anim"
	"github.com/spaghettifunk/houseview/engine/core"
	"github.com/spaghettifunk/houseview/engine/math"
	"github.com/spaghettifunk/houseview/engine/resources"
	"github.com/spaghettifunk/houseview/engine/scene"
)

var ErrUnsupportedCompression = errors.New("model requires an unsupported compression extension")

// Draco is decoded; meshopt needs a decoder we do not carry.
var compressionExtensions = []string{
	"EXT_meshopt_compression",
}

// ModelLoader imports glTF 2.0 files (.glb and .gltf) into a scene graph.
type ModelLoader struct{}

func (ml *ModelLoader) Load(path string, params interface{}) (*resources.Resource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model %s: %w", path, err)
	}
	for _, ext := range doc.ExtensionsRequired {
		for _, c := range compressionExtensions {
			if ext == c {
				return nil, fmt.Errorf("%s: %w (%s)", path, ErrUnsupportedCompression, ext)
			}
		}
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := newModelImporter(doc).importDocument(name)
	if err != nil {
		return nil, fmt.Errorf("import model %s: %w", path, err)
	}

	return &resources.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		Type:     resources.ResourceTypeModel,
		DataSize: uint64(info.Size()),
		Data:     data,
	}, nil
}

func (ml *ModelLoader) Unload(res *resources.Resource) error {
	res.Data = nil
	return nil
}

type modelImporter struct {
	doc       *gltf.Document
	materials []*scene.Material
	fallback  *scene.Material
	meshes    []*scene.Mesh
	nodes     []*scene.Node
	out       *resources.ModelResourceData
}

func newModelImporter(doc *gltf.Document) *modelImporter {
	return &modelImporter{
		doc: doc,
		out: &resources.ModelResourceData{},
	}
}

func (mi *modelImporter) importDocument(name string) (*resources.ModelResourceData, error) {
	for _, m := range mi.doc.Materials {
		mi.materials = append(mi.materials, importMaterial(m))
	}
	mi.out.Materials = append(mi.out.Materials, mi.materials...)

	mi.meshes = make([]*scene.Mesh, len(mi.doc.Meshes))
	mi.nodes = make([]*scene.Node, len(mi.doc.Nodes))
	for i, n := range mi.doc.Nodes {
		node, err := mi.importNode(i, n)
		if err != nil {
			return nil, err
		}
		mi.nodes[i] = node
	}
	for i, n := range mi.doc.Nodes {
		for _, child := range n.Children {
			c, _ := optionalIndex(child)
			if c < 0 || c >= len(mi.nodes) {
				return nil, fmt.Errorf("node %d: child %d out of range", i, c)
			}
			mi.nodes[i].Add(mi.nodes[c])
		}
	}

	root := scene.NewNode(name)
	for _, idx := range mi.rootNodes() {
		root.Add(mi.nodes[idx])
	}
	mi.out.Root = root
	mi.out.Meshes = root.Meshes()

	for i, a := range mi.doc.Animations {
		clip, err := mi.importAnimation(i, a)
		if err != nil {
			return nil, err
		}
		mi.out.Clips = append(mi.out.Clips, clip)
	}
	return mi.out, nil
}

// rootNodes returns the nodes of the default scene, or every parentless
// node when the document has no scenes.
func (mi *modelImporter) rootNodes() []int {
	if len(mi.doc.Scenes) > 0 {
		s := 0
		if idx, ok := optionalIndex(mi.doc.Scene); ok && idx < len(mi.doc.Scenes) {
			s = idx
		}
		var out []int
		for _, node := range mi.doc.Scenes[s].Nodes {
			if n, ok := optionalIndex(node); ok && n >= 0 && n < len(mi.nodes) {
				out = append(out, n)
			}
		}
		return out
	}
	var out []int
	for i, n := range mi.nodes {
		if n.Parent() == nil {
			out = append(out, i)
		}
	}
	return out
}

func importMaterial(m *gltf.Material) *scene.Material {
	mat := scene.NewMaterial(m.Name, colorful.Color{R: 1, G: 1, B: 1})
	mat.DoubleSided = m.DoubleSided
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		// glTF factors are linear
		f := pbr.BaseColorFactorOrDefault()
		mat.Color = colorful.LinearRgb(f[0], f[1], f[2])
		mat.Metallic = float32(pbr.MetallicFactorOrDefault())
		mat.Roughness = float32(pbr.RoughnessFactorOrDefault())
	}
	return mat
}

func (mi *modelImporter) importNode(i int, n *gltf.Node) (*scene.Node, error) {
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", i)
	}
	node := scene.NewNode(name)

	if n.MatrixOrDefault() != gltf.DefaultMatrix {
		var m math.Mat4
		for k, v := range n.MatrixOrDefault() {
			m[k] = float32(v)
		}
		node.Transform = math.TransformFromMatrix(m)
	} else {
		t := n.TranslationOrDefault()
		r := n.RotationOrDefault()
		s := n.ScaleOrDefault()
		node.Transform.SetPositionRotationScale(
			math.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
			math.Quaternion{W: float32(r[3]), V: math.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
			math.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
		)
	}

	if idx, ok := optionalIndex(n.Mesh); ok {
		mesh, err := mi.mesh(idx)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		if mesh.Node != nil {
			// glTF lets nodes share a mesh; our meshes know their node.
			mesh = scene.NewMesh(mesh.Name, mesh.Primitives...)
		}
		node.SetMesh(mesh)
	}
	return node, nil
}

func (mi *modelImporter) mesh(idx int) (*scene.Mesh, error) {
	if idx < 0 || idx >= len(mi.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", idx)
	}
	if mi.meshes[idx] != nil {
		return mi.meshes[idx], nil
	}
	m := mi.doc.Meshes[idx]
	name := m.Name
	if name == "" {
		name = fmt.Sprintf("mesh_%d", idx)
	}
	var prims []*scene.Primitive
	for pi, p := range m.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			core.LogWarn("mesh %q primitive %d: mode %v is not drawn", name, pi, p.Mode)
			continue
		}
		prim, err := mi.primitive(p)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", name, pi, err)
		}
		prims = append(prims, prim)
	}
	mi.meshes[idx] = scene.NewMesh(name, prims...)
	return mi.meshes[idx], nil
}

func (mi *modelImporter) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(mi.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return mi.doc.Accessors[idx], nil
}

func (mi *modelImporter) primitive(p *gltf.Primitive) (*scene.Primitive, error) {
	ext, compressed, err := dracoExtensionOf(p)
	if err != nil {
		return nil, err
	}
	prim := &scene.Primitive{}
	if compressed {
		mesh, err := mi.dracoPrimitive(ext)
		if err != nil {
			return nil, err
		}
		prim.Positions, prim.Normals, prim.Indices = mesh.Positions, mesh.Normals, mesh.Indices
	} else if err := mi.readAttributes(p, prim); err != nil {
		return nil, err
	}
	for _, i := range prim.Indices {
		if int(i) >= len(prim.Positions) {
			return nil, fmt.Errorf("index %d out of range", i)
		}
	}
	if len(prim.Normals) != len(prim.Positions) {
		prim.Normals = math.GenerateFlatNormals(prim.Positions, prim.Indices)
	}

	if idx, ok := optionalIndex(p.Material); ok && idx >= 0 && idx < len(mi.materials) {
		prim.Material = mi.materials[idx]
	} else {
		if mi.fallback == nil {
			mi.fallback = scene.NewMaterial(scene.DefaultMaterialName, colorful.Color{R: 0.8, G: 0.8, B: 0.8})
			mi.out.Materials = append(mi.out.Materials, mi.fallback)
		}
		prim.Material = mi.fallback
	}
	return prim, nil
}

func (mi *modelImporter) readAttributes(p *gltf.Primitive, prim *scene.Primitive) error {
	posIdx, ok := p.Attributes["POSITION"]
	if !ok {
		return errors.New("missing POSITION attribute")
	}
	acr, err := mi.accessor(int(posIdx))
	if err != nil {
		return err
	}
	raw, err := modeler.ReadPosition(mi.doc, acr, nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}
	prim.Positions = make([]math.Vec3, len(raw))
	for i, v := range raw {
		prim.Positions[i] = math.Vec3(v)
	}

	if idx, ok := optionalIndex(p.Indices); ok {
		acr, err := mi.accessor(idx)
		if err != nil {
			return err
		}
		if prim.Indices, err = modeler.ReadIndices(mi.doc, acr, nil); err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		prim.Indices = make([]uint32, len(prim.Positions))
		for i := range prim.Indices {
			prim.Indices[i] = uint32(i)
		}
	}

	if nIdx, ok := p.Attributes["NORMAL"]; ok {
		acr, err := mi.accessor(int(nIdx))
		if err != nil {
			return err
		}
		normals, err := modeler.ReadNormal(mi.doc, acr, nil)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
		prim.Normals = make([]math.Vec3, len(normals))
		for i, v := range normals {
			prim.Normals[i] = math.Vec3(v)
		}
	}
	return nil
}

func (mi *modelImporter) importAnimation(i int, a *gltf.Animation) (*anim.Clip, error) {
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", i)
	}
	var tracks []*anim.Track
	for ci, ch := range a.Channels {
		nodeIdx, ok := optionalIndex(ch.Target.Node)
		if !ok || nodeIdx < 0 || nodeIdx >= len(mi.nodes) {
			continue
		}
		var path anim.Path
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			path = anim.PathTranslation
		case gltf.TRSRotation:
			path = anim.PathRotation
		case gltf.TRSScale:
			path = anim.PathScale
		default:
			// morph target weights are not supported
			continue
		}
		sIdx, ok := optionalIndex(ch.Sampler)
		if !ok || sIdx < 0 || sIdx >= len(a.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: bad sampler", name, ci)
		}
		track, err := mi.track(a.Samplers[sIdx], path)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: %w", name, ci, err)
		}
		track.Target = mi.nodes[nodeIdx].Transform
		tracks = append(tracks, track)
	}
	return anim.NewClip(name, tracks), nil
}

func (mi *modelImporter) track(s *gltf.AnimationSampler, path anim.Path) (*anim.Track, error) {
	track := &anim.Track{Path: path}
	switch s.Interpolation {
	case gltf.InterpolationLinear:
		track.Interpolation = anim.InterpolationLinear
	case gltf.InterpolationStep:
		track.Interpolation = anim.InterpolationStep
	default:
		return nil, errors.New("cubic spline interpolation is not supported")
	}

	in, _ := optionalIndex(s.Input)
	acr, err := mi.accessor(in)
	if err != nil {
		return nil, err
	}
	times, err := modeler.ReadAccessor(mi.doc, acr, nil)
	if err != nil {
		return nil, err
	}
	t, ok := times.([]float32)
	if !ok {
		return nil, fmt.Errorf("keyframe times are %T, want []float32", times)
	}
	track.Times = t

	out, _ := optionalIndex(s.Output)
	if acr, err = mi.accessor(out); err != nil {
		return nil, err
	}
	values, err := modeler.ReadAccessor(mi.doc, acr, nil)
	if err != nil {
		return nil, err
	}
	switch v := values.(type) {
	case [][3]float32:
		for _, e := range v {
			track.Values = append(track.Values, e[:]...)
		}
	case [][4]float32:
		for _, e := range v {
			track.Values = append(track.Values, e[:]...)
		}
	default:
		return nil, fmt.Errorf("keyframe values are %T", values)
	}
	if len(track.Values) != len(track.Times)*path.Components() {
		return nil, fmt.Errorf("%d keyframes but %d values", len(track.Times), len(track.Values))
	}
	return track, nil
}

// optionalIndex unwraps the index fields of a glTF document, which are
// either plain or optional integers.
func optionalIndex(v any) (int, bool) {
	switch i := v.(type) {
	case int:
		return i, true
	case *int:
		if i == nil {
			return 0, false
		}
		return *i, true
	case uint32:
		return int(i), true
	case *uint32:
		if i == nil {
			return 0, false
		}
		return int(*i), true
	default:
		return 0, false
	}
}
