package loaders

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qmuntal/draco-go/draco"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/spaghettifunk/houseview/engine/math"
)

const dracoExtension = "KHR_draco_mesh_compression"

// dracoPrimitive is the KHR_draco_mesh_compression object of a primitive.
// Attributes map glTF semantics to Draco unique attribute ids.
type dracoPrimitive struct {
	BufferView int               `json:"bufferView"`
	Attributes map[string]uint32 `json:"attributes"`
}

type dracoMesh struct {
	Indices   []uint32
	Positions []math.Vec3
	Normals   []math.Vec3
}

// decodeDraco turns a compressed buffer view into triangle data.
var decodeDraco = func(data []byte, ext *dracoPrimitive) (*dracoMesh, error) {
	m := draco.NewMesh()
	if err := draco.NewDecoder().DecodeMesh(m, data); err != nil {
		return nil, err
	}
	out := &dracoMesh{Indices: m.Faces(make([]uint32, m.NumFaces()*3))}
	points := int(m.NumPoints())

	read := func(semantic string) ([]math.Vec3, error) {
		id, ok := ext.Attributes[semantic]
		if !ok {
			return nil, nil
		}
		attr := m.AttrByUniqueID(id)
		if attr == nil {
			return nil, fmt.Errorf("%s: no draco attribute %d", semantic, id)
		}
		buf := make([]float32, points*3)
		if _, ok := m.AttrData(attr, buf); !ok {
			return nil, fmt.Errorf("%s: cannot read draco attribute %d", semantic, id)
		}
		vs := make([]math.Vec3, points)
		for i := range vs {
			vs[i] = math.Vec3{buf[i*3], buf[i*3+1], buf[i*3+2]}
		}
		return vs, nil
	}

	var err error
	if out.Positions, err = read("POSITION"); err != nil {
		return nil, err
	}
	if out.Normals, err = read("NORMAL"); err != nil {
		return nil, err
	}
	return out, nil
}

// dracoExtensionOf returns the primitive's Draco extension, if any.
func dracoExtensionOf(p *gltf.Primitive) (*dracoPrimitive, bool, error) {
	v, ok := p.Extensions[dracoExtension]
	if !ok {
		return nil, false, nil
	}
	ext := &dracoPrimitive{}
	switch raw := v.(type) {
	case json.RawMessage:
		if err := json.Unmarshal(raw, ext); err != nil {
			return nil, true, fmt.Errorf("%s: %w", dracoExtension, err)
		}
	case []byte:
		if err := json.Unmarshal(raw, ext); err != nil {
			return nil, true, fmt.Errorf("%s: %w", dracoExtension, err)
		}
	default:
		return nil, true, fmt.Errorf("%s: unexpected extension value %T", dracoExtension, v)
	}
	return ext, true, nil
}

func (mi *modelImporter) dracoPrimitive(ext *dracoPrimitive) (*dracoMesh, error) {
	if _, ok := ext.Attributes["POSITION"]; !ok {
		return nil, errors.New("draco primitive without POSITION")
	}
	if ext.BufferView < 0 || ext.BufferView >= len(mi.doc.BufferViews) {
		return nil, fmt.Errorf("draco buffer view %d out of range", ext.BufferView)
	}
	data, err := modeler.ReadBufferView(mi.doc, mi.doc.BufferViews[ext.BufferView])
	if err != nil {
		return nil, fmt.Errorf("read draco buffer: %w", err)
	}
	mesh, err := decodeDraco(data, ext)
	if err != nil {
		return nil, fmt.Errorf("decode draco: %w", err)
	}
	if len(mesh.Positions) == 0 {
		return nil, errors.New("draco mesh has no positions")
	}
	return mesh, nil
}
