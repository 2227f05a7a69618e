package resources

import (
	"github.com/spaghettifunk/houseview/engine/anim"
	"github.com/spaghettifunk/houseview/engine/scene"
	"github.com/spaghettifunk/houseview/engine/ui"
)

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Files the asset manager does not know how to load. */
	ResourceTypeNone ResourceType = iota
	/** @brief Equirectangular environment image (.hdr or LDR formats). */
	ResourceTypeEnvironment
	/** @brief glTF model (.glb or .gltf). */
	ResourceTypeModel
	/** @brief Overlay layout document (.toml). */
	ResourceTypeLayout
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeEnvironment:
		return "environment"
	case ResourceTypeModel:
		return "model"
	case ResourceTypeLayout:
		return "layout"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource, relative to the assets directory. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	Type     ResourceType
	/** @brief The size of the file the resource was decoded from. */
	DataSize uint64
	/** @brief The resource data, one of the *ResourceData types below. */
	Data interface{}
}

/**
 * @brief Decoded environment image: linear RGB floats, row-major, top row first.
 */
type EnvironmentResourceData struct {
	Width  uint32
	Height uint32
	Pixels []float32
}

// ModelResourceData is an imported scene hierarchy ready to be added to a
// scene. Meshes and Materials list what the hierarchy references.
type ModelResourceData struct {
	Root      *scene.Node
	Meshes    []*scene.Mesh
	Materials []*scene.Material
	Clips     []*anim.Clip
}

type LayoutResourceData struct {
	Layout *ui.LayoutSpec
}
