package scene

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/**
 * @brief A material, which represents the surface properties of a mesh.
 * Materials are identified by name and may be shared across meshes.
 */
type Material struct {
	/** @brief The material name. */
	Name string
	/** @brief The base colour, in sRGB. */
	Color     colorful.Color
	Metallic  float32
	Roughness float32
	/** @brief Back faces are rendered and pickable when set. */
	DoubleSided bool
	/** @brief Incremented every time the material is changed. */
	Generation uint32
}

func NewMaterial(name string, color colorful.Color) *Material {
	return &Material{
		Name:      name,
		Color:     color,
		Metallic:  0,
		Roughness: 1,
	}
}

// SetColor replaces the base colour and bumps the generation.
func (m *Material) SetColor(c colorful.Color) {
	m.Color = c
	m.Generation++
}

// SetHexColor parses a "#RRGGBB" colour and applies it.
func (m *Material) SetHexColor(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("material %q: %w", m.Name, err)
	}
	m.SetColor(c)
	return nil
}

// LinearColor returns the base colour in linear RGB for shading.
func (m *Material) LinearColor() [3]float32 {
	r, g, b := m.Color.LinearRgb()
	return [3]float32{float32(r), float32(g), float32(b)}
}
