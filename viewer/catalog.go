package viewer

import "github.com/spaghettifunk/houseview/engine/scene"

// Swatch is the colour and description a material takes when clicked.
type Swatch struct {
	Color       string
	Description string
}

// Catalog names the materials that react to clicks.
type Catalog struct {
	RoofMaterial string
	RoofColor    string
	Swatches     map[string]Swatch
}

func DefaultCatalog() Catalog {
	return Catalog{
		RoofMaterial: "Roof",
		RoofColor:    "#8B0000",
		Swatches: map[string]Swatch{
			"Material.137": {Color: "#FFD700", Description: "Title of obj: ROOF"},
			"Window":       {Color: "#87CEEB", Description: "Title of obj: WINDOW"},
			"Door":         {Color: "#8B4513", Description: "Title of obj: DOOR"},
		},
	}
}

// Matches reports whether a material with this name reacts to clicks.
func (c Catalog) Matches(name string) bool {
	if name == c.RoofMaterial {
		return true
	}
	_, ok := c.Swatches[name]
	return ok
}

// ClickableMeshes keeps the meshes with at least one known material.
func (c Catalog) ClickableMeshes(meshes []*scene.Mesh) []*scene.Mesh {
	var out []*scene.Mesh
	for _, m := range meshes {
		if m.HasMaterialNamed(c.Matches) {
			out = append(out, m)
		}
	}
	return out
}
